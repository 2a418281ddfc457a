package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kajamart/admin-api/internal/application/dto"
	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/repository"
	"github.com/kajamart/admin-api/pkg/eventbus"
)

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia con devoluciones y bajas.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	changes    *eventbus.Bus[domain.EntityChanged]
	now        func() time.Time
}

// NewProductUseCase construye el caso de uso. changes puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, categories repository.CategoryRepository, changes *eventbus.Bus[domain.EntityChanged]) *ProductUseCase {
	return &ProductUseCase{repo: repo, categories: categories, changes: changes, now: time.Now}
}

// Create crea un producto. El código de barras es único y la categoría debe existir.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Price.IsNegative() || in.Stock < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByBarcode(ctx, strings.TrimSpace(in.Barcode))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	category, err := uc.category(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Barcode:      strings.TrimSpace(in.Barcode),
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Price:        in.Price,
		Stock:        in.Stock,
		Status:       statusOrActive(in.Status),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityProducts, ID: product.ID, Action: domain.ActionCreated})
	out := ToProductResponse(*product)
	return &out, nil
}

// GetByID devuelve domain.ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	out := ToProductResponse(*product)
	return &out, nil
}

// Update actualiza los campos presentes.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Barcode != nil && strings.TrimSpace(*in.Barcode) != product.Barcode {
		barcode := strings.TrimSpace(*in.Barcode)
		other, err := uc.repo.GetByBarcode(ctx, barcode)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != product.ID {
			return nil, domain.ErrDuplicate
		}
		product.Barcode = barcode
	}
	if in.CategoryID != nil {
		category, err := uc.category(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID, product.CategoryName = category.ID, category.Name
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.Status != nil {
		product.Status = *in.Status
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityProducts, ID: product.ID, Action: domain.ActionUpdated})
	out := ToProductResponse(*product)
	return &out, nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityProducts, ID: id, Action: domain.ActionDeleted})
	return nil
}

func (uc *ProductUseCase) category(ctx context.Context, id string) (*entity.Category, error) {
	category, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: la categoría %s no existe", domain.ErrInvalidInput, id)
	}
	return category, nil
}

func statusOrActive(s string) string {
	if entity.ValidStatus(s) {
		return s
	}
	return entity.StatusActive
}
