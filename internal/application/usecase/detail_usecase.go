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

// EntityDetails nombre de los lotes en los eventos de cambio.
const EntityDetails = "details-products"

// DetailFetcher origen externo de lotes (backend heredado).
type DetailFetcher interface {
	FetchProductDetails(ctx context.Context) ([]entity.ProductDetail, error)
}

// DetailUseCase lotes de producto (detalle de producto).
type DetailUseCase struct {
	repo     repository.ProductDetailRepository
	products repository.ProductRepository
	fetcher  DetailFetcher
	changes  *eventbus.Bus[domain.EntityChanged]
	now      func() time.Time
}

// NewDetailUseCase construye el caso de uso. fetcher puede ser nil (sin sincronización).
func NewDetailUseCase(repo repository.ProductDetailRepository, products repository.ProductRepository, fetcher DetailFetcher, changes *eventbus.Bus[domain.EntityChanged]) *DetailUseCase {
	return &DetailUseCase{repo: repo, products: products, fetcher: fetcher, changes: changes, now: time.Now}
}

// List lotes de un producto, o todos si productID está vacío.
func (uc *DetailUseCase) List(ctx context.Context, productID string) ([]dto.ProductDetailResponse, error) {
	var (
		list []entity.ProductDetail
		err  error
	)
	if productID == "" {
		list, err = uc.repo.All(ctx)
	} else {
		list, err = uc.repo.ListByProduct(ctx, productID)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductDetailResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDetailResponse(d))
	}
	return out, nil
}

// GetByID devuelve domain.ErrNotFound si no existe.
func (uc *DetailUseCase) GetByID(ctx context.Context, id string) (*dto.ProductDetailResponse, error) {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	out := toDetailResponse(*d)
	return &out, nil
}

// Create crea un lote del producto indicado.
func (uc *DetailUseCase) Create(ctx context.Context, in dto.ProductDetailRequest) (*dto.ProductDetailResponse, error) {
	d := &entity.ProductDetail{ID: uuid.New().String(), CreatedAt: uc.now()}
	if err := uc.apply(ctx, d, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityDetails, ID: d.ID, Action: domain.ActionCreated})
	out := toDetailResponse(*d)
	return &out, nil
}

// Update reemplaza los datos del lote.
func (uc *DetailUseCase) Update(ctx context.Context, id string, in dto.ProductDetailRequest) (*dto.ProductDetailResponse, error) {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.apply(ctx, d, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityDetails, ID: d.ID, Action: domain.ActionUpdated})
	out := toDetailResponse(*d)
	return &out, nil
}

// Delete elimina un lote.
func (uc *DetailUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityDetails, ID: id, Action: domain.ActionDeleted})
	return nil
}

// SyncResult resumen de una sincronización.
type SyncResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Sync trae los lotes del backend heredado y crea o actualiza por ID. Se omiten los lotes
// sin ID o cuyo producto no existe aquí.
func (uc *DetailUseCase) Sync(ctx context.Context) (*SyncResult, error) {
	if uc.fetcher == nil {
		return nil, fmt.Errorf("%w: sincronización no configurada", domain.ErrConflict)
	}
	remote, err := uc.fetcher.FetchProductDetails(ctx)
	if err != nil {
		return nil, err
	}
	res := &SyncResult{}
	for _, r := range remote {
		if r.ID == "" {
			res.Skipped++
			continue
		}
		in := dto.ProductDetailRequest{
			ProductID: r.ProductID,
			Barcode:   r.Barcode,
			ExpiresAt: r.ExpiresAt,
			Stock:     r.Stock,
			Status:    r.Status,
		}
		existing, err := uc.repo.GetByID(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		d := existing
		if d == nil {
			d = &entity.ProductDetail{ID: r.ID, CreatedAt: uc.now()}
		}
		if err := uc.apply(ctx, d, in); err != nil {
			res.Skipped++
			continue
		}
		if existing == nil {
			err = uc.repo.Create(ctx, d)
			res.Created++
		} else {
			err = uc.repo.Update(ctx, d)
			res.Updated++
		}
		if err != nil {
			return nil, err
		}
	}
	if res.Created+res.Updated > 0 {
		uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityDetails, Action: domain.ActionUpdated})
	}
	return res, nil
}

func (uc *DetailUseCase) apply(ctx context.Context, d *entity.ProductDetail, in dto.ProductDetailRequest) error {
	if in.Stock < 0 {
		return domain.ErrInvalidInput
	}
	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: el producto %s no existe", domain.ErrInvalidInput, in.ProductID)
	}
	d.ProductID = product.ID
	d.ProductName = product.Name
	d.Barcode = strings.TrimSpace(in.Barcode)
	if d.Barcode == "" {
		d.Barcode = product.Barcode
	}
	d.ExpiresAt = in.ExpiresAt
	d.Stock = in.Stock
	d.Status = statusOrActive(in.Status)
	d.UpdatedAt = uc.now()
	return nil
}
