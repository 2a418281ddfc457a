package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kajamart/admin-api/internal/application/dto"
	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/repository"
	"github.com/kajamart/admin-api/pkg/eventbus"
)

// ── Categorías ────────────────────────────────────────────────────────────────

// CategoryUseCase CRUD de categorías.
type CategoryUseCase struct {
	repo     repository.CategoryRepository
	products repository.ProductRepository
	changes  *eventbus.Bus[domain.EntityChanged]
	now      func() time.Time
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, products repository.ProductRepository, changes *eventbus.Bus[domain.EntityChanged]) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, products: products, changes: changes, now: time.Now}
}

// Create crea una categoría.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	now := uc.now()
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Status:      statusOrActive(in.Status),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityCategories, ID: c.ID, Action: domain.ActionCreated})
	out := toCategoryResponse(*c)
	return &out, nil
}

// GetByID devuelve domain.ErrNotFound si no existe.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := toCategoryResponse(*c)
	return &out, nil
}

// Update reemplaza los datos de la categoría. El nombre nuevo se copia a sus productos.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	renamed := strings.TrimSpace(in.Name) != c.Name
	c.Name = strings.TrimSpace(in.Name)
	c.Description = strings.TrimSpace(in.Description)
	if in.Status != "" {
		c.Status = in.Status
	}
	c.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	if renamed {
		if err := uc.renameInProducts(ctx, c); err != nil {
			return nil, err
		}
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityCategories, ID: c.ID, Action: domain.ActionUpdated})
	out := toCategoryResponse(*c)
	return &out, nil
}

func (uc *CategoryUseCase) renameInProducts(ctx context.Context, c *entity.Category) error {
	products, err := uc.products.All(ctx)
	if err != nil {
		return err
	}
	touched := false
	for i := range products {
		if products[i].CategoryID != c.ID {
			continue
		}
		products[i].CategoryName = c.Name
		if err := uc.products.Update(ctx, &products[i]); err != nil {
			return err
		}
		touched = true
	}
	if touched {
		uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityProducts, Action: domain.ActionUpdated})
	}
	return nil
}

// Delete rechaza con domain.ErrConflict una categoría con productos.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	products, err := uc.products.All(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.CategoryID == id {
			return domain.ErrConflict
		}
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityCategories, ID: id, Action: domain.ActionDeleted})
	return nil
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// ClientUseCase CRUD de clientes.
type ClientUseCase struct {
	repo    repository.ClientRepository
	changes *eventbus.Bus[domain.EntityChanged]
	now     func() time.Time
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, changes *eventbus.Bus[domain.EntityChanged]) *ClientUseCase {
	return &ClientUseCase{repo: repo, changes: changes, now: time.Now}
}

// Create crea un cliente; el documento es único.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if err := uc.ensureUniqueDocument(ctx, "", in.Document); err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.Client{ID: uuid.New().String(), CreatedAt: now}
	applyClient(c, in)
	c.UpdatedAt = now
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityClients, ID: c.ID, Action: domain.ActionCreated})
	out := toClientResponse(*c)
	return &out, nil
}

// GetByID devuelve domain.ErrNotFound si no existe.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := toClientResponse(*c)
	return &out, nil
}

// Update reemplaza los datos del cliente.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.ensureUniqueDocument(ctx, id, in.Document); err != nil {
		return nil, err
	}
	status := c.Status
	applyClient(c, in)
	if in.Status == "" {
		c.Status = status
	}
	c.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityClients, ID: c.ID, Action: domain.ActionUpdated})
	out := toClientResponse(*c)
	return &out, nil
}

// Delete elimina un cliente.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntityClients, ID: id, Action: domain.ActionDeleted})
	return nil
}

func (uc *ClientUseCase) ensureUniqueDocument(ctx context.Context, selfID, document string) error {
	all, err := uc.repo.All(ctx)
	if err != nil {
		return err
	}
	document = strings.TrimSpace(document)
	for _, c := range all {
		if c.ID != selfID && strings.EqualFold(c.Document, document) {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func applyClient(c *entity.Client, in dto.ClientRequest) {
	c.Document = strings.TrimSpace(in.Document)
	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.TrimSpace(in.Email)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Address = strings.TrimSpace(in.Address)
	c.Status = statusOrActive(in.Status)
}

// ── Proveedores ───────────────────────────────────────────────────────────────

// SupplierUseCase CRUD de proveedores con los productos que surten.
type SupplierUseCase struct {
	repo    repository.SupplierRepository
	changes *eventbus.Bus[domain.EntityChanged]
	now     func() time.Time
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, changes *eventbus.Bus[domain.EntityChanged]) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, changes: changes, now: time.Now}
}

// Create crea un proveedor.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	now := uc.now()
	s := &entity.Supplier{ID: uuid.New().String(), CreatedAt: now}
	if err := applySupplier(s, in); err != nil {
		return nil, err
	}
	s.UpdatedAt = now
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntitySuppliers, ID: s.ID, Action: domain.ActionCreated})
	out := toSupplierResponse(*s)
	return &out, nil
}

// GetByID devuelve domain.ErrNotFound si no existe.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	out := toSupplierResponse(*s)
	return &out, nil
}

// Update reemplaza los datos del proveedor y su lista de productos.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	status := s.Status
	if err := applySupplier(s, in); err != nil {
		return nil, err
	}
	if in.Status == "" {
		s.Status = status
	}
	s.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntitySuppliers, ID: s.ID, Action: domain.ActionUpdated})
	out := toSupplierResponse(*s)
	return &out, nil
}

// Delete elimina un proveedor.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.changes.Publish(ctx, domain.EntityChanged{Entity: EntitySuppliers, ID: id, Action: domain.ActionDeleted})
	return nil
}

func applySupplier(s *entity.Supplier, in dto.SupplierRequest) error {
	s.NIT = strings.TrimSpace(in.NIT)
	s.Name = strings.TrimSpace(in.Name)
	s.Contact = strings.TrimSpace(in.Contact)
	s.Email = strings.TrimSpace(in.Email)
	s.Phone = strings.TrimSpace(in.Phone)
	s.Status = statusOrActive(in.Status)
	s.Products = make([]entity.SupplierProduct, 0, len(in.Products))
	for _, p := range in.Products {
		if p.Price.IsNegative() || p.Stock < 0 {
			return domain.ErrInvalidInput
		}
		s.Products = append(s.Products, entity.SupplierProduct{ProductID: p.ProductID, Name: p.Name, Price: p.Price, Stock: p.Stock})
	}
	return nil
}
