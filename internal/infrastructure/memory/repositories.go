package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.ProductDetailRepository = (*ProductDetailRepo)(nil)
	_ repository.CategoryRepository      = (*Store[entity.Category])(nil)
	_ repository.ClientRepository        = (*Store[entity.Client])(nil)
	_ repository.SupplierRepository      = (*Store[entity.Supplier])(nil)
	_ repository.SaleRepository          = (*Store[entity.Sale])(nil)
	_ repository.PurchaseRepository      = (*Store[entity.Purchase])(nil)
	_ repository.ReturnRepository        = (*ReturnRepo)(nil)
	_ repository.UserRepository          = (*UserRepo)(nil)
	_ repository.RoleRepository          = (*RoleRepo)(nil)
	_ repository.PermissionRepository    = (*Store[entity.Permission])(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct {
	*Store[entity.Product]
}

// NewProductRepository construye el repositorio con seed.
func NewProductRepository(seed []entity.Product) *ProductRepo {
	return &ProductRepo{Store: NewStore(func(p entity.Product) string { return p.ID }, seed)}
}

// GetByBarcode busca por código de barras exacto.
func (r *ProductRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	p, _ := r.Find(func(p entity.Product) bool { return p.Barcode == barcode })
	return p, nil
}

// Update reemplaza los datos editables y conserva el stock guardado; el stock cambia vía AdjustStock.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.Mutate(p.ID, func(stored *entity.Product) error {
		stock := stored.Stock
		*stored = *p
		stored.Stock = stock
		p.Stock = stock
		return nil
	})
}

// AdjustStock suma delta sin dejar el stock negativo.
func (r *ProductRepo) AdjustStock(_ context.Context, productID string, delta int) error {
	return r.Mutate(productID, func(p *entity.Product) error {
		if p.Stock+delta < 0 {
			return domain.ErrInsufficientStock
		}
		p.Stock += delta
		return nil
	})
}

// ProductDetailRepo lotes en memoria.
type ProductDetailRepo struct {
	*Store[entity.ProductDetail]
}

// NewProductDetailRepository construye el repositorio con seed.
func NewProductDetailRepository(seed []entity.ProductDetail) *ProductDetailRepo {
	return &ProductDetailRepo{Store: NewStore(func(d entity.ProductDetail) string { return d.ID }, seed)}
}

// ListByProduct lotes de un producto.
func (r *ProductDetailRepo) ListByProduct(ctx context.Context, productID string) ([]entity.ProductDetail, error) {
	all, _ := r.All(ctx)
	out := make([]entity.ProductDetail, 0)
	for _, d := range all {
		if d.ProductID == productID {
			out = append(out, d)
		}
	}
	return out, nil
}

// NewCategoryRepository categorías en memoria.
func NewCategoryRepository(seed []entity.Category) *Store[entity.Category] {
	return NewStore(func(c entity.Category) string { return c.ID }, seed)
}

// NewClientRepository clientes en memoria.
func NewClientRepository(seed []entity.Client) *Store[entity.Client] {
	return NewStore(func(c entity.Client) string { return c.ID }, seed)
}

// NewSupplierRepository proveedores en memoria.
func NewSupplierRepository(seed []entity.Supplier) *Store[entity.Supplier] {
	return NewStore(func(s entity.Supplier) string { return s.ID }, seed)
}

// NewSaleRepository ventas en memoria.
func NewSaleRepository(seed []entity.Sale) *Store[entity.Sale] {
	return NewStore(func(s entity.Sale) string { return s.ID }, seed)
}

// NewPurchaseRepository compras en memoria.
func NewPurchaseRepository(seed []entity.Purchase) *Store[entity.Purchase] {
	return NewStore(func(p entity.Purchase) string { return p.ID }, seed)
}

// NewPermissionRepository catálogo de permisos en memoria.
func NewPermissionRepository(seed []entity.Permission) *Store[entity.Permission] {
	return NewStore(func(p entity.Permission) string { return p.ID }, seed)
}

// ReturnRepo devoluciones y bajas en memoria con consecutivo por tipo.
type ReturnRepo struct {
	mu      sync.Mutex
	records []entity.ReturnRecord
	next    map[string]int
}

// NewReturnRepository construye el repositorio; el consecutivo continúa desde el máximo sembrado.
func NewReturnRepository(seed []entity.ReturnRecord) *ReturnRepo {
	r := &ReturnRepo{next: make(map[string]int)}
	for _, rec := range seed {
		r.records = append(r.records, rec)
		if rec.Number >= r.next[rec.Kind] {
			r.next[rec.Kind] = rec.Number
		}
	}
	return r
}

// ListByKind registros del tipo en orden de creación.
func (r *ReturnRepo) ListByKind(_ context.Context, kind string) ([]entity.ReturnRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.ReturnRecord, 0)
	for _, rec := range r.records {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out, nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ReturnRepo) GetByID(_ context.Context, id string) (*entity.ReturnRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			out := rec
			return &out, nil
		}
	}
	return nil, nil
}

// Append asigna Number y agrega al final.
func (r *ReturnRepo) Append(_ context.Context, record *entity.ReturnRecord) error {
	if record.ID == "" || record.Kind == "" {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next[record.Kind]++
	record.Number = r.next[record.Kind]
	r.records = append(r.records, *record)
	return nil
}

// UserRepo usuarios en memoria.
type UserRepo struct {
	*Store[entity.User]
}

// NewUserRepository construye el repositorio con seed.
func NewUserRepository(seed []entity.User) *UserRepo {
	return &UserRepo{Store: NewStore(func(u entity.User) string { return u.ID }, seed)}
}

// GetByEmail busca sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u, _ := r.Find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) })
	return u, nil
}

// Create rechaza emails repetidos. La verificación y la inserción ocurren bajo el mismo candado.
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.Insert(u, func(existing entity.User) error {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
		return nil
	})
}

// RoleRepo roles en memoria.
type RoleRepo struct {
	*Store[entity.Role]
}

// NewRoleRepository construye el repositorio con seed.
func NewRoleRepository(seed []entity.Role) *RoleRepo {
	return &RoleRepo{Store: NewStore(func(r entity.Role) string { return r.ID }, seed)}
}

// GetByName busca sin distinguir mayúsculas.
func (r *RoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	role, _ := r.Find(func(r entity.Role) bool { return strings.EqualFold(r.Name, name) })
	return role, nil
}
