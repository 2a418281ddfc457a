package repository

import (
	"context"

	"github.com/kajamart/admin-api/internal/domain/entity"
)

// ProductRepository persistencia de productos.
type ProductRepository interface {
	CRUD[entity.Product]
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	// AdjustStock suma delta al stock; devuelve domain.ErrInsufficientStock si quedaría negativo.
	AdjustStock(ctx context.Context, productID string, delta int) error
}

// ProductDetailRepository persistencia de lotes de producto.
type ProductDetailRepository interface {
	CRUD[entity.ProductDetail]
	ListByProduct(ctx context.Context, productID string) ([]entity.ProductDetail, error)
}

// CategoryRepository persistencia de categorías.
type CategoryRepository interface {
	CRUD[entity.Category]
}

// ClientRepository persistencia de clientes.
type ClientRepository interface {
	CRUD[entity.Client]
}

// SupplierRepository persistencia de proveedores (con sus productos surtidos).
type SupplierRepository interface {
	CRUD[entity.Supplier]
}

// SaleRepository lectura de ventas registradas.
type SaleRepository interface {
	Source[entity.Sale]
}

// PurchaseRepository lectura de compras registradas.
type PurchaseRepository interface {
	Source[entity.Purchase]
}

// ReturnRepository registros de devoluciones y bajas. Solo se agregan, nunca se editan.
type ReturnRepository interface {
	ListByKind(ctx context.Context, kind string) ([]entity.ReturnRecord, error)
	GetByID(ctx context.Context, id string) (*entity.ReturnRecord, error)
	// Append asigna el consecutivo por tipo (Number) y persiste.
	Append(ctx context.Context, record *entity.ReturnRecord) error
}

// UserRepository persistencia de usuarios.
type UserRepository interface {
	CRUD[entity.User]
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// RoleRepository persistencia de roles con su matriz de permisos.
type RoleRepository interface {
	CRUD[entity.Role]
	GetByName(ctx context.Context, name string) (*entity.Role, error)
}

// PermissionRepository catálogo de permisos.
type PermissionRepository interface {
	Source[entity.Permission]
}
