package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier es un proveedor con la foto de precio/stock de los productos que surte.
type Supplier struct {
	ID        string
	NIT       string
	Name      string
	Contact   string
	Email     string
	Phone     string
	Status    string
	Products  []SupplierProduct
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SupplierProduct producto surtido por un proveedor.
type SupplierProduct struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Stock     int
}
