package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRequest entrada para crear o actualizar una categoría.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"max=500"`
	Status      string `json:"status" validate:"omitempty,oneof=Activo Inactivo"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// ClientRequest entrada para crear o actualizar un cliente.
type ClientRequest struct {
	Document string `json:"document" validate:"required,min=5,max=20"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
	Address  string `json:"address" validate:"omitempty,max=300"`
	Status   string `json:"status" validate:"omitempty,oneof=Activo Inactivo"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID       string `json:"id"`
	Document string `json:"document"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Status   string `json:"status"`
}

// SupplierProductDTO producto surtido por un proveedor.
type SupplierProductDTO struct {
	ProductID string          `json:"product_id" validate:"required"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price" validate:"min=0"`
	Stock     int             `json:"stock" validate:"min=0"`
}

// SupplierRequest entrada para crear o actualizar un proveedor.
type SupplierRequest struct {
	NIT      string               `json:"nit" validate:"required,min=5,max=20"`
	Name     string               `json:"name" validate:"required,min=1,max=200"`
	Contact  string               `json:"contact" validate:"omitempty,max=200"`
	Email    string               `json:"email" validate:"omitempty,email"`
	Phone    string               `json:"phone" validate:"omitempty,max=30"`
	Status   string               `json:"status" validate:"omitempty,oneof=Activo Inactivo"`
	Products []SupplierProductDTO `json:"products" validate:"dive"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID       string               `json:"id"`
	NIT      string               `json:"nit"`
	Name     string               `json:"name"`
	Contact  string               `json:"contact"`
	Email    string               `json:"email"`
	Phone    string               `json:"phone"`
	Status   string               `json:"status"`
	Products []SupplierProductDTO `json:"products"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string          `json:"id"`
	ClientName    string          `json:"client_name"`
	Date          time.Time       `json:"date"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID           string          `json:"id"`
	SupplierName string          `json:"supplier_name"`
	Date         time.Time       `json:"date"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
}
