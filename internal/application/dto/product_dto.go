package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name       string          `json:"name" validate:"required,min=1,max=200"`
	Barcode    string          `json:"barcode" validate:"required,min=1,max=50"`
	CategoryID string          `json:"category_id" validate:"required"`
	Price      decimal.Decimal `json:"price" validate:"min=0"`
	Stock      int             `json:"stock" validate:"min=0"`
	Status     string          `json:"status" validate:"omitempty,oneof=Activo Inactivo"`
}

// UpdateProductRequest entrada para actualizar un producto. El stock solo cambia con
// devoluciones, bajas o lotes.
type UpdateProductRequest struct {
	Name       *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Barcode    *string          `json:"barcode" validate:"omitempty,min=1,max=50"`
	CategoryID *string          `json:"category_id" validate:"omitempty,min=1"`
	Price      *decimal.Decimal `json:"price"`
	Status     *string          `json:"status" validate:"omitempty,oneof=Activo Inactivo"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Barcode      string          `json:"barcode"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductDetailRequest entrada para crear o actualizar un lote.
type ProductDetailRequest struct {
	ProductID string     `json:"product_id" validate:"required"`
	Barcode   string     `json:"barcode" validate:"omitempty,max=50"`
	ExpiresAt *time.Time `json:"expires_at"`
	Stock     int        `json:"stock" validate:"min=0"`
	Status    string     `json:"status" validate:"omitempty,oneof=Activo Inactivo"`
}

// ProductDetailResponse salida de un lote.
type ProductDetailResponse struct {
	ID          string     `json:"id"`
	ProductID   string     `json:"product_id"`
	ProductName string     `json:"product_name"`
	Barcode     string     `json:"barcode"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Stock       int        `json:"stock"`
	Status      string     `json:"status"`
}
