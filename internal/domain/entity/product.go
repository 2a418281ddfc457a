package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. Stock es el disponible para devoluciones y bajas.
type Product struct {
	ID           string
	Name         string
	Barcode      string
	CategoryID   string
	CategoryName string
	Price        decimal.Decimal
	Stock        int
	Status       string // Activo, Inactivo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductDetail es un lote de un producto: código de barras, vencimiento y stock propio.
type ProductDetail struct {
	ID          string
	ProductID   string
	ProductName string
	Barcode     string
	ExpiresAt   *time.Time
	Stock       int
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
