package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de ventas y compras.
const (
	TradeStatusCompleted = "Completada"
	TradeStatusCancelled = "Anulada"
)

// Sale representa una venta registrada.
type Sale struct {
	ID            string
	ClientName    string
	Date          time.Time
	Total         decimal.Decimal
	PaymentMethod string // Efectivo, Tarjeta, Transferencia
	Status        string
}

// Purchase representa una compra a proveedor.
type Purchase struct {
	ID           string
	SupplierName string
	Date         time.Time
	Total        decimal.Decimal
	Status       string
}
