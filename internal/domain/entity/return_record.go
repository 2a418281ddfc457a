package entity

import "time"

// Tipos de registro de devolución.
const (
	ReturnKindClient = "client" // devolución de cliente: el stock vuelve a inventario
	ReturnKindLow    = "low"    // baja: descarta stock por daño, vencimiento o pérdida
)

// ReturnRecord es una devolución o baja confirmada. No se modifica después de creada.
type ReturnRecord struct {
	ID          string
	Number      int // consecutivo por tipo (idLow en bajas)
	Kind        string
	Responsible string
	ClientName  string
	Reason      string // motivo general; por línea va en ReturnItem.Reason
	Note        string
	Date        time.Time
	Items       []ReturnItem
}

// ReturnItem es una línea de la devolución.
type ReturnItem struct {
	ProductID string
	Name      string
	Quantity  int
	Reason    string
}

// TotalQuantity suma las cantidades de todas las líneas.
func (r ReturnRecord) TotalQuantity() int {
	total := 0
	for _, it := range r.Items {
		total += it.Quantity
	}
	return total
}
