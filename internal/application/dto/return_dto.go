package dto

import "time"

// OpenSessionRequest abre un registro de devolución o baja.
type OpenSessionRequest struct {
	Kind string `json:"kind" validate:"required,oneof=client low"`
}

// SearchRequest término de búsqueda de productos dentro del registro.
type SearchRequest struct {
	Term string `json:"term" validate:"max=100"`
}

// SelectProductRequest agrega un producto como candidato.
type SelectProductRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// QuantityRequest fija la cantidad de un candidato.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ReasonRequest asigna el motivo de un candidato.
type ReasonRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ConfirmRequest datos generales del registro. El responsable por defecto es el usuario autenticado.
type ConfirmRequest struct {
	Responsible string `json:"responsible" validate:"max=200"`
	ClientName  string `json:"client_name" validate:"max=200"`
	Reason      string `json:"reason" validate:"max=300"`
	Note        string `json:"note" validate:"max=500"`
}

// CandidateDTO producto candidato con su cantidad y motivo.
type CandidateDTO struct {
	ProductID         string `json:"product_id"`
	Name              string `json:"name"`
	StockAvailable    int    `json:"stock_available"`
	RequestedQuantity int    `json:"requested_quantity"`
	Reason            string `json:"reason"`
}

// AlertDTO alerta bloqueante emitida por la última operación.
type AlertDTO struct {
	Kind      string `json:"kind"`
	ProductID string `json:"product_id,omitempty"`
	Max       int    `json:"max,omitempty"`
	Message   string `json:"message"`
}

// SessionResponse estado del registro en curso.
type SessionResponse struct {
	ID         string            `json:"id"`
	Kind       string            `json:"kind"`
	State      string            `json:"state"`
	Term       string            `json:"term"`
	Matches    []ProductResponse `json:"matches"`
	Candidates []CandidateDTO    `json:"candidates"`
	Reasons    []string          `json:"reasons"`
	CanConfirm bool              `json:"can_confirm"`
	Alerts     []AlertDTO        `json:"alerts"`
}

// ReturnItemDTO línea de un registro confirmado.
type ReturnItemDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// ReturnRecordResponse devolución o baja confirmada.
type ReturnRecordResponse struct {
	ID            string          `json:"id"`
	Number        int             `json:"number"`
	Kind          string          `json:"kind"`
	Responsible   string          `json:"responsible"`
	ClientName    string          `json:"client_name,omitempty"`
	Reason        string          `json:"reason"`
	Note          string          `json:"note,omitempty"`
	Date          time.Time       `json:"date"`
	TotalQuantity int             `json:"total_quantity"`
	Items         []ReturnItemDTO `json:"items"`
}

// ConfirmResponse resultado de confirmar: el registro y el estado del flujo reiniciado.
type ConfirmResponse struct {
	Record  ReturnRecordResponse `json:"record"`
	Session SessionResponse      `json:"session"`
}
