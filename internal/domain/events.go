package domain

import "github.com/kajamart/admin-api/internal/domain/entity"

// Acciones de EntityChanged.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EntityChanged se publica cuando una fila de un listado cambia (crear, editar, eliminar).
// Reemplaza los eventos globales disparados desde las filas de las tablas.
type EntityChanged struct {
	Entity string
	ID     string
	Action string
}

// ReturnConfirmed se publica al confirmar una devolución o baja.
type ReturnConfirmed struct {
	Record entity.ReturnRecord
}
