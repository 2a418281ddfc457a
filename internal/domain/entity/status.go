package entity

// Estados visibles en las tablas. Se guardan con esta capitalización.
const (
	StatusActive   = "Activo"
	StatusInactive = "Inactivo"
)

// ValidStatus informa si s es un estado admitido.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive
}
