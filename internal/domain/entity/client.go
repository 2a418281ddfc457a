package entity

import "time"

// Client representa un cliente de la tienda.
type Client struct {
	ID        string
	Document  string // cédula o NIT
	Name      string
	Email     string
	Phone     string
	Address   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
