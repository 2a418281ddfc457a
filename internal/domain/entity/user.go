package entity

import "time"

// User representa un usuario administrativo.
type User struct {
	ID           string
	Document     string
	Name         string
	Email        string
	PasswordHash string // bcrypt, nunca plano después de persistir
	RoleID       string
	RoleName     string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role agrupa permisos (módulo x acción).
type Role struct {
	ID          string
	Name        string
	Description string
	Status      string
	Permissions []Permission
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission es una capacidad atómica sobre un módulo.
type Permission struct {
	ID     string
	Module string // productos, categorias, clientes, ...
	Action string // ver, crear, editar, eliminar
}

// Key identifica el permiso como "modulo:accion".
func (p Permission) Key() string { return p.Module + ":" + p.Action }
