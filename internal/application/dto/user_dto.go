package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Document string `json:"document" validate:"required,min=5,max=20"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	RoleID   string `json:"role_id" validate:"required"`
	Status   string `json:"status" validate:"omitempty,oneof=Activo Inactivo"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Document  string    `json:"document"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	RoleID    string    `json:"role_id"`
	RoleName  string    `json:"role_name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y usuario autenticado.
type LoginResponse struct {
	Token       string       `json:"token"`
	User        UserResponse `json:"user"`
	Permissions []string     `json:"permissions"`
}

// PermissionDTO permiso del catálogo.
type PermissionDTO struct {
	ID     string `json:"id"`
	Module string `json:"module"`
	Action string `json:"action"`
}

// RoleRequest entrada para crear o actualizar un rol. Permissions son claves "modulo:accion";
// cualquier escritura agrega la lectura del módulo.
type RoleRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=120"`
	Description string   `json:"description" validate:"max=500"`
	Status      string   `json:"status" validate:"omitempty,oneof=Activo Inactivo"`
	Permissions []string `json:"permissions" validate:"dive,required"`
}

// RoleResponse salida de un rol con su matriz.
type RoleResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	Permissions []PermissionDTO `json:"permissions"`
	Matrix      []MatrixRow     `json:"matrix"`
}

// MatrixRow fila de la matriz de permisos (módulo x acciones).
type MatrixRow struct {
	Module  string          `json:"module"`
	Actions map[string]bool `json:"actions"`
}
