package repository

import "context"

// Source origen de una colección completa para los listados (memoria, PostgreSQL o caché).
type Source[T any] interface {
	All(ctx context.Context) ([]T, error)
}

// CRUD puerto genérico de persistencia (DIP). GetByID devuelve (nil, nil) si no existe.
type CRUD[T any] interface {
	Source[T]
	GetByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id string) error
}

// SourceFunc adapta una función a Source.
type SourceFunc[T any] func(ctx context.Context) ([]T, error)

// All implementa Source.
func (f SourceFunc[T]) All(ctx context.Context) ([]T, error) { return f(ctx) }
