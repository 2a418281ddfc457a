// Package memory implementa los puertos de persistencia en memoria, sembrados con datos de
// demostración. Es la fuente por defecto (STORE_DRIVER=memory).
package memory

import (
	"context"
	"sync"

	"github.com/kajamart/admin-api/internal/domain"
)

// Store colección ordenada y protegida por mutex. El orden de inserción es el orden de listado.
type Store[T any] struct {
	mu    sync.RWMutex
	items []T
	idOf  func(T) string
}

// NewStore construye el almacén con una copia de seed.
func NewStore[T any](idOf func(T) string, seed []T) *Store[T] {
	items := make([]T, len(seed))
	copy(items, seed)
	return &Store[T]{items: items, idOf: idOf}
}

// All devuelve una copia de la colección.
func (s *Store[T]) All(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out, nil
}

// GetByID devuelve (nil, nil) si no existe.
func (s *Store[T]) GetByID(_ context.Context, id string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		item := s.items[i]
		return &item, nil
	}
	return nil, nil
}

// Create agrega al final. Un ID repetido devuelve domain.ErrDuplicate.
func (s *Store[T]) Create(_ context.Context, item *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(s.idOf(*item)) >= 0 {
		return domain.ErrDuplicate
	}
	s.items = append(s.items, *item)
	return nil
}

// Insert agrega item si check no rechaza ningún registro existente.
func (s *Store[T]) Insert(item *T, check func(existing T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(s.idOf(*item)) >= 0 {
		return domain.ErrDuplicate
	}
	for _, it := range s.items {
		if err := check(it); err != nil {
			return err
		}
	}
	s.items = append(s.items, *item)
	return nil
}

// Update reemplaza el registro con el mismo ID.
func (s *Store[T]) Update(_ context.Context, item *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(s.idOf(*item))
	if i < 0 {
		return domain.ErrNotFound
	}
	s.items[i] = *item
	return nil
}

// Delete quita el registro de la colección fuente.
func (s *Store[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// Find devuelve el primer registro que cumple match.
func (s *Store[T]) Find(match func(T) bool) (*T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if match(it) {
			item := it
			return &item, true
		}
	}
	return nil, false
}

// Mutate aplica fn al registro id bajo el candado de escritura.
func (s *Store[T]) Mutate(id string, fn func(*T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	item := s.items[i]
	if err := fn(&item); err != nil {
		return err
	}
	s.items[i] = item
	return nil
}

func (s *Store[T]) index(id string) int {
	for i, it := range s.items {
		if s.idOf(it) == id {
			return i
		}
	}
	return -1
}
