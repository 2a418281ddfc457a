// Package eventbus es un publish/subscribe tipado en memoria.
// Sustituye los eventos globales ad hoc (abrir detalle, eliminar usuario, alertas del flujo de
// devoluciones) por tópicos con payload verificado en compilación.
package eventbus

import (
	"context"
	"sync"
)

// Handler procesa un evento de tipo T.
type Handler[T any] func(ctx context.Context, event T)

// Bus entrega eventos de tipo T a sus suscriptores en orden de suscripción.
// Entrega fire-and-forget, como máximo una vez, síncrona en la goroutine que publica.
type Bus[T any] struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers []subscription[T]
}

type subscription[T any] struct {
	id uint64
	fn Handler[T]
}

// New construye un bus vacío.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registra fn y devuelve la función para anular la suscripción (idempotente).
func (b *Bus[T]) Subscribe(fn Handler[T]) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, subscription[T]{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.handlers {
				if s.id == id {
					b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish entrega event a los suscriptores actuales. Un bus nil descarta el evento.
func (b *Bus[T]) Publish(ctx context.Context, event T) {
	if b == nil {
		return
	}
	b.mu.RLock()
	snapshot := make([]subscription[T], len(b.handlers))
	copy(snapshot, b.handlers)
	b.mu.RUnlock()

	for _, s := range snapshot {
		if ctx.Err() != nil {
			return
		}
		s.fn(ctx, event)
	}
}

// Len devuelve el número de suscriptores activos.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
