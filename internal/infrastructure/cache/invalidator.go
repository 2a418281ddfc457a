package cache

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/pkg/eventbus"
)

// Nombres de entidad usados como clave; coinciden con los de los listados.
const (
	EntityProducts = "products"
	EntityReturns  = "returns"
	EntityLows     = "lows"
)

// Subscribe invalida la entidad afectada por cada evento. Devuelve la función para desuscribir.
func Subscribe(c *Cache, log zerolog.Logger, changes *eventbus.Bus[domain.EntityChanged], confirmed *eventbus.Bus[domain.ReturnConfirmed]) func() {
	bump := func(ctx context.Context, entities ...string) {
		for _, e := range entities {
			if err := c.Bump(ctx, e); err != nil {
				log.Warn().Err(err).Str("entity", e).Msg("no se pudo invalidar el cache")
			}
		}
	}
	unsubChanges := changes.Subscribe(func(ctx context.Context, ev domain.EntityChanged) {
		bump(ctx, ev.Entity)
	})
	unsubConfirmed := confirmed.Subscribe(func(ctx context.Context, ev domain.ReturnConfirmed) {
		list := EntityReturns
		if ev.Record.Kind == entity.ReturnKindLow {
			list = EntityLows
		}
		bump(ctx, list, EntityProducts)
	})
	return func() {
		unsubChanges()
		unsubConfirmed()
	}
}
