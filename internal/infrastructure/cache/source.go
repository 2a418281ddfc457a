package cache

import (
	"context"
	"errors"

	"github.com/kajamart/admin-api/internal/domain/repository"
)

// Source decora un repository.Source con el cache de la entidad.
type Source[T any] struct {
	cache  *Cache
	entity string
	inner  repository.Source[T]
}

var _ repository.Source[struct{}] = (*Source[struct{}])(nil)

// Wrap devuelve inner sin cambios si c es nil.
func Wrap[T any](c *Cache, entity string, inner repository.Source[T]) repository.Source[T] {
	if c == nil || c.client == nil {
		return inner
	}
	return &Source[T]{cache: c, entity: entity, inner: inner}
}

// All lee la colección del cache o del origen. Si Redis falla se sirve el origen sin cache.
func (s *Source[T]) All(ctx context.Context) ([]T, error) {
	out, err := s.cached(ctx)
	if errors.Is(err, ErrUnavailable) {
		s.cache.log.Warn().Err(err).Str("entity", s.entity).Msg("listado sin cache")
		return s.inner.All(ctx)
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (s *Source[T]) cached(ctx context.Context) ([]T, error) {
	key, err := s.cache.Key(ctx, s.entity)
	if err != nil {
		return nil, err
	}
	var out []T
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		return s.inner.All(ctx)
	})
	return out, err
}
