// Package cache guarda en Redis las colecciones que alimentan los listados.
// Cada entidad tiene su versión; Bump la incrementa y deja obsoletas las claves anteriores.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "kajamart"

// ErrUnavailable envuelve los fallos de Redis; los errores del loader se devuelven tal cual.
var ErrUnavailable = errors.New("cache: redis no disponible")

// Cache envoltura de Redis con claves versionadas por entidad. Un Cache nil o sin cliente
// delega siempre en el loader.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	log    zerolog.Logger
}

// New construye el cache.
func New(client *redis.Client, ttl time.Duration, log zerolog.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, log: log}
}

func versionKey(entity string) string {
	return fmt.Sprintf("%s:version:%s", keyPrefix, entity)
}

// Version devuelve la versión actual de la entidad, inicializándola en 1.
func (c *Cache) Version(ctx context.Context, entity string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey(entity)).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, versionKey(entity), 1, 0).Err(); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		ver, err = c.client.Get(ctx, versionKey(entity)).Int64()
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return ver, nil
}

// Key compone la clave de la colección con la versión vigente.
func (c *Cache) Key(ctx context.Context, entity string) (string, error) {
	ver, err := c.Version(ctx, entity)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:list:%s:%d", keyPrefix, entity, ver), nil
}

// FetchJSON lee key o la pobla con loader. Cargas concurrentes de la misma clave se colapsan.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader requerido")
	}
	if c == nil || c.client == nil {
		return decodeFrom(ctx, loader, dest)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	// la carga compartida no depende de la cancelación de quien llegó primero
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		value, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(loadCtx, key, raw, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar en cache")
		}
		return raw, nil
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		return json.Unmarshal(res.Val.([]byte), dest)
	}
}

// Bump invalida la colección de la entidad.
func (c *Cache) Bump(ctx context.Context, entity string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey(entity)).Err()
}

func decodeFrom(ctx context.Context, loader func(context.Context) (any, error), dest any) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
