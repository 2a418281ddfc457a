package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/repository"
	"github.com/kajamart/admin-api/internal/infrastructure/cache"
	"github.com/kajamart/admin-api/pkg/eventbus"
)

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, _ := newTestCacheWithServer(t)
	return c
}

func newTestCacheWithServer(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return cache.New(client, time.Minute, zerolog.Nop()), mr
}

type countingSource struct {
	calls atomic.Int32
	items []entity.Product
}

func (s *countingSource) All(context.Context) ([]entity.Product, error) {
	s.calls.Add(1)
	return s.items, nil
}

func TestSource_CacheaHastaBump(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	inner := &countingSource{items: []entity.Product{{ID: "p1", Name: "Arroz", Price: decimal.NewFromInt(2900), Stock: 4}}}
	src := cache.Wrap[entity.Product](c, cache.EntityProducts, inner)

	first, err := src.All(ctx)
	require.NoError(t, err)
	second, err := src.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), inner.calls.Load())
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Name, second[0].Name)
	assert.True(t, second[0].Price.Equal(decimal.NewFromInt(2900)))

	require.NoError(t, c.Bump(ctx, cache.EntityProducts))
	_, err = src.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestWrap_SinClienteDevuelveOrigen(t *testing.T) {
	inner := &countingSource{}
	src := cache.Wrap[entity.Product](nil, cache.EntityProducts, inner)
	assert.Equal(t, repository.Source[entity.Product](inner), src)
}

func TestSource_ColeccionVaciaNoEsNil(t *testing.T) {
	c := newTestCache(t)
	src := cache.Wrap[entity.Product](c, cache.EntityProducts, &countingSource{})
	got, err := src.All(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSource_CargasConcurrentes(t *testing.T) {
	c := newTestCache(t)
	inner := &countingSource{items: []entity.Product{{ID: "p1"}}}
	src := cache.Wrap[entity.Product](c, cache.EntityProducts, inner)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := src.All(context.Background())
			assert.NoError(t, err)
			assert.Len(t, got, 1)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, inner.calls.Load(), int32(8))
	assert.GreaterOrEqual(t, inner.calls.Load(), int32(1))
}

func TestSubscribe_InvalidaPorEventos(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)
	changes := eventbus.New[domain.EntityChanged]()
	confirmed := eventbus.New[domain.ReturnConfirmed]()
	unsubscribe := cache.Subscribe(c, zerolog.Nop(), changes, confirmed)
	defer unsubscribe()

	v1, err := c.Version(ctx, "clients")
	require.NoError(t, err)
	changes.Publish(ctx, domain.EntityChanged{Entity: "clients", ID: "c1", Action: domain.ActionDeleted})
	v2, _ := c.Version(ctx, "clients")
	assert.Equal(t, v1+1, v2)

	lows, _ := c.Version(ctx, cache.EntityLows)
	products, _ := c.Version(ctx, cache.EntityProducts)
	confirmed.Publish(ctx, domain.ReturnConfirmed{Record: entity.ReturnRecord{Kind: entity.ReturnKindLow}})
	lowsAfter, _ := c.Version(ctx, cache.EntityLows)
	productsAfter, _ := c.Version(ctx, cache.EntityProducts)
	assert.Equal(t, lows+1, lowsAfter)
	assert.Equal(t, products+1, productsAfter)
}

func TestSource_RedisCaidoSirveOrigen(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCacheWithServer(t)
	inner := &countingSource{items: []entity.Product{{ID: "p1", Name: "Arroz"}}}
	src := cache.Wrap[entity.Product](c, cache.EntityProducts, inner)

	_, err := src.All(ctx)
	require.NoError(t, err)
	mr.Close()

	got, err := src.All(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Arroz", got[0].Name)
	assert.Equal(t, int32(2), inner.calls.Load())

	_, err = c.Version(ctx, cache.EntityProducts)
	assert.ErrorIs(t, err, cache.ErrUnavailable)
}

func TestSource_ErrorDelOrigenNoSeReintenta(t *testing.T) {
	boom := errors.New("sin conexión")
	calls := 0
	inner := repository.SourceFunc[entity.Product](func(context.Context) ([]entity.Product, error) {
		calls++
		return nil, boom
	})
	src := cache.Wrap[entity.Product](newTestCache(t), cache.EntityProducts, inner)

	_, err := src.All(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, cache.ErrUnavailable)
	assert.Equal(t, 1, calls)
}

// blockingSource espera a release antes de devolver la colección.
type blockingSource struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (s *blockingSource) All(ctx context.Context) ([]entity.Product, error) {
	if s.calls.Add(1) == 1 {
		close(s.started)
	}
	select {
	case <-s.release:
		return []entity.Product{{ID: "p1"}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestSource_CancelarPrimeraPeticionNoAfectaALasDemas(t *testing.T) {
	c := newTestCache(t)
	inner := &blockingSource{started: make(chan struct{}), release: make(chan struct{})}
	src := cache.Wrap[entity.Product](c, cache.EntityProducts, inner)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := src.All(firstCtx)
		firstErr <- err
	}()
	<-inner.started

	type result struct {
		items []entity.Product
		err   error
	}
	second := make(chan result, 1)
	go func() {
		items, err := src.All(context.Background())
		second <- result{items, err}
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)
	close(inner.release)

	res := <-second
	require.NoError(t, res.err)
	assert.Len(t, res.items, 1)
}
