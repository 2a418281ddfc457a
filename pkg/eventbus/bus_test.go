package eventbus_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kajamart/admin-api/pkg/eventbus"
)

type userDeleted struct{ ID string }

func TestBus_EntregaEnOrdenDeSuscripcion(t *testing.T) {
	bus := eventbus.New[userDeleted]()
	var got []string
	bus.Subscribe(func(_ context.Context, e userDeleted) { got = append(got, "a:"+e.ID) })
	bus.Subscribe(func(_ context.Context, e userDeleted) { got = append(got, "b:"+e.ID) })

	bus.Publish(context.Background(), userDeleted{ID: "7"})

	assert.Equal(t, []string{"a:7", "b:7"}, got)
}

func TestBus_UnsubscribeIdempotente(t *testing.T) {
	bus := eventbus.New[userDeleted]()
	calls := 0
	unsub := bus.Subscribe(func(context.Context, userDeleted) { calls++ })
	other := bus.Subscribe(func(context.Context, userDeleted) {})

	unsub()
	unsub()
	bus.Publish(context.Background(), userDeleted{ID: "1"})

	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, bus.Len())
	other()
	assert.Equal(t, 0, bus.Len())
}

func TestBus_ContextoCanceladoNoEntrega(t *testing.T) {
	bus := eventbus.New[userDeleted]()
	calls := 0
	bus.Subscribe(func(context.Context, userDeleted) { calls++ })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bus.Publish(ctx, userDeleted{})

	assert.Zero(t, calls)
}

func TestBus_NilDescarta(t *testing.T) {
	var bus *eventbus.Bus[userDeleted]
	assert.NotPanics(t, func() { bus.Publish(context.Background(), userDeleted{}) })
}

func TestBus_PublicacionConcurrente(t *testing.T) {
	bus := eventbus.New[int]()
	var mu sync.Mutex
	sum := 0
	bus.Subscribe(func(_ context.Context, n int) {
		mu.Lock()
		sum += n
		mu.Unlock()
	})
	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			bus.Publish(context.Background(), n)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5050, sum)
}
