package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/infrastructure/memory"
)

func demoRepos(t *testing.T) *memory.Repositories {
	t.Helper()
	seed, err := memory.DemoSeed(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "secreto123")
	require.NoError(t, err)
	return memory.NewRepositories(seed)
}

func TestDemoSeed_44BajasConsecutivas(t *testing.T) {
	repos := demoRepos(t)
	lows, err := repos.Returns.ListByKind(context.Background(), entity.ReturnKindLow)
	require.NoError(t, err)
	require.Len(t, lows, memory.SeedLowCount)
	for i, l := range lows {
		assert.Equal(t, i+1, l.Number)
	}
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCategoryRepository(nil)

	c := entity.Category{ID: "c1", Name: "Granos", Status: entity.StatusActive}
	require.NoError(t, repo.Create(ctx, &c))
	assert.ErrorIs(t, repo.Create(ctx, &c), domain.ErrDuplicate)

	c.Name = "Granos y cereales"
	require.NoError(t, repo.Update(ctx, &c))
	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Granos y cereales", got.Name)

	require.NoError(t, repo.Delete(ctx, "c1"))
	got, err = repo.GetByID(ctx, "c1")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, repo.Delete(ctx, "c1"), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &c), domain.ErrNotFound)
}

func TestStore_AllDevuelveCopia(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewClientRepository([]entity.Client{{ID: "a", Name: "Ana"}})
	all, _ := repo.All(ctx)
	all[0].Name = "modificado"
	again, _ := repo.All(ctx)
	assert.Equal(t, "Ana", again[0].Name)
}

func TestProductRepo_AdjustStock(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository([]entity.Product{{ID: "p1", Barcode: "77", Stock: 3}})

	require.NoError(t, repo.AdjustStock(ctx, "p1", -2))
	assert.ErrorIs(t, repo.AdjustStock(ctx, "p1", -2), domain.ErrInsufficientStock)
	p, _ := repo.GetByBarcode(ctx, "77")
	require.NotNil(t, p)
	assert.Equal(t, 1, p.Stock)
	assert.ErrorIs(t, repo.AdjustStock(ctx, "nope", 1), domain.ErrNotFound)
}

func TestProductRepo_UpdateConservaStockAjustado(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProductRepository([]entity.Product{{ID: "p1", Name: "Arroz", Stock: 40}})

	leido, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, repo.AdjustStock(ctx, "p1", 5))

	leido.Name = "Arroz Diana"
	require.NoError(t, repo.Update(ctx, leido))
	assert.Equal(t, 45, leido.Stock)

	got, _ := repo.GetByID(ctx, "p1")
	require.NotNil(t, got)
	assert.Equal(t, "Arroz Diana", got.Name)
	assert.Equal(t, 45, got.Stock)
	assert.ErrorIs(t, repo.Update(ctx, &entity.Product{ID: "nope"}), domain.ErrNotFound)
}

func TestReturnRepo_AppendAsignaConsecutivoPorTipo(t *testing.T) {
	ctx := context.Background()
	repos := demoRepos(t)

	low := entity.ReturnRecord{ID: "nueva", Kind: entity.ReturnKindLow}
	require.NoError(t, repos.Returns.Append(ctx, &low))
	assert.Equal(t, memory.SeedLowCount+1, low.Number)

	dev := entity.ReturnRecord{ID: "dev-nueva", Kind: entity.ReturnKindClient}
	require.NoError(t, repos.Returns.Append(ctx, &dev))
	assert.Equal(t, 3, dev.Number)

	assert.ErrorIs(t, repos.Returns.Append(ctx, &entity.ReturnRecord{}), domain.ErrInvalidInput)
}

func TestUserRepo_EmailUnico(t *testing.T) {
	ctx := context.Background()
	repos := demoRepos(t)

	u, err := repos.Users.GetByEmail(ctx, "ADMIN@kajamart.co")
	require.NoError(t, err)
	require.NotNil(t, u)

	dup := entity.User{ID: "otro", Email: "admin@kajamart.co"}
	assert.ErrorIs(t, repos.Users.Create(ctx, &dup), domain.ErrEmailAlreadyExists)
}

func TestUserRepo_CreacionesConcurrentesMismoEmail(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository(nil)

	const n = 20
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := entity.User{ID: fmt.Sprintf("u-%d", i), Email: "caja@kajamart.co"}
			errs[i] = repo.Create(ctx, &u)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	}
	assert.Equal(t, 1, ok)
	all, _ := repo.All(ctx)
	assert.Len(t, all, 1)
}
