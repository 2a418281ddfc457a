package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kajamart/admin-api/internal/application/dto"
	"github.com/kajamart/admin-api/internal/application/usecase"
	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/repository"
	"github.com/kajamart/admin-api/internal/infrastructure/memory"
)

func demoRepos(t *testing.T) *memory.Repositories {
	t.Helper()
	seed, err := memory.DemoSeed(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), "admin12345")
	require.NoError(t, err)
	return memory.NewRepositories(seed)
}

func demoRegistry(repos *memory.Repositories) *usecase.ListRegistry {
	return usecase.NewListRegistryFrom(usecase.ListSources{
		Products:   repos.Products,
		Categories: repos.Categories,
		Clients:    repos.Clients,
		Suppliers:  repos.Suppliers,
		Sales:      repos.Sales,
		Purchases:  repos.Purchases,
		Returns:    usecase.ReturnsOfKind(repos.Returns, entity.ReturnKindClient),
		Lows:       usecase.ReturnsOfKind(repos.Returns, entity.ReturnKindLow),
		Users:      repos.Users,
		Roles:      repos.Roles,
	})
}

func TestListRegistry_DiezListados(t *testing.T) {
	reg := demoRegistry(demoRepos(t))
	assert.Equal(t, []string{
		"products", "categories", "clients", "suppliers", "sales",
		"purchases", "returns", "lows", "users", "roles",
	}, reg.Entities())

	_, err := reg.Get("facturas")
	assert.ErrorIs(t, err, domain.ErrUnknownEntity)
}

func TestList_Bajas_OchoPaginasDeSeis(t *testing.T) {
	reg := demoRegistry(demoRepos(t))
	lows, err := reg.Get(usecase.EntityLows)
	require.NoError(t, err)

	res, err := lows.List(context.Background(), "", 1)
	require.NoError(t, err)
	assert.Equal(t, dto.PageMeta{Page: 1, PerPage: 6, Total: 44, TotalPages: 8}, res.Page)

	items, ok := res.Items.([]dto.ReturnRecordResponse)
	require.True(t, ok)
	require.Len(t, items, 6)
	for i, it := range items {
		assert.Equal(t, i+1, it.Number)
	}
}

func TestList_PaginaFueraDeRangoSeAjusta(t *testing.T) {
	reg := demoRegistry(demoRepos(t))
	lows, _ := reg.Get(usecase.EntityLows)

	res, err := lows.List(context.Background(), "", 99)
	require.NoError(t, err)
	assert.Equal(t, 8, res.Page.Page)
	assert.Len(t, res.Items, 2)

	res, err = lows.List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page.Page)
}

func TestList_ProveedoresActivoSoloPorEstado(t *testing.T) {
	reg := demoRegistry(demoRepos(t))
	suppliers, _ := reg.Get(usecase.EntitySuppliers)

	res, err := suppliers.List(context.Background(), "activo", 1)
	require.NoError(t, err)
	items := res.Items.([]dto.SupplierResponse)
	require.Len(t, items, 2)
	for _, s := range items {
		assert.Equal(t, entity.StatusActive, s.Status)
	}

	res, _ = suppliers.List(context.Background(), "ñandu", 1)
	assert.Len(t, res.Items, 1)
}

func TestList_ProveedoresPorProductoSurtido(t *testing.T) {
	reg := demoRegistry(demoRepos(t))
	suppliers, _ := reg.Get(usecase.EntitySuppliers)
	ctx := context.Background()

	res, err := suppliers.List(ctx, "aguila roja", 1)
	require.NoError(t, err)
	items := res.Items.([]dto.SupplierResponse)
	require.Len(t, items, 1)
	assert.Equal(t, "sup-1", items[0].ID)

	table, err := suppliers.Table(ctx, "frijol")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Granos del Valle SAS", table.Rows[0][1])
	assert.Len(t, table.Rows[0], len(table.Headers), "los nombres de productos no son columnas")
}

func TestList_SinResultadosUnaPagina(t *testing.T) {
	reg := demoRegistry(demoRepos(t))
	products, _ := reg.Get(usecase.EntityProducts)

	res, err := products.List(context.Background(), "no-existe", 3)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, dto.PageMeta{Page: 1, PerPage: 5, Total: 0, TotalPages: 1}, res.Page)
}

func TestList_ProductosPorPrecioSinFormato(t *testing.T) {
	reg := demoRegistry(demoRepos(t))
	products, _ := reg.Get(usecase.EntityProducts)

	res, err := products.List(context.Background(), "2900", 1)
	require.NoError(t, err)
	items := res.Items.([]dto.ProductResponse)
	require.Len(t, items, 1)
	assert.Equal(t, "prod-1", items[0].ID)
}

func TestTable_ExportaColeccionFiltradaCompleta(t *testing.T) {
	reg := demoRegistry(demoRepos(t))
	lows, _ := reg.Get(usecase.EntityLows)

	table, err := lows.Table(context.Background(), "vencido")
	require.NoError(t, err)
	assert.Equal(t, "lows", table.Entity)
	assert.Equal(t, "ID baja", table.Headers[0])
	assert.Len(t, table.Rows, 11, "44 bajas con 4 motivos en ciclo: 11 vencidas, más de una página")
	for _, row := range table.Rows {
		assert.Equal(t, "vencido", row[4])
	}
}

func TestList_ErrorDeLaFuente(t *testing.T) {
	boom := errors.New("sin conexión")
	reg := usecase.NewListRegistryFrom(usecase.ListSources{
		Sales: repository.SourceFunc[entity.Sale](func(context.Context) ([]entity.Sale, error) { return nil, boom }),
	})
	sales, err := reg.Get(usecase.EntitySales)
	require.NoError(t, err)
	_, err = sales.List(context.Background(), "", 1)
	assert.ErrorIs(t, err, boom)
}
