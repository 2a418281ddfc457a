package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kajamart/admin-api/internal/application/dto"
	"github.com/kajamart/admin-api/internal/application/usecase"
	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/rbac"
	"github.com/kajamart/admin-api/pkg/eventbus"
)

func recorder() (*eventbus.Bus[domain.EntityChanged], *[]domain.EntityChanged) {
	bus := eventbus.New[domain.EntityChanged]()
	var got []domain.EntityChanged
	bus.Subscribe(func(_ context.Context, ev domain.EntityChanged) { got = append(got, ev) })
	return bus, &got
}

func ptr[T any](v T) *T { return &v }

func TestProduct_CrearValidaCodigoYCategoria(t *testing.T) {
	repos := demoRepos(t)
	bus, events := recorder()
	uc := usecase.NewProductUseCase(repos.Products, repos.Categories, bus)
	ctx := context.Background()

	in := dto.CreateProductRequest{Name: " Panela 1kg ", Barcode: "7701234000019", CategoryID: "cat-1", Price: decimal.NewFromInt(5200), Stock: 12}
	p, err := uc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Panela 1kg", p.Name)
	assert.Equal(t, "Granos", p.CategoryName)
	assert.Equal(t, entity.StatusActive, p.Status)
	require.Len(t, *events, 1)
	assert.Equal(t, domain.EntityChanged{Entity: usecase.EntityProducts, ID: p.ID, Action: domain.ActionCreated}, (*events)[0])

	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	in.Barcode, in.CategoryID = "7700000000000", "cat-99"
	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in.CategoryID, in.Price = "cat-1", decimal.NewFromInt(-1)
	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduct_ActualizarYEliminar(t *testing.T) {
	repos := demoRepos(t)
	uc := usecase.NewProductUseCase(repos.Products, repos.Categories, nil)
	ctx := context.Background()

	p, err := uc.Update(ctx, "prod-1", dto.UpdateProductRequest{CategoryID: ptr("cat-4"), Price: ptr(decimal.NewFromInt(3100))})
	require.NoError(t, err)
	assert.Equal(t, "Lácteos", p.CategoryName)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(3100)))
	assert.Equal(t, 40, p.Stock, "el stock no se edita")

	_, err = uc.Update(ctx, "prod-1", dto.UpdateProductRequest{Barcode: ptr("7702032000011")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, uc.Delete(ctx, "prod-1"))
	_, err = uc.GetByID(ctx, "prod-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, "prod-1"), domain.ErrNotFound)
}

func TestCategory_RenombrarPropagaYEliminarConProductos(t *testing.T) {
	repos := demoRepos(t)
	uc := usecase.NewCategoryUseCase(repos.Categories, repos.Products, nil)
	ctx := context.Background()

	_, err := uc.Update(ctx, "cat-1", dto.CategoryRequest{Name: "Granos y cereales"})
	require.NoError(t, err)
	p, err := repos.Products.GetByID(ctx, "prod-5")
	require.NoError(t, err)
	assert.Equal(t, "Granos y cereales", p.CategoryName)

	assert.ErrorIs(t, uc.Delete(ctx, "cat-1"), domain.ErrConflict)

	c, err := uc.Create(ctx, dto.CategoryRequest{Name: "Congelados"})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, c.ID))
}

func TestClient_DocumentoUnico(t *testing.T) {
	repos := demoRepos(t)
	uc := usecase.NewClientUseCase(repos.Clients, nil)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.ClientRequest{Document: "79456123", Name: "Otro José"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	c, err := uc.Update(ctx, "cli-2", dto.ClientRequest{Document: "79456123", Name: "José Ramírez", Phone: "3110000000"})
	require.NoError(t, err, "conservar su propio documento no es duplicado")
	assert.Equal(t, "3110000000", c.Phone)
}

func TestSupplier_CrearConProductos(t *testing.T) {
	repos := demoRepos(t)
	uc := usecase.NewSupplierUseCase(repos.Suppliers, nil)
	ctx := context.Background()

	s, err := uc.Create(ctx, dto.SupplierRequest{
		NIT:      "901234567-8",
		Name:     "Lácteos del Norte",
		Products: []dto.SupplierProductDTO{{ProductID: "prod-4", Name: "Leche Alquería 1L", Price: decimal.NewFromInt(3500), Stock: 10}},
	})
	require.NoError(t, err)
	require.Len(t, s.Products, 1)
	assert.Equal(t, "prod-4", s.Products[0].ProductID)

	got, err := uc.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lácteos del Norte", got.Name)
}

func TestUser_CrearHasheaYNoSeEliminaASiMismo(t *testing.T) {
	repos := demoRepos(t)
	bus, events := recorder()
	uc := usecase.NewUserUseCase(repos.Users, repos.Roles, bus)
	ctx := context.Background()

	u, err := uc.Create(ctx, dto.CreateUserRequest{Document: "1000000003", Name: "Pedro", Email: "Pedro@Kajamart.co", Password: "secreto123", RoleID: "rol-2"})
	require.NoError(t, err)
	assert.Equal(t, "pedro@kajamart.co", u.Email)
	assert.Equal(t, "Vendedor", u.RoleName)

	stored, err := repos.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto123")))

	_, err = uc.Create(ctx, dto.CreateUserRequest{Document: "1", Name: "x", Email: "pedro@kajamart.co", Password: "secreto123", RoleID: "rol-2"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	_, err = uc.Create(ctx, dto.CreateUserRequest{Document: "1", Name: "x", Email: "x@kajamart.co", Password: "secreto123", RoleID: "rol-9"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, uc.Delete(ctx, "usr-1", "usr-1"), domain.ErrConflict)
	require.NoError(t, uc.Delete(ctx, "usr-1", u.ID))
	last := (*events)[len(*events)-1]
	assert.Equal(t, domain.EntityChanged{Entity: usecase.EntityUsers, ID: u.ID, Action: domain.ActionDeleted}, last)
}

func TestRole_MatrizOtorgaLecturaYNombreUnico(t *testing.T) {
	repos := demoRepos(t)
	uc := usecase.NewRoleUseCase(repos.Roles, repos.Users, repos.Permissions, nil)
	ctx := context.Background()

	r, err := uc.Create(ctx, dto.RoleRequest{Name: "Bodega", Permissions: []string{"productos:crear", "editar_bajas"}})
	require.NoError(t, err)
	ids := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"productos:ver", "productos:crear", "bajas:ver", "bajas:editar"}, ids)
	require.Len(t, r.Matrix, len(rbac.Modules))
	assert.True(t, r.Matrix[0].Actions[rbac.ActionView])

	_, err = uc.Create(ctx, dto.RoleRequest{Name: "Bodega"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = uc.Create(ctx, dto.RoleRequest{Name: "Otro", Permissions: []string{"facturas:ver"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, uc.Delete(ctx, "rol-2"), domain.ErrConflict, "asignado a un usuario")
	require.NoError(t, uc.Delete(ctx, r.ID))

	perms, err := uc.Permissions(ctx)
	require.NoError(t, err)
	assert.Len(t, perms, len(rbac.Modules)*len(rbac.Actions))
}

func TestRole_RenombrarPropagaAUsuarios(t *testing.T) {
	repos := demoRepos(t)
	bus, events := recorder()
	uc := usecase.NewRoleUseCase(repos.Roles, repos.Users, repos.Permissions, bus)
	ctx := context.Background()

	_, err := uc.Update(ctx, "rol-2", dto.RoleRequest{Name: "Cajero", Permissions: []string{"productos:ver"}})
	require.NoError(t, err)

	u, err := repos.Users.GetByID(ctx, "usr-2")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Cajero", u.RoleName)

	users, err := demoRegistry(repos).Get(usecase.EntityUsers)
	require.NoError(t, err)
	res, err := users.List(ctx, "cajero", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page.Total)

	entities := make([]string, 0, len(*events))
	for _, ev := range *events {
		entities = append(entities, ev.Entity)
	}
	assert.Contains(t, entities, usecase.EntityUsers)
	assert.Contains(t, entities, usecase.EntityRoles)

	*events = nil
	_, err = uc.Update(ctx, "rol-2", dto.RoleRequest{Name: "Cajero", Description: "Caja"})
	require.NoError(t, err)
	require.Len(t, *events, 1, "sin cambio de nombre no se tocan usuarios")
	assert.Equal(t, usecase.EntityRoles, (*events)[0].Entity)
}

func TestModuleService_PermisosDelRol(t *testing.T) {
	repos := demoRepos(t)
	svc := usecase.NewModuleService(repos.Roles)
	ctx := context.Background()

	ok, err := svc.HasPermission(ctx, "rol-2", rbac.ModuleProducts, rbac.ActionView)
	require.NoError(t, err)
	assert.True(t, ok, "crear implica ver")

	ok, err = svc.HasPermission(ctx, "rol-2", rbac.ModuleUsers, rbac.ActionView)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.HasPermission(ctx, "rol-99", rbac.ModuleProducts, rbac.ActionView)
	require.NoError(t, err)
	assert.False(t, ok)

	keys, err := svc.Keys(ctx, "rol-2")
	require.NoError(t, err)
	assert.Contains(t, keys, "devoluciones:crear")
	assert.NotContains(t, keys, "roles:ver")
}

type fakeFetcher []entity.ProductDetail

func (f fakeFetcher) FetchProductDetails(context.Context) ([]entity.ProductDetail, error) { return f, nil }

func TestDetail_SyncCreaActualizaYOmite(t *testing.T) {
	repos := demoRepos(t)
	ctx := context.Background()

	uc := usecase.NewDetailUseCase(repos.Details, repos.Products, nil, nil)
	_, err := uc.Sync(ctx)
	assert.ErrorIs(t, err, domain.ErrConflict)

	uc = usecase.NewDetailUseCase(repos.Details, repos.Products, fakeFetcher{
		{ID: "det-1", ProductID: "prod-1", Stock: 30},
		{ID: "det-9", ProductID: "prod-7", Barcode: "7702367000018-L2", Stock: 8},
		{ID: "det-10", ProductID: "prod-99", Stock: 1},
		{ProductID: "prod-1", Stock: 1},
	}, nil)
	res, err := uc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, usecase.SyncResult{Created: 1, Updated: 1, Skipped: 2}, *res)

	d, err := uc.GetByID(ctx, "det-1")
	require.NoError(t, err)
	assert.Equal(t, 30, d.Stock)
	assert.Equal(t, "7702511000017", d.Barcode, "sin código se usa el del producto")

	list, err := uc.List(ctx, "prod-7")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Atún Van Camps", list[0].ProductName)
}
