package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kajamart/admin-api/internal/application/auth"
	"github.com/kajamart/admin-api/internal/application/export"
	"github.com/kajamart/admin-api/internal/application/returns"
	"github.com/kajamart/admin-api/internal/application/usecase"
	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/infrastructure/memory"
	"github.com/kajamart/admin-api/internal/infrastructure/xlsx"
	apphttp "github.com/kajamart/admin-api/internal/interfaces/http"
	"github.com/kajamart/admin-api/pkg/eventbus"
)

const (
	adminEmail  = "admin@kajamart.co"
	sellerEmail = "laura@kajamart.co"
	password    = "admin12345"
)

// brokenPDF simula una falla del generador.
type brokenPDF struct{}

func (brokenPDF) Format() string      { return export.FormatPDF }
func (brokenPDF) ContentType() string { return "application/pdf" }
func (brokenPDF) Generate(context.Context, export.Table) ([]byte, error) {
	return nil, errors.New("fuente no disponible")
}

func newTestApp(t *testing.T) (*fiber.App, *memory.Repositories) {
	t.Helper()
	seed, err := memory.DemoSeed(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), password)
	require.NoError(t, err)
	repos := memory.NewRepositories(seed)

	changes := eventbus.New[domain.EntityChanged]()
	confirmed := eventbus.New[domain.ReturnConfirmed]()
	modules := usecase.NewModuleService(repos.Roles)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(repos.Users, modules, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}),
		Lists: usecase.NewListRegistryFrom(usecase.ListSources{
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
		}),
		Export:        export.NewUseCase("Kajamart", xlsx.NewTableGenerator(), brokenPDF{}),
		ProductUC:     usecase.NewProductUseCase(repos.Products, repos.Categories, changes),
		CategoryUC:    usecase.NewCategoryUseCase(repos.Categories, repos.Products, changes),
		ClientUC:      usecase.NewClientUseCase(repos.Clients, changes),
		SupplierUC:    usecase.NewSupplierUseCase(repos.Suppliers, changes),
		DetailUC:      usecase.NewDetailUseCase(repos.Details, repos.Products, nil, changes),
		UserUC:        usecase.NewUserUseCase(repos.Users, repos.Roles, changes),
		RoleUC:        usecase.NewRoleUseCase(repos.Roles, repos.Users, repos.Permissions, changes),
		ReturnsUC:     returns.NewUseCase(repos.Products, repos.Tx, confirmed, zerolog.Nop(), time.Minute),
		ModuleService: modules,
		JWTSecret:     testJWTSecret,
	})
	return app, repos
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[map[string]any](t, resp)
	token, _ := out["token"].(string)
	require.NotEmpty(t, token)
	return token
}

type pageBody struct {
	Items []map[string]any `json:"items"`
	Page  struct {
		Page       int `json:"page"`
		PerPage    int `json:"per_page"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"page"`
}

func TestLogin(t *testing.T) {
	app, _ := newTestApp(t)

	resp := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": adminEmail, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[map[string]any](t, resp)
	assert.Contains(t, out["permissions"], "usuarios:ver")

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": adminEmail, "password": "otra-clave"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "no-es-email", "password": "x"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	verr := decode[map[string]any](t, resp)
	assert.Equal(t, map[string]any{"Email": "email"}, verr["fields"])
}

func TestList_BajasPaginadas(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, adminEmail)

	resp := call(t, app, http.MethodGet, "/api/lows", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[pageBody](t, resp)
	assert.Len(t, page.Items, 6)
	assert.Equal(t, 44, page.Page.Total)
	assert.Equal(t, 8, page.Page.TotalPages)
	assert.Equal(t, 6, page.Page.PerPage)

	resp = call(t, app, http.MethodGet, "/api/lows?page=99", token, nil)
	page = decode[pageBody](t, resp)
	assert.Equal(t, 8, page.Page.Page)
	assert.Len(t, page.Items, 2)

	resp = call(t, app, http.MethodGet, "/api/suppliers?q=activo", token, nil)
	page = decode[pageBody](t, resp)
	assert.Equal(t, 2, page.Page.Total)

	resp = call(t, app, http.MethodGet, "/api/facturas", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestList_PermisosPorModulo(t *testing.T) {
	app, _ := newTestApp(t)
	seller := login(t, app, sellerEmail)

	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/products", seller, nil).StatusCode)
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/api/users", seller, nil).StatusCode)
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/api/lows/export?format=xlsx", seller, nil).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/products", "", nil).StatusCode)
}

func TestExport(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, adminEmail)

	resp := call(t, app, http.MethodGet, "/api/lows/export?format=xlsx&q=vencido", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	disposition := resp.Header.Get("Content-Disposition")
	assert.Contains(t, disposition, "lows-")
	assert.Contains(t, disposition, ".xlsx")
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("PK")), "xlsx es un zip")

	resp = call(t, app, http.MethodGet, "/api/lows/export?format=pdf", token, nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	out := decode[map[string]any](t, resp)
	assert.Equal(t, "EXPORT_FAILED", out["code"])
	assert.NotContains(t, out["message"], "fuente no disponible", "el detalle interno no se expone")

	resp = call(t, app, http.MethodGet, "/api/lows/export?format=csv", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestProducts_CRUD(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, adminEmail)

	resp := call(t, app, http.MethodPost, "/api/products", token, map[string]any{
		"name": "Panela 1kg", "barcode": "7701234000019", "category_id": "cat-1", "price": -1, "stock": 3,
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	verr := decode[map[string]any](t, resp)
	assert.Equal(t, map[string]any{"Price": "min"}, verr["fields"])

	body := map[string]any{"name": "Panela 1kg", "barcode": "7701234000019", "category_id": "cat-1", "price": "5200", "stock": 3}
	resp = call(t, app, http.MethodPost, "/api/products", token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	id, _ := created["id"].(string)

	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/products", token, body).StatusCode)

	resp = call(t, app, http.MethodPut, "/api/products/"+id, token, map[string]any{"name": "Panela Doña Paz 1kg"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/products?q=dona%20paz", token, nil)
	page := decode[pageBody](t, resp)
	assert.Equal(t, 1, page.Page.Total, "la búsqueda ignora tildes")

	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodDelete, "/api/products/"+id, token, nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/products/"+id, token, nil).StatusCode)
}

func TestUsers_NoSeEliminaASiMismo(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, adminEmail)

	resp := call(t, app, http.MethodDelete, "/api/users/usr-1", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRoles_PermisosEnFormasMixtas(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, adminEmail)

	resp := call(t, app, http.MethodPost, "/api/roles", token, map[string]any{
		"name": "Bodega",
		"permissions": []any{
			"crear_productos",
			map[string]string{"id_permiso": "bajas:editar", "modulo": "bajas", "accion": "editar"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	role := decode[map[string]any](t, resp)
	var ids []string
	for _, p := range role["permissions"].([]any) {
		ids = append(ids, p.(map[string]any)["id"].(string))
	}
	assert.ElementsMatch(t, []string{"productos:ver", "productos:crear", "bajas:ver", "bajas:editar"}, ids)

	resp = call(t, app, http.MethodPost, "/api/roles", token, map[string]any{"name": "Otro", "permissions": []string{"facturas:ver"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/permisos", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	perms := decode[[]map[string]any](t, resp)
	assert.Len(t, perms, 40)
}

func TestDetails_CuerpoHeredado(t *testing.T) {
	app, _ := newTestApp(t)
	token := login(t, app, adminEmail)

	resp := call(t, app, http.MethodPost, "/api/details-products", token, map[string]any{
		"id_producto": "prod-7", "codigo_barras": "7702367000018-L2", "cantidad": 12, "fecha_vencimiento": "2026-12-31", "estado": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	d := decode[map[string]any](t, resp)
	assert.Equal(t, "Atún Van Camps", d["product_name"])
	assert.EqualValues(t, 12, d["stock"])

	resp = call(t, app, http.MethodPost, "/api/details-products", token, map[string]any{"cantidad": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/details-products/sync", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "sin backend heredado configurado")
}

func TestReturns_FlujoDeBaja(t *testing.T) {
	app, repos := newTestApp(t)
	token := login(t, app, adminEmail)

	resp := call(t, app, http.MethodPost, "/api/returns/sessions", token, map[string]string{"kind": "low"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sid := decode[map[string]any](t, resp)["id"].(string)
	base := "/api/returns/sessions/" + sid

	resp = call(t, app, http.MethodPost, base+"/items", token, map[string]string{"product_id": "prod-4"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	alerts := 0
	for i := 0; i < 6; i++ {
		resp = call(t, app, http.MethodPost, base+"/items/prod-4/increment", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		s := decode[map[string]any](t, resp)
		alerts += len(s["alerts"].([]any))
	}
	assert.Equal(t, 2, alerts)

	resp = call(t, app, http.MethodPost, base+"/confirm", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "falta el motivo")

	resp = call(t, app, http.MethodPut, base+"/items/prod-4/reason", token, map[string]string{"reason": "inventado"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = call(t, app, http.MethodPut, base+"/items/prod-4/reason", token, map[string]string{"reason": "vencido"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodPost, base+"/confirm", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[map[string]any](t, resp)
	record := out["record"].(map[string]any)
	assert.EqualValues(t, 45, record["number"])
	assert.Equal(t, "Administrador", record["responsible"])

	p, err := repos.Products.GetByID(context.Background(), "prod-4")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)

	resp = call(t, app, http.MethodGet, "/api/lows?page=8", token, nil)
	page := decode[pageBody](t, resp)
	assert.Equal(t, 45, page.Page.Total)

	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, base, token, nil).StatusCode, "confirmar cierra el registro")
}

func TestReturns_PermisoYDueno(t *testing.T) {
	app, _ := newTestApp(t)
	admin := login(t, app, adminEmail)
	seller := login(t, app, sellerEmail)

	resp := call(t, app, http.MethodPost, "/api/returns/sessions", seller, map[string]string{"kind": "low"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el vendedor no registra bajas")

	resp = call(t, app, http.MethodPost, "/api/returns/sessions", seller, map[string]string{"kind": "client"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sid := decode[map[string]any](t, resp)["id"].(string)

	resp = call(t, app, http.MethodGet, "/api/returns/sessions/"+sid, admin, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "solo el dueño opera el registro")

	resp = call(t, app, http.MethodPost, "/api/returns/sessions", seller, map[string]string{"kind": "otro"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodDelete, "/api/returns/sessions/"+sid, seller, nil).StatusCode)
}

func TestRequestLogger_PropagaRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(apphttp.RequestLogger())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	assert.False(t, strings.TrimSpace(resp.Header.Get("X-Request-ID")) == "")
}
