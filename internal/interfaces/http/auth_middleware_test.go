package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/kajamart/admin-api/internal/interfaces/http"
	pkgjwt "github.com/kajamart/admin-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testRoleID    = "rol-bodega"
	testIssuer    = "kajamart-admin-test"
	testExpMin    = 60
)

// fakeChecker concede solo las claves "modulo:accion" de granted.
type fakeChecker struct {
	granted map[string]bool
	err     error
}

func (f fakeChecker) HasPermission(_ context.Context, roleID, module, action string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return roleID == testRoleID && f.granted[module+":"+action], nil
}

// buildTestApp monta AuthMiddleware + RequirePermission(productos, editar) sobre un handler dummy.
func buildTestApp(checker fakeChecker) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequirePermission("productos", "editar", checker),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role_id": apphttp.GetRoleID(c)})
		},
	)
	return app
}

func tokenFor(t *testing.T, roleID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, roleID, "Bodega Central", testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// RequirePermission
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePermission_Concedido(t *testing.T) {
	app := buildTestApp(fakeChecker{granted: map[string]bool{"productos:editar": true}})
	resp := doRequest(t, app, tokenFor(t, testRoleID))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, testRoleID, body["role_id"])
}

func TestRequirePermission_Denegado(t *testing.T) {
	app := buildTestApp(fakeChecker{granted: map[string]bool{"productos:ver": true}})
	resp := doRequest(t, app, tokenFor(t, testRoleID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "ver no implica editar")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequirePermission_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(fakeChecker{granted: map[string]bool{"productos:editar": true}})
	resp := doRequest(t, app, tokenFor(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestRequirePermission_FallaDelChecker_Retorna503(t *testing.T) {
	app := buildTestApp(fakeChecker{err: errors.New("redis caído")})
	resp := doRequest(t, app, tokenFor(t, testRoleID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "PERMISSION_CHECK_FAILED")
	assert.NotContains(t, string(body), "redis")
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(fakeChecker{}), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(fakeChecker{})
	for _, header := range []string{"Bearer token.invalido.aqui", "Basic abc", "Bearer"} {
		resp := doRequest(t, app, header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
		resp.Body.Close()
	}
}

func TestAuthMiddleware_FirmaDeOtroSecreto(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret-completamente-distinto", testUserID, testRoleID, "X", testIssuer, testExpMin)
	require.NoError(t, err)
	resp := doRequest(t, buildTestApp(fakeChecker{}), "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   apphttp.GetUserID(c),
			"role_id":   apphttp.GetRoleID(c),
			"user_name": apphttp.GetUserName(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenFor(t, testRoleID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testRoleID, body["role_id"])
	assert.Equal(t, "Bodega Central", body["user_name"])
}
