package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/rbac"
)

// Client lee catálogos del backend heredado y los traduce con el adaptador.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient construye el cliente; token se envía como Bearer si no está vacío.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchProductDetails GET /api/details-products del backend heredado.
func (c *Client) FetchProductDetails(ctx context.Context) ([]entity.ProductDetail, error) {
	body, err := c.get(ctx, "/api/details-products", "Error al cargar los detalles de producto")
	if err != nil {
		return nil, err
	}
	return ProductDetailsFromJSON(body)
}

// FetchPermissions GET /api/permisos del backend heredado, ya resueltos.
func (c *Client) FetchPermissions(ctx context.Context) ([]entity.Permission, error) {
	body, err := c.get(ctx, "/api/permisos", "Error al cargar los permisos")
	if err != nil {
		return nil, err
	}
	refs, err := PermissionsFromJSON(body)
	if err != nil {
		return nil, err
	}
	return ResolvePermissions(refs)
}

// ResolvePermissions traduce permisos ya leídos sin consultar el backend.
func ResolvePermissions(refs []rbac.PermissionRef) ([]entity.Permission, error) {
	out := make([]entity.Permission, 0, len(refs))
	for _, ref := range refs {
		p, err := ref.Resolve()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path, fallback string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("backend: construir request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: %s: %w", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("backend: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: ErrorMessage(body, fallback)}
	}
	return body, nil
}

// StatusError respuesta no exitosa del backend heredado.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: HTTP %d: %s", e.Code, e.Message)
}
