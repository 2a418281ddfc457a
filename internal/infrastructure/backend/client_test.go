package backend_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kajamart/admin-api/internal/infrastructure/backend"
)

func TestClient_FetchProductDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/details-products", r.URL.Path)
		assert.Equal(t, "Bearer tk", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id_detalle_producto": 1, "productos": {"nombre": "Leche"}, "cantidad": 3}]`))
	}))
	defer srv.Close()

	got, err := backend.NewClient(srv.URL+"/", "tk", time.Second).FetchProductDetails(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Leche", got[0].ProductName)
	assert.Equal(t, 3, got[0].Stock)
}

func TestClient_FetchPermissions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["productos:ver", {"id": 4, "module": "roles", "action": "editar"}]`))
	}))
	defer srv.Close()

	got, err := backend.NewClient(srv.URL, "", time.Second).FetchPermissions(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "productos:ver", got[0].ID)
	assert.Equal(t, "4", got[1].ID)
}

func TestClient_ErrorUsaMensajeDelCuerpo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "Token vencido"}`))
	}))
	defer srv.Close()

	_, err := backend.NewClient(srv.URL, "", time.Second).FetchPermissions(context.Background())
	var statusErr *backend.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.Code)
	assert.Equal(t, "Token vencido", statusErr.Message)
}
