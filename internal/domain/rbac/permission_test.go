package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/rbac"
)

func TestMatrix_EscrituraOtorgaLectura(t *testing.T) {
	m := rbac.NewMatrix()
	require.NoError(t, m.Grant("productos", rbac.ActionEdit))

	assert.True(t, m.Has("productos", rbac.ActionView))
	assert.True(t, m.Has("productos", rbac.ActionEdit))
	assert.False(t, m.Has("productos", rbac.ActionDelete))
}

func TestMatrix_QuitarLecturaQuitaEscrituras(t *testing.T) {
	m := rbac.NewMatrix()
	require.NoError(t, m.Grant("usuarios", rbac.ActionCreate))
	require.NoError(t, m.Grant("usuarios", rbac.ActionDelete))

	require.NoError(t, m.Toggle("usuarios", rbac.ActionView))

	assert.Empty(t, m.Permissions())
}

func TestMatrix_QuitarEscrituraConservaLectura(t *testing.T) {
	m := rbac.NewMatrix()
	require.NoError(t, m.Grant("ventas", rbac.ActionCreate))
	require.NoError(t, m.Revoke("ventas", rbac.ActionCreate))
	assert.Equal(t, []string{"ventas:ver"}, m.Keys())
}

func TestMatrix_RechazaModuloYAccionDesconocidos(t *testing.T) {
	m := rbac.NewMatrix()
	assert.ErrorIs(t, m.Grant("nomina", rbac.ActionView), rbac.ErrUnknownModule)
	assert.ErrorIs(t, m.Grant("productos", "aprobar"), rbac.ErrUnknownAction)
}

func TestMatrixFrom_NormalizaPermisosSinLectura(t *testing.T) {
	m, err := rbac.MatrixFrom([]entity.Permission{{Module: "Categorías", Action: "Eliminar"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"categorias:eliminar", "categorias:ver"}, m.Keys())
}

func TestPermissionRef_Resolve(t *testing.T) {
	cases := []struct {
		ref     rbac.PermissionRef
		wantKey string
		wantID  string
	}{
		{rbac.LegacyRef("productos:ver"), "productos:ver", "productos:ver"},
		{rbac.LegacyRef("clientes.editar"), "clientes:editar", "clientes:editar"},
		{rbac.LegacyRef("crear_compras"), "compras:crear", "compras:crear"},
		{rbac.StructuredRef("17", "Roles", "ver"), "roles:ver", "17"},
	}
	for _, tc := range cases {
		p, err := tc.ref.Resolve()
		require.NoError(t, err)
		assert.Equal(t, tc.wantKey, p.Key())
		assert.Equal(t, tc.wantID, p.ID)
	}

	_, err := rbac.LegacyRef("productos").Resolve()
	assert.ErrorIs(t, err, rbac.ErrMalformedRef)
	_, err = rbac.PermissionRef{}.Resolve()
	assert.ErrorIs(t, err, rbac.ErrMalformedRef)
}
