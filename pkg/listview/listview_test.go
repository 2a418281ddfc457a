package listview_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kajamart/admin-api/pkg/listview"
	"github.com/kajamart/admin-api/pkg/textnorm"
)

type low struct {
	IDLow   int
	Product string
}

type supplier struct {
	Name   string
	Note   string
	Estado string
}

func lowFields(l low) []string { return []string{fmt.Sprint(l.IDLow), l.Product} }

func supplierFields(s supplier) []string { return []string{s.Name, s.Note, s.Estado} }

func seedLows(n int) []low {
	out := make([]low, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, low{IDLow: i, Product: fmt.Sprintf("Producto %d", i)})
	}
	return out
}

func TestPaginate_44Bajas_SeisPorPagina(t *testing.T) {
	state := listview.NewState(seedLows(44), 6, lowFields, listview.FilterOptions[low]{})

	assert.Equal(t, 8, state.TotalPages())
	page := state.Current()
	require.Len(t, page.Items, 6)
	for i, it := range page.Items {
		assert.Equal(t, i+1, it.IDLow, "la página 1 conserva el orden original")
	}
}

func TestPaginate_UltimaPaginaParcial(t *testing.T) {
	page := listview.Paginate(seedLows(44), 8, 6)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 43, page.Items[0].IDLow)
}

func TestGoToPage_AjustaFueraDeRango(t *testing.T) {
	state := listview.NewState(seedLows(44), 6, lowFields, listview.FilterOptions[low]{})
	for _, n := range []int{-5, 0, 1, 4, 8, 9, 1000} {
		got := state.GoToPage(n)
		assert.GreaterOrEqual(t, got, 1)
		assert.LessOrEqual(t, got, state.TotalPages())
	}
	assert.Equal(t, 8, state.GoToPage(99))
	assert.Equal(t, 1, state.GoToPage(-1))
}

func TestPaginate_RoundTripSinDuplicadosNiOmisiones(t *testing.T) {
	for _, n := range []int{0, 1, 5, 6, 7, 44} {
		for _, per := range []int{1, 5, 6, 10} {
			items := seedLows(n)
			pages := listview.TotalPages(len(items), per)
			var all []low
			for p := 1; p <= pages; p++ {
				all = append(all, listview.Paginate(items, p, per).Items...)
			}
			if n == 0 {
				assert.Empty(t, all)
				continue
			}
			assert.Equal(t, items, all, "n=%d per=%d", n, per)
		}
	}
}

func TestFilter_ResultadoContieneTerminoNormalizado(t *testing.T) {
	items := []supplier{
		{Name: "Distribuidora Café Ñandú", Estado: "Activo"},
		{Name: "Lácteos del Valle", Estado: "Inactivo"},
		{Name: "Cafetería Central", Estado: "Activo"},
	}
	for _, term := range []string{"cafe", "CAFÉ", "valle", "zzz", "ñandu", ""} {
		got := listview.Filter(items, term, supplierFields, listview.FilterOptions[supplier]{})
		assert.LessOrEqual(t, len(got), len(items))
		for _, it := range got {
			joined := textnorm.Normalize(it.Name + " " + it.Note + " " + it.Estado)
			assert.Contains(t, joined, textnorm.Normalize(term))
		}
	}
	assert.Len(t, listview.Filter(items, "cafe", supplierFields, listview.FilterOptions[supplier]{}), 2)
}

func TestFilter_ActivoSoloPorEstado(t *testing.T) {
	items := []supplier{
		{Name: "Proveedor inactivo por deuda", Note: "estaba activo", Estado: "Inactivo"},
		{Name: "Granos SAS", Estado: "Activo"},
		{Name: "Aseo Total", Estado: "ACTÍVO"},
	}
	opts := listview.FilterOptions[supplier]{Status: func(s supplier) string { return s.Estado }}

	got := listview.Filter(items, "activo", supplierFields, opts)
	require.Len(t, got, 2)
	assert.Equal(t, "Granos SAS", got[0].Name)
	assert.Equal(t, "Aseo Total", got[1].Name)

	got = listview.Filter(items, "Inactivo", supplierFields, opts)
	require.Len(t, got, 1)
	assert.Equal(t, "Inactivo", got[0].Estado)
}

func TestFilter_CoincidenciaEntreCampos(t *testing.T) {
	items := []supplier{{Name: "Arroz", Note: "Diana"}}
	got := listview.Filter(items, "arroz diana", supplierFields, listview.FilterOptions[supplier]{})
	assert.Len(t, got, 1)
}

func TestState_SetTermReinicioExplicito(t *testing.T) {
	state := listview.NewState(seedLows(44), 6, lowFields, listview.FilterOptions[low]{})
	state.GoToPage(5)

	state.SetTerm("Producto", false)
	assert.Equal(t, 5, state.CurrentPage(), "sin reinicio la página se conserva si sigue en rango")

	state.SetTerm("Producto 4", false)
	// "Producto 4" y "Producto 40".."44": 6 registros, una sola página
	assert.Equal(t, 1, state.TotalPages())
	assert.Equal(t, 1, state.CurrentPage(), "la página se ajusta al nuevo total")

	state.SetTerm("", false)
	state.GoToPage(3)
	state.SetTerm("Producto", true)
	assert.Equal(t, 1, state.CurrentPage())
}

func TestState_SinResultadosUnaPaginaVacia(t *testing.T) {
	state := listview.NewState(seedLows(10), 6, lowFields, listview.FilterOptions[low]{})
	state.SetTerm("no-existe", true)
	page := state.Current()
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	assert.Empty(t, state.Filtered())
}

func TestState_SetSourceReajustaPagina(t *testing.T) {
	state := listview.NewState(seedLows(44), 6, lowFields, listview.FilterOptions[low]{})
	state.GoToPage(8)
	state.SetSource(seedLows(12))
	assert.Equal(t, 2, state.CurrentPage())
}
