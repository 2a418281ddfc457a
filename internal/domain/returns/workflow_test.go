package returns_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/returns"
	"github.com/kajamart/admin-api/pkg/eventbus"
)

var catalog = []entity.Product{
	{ID: "p1", Name: "Arroz Diana 500g", Barcode: "7702511000017", CategoryName: "Granos", Stock: 5},
	{ID: "p2", Name: "Café Águila Roja", Barcode: "7702032000011", CategoryName: "Bebidas", Stock: 12},
	{ID: "p3", Name: "Jabón Rey", Barcode: "7702310000019", CategoryName: "Aseo", Stock: 0},
}

func newWorkflow(t *testing.T, kind string) (*returns.Workflow, *[]returns.Alert) {
	t.Helper()
	bus := eventbus.New[returns.Alert]()
	var alerts []returns.Alert
	bus.Subscribe(func(_ context.Context, a returns.Alert) { alerts = append(alerts, a) })
	wf, err := returns.New(kind, bus)
	require.NoError(t, err)
	wf.Open()
	return wf, &alerts
}

func TestNew_TipoDesconocido(t *testing.T) {
	_, err := returns.New("otro", nil)
	assert.ErrorIs(t, err, returns.ErrUnknownKind)
}

func TestWorkflow_NoAbiertoRechazaOperaciones(t *testing.T) {
	wf, err := returns.New(entity.ReturnKindLow, nil)
	require.NoError(t, err)
	assert.Equal(t, returns.StateIdle, wf.State())

	_, err = wf.Search("arroz", catalog)
	assert.ErrorIs(t, err, returns.ErrNotOpen)
	_, err = wf.Select(context.Background(), catalog[0])
	assert.ErrorIs(t, err, returns.ErrNotOpen)
	assert.False(t, wf.CanConfirm())
}

func TestWorkflow_BusquedaPorNombreCodigoYCategoria(t *testing.T) {
	wf, _ := newWorkflow(t, entity.ReturnKindLow)

	got, err := wf.Search("cafe", catalog)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)
	assert.Equal(t, returns.StateSearching, wf.State())

	got, _ = wf.Search("7702310", catalog)
	require.Len(t, got, 1)
	assert.Equal(t, "p3", got[0].ID)

	got, _ = wf.Search("GRANOS", catalog)
	require.Len(t, got, 1)

	got, _ = wf.Search("", catalog)
	assert.Empty(t, got)
}

// Stock 5, seis incrementos: la cantidad queda en 5 y cada intento bloqueado alerta una vez.
func TestWorkflow_IncrementosNoSuperanStock(t *testing.T) {
	wf, alerts := newWorkflow(t, entity.ReturnKindLow)
	ctx := context.Background()

	c, err := wf.Select(ctx, catalog[0])
	require.NoError(t, err)
	assert.Equal(t, 1, c.RequestedQuantity)
	assert.Equal(t, returns.StateProductSelected, wf.State())

	blocked := 0
	for i := 0; i < 6; i++ {
		c, err = wf.Increment(ctx, "p1")
		if errors.Is(err, returns.ErrStockExceeded) {
			blocked++
		} else {
			require.NoError(t, err)
		}
		assert.GreaterOrEqual(t, c.RequestedQuantity, 0)
		assert.LessOrEqual(t, c.RequestedQuantity, c.StockAvailable)
	}

	assert.Equal(t, 5, wf.Candidates()[0].RequestedQuantity)
	assert.Equal(t, 2, blocked)
	require.Len(t, *alerts, blocked, "una alerta por cada intento bloqueado")
	for _, a := range *alerts {
		assert.Equal(t, returns.AlertStockExceeded, a.Kind)
		assert.Equal(t, 5, a.Max)
	}
	assert.Equal(t, returns.StateQuantityAdjusted, wf.State())
}

func TestWorkflow_InvarianteCantidadEnSecuenciasArbitrarias(t *testing.T) {
	wf, _ := newWorkflow(t, entity.ReturnKindClient)
	ctx := context.Background()
	_, err := wf.Select(ctx, catalog[0])
	require.NoError(t, err)

	ops := "+-++++++--------+++-+-+++++++---"
	for _, op := range ops {
		var c returns.Candidate
		if op == '+' {
			c, _ = wf.Increment(ctx, "p1")
		} else {
			c, _ = wf.Decrement(ctx, "p1")
		}
		assert.GreaterOrEqual(t, c.RequestedQuantity, 0)
		assert.LessOrEqual(t, c.RequestedQuantity, 5)
	}

	c, err := wf.SetQuantity(ctx, "p1", 50)
	assert.ErrorIs(t, err, returns.ErrStockExceeded)
	assert.Equal(t, 5, c.RequestedQuantity)
	c, err = wf.SetQuantity(ctx, "p1", -3)
	assert.NoError(t, err)
	assert.Equal(t, 0, c.RequestedQuantity)
}

func TestWorkflow_SeleccionarRepetidoActualiza(t *testing.T) {
	wf, _ := newWorkflow(t, entity.ReturnKindLow)
	ctx := context.Background()

	_, _ = wf.Select(ctx, catalog[1])
	c, err := wf.Select(ctx, catalog[1])
	require.NoError(t, err)
	assert.Equal(t, 2, c.RequestedQuantity)
	assert.Len(t, wf.Candidates(), 1)

	sinStock, err := wf.Select(ctx, catalog[2])
	require.NoError(t, err)
	assert.Equal(t, 0, sinStock.RequestedQuantity)
}

func TestWorkflow_ConfirmarRequiereMotivos(t *testing.T) {
	wf, _ := newWorkflow(t, entity.ReturnKindLow)
	ctx := context.Background()
	_, _ = wf.Select(ctx, catalog[0])
	_, _ = wf.Select(ctx, catalog[1])

	sinkCalls := 0
	sink := func(_ context.Context, r entity.ReturnRecord) (entity.ReturnRecord, error) {
		sinkCalls++
		return r, nil
	}

	assert.False(t, wf.CanConfirm())
	_, err := wf.Confirm(ctx, returns.ConfirmInput{Responsible: "Ana"}, sink)
	assert.ErrorIs(t, err, returns.ErrReasonRequired)

	_, err = wf.AssignReason("p1", "Dañado")
	require.NoError(t, err)
	assert.False(t, wf.CanConfirm(), "falta el motivo de p2")
	assert.NotEqual(t, returns.StateReasonAssigned, wf.State())

	_, err = wf.AssignReason("p2", "inventado")
	assert.ErrorIs(t, err, returns.ErrInvalidReason)

	c, err := wf.AssignReason("p2", "vencido")
	require.NoError(t, err)
	assert.Equal(t, "vencido", c.Reason)
	assert.Equal(t, returns.StateReasonAssigned, wf.State())
	assert.True(t, wf.CanConfirm())
	assert.Zero(t, sinkCalls)

	record, err := wf.Confirm(ctx, returns.ConfirmInput{Responsible: "Ana"}, sink)
	require.NoError(t, err)
	assert.Equal(t, 1, sinkCalls)
	assert.Equal(t, entity.ReturnKindLow, record.Kind)
	require.Len(t, record.Items, 2)
	assert.Equal(t, "dañado", record.Items[0].Reason, "el motivo se guarda en su forma de catálogo")
	assert.Equal(t, "dañado, vencido", record.Reason)
	assert.Equal(t, 2, record.TotalQuantity())

	assert.Equal(t, returns.StateConfirmed, wf.State())
	assert.Empty(t, wf.Candidates())
	assert.False(t, wf.CanConfirm())
}

func TestWorkflow_ConfirmarSinCandidatosAlerta(t *testing.T) {
	wf, alerts := newWorkflow(t, entity.ReturnKindClient)
	_, err := wf.Confirm(context.Background(), returns.ConfirmInput{Responsible: "Ana"}, nil)
	assert.ErrorIs(t, err, returns.ErrNoCandidates)
	require.Len(t, *alerts, 1)
	assert.Equal(t, returns.AlertNoCandidates, (*alerts)[0].Kind)
}

func TestWorkflow_ConfirmarCantidadCeroBloqueado(t *testing.T) {
	wf, _ := newWorkflow(t, entity.ReturnKindLow)
	ctx := context.Background()
	_, _ = wf.Select(ctx, catalog[2])
	_, _ = wf.AssignReason("p3", "robo")
	assert.False(t, wf.CanConfirm())
	_, err := wf.Confirm(ctx, returns.ConfirmInput{Responsible: "Ana"}, nil)
	assert.ErrorIs(t, err, returns.ErrZeroQuantity)
}

func TestWorkflow_ConfirmarRequiereResponsable(t *testing.T) {
	wf, _ := newWorkflow(t, entity.ReturnKindLow)
	ctx := context.Background()
	_, _ = wf.Select(ctx, catalog[0])
	_, _ = wf.AssignReason("p1", "robo")
	_, err := wf.Confirm(ctx, returns.ConfirmInput{Responsible: "  "}, nil)
	assert.ErrorIs(t, err, returns.ErrResponsibleRequired)
	assert.Len(t, wf.Candidates(), 1, "el error no descarta el estado")
}

func TestWorkflow_ErrorDelSinkConservaEstado(t *testing.T) {
	wf, _ := newWorkflow(t, entity.ReturnKindLow)
	ctx := context.Background()
	_, _ = wf.Select(ctx, catalog[0])
	_, _ = wf.AssignReason("p1", "perdida")

	boom := errors.New("sin conexión")
	_, err := wf.Confirm(ctx, returns.ConfirmInput{Responsible: "Ana"},
		func(context.Context, entity.ReturnRecord) (entity.ReturnRecord, error) {
			return entity.ReturnRecord{}, boom
		})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, returns.StateReasonAssigned, wf.State())
	assert.Len(t, wf.Candidates(), 1)
}

func TestWorkflow_CancelarNoInvocaCallback(t *testing.T) {
	wf, _ := newWorkflow(t, entity.ReturnKindClient)
	ctx := context.Background()
	_, _ = wf.Select(ctx, catalog[1])
	_, _ = wf.AssignReason("p2", "defectuoso")

	wf.Cancel()

	assert.Equal(t, returns.StateCancelled, wf.State())
	assert.Empty(t, wf.Candidates())
	_, err := wf.Increment(ctx, "p2")
	assert.ErrorIs(t, err, returns.ErrNotOpen)

	wf.Open()
	assert.Equal(t, returns.StateSearching, wf.State())
}

func TestWorkflow_RemoverUltimoVuelveABusqueda(t *testing.T) {
	wf, _ := newWorkflow(t, entity.ReturnKindLow)
	ctx := context.Background()
	_, _ = wf.Select(ctx, catalog[0])
	require.NoError(t, wf.Remove("p1"))
	assert.Equal(t, returns.StateSearching, wf.State())
	assert.ErrorIs(t, wf.Remove("p1"), returns.ErrCandidateNotFound)
}
