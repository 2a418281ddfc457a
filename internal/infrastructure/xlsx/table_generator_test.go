package xlsx_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kajamart/admin-api/internal/application/export"
	"github.com/kajamart/admin-api/internal/infrastructure/xlsx"
)

func TestTableGenerator_EscribeEncabezadosYFilas(t *testing.T) {
	gen := xlsx.NewTableGenerator()
	data, err := gen.Generate(context.Background(), export.Table{
		Title:       "Proveedores",
		Company:     "Kajamart",
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Headers:     []string{"NIT", "Nombre", "Estado"},
		Rows: [][]string{
			{"860001234-1", "Distribuidora Café Ñandú", "Activo"},
			{"890912345-2", "Granos del Valle SAS", "Activo"},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Datos")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Proveedores", rows[0][0])
	assert.Equal(t, []string{"NIT", "Nombre", "Estado"}, rows[2])
	assert.Equal(t, "Distribuidora Café Ñandú", rows[3][1])
}

func TestTableGenerator_SinColumnas(t *testing.T) {
	_, err := xlsx.NewTableGenerator().Generate(context.Background(), export.Table{})
	assert.Error(t, err)
}
