package export_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kajamart/admin-api/internal/application/export"
	"github.com/kajamart/admin-api/internal/domain"
)

type fakeTabler struct {
	table export.Table
	err   error
	term  string
}

func (f *fakeTabler) Table(_ context.Context, term string) (export.Table, error) {
	f.term = term
	return f.table, f.err
}

type fakeGenerator struct {
	format string
	err    error
	got    export.Table
}

func (g *fakeGenerator) Format() string      { return g.format }
func (g *fakeGenerator) ContentType() string { return "application/x-" + g.format }
func (g *fakeGenerator) Generate(_ context.Context, t export.Table) ([]byte, error) {
	g.got = t
	if g.err != nil {
		return nil, g.err
	}
	return []byte("ok"), nil
}

func table() export.Table {
	return export.Table{
		Entity:      "lows",
		Title:       "Bajas de inventario",
		GeneratedAt: time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
		Headers:     []string{"ID baja"},
		Rows:        [][]string{{"1"}},
	}
}

func TestExport_NombreYEmpresa(t *testing.T) {
	gen := &fakeGenerator{format: export.FormatPDF}
	uc := export.NewUseCase("Kajamart", gen)
	src := &fakeTabler{table: table()}

	file, err := uc.Export(context.Background(), src, "vencido", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "lows-2026-03-09.pdf", file.Name)
	assert.Equal(t, "application/x-pdf", file.ContentType)
	assert.Equal(t, []byte("ok"), file.Data)
	assert.Equal(t, "vencido", src.term)
	assert.Equal(t, "Kajamart", gen.got.Company)
}

func TestExport_FormatoDesconocido(t *testing.T) {
	uc := export.NewUseCase("Kajamart", &fakeGenerator{format: export.FormatPDF})
	_, err := uc.Export(context.Background(), &fakeTabler{table: table()}, "", "csv")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExport_FallaDelGeneradorEsExportFailed(t *testing.T) {
	boom := errors.New("fuente no disponible")
	uc := export.NewUseCase("Kajamart", &fakeGenerator{format: export.FormatXLSX, err: boom})
	_, err := uc.Export(context.Background(), &fakeTabler{table: table()}, "", export.FormatXLSX)
	assert.ErrorIs(t, err, domain.ErrExportFailed)
	assert.ErrorIs(t, err, boom)
}

func TestExport_ErrorDeLaFuenteNoSeEnvuelve(t *testing.T) {
	boom := errors.New("db caída")
	uc := export.NewUseCase("Kajamart", &fakeGenerator{format: export.FormatPDF})
	_, err := uc.Export(context.Background(), &fakeTabler{err: boom}, "", export.FormatPDF)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrExportFailed)
}
