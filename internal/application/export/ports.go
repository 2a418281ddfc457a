// Package export arma la tabla exportable de un listado filtrado y la entrega a un generador
// (PDF o XLSX).
package export

import (
	"context"
	"time"
)

// Formatos soportados.
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// Table contenido exportable: encabezados y filas ya formateadas.
type Table struct {
	Entity      string
	Title       string
	Company     string
	Term        string
	GeneratedAt time.Time
	Headers     []string
	Rows        [][]string
}

// Generator convierte una Table en bytes de un formato.
type Generator interface {
	Format() string
	ContentType() string
	Generate(ctx context.Context, t Table) ([]byte, error)
}

// File resultado de una exportación.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}
