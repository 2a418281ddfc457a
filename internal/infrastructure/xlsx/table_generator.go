// Package xlsx genera la hoja de cálculo de los listados exportados.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kajamart/admin-api/internal/application/export"
)

const sheetName = "Datos"

// TableGenerator implementa export.Generator con excelize.
type TableGenerator struct{}

var _ export.Generator = (*TableGenerator)(nil)

// NewTableGenerator construye el generador.
func NewTableGenerator() *TableGenerator { return &TableGenerator{} }

// Format implementa export.Generator.
func (g *TableGenerator) Format() string { return export.FormatXLSX }

// ContentType implementa export.Generator.
func (g *TableGenerator) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Generate escribe título en A1, encabezados en la fila 3 y un registro por fila desde la 4.
func (g *TableGenerator) Generate(_ context.Context, t export.Table) ([]byte, error) {
	if len(t.Headers) == 0 {
		return nil, fmt.Errorf("xlsx: tabla sin columnas")
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if err := f.SetCellValue(sheetName, "A1", t.Title); err != nil {
		return nil, fmt.Errorf("xlsx: título: %w", err)
	}
	if err := f.SetCellValue(sheetName, "A2", t.Company+" - "+t.GeneratedAt.Format("02/01/2006 15:04")); err != nil {
		return nil, fmt.Errorf("xlsx: subtítulo: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"00467F"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	if err := writeRow(f, 3, t.Headers); err != nil {
		return nil, err
	}
	first, _ := excelize.CoordinatesToCellName(1, 3)
	last, _ := excelize.CoordinatesToCellName(len(t.Headers), 3)
	if err := f.SetCellStyle(sheetName, first, last, headerStyle); err != nil {
		return nil, fmt.Errorf("xlsx: estilo encabezado: %w", err)
	}
	for i, r := range t.Rows {
		if err := writeRow(f, 4+i, r); err != nil {
			return nil, err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(t.Headers))
	if err := f.SetColWidth(sheetName, "A", lastCol, 22); err != nil {
		return nil, fmt.Errorf("xlsx: ancho de columnas: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("xlsx: celda: %w", err)
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
		return fmt.Errorf("xlsx: fila %d: %w", rowNum, err)
	}
	return nil
}
