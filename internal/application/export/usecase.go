package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/kajamart/admin-api/internal/domain"
)

// Tabler fuente de la tabla exportable (el listado filtrado de una entidad).
type Tabler interface {
	Table(ctx context.Context, term string) (Table, error)
}

// UseCase exporta listados filtrados con el generador del formato pedido.
type UseCase struct {
	company    string
	generators map[string]Generator
}

// NewUseCase registra los generadores por formato.
func NewUseCase(company string, generators ...Generator) *UseCase {
	uc := &UseCase{company: company, generators: make(map[string]Generator, len(generators))}
	for _, g := range generators {
		uc.generators[g.Format()] = g
	}
	return uc
}

// Export genera el archivo del listado filtrado por term. Un formato desconocido es
// domain.ErrInvalidInput; una falla del generador se envuelve en domain.ErrExportFailed.
func (uc *UseCase) Export(ctx context.Context, src Tabler, term, format string) (*File, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	gen, ok := uc.generators[format]
	if !ok {
		return nil, fmt.Errorf("%w: formato de exportación %q", domain.ErrInvalidInput, format)
	}
	table, err := src.Table(ctx, term)
	if err != nil {
		return nil, err
	}
	table.Company = uc.company
	data, err := gen.Generate(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExportFailed, err)
	}
	return &File{
		Name:        FileName(table.Entity, table.GeneratedAt, format),
		ContentType: gen.ContentType(),
		Data:        data,
	}, nil
}
