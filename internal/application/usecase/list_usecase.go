package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/kajamart/admin-api/internal/application/dto"
	"github.com/kajamart/admin-api/internal/application/export"
	"github.com/kajamart/admin-api/internal/domain"
	"github.com/kajamart/admin-api/internal/domain/repository"
	"github.com/kajamart/admin-api/pkg/listview"
)

// Column columna exportable de un listado.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// ListConfig describe un listado: de dónde sale la colección, sobre qué campos se busca,
// cómo se exporta y cómo se serializa cada registro.
type ListConfig[T any, R any] struct {
	Entity  string
	Module  string
	Title   string
	PerPage int
	Source  repository.Source[T]
	Fields  listview.Fields[T]
	Status  listview.StatusFunc[T]
	Columns []Column[T]
	Map     func(T) R
}

// ListUseCase listado filtrable y paginado de una entidad.
type ListUseCase[T any, R any] struct {
	cfg ListConfig[T, R]
	now func() time.Time
}

// Lister vista no genérica de un ListUseCase para el registro de listados.
type Lister interface {
	Entity() string
	Module() string
	List(ctx context.Context, term string, page int) (*dto.ListResponse, error)
	Table(ctx context.Context, term string) (export.Table, error)
}

var _ Lister = (*ListUseCase[struct{}, struct{}])(nil)

// NewListUseCase construye el listado. PerPage menor a 1 usa 6.
func NewListUseCase[T any, R any](cfg ListConfig[T, R]) *ListUseCase[T, R] {
	if cfg.PerPage < 1 {
		cfg.PerPage = 6
	}
	return &ListUseCase[T, R]{cfg: cfg, now: time.Now}
}

// Entity nombre del listado en la URL.
func (uc *ListUseCase[T, R]) Entity() string { return uc.cfg.Entity }

// Module módulo de permisos que protege el listado.
func (uc *ListUseCase[T, R]) Module() string { return uc.cfg.Module }

// List filtra la colección por term y devuelve la página solicitada ajustada a [1, totalPages].
func (uc *ListUseCase[T, R]) List(ctx context.Context, term string, page int) (*dto.ListResponse, error) {
	state, err := uc.state(ctx, term)
	if err != nil {
		return nil, err
	}
	state.GoToPage(page)
	current := state.Current()
	items := make([]R, 0, len(current.Items))
	for _, it := range current.Items {
		items = append(items, uc.cfg.Map(it))
	}
	return &dto.ListResponse{
		Entity: uc.cfg.Entity,
		Term:   term,
		Items:  items,
		Page: dto.PageMeta{
			Page:       current.Page,
			PerPage:    current.PerPage,
			Total:      current.Total,
			TotalPages: current.TotalPages,
		},
	}, nil
}

// Table arma la tabla exportable con la colección filtrada completa (no solo la página).
func (uc *ListUseCase[T, R]) Table(ctx context.Context, term string) (export.Table, error) {
	state, err := uc.state(ctx, term)
	if err != nil {
		return export.Table{}, err
	}
	filtered := state.Filtered()
	headers := make([]string, len(uc.cfg.Columns))
	for i, c := range uc.cfg.Columns {
		headers[i] = c.Header
	}
	rows := make([][]string, 0, len(filtered))
	for _, it := range filtered {
		row := make([]string, len(uc.cfg.Columns))
		for i, c := range uc.cfg.Columns {
			row[i] = c.Value(it)
		}
		rows = append(rows, row)
	}
	return export.Table{
		Entity:      uc.cfg.Entity,
		Title:       uc.cfg.Title,
		Term:        term,
		GeneratedAt: uc.now(),
		Headers:     headers,
		Rows:        rows,
	}, nil
}

func (uc *ListUseCase[T, R]) state(ctx context.Context, term string) (*listview.State[T], error) {
	items, err := uc.cfg.Source.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar %s: %w", uc.cfg.Entity, err)
	}
	state := listview.NewState(items, uc.cfg.PerPage, uc.cfg.Fields, listview.FilterOptions[T]{Status: uc.cfg.Status})
	state.SetTerm(term, true)
	return state, nil
}

// ListRegistry resuelve el listado por nombre de entidad.
type ListRegistry struct {
	listers map[string]Lister
	order   []string
}

// NewListRegistry construye el registro; una entidad repetida reemplaza a la anterior.
func NewListRegistry(listers ...Lister) *ListRegistry {
	r := &ListRegistry{listers: make(map[string]Lister, len(listers))}
	for _, l := range listers {
		if _, ok := r.listers[l.Entity()]; !ok {
			r.order = append(r.order, l.Entity())
		}
		r.listers[l.Entity()] = l
	}
	return r
}

// Get devuelve domain.ErrUnknownEntity si la entidad no tiene listado.
func (r *ListRegistry) Get(entity string) (Lister, error) {
	l, ok := r.listers[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownEntity, entity)
	}
	return l, nil
}

// Entities nombres registrados en orden de registro.
func (r *ListRegistry) Entities() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
