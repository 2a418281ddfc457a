// Package listview implementa el patrón de listado filtrable y paginado que comparten
// todas las pantallas índice (productos, categorías, clientes, proveedores, ventas, etc.).
//
// El filtro normaliza término y campos (NFD sin diacríticos, minúsculas) y busca subcadenas;
// la paginación nunca falla por una página fuera de rango: la ajusta a [1, totalPages].
package listview

import (
	"strings"

	"github.com/kajamart/admin-api/pkg/textnorm"
)

// Términos exactos que filtran solo por estado cuando la lista tiene selector de estado.
const (
	StatusActive   = "activo"
	StatusInactive = "inactivo"
)

// Fields devuelve los valores visibles de un registro sobre los que se busca.
type Fields[T any] func(item T) []string

// StatusFunc devuelve el estado (Activo/Inactivo) de un registro.
type StatusFunc[T any] func(item T) string

// FilterOptions configura casos especiales del filtro.
type FilterOptions[T any] struct {
	// Status habilita el atajo "activo"/"inactivo": si el término normalizado es exactamente
	// uno de ellos, se compara solo contra el estado y se ignoran las coincidencias por subcadena.
	Status StatusFunc[T]
}

// Filter devuelve los registros cuyo contenido normalizado contiene el término normalizado.
// El orden de la colección original se conserva; un término vacío devuelve todo.
func Filter[T any](items []T, term string, fields Fields[T], opts FilterOptions[T]) []T {
	needle := textnorm.Normalize(term)
	if needle == "" {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	out := make([]T, 0, len(items))
	if opts.Status != nil && (needle == StatusActive || needle == StatusInactive) {
		for _, it := range items {
			if textnorm.Normalize(opts.Status(it)) == needle {
				out = append(out, it)
			}
		}
		return out
	}
	for _, it := range items {
		if matches(fields(it), needle) {
			out = append(out, it)
		}
	}
	return out
}

func matches(values []string, needle string) bool {
	normalized := make([]string, 0, len(values))
	for _, v := range values {
		n := textnorm.Normalize(v)
		if strings.Contains(n, needle) {
			return true
		}
		normalized = append(normalized, n)
	}
	// Coincidencias que cruzan campos ("arroz diana" sobre nombre+marca).
	return strings.Contains(strings.Join(normalized, " "), needle)
}

// Page es una porción de la colección filtrada con sus metadatos.
type Page[T any] struct {
	Items      []T
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// TotalPages = max(1, ceil(total/perPage)).
func TotalPages(total, perPage int) int {
	if perPage <= 0 {
		perPage = 1
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage ajusta page al rango [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate devuelve la página solicitada (ajustada) de items.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = 1
	}
	total := len(items)
	pages := TotalPages(total, perPage)
	page = ClampPage(page, pages)
	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	slice := make([]T, end-start)
	copy(slice, items[start:end])
	return Page[T]{
		Items:      slice,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
	}
}

// State mantiene el estado de búsqueda de una pantalla: colección fuente, término,
// página actual y tamaño de página. No es seguro para uso concurrente.
type State[T any] struct {
	source   []T
	term     string
	page     int
	perPage  int
	fields   Fields[T]
	opts     FilterOptions[T]
	filtered []T
}

// NewState construye el estado con la página 1 y la fuente indicada.
func NewState[T any](source []T, perPage int, fields Fields[T], opts FilterOptions[T]) *State[T] {
	if perPage <= 0 {
		perPage = 1
	}
	s := &State[T]{source: source, page: 1, perPage: perPage, fields: fields, opts: opts}
	s.recompute()
	return s
}

// SetSource reemplaza la colección fuente y vuelve a ajustar la página actual.
func (s *State[T]) SetSource(source []T) {
	s.source = source
	s.recompute()
}

// SetTerm cambia el término de búsqueda. resetPage vuelve a la página 1; sin él solo se ajusta
// la página al nuevo total, así cada pantalla decide explícitamente.
func (s *State[T]) SetTerm(term string, resetPage bool) {
	s.term = term
	if resetPage {
		s.page = 1
	}
	s.recompute()
}

// GoToPage navega a n ajustándolo silenciosamente a [1, totalPages]; devuelve la página efectiva.
func (s *State[T]) GoToPage(n int) int {
	s.page = ClampPage(n, s.TotalPages())
	return s.page
}

// Term devuelve el término actual.
func (s *State[T]) Term() string { return s.term }

// CurrentPage devuelve la página actual.
func (s *State[T]) CurrentPage() int { return s.page }

// TotalPages del conjunto filtrado.
func (s *State[T]) TotalPages() int { return TotalPages(len(s.filtered), s.perPage) }

// Filtered devuelve la colección filtrada completa (la que consumen las exportaciones).
func (s *State[T]) Filtered() []T {
	out := make([]T, len(s.filtered))
	copy(out, s.filtered)
	return out
}

// Current devuelve la página visible.
func (s *State[T]) Current() Page[T] {
	return Paginate(s.filtered, s.page, s.perPage)
}

func (s *State[T]) recompute() {
	s.filtered = Filter(s.source, s.term, s.fields, s.opts)
	s.page = ClampPage(s.page, s.TotalPages())
}
