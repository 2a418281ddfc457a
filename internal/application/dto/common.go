package dto

// ListQuery parámetros de los listados: término de búsqueda y página (1-based).
type ListQuery struct {
	Q    string `query:"q"`
	Page int    `query:"page"`
}

// ExportQuery parámetros de exportación del listado filtrado.
type ExportQuery struct {
	Q      string `query:"q"`
	Format string `query:"format" validate:"required,oneof=pdf xlsx"`
}

// PageMeta metadatos de página en respuestas. TotalPages nunca es menor que 1.
type PageMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ListResponse página de cualquier listado.
type ListResponse struct {
	Entity string   `json:"entity"`
	Term   string   `json:"term"`
	Items  any      `json:"items"`
	Page   PageMeta `json:"page"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrorResponse error 422 con el tag que falló por campo.
type ValidationErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}
