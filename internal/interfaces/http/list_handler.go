package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kajamart/admin-api/internal/application/dto"
	"github.com/kajamart/admin-api/internal/application/export"
	"github.com/kajamart/admin-api/internal/application/usecase"
)

// ListHandler sirve todos los listados índice y sus exportaciones por :entity.
type ListHandler struct {
	lists  *usecase.ListRegistry
	export *export.UseCase
}

// NewListHandler construye el handler.
func NewListHandler(lists *usecase.ListRegistry, exp *export.UseCase) *ListHandler {
	return &ListHandler{lists: lists, export: exp}
}

// List godoc
// @Summary      Listado filtrado y paginado
// @Description  Filtra sin distinguir mayúsculas ni tildes. "activo"/"inactivo" filtra solo por estado
// @Description  en los listados que lo tienen. Una página fuera de rango se ajusta.
// @Tags         lists
// @Security     Bearer
// @Produce      json
// @Param        entity  path   string  true   "products, categories, clients, suppliers, sales, purchases, returns, lows, users, roles"
// @Param        q       query  string  false  "Término de búsqueda"
// @Param        page    query  int     false  "Página (1-based)"  default(1)
// @Success      200     {object}  dto.ListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/{entity} [get]
func (h *ListHandler) List(c *fiber.Ctx) error {
	lister, err := h.lists.Get(c.Params("entity"))
	if err != nil {
		return writeError(c, err)
	}
	var q dto.ListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := lister.List(c.UserContext(), q.Q, q.Page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar el listado filtrado
// @Description  Exporta todos los registros que coinciden con q (no solo la página visible).
// @Tags         lists
// @Security     Bearer
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        entity  path   string  true   "Listado"
// @Param        format  query  string  true   "pdf o xlsx"
// @Param        q       query  string  false  "Término de búsqueda"
// @Success      200
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      422     {object}  dto.ValidationErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /api/{entity}/export [get]
func (h *ListHandler) Export(c *fiber.Ctx) error {
	lister, err := h.lists.Get(c.Params("entity"))
	if err != nil {
		return writeError(c, err)
	}
	var q dto.ExportQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	file, err := h.export.Export(c.UserContext(), lister, q.Q, q.Format)
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(file.Name)
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Send(file.Data)
}
