package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kajamart/admin-api/internal/application/dto"
	"github.com/kajamart/admin-api/internal/application/returns"
	"github.com/kajamart/admin-api/internal/domain/entity"
	"github.com/kajamart/admin-api/internal/domain/rbac"
)

// ReturnHandler registro de devoluciones de cliente y bajas. Cada registro abierto pertenece
// al usuario que lo abrió.
type ReturnHandler struct {
	uc      *returns.UseCase
	checker permissionChecker
}

// NewReturnHandler construye el handler. checker decide quién abre cada tipo de registro.
func NewReturnHandler(uc *returns.UseCase, checker permissionChecker) *ReturnHandler {
	return &ReturnHandler{uc: uc, checker: checker}
}

// Open godoc
// @Summary      Abrir registro de devolución (client) o baja (low)
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenSessionRequest  true  "Tipo de registro"
// @Success      201   {object}  dto.SessionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/returns/sessions [post]
func (h *ReturnHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	module := rbac.ModuleReturns
	if in.Kind == entity.ReturnKindLow {
		module = rbac.ModuleLows
	}
	if ok, err := authorize(c, h.checker, module, rbac.ActionCreate); !ok {
		return err
	}
	out, err := h.uc.Open(c.UserContext(), GetUserID(c), in.Kind)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Estado del registro abierto
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        sid  path  string  true  "ID del registro"
// @Success      200  {object}  dto.SessionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/sessions/{sid} [get]
func (h *ReturnHandler) Get(c *fiber.Ctx) error {
	return h.respond(c)(h.uc.Get(c.UserContext(), GetUserID(c), c.Params("sid")))
}

// Search godoc
// @Summary      Buscar productos activos por nombre, código o categoría
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sid   path  string  true  "ID del registro"
// @Param        body  body  dto.SearchRequest  true  "Término"
// @Success      200   {object}  dto.SessionResponse
// @Router       /api/returns/sessions/{sid}/search [post]
func (h *ReturnHandler) Search(c *fiber.Ctx) error {
	var in dto.SearchRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	return h.respond(c)(h.uc.Search(c.UserContext(), GetUserID(c), c.Params("sid"), in.Term))
}

// Select godoc
// @Summary      Agregar producto como candidato
// @Description  Un producto ya seleccionado suma una unidad sin superar el stock.
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sid   path  string  true  "ID del registro"
// @Param        body  body  dto.SelectProductRequest  true  "Producto"
// @Success      200   {object}  dto.SessionResponse
// @Router       /api/returns/sessions/{sid}/items [post]
func (h *ReturnHandler) Select(c *fiber.Ctx) error {
	var in dto.SelectProductRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	return h.respond(c)(h.uc.Select(c.UserContext(), GetUserID(c), c.Params("sid"), in.ProductID))
}

// Increment godoc
// @Summary      Sumar una unidad
// @Description  Superar el stock no es error: la cantidad queda en el máximo y la respuesta trae una alerta.
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        sid  path  string  true  "ID del registro"
// @Param        pid  path  string  true  "ID del producto"
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/returns/sessions/{sid}/items/{pid}/increment [post]
func (h *ReturnHandler) Increment(c *fiber.Ctx) error {
	return h.respond(c)(h.uc.Increment(c.UserContext(), GetUserID(c), c.Params("sid"), c.Params("pid")))
}

// Decrement POST /api/returns/sessions/:sid/items/:pid/decrement
func (h *ReturnHandler) Decrement(c *fiber.Ctx) error {
	return h.respond(c)(h.uc.Decrement(c.UserContext(), GetUserID(c), c.Params("sid"), c.Params("pid")))
}

// SetQuantity PUT /api/returns/sessions/:sid/items/:pid/quantity
func (h *ReturnHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.QuantityRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	return h.respond(c)(h.uc.SetQuantity(c.UserContext(), GetUserID(c), c.Params("sid"), c.Params("pid"), in.Quantity))
}

// AssignReason godoc
// @Summary      Asignar motivo a un candidato
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sid   path  string  true  "ID del registro"
// @Param        pid   path  string  true  "ID del producto"
// @Param        body  body  dto.ReasonRequest  true  "Motivo del catálogo del tipo de registro"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse  "motivo fuera del catálogo"
// @Router       /api/returns/sessions/{sid}/items/{pid}/reason [put]
func (h *ReturnHandler) AssignReason(c *fiber.Ctx) error {
	var in dto.ReasonRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	return h.respond(c)(h.uc.AssignReason(c.UserContext(), GetUserID(c), c.Params("sid"), c.Params("pid"), in.Reason))
}

// Remove DELETE /api/returns/sessions/:sid/items/:pid
func (h *ReturnHandler) Remove(c *fiber.Ctx) error {
	return h.respond(c)(h.uc.Remove(c.UserContext(), GetUserID(c), c.Params("sid"), c.Params("pid")))
}

// Confirm godoc
// @Summary      Confirmar el registro
// @Description  Ajusta el stock (bajas restan, devoluciones suman) y agrega el registro en una sola
// @Description  transacción. El responsable por defecto es el usuario autenticado.
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sid   path  string  true  "ID del registro"
// @Param        body  body  dto.ConfirmRequest  false  "Datos generales"
// @Success      201   {object}  dto.ConfirmResponse
// @Failure      400   {object}  dto.ErrorResponse  "sin candidatos o sin motivo"
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/returns/sessions/{sid}/confirm [post]
func (h *ReturnHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmRequest
	if len(c.Body()) > 0 {
		if ok, err := bindAndValidate(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.Confirm(c.UserContext(), GetUserID(c), c.Params("sid"), in, GetUserName(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Cancel godoc
// @Summary      Cancelar el registro sin efectos
// @Tags         returns
// @Security     Bearer
// @Param        sid  path  string  true  "ID del registro"
// @Success      204
// @Router       /api/returns/sessions/{sid} [delete]
func (h *ReturnHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.UserContext(), GetUserID(c), c.Params("sid")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ReturnHandler) respond(c *fiber.Ctx) func(*dto.SessionResponse, error) error {
	return func(out *dto.SessionResponse, err error) error {
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
}
