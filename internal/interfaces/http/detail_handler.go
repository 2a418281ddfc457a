package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kajamart/admin-api/internal/application/dto"
	"github.com/kajamart/admin-api/internal/application/usecase"
	"github.com/kajamart/admin-api/internal/infrastructure/backend"
)

// DetailHandler lotes de producto (/api/details-products).
type DetailHandler struct {
	uc *usecase.DetailUseCase
}

// NewDetailHandler construye el handler.
func NewDetailHandler(uc *usecase.DetailUseCase) *DetailHandler {
	return &DetailHandler{uc: uc}
}

// List godoc
// @Summary      Lotes de producto
// @Tags         details-products
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtra por producto"
// @Success      200  {array}  dto.ProductDetailResponse
// @Router       /api/details-products [get]
func (h *DetailHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("product_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/details-products/:id
func (h *DetailHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear lote
// @Description  Acepta el cuerpo del panel (product_id, barcode, stock, expires_at) o el heredado
// @Description  (id_producto, codigo_barras, cantidad, fecha_vencimiento, estado).
// @Tags         details-products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductDetailRequest  true  "Lote"
// @Success      201   {object}  dto.ProductDetailResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/details-products [post]
func (h *DetailHandler) Create(c *fiber.Ctx) error {
	in, ok, err := bindDetail(c)
	if !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/details-products/:id
func (h *DetailHandler) Update(c *fiber.Ctx) error {
	in, ok, err := bindDetail(c)
	if !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/details-products/:id
func (h *DetailHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Sync godoc
// @Summary      Sincronizar lotes desde el backend heredado
// @Tags         details-products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  usecase.SyncResult
// @Failure      409  {object}  dto.ErrorResponse  "sincronización no configurada"
// @Router       /api/details-products/sync [post]
func (h *DetailHandler) Sync(c *fiber.Ctx) error {
	out, err := h.uc.Sync(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func bindDetail(c *fiber.Ctx) (dto.ProductDetailRequest, bool, error) {
	d, err := backend.ProductDetailFromJSON(c.Body())
	if err != nil {
		return dto.ProductDetailRequest{}, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	in := dto.ProductDetailRequest{
		ProductID: d.ProductID,
		Barcode:   d.Barcode,
		ExpiresAt: d.ExpiresAt,
		Stock:     d.Stock,
		Status:    d.Status,
	}
	ok, err := checkStruct(c, &in)
	return in, ok, err
}
