package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ti/internal/application/dto"
	"github.com/jhoicas/inventario-ti/internal/application/inventory"
	"github.com/jhoicas/inventario-ti/internal/application/usecase"
)

// MovementHandler historial y descarga de comprobantes.
type MovementHandler struct {
	uc       *usecase.MovementUseCase
	receipts *inventory.ReceiptUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *usecase.MovementUseCase, receipts *inventory.ReceiptUseCase) *MovementHandler {
	return &MovementHandler{uc: uc, receipts: receipts}
}

// List godoc
// @Summary      Historial de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (máx. 100)"  default(100)
// @Param        offset  query  int  false  "Offset"             default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 100), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Descargar comprobante PDF
// @Tags         movements
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/receipt [get]
func (h *MovementHandler) Receipt(c *fiber.Ctx) error {
	name, data, err := h.receipts.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}

// BatchReceipts godoc
// @Summary      Descargar los comprobantes de un checkout
// @Description  ZIP con un PDF por artículo entregado o devuelto en el mismo checkout.
// @Tags         movements
// @Security     Bearer
// @Produce      application/zip
// @Param        batchId  path  string  true  "ID del checkout (batch_id)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/batch/{batchId}/receipts [get]
func (h *MovementHandler) BatchReceipts(c *fiber.Ctx) error {
	name, data, err := h.receipts.DownloadBatch(c.UserContext(), c.Params("batchId"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}
