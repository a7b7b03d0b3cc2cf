package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/jhoicas/inventario-ti/internal/application/cart"
	"github.com/jhoicas/inventario-ti/internal/application/dto"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
)

// CartHandler carrito del escáner guardado en la sesión.
type CartHandler struct {
	sessions *session.Store
	lookup   cart.ItemLookup
}

// NewCartHandler construye el handler.
func NewCartHandler(sessions *session.Store, lookup cart.ItemLookup) *CartHandler {
	return &CartHandler{sessions: sessions, lookup: lookup}
}

// Get godoc
// @Summary      Ver carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	cs, err := loadCartSession(h.sessions, c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCartResponse(cs))
}

// Add godoc
// @Summary      Agregar al carrito por código de barras o SKU
// @Description  En modo issue (por defecto) valida que haya stock para lo ya preparado más lo pedido.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddToCartRequest  true  "Código y cantidad"
// @Success      200   {object}  dto.AddToCartResponse
// @Failure      404   {object}  dto.AddToCartResponse
// @Failure      422   {object}  dto.AddToCartResponse
// @Router       /api/cart [post]
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in dto.AddToCartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.AddToCartResponse{Message: "cuerpo inválido"})
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.AddToCartResponse{Message: "código requerido y cantidad mayor que cero"})
	}
	cs, err := loadCartSession(h.sessions, c)
	if err != nil {
		return writeError(c, err)
	}
	requireStock := in.Mode != entity.MovementTypeReturn
	item, err := cs.Cart.ResolveAndAdd(c.UserContext(), h.lookup, in.Code, in.Quantity, requireStock)
	if err != nil {
		status, _ := errorStatus(err)
		return c.Status(status).JSON(dto.AddToCartResponse{
			Success: false,
			Message: err.Error(),
			Count:   cs.Cart.Count(),
		})
	}
	if err := cs.save(); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AddToCartResponse{
		Success: true,
		Message: fmt.Sprintf("%d x %s agregado al carrito", in.Quantity, item.Name),
		Count:   cs.Cart.Count(),
	})
}

// Remove godoc
// @Summary      Quitar una línea del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart/{itemId} [delete]
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	cs, err := loadCartSession(h.sessions, c)
	if err != nil {
		return writeError(c, err)
	}
	cs.Cart.Remove(c.Params("itemId"))
	if err := cs.save(); err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCartResponse(cs))
}

// Clear godoc
// @Summary      Vaciar carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	cs, err := loadCartSession(h.sessions, c)
	if err != nil {
		return writeError(c, err)
	}
	if err := cs.reset(); err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCartResponse(cs))
}

func toCartResponse(cs *cartSession) dto.CartResponse {
	lines := cs.Cart.Lines()
	out := dto.CartResponse{
		Lines:      make([]dto.CartLineResponse, 0, len(lines)),
		Count:      cs.Cart.Count(),
		TotalUnits: cs.Cart.TotalUnits(),
		IssueType:  cs.IssueType,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.CartLineResponse{ItemID: l.ItemID, ItemName: l.ItemName, Quantity: l.Quantity})
	}
	return out
}
