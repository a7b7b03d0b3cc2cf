package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/jhoicas/inventario-ti/internal/application/analytics"
)

// DashboardHandler resumen de la pantalla inicial.
type DashboardHandler struct {
	uc       *analytics.DashboardUseCase
	sessions *session.Store
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase, sessions *session.Store) *DashboardHandler {
	return &DashboardHandler{uc: uc, sessions: sessions}
}

// Get godoc
// @Summary      Resumen del inventario
// @Description  Totales, últimos artículos, stock bajo y número de líneas en el carrito.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	cs, err := loadCartSession(h.sessions, c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Summary(c.UserContext(), cs.Cart.Count())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
