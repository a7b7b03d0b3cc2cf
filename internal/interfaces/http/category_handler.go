package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ti/internal/application/dto"
	"github.com/jhoicas/inventario-ti/internal/domain/entity"
)

// CategoryHandler expone el catálogo fijo de categorías.
type CategoryHandler struct{}

// NewCategoryHandler construye el handler.
func NewCategoryHandler() *CategoryHandler { return &CategoryHandler{} }

// List godoc
// @Summary      Listar categorías con subcategorías
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	names := entity.CategoryNames()
	out := make([]dto.CategoryResponse, 0, len(names))
	for _, n := range names {
		out = append(out, dto.CategoryResponse{Name: n, Subcategories: entity.Subcategories(n)})
	}
	return c.JSON(out)
}

// Subcategories godoc
// @Summary      Subcategorías de una categoría
// @Description  Categoría desconocida devuelve lista vacía.
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        category  path  string  true  "Nombre de la categoría"
// @Success      200  {array}  string
// @Router       /api/categories/{category}/subcategories [get]
func (h *CategoryHandler) Subcategories(c *fiber.Ctx) error {
	category, err := url.PathUnescape(c.Params("category"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "categoría inválida"})
	}
	return c.JSON(entity.Subcategories(category))
}
