package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "patitas/internal/log"
	"patitas/internal/services"
	"patitas/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/products — featured storefront selection.
func (h *ProductHandler) Destacados(c *fiber.Ctx) error {
	products, err := h.Catalog.ListDestacados()
	if err != nil {
		return failFromErr(c, "products.destacados.fail", err)
	}
	return ok(c, fiber.Map{"products": products})
}

// GET /api/categories
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories()
	if err != nil {
		return failFromErr(c, "categories.fail", err)
	}
	return ok(c, fiber.Map{"categories": cats})
}

// GET /api/categories/:id/products
func (h *ProductHandler) ByCategory(c *fiber.Ctx) error {
	cat, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Categoría inválida", nil)
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	products, err := h.Catalog.ListByCategory(cat, page, 12)
	if err != nil {
		return failFromErr(c, "products.category.fail", err)
	}
	return ok(c, fiber.Map{"products": products, "categoria": cat})
}

// GET /api/products/:id — soft-deleted products 404.
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return fail(c, fiber.StatusNotFound, "NotFound", "Este producto ya no está disponible", nil)
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return fail(c, fiber.StatusNotFound, "NotFound", "Este producto ya no está disponible", nil)
	}
	return ok(c, fiber.Map{"product": p})
}
