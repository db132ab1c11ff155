package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "patitas/internal/log"
	"patitas/internal/repos"
	"patitas/internal/services"
	"patitas/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

// GET /api/search?q=&limit=&category=&minPrice=&maxPrice=&sortBy=
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	f := repos.SearchFilter{}

	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) != "" {
		q, okQ := validate.Q(rawQ)
		if !okQ {
			applog.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
			return fail(c, fiber.StatusBadRequest, "ValidationError", "Búsqueda inválida", fiber.Map{"field": "q"})
		}
		f.Q = strings.ToLower(q)
	}

	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		if _, okID := validate.ID(cat); !okID {
			applog.Security(c, "validation.fail", map[string]any{"field": "category"})
			return fail(c, fiber.StatusBadRequest, "ValidationError", "Categoría inválida", fiber.Map{"field": "category"})
		}
		f.Categoria = cat
	}

	if v := c.Query("minPrice"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			return fail(c, fiber.StatusBadRequest, "ValidationError", "minPrice inválido", fiber.Map{"field": "minPrice"})
		}
		f.MinPrice = &n
	}
	if v := c.Query("maxPrice"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			return fail(c, fiber.StatusBadRequest, "ValidationError", "maxPrice inválido", fiber.Map{"field": "maxPrice"})
		}
		f.MaxPrice = &n
	}

	switch sortBy := c.Query("sortBy"); sortBy {
	case "", "reciente", "precio_asc", "precio_desc", "nombre":
		f.SortBy = sortBy
	default:
		return fail(c, fiber.StatusBadRequest, "ValidationError", "sortBy inválido", fiber.Map{"field": "sortBy"})
	}

	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			limit := f.Limit
			if limit <= 0 || limit > 50 {
				limit = 20
			}
			f.Offset = (n - 1) * limit
		}
	}

	products, err := h.Catalog.Search(f)
	if err != nil {
		return failFromErr(c, "search.error", err)
	}
	return ok(c, fiber.Map{"products": products, "count": len(products)})
}
