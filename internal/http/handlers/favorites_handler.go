package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "patitas/internal/log"
	"patitas/internal/services"
	"patitas/internal/validate"
)

type FavoritesHandler struct {
	Fav *services.FavoritesService
}

func (h *FavoritesHandler) List(c *fiber.Ctx) error {
	items, err := h.Fav.List(sessionID(c))
	if err != nil {
		return failFromErr(c, "favorites.list.fail", err)
	}
	return ok(c, fiber.Map{"favorites": items})
}

type favReq struct {
	ProductID string `json:"productId"`
}

func (h *FavoritesHandler) Save(c *fiber.Ctx) error {
	var req favReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Cuerpo inválido", nil)
	}
	pid, okID := validate.ID(req.ProductID)
	if !okID {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Falta productId", fiber.Map{"field": "productId"})
	}
	if err := h.Fav.Save(sessionID(c), pid); err != nil {
		return failFromErr(c, "favorites.save.fail", err)
	}
	applog.Audit(c, "favorites.save", map[string]any{"product": pid})
	return ok(c, nil)
}

func (h *FavoritesHandler) Unsave(c *fiber.Ctx) error {
	var req favReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Cuerpo inválido", nil)
	}
	pid, okID := validate.ID(req.ProductID)
	if !okID {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Falta productId", fiber.Map{"field": "productId"})
	}
	if err := h.Fav.Unsave(sessionID(c), pid); err != nil {
		return failFromErr(c, "favorites.unsave.fail", err)
	}
	applog.Audit(c, "favorites.unsave", map[string]any{"product": pid})
	return ok(c, nil)
}
