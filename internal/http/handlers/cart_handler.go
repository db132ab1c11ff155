package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "patitas/internal/log"
	"patitas/internal/services"
	"patitas/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type addReq struct {
	ProductID string `json:"productId"`
	Cantidad  int    `json:"cantidad"`
}

// POST /carrito/add
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := sessionID(c)
	var req addReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Cuerpo inválido", nil)
	}
	if _, okID := validate.ID(req.ProductID); !okID {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Falta productId", fiber.Map{"field": "productId"})
	}
	if req.Cantidad <= 0 {
		req.Cantidad = 1
	}

	count, err := h.Cart.Add(sid, req.ProductID, req.Cantidad)
	if err != nil {
		return failFromErr(c, "cart.add.fail", err)
	}
	applog.Info(c, "cart.add", map[string]any{"product": req.ProductID, "qty": req.Cantidad})
	return ok(c, fiber.Map{"message": "Producto agregado al carrito", "cartCount": count})
}

type updateReq struct {
	Cantidad int `json:"cantidad"`
}

// PUT /carrito/update/:id
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := sessionID(c)
	pid, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Falta productId", fiber.Map{"field": "productId"})
	}
	var req updateReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Cuerpo inválido", nil)
	}

	if err := h.Cart.Update(sid, pid, req.Cantidad); err != nil {
		return failFromErr(c, "cart.update.fail", err)
	}
	cv, err := h.Cart.View(sid)
	if err != nil {
		return failFromErr(c, "cart.view.fail", err)
	}
	return ok(c, fiber.Map{"total": cv.Totals.Total, "cartCount": cv.Count})
}

// DELETE /carrito/remove/:id — removing an absent line is a success.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := sessionID(c)
	pid, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Falta productId", fiber.Map{"field": "productId"})
	}
	if err := h.Cart.Remove(sid, pid); err != nil {
		return failFromErr(c, "cart.remove.fail", err)
	}
	cv, err := h.Cart.View(sid)
	if err != nil {
		return failFromErr(c, "cart.view.fail", err)
	}
	return ok(c, fiber.Map{"total": cv.Totals.Total, "cartCount": cv.Count})
}

// POST /carrito/clear
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := sessionID(c)
	if err := h.Cart.Clear(sid); err != nil {
		return failFromErr(c, "cart.clear.fail", err)
	}
	return ok(c, nil)
}

// GET /carrito
func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := sessionID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		return failFromErr(c, "cart.view.fail", err)
	}
	return ok(c, fiber.Map{"cart": cv})
}
