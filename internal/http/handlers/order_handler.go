package handlers

import (
	"github.com/gofiber/fiber/v2"

	"patitas/internal/domain"
	applog "patitas/internal/log"
	"patitas/internal/repos"
	"patitas/internal/validate"
)

type OrderHandler struct {
	Repo *repos.OrderRepo
}

// GET /api/orders — the current user's order history.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u := currentUser(c)
	orders, err := h.Repo.ListByUser(u.ID)
	if err != nil {
		return failFromErr(c, "orders.history.fail", err)
	}
	return ok(c, fiber.Map{"orders": orders})
}

// GET /api/orders/:id — owner or admin; everyone else sees a 404 so
// order ids are not probeable.
func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid := c.Params("id")
	if _, okID := validate.ID(oid); !okID {
		return fail(c, fiber.StatusNotFound, "NotFound", "Pedido no encontrado", nil)
	}
	o, items, err := h.Repo.Get(oid)
	if err != nil {
		return fail(c, fiber.StatusNotFound, "NotFound", "Pedido no encontrado", nil)
	}

	u := currentUser(c)
	if o.UserID != u.ID && u.Role != domain.RoleAdmin {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid, "user": u.ID})
		return fail(c, fiber.StatusNotFound, "NotFound", "Pedido no encontrado", nil)
	}

	return ok(c, fiber.Map{"order": o, "items": items})
}
