package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "patitas/internal/log"
	"patitas/internal/services"
)

type PaymentHandler struct {
	Orders  *services.OrderService
	Payment *services.PaymentService
}

// GET /api/payment/methods
func (h *PaymentHandler) Methods(c *fiber.Ctx) error {
	return ok(c, fiber.Map{"methods": h.Payment.Methods()})
}

// POST /api/payment/process — runs the whole checkout.
func (h *PaymentHandler) Process(c *fiber.Ctx) error {
	u := currentUser(c)
	sid := sessionID(c)

	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Cuerpo inválido", nil)
	}

	placed, err := h.Orders.Place(u.ID, sid, req)
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"user": u.ID, "error": err.Error()})
		return failFromErr(c, "order.place.fail", err)
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id":     placed.OrderID,
		"order_number": placed.OrderNumber,
		"amount":       placed.Amount.String(),
		"replayed":     placed.Replayed,
	})
	return ok(c, fiber.Map{"data": placed})
}
