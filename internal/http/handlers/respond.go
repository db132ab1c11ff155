package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "patitas/internal/log"
	"patitas/internal/services"
)

func init() {
	// Money renders as a JSON number, not a quoted string.
	decimal.MarshalJSONWithoutQuotes = true
}

func ok(c *fiber.Ctx, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["success"] = true
	return c.JSON(data)
}

func fail(c *fiber.Ctx, status int, code, message string, details any) error {
	body := fiber.Map{"success": false, "error": code, "message": message}
	if details != nil {
		body["details"] = details
	}
	return c.Status(status).JSON(body)
}

// failFromErr maps business errors onto the HTTP error taxonomy.
// Unknown errors are logged and surfaced as a generic 500.
func failFromErr(c *fiber.Ctx, action string, err error) error {
	var stockErr *services.InsufficientStockError
	var valErr *services.ValidationError
	var payErr *services.PaymentDeclinedError

	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrOrderMissing):
		return fail(c, fiber.StatusNotFound, "NotFound", "Producto no encontrado", nil)
	case errors.Is(err, services.ErrEmptyCart):
		return fail(c, fiber.StatusBadRequest, "EmptyCart", "El carrito está vacío", nil)
	case errors.Is(err, services.ErrBadCreds):
		return fail(c, fiber.StatusUnauthorized, "Unauthorized", "Email o contraseña inválidos", nil)
	case errors.Is(err, services.ErrEmailTaken):
		return fail(c, fiber.StatusBadRequest, "ValidationError", "El email ya está registrado", nil)
	case errors.As(err, &stockErr):
		return fail(c, fiber.StatusBadRequest, "InsufficientStock", "Stock insuficiente", fiber.Map{
			"productId": stockErr.ProductID,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		})
	case errors.As(err, &valErr):
		code := "ValidationError"
		switch valErr.Field {
		case "address", "city", "postalCode", "state":
			code = "InvalidAddress"
		}
		return fail(c, fiber.StatusBadRequest, code, "Datos inválidos", fiber.Map{
			"field": valErr.Field, "detail": valErr.Msg,
		})
	case errors.As(err, &payErr):
		return fail(c, fiber.StatusBadRequest, "PaymentDeclined", "El pago fue rechazado", fiber.Map{
			"method": payErr.Method, "reason": payErr.Reason,
		})
	}

	applog.Error(c, action, err, nil)
	return fail(c, fiber.StatusInternalServerError, "InternalError", "Algo salió mal. Intentá de nuevo.", nil)
}
