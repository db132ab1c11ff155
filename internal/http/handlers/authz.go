package handlers

import (
	"github.com/gofiber/fiber/v2"

	"patitas/internal/domain"
	applog "patitas/internal/log"
	"patitas/internal/services"
)

// RequireUser rejects anonymous requests with a 401 JSON error. The cart
// and checkout surfaces are session-bound per contract.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return fail(c, fiber.StatusUnauthorized, "Unauthorized", "Iniciá sesión para continuar", nil)
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return fail(c, fiber.StatusUnauthorized, "Unauthorized", "Iniciá sesión para continuar", nil)
		}
		c.Locals("user", u)
		c.Locals("sid", sid)
		return c.Next()
	}
}

func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return fail(c, fiber.StatusUnauthorized, "Unauthorized", "Iniciá sesión para continuar", nil)
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil || u.Role != domain.RoleAdmin {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			return fail(c, fiber.StatusForbidden, "Forbidden", "Acceso denegado", nil)
		}
		c.Locals("user", u)
		c.Locals("sid", sid)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

func sessionID(c *fiber.Ctx) string {
	if sid, ok := c.Locals("sid").(string); ok && sid != "" {
		return sid
	}
	return c.Cookies("sid")
}
