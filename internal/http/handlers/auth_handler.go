package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "patitas/internal/log"
	"patitas/internal/services"
	"patitas/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
	Cart *services.CartService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

type registerReq struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Cuerpo inválido", nil)
	}
	if _, ok := validate.Name(req.Nombre); !ok {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Nombre inválido", fiber.Map{"field": "nombre"})
	}
	email, emailOK := validate.Email(req.Email)
	if !emailOK {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Email inválido", fiber.Map{"field": "email"})
	}
	if !validate.Password(req.Password) {
		return fail(c, fiber.StatusBadRequest, "ValidationError",
			"La contraseña debe tener 8+ caracteres con mayúscula, minúscula y número", fiber.Map{"field": "password"})
	}

	u, err := h.Auth.Register(req.Nombre, req.Apellido, email, req.Password)
	if err != nil {
		return failFromErr(c, "auth.register.fail", err)
	}
	applog.Audit(c, "auth.register", map[string]any{"email": email})
	return ok(c, fiber.Map{"user": u})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Cuerpo inválido", nil)
	}
	if _, ok := validate.Email(req.Email); !ok {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email, "reason": "bad_format"})
		return fail(c, fiber.StatusUnauthorized, "Unauthorized", "Email o contraseña inválidos", nil)
	}

	u, err := h.Auth.Login(sid, req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return fail(c, fiber.StatusUnauthorized, "Unauthorized", "Email o contraseña inválidos", nil)
	}

	applog.Audit(c, "auth.login.success", map[string]any{"email": req.Email})
	return ok(c, fiber.Map{"user": u})
}

// Logout unbinds the session and discards its cart: the cart's lifecycle
// ends with the session.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Cart.Clear(sid)
	_ = h.Auth.Logout(sid)
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return ok(c, nil)
}
