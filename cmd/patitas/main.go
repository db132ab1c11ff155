package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"patitas/internal/config"
	"patitas/internal/http/handlers"
	applog "patitas/internal/log"
	"patitas/internal/repos"
	"patitas/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and surface a generic message; never leak internals
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false, "error": "InternalError", "message": "Algo salió mal. Intentá de nuevo.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/healthz")
		},
	}))

	deps := handlers.NewDeps(db, cfg, authSvc)

	// ---------- Public catalog ----------
	app.Get("/api/products", deps.ProductHandler.Destacados)
	app.Get("/api/products/:id", deps.ProductHandler.Detail)
	app.Get("/api/categories", deps.ProductHandler.Categories)
	app.Get("/api/categories/:id/products", deps.ProductHandler.ByCategory)
	app.Get("/api/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), deps.SearchHandler.Search)

	// ---------- Auth (login throttled) ----------
	app.Post("/auth/register", deps.AuthHandler.Register)
	app.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false, "error": "TooManyRequests", "message": "Demasiados intentos. Probá más tarde.",
			})
		},
	}), deps.AuthHandler.Login)
	app.Post("/auth/logout", deps.AuthHandler.Logout)

	// ---------- Cart (session required) ----------
	carrito := app.Group("/carrito", handlers.RequireUser(authSvc))
	carrito.Get("/", deps.CartHandler.View)
	carrito.Post("/add", deps.CartHandler.Add)
	carrito.Put("/update/:id", deps.CartHandler.Update)
	carrito.Delete("/remove/:id", deps.CartHandler.Remove)
	carrito.Post("/clear", deps.CartHandler.Clear)

	// ---------- Checkout & orders ----------
	app.Get("/api/payment/methods", deps.PaymentHandler.Methods)
	app.Post("/api/payment/process", handlers.RequireUser(authSvc), deps.PaymentHandler.Process)
	app.Get("/api/orders", handlers.RequireUser(authSvc), deps.OrderHandler.History)
	app.Get("/api/orders/:id", handlers.RequireUser(authSvc), deps.OrderHandler.View)

	// ---------- Favorites ----------
	favoritos := app.Group("/favoritos", handlers.RequireUser(authSvc))
	favoritos.Get("/", deps.FavoritesHandler.List)
	favoritos.Post("/", deps.FavoritesHandler.Save)
	favoritos.Post("/delete", deps.FavoritesHandler.Unsave)

	// ---------- Admin ----------
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/products", deps.AdminHandler.Products)
	admin.Post("/products", deps.AdminHandler.CreateProduct)
	admin.Put("/products/:id", deps.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", deps.AdminHandler.DeleteProduct)
	admin.Put("/products/:id/stock", deps.AdminHandler.SetStock)
	admin.Get("/orders", deps.AdminHandler.OrdersPage)
	admin.Put("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Get("/users", deps.AdminHandler.UsersPage)
	admin.Post("/users/:id/deactivate", deps.AdminHandler.DeactivateUser)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false, "error": "NotFound", "message": "Ruta no encontrada",
		})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
