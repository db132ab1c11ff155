package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"patitas/internal/config"
	"patitas/internal/http/handlers"
	"patitas/internal/repos"
	"patitas/internal/services"
)

// newTestApp wires the real handlers against an in-memory database with
// the same route table the server uses. The payment gateway delay is
// zeroed so checkout tests run instantly.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	deps := handlers.NewDeps(db, config.Config{PaymentDelayMs: 0}, authSvc)

	app := fiber.New()

	app.Get("/api/products", deps.ProductHandler.Destacados)
	app.Get("/api/products/:id", deps.ProductHandler.Detail)
	app.Get("/api/categories", deps.ProductHandler.Categories)
	app.Get("/api/categories/:id/products", deps.ProductHandler.ByCategory)
	app.Get("/api/search", deps.SearchHandler.Search)

	app.Post("/auth/register", deps.AuthHandler.Register)
	app.Post("/auth/login", deps.AuthHandler.Login)
	app.Post("/auth/logout", deps.AuthHandler.Logout)

	carrito := app.Group("/carrito", handlers.RequireUser(authSvc))
	carrito.Get("/", deps.CartHandler.View)
	carrito.Post("/add", deps.CartHandler.Add)
	carrito.Put("/update/:id", deps.CartHandler.Update)
	carrito.Delete("/remove/:id", deps.CartHandler.Remove)
	carrito.Post("/clear", deps.CartHandler.Clear)

	app.Get("/api/payment/methods", deps.PaymentHandler.Methods)
	app.Post("/api/payment/process", handlers.RequireUser(authSvc), deps.PaymentHandler.Process)
	app.Get("/api/orders", handlers.RequireUser(authSvc), deps.OrderHandler.History)
	app.Get("/api/orders/:id", handlers.RequireUser(authSvc), deps.OrderHandler.View)

	favoritos := app.Group("/favoritos", handlers.RequireUser(authSvc))
	favoritos.Get("/", deps.FavoritesHandler.List)
	favoritos.Post("/", deps.FavoritesHandler.Save)
	favoritos.Post("/delete", deps.FavoritesHandler.Unsave)

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

	return app, db
}

func jsonReq(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return m
}

// login authenticates a seeded user and returns the sid cookie.
func login(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	req := jsonReq("POST", "/auth/login", `{"email":"`+email+`","password":"Passw0rd!"}`)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
	sid := extractCookie(resp, "sid")
	if sid == "" {
		t.Fatal("login did not set a sid cookie")
	}
	return sid
}

func withSID(req *http.Request, sid string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	return req
}
