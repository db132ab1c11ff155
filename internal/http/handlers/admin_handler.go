package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"patitas/internal/domain"
	applog "patitas/internal/log"
	"patitas/internal/repos"
	"patitas/internal/validate"
)

type AdminHandler struct {
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
	Users  *repos.UserRepo
}

// GET /admin/products — includes stock, excludes soft-deleted rows.
func (h *AdminHandler) Products(c *fiber.Ctx) error {
	products, err := h.Prods.ListAll()
	if err != nil {
		return failFromErr(c, "admin.products.list.fail", err)
	}
	return ok(c, fiber.Map{"products": products})
}

type productReq struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	Descripcion  string          `json:"descripcion"`
	Imagen       string          `json:"imagen"`
	Categoria    string          `json:"categoria"`
	Subcategoria string          `json:"subcategoria"`
	Marca        string          `json:"marca"`
	Color        string          `json:"color"`
	Precio       decimal.Decimal `json:"precio"`
	Stock        int             `json:"stock"`
	Destacado    bool            `json:"destacado"`
	Peso         string          `json:"peso"`
	Edad         string          `json:"edad"`
}

func (r productReq) validate() error {
	if _, ok := validate.ID(r.ID); !ok {
		return errors.New("id")
	}
	if r.Nombre == "" || r.Categoria == "" {
		return errors.New("nombre/categoria")
	}
	if r.Precio.IsNegative() || r.Stock < 0 {
		return errors.New("precio/stock")
	}
	return nil
}

// POST /admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req productReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Cuerpo inválido", nil)
	}
	if err := req.validate(); err != nil {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Datos inválidos", fiber.Map{"field": err.Error()})
	}
	p := domain.Product{
		ID: req.ID, Nombre: req.Nombre, Descripcion: req.Descripcion, Imagen: req.Imagen,
		Categoria: req.Categoria, Subcategoria: req.Subcategoria, Marca: req.Marca, Color: req.Color,
		Precio: req.Precio, Stock: req.Stock, Destacado: req.Destacado, Peso: req.Peso, Edad: req.Edad,
	}
	if err := h.Prods.Create(p); err != nil {
		return failFromErr(c, "admin.products.create.fail", err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product": p.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "product": p})
}

// PUT /admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Falta id", nil)
	}
	if _, err := h.Prods.GetAny(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fail(c, fiber.StatusNotFound, "NotFound", "Producto no encontrado", nil)
		}
		return failFromErr(c, "admin.products.update.fail", err)
	}
	var req productReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Cuerpo inválido", nil)
	}
	req.ID = id
	if err := req.validate(); err != nil {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Datos inválidos", fiber.Map{"field": err.Error()})
	}
	p := domain.Product{
		ID: id, Nombre: req.Nombre, Descripcion: req.Descripcion, Imagen: req.Imagen,
		Categoria: req.Categoria, Subcategoria: req.Subcategoria, Marca: req.Marca, Color: req.Color,
		Precio: req.Precio, Destacado: req.Destacado, Peso: req.Peso, Edad: req.Edad,
	}
	if err := h.Prods.Update(p); err != nil {
		return failFromErr(c, "admin.products.update.fail", err)
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product": id})
	return ok(c, fiber.Map{"product": p})
}

// DELETE /admin/products/:id — soft delete; past orders keep the row.
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Falta id", nil)
	}
	if err := h.Prods.SoftDelete(id); err != nil {
		return failFromErr(c, "admin.products.delete.fail", err)
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	return ok(c, nil)
}

type stockReq struct {
	Stock int `json:"stock"`
}

// PUT /admin/products/:id/stock
func (h *AdminHandler) SetStock(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Falta id", nil)
	}
	var req stockReq
	if err := c.BodyParser(&req); err != nil || req.Stock < 0 {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Stock inválido", fiber.Map{"field": "stock"})
	}
	if err := h.Prods.SetStock(id, req.Stock); err != nil {
		return failFromErr(c, "admin.stock.save.fail", err)
	}
	applog.Audit(c, "admin.stock.save", map[string]any{"product": id, "stock": req.Stock})
	return ok(c, nil)
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.Orders.ListLatest(100)
	if err != nil {
		return failFromErr(c, "admin.orders.list.fail", err)
	}
	return ok(c, fiber.Map{"orders": ords})
}

type statusReq struct {
	Status string `json:"status"`
}

// PUT /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Falta id", nil)
	}
	var req statusReq
	if err := c.BodyParser(&req); err != nil || !domain.ValidOrderStatus(req.Status) {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Estado inválido", fiber.Map{"field": "status"})
	}
	if _, _, err := h.Orders.Get(id); err != nil {
		return fail(c, fiber.StatusNotFound, "NotFound", "Pedido no encontrado", nil)
	}
	if err := h.Orders.UpdateStatus(id, req.Status); err != nil {
		return failFromErr(c, "admin.orders.update.fail", err)
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": req.Status})
	return ok(c, nil)
}

// GET /admin/users
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		return failFromErr(c, "admin.users.list.fail", err)
	}
	return ok(c, fiber.Map{"users": users})
}

// POST /admin/users/:id/deactivate
func (h *AdminHandler) DeactivateUser(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return fail(c, fiber.StatusBadRequest, "ValidationError", "Falta id", nil)
	}
	if _, err := h.Users.ByID(id); err != nil {
		return fail(c, fiber.StatusNotFound, "NotFound", "Usuario no encontrado", nil)
	}
	if err := h.Users.DeactivateCascade(id); err != nil {
		return failFromErr(c, "admin.users.deactivate.fail", err)
	}
	applog.Audit(c, "admin.users.deactivate", map[string]any{"user_id": id})
	return ok(c, nil)
}
