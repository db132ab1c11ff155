package services

import (
	"database/sql"
	"errors"

	"patitas/internal/repos"
	"patitas/internal/validate"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add puts qty more units of a product into the session's cart. The
// request is rejected whole when in-cart + qty would exceed live stock.
// Returns the updated unit count across the cart.
func (s *CartService) Add(sessionID, productID string, qty int) (int, error) {
	qty = validate.ClampQty(qty)

	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return 0, err
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	inCart, err := s.Carts.Qty(cartID, productID)
	if err != nil {
		return 0, err
	}
	if inCart+qty > p.Stock {
		return 0, &InsufficientStockError{ProductID: productID, Requested: inCart + qty, Available: p.Stock}
	}
	if inCart+qty > 10 {
		qty = 10 - inCart
		if qty <= 0 {
			// line already at the per-product cap; treat as satisfied
			return s.Carts.Count(cartID)
		}
	}

	line := repos.CartLine{
		ProductID:  p.ID,
		Nombre:     p.Nombre,
		Qty:        qty,
		PriceAtAdd: p.Precio,
		Imagen:     p.Imagen,
		Categoria:  p.Categoria,
	}
	if err := s.Carts.AddItem(cartID, line); err != nil {
		return 0, err
	}
	return s.Carts.Count(cartID)
}

// Update sets the absolute quantity for a line. qty <= 0 removes it.
func (s *CartService) Update(sessionID, productID string, qty int) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	if qty <= 0 {
		return s.Carts.RemoveItem(cartID, productID)
	}
	if qty > 10 {
		qty = 10
	}

	inCart, err := s.Carts.Qty(cartID, productID)
	if err != nil {
		return err
	}
	if inCart == 0 {
		return ErrNotFound
	}

	stock, err := s.Prods.Stock(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if qty > stock {
		return &InsufficientStockError{ProductID: productID, Requested: qty, Available: stock}
	}
	return s.Carts.SetQty(cartID, productID, qty)
}

// Remove deletes a line; removing an absent line succeeds.
func (s *CartService) Remove(sessionID, productID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveItem(cartID, productID)
}

func (s *CartService) Clear(sessionID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}

type CartView struct {
	Items  []repos.CartLine `json:"items"`
	Count  int              `json:"cartCount"`
	Totals Totals           `json:"totals"`
}

// View returns the lines plus totals computed from add-time prices. It
// never touches stock.
func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return CartView{}, err
	}
	lines := make([]PricedLine, 0, len(items))
	count := 0
	for _, it := range items {
		lines = append(lines, PricedLine{UnitPrice: it.PriceAtAdd, Qty: it.Qty})
		count += it.Qty
	}
	return CartView{Items: items, Count: count, Totals: ComputeTotals(lines).Rounded()}, nil
}
