package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartLine is one product+quantity entry with the snapshot taken at add
// time. Display totals use the snapshot price; checkout re-derives from
// the live product.
type CartLine struct {
	ProductID  string          `db:"product_id" json:"productId"`
	Nombre     string          `db:"nombre_at_add" json:"nombre"`
	Qty        int             `db:"qty" json:"cantidad"`
	PriceAtAdd decimal.Decimal `db:"precio_at_add" json:"precio"`
	Imagen     string          `db:"imagen_at_add" json:"imagen"`
	Categoria  string          `db:"categoria_at_add" json:"categoria"`
}

func (r *CartRepo) EnsureCart(sessionID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,session_id,updated_at) VALUES(?,?,?)`,
		sessionID, sessionID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// Qty returns the quantity already in the cart for a product (0 if absent).
func (r *CartRepo) Qty(cartID, productID string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT COALESCE(SUM(qty),0) FROM cart_items WHERE cart_id = ? AND product_id = ?`, cartID, productID)
	return qty, err
}

// AddItem inserts a line or increments an existing one, keeping the
// original add-time snapshot on increments.
func (r *CartRepo) AddItem(cartID string, line CartLine) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(cart_id,product_id,qty,nombre_at_add,precio_at_add,imagen_at_add,categoria_at_add,created_at)
		VALUES(?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,product_id) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, cartID, line.ProductID, line.Qty, line.Nombre, line.PriceAtAdd, line.Imagen, line.Categoria)
	return err
}

// SetQty sets the absolute quantity for an existing line.
func (r *CartRepo) SetQty(cartID, productID string, qty int) error {
	_, err := r.db.Exec(`
		UPDATE cart_items SET qty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE cart_id = ? AND product_id = ?
	`, qty, cartID, productID)
	return err
}

// RemoveItem deletes a line. Removing an absent line is a no-op.
func (r *CartRepo) RemoveItem(cartID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`, cartID, productID)
	return err
}

func (r *CartRepo) Items(cartID string) ([]CartLine, error) {
	out := []CartLine{}
	err := r.db.Select(&out, `
	  SELECT product_id, nombre_at_add, qty, precio_at_add,
	         COALESCE(imagen_at_add,'') AS imagen_at_add,
	         COALESCE(categoria_at_add,'') AS categoria_at_add
	  FROM cart_items
	  WHERE cart_id = ?
	  ORDER BY created_at, product_id
	`, cartID)
	return out, err
}

// Count returns the number of units across all lines.
func (r *CartRepo) Count(cartID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COALESCE(SUM(qty),0) FROM cart_items WHERE cart_id = ?`, cartID)
	return n, err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}
