package repos

import (
	"github.com/jmoiron/sqlx"

	"patitas/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) DB() *sqlx.DB { return r.db }

const orderCols = `
  id, user_id, order_number, status, payment_method, payment_status,
  shipping_address, shipping_city, shipping_postal_code, shipping_state,
  subtotal, shipping_cost, tax, total, COALESCE(notes,'') AS notes,
  COALESCE(estimated_delivery,'') AS estimated_delivery, created_at`

// InsertTx writes the order header inside an open transaction so the
// header, its items and the stock decrements commit or roll back as one.
func (r *OrderRepo) InsertTx(tx *sqlx.Tx, o domain.Order, idempotencyKey string) error {
	var key any
	if idempotencyKey != "" {
		key = idempotencyKey
	}
	_, err := tx.Exec(`
	  INSERT INTO orders
	    (id, user_id, order_number, status, payment_method, payment_status,
	     shipping_address, shipping_city, shipping_postal_code, shipping_state,
	     subtotal, shipping_cost, tax, total, notes, estimated_delivery, idempotency_key, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, o.ID, o.UserID, o.OrderNumber, o.Status, o.PaymentMethod, o.PaymentStatus,
		o.ShippingAddress, o.ShippingCity, o.ShippingPostal, o.ShippingState,
		o.Subtotal, o.ShippingCost, o.Tax, o.Total, o.Notes, o.EstimatedDelivery, key)
	return err
}

func (r *OrderRepo) InsertItemTx(tx *sqlx.Tx, it domain.OrderItem) error {
	_, err := tx.Exec(`
	  INSERT INTO order_items(order_id, product_id, qty, unit_price, total_price, product_name, product_image)
	  VALUES(?,?,?,?,?,?,?)
	`, it.OrderID, it.ProductID, it.Qty, it.UnitPrice, it.TotalPrice, it.ProductName, it.ProductImage)
	return err
}

func (r *OrderRepo) Get(orderID string) (domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	if err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, orderID); err != nil {
		return domain.Order{}, nil, err
	}
	items, err := r.itemsOf(orderID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

// ByIdempotencyKey finds an order created by a previous attempt with the
// same key, if any.
func (r *OrderRepo) ByIdempotencyKey(userID, key string) (domain.Order, bool, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE user_id = ? AND idempotency_key = ?`, userID, key)
	if err != nil {
		return domain.Order{}, false, nil
	}
	return o, true, nil
}

func (r *OrderRepo) itemsOf(orderID string) ([]domain.OrderItem, error) {
	items := []domain.OrderItem{}
	err := r.db.Select(&items, `
	  SELECT order_id, product_id, qty, unit_price, total_price, product_name,
	         COALESCE(product_image,'') AS product_image
	  FROM order_items
	  WHERE order_id = ?
	  ORDER BY product_name
	`, orderID)
	return items, err
}

func (r *OrderRepo) ListByUser(userID string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.Select(&out, `
	  SELECT `+orderCols+` FROM orders
	  WHERE user_id = ?
	  ORDER BY datetime(created_at) DESC
	`, userID)
	return out, err
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.Order{}
	err := r.db.Select(&out, `
	  SELECT `+orderCols+` FROM orders
	  ORDER BY datetime(created_at) DESC
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}
