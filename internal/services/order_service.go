package services

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"patitas/internal/domain"
	"patitas/internal/repos"
	"patitas/internal/validate"
)

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	State      string `json:"state"`
}

type CheckoutRequest struct {
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	CardNumber      string          `json:"cardNumber"`
	Notes           string          `json:"notes"`
	IdempotencyKey  string          `json:"idempotencyKey"`
}

type PlacedOrder struct {
	OrderID       string          `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	TransactionID string          `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Breakdown     Totals          `json:"breakdown"`
	Replayed      bool            `json:"-"`
}

type OrderService struct {
	Carts   *repos.CartRepo
	Prods   *repos.ProductRepo
	Orders  *repos.OrderRepo
	Payment *PaymentService
}

func NewOrderService(carts *repos.CartRepo, prods *repos.ProductRepo, orders *repos.OrderRepo, pay *PaymentService) *OrderService {
	return &OrderService{Carts: carts, Prods: prods, Orders: orders, Payment: pay}
}

// Place runs the whole checkout. Any failure before the final commit
// leaves products and orders untouched; the cart is cleared only after
// a successful commit.
func (s *OrderService) Place(userID, sessionID string, req CheckoutRequest) (*PlacedOrder, error) {
	// Replay with the same idempotency key returns the original order
	// instead of charging again.
	if req.IdempotencyKey != "" {
		if prev, ok, _ := s.Orders.ByIdempotencyKey(userID, req.IdempotencyKey); ok {
			return &PlacedOrder{
				OrderID:     prev.ID,
				OrderNumber: prev.OrderNumber,
				Amount:      prev.Total,
				Breakdown: Totals{
					Subtotal: prev.Subtotal,
					Shipping: prev.ShippingCost,
					Tax:      prev.Tax,
					Total:    prev.Total,
				},
				Replayed: true,
			}, nil
		}
	}

	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return nil, err
	}
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if err := validateAddress(req.ShippingAddress); err != nil {
		return nil, err
	}

	// Stock re-verification against the live catalog; whole checkout
	// aborts on any shortfall. Prices are re-derived from the live
	// product, not the add-time snapshot.
	type checkedLine struct {
		repos.CartLine
		livePrice decimal.Decimal
		imagen    string
		nombre    string
	}
	checked := make([]checkedLine, 0, len(items))
	for _, it := range items {
		p, err := s.Prods.Get(it.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if p.Stock < it.Qty {
			return nil, &InsufficientStockError{ProductID: it.ProductID, Requested: it.Qty, Available: p.Stock}
		}
		checked = append(checked, checkedLine{CartLine: it, livePrice: p.Precio, imagen: p.Imagen, nombre: p.Nombre})
	}

	lines := make([]PricedLine, 0, len(checked))
	for _, c := range checked {
		lines = append(lines, PricedLine{UnitPrice: c.livePrice, Qty: c.Qty})
	}
	totals := ComputeTotals(lines).Rounded()

	pay, err := s.Payment.Charge(req.PaymentMethod, req.CardNumber, totals.Total)
	if err != nil {
		return nil, err
	}

	orderID := uuid.NewString()
	eta := time.Now().UTC().AddDate(0, 0, 5).Format("2006-01-02")

	// Order persistence and stock decrement are one transaction: either
	// the order, its items and every decrement land, or none do.
	var orderNumber string
	for attempt := 0; attempt < 3; attempt++ {
		orderNumber = newOrderNumber()
		tx, err := s.Orders.DB().Beginx()
		if err != nil {
			return nil, err
		}

		o := domain.Order{
			ID:                orderID,
			UserID:            userID,
			OrderNumber:       orderNumber,
			Status:            domain.OrderPendiente,
			PaymentMethod:     req.PaymentMethod,
			PaymentStatus:     domain.PaymentPagado,
			ShippingAddress:   strings.TrimSpace(req.ShippingAddress.Address),
			ShippingCity:      strings.TrimSpace(req.ShippingAddress.City),
			ShippingPostal:    strings.TrimSpace(req.ShippingAddress.PostalCode),
			ShippingState:     strings.TrimSpace(req.ShippingAddress.State),
			Subtotal:          totals.Subtotal,
			ShippingCost:      totals.Shipping,
			Tax:               totals.Tax,
			Total:             totals.Total,
			Notes:             strings.TrimSpace(req.Notes),
			EstimatedDelivery: eta,
		}
		if err := s.Orders.InsertTx(tx, o, req.IdempotencyKey); err != nil {
			_ = tx.Rollback()
			if isOrderNumberCollision(err) {
				continue // regenerate and retry
			}
			return nil, err
		}

		for _, c := range checked {
			unit := c.livePrice.Round(2)
			item := domain.OrderItem{
				OrderID:      orderID,
				ProductID:    c.ProductID,
				Qty:          c.Qty,
				UnitPrice:    unit,
				TotalPrice:   unit.Mul(decimal.NewFromInt(int64(c.Qty))).Round(2),
				ProductName:  c.nombre,
				ProductImage: c.imagen,
			}
			if err := s.Orders.InsertItemTx(tx, item); err != nil {
				_ = tx.Rollback()
				return nil, err
			}
			// Conditional decrement is the authoritative guard against
			// concurrent checkouts on the same product.
			if err := s.Prods.DecrementStock(tx, c.ProductID, c.Qty); err != nil {
				_ = tx.Rollback()
				avail, _ := s.Prods.Stock(c.ProductID)
				return nil, &InsufficientStockError{ProductID: c.ProductID, Requested: c.Qty, Available: avail}
			}
		}

		if err := tx.Commit(); err != nil {
			return nil, err
		}

		_ = s.Carts.Clear(cartID)
		return &PlacedOrder{
			OrderID:       orderID,
			OrderNumber:   orderNumber,
			TransactionID: pay.TransactionID,
			Amount:        pay.Amount,
			Breakdown:     totals,
		}, nil
	}

	return nil, errors.New("could not allocate a unique order number")
}

func validateAddress(a ShippingAddress) error {
	if strings.TrimSpace(a.Address) == "" {
		return &ValidationError{Field: "address", Msg: "required"}
	}
	if strings.TrimSpace(a.City) == "" {
		return &ValidationError{Field: "city", Msg: "required"}
	}
	if _, ok := validate.PostalCode(a.PostalCode); !ok {
		return &ValidationError{Field: "postalCode", Msg: "must be exactly 4 digits"}
	}
	if strings.TrimSpace(a.State) == "" {
		return &ValidationError{Field: "state", Msg: "required"}
	}
	return nil
}

// newOrderNumber builds a time-prefixed, externally visible number.
// Uniqueness rests on the DB unique index plus retry, never on the
// timestamp alone.
func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "PED-" + time.Now().UTC().Format("20060102") + "-" + suffix
}

func isOrderNumberCollision(err error) bool {
	return err != nil && strings.Contains(err.Error(), "orders.order_number")
}
