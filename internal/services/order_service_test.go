package services_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"

	"patitas/internal/domain"
	"patitas/internal/repos"
	"patitas/internal/services"
)

type checkoutEnv struct {
	db     *sqlx.DB
	cart   *services.CartService
	orders *services.OrderService
	prods  *repos.ProductRepo
	oRepo  *repos.OrderRepo
}

func newCheckoutEnv(t *testing.T) *checkoutEnv {
	t.Helper()
	db := memdb(t)
	// one connection so concurrent checkouts serialize on the pool
	// instead of tripping SQLITE_BUSY
	db.SetMaxOpenConns(1)

	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	pay := &services.PaymentService{} // no gateway delay in tests

	return &checkoutEnv{
		db:     db,
		cart:   services.NewCartService(cartRepo, prodRepo),
		orders: services.NewOrderService(cartRepo, prodRepo, orderRepo, pay),
		prods:  prodRepo,
		oRepo:  orderRepo,
	}
}

func validAddress() services.ShippingAddress {
	return services.ShippingAddress{
		Address:    "Av. Siempreviva 742",
		City:       "Buenos Aires",
		PostalCode: "1425",
		State:      "CABA",
	}
}

func (e *checkoutEnv) orderCount(t *testing.T) int {
	t.Helper()
	var n int
	if err := e.db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestCheckout_HappyPath(t *testing.T) {
	env := newCheckoutEnv(t)
	addProduct(t, env.db, "p-a", "7200", 40)
	sid := "sess-ana"

	if _, err := env.cart.Add(sid, "p-a", 2); err != nil {
		t.Fatal(err)
	}

	placed, err := env.orders.Place("u-ana", sid, services.CheckoutRequest{
		ShippingAddress: validAddress(),
		PaymentMethod:   "transferencia",
	})
	if err != nil {
		t.Fatal(err)
	}
	if placed.OrderID == "" || placed.TransactionID == "" {
		t.Fatalf("missing ids: %+v", placed)
	}
	if !strings.HasPrefix(placed.OrderNumber, "PED-") {
		t.Fatalf("unexpected order number %q", placed.OrderNumber)
	}

	// 14400 subtotal -> 5000 shipping -> 3024 tax -> 22424 total
	if !placed.Breakdown.Subtotal.Equal(d("14400")) ||
		!placed.Breakdown.Shipping.Equal(d("5000")) ||
		!placed.Breakdown.Tax.Equal(d("3024")) ||
		!placed.Breakdown.Total.Equal(d("22424")) {
		t.Fatalf("bad breakdown: %+v", placed.Breakdown)
	}

	o, items, err := env.oRepo.Get(placed.OrderID)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != domain.OrderPendiente || o.PaymentStatus != domain.PaymentPagado {
		t.Fatalf("bad status: %s/%s", o.Status, o.PaymentStatus)
	}
	if !o.Total.Equal(d("22424")) {
		t.Fatalf("persisted total: %s", o.Total)
	}
	if len(items) != 1 || items[0].Qty != 2 || !items[0].UnitPrice.Equal(d("7200")) {
		t.Fatalf("bad items: %+v", items)
	}
	if items[0].ProductName == "" {
		t.Fatal("order item must snapshot the product name")
	}

	stock, _ := env.prods.Stock("p-a")
	if stock != 38 {
		t.Fatalf("stock: want 38 after decrement, got %d", stock)
	}

	cv, _ := env.cart.View(sid)
	if len(cv.Items) != 0 {
		t.Fatal("cart must be cleared after successful checkout")
	}
}

func TestCheckout_FreeShippingScenario(t *testing.T) {
	env := newCheckoutEnv(t)
	addProduct(t, env.db, "p-a", "10000", 10)
	addProduct(t, env.db, "p-b", "30000", 10)
	sid := "sess-ana"

	if _, err := env.cart.Add(sid, "p-a", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := env.cart.Add(sid, "p-b", 1); err != nil {
		t.Fatal(err)
	}

	placed, err := env.orders.Place("u-ana", sid, services.CheckoutRequest{
		ShippingAddress: validAddress(),
		PaymentMethod:   "efectivo",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !placed.Breakdown.Subtotal.Equal(d("50000")) ||
		!placed.Breakdown.Shipping.IsZero() ||
		!placed.Breakdown.Tax.Equal(d("10500")) ||
		!placed.Breakdown.Total.Equal(d("60500")) {
		t.Fatalf("bad breakdown: %+v", placed.Breakdown)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := newCheckoutEnv(t)
	_, err := env.orders.Place("u-ana", "sess-empty", services.CheckoutRequest{
		ShippingAddress: validAddress(),
		PaymentMethod:   "efectivo",
	})
	if !errors.Is(err, services.ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart, got %v", err)
	}
}

func TestCheckout_AddressValidation(t *testing.T) {
	env := newCheckoutEnv(t)
	addProduct(t, env.db, "p-a", "1000", 10)
	sid := "sess-ana"
	if _, err := env.cart.Add(sid, "p-a", 1); err != nil {
		t.Fatal(err)
	}

	bad := validAddress()
	bad.PostalCode = "123" // must be exactly 4 digits
	_, err := env.orders.Place("u-ana", sid, services.CheckoutRequest{
		ShippingAddress: bad,
		PaymentMethod:   "efectivo",
	})
	var valErr *services.ValidationError
	if !errors.As(err, &valErr) || valErr.Field != "postalCode" {
		t.Fatalf("want postalCode ValidationError, got %v", err)
	}

	// nothing happened
	if env.orderCount(t) != 0 {
		t.Fatal("no order may exist after a validation failure")
	}
	stock, _ := env.prods.Stock("p-a")
	if stock != 10 {
		t.Fatalf("stock must be untouched, got %d", stock)
	}
}

func TestCheckout_DeclinedCardLeavesStateUntouched(t *testing.T) {
	env := newCheckoutEnv(t)
	addProduct(t, env.db, "p-a", "1000", 10)
	sid := "sess-ana"
	if _, err := env.cart.Add(sid, "p-a", 2); err != nil {
		t.Fatal(err)
	}

	_, err := env.orders.Place("u-ana", sid, services.CheckoutRequest{
		ShippingAddress: validAddress(),
		PaymentMethod:   "tarjeta_credito",
		CardNumber:      services.DeclinedCard,
	})
	var payErr *services.PaymentDeclinedError
	if !errors.As(err, &payErr) {
		t.Fatalf("want PaymentDeclinedError, got %v", err)
	}

	if env.orderCount(t) != 0 {
		t.Fatal("declined payment must not create an order")
	}
	stock, _ := env.prods.Stock("p-a")
	if stock != 10 {
		t.Fatalf("declined payment must not touch stock, got %d", stock)
	}
	cv, _ := env.cart.View(sid)
	if cv.Count != 2 {
		t.Fatal("cart must survive a declined payment")
	}
}

func TestCheckout_CardMethodRequiresNumber(t *testing.T) {
	env := newCheckoutEnv(t)
	addProduct(t, env.db, "p-a", "1000", 10)
	sid := "sess-ana"
	if _, err := env.cart.Add(sid, "p-a", 1); err != nil {
		t.Fatal(err)
	}

	_, err := env.orders.Place("u-ana", sid, services.CheckoutRequest{
		ShippingAddress: validAddress(),
		PaymentMethod:   "tarjeta_credito",
	})
	var valErr *services.ValidationError
	if !errors.As(err, &valErr) || valErr.Field != "cardNumber" {
		t.Fatalf("want cardNumber ValidationError, got %v", err)
	}
}

func TestCheckout_StockReverificationAborts(t *testing.T) {
	env := newCheckoutEnv(t)
	addProduct(t, env.db, "p-a", "1000", 2)
	addProduct(t, env.db, "p-b", "2000", 5)
	sid := "sess-ana"
	if _, err := env.cart.Add(sid, "p-a", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := env.cart.Add(sid, "p-b", 1); err != nil {
		t.Fatal(err)
	}

	// stock drops between add and checkout
	if err := env.prods.SetStock("p-a", 1); err != nil {
		t.Fatal(err)
	}

	_, err := env.orders.Place("u-ana", sid, services.CheckoutRequest{
		ShippingAddress: validAddress(),
		PaymentMethod:   "efectivo",
	})
	var stockErr *services.InsufficientStockError
	if !errors.As(err, &stockErr) || stockErr.ProductID != "p-a" {
		t.Fatalf("want InsufficientStockError for p-a, got %v", err)
	}

	// no partial order, no decrement on the other line
	if env.orderCount(t) != 0 {
		t.Fatal("aborted checkout must not persist an order")
	}
	stockA, _ := env.prods.Stock("p-a")
	stockB, _ := env.prods.Stock("p-b")
	if stockA != 1 || stockB != 5 {
		t.Fatalf("stock must be untouched, got a=%d b=%d", stockA, stockB)
	}
}

func TestCheckout_ConcurrentSingleUnit(t *testing.T) {
	env := newCheckoutEnv(t)
	addProduct(t, env.db, "p-last", "1000", 1)

	// two different sessions both hold the last unit in their carts
	if _, err := env.cart.Add("sess-ana", "p-last", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := env.cart.Add("sess-bruno", "p-last", 1); err != nil {
		t.Fatal(err)
	}

	req := services.CheckoutRequest{ShippingAddress: validAddress(), PaymentMethod: "efectivo"}
	var wg sync.WaitGroup
	errs := make([]error, 2)
	users := []struct{ uid, sid string }{
		{"u-ana", "sess-ana"},
		{"u-bruno", "sess-bruno"},
	}
	for i := range users {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.orders.Place(users[i].uid, users[i].sid, req)
		}(i)
	}
	wg.Wait()

	okCount, stockFails := 0, 0
	for _, err := range errs {
		if err == nil {
			okCount++
			continue
		}
		var stockErr *services.InsufficientStockError
		if errors.As(err, &stockErr) {
			stockFails++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 || stockFails != 1 {
		t.Fatalf("want exactly one success and one stock failure, got ok=%d fail=%d", okCount, stockFails)
	}

	stock, _ := env.prods.Stock("p-last")
	if stock != 0 {
		t.Fatalf("stock must end at exactly 0, got %d", stock)
	}
	if env.orderCount(t) != 1 {
		t.Fatalf("exactly one order must exist, got %d", env.orderCount(t))
	}
}

func TestCheckout_IdempotencyKeyReplay(t *testing.T) {
	env := newCheckoutEnv(t)
	addProduct(t, env.db, "p-a", "1000", 10)
	sid := "sess-ana"
	if _, err := env.cart.Add(sid, "p-a", 1); err != nil {
		t.Fatal(err)
	}

	req := services.CheckoutRequest{
		ShippingAddress: validAddress(),
		PaymentMethod:   "efectivo",
		IdempotencyKey:  "retry-abc",
	}
	first, err := env.orders.Place("u-ana", sid, req)
	if err != nil {
		t.Fatal(err)
	}

	// client retries after e.g. a dropped response; cart is already empty
	second, err := env.orders.Place("u-ana", sid, req)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Replayed || second.OrderID != first.OrderID {
		t.Fatalf("replay must return the original order: first=%s second=%s", first.OrderID, second.OrderID)
	}
	if env.orderCount(t) != 1 {
		t.Fatal("replay must not create a second order")
	}
	stock, _ := env.prods.Stock("p-a")
	if stock != 9 {
		t.Fatalf("replay must not decrement again, got %d", stock)
	}
}

func TestOrderNumbersAreUnique(t *testing.T) {
	env := newCheckoutEnv(t)
	addProduct(t, env.db, "p-a", "1000", 10)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		sid := "sess-ana"
		if _, err := env.cart.Add(sid, "p-a", 1); err != nil {
			t.Fatal(err)
		}
		placed, err := env.orders.Place("u-ana", sid, services.CheckoutRequest{
			ShippingAddress: validAddress(),
			PaymentMethod:   "efectivo",
		})
		if err != nil {
			t.Fatal(err)
		}
		if seen[placed.OrderNumber] {
			t.Fatalf("duplicate order number %s", placed.OrderNumber)
		}
		seen[placed.OrderNumber] = true
	}
}
