package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	app, _ := newTestApp(t)

	// anonymous -> 401
	respAnon, err := app.Test(httptest.NewRequest("GET", "/admin/products", nil))
	if err != nil {
		t.Fatal(err)
	}
	if respAnon.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", respAnon.StatusCode)
	}

	// customer session -> 403
	sidAna := login(t, app, "ana@patitas.test")
	respUser, err := app.Test(withSID(httptest.NewRequest("GET", "/admin/products", nil), sidAna))
	if err != nil {
		t.Fatal(err)
	}
	if respUser.StatusCode != http.StatusForbidden {
		t.Fatalf("customer: expected 403, got %d", respUser.StatusCode)
	}

	// admin session -> 200
	sidAdmin := login(t, app, "admin@patitas.test")
	respAdmin, err := app.Test(withSID(httptest.NewRequest("GET", "/admin/products", nil), sidAdmin))
	if err != nil {
		t.Fatal(err)
	}
	if respAdmin.StatusCode != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", respAdmin.StatusCode)
	}
}

func TestAdminProductLifecycle(t *testing.T) {
	app, _ := newTestApp(t)
	sid := login(t, app, "admin@patitas.test")

	create := `{
		"id": "jug-gato-001", "nombre": "Ratón de tela", "categoria": "juguetes",
		"precio": 2500, "stock": 15, "destacado": false
	}`
	respCreate, err := app.Test(withSID(jsonReq("POST", "/admin/products", create), sid))
	if err != nil {
		t.Fatal(err)
	}
	if respCreate.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", respCreate.StatusCode)
	}

	// visible on the public detail endpoint
	respDetail, err := app.Test(httptest.NewRequest("GET", "/api/products/jug-gato-001", nil))
	if err != nil {
		t.Fatal(err)
	}
	if respDetail.StatusCode != http.StatusOK {
		t.Fatalf("detail: expected 200, got %d", respDetail.StatusCode)
	}

	respStock, err := app.Test(withSID(jsonReq("PUT", "/admin/products/jug-gato-001/stock", `{"stock":3}`), sid))
	if err != nil {
		t.Fatal(err)
	}
	if respStock.StatusCode != http.StatusOK {
		t.Fatalf("stock: expected 200, got %d", respStock.StatusCode)
	}

	respDel, err := app.Test(withSID(httptest.NewRequest("DELETE", "/admin/products/jug-gato-001", nil), sid))
	if err != nil {
		t.Fatal(err)
	}
	if respDel.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", respDel.StatusCode)
	}

	// soft-deleted product is gone from the storefront
	respGone, err := app.Test(httptest.NewRequest("GET", "/api/products/jug-gato-001", nil))
	if err != nil {
		t.Fatal(err)
	}
	if respGone.StatusCode != http.StatusNotFound {
		t.Fatalf("after delete: expected 404, got %d", respGone.StatusCode)
	}
}

func TestAdminOrderStatusValidation(t *testing.T) {
	app, _ := newTestApp(t)
	sid := login(t, app, "admin@patitas.test")

	resp, err := app.Test(withSID(jsonReq("PUT", "/admin/orders/some-order/status", `{"status":"volando"}`), sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad status: expected 400, got %d", resp.StatusCode)
	}

	respMissing, err := app.Test(withSID(jsonReq("PUT", "/admin/orders/some-order/status", `{"status":"enviado"}`), sid))
	if err != nil {
		t.Fatal(err)
	}
	if respMissing.StatusCode != http.StatusNotFound {
		t.Fatalf("missing order: expected 404, got %d", respMissing.StatusCode)
	}
}
