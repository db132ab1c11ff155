package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID           string          `db:"id" json:"id"`
	Nombre       string          `db:"nombre" json:"nombre"`
	Descripcion  string          `db:"descripcion" json:"descripcion"`
	Imagen       string          `db:"imagen" json:"imagen"`
	Categoria    string          `db:"categoria" json:"categoria"`
	Subcategoria string          `db:"subcategoria" json:"subcategoria"`
	Marca        string          `db:"marca" json:"marca"`
	Color        string          `db:"color" json:"color,omitempty"`
	Precio       decimal.Decimal `db:"precio" json:"precio"`
	Stock        int             `db:"stock" json:"stock"`
	Destacado    bool            `db:"destacado" json:"destacado"`
	Borrado      bool            `db:"borrado" json:"-"`
	Peso         string          `db:"peso" json:"peso,omitempty"`
	Edad         string          `db:"edad" json:"edad,omitempty"`
	CreatedAt    string          `db:"created_at" json:"-"`
	UpdatedAt    string          `db:"updated_at" json:"-"`
}

// Order statuses.
const (
	OrderPendiente  = "pendiente"
	OrderProcesando = "procesando"
	OrderEnviado    = "enviado"
	OrderEntregado  = "entregado"
	OrderCancelado  = "cancelado"
)

// Payment statuses.
const (
	PaymentPendiente   = "pendiente"
	PaymentPagado      = "pagado"
	PaymentFallido     = "fallido"
	PaymentReembolsado = "reembolsado"
)

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPendiente, OrderProcesando, OrderEnviado, OrderEntregado, OrderCancelado:
		return true
	}
	return false
}

type Order struct {
	ID                string          `db:"id" json:"id"`
	UserID            string          `db:"user_id" json:"-"`
	OrderNumber       string          `db:"order_number" json:"orderNumber"`
	Status            string          `db:"status" json:"status"`
	PaymentMethod     string          `db:"payment_method" json:"paymentMethod"`
	PaymentStatus     string          `db:"payment_status" json:"paymentStatus"`
	ShippingAddress   string          `db:"shipping_address" json:"shippingAddress"`
	ShippingCity      string          `db:"shipping_city" json:"shippingCity"`
	ShippingPostal    string          `db:"shipping_postal_code" json:"shippingPostalCode"`
	ShippingState     string          `db:"shipping_state" json:"shippingState"`
	Subtotal          decimal.Decimal `db:"subtotal" json:"subtotal"`
	ShippingCost      decimal.Decimal `db:"shipping_cost" json:"shippingCost"`
	Tax               decimal.Decimal `db:"tax" json:"tax"`
	Total             decimal.Decimal `db:"total" json:"total"`
	Notes             string          `db:"notes" json:"notes,omitempty"`
	EstimatedDelivery string          `db:"estimated_delivery" json:"estimatedDelivery"`
	CreatedAt         string          `db:"created_at" json:"createdAt"`
}

type OrderItem struct {
	OrderID      string          `db:"order_id" json:"-"`
	ProductID    string          `db:"product_id" json:"productId"`
	Qty          int             `db:"qty" json:"cantidad"`
	UnitPrice    decimal.Decimal `db:"unit_price" json:"unitPrice"`
	TotalPrice   decimal.Decimal `db:"total_price" json:"totalPrice"`
	ProductName  string          `db:"product_name" json:"productName"`
	ProductImage string          `db:"product_image" json:"productImage"`
}
