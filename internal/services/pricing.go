package services

import "github.com/shopspring/decimal"

// Business constants for totals. Amounts are in currency units (ARS).
var (
	freeShippingFrom = decimal.NewFromInt(45000)
	flatShipping     = decimal.NewFromInt(5000)
	taxRate          = decimal.RequireFromString("0.21")
)

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shippingCost"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type PricedLine struct {
	UnitPrice decimal.Decimal
	Qty       int
}

// ComputeTotals is a pure function of the cart lines. Accumulation stays
// unrounded; callers round to 2 digits at the persist/display boundary.
func ComputeTotals(lines []PricedLine) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty))))
	}

	shipping := flatShipping
	if subtotal.GreaterThanOrEqual(freeShippingFrom) {
		shipping = decimal.Zero
	}
	if subtotal.IsZero() {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// Rounded returns the totals rounded to 2 digits for persistence or JSON.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal: t.Subtotal.Round(2),
		Shipping: t.Shipping.Round(2),
		Tax:      t.Tax.Round(2),
		Total:    t.Total.Round(2),
	}
}
