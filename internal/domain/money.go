package domain

import "github.com/shopspring/decimal"

// TaxRate is the flat sales tax applied to every order. The cart and the
// order engine both derive totals from this single value so the two can
// never drift apart.
var TaxRate = decimal.NewFromFloat(0.05)

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals derives tax and total from a subtotal at full precision.
// Rounding to two digits happens only at the presentation edge.
func ComputeTotals(subtotal decimal.Decimal) Totals {
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
