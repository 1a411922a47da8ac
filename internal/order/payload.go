package order

import (
	"github.com/shopspring/decimal"

	"github.com/fjod/go_storefront/internal/domain"
)

// Payload is the full line set plus totals submitted to the backend, either
// as a new order or as an atomic replacement during an edit. The backend
// owns the actual stock transaction; the payload only guarantees each
// quantity was within its ceiling when the payload was built.
type Payload struct {
	Items  []domain.OrderLine
	Totals domain.Totals
}

// BuildPayload maps cart lines to order lines and computes totals with the
// same formula the cart uses. The unit price snapshot becomes the order
// price, fixed from here on.
func BuildPayload(lines []domain.CartLine) (*Payload, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]domain.OrderLine, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		items = append(items, domain.OrderLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		})
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return &Payload{
		Items:  items,
		Totals: domain.ComputeTotals(subtotal),
	}, nil
}
