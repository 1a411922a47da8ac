package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is a committed line item. Price is the price at order time and
// never changes with later catalog updates.
type OrderLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Order struct {
	ID        int64           `json:"id"`
	Items     []OrderLine     `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}
