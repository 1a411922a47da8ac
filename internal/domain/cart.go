package domain

import "github.com/shopspring/decimal"

// CartLine is one product entry in the cart. UnitPrice and StockCap are
// snapshots taken when the line was created; the line keeps them until it
// is removed and re-added after a catalog refresh.
type CartLine struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	StockCap  int             `json:"stock_cap"`
}
