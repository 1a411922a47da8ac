package cart

import (
	"github.com/shopspring/decimal"

	"github.com/fjod/go_storefront/internal/domain"
)

// ProductSource is a point-in-time view of the catalog. The cart only ever
// reads from it; staleness is resolved when the caller refreshes the
// snapshot and new lines pick up new stock caps.
type ProductSource interface {
	Get(productID int64) (domain.Product, bool)
}

// Cart holds the shopping cart lines, ordered by insertion and unique by
// product. It replaces the shared mutable cart of the original UI: one
// instance per user session, passed explicitly to whoever needs it.
type Cart struct {
	lines []domain.CartLine
}

func New() *Cart {
	return &Cart{}
}

// Add puts one unit of the product into the cart. An existing line is
// incremented up to its stock cap; a new line starts at quantity 1 with the
// cap snapshotted from the catalog.
func (c *Cart) Add(src ProductSource, productID int64) error {
	product, ok := src.Get(productID)
	if !ok {
		return ErrProductNotFound
	}
	if product.Stock <= 0 {
		return ErrOutOfStock
	}

	if i := c.indexOf(productID); i >= 0 {
		if c.lines[i].Quantity >= c.lines[i].StockCap {
			return ErrStockLimitReached
		}
		c.lines[i].Quantity++
		return nil
	}

	c.lines = append(c.lines, domain.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  1,
		StockCap:  product.Stock,
	})
	return nil
}

func (c *Cart) Increase(productID int64) error {
	i := c.indexOf(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	if c.lines[i].Quantity >= c.lines[i].StockCap {
		return ErrStockLimitReached
	}
	c.lines[i].Quantity++
	return nil
}

// Decrease lowers the quantity by one. At quantity 1 the line is removed
// entirely; decrement and remove are a single user-facing affordance.
func (c *Cart) Decrease(productID int64) error {
	i := c.indexOf(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
		return nil
	}
	c.removeAt(i)
	return nil
}

// Remove deletes the line if present. Removing an absent product is a no-op.
func (c *Cart) Remove(productID int64) {
	if i := c.indexOf(productID); i >= 0 {
		c.removeAt(i)
	}
}

// Clear empties the cart and reports whether anything was removed.
func (c *Cart) Clear() bool {
	if len(c.lines) == 0 {
		return false
	}
	c.lines = nil
	return true
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Totals recomputes subtotal, tax and total from the current lines. It is
// pure over the cart state, so it can never serve a stale value.
func (c *Cart) Totals() domain.Totals {
	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return domain.ComputeTotals(subtotal)
}

func (c *Cart) indexOf(productID int64) int {
	for i, line := range c.lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}
