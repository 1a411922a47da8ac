package order

import (
	"github.com/shopspring/decimal"

	"github.com/fjod/go_storefront/internal/domain"
)

type State string

const (
	StateOpen      State = "OPEN"
	StateCommitted State = "COMMITTED"
	StateDiscarded State = "DISCARDED"
)

// Catalog is the live catalog view an edit session validates against.
type Catalog interface {
	Get(productID int64) (domain.Product, bool)
	StockOf(productID int64) int
}

// Line is an order line inside an edit session together with the ceiling it
// may be raised to.
type Line struct {
	domain.OrderLine
	AvailableStock int
}

// Session is the transient working copy of one order's lines during an
// edit. Committing the edit is defined as the backend restoring the
// original reserved quantities and re-reserving the edited ones in one
// transaction, so an existing line's ceiling is live stock plus whatever
// the order already holds. Ceilings are computed once at Begin and never
// reused across sessions.
type Session struct {
	orderID int64
	state   State
	lines   []Line
}

// Begin opens an edit session over the order against a fresh catalog view.
func Begin(o domain.Order, catalog Catalog) *Session {
	lines := make([]Line, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, Line{
			OrderLine:      item,
			AvailableStock: catalog.StockOf(item.ProductID) + item.Quantity,
		})
	}
	return &Session{
		orderID: o.ID,
		state:   StateOpen,
		lines:   lines,
	}
}

func (s *Session) OrderID() int64 {
	return s.orderID
}

func (s *Session) State() State {
	return s.state
}

// Lines returns a copy of the working set.
func (s *Session) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// SetQuantity updates a line. Requests below 1 are rejected and leave the
// line unchanged; requests above the ceiling are clamped to it, and the
// clamp is reported so the caller can warn rather than silently drop the
// excess.
func (s *Session) SetQuantity(productID int64, quantity int) (clamped bool, err error) {
	if s.state != StateOpen {
		return false, ErrSessionClosed
	}
	i := s.indexOf(productID)
	if i < 0 {
		return false, ErrLineNotFound
	}
	if quantity < 1 {
		return false, ErrInvalidQuantity
	}
	if quantity > s.lines[i].AvailableStock {
		s.lines[i].Quantity = s.lines[i].AvailableStock
		return true, nil
	}
	s.lines[i].Quantity = quantity
	return false, nil
}

// Remove deletes the line from the working set. The at-least-one-line rule
// is checked at Commit, not here.
func (s *Session) Remove(productID int64) error {
	if s.state != StateOpen {
		return ErrSessionClosed
	}
	i := s.indexOf(productID)
	if i < 0 {
		return ErrLineNotFound
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	return nil
}

// Add appends a new line priced at the live catalog price. A fresh line has
// no prior reservation to restore, so its ceiling is exactly the live
// stock. A product may appear at most once per session; a second entry must
// be expressed as a quantity change.
func (s *Session) Add(productID int64, quantity int, catalog Catalog) error {
	if s.state != StateOpen {
		return ErrSessionClosed
	}
	if s.indexOf(productID) >= 0 {
		return ErrAlreadyPresent
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	product, ok := catalog.Get(productID)
	if !ok {
		return ErrProductNotFound
	}
	if quantity > product.Stock {
		return ErrOutOfStock
	}
	s.lines = append(s.lines, Line{
		OrderLine: domain.OrderLine{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  quantity,
			Price:     product.Price,
		},
		AvailableStock: product.Stock,
	})
	return nil
}

// Payload returns the replacement line set with recomputed totals without
// closing the session. A failed submission can therefore be retried against
// the same working set.
func (s *Session) Payload() (*Payload, error) {
	if s.state != StateOpen {
		return nil, ErrSessionClosed
	}
	if len(s.lines) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]domain.OrderLine, 0, len(s.lines))
	subtotal := decimal.Zero
	for _, line := range s.lines {
		items = append(items, line.OrderLine)
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return &Payload{
		Items:  items,
		Totals: domain.ComputeTotals(subtotal),
	}, nil
}

// Commit closes the session and returns the replacement line set to be
// submitted as one atomic update. Callers finalize only after the backend
// accepted the payload; until then the session stays open.
func (s *Session) Commit() (*Payload, error) {
	payload, err := s.Payload()
	if err != nil {
		return nil, err
	}
	s.state = StateCommitted
	return payload, nil
}

// Discard closes the session without producing output.
func (s *Session) Discard() error {
	if s.state != StateOpen {
		return ErrSessionClosed
	}
	s.state = StateDiscarded
	s.lines = nil
	return nil
}

func (s *Session) indexOf(productID int64) int {
	for i, line := range s.lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}
