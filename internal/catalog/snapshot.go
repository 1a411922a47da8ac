package catalog

import (
	"strings"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
)

// Snapshot is a point-in-time read of the product catalog. It is immutable
// after construction; stock and prices only change when a new snapshot is
// taken.
type Snapshot struct {
	products []domain.Product
	byID     map[int64]int
	takenAt  time.Time
}

func NewSnapshot(products []domain.Product) *Snapshot {
	byID := make(map[int64]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}
	return &Snapshot{
		products: products,
		byID:     byID,
		takenAt:  time.Now(),
	}
}

func (s *Snapshot) Get(productID int64) (domain.Product, bool) {
	i, ok := s.byID[productID]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// StockOf returns the live stock for the product, or zero if the product is
// not in the snapshot.
func (s *Snapshot) StockOf(productID int64) int {
	if p, ok := s.Get(productID); ok {
		return p.Stock
	}
	return 0
}

// Products returns the catalog entries in listing order.
func (s *Snapshot) Products() []domain.Product {
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Filter returns the products whose name contains the term,
// case-insensitively. An empty term matches everything.
func (s *Snapshot) Filter(term string) []domain.Product {
	term = strings.ToLower(term)
	var out []domain.Product
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Snapshot) TakenAt() time.Time {
	return s.takenAt
}
