package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/order"
)

// idempotencyHeader lets the backend drop a duplicate submission if the
// client retries after a lost response.
const idempotencyHeader = "X-Idempotency-Key"

type orderItemWire struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type orderWire struct {
	ID        int64           `json:"id"`
	Items     []orderItemWire `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt string          `json:"created_at"`
}

// CreateOrder submits the payload for a new order. Stock is decremented by
// the backend, not here.
func (c *Client) CreateOrder(ctx context.Context, payload *order.Payload, idempotencyKey string) (int64, error) {
	var created struct {
		OrderID int64 `json:"order_id"`
	}
	ctx = withHeader(ctx, idempotencyHeader, idempotencyKey)
	if err := c.do(ctx, http.MethodPost, "/orders", payloadWire(payload), &created); err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}
	return created.OrderID, nil
}

// ListOrders returns the authenticated user's orders, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var wires []orderWire
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &wires); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(wires))
	for _, w := range wires {
		orders = append(orders, w.toDomain())
	}
	return orders, nil
}

// UpdateOrder replaces the order's line set atomically. The backend
// restores the original reservations and re-reserves the new quantities in
// one transaction.
func (c *Client) UpdateOrder(ctx context.Context, id int64, payload *order.Payload) error {
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", id), payloadWire(payload), nil); err != nil {
		return fmt.Errorf("update order %d: %w", id, err)
	}
	return nil
}

// DeleteOrder removes the order; the backend restores each line's quantity
// to product stock before dropping the record.
func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	return nil
}

func payloadWire(payload *order.Payload) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, map[string]interface{}{
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
			"price":      json.Number(item.Price.String()),
		})
	}
	return map[string]interface{}{
		"items":    items,
		"subtotal": json.Number(payload.Totals.Subtotal.String()),
		"tax":      json.Number(payload.Totals.Tax.String()),
		"total":    json.Number(payload.Totals.Total.String()),
	}
}

func (w orderWire) toDomain() domain.Order {
	items := make([]domain.OrderLine, 0, len(w.Items))
	for _, item := range w.Items {
		items = append(items, domain.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return domain.Order{
		ID:        w.ID,
		Items:     items,
		Subtotal:  w.Subtotal,
		Tax:       w.Tax,
		Total:     w.Total,
		CreatedAt: parseOrderTime(w.CreatedAt),
	}
}

// parseOrderTime tolerates both RFC 3339 and the HTTP-date format older
// backends emit for timestamps. An unparseable value yields the zero time.
func parseOrderTime(value string) time.Time {
	for _, layout := range []string{time.RFC3339, time.RFC1123, time.RFC1123Z} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
