package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/fjod/go_storefront/internal/domain"
)

// ProductInput is the admin create/update payload for a catalog entry.
type ProductInput struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
}

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &product); err != nil {
		return domain.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return product, nil
}

func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (int64, error) {
	var created struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/products", productWire(input), &created); err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}
	return created.ID, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, input ProductInput) error {
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), productWire(input), nil); err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}
	return nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

// productWire renders monetary fields as plain JSON numbers, which is what
// the backend stores.
func productWire(input ProductInput) map[string]interface{} {
	return map[string]interface{}{
		"name":        input.Name,
		"price":       json.Number(input.Price.String()),
		"stock":       input.Stock,
		"description": input.Description,
	}
}
