package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// Sales aggregates are computed server-side; the client only fetches and
// decodes them.

type EmployeeSales struct {
	Username       string          `json:"username"`
	Name           string          `json:"name"`
	Role           string          `json:"role"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalItemsSold int             `json:"total_items_sold"`
}

type DailyProductSales struct {
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	QuantitySold int             `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type EmployeeAverage struct {
	Username         string          `json:"username"`
	Name             string          `json:"name"`
	Role             string          `json:"role"`
	OrderCount       int             `json:"order_count"`
	AvgOrderAmount   decimal.Decimal `json:"avg_order_amount"`
	AvgItemsPerOrder decimal.Decimal `json:"avg_items_per_order"`
}

func (c *Client) EmployeeSales(ctx context.Context) ([]EmployeeSales, error) {
	var stats []EmployeeSales
	if err := c.do(ctx, http.MethodGet, "/admin/stats/employee-sales", nil, &stats); err != nil {
		return nil, fmt.Errorf("employee sales: %w", err)
	}
	return stats, nil
}

func (c *Client) DailyProductSales(ctx context.Context) ([]DailyProductSales, error) {
	var stats []DailyProductSales
	if err := c.do(ctx, http.MethodGet, "/admin/stats/daily-product-sales", nil, &stats); err != nil {
		return nil, fmt.Errorf("daily product sales: %w", err)
	}
	return stats, nil
}

func (c *Client) EmployeeAverages(ctx context.Context) ([]EmployeeAverage, error) {
	var stats []EmployeeAverage
	if err := c.do(ctx, http.MethodGet, "/admin/stats/employee-average", nil, &stats); err != nil {
		return nil, fmt.Errorf("employee averages: %w", err)
	}
	return stats, nil
}
