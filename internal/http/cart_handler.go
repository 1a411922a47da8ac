package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/shop"
)

type CartHandler struct {
	shop    *shop.Shop
	timeout time.Duration
}

func NewCartHandler(s *shop.Shop, timeout time.Duration) *CartHandler {
	return &CartHandler{
		shop:    s,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

// CartLineDTO renders money rounded to 2 digits for presentation only; the
// engine keeps full precision internally.
type CartLineDTO struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
	StockCap  int    `json:"stock_cap"`
}

type CartDTO struct {
	Items    []CartLineDTO `json:"items"`
	Subtotal string        `json:"subtotal"`
	Tax      string        `json:"tax"`
	Total    string        `json:"total"`
}

type CheckoutResponseDTO struct {
	OrderID int64 `json:"order_id"`
}

func cartToDTO(lines []domain.CartLine, totals domain.Totals) CartDTO {
	items := make([]CartLineDTO, 0, len(lines))
	for _, line := range lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, CartLineDTO{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Quantity:  line.Quantity,
			LineTotal: lineTotal.StringFixed(2),
			StockCap:  line.StockCap,
		})
	}
	return CartDTO{
		Items:    items,
		Subtotal: totals.Subtotal.StringFixed(2),
		Tax:      totals.Tax.StringFixed(2),
		Total:    totals.Total.StringFixed(2),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c := h.shop.Cart()
	respondJSON(w, http.StatusOK, cartToDTO(c.Lines(), c.Totals()))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	if err := h.shop.AddToCart(ctx, req.ProductID); err != nil {
		handleEngineError(w, err)
		return
	}

	c := h.shop.Cart()
	respondJSON(w, http.StatusCreated, cartToDTO(c.Lines(), c.Totals()))
}

func (h *CartHandler) IncreaseQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	c := h.shop.Cart()
	if err := c.Increase(productID); err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartToDTO(c.Lines(), c.Totals()))
}

func (h *CartHandler) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	c := h.shop.Cart()
	if err := c.Decrease(productID); err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cartToDTO(c.Lines(), c.Totals()))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	c := h.shop.Cart()
	c.Remove(productID)
	respondJSON(w, http.StatusOK, cartToDTO(c.Lines(), c.Totals()))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	c := h.shop.Cart()
	c.Clear()
	respondJSON(w, http.StatusOK, cartToDTO(c.Lines(), c.Totals()))
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, err := h.shop.Checkout(ctx)
	if err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{OrderID: orderID})
}

func parseProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}
