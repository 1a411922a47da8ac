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
	"github.com/fjod/go_storefront/internal/order"
	"github.com/fjod/go_storefront/internal/shop"
)

type OrdersHandler struct {
	shop    *shop.Shop
	timeout time.Duration
}

func NewOrdersHandler(s *shop.Shop, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		shop:    s,
		timeout: timeout,
	}
}

type OrderLineDTO struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	LineTotal string `json:"line_total"`
}

type OrderDTO struct {
	ID        int64          `json:"id"`
	Items     []OrderLineDTO `json:"items"`
	Subtotal  string         `json:"subtotal"`
	Tax       string         `json:"tax"`
	Total     string         `json:"total"`
	CreatedAt string         `json:"created_at"`
}

type EditLineDTO struct {
	ProductID      int64  `json:"product_id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	Price          string `json:"price"`
	AvailableStock int    `json:"available_stock"`
}

type EditSessionDTO struct {
	OrderID int64         `json:"order_id"`
	State   string        `json:"state"`
	Lines   []EditLineDTO `json:"lines"`
}

type SetQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type SetQuantityResponseDTO struct {
	Clamped bool          `json:"clamped"`
	Lines   []EditLineDTO `json:"lines"`
}

type AddLineRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func orderToDTO(o domain.Order) OrderDTO {
	items := make([]OrderLineDTO, 0, len(o.Items))
	for _, item := range o.Items {
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items = append(items, OrderLineDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price.StringFixed(2),
			LineTotal: lineTotal.StringFixed(2),
		})
	}
	return OrderDTO{
		ID:        o.ID,
		Items:     items,
		Subtotal:  o.Subtotal.StringFixed(2),
		Tax:       o.Tax.StringFixed(2),
		Total:     o.Total.StringFixed(2),
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}

func editLinesToDTO(lines []order.Line) []EditLineDTO {
	out := make([]EditLineDTO, 0, len(lines))
	for _, line := range lines {
		out = append(out, EditLineDTO{
			ProductID:      line.ProductID,
			Name:           line.Name,
			Quantity:       line.Quantity,
			Price:          line.Price.StringFixed(2),
			AvailableStock: line.AvailableStock,
		})
	}
	return out
}

func editSessionToDTO(s *order.Session) EditSessionDTO {
	return EditSessionDTO{
		OrderID: s.OrderID(),
		State:   string(s.State()),
		Lines:   editLinesToDTO(s.Lines()),
	}
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.shop.Orders(ctx)
	if err != nil {
		handleEngineError(w, err)
		return
	}

	out := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderToDTO(o))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	if err := h.shop.DeleteOrder(ctx, orderID); err != nil {
		handleEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartEdit opens an edit session for the order. Any previously open
// session is discarded.
func (h *OrdersHandler) StartEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	session, err := h.shop.StartEdit(ctx, orderID)
	if err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, editSessionToDTO(session))
}

func (h *OrdersHandler) GetEdit(w http.ResponseWriter, r *http.Request) {
	session, err := h.shop.Edit()
	if err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, editSessionToDTO(session))
}

// SetLineQuantity updates a line's quantity. A request above the line's
// ceiling is clamped and reported, not rejected.
func (h *OrdersHandler) SetLineQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	var req SetQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	session, err := h.shop.Edit()
	if err != nil {
		handleEngineError(w, err)
		return
	}

	clamped, err := session.SetQuantity(productID, req.Quantity)
	if err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SetQuantityResponseDTO{
		Clamped: clamped,
		Lines:   editLinesToDTO(session.Lines()),
	})
}

func (h *OrdersHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	session, err := h.shop.Edit()
	if err != nil {
		handleEngineError(w, err)
		return
	}

	if err := session.Remove(productID); err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, editSessionToDTO(session))
}

func (h *OrdersHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddLineRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	session, err := h.shop.Edit()
	if err != nil {
		handleEngineError(w, err)
		return
	}

	snapshot, err := h.shop.Browse(ctx)
	if err != nil {
		handleEngineError(w, err)
		return
	}

	if err := session.Add(req.ProductID, req.Quantity, snapshot); err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, editSessionToDTO(session))
}

func (h *OrdersHandler) CommitEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.shop.CommitEdit(ctx); err != nil {
		handleEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) DiscardEdit(w http.ResponseWriter, r *http.Request) {
	if err := h.shop.DiscardEdit(); err != nil {
		handleEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	orderIDStr := chi.URLParam(r, "order_id")
	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil || orderID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a positive integer")
		return 0, false
	}
	return orderID, true
}
