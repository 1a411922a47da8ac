package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fjod/go_storefront/internal/auth"
	"github.com/fjod/go_storefront/internal/backend"
	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/order"
	"github.com/fjod/go_storefront/internal/shop"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleEngineError maps engine and backend sentinel errors to HTTP status
// codes. Anything unrecognized becomes a 500 without leaking internals.
func handleEngineError(w http.ResponseWriter, err error) {
	var httpStatus int
	var code string

	switch {
	case errors.Is(err, cart.ErrProductNotFound) ||
		errors.Is(err, order.ErrProductNotFound) ||
		errors.Is(err, shop.ErrOrderNotFound) ||
		errors.Is(err, backend.ErrNotFound):
		httpStatus = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, cart.ErrLineNotFound) ||
		errors.Is(err, order.ErrLineNotFound) ||
		errors.Is(err, shop.ErrNoEditSession):
		httpStatus = http.StatusNotFound
		code = "line_not_found"
	case errors.Is(err, cart.ErrOutOfStock) || errors.Is(err, order.ErrOutOfStock):
		httpStatus = http.StatusConflict
		code = "out_of_stock"
	case errors.Is(err, cart.ErrStockLimitReached):
		httpStatus = http.StatusConflict
		code = "stock_limit_reached"
	case errors.Is(err, order.ErrAlreadyPresent):
		httpStatus = http.StatusConflict
		code = "already_present"
	case errors.Is(err, order.ErrSessionClosed):
		httpStatus = http.StatusConflict
		code = "session_closed"
	case errors.Is(err, shop.ErrBusy):
		httpStatus = http.StatusConflict
		code = "busy"
	case errors.Is(err, order.ErrInvalidQuantity):
		httpStatus = http.StatusBadRequest
		code = "invalid_quantity"
	case errors.Is(err, order.ErrEmptyCart):
		httpStatus = http.StatusBadRequest
		code = "empty_cart"
	case errors.Is(err, order.ErrEmptyOrder):
		httpStatus = http.StatusBadRequest
		code = "empty_order"
	case errors.Is(err, shop.ErrNotLoggedIn) ||
		errors.Is(err, auth.ErrNotLoggedIn) ||
		errors.Is(err, backend.ErrUnauthorized):
		httpStatus = http.StatusUnauthorized
		code = "unauthorized"
	case errors.Is(err, backend.ErrUnavailable):
		httpStatus = http.StatusServiceUnavailable
		code = "service_unavailable"
	default:
		var be *backend.Error
		if errors.As(err, &be) {
			respondError(w, be.Status, "backend_error", be.Message)
			return
		}
		httpStatus = http.StatusInternalServerError
		code = "internal_error"
		respondError(w, httpStatus, code, "internal server error")
		return
	}

	respondError(w, httpStatus, code, err.Error())
}
