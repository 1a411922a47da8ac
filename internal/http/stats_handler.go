package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/auth"
	"github.com/fjod/go_storefront/internal/backend"
)

// StatsBackend is the admin reporting slice of the REST client.
type StatsBackend interface {
	EmployeeSales(ctx context.Context) ([]backend.EmployeeSales, error)
	DailyProductSales(ctx context.Context) ([]backend.DailyProductSales, error)
	EmployeeAverages(ctx context.Context) ([]backend.EmployeeAverage, error)
}

type StatsHandler struct {
	backend StatsBackend
	session *auth.Session
	timeout time.Duration
}

func NewStatsHandler(b StatsBackend, session *auth.Session, timeout time.Duration) *StatsHandler {
	return &StatsHandler{
		backend: b,
		session: session,
		timeout: timeout,
	}
}

func (h *StatsHandler) EmployeeSales(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context) (interface{}, error) {
		return h.backend.EmployeeSales(ctx)
	})
}

func (h *StatsHandler) DailyProductSales(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context) (interface{}, error) {
		return h.backend.DailyProductSales(ctx)
	})
}

func (h *StatsHandler) EmployeeAverages(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context) (interface{}, error) {
		return h.backend.EmployeeAverages(ctx)
	})
}

func (h *StatsHandler) serve(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context) (interface{}, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, ok := h.session.Current(); !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	if !h.session.IsAdmin() {
		respondError(w, http.StatusForbidden, "forbidden", "admin role required")
		return
	}

	stats, err := fetch(ctx)
	if err != nil {
		handleEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
