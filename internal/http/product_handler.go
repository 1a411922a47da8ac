package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/auth"
	"github.com/fjod/go_storefront/internal/backend"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
)

// ProductBackend is the admin slice of the REST client.
type ProductBackend interface {
	CreateProduct(ctx context.Context, input backend.ProductInput) (int64, error)
	UpdateProduct(ctx context.Context, id int64, input backend.ProductInput) error
	DeleteProduct(ctx context.Context, id int64) error
}

type ProductHandler struct {
	catalog *catalog.Service
	backend ProductBackend
	session *auth.Session
	timeout time.Duration
}

func NewProductHandler(catalogSvc *catalog.Service, b ProductBackend, session *auth.Session, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalogSvc,
		backend: b,
		session: session,
		timeout: timeout,
	}
}

type ProductDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Description string `json:"description,omitempty"`
}

type CreateProductResponseDTO struct {
	ID int64 `json:"id"`
}

func productToDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		Description: p.Description,
	}
}

// ListProducts serves the snapshot, optionally filtered by ?q= on the
// product name.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	snapshot, err := h.catalog.Current(ctx)
	if err != nil {
		handleEngineError(w, err)
		return
	}

	products := snapshot.Products()
	if q := r.URL.Query().Get("q"); q != "" {
		products = snapshot.Filter(q)
	}

	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, productToDTO(p))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	snapshot, err := h.catalog.Current(ctx)
	if err != nil {
		handleEngineError(w, err)
		return
	}

	product, found := snapshot.Get(productID)
	if !found {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	respondJSON(w, http.StatusOK, productToDTO(product))
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if !h.requireAdmin(w) {
		return
	}

	input, ok := decodeProductInput(w, r)
	if !ok {
		return
	}

	id, err := h.backend.CreateProduct(ctx, input)
	if err != nil {
		handleEngineError(w, err)
		return
	}

	h.catalog.Invalidate(ctx)
	respondJSON(w, http.StatusCreated, CreateProductResponseDTO{ID: id})
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if !h.requireAdmin(w) {
		return
	}

	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	input, ok := decodeProductInput(w, r)
	if !ok {
		return
	}

	if err := h.backend.UpdateProduct(ctx, productID, input); err != nil {
		handleEngineError(w, err)
		return
	}

	h.catalog.Invalidate(ctx)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if !h.requireAdmin(w) {
		return
	}

	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	if err := h.backend.DeleteProduct(ctx, productID); err != nil {
		handleEngineError(w, err)
		return
	}

	h.catalog.Invalidate(ctx)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) requireAdmin(w http.ResponseWriter) bool {
	if _, ok := h.session.Current(); !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return false
	}
	if !h.session.IsAdmin() {
		respondError(w, http.StatusForbidden, "forbidden", "admin role required")
		return false
	}
	return true
}

func decodeProductInput(w http.ResponseWriter, r *http.Request) (backend.ProductInput, bool) {
	var input backend.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return backend.ProductInput{}, false
	}
	if input.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name must not be empty")
		return backend.ProductInput{}, false
	}
	if input.Price.IsNegative() {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return backend.ProductInput{}, false
	}
	if input.Stock < 0 {
		respondError(w, http.StatusBadRequest, "invalid_stock", "stock must not be negative")
		return backend.ProductInput{}, false
	}
	return input, true
}
