package http

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_storefront/internal/auth"
	"github.com/fjod/go_storefront/internal/backend"
	"github.com/fjod/go_storefront/internal/cache"
	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/order"
	"github.com/fjod/go_storefront/internal/shop"
)

type stubLister struct {
	mu       sync.Mutex
	products []domain.Product
}

func (s *stubLister) ListProducts(context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products, nil
}

type stubOrderBackend struct {
	mu      sync.Mutex
	orders  []domain.Order
	err     error
	updates []*order.Payload
}

func (s *stubOrderBackend) CreateOrder(context.Context, *order.Payload, string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return 7, nil
}

func (s *stubOrderBackend) ListOrders(context.Context) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.orders, nil
}

func (s *stubOrderBackend) UpdateOrder(_ context.Context, _ int64, payload *order.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.updates = append(s.updates, payload)
	return nil
}

func (s *stubOrderBackend) DeleteOrder(context.Context, int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

type stubProductBackend struct {
	err error
}

func (s *stubProductBackend) CreateProduct(context.Context, backend.ProductInput) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return 3, nil
}

func (s *stubProductBackend) UpdateProduct(context.Context, int64, backend.ProductInput) error {
	return s.err
}

func (s *stubProductBackend) DeleteProduct(context.Context, int64) error {
	return s.err
}

type stubStatsBackend struct {
	err error
}

func (s *stubStatsBackend) EmployeeSales(context.Context) ([]backend.EmployeeSales, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []backend.EmployeeSales{{Username: "alice", TotalSales: decimal.NewFromInt(100)}}, nil
}

func (s *stubStatsBackend) DailyProductSales(context.Context) ([]backend.DailyProductSales, error) {
	return nil, s.err
}

func (s *stubStatsBackend) EmployeeAverages(context.Context) ([]backend.EmployeeAverage, error) {
	return nil, s.err
}

type stubAuthBackend struct {
	user domain.User
	err  error
}

func (s *stubAuthBackend) Login(context.Context, backend.Credentials) (domain.User, error) {
	if s.err != nil {
		return domain.User{}, s.err
	}
	return s.user, nil
}

func (s *stubAuthBackend) Register(context.Context, backend.Registration) (domain.User, error) {
	if s.err != nil {
		return domain.User{}, s.err
	}
	return s.user, nil
}

func (s *stubAuthBackend) Logout(context.Context) error { return s.err }

func (s *stubAuthBackend) AuthStatus(context.Context) (domain.User, bool, error) {
	if s.err != nil {
		return domain.User{}, false, s.err
	}
	return s.user, true, nil
}

func (s *stubAuthBackend) UpdateProfile(context.Context, backend.ProfileUpdate) (domain.User, error) {
	if s.err != nil {
		return domain.User{}, s.err
	}
	return s.user, nil
}

type stubHealth struct{ err error }

func (s *stubHealth) Health(context.Context) error { return s.err }

type testEnv struct {
	router  chi.Router
	lister  *stubLister
	orders  *stubOrderBackend
	session *auth.Session
	shop    *shop.Shop
	health  *stubHealth
}

func newTestEnv(t *testing.T, user domain.User, loggedIn bool) *testEnv {
	t.Helper()

	lister := &stubLister{products: []domain.Product{
		{ID: 1, Name: "Widget", Price: decimal.NewFromInt(10), Stock: 5},
		{ID: 2, Name: "Blue Widget", Price: decimal.NewFromInt(12), Stock: 3},
		{ID: 3, Name: "Gadget", Price: decimal.RequireFromString("3.99"), Stock: 0},
	}}
	orders := &stubOrderBackend{}
	health := &stubHealth{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalogSvc := catalog.NewService(lister, cache.NewMemorySnapshotCache(), logger)
	session := auth.NewSession(&stubAuthBackend{user: user})

	if loggedIn {
		_, err := session.Login(context.Background(), backend.Credentials{Username: user.Username, Password: "pw"})
		require.NoError(t, err)
	}

	store := shop.New(catalogSvc, cart.New(), session, orders, logger)
	timeout := 5 * time.Second

	router := NewRouter(RouterDeps{
		Cart:           NewCartHandler(store, timeout),
		Products:       NewProductHandler(catalogSvc, &stubProductBackend{}, session, timeout),
		Orders:         NewOrdersHandler(store, timeout),
		Auth:           NewAuthHandler(session, store, timeout),
		Stats:          NewStatsHandler(&stubStatsBackend{}, session, timeout),
		Health:         health,
		RequestTimeout: timeout,
	})

	return &testEnv{
		router:  router,
		lister:  lister,
		orders:  orders,
		session: session,
		shop:    store,
		health:  health,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req = httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}
