package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HealthChecker pings the backend so /health reports both sides.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type RouterDeps struct {
	Cart     *CartHandler
	Products *ProductHandler
	Orders   *OrdersHandler
	Auth     *AuthHandler
	Stats    *StatsHandler
	Health   HealthChecker

	RequestTimeout time.Duration
}

func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := deps.Health.Health(ctx); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "backend": "down"})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", deps.Cart.GetCart)
			r.Delete("/", deps.Cart.ClearCart)
			r.Post("/items", deps.Cart.AddItem)
			r.Post("/items/{product_id}/increase", deps.Cart.IncreaseQuantity)
			r.Post("/items/{product_id}/decrease", deps.Cart.DecreaseQuantity)
			r.Delete("/items/{product_id}", deps.Cart.RemoveItem)
			r.Post("/checkout", deps.Cart.Checkout)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.Products.ListProducts)
			r.Post("/", deps.Products.CreateProduct)
			r.Get("/{product_id}", deps.Products.GetProduct)
			r.Put("/{product_id}", deps.Products.UpdateProduct)
			r.Delete("/{product_id}", deps.Products.DeleteProduct)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", deps.Orders.ListOrders)
			r.Delete("/{order_id}", deps.Orders.DeleteOrder)
			r.Post("/{order_id}/edit", deps.Orders.StartEdit)

			r.Route("/edit", func(r chi.Router) {
				r.Get("/", deps.Orders.GetEdit)
				r.Delete("/", deps.Orders.DiscardEdit)
				r.Post("/commit", deps.Orders.CommitEdit)
				r.Post("/lines", deps.Orders.AddLine)
				r.Put("/lines/{product_id}", deps.Orders.SetLineQuantity)
				r.Delete("/lines/{product_id}", deps.Orders.RemoveLine)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", deps.Auth.Login)
			r.Post("/register", deps.Auth.Register)
			r.Post("/logout", deps.Auth.Logout)
			r.Get("/status", deps.Auth.Status)
			r.Put("/profile", deps.Auth.UpdateProfile)
		})

		r.Route("/admin/stats", func(r chi.Router) {
			r.Get("/employee-sales", deps.Stats.EmployeeSales)
			r.Get("/daily-product-sales", deps.Stats.DailyProductSales)
			r.Get("/employee-average", deps.Stats.EmployeeAverages)
		})
	})

	return r
}
