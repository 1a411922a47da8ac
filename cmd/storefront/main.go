package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/fjod/go_storefront/internal/auth"
	"github.com/fjod/go_storefront/internal/backend"
	"github.com/fjod/go_storefront/internal/cache"
	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/config"
	h "github.com/fjod/go_storefront/internal/http"
	"github.com/fjod/go_storefront/internal/logging"
	"github.com/fjod/go_storefront/internal/shop"
)

func main() {
	cfg, err := config.Load(getEnv("STOREFRONT_CONFIG_DIR", "./configs"), getEnv("STOREFRONT_ENV", "dev"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)

	client, err := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, logging.New("backend"))
	if err != nil {
		log.Fatalf("create backend client: %v", err)
	}

	var snapshotCache catalog.SnapshotCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		defer rdb.Close()
		snapshotCache = cache.NewRedisSnapshotCache(rdb)
		logger.Info("snapshot cache: redis", "addr", cfg.Redis.Addr)
	} else {
		snapshotCache = cache.NewMemorySnapshotCache()
		logger.Info("snapshot cache: memory")
	}

	catalogSvc := catalog.NewService(client, snapshotCache, logging.New("catalog"))
	session := auth.NewSession(client)
	store := shop.New(catalogSvc, cart.New(), session, client, logging.New("shop"))

	router := h.NewRouter(h.RouterDeps{
		Cart:           h.NewCartHandler(store, cfg.Backend.Timeout),
		Products:       h.NewProductHandler(catalogSvc, client, session, cfg.Backend.Timeout),
		Orders:         h.NewOrdersHandler(store, cfg.Backend.Timeout),
		Auth:           h.NewAuthHandler(session, store, cfg.Backend.Timeout),
		Stats:          h.NewStatsHandler(client, session, cfg.Backend.Timeout),
		Health:         client,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info("storefront gateway starting", "addr", cfg.HTTP.Addr, "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
