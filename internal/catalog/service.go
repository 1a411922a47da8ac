package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fjod/go_storefront/internal/domain"
)

var ErrCacheMiss = errors.New("snapshot cache miss")

// ProductLister fetches the authoritative product list from the backend.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// SnapshotCache holds the last snapshot between refreshes. Implementations
// return ErrCacheMiss when nothing is cached.
type SnapshotCache interface {
	Get(ctx context.Context) (*Snapshot, error)
	Set(ctx context.Context, snapshot *Snapshot) error
	Delete(ctx context.Context) error
}

// Service owns the catalog snapshot lifecycle: serve the cached snapshot,
// refresh from the backend, and invalidate after operations that change
// stock server-side (checkout, order edit, order deletion).
type Service struct {
	backend ProductLister
	cache   SnapshotCache
	logger  *slog.Logger
	sfg     singleflight.Group // collapses concurrent refreshes
}

func NewService(backend ProductLister, cache SnapshotCache, logger *slog.Logger) *Service {
	return &Service{
		backend: backend,
		cache:   cache,
		logger:  logger,
	}
}

// Current returns the cached snapshot, refreshing from the backend on a
// miss. Concurrent callers share a single backend fetch.
func (s *Service) Current(ctx context.Context) (*Snapshot, error) {
	v, err, _ := s.sfg.Do("snapshot", func() (interface{}, error) {
		snapshot, err := s.cache.Get(ctx)
		if err == nil {
			return snapshot, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("snapshot cache get failed", "error", err)
		}
		return s.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Refresh always fetches from the backend and replaces the cached snapshot.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	v, err, _ := s.sfg.Do("refresh", func() (interface{}, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Invalidate drops the cached snapshot so the next read reflects whatever
// the backend did to stock in the meantime.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx); err != nil {
		s.logger.Warn("snapshot cache invalidate failed", "error", err)
	}
}

// fetch writes the cache before returning so a later Invalidate can never
// be overtaken by a stale write. A failed write only costs the next read a
// refetch.
func (s *Service) fetch(ctx context.Context) (*Snapshot, error) {
	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := NewSnapshot(products)

	setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := s.cache.Set(setCtx, snapshot); err != nil {
		s.logger.Warn("snapshot cache set failed", "error", err)
	}

	return snapshot, nil
}
