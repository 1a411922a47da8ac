package cache

import (
	"context"
	"sync"

	"github.com/fjod/go_storefront/internal/catalog"
)

// MemorySnapshotCache keeps the snapshot in process memory. Default when no
// Redis address is configured.
type MemorySnapshotCache struct {
	mu       sync.RWMutex
	snapshot *catalog.Snapshot
}

func NewMemorySnapshotCache() *MemorySnapshotCache {
	return &MemorySnapshotCache{}
}

func (c *MemorySnapshotCache) Get(_ context.Context) (*catalog.Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return nil, catalog.ErrCacheMiss
	}
	return c.snapshot, nil
}

func (c *MemorySnapshotCache) Set(_ context.Context, snapshot *catalog.Snapshot) error {
	c.mu.Lock()
	c.snapshot = snapshot
	c.mu.Unlock()
	return nil
}

func (c *MemorySnapshotCache) Delete(_ context.Context) error {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
	return nil
}
