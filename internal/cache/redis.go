package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
)

const snapshotKey = "storefront:catalog"

// RedisSnapshotCache shares one catalog snapshot across storefront
// instances. Only the product list is stored; the snapshot index is rebuilt
// on read.
type RedisSnapshotCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisSnapshotCache(client *redis.Client) *RedisSnapshotCache {
	return &RedisSnapshotCache{
		client:  client,
		baseTTL: 5 * time.Minute,
	}
}

func (c *RedisSnapshotCache) Get(ctx context.Context) (*catalog.Snapshot, error) {
	data, err := c.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, catalog.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot failed: %w", err)
	}
	return catalog.NewSnapshot(products), nil
}

func (c *RedisSnapshotCache) Set(ctx context.Context, snapshot *catalog.Snapshot) error {
	data, err := json.Marshal(snapshot.Products())
	if err != nil {
		return fmt.Errorf("marshal snapshot failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(30)) * time.Second
	if err := c.client.Set(ctx, snapshotKey, data, c.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RedisSnapshotCache) Delete(ctx context.Context) error {
	if err := c.client.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
