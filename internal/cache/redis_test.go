package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/domain"
)

func newTestRedisCache(t *testing.T) (*RedisSnapshotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSnapshotCache(client), mr
}

func TestRedisCache_MissWhenEmpty(t *testing.T) {
	sut, _ := newTestRedisCache(t)

	_, err := sut.Get(context.Background())

	assert.ErrorIs(t, err, catalog.ErrCacheMiss)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	sut, _ := newTestRedisCache(t)
	ctx := context.Background()
	snapshot := catalog.NewSnapshot([]domain.Product{
		{ID: 1, Name: "Widget", Price: decimal.RequireFromString("10.00"), Stock: 5},
		{ID: 2, Name: "Gadget", Price: decimal.RequireFromString("3.99"), Stock: 0},
	})

	require.NoError(t, sut.Set(ctx, snapshot))

	got, err := sut.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockOf(1))
	p, ok := got.Get(2)
	require.True(t, ok)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("3.99")))
}

func TestRedisCache_SetAppliesTTL(t *testing.T) {
	sut, mr := newTestRedisCache(t)
	snapshot := catalog.NewSnapshot([]domain.Product{{ID: 1, Name: "Widget", Stock: 5}})

	require.NoError(t, sut.Set(context.Background(), snapshot))

	ttl := mr.TTL("storefront:catalog")
	assert.Greater(t, ttl.Seconds(), 0.0)
}

func TestRedisCache_Delete(t *testing.T) {
	sut, _ := newTestRedisCache(t)
	ctx := context.Background()
	snapshot := catalog.NewSnapshot([]domain.Product{{ID: 1, Name: "Widget", Stock: 5}})
	require.NoError(t, sut.Set(ctx, snapshot))

	require.NoError(t, sut.Delete(ctx))

	_, err := sut.Get(ctx)
	assert.ErrorIs(t, err, catalog.ErrCacheMiss)
}

func TestRedisCache_GetWhenServerDown(t *testing.T) {
	sut, mr := newTestRedisCache(t)
	mr.Close()

	_, err := sut.Get(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, catalog.ErrCacheMiss)
}
