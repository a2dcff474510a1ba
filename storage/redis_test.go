package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, 30*time.Second), mr
}

func TestRedisCache_GetSet(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	var cities []string
	hit, err := cache.Get(ctx, "restaurants:cities", &cities)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "restaurants:cities", []string{"Abuja", "Lagos"}))
	assert.Equal(t, 30*time.Second, mr.TTL("report:restaurants:cities"))

	hit, err = cache.Get(ctx, "restaurants:cities", &cities)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"Abuja", "Lagos"}, cities)
}

func TestRedisCache_GetCorruptValue(t *testing.T) {
	cache, mr := newTestCache(t)
	require.NoError(t, mr.Set("report:orders:count", "{oops"))

	var n int64
	hit, err := cache.Get(context.Background(), "orders:count", &n)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestRedisCache_InvalidateOnlyTouchesReports(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "orders:count", 3))
	require.NoError(t, cache.Set(ctx, "orders:top-dishes", []string{}))
	require.NoError(t, mr.Set("session:1", "keep"))

	require.NoError(t, cache.Invalidate(ctx))

	assert.False(t, mr.Exists("report:orders:count"))
	assert.False(t, mr.Exists("report:orders:top-dishes"))
	assert.True(t, mr.Exists("session:1"))

	// nothing left to drop
	assert.NoError(t, cache.Invalidate(ctx))
}
