package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

// setupTestRedis connects to a local server on DB 15 and skips when none is running.
func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}
	client.FlushDB(ctx)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStatsKey(t *testing.T) {
	key := domain.ResourceKey{Type: domain.ResourceGuide, ID: "kyoto-walks"}
	assert.Equal(t, "reviews:stats:guide:kyoto-walks", statsKey(key))
}

func TestStatsKey_ColonsDoNotCollide(t *testing.T) {
	a := domain.ResourceKey{Type: "destination:paris", ID: "1"}
	b := domain.ResourceKey{Type: domain.ResourceDestination, ID: "paris:1"}

	assert.NotEqual(t, statsKey(a), statsKey(b))
	assert.Equal(t, "reviews:stats:destination:paris%3A1", statsKey(b))
}

func TestStatsCache_RoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	cache := NewStatsCache(client, time.Minute)
	ctx := context.Background()
	key := domain.ResourceKey{Type: domain.ResourceDestination, ID: "paris-1"}

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	stats := domain.StatsFromHistogram(map[int]int{5: 2, 3: 1})
	require.NoError(t, cache.Set(ctx, key, stats))

	got, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, stats, got)

	ttl, err := client.TTL(ctx, statsKey(key)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, cache.Invalidate(ctx, key))
	_, ok, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
