package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

const keyPrefix = "reviews:stats"

// StatsCache stores per-resource review stats as JSON with a TTL.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache wraps an existing client. A non-positive ttl stores entries without expiry.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// statsKey escapes both parts so a ':' inside a type or id cannot shift the boundary.
func statsKey(key domain.ResourceKey) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, url.QueryEscape(string(key.Type)), url.QueryEscape(key.ID))
}

func (c *StatsCache) Get(ctx context.Context, key domain.ResourceKey) (domain.Stats, bool, error) {
	raw, err := c.client.Get(ctx, statsKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Stats{}, false, nil
	}
	if err != nil {
		return domain.Stats{}, false, fmt.Errorf("failed to get stats: %w", err)
	}

	var stats domain.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return domain.Stats{}, false, fmt.Errorf("failed to decode stats: %w", err)
	}
	return stats, true, nil
}

func (c *StatsCache) Set(ctx context.Context, key domain.ResourceKey, stats domain.Stats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	return c.client.Set(ctx, statsKey(key), raw, ttl).Err()
}

func (c *StatsCache) Invalidate(ctx context.Context, key domain.ResourceKey) error {
	return c.client.Del(ctx, statsKey(key)).Err()
}

// Ping reports whether the backing server is reachable.
func (c *StatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
