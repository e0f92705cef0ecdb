package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "travel", cfg.MongoDatabase)
	assert.Equal(t, "reviews", cfg.ReviewCollection)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.StatsCacheTTL)
	assert.Equal(t, 100, cfg.MaxPageLimit)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "admin", cfg.JWT.AdminRole)
	assert.False(t, cfg.CacheEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("STATS_CACHE_TTL", "2m")
	t.Setenv("REVIEW_MAX_PAGE_LIMIT", "50")
	t.Setenv("API_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("AUTH_ADMIN_ROLE", "moderator")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 2*time.Minute, cfg.StatsCacheTTL)
	assert.Equal(t, 50, cfg.MaxPageLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "moderator", cfg.JWT.AdminRole)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
	assert.Contains(t, err.Error(), "STORE_DRIVER")
	assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
}
