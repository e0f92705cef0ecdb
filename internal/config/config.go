package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// JWTConfig defines the secret and optional claims checked on admin tokens.
type JWTConfig struct {
	Issuer    string
	Audience  string
	Secret    []byte
	AdminRole string
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr             string
	StoreDriver      string
	MongoURI         string
	MongoDatabase    string
	ReviewCollection string
	Timeout          time.Duration
	RequestTimeout   time.Duration
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	StatsCacheTTL    time.Duration
	MaxPageLimit     int
	AllowedOrigins   []string
	LogLevel         string
	LogFormat        string
	JWT              JWTConfig
}

// Load reads environment variables, after merging a .env file from the working
// directory when one exists, and returns a fully populated Config.
func Load() (Config, error) {
	_ = godotenv.Load()

	var errs []error

	timeout, err := parseDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second)
	errs = append(errs, err)
	requestTimeout, err := parseDuration("REQUEST_TIMEOUT", 5*time.Second)
	errs = append(errs, err)
	cacheTTL, err := parseDuration("STATS_CACHE_TTL", 60*time.Second)
	errs = append(errs, err)
	redisDB, err := parseInt("REDIS_DB", 0)
	errs = append(errs, err)
	maxLimit, err := parseInt("REVIEW_MAX_PAGE_LIMIT", 100)
	errs = append(errs, err)
	if maxLimit < 1 {
		errs = append(errs, fmt.Errorf("REVIEW_MAX_PAGE_LIMIT must be positive, got %d", maxLimit))
	}

	driver := strings.ToLower(envOrDefault("STORE_DRIVER", DriverMongo))
	if driver != DriverMongo && driver != DriverMemory {
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, driver))
	}

	secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET"))
	if secret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be configured"))
	}

	cfg := Config{
		Addr:             envOrDefault("HTTP_ADDR", ":8080"),
		StoreDriver:      driver,
		MongoURI:         envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:    envOrDefault("MONGO_DB", "travel"),
		ReviewCollection: envOrDefault("REVIEW_COLLECTION", "reviews"),
		Timeout:          timeout,
		RequestTimeout:   requestTimeout,
		RedisAddr:        strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          redisDB,
		StatsCacheTTL:    cacheTTL,
		MaxPageLimit:     maxLimit,
		AllowedOrigins:   parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		JWT: JWTConfig{
			Issuer:    strings.TrimSpace(os.Getenv("AUTH_JWT_ISSUER")),
			Audience:  strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
			Secret:    []byte(secret),
			AdminRole: envOrDefault("AUTH_ADMIN_ROLE", "admin"),
		},
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// CacheEnabled reports whether a Redis address was configured.
func (c Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func parseInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
