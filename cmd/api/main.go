package main

import (
	"context"
	"os"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wayfarer-hub/travel-api/internal/config"
	"github.com/wayfarer-hub/travel-api/internal/infrastructure/memory"
	mongorepo "github.com/wayfarer-hub/travel-api/internal/infrastructure/mongo"
	rediscache "github.com/wayfarer-hub/travel-api/internal/infrastructure/redis"
	"github.com/wayfarer-hub/travel-api/internal/logging"
	"github.com/wayfarer-hub/travel-api/internal/metrics"
	"github.com/wayfarer-hub/travel-api/internal/review/application"
	"github.com/wayfarer-hub/travel-api/internal/server"
)

const serviceName = "review-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New(serviceName, "info", "json")
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := logging.New(serviceName, cfg.LogLevel, cfg.LogFormat)

	opts := server.Options{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New("reviews"),
	}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Warn().Msg("using in-memory review store; data is lost on restart")
		opts.Repo = memory.NewReviewRepository()
	default:
		client, repo := connectMongo(cfg, logger)
		opts.Repo = repo
		opts.Closers = append(opts.Closers, client.Disconnect)
	}

	if cfg.CacheEnabled() {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cache := rediscache.NewStatsCache(rdb, cfg.StatsCacheTTL)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		if err := cache.Ping(ctx); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; stats cache will retry per request")
		}
		cancel()

		opts.Cache = cache
		opts.Closers = append(opts.Closers, func(context.Context) error { return rdb.Close() })
	}

	if err := server.New(opts).Run(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func connectMongo(cfg config.Config, logger zerolog.Logger) (*mongo.Client, application.ReviewRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.Fatal().Err(err).Msg("mongo connect failed")
	}

	repo := mongorepo.NewReviewRepository(client.Database(cfg.MongoDatabase), cfg.ReviewCollection)
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ensure review indexes failed")
	}
	logger.Info().Str("db", cfg.MongoDatabase).Str("collection", cfg.ReviewCollection).Msg("mongo review store ready")
	return client, repo
}
