package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongorepo "github.com/wayfarer-hub/travel-api/internal/infrastructure/mongo"
	"github.com/wayfarer-hub/travel-api/internal/logging"
	"github.com/wayfarer-hub/travel-api/internal/review/domain"
)

const defaultSeed int64 = 20240501

type seedOptions struct {
	envFile     string
	reviewCount int
	reset       bool
	randomSeed  int64
}

func main() {
	opts := parseFlags()
	logger := logging.New("review-seed", envOrDefault("LOG_LEVEL", "info"), envOrDefault("LOG_FORMAT", "pretty"))

	if err := godotenv.Load(opts.envFile); err != nil && !os.IsNotExist(err) {
		logger.Fatal().Err(err).Str("file", opts.envFile).Msg("failed to load env file")
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "travel")
	collection := envOrDefault("REVIEW_COLLECTION", "reviews")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)
	if opts.reset {
		if err := db.Collection(collection).Drop(ctx); err != nil {
			logger.Fatal().Err(err).Str("collection", collection).Msg("drop failed")
		}
		logger.Info().Str("collection", collection).Msg("dropped existing reviews")
	}

	repo := mongorepo.NewReviewRepository(db, collection)
	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ensure indexes failed")
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))
	reviews := generateReviews(rng, opts.reviewCount, time.Now().UTC())

	result, err := insertReviews(ctx, repo, reviews)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed failed")
	}

	logger.Info().
		Int("inserted", result.total()).
		Int("skipped", result.skipped).
		Int("approved", result.inserted[domain.StatusApproved]).
		Int("pending", result.inserted[domain.StatusPending]).
		Int("rejected", result.inserted[domain.StatusRejected]).
		Str("db", dbName).
		Msg("seed complete")
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envFile, "env", ".env", "env file to load before connecting")
	flag.IntVar(&opts.reviewCount, "reviews", 120, "number of reviews to generate")
	flag.BoolVar(&opts.reset, "reset", false, "drop the review collection before inserting")
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "random seed for reproducible data")
	flag.Parse()
	return opts
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
