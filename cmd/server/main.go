package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/cache"
	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/config"
	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/dataset"
	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/handler"
	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/model"
	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/poster"
	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/repository"
	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/router"
	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/service"
	"github.com/AanishRahmani/content-based-movie-recommender-system/seeds"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()

	// ------------ Dataset ---------------
	var data *dataset.Dataset
	switch cfg.DatasetSource {
	case "postgres":
		data, err = loadFromPostgres(ctx, cfg, logger)
	case "file":
		data, err = dataset.LoadDir(cfg.DataDir)
	default:
		logger.Fatal().Str("source", cfg.DatasetSource).Msg("unknown dataset source")
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load dataset")
	}
	if data == nil {
		// migrate-down path exits through loadFromPostgres
		return
	}
	logger.Info().Int("movies", data.Len()).Msg("dataset loaded")

	// ------------ Poster cache + fetcher ---------------
	posterCache := poster.NewCache(cfg.PosterCacheFile, cfg.PosterCacheTTL)
	if err := posterCache.Load(); err != nil {
		logger.Warn().Err(err).Msg("poster cache unreadable, starting empty")
	}
	logger.Info().Int("entries", posterCache.Len()).Msg("poster cache loaded")

	client := poster.NewClient(cfg.TMDBBaseURL, cfg.PosterBaseURL, cfg.APIKey, cfg.FetchTimeout)
	fetcher := poster.NewFetcher(posterCache, client, cfg.PlaceholderURL, cfg.FetchAttempts, cfg.FetchBackoff, logger)

	// ------------ Optional Redis response cache ---------------
	var respCache *cache.Cache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to parse redis URL")
		}
		respCache = cache.NewCache(redis.NewClient(opts), cfg.CacheTTL)
		if err := respCache.Ping(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		logger.Info().Msg("connected to Redis")
	}

	// ---------------- Server --------------------
	svc := service.New(data, model.NewRecommender(data), fetcher, respCache, cfg.PosterWorkers, logger)
	h := handler.NewHandler(svc)

	logger.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := http.ListenAndServe(cfg.Addr(), router.Setup(h)); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func loadFromPostgres(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*dataset.Dataset, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool, logger); err != nil {
		return nil, err
	}
	logger.Info().Msg("connected to PostgreSQL")

	// for migrate-down using CLI command
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := runMigration(ctx, pool, "migrations/create_tables.down.sql"); err != nil {
			return nil, fmt.Errorf("migrate down: %w", err)
		}
		logger.Info().Msg("migrations dropped")
		return nil, nil
	}

	if err := runMigration(ctx, pool, "migrations/create_tables.up.sql"); err != nil {
		return nil, fmt.Errorf("migrate up: %w", err)
	}

	if err := checkSeed(ctx, pool, logger); err != nil {
		return nil, fmt.Errorf("check seed: %w", err)
	}

	repo := repository.New(pool)
	movies, err := repo.LoadMovies(ctx)
	if err != nil {
		return nil, err
	}
	matrix, err := repo.LoadSimilarity(ctx, len(movies))
	if err != nil {
		return nil, err
	}

	return dataset.New(movies, matrix)
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		logger.Info().Int("attempt", i+1).Msg("waiting for database")
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func runMigration(ctx context.Context, pool *pgxpool.Pool, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM movies").Scan(&count); err != nil {
		return fmt.Errorf("check movies count: %w", err)
	}
	if count > 0 {
		logger.Info().Int("movies", count).Msg("database already seeded, skipping")
		return nil
	}
	return seeds.Setup(ctx, pool, logger)
}
