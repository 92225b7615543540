package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/honeybarrel/backend/config"
	httpDelivery "github.com/honeybarrel/backend/internal/delivery/http"
	"github.com/honeybarrel/backend/internal/domain"
	"github.com/honeybarrel/backend/internal/infrastructure/baxus"
	"github.com/honeybarrel/backend/internal/infrastructure/cache"
	"github.com/honeybarrel/backend/internal/infrastructure/logging"
	"github.com/honeybarrel/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// closableCache is a listings cache that owns background resources
type closableCache interface {
	domain.CacheRepository
	Close() error
}

func main() {
	if err := config.LoadEnvFile(); err != nil {
		log.Fatalf("Failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(logging.Options{Production: cfg.IsProduction()})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting Honey Barrel backend",
		zap.String("version", httpDelivery.Version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL))

	listingsCache, err := newCache(cfg, logger)
	if err != nil {
		return err
	}
	defer listingsCache.Close()

	baxusClient := baxus.NewClient(cfg.BAXUS.BaseURL,
		baxus.WithPageSize(cfg.BAXUS.PageSize),
		baxus.WithRateLimit(cfg.RateLimit.BAXUS),
		baxus.WithLogger(logger),
	)
	if !cfg.IsProduction() {
		baxusClient.SetDebug(true)
	}
	logger.Info("BAXUS client configured",
		zap.String("base_url", cfg.BAXUS.BaseURL),
		zap.Int("page_size", cfg.BAXUS.PageSize),
		zap.Int("rate_per_minute", cfg.RateLimit.BAXUS))

	comparisonService := usecase.NewComparisonService(
		listingsCache,
		baxusClient,
		usecase.ComparisonServiceConfig{
			ListingsTTL:        cfg.Cache.TTL,
			Logger:             logger,
			EnableDebugLogging: cfg.Matching.EnableDebugLogging,
		},
	)

	handler := httpDelivery.NewHandler(comparisonService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newCache builds the listings cache selected by configuration
func newCache(cfg *config.Config, logger *zap.Logger) (closableCache, error) {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL, cfg.Cache.KeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("create redis cache: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisCache.Ping(ctx); err != nil {
			// Comparisons fall back to fetching when the cache is down
			logger.Warn("redis not reachable at startup", zap.Error(err))
		}
		return redisCache, nil
	default:
		return cache.NewMemoryCache(), nil
	}
}
