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

	"github.com/shopchat/backend/config"
	httpDelivery "github.com/shopchat/backend/internal/delivery/http"
	"github.com/shopchat/backend/internal/domain"
	"github.com/shopchat/backend/internal/infrastructure/cache"
	"github.com/shopchat/backend/internal/infrastructure/catalog"
	"github.com/shopchat/backend/internal/infrastructure/completion"
	"github.com/shopchat/backend/internal/infrastructure/storage"
	"github.com/shopchat/backend/internal/infrastructure/store"
	"github.com/shopchat/backend/internal/logger"
	"github.com/shopchat/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	if err := run(cfg, appLog); err != nil {
		appLog.WithError(err).Error("server stopped", nil)
		os.Exit(1)
	}
}

// run wires the service and blocks until shutdown. Resources opened here are
// closed on every return path.
func run(cfg *config.Config, appLog logger.Logger) error {
	appLog.Info("starting shopchat backend", map[string]interface{}{
		"version":     httpDelivery.Version,
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"cache_type":  cfg.Cache.Type,
	})

	ctx := context.Background()

	cacheRepo, closeCache, err := buildCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("cache unavailable: %w", err)
	}
	defer closeCache()

	productCatalog, err := catalog.NewElasticCatalog(cfg.Elasticsearch)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}
	if err := productCatalog.Ping(ctx); err != nil {
		// recommendations degrade to the no-products payload until the index is reachable
		appLog.WithError(err).Warn("product index unreachable at startup", map[string]interface{}{
			"addresses": cfg.Elasticsearch.Addresses,
		})
	}

	pg, err := storage.NewPostgres(cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = pg.Close() }()

	if cfg.Postgres.Migrate {
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("schema migration failed: %w", err)
		}
	}

	storeClient := store.NewClient(cfg.Store, cfg.RateLimit.Store, appLog.With(map[string]interface{}{"component": "store"}))

	var completer domain.CompletionService
	if cfg.Completion.Enabled() {
		client, err := completion.NewArkClient(ctx, cfg.Completion)
		if err != nil {
			return fmt.Errorf("failed to create completion client: %w", err)
		}
		completer = client
		appLog.Info("completion enabled", map[string]interface{}{"model": cfg.Completion.Model})
	} else {
		appLog.Warn("completion not configured, general answers use the static fallback", nil)
	}

	profiles := usecase.NewProfileService(cacheRepo, cfg.Cache.ProfileRetention)

	recommender := usecase.NewRecommendationService(
		productCatalog,
		storeClient,
		cacheRepo,
		profiles,
		pg,
		appLog.With(map[string]interface{}{"component": "recommender"}),
		usecase.RecommendationServiceConfig{
			CandidateLimit:      cfg.Recommendation.CandidateLimit,
			FallbackLimit:       cfg.Recommendation.FallbackLimit,
			MaxResults:          cfg.Recommendation.MaxResults,
			TopSellerLimit:      cfg.Recommendation.TopSellerLimit,
			SalesWindow:         cfg.Recommendation.SalesWindow,
			CollaboratorTimeout: cfg.Recommendation.CollaboratorTimeout,
			FallbackCacheTTL:    cfg.Cache.FallbackTTL,
			CurrencySymbol:      cfg.Store.CurrencySymbol,
			PlaceholderImage:    cfg.Store.PlaceholderImage,
		},
	)

	general := usecase.NewGeneralResponder(
		pg,
		storeClient,
		completer,
		usecase.StoreProfile{
			Name:           cfg.Store.Name,
			Description:    cfg.Store.Description,
			CurrencySymbol: cfg.Store.CurrencySymbol,
		},
		cfg.Completion.HistoryWindow,
		cfg.Recommendation.CollaboratorTimeout,
		appLog.With(map[string]interface{}{"component": "responder"}),
	)

	dispatcher := usecase.NewDispatcher(recommender, general, profiles, pg, appLog)

	handler := httpDelivery.NewHandler(dispatcher, appLog)
	router := httpDelivery.SetupRouter(cfg, handler, appLog)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Completion.Timeout + 15*time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		appLog.Info("server listening", map[string]interface{}{"addr": srv.Addr})
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-shutdown:
		appLog.Info("shutdown signal received", map[string]interface{}{"signal": sig.String()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("graceful shutdown failed", nil)
		_ = srv.Close()
	}
	return nil
}

// buildCache returns the profile and top-seller cache selected by config
func buildCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, func(), error) {
	if cfg.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, "shopchat:")
		if err != nil {
			return nil, nil, err
		}
		if err := redisCache.Ping(ctx); err != nil {
			_ = redisCache.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return redisCache, func() { _ = redisCache.Close() }, nil
	}

	memoryCache := cache.NewMemoryCache(10 * time.Minute)
	return memoryCache, func() { _ = memoryCache.Close() }, nil
}
