package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/villagehub/directory-backend/internal/adapters/cache"
	"github.com/villagehub/directory-backend/internal/adapters/database"
	"github.com/villagehub/directory-backend/internal/adapters/events"
	"github.com/villagehub/directory-backend/internal/adapters/search"
	"github.com/villagehub/directory-backend/internal/api/handlers"
	"github.com/villagehub/directory-backend/internal/api/middleware"
	"github.com/villagehub/directory-backend/internal/api/routes"
	"github.com/villagehub/directory-backend/internal/application/services"
	"github.com/villagehub/directory-backend/internal/domain/providers"
	"github.com/villagehub/directory-backend/internal/domain/repositories"
	"github.com/villagehub/directory-backend/internal/infrastructure/clients/postgres"
	"github.com/villagehub/directory-backend/internal/infrastructure/clients/redis"
	"github.com/villagehub/directory-backend/internal/infrastructure/clients/typesense"
	"github.com/villagehub/directory-backend/internal/infrastructure/observability"
	"github.com/villagehub/directory-backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Initialize Redis client. The application works without Redis, it just
	// loses caching and live index updates.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	// Initialize Typesense client. Without it the directory still serves
	// random browse pages from Postgres, but ranked search is unavailable.
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Typesense client, ranked search disabled")
		typesenseClient = nil
	} else {
		log.Info().Msg("Typesense client initialized")
	}

	// Initialize adapters
	profileRepo := database.NewProfileAdapter(pgClient)

	var searchRepo repositories.ProfileSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to init search schema")
		}
		searchRepo = adapter
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("event bus initialized")
	}

	// Initialize services
	searchService := services.NewSearchService(profileRepo, searchRepo)
	profileService := services.NewProfileService(profileRepo, searchRepo, eventBus)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(searchService, metrics)
	profileHandler := handlers.NewProfileHandler(profileService)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics, cfg.Search.CacheTTLSeconds)
		log.Info().Msg("cache middleware initialized")
	}

	// Set up router
	router := routes.NewRouter(searchHandler, profileHandler, cacheMiddleware, metrics)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := cfg.Server.ServerAddr()
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}
