package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/zomavan/internal/adapters/cache"
	"github.com/zatekoja/zomavan/internal/adapters/providers/zomato"
	"github.com/zatekoja/zomavan/internal/adapters/transport"
	"github.com/zatekoja/zomavan/internal/api/handlers"
	"github.com/zatekoja/zomavan/internal/api/routes"
	"github.com/zatekoja/zomavan/internal/application/services"
	"github.com/zatekoja/zomavan/internal/domain/providers"
	"github.com/zatekoja/zomavan/internal/infrastructure/clients/redis"
	"github.com/zatekoja/zomavan/internal/infrastructure/observability"
	"github.com/zatekoja/zomavan/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	log.Info().
		Str("env", cfg.Env).
		Str("version", cfg.OTEL.ServiceVersion).
		Msg("Starting restaurant API")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	var cacheProvider providers.CacheProvider
	if cfg.Cache.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Redis client, running without response cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient.Client())
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis client initialized successfully")
		}
	}

	requestService, err := transport.NewRequestService(cfg, cacheProvider, metrics)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Zomato transport")
	}
	if cfg.Zomato.APIKey == "" {
		log.Warn().Msg("ZOMATO_API_KEY is not set, upstream requests will be unauthenticated")
	}

	provider := zomato.NewRestaurantListProvider(requestService)
	restaurantService := services.NewRestaurantService(provider)
	router := routes.NewRouter(handlers.NewRestaurantHandler(restaurantService), metrics, routes.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		CacheMaxAge:    cacheMaxAge(cfg),
	})

	if len(cfg.Cache.WarmSubzones) > 0 && cfg.Cache.WarmInterval > 0 {
		warmer := services.NewCacheWarmingService(restaurantService, cfg.Cache.WarmSubzones)
		warmer.StartPeriodicWarming(ctx, cfg.Cache.WarmInterval)
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("address", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}
	log.Info().Msg("Server stopped")
}

func cacheMaxAge(cfg *config.Config) int {
	if !cfg.Cache.Enabled {
		return 0
	}
	return cfg.Cache.TTLSeconds
}
