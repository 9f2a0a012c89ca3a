package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"stonks-api/internal/analytics"
	"stonks-api/internal/cache"
	"stonks-api/internal/config"
	"stonks-api/internal/fetch"
	"stonks-api/internal/forecast"
	"stonks-api/internal/handlers"
	"stonks-api/internal/invest"
	"stonks-api/internal/monitoring"
	"stonks-api/internal/providers/coingecko"
	"stonks-api/internal/providers/fred"
	"stonks-api/internal/providers/yahoo"
	"stonks-api/internal/routes"
	"stonks-api/pkg/logger"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.Init(cfg.Logger)
	log.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"port":        cfg.Server.Port,
	}).Info("Starting stonks-api")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Redis is preferred; an in-process cache keeps the service usable
	// when Redis is down or absent in local development.
	store := buildCache(cfg, log)
	defer store.Close()

	cryptoProvider := coingecko.NewClient(&coingecko.Config{
		APIKey:    cfg.Providers.CoinGecko.APIKey,
		BaseURL:   cfg.Providers.CoinGecko.BaseURL,
		Timeout:   cfg.Providers.CoinGecko.Timeout,
		RateLimit: cfg.Providers.CoinGecko.RateLimit,
	})
	marketProvider := yahoo.NewClient(&yahoo.Config{
		BaseURL:   cfg.Providers.Yahoo.BaseURL,
		Timeout:   cfg.Providers.Yahoo.Timeout,
		RateLimit: cfg.Providers.Yahoo.RateLimit,
	})
	macroProvider := fred.NewClient(&fred.Config{
		BaseURL:   cfg.Providers.FRED.BaseURL,
		Timeout:   cfg.Providers.FRED.Timeout,
		RateLimit: cfg.Providers.FRED.RateLimit,
	})

	fetchService := fetch.NewService(cryptoProvider, marketProvider, macroProvider, store, cfg.Cache.HistoryTTL, log)

	comparator := analytics.NewComparator(fetchService, log)
	forecaster := forecast.NewForecaster(fetchService, log)
	simulator := invest.NewSimulator(fetchService, log)

	metrics := monitoring.NewMetrics()
	deps := &handlers.Deps{
		Cache:   store,
		Metrics: metrics,
		Logger:  log,
		TTL:     cfg.Cache,
	}

	marketHandler := handlers.NewMarketHandler(fetchService, deps)
	analysisHandler := handlers.NewAnalysisHandler(comparator, forecaster, simulator, deps)
	healthHandler := handlers.NewHealthHandler(store)

	router := gin.New()
	routes.SetupRoutes(router, cfg, marketHandler, analysisHandler, healthHandler, metrics, deps)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func buildCache(cfg *config.Config, log *logrus.Logger) cache.Cache {
	redisCache, err := cache.NewRedisCache(cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, falling back to in-memory cache")
		return cache.NewMemoryCache()
	}

	log.WithFields(logrus.Fields{
		"host": cfg.Redis.Host,
		"port": cfg.Redis.Port,
	}).Info("Connected to Redis")
	return redisCache
}
