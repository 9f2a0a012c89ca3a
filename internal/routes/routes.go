package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stonks-api/internal/config"
	"stonks-api/internal/handlers"
	"stonks-api/internal/middleware"
	"stonks-api/internal/monitoring"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	marketHandler *handlers.MarketHandler,
	analysisHandler *handlers.AnalysisHandler,
	healthHandler *handlers.HealthHandler,
	metrics *monitoring.Metrics,
	deps *handlers.Deps,
) {
	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(metrics.Middleware())

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit)
		router.Use(limiter.RateLimit())
	}

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", monitoring.Handler())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/:type/:ticker/history", marketHandler.GetHistory)
		v1.GET("/:type/:ticker/quote", marketHandler.GetQuote)

		analysis := v1.Group("/analysis")
		{
			analysis.POST("/compare", analysisHandler.Compare)
			analysis.POST("/forecast", analysisHandler.Forecast)
		}

		v1.POST("/investment/simulate", analysisHandler.SimulateInvestment)
		v1.POST("/sentiment/score", analysisHandler.ScoreSentiment)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "endpoint not found",
			"path":  c.Request.URL.Path,
		})
	})
}
