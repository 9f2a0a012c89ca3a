package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stonks-api/internal/cache"
)

// HealthHandler reports service liveness and cache reachability.
type HealthHandler struct {
	cache cache.Cache
}

func NewHealthHandler(c cache.Cache) *HealthHandler {
	return &HealthHandler{cache: c}
}

// Health serves GET /health. The service stays "degraded" rather than
// unhealthy when the cache is down because every endpoint can compute
// without it.
func (h *HealthHandler) Health(c *gin.Context) {
	cacheStatus := "ok"
	status := "ok"
	if err := h.cache.Ping(c.Request.Context()); err != nil {
		cacheStatus = "unreachable"
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"service":   "stonks-api",
		"cache":     cacheStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
