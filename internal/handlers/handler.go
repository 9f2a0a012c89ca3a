// Package handlers exposes the HTTP surface of the API. Handlers parse
// and validate requests, consult the result cache and delegate the real
// work to the fetch and analytics packages.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stonks-api/internal/cache"
	"stonks-api/internal/config"
	"stonks-api/internal/monitoring"
)

// Deps bundles the cross-cutting dependencies every handler shares.
type Deps struct {
	Cache   cache.Cache
	Metrics *monitoring.Metrics
	Logger  *logrus.Logger
	TTL     config.CacheConfig
}

// serveCached is the read-through path for expensive results. On a hit
// the cached body is written verbatim; on a miss the result is computed,
// stored and returned. Cache failures degrade to computing every time.
func (d *Deps) serveCached(c *gin.Context, op, key string, ttl time.Duration, compute func(context.Context) (interface{}, error)) {
	ctx := c.Request.Context()

	blob, err := d.Cache.Get(ctx, key)
	if err == nil {
		d.Metrics.RecordCacheOperation(op, true)
		c.Data(http.StatusOK, "application/json; charset=utf-8", blob)
		return
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		d.Logger.WithError(err).WithField("key", key).Warn("Cache read failed")
	}
	d.Metrics.RecordCacheOperation(op, false)

	start := time.Now()
	result, err := compute(ctx)
	d.Metrics.RecordAnalysis(op, err, time.Since(start))
	if err != nil {
		d.Logger.WithError(err).WithField("operation", op).Error("Computation failed")
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to encode response")
		return
	}

	if err := d.Cache.Set(ctx, key, body, ttl); err != nil {
		d.Logger.WithError(err).WithField("key", key).Warn("Cache write failed")
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
