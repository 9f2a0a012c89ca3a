package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records operational metrics for the API. One instance is shared
// across handlers; all underlying collectors are safe for concurrent use.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	cacheOperationsTotal *prometheus.CounterVec

	analysisTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
}

// NewMetrics registers the API collectors with the default registry
func NewMetrics() *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stonks_api_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stonks_api_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		cacheOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stonks_api_cache_operations_total",
				Help: "Cache lookups partitioned by result",
			},
			[]string{"operation", "result"},
		),
		analysisTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stonks_api_analysis_total",
				Help: "Analysis computations partitioned by kind and outcome",
			},
			[]string{"kind", "status"},
		),
		analysisDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stonks_api_analysis_duration_seconds",
				Help:    "Analysis computation duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"kind"},
		),
	}
}

// RecordCacheOperation counts a cache lookup as hit or miss
func (m *Metrics) RecordCacheOperation(operation string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordAnalysis records one analysis computation
func (m *Metrics) RecordAnalysis(kind string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.analysisTotal.WithLabelValues(kind, status).Inc()
	m.analysisDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// Middleware returns a gin middleware that records request counts and
// latency. The route template is used as the endpoint label so that
// /api/v1/crypto/BTC/history and /api/v1/crypto/ETH/history share a series.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.httpRequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry in Prometheus exposition format
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
