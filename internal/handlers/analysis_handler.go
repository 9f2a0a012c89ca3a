package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stonks-api/internal/analytics"
	"stonks-api/internal/dto"
	"stonks-api/internal/forecast"
	"stonks-api/internal/invest"
	"stonks-api/internal/sentiment"
)

// AnalysisHandler serves the computed endpoints: comparison, forecast,
// investment replay and sentiment scoring.
type AnalysisHandler struct {
	comparator *analytics.Comparator
	forecaster *forecast.Forecaster
	simulator  *invest.Simulator
	deps       *Deps
}

func NewAnalysisHandler(comparator *analytics.Comparator, forecaster *forecast.Forecaster, simulator *invest.Simulator, deps *Deps) *AnalysisHandler {
	return &AnalysisHandler{
		comparator: comparator,
		forecaster: forecaster,
		simulator:  simulator,
		deps:       deps,
	}
}

// Compare runs a multi-asset comparison.
// POST /api/v1/analysis/compare
func (h *AnalysisHandler) Compare(c *gin.Context) {
	var req dto.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	req.SetDefaults()
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.deps.serveCached(c, "compare", req.BuildCacheKey(), h.deps.TTL.CompareTTL, func(ctx context.Context) (interface{}, error) {
		return h.comparator.Compare(ctx, req.Assets, req.Period)
	})
}

// Forecast runs a Monte Carlo price forecast.
// POST /api/v1/analysis/forecast
func (h *AnalysisHandler) Forecast(c *gin.Context) {
	var req dto.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	req.SetDefaults()
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.deps.serveCached(c, "forecast", req.BuildCacheKey(), h.deps.TTL.ForecastTTL, func(ctx context.Context) (interface{}, error) {
		return h.forecaster.Forecast(ctx, req.Asset, req.Period, req.ForecastDays, req.Simulations)
	})
}

// SimulateInvestment replays a DCA schedule over historical prices.
// POST /api/v1/investment/simulate
func (h *AnalysisHandler) SimulateInvestment(c *gin.Context) {
	var req dto.InvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	req.SetDefaults()
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.deps.serveCached(c, "investment", req.BuildCacheKey(), h.deps.TTL.InvestmentTTL, func(ctx context.Context) (interface{}, error) {
		return h.simulator.Simulate(ctx, req.Asset, req.Period, req.Frequency, req.InitialAmount, req.RecurringAmount, req.Benchmark)
	})
}

// ScoreSentiment scores a batch of texts. Scoring is a pure in-memory
// computation, so the result cache is skipped.
// POST /api/v1/sentiment/score
func (h *AnalysisHandler) ScoreSentiment(c *gin.Context) {
	var req dto.SentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	scores, aggregate := sentiment.AnalyzeBatch(req.Texts)
	h.deps.Metrics.RecordAnalysis("sentiment", nil, time.Since(start))

	c.JSON(http.StatusOK, gin.H{
		"ticker":    req.Ticker,
		"scores":    scores,
		"aggregate": aggregate,
	})
}
