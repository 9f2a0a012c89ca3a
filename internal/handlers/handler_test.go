package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stonks-api/internal/analytics"
	"stonks-api/internal/cache"
	"stonks-api/internal/config"
	"stonks-api/internal/fetch"
	"stonks-api/internal/forecast"
	"stonks-api/internal/invest"
	"stonks-api/internal/models"
	"stonks-api/internal/monitoring"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// metrics collectors register against the process-global registry, so one
// instance is shared by every test.
var testMetrics = monitoring.NewMetrics()

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testDeps() *Deps {
	return &Deps{
		Cache:   cache.NewMemoryCache(),
		Metrics: testMetrics,
		Logger:  testLogger(),
		TTL: config.CacheConfig{
			HistoryTTL:    time.Minute,
			QuoteTTL:      time.Minute,
			CompareTTL:    time.Minute,
			ForecastTTL:   time.Minute,
			InvestmentTTL: time.Minute,
			SentimentTTL:  time.Minute,
		},
	}
}

// weekdayHistory builds n trading days starting 2024-01-01. Growth
// factors cycle so the return series has nonzero variance.
func weekdayHistory(n int) []models.PricePoint {
	factors := []float64{1.012, 0.994, 1.006, 0.997, 1.009}
	points := make([]models.PricePoint, 0, n)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for len(points) < n {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			points = append(points, models.PricePoint{Date: day.Format("2006-01-02"), Close: price})
			price *= factors[len(points)%len(factors)]
		}
		day = day.AddDate(0, 0, 1)
	}
	return points
}

type stubLoader struct {
	points []models.PricePoint
}

func (s *stubLoader) LoadSeries(_ context.Context, asset models.AssetRef, _ string) (models.Series, error) {
	return models.NewSeries(asset.ID(), s.points), nil
}

type stubCrypto struct{}

func (stubCrypto) FetchHistory(_ context.Context, ticker string, _ int) (*models.History, error) {
	return &models.History{Ticker: ticker, Source: "coingecko", Points: weekdayHistory(40)}, nil
}

func (stubCrypto) GetQuote(_ context.Context, ticker string) (*models.Quote, error) {
	return &models.Quote{
		Ticker:       ticker,
		AssetType:    "crypto",
		Source:       "coingecko",
		CurrentPrice: decimal.NewFromFloat(42000),
		Currency:     "USD",
	}, nil
}

type stubMarket struct{}

func (stubMarket) FetchHistory(_ context.Context, _, ticker, _ string) (*models.History, error) {
	return &models.History{Ticker: ticker, Source: "yahoo", Points: weekdayHistory(40)}, nil
}

func (stubMarket) GetQuote(_ context.Context, _, ticker string) (*models.Quote, error) {
	return &models.Quote{Ticker: ticker, Source: "yahoo", CurrentPrice: decimal.NewFromFloat(190)}, nil
}

type stubMacro struct{}

func (stubMacro) FetchHistory(_ context.Context, ticker string) (*models.History, error) {
	return &models.History{Ticker: ticker, Source: "fred", Points: weekdayHistory(40)}, nil
}

func newMarketRouter(deps *Deps) *gin.Engine {
	service := fetch.NewService(stubCrypto{}, stubMarket{}, stubMacro{}, deps.Cache, time.Minute, deps.Logger)
	handler := NewMarketHandler(service, deps)

	router := gin.New()
	router.GET("/api/v1/:type/:ticker/history", handler.GetHistory)
	router.GET("/api/v1/:type/:ticker/quote", handler.GetQuote)
	return router
}

func newAnalysisRouter(deps *Deps, loader analytics.SeriesLoader) *gin.Engine {
	handler := NewAnalysisHandler(
		analytics.NewComparator(loader, deps.Logger),
		forecast.NewForecaster(loader, deps.Logger),
		invest.NewSimulator(loader, deps.Logger),
		deps,
	)

	router := gin.New()
	router.POST("/api/v1/analysis/compare", handler.Compare)
	router.POST("/api/v1/analysis/forecast", handler.Forecast)
	router.POST("/api/v1/investment/simulate", handler.SimulateInvestment)
	router.POST("/api/v1/sentiment/score", handler.ScoreSentiment)
	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetHistory(t *testing.T) {
	router := newMarketRouter(testDeps())

	t.Run("returns provider history", func(t *testing.T) {
		w := get(router, "/api/v1/crypto/BTC/history?period=3mo")
		require.Equal(t, http.StatusOK, w.Code)

		var history models.History
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
		assert.Equal(t, "BTC", history.Ticker)
		assert.Equal(t, "coingecko", history.Source)
		assert.Len(t, history.Points, 40)
	})

	t.Run("rejects unknown asset type", func(t *testing.T) {
		w := get(router, "/api/v1/bond/XYZ/history")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unknown period", func(t *testing.T) {
		w := get(router, "/api/v1/stock/AAPL/history?period=14d")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("defaults period to one year", func(t *testing.T) {
		w := get(router, "/api/v1/stock/AAPL/history")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetQuote(t *testing.T) {
	deps := testDeps()
	router := newMarketRouter(deps)

	w := get(router, "/api/v1/crypto/BTC/quote")
	require.Equal(t, http.StatusOK, w.Code)

	var quote models.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.Equal(t, "BTC", quote.Ticker)
	assert.True(t, quote.CurrentPrice.Equal(decimal.NewFromFloat(42000)))

	// Second request must be served from cache with an identical body.
	first := w.Body.String()
	w2 := get(router, "/api/v1/crypto/BTC/quote")
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, first, w2.Body.String())
}

func TestCompare(t *testing.T) {
	deps := testDeps()
	router := newAnalysisRouter(deps, &stubLoader{points: weekdayHistory(60)})

	t.Run("computes a comparison report", func(t *testing.T) {
		w := postJSON(router, "/api/v1/analysis/compare", gin.H{
			"assets": []gin.H{
				{"type": "stock", "ticker": "AAPL"},
				{"type": "stock", "ticker": "MSFT"},
			},
			"period": "3mo",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var report models.ComparisonReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Len(t, report.Tickers, 2)
	})

	t.Run("rejects a single asset", func(t *testing.T) {
		w := postJSON(router, "/api/v1/analysis/compare", gin.H{
			"assets": []gin.H{{"type": "stock", "ticker": "AAPL"}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/compare", bytes.NewReader([]byte("{")))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestForecast(t *testing.T) {
	deps := testDeps()
	router := newAnalysisRouter(deps, &stubLoader{points: weekdayHistory(60)})

	t.Run("computes and caches a forecast", func(t *testing.T) {
		payload := gin.H{
			"asset":         gin.H{"type": "crypto", "ticker": "BTC"},
			"period":        "3mo",
			"forecast_days": 30,
			"simulations":   200,
		}

		w := postJSON(router, "/api/v1/analysis/forecast", payload)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result models.ForecastResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 200, result.NumSimulations)

		w2 := postJSON(router, "/api/v1/analysis/forecast", payload)
		require.Equal(t, http.StatusOK, w2.Code)
		assert.Equal(t, w.Body.String(), w2.Body.String())
	})

	t.Run("rejects out-of-range simulations", func(t *testing.T) {
		w := postJSON(router, "/api/v1/analysis/forecast", gin.H{
			"asset":       gin.H{"type": "crypto", "ticker": "BTC"},
			"simulations": 50,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reports computation failures", func(t *testing.T) {
		short := newAnalysisRouter(testDeps(), &stubLoader{points: weekdayHistory(5)})
		w := postJSON(short, "/api/v1/analysis/forecast", gin.H{
			"asset": gin.H{"type": "crypto", "ticker": "BTC"},
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestSimulateInvestment(t *testing.T) {
	deps := testDeps()
	router := newAnalysisRouter(deps, &stubLoader{points: weekdayHistory(60)})

	t.Run("replays a monthly schedule", func(t *testing.T) {
		w := postJSON(router, "/api/v1/investment/simulate", gin.H{
			"asset":            gin.H{"type": "stock", "ticker": "VOO"},
			"period":           "3mo",
			"frequency":        "monthly",
			"initial_amount":   1000,
			"recurring_amount": 100,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var report models.InvestmentReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Greater(t, report.Investment.TotalInvested, 1000.0)
	})

	t.Run("rejects a schedule with no money", func(t *testing.T) {
		w := postJSON(router, "/api/v1/investment/simulate", gin.H{
			"asset": gin.H{"type": "stock", "ticker": "VOO"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestScoreSentiment(t *testing.T) {
	router := newAnalysisRouter(testDeps(), &stubLoader{})

	t.Run("scores a batch", func(t *testing.T) {
		w := postJSON(router, "/api/v1/sentiment/score", gin.H{
			"ticker": "BTC",
			"texts":  []string{"massive rally and record breakout", "crash and panic everywhere"},
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Ticker    string `json:"ticker"`
			Scores    []json.RawMessage
			Aggregate json.RawMessage
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "BTC", resp.Ticker)
		assert.Len(t, resp.Scores, 2)
	})

	t.Run("rejects an empty batch", func(t *testing.T) {
		w := postJSON(router, "/api/v1/sentiment/score", gin.H{"texts": []string{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHealth(t *testing.T) {
	router := gin.New()
	router.GET("/health", NewHealthHandler(cache.NewMemoryCache()).Health)

	w := get(router, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["cache"])
}
