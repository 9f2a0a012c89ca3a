package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stonks-api/internal/models"
)

func TestCompareRequest(t *testing.T) {
	valid := func() *CompareRequest {
		return &CompareRequest{
			Assets: []models.AssetRef{
				{Type: "stock", Ticker: "AAPL"},
				{Type: "crypto", Ticker: "BTC"},
			},
		}
	}

	t.Run("defaults and validates", func(t *testing.T) {
		req := valid()
		req.SetDefaults()

		assert.Equal(t, "1y", req.Period)
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects a single asset", func(t *testing.T) {
		req := &CompareRequest{
			Assets: []models.AssetRef{{Type: "stock", Ticker: "AAPL"}},
			Period: "1y",
		}
		assert.Error(t, req.Validate())
	})

	t.Run("rejects unknown asset type", func(t *testing.T) {
		req := valid()
		req.Assets[0].Type = "bond"
		req.SetDefaults()
		assert.Error(t, req.Validate())
	})

	t.Run("rejects unknown period", func(t *testing.T) {
		req := valid()
		req.Period = "14d"
		assert.Error(t, req.Validate())
	})

	t.Run("cache key depends on asset order", func(t *testing.T) {
		a := valid()
		a.SetDefaults()
		b := &CompareRequest{
			Assets: []models.AssetRef{a.Assets[1], a.Assets[0]},
			Period: a.Period,
		}
		assert.NotEqual(t, a.BuildCacheKey(), b.BuildCacheKey())
	})
}

func TestForecastRequest(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		req := &ForecastRequest{Asset: models.AssetRef{Type: "stock", Ticker: "AAPL"}}
		req.SetDefaults()

		assert.Equal(t, 252, req.ForecastDays)
		assert.Equal(t, 10000, req.Simulations)
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects out-of-range simulation counts", func(t *testing.T) {
		req := &ForecastRequest{
			Asset:        models.AssetRef{Type: "stock", Ticker: "AAPL"},
			Period:       "1y",
			ForecastDays: 252,
			Simulations:  50,
		}
		assert.Error(t, req.Validate())
	})

	t.Run("cache key separates parameter sets", func(t *testing.T) {
		a := &ForecastRequest{Asset: models.AssetRef{Type: "stock", Ticker: "AAPL"}}
		a.SetDefaults()
		b := &ForecastRequest{Asset: a.Asset, Period: a.Period, ForecastDays: 126, Simulations: a.Simulations}
		assert.NotEqual(t, a.BuildCacheKey(), b.BuildCacheKey())
	})
}

func TestInvestmentRequest(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		req := &InvestmentRequest{
			Asset:         models.AssetRef{Type: "stock", Ticker: "AAPL"},
			InitialAmount: 1000,
		}
		req.SetDefaults()

		assert.Equal(t, "once", req.Frequency)
		assert.NoError(t, req.Validate())
	})

	t.Run("accepts every frequency", func(t *testing.T) {
		for _, freq := range []string{"once", "daily", "weekly", "monthly"} {
			req := &InvestmentRequest{
				Asset:         models.AssetRef{Type: "stock", Ticker: "AAPL"},
				Frequency:     freq,
				InitialAmount: 1000,
			}
			req.SetDefaults()
			assert.NoError(t, req.Validate(), freq)
		}
	})

	t.Run("rejects all-zero amounts", func(t *testing.T) {
		req := &InvestmentRequest{Asset: models.AssetRef{Type: "stock", Ticker: "AAPL"}}
		req.SetDefaults()
		assert.Error(t, req.Validate())
	})

	t.Run("rejects unknown frequency", func(t *testing.T) {
		req := &InvestmentRequest{
			Asset:         models.AssetRef{Type: "stock", Ticker: "AAPL"},
			Frequency:     "hourly",
			Period:        "1y",
			InitialAmount: 1000,
		}
		assert.Error(t, req.Validate())
	})

	t.Run("benchmark is part of the cache key", func(t *testing.T) {
		base := &InvestmentRequest{
			Asset:         models.AssetRef{Type: "stock", Ticker: "AAPL"},
			InitialAmount: 1000,
		}
		base.SetDefaults()

		withBench := *base
		bench := models.AssetRef{Type: "index", Ticker: "sp500"}
		withBench.Benchmark = &bench

		assert.NotEqual(t, base.BuildCacheKey(), withBench.BuildCacheKey())
	})
}

func TestSentimentRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := &SentimentRequest{Ticker: "AAPL", Texts: []string{"headline"}}
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		req := &SentimentRequest{Texts: nil}
		assert.Error(t, req.Validate())
	})
}
