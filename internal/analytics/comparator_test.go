package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"stonks-api/internal/models"
)

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) LoadSeries(ctx context.Context, asset models.AssetRef, period string) (models.Series, error) {
	args := m.Called(ctx, asset, period)
	return args.Get(0).(models.Series), args.Error(1)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func trendingSeries(id string, n int, start, step float64) models.Series {
	points := make([]models.PricePoint, n)
	for i := range points {
		points[i] = models.PricePoint{
			Date:  fmt.Sprintf("2024-01-%02d", i+1),
			Close: start + step*float64(i),
		}
	}
	return models.NewSeries(id, points)
}

func TestComparatorCompare(t *testing.T) {
	ctx := context.Background()
	assets := []models.AssetRef{
		{Type: "stock", Ticker: "AAPL"},
		{Type: "crypto", Ticker: "BTC"},
	}

	t.Run("full panel for two assets", func(t *testing.T) {
		loader := new(mockLoader)
		loader.On("LoadSeries", ctx, assets[0], "1y").Return(trendingSeries("stock:AAPL", 25, 100, 1), nil)
		loader.On("LoadSeries", ctx, assets[1], "1y").Return(trendingSeries("crypto:BTC", 25, 50000, 120), nil)

		report, err := NewComparator(loader, testLogger()).Compare(ctx, assets, "1y")

		assert.NoError(t, err)
		assert.Equal(t, "1y", report.Period)
		assert.Equal(t, 25, report.DataPoints)
		assert.Equal(t, []string{"stock:AAPL", "crypto:BTC"}, report.Tickers)
		assert.Len(t, report.ChartData, 25)
		assert.Len(t, report.Statistics, 2)
		assert.Contains(t, report.TrendLines, "stock:AAPL")
		assert.Contains(t, report.RollingCorrelations, "stock:AAPL_vs_crypto:BTC")
		loader.AssertExpectations(t)
	})

	t.Run("rolling correlations fill once the window is met", func(t *testing.T) {
		loader := new(mockLoader)
		loader.On("LoadSeries", ctx, assets[0], "1y").Return(wobbleSeries("stock:AAPL", 25, 100), nil)
		loader.On("LoadSeries", ctx, assets[1], "1y").Return(wobbleSeries("crypto:BTC", 25, 50000), nil)

		report, err := NewComparator(loader, testLogger()).Compare(ctx, assets, "1y")

		assert.NoError(t, err)
		// 25 prices give 24 returns; a 20-day window leaves 5 filled slots.
		filled := 0
		for _, v := range report.RollingCorrelations["stock:AAPL_vs_crypto:BTC"] {
			if v != nil {
				filled++
			}
		}
		assert.Equal(t, 5, filled)
	})

	t.Run("rolling correlations cover every pair", func(t *testing.T) {
		three := []models.AssetRef{
			{Type: "stock", Ticker: "AAPL"},
			{Type: "crypto", Ticker: "BTC"},
			{Type: "index", Ticker: "SPX"},
		}
		loader := new(mockLoader)
		loader.On("LoadSeries", ctx, three[0], "1y").Return(wobbleSeries("stock:AAPL", 30, 100), nil)
		loader.On("LoadSeries", ctx, three[1], "1y").Return(wobbleSeries("crypto:BTC", 30, 50000), nil)
		loader.On("LoadSeries", ctx, three[2], "1y").Return(wobbleSeries("index:SPX", 30, 5000), nil)

		report, err := NewComparator(loader, testLogger()).Compare(ctx, three, "1y")

		assert.NoError(t, err)
		assert.Len(t, report.RollingCorrelations, 3)
		assert.Contains(t, report.RollingCorrelations, "stock:AAPL_vs_crypto:BTC")
		assert.Contains(t, report.RollingCorrelations, "stock:AAPL_vs_index:SPX")
		assert.Contains(t, report.RollingCorrelations, "crypto:BTC_vs_index:SPX")
	})

	t.Run("correlation matrix is symmetric with unit diagonal", func(t *testing.T) {
		loader := new(mockLoader)
		loader.On("LoadSeries", ctx, assets[0], "1y").Return(trendingSeries("stock:AAPL", 30, 100, 1), nil)
		loader.On("LoadSeries", ctx, assets[1], "1y").Return(trendingSeries("crypto:BTC", 30, 50000, -80), nil)

		report, err := NewComparator(loader, testLogger()).Compare(ctx, assets, "1y")

		assert.NoError(t, err)
		matrix := report.CorrelationMatrix
		assert.Len(t, matrix, 2)
		assert.Equal(t, 1.0, matrix[0][0])
		assert.Equal(t, 1.0, matrix[1][1])
		assert.Equal(t, matrix[0][1], matrix[1][0])
	})

	t.Run("benchmark only when lead asset is an index", func(t *testing.T) {
		indexed := []models.AssetRef{
			{Type: "index", Ticker: "SPX"},
			{Type: "stock", Ticker: "AAPL"},
		}
		loader := new(mockLoader)
		loader.On("LoadSeries", ctx, indexed[0], "1y").Return(wobbleSeries("index:SPX", 40, 5000), nil)
		loader.On("LoadSeries", ctx, indexed[1], "1y").Return(wobbleSeries("stock:AAPL", 40, 100), nil)

		report, err := NewComparator(loader, testLogger()).Compare(ctx, indexed, "1y")

		assert.NoError(t, err)
		// A non-neutral beta proves the benchmark made it into the panel.
		assert.NotEqual(t, 1.0, report.Statistics["stock:AAPL"].Beta)
	})

	t.Run("failed loads are dropped, two survivors required", func(t *testing.T) {
		loader := new(mockLoader)
		loader.On("LoadSeries", ctx, assets[0], "1y").Return(trendingSeries("stock:AAPL", 25, 100, 1), nil)
		loader.On("LoadSeries", ctx, assets[1], "1y").Return(models.Series{}, errors.New("provider down"))

		_, err := NewComparator(loader, testLogger()).Compare(ctx, assets, "1y")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient data")
	})

	t.Run("fewer than two assets is rejected", func(t *testing.T) {
		_, err := NewComparator(new(mockLoader), testLogger()).Compare(ctx, assets[:1], "1y")
		assert.Error(t, err)
	})

	t.Run("chart normalizes each asset to 100 at first observation", func(t *testing.T) {
		loader := new(mockLoader)
		loader.On("LoadSeries", ctx, assets[0], "1y").Return(trendingSeries("stock:AAPL", 25, 100, 1), nil)
		loader.On("LoadSeries", ctx, assets[1], "1y").Return(trendingSeries("crypto:BTC", 25, 50000, 120), nil)

		report, err := NewComparator(loader, testLogger()).Compare(ctx, assets, "1y")

		assert.NoError(t, err)
		first := report.ChartData[0]
		assert.InDelta(t, 100.0, first.Assets["stock:AAPL"].Normalized, 1e-9)
		assert.InDelta(t, 100.0, first.Assets["crypto:BTC"].Normalized, 1e-9)

		last := report.ChartData[len(report.ChartData)-1]
		assert.InDelta(t, 124.0/100.0*100, last.Assets["stock:AAPL"].Normalized, 1e-9)
		assert.Equal(t, 124.0, last.Assets["stock:AAPL"].Raw)
	})
}

// wobbleSeries produces a non-monotonic series so correlations and betas
// have real variance to work with.
func wobbleSeries(id string, n int, base float64) models.Series {
	points := make([]models.PricePoint, n)
	price := base
	for i := range points {
		if i%3 == 0 {
			price *= 1.02
		} else if i%3 == 1 {
			price *= 0.99
		} else {
			price *= 1.005 + 0.001*float64(i%7)
		}
		points[i] = models.PricePoint{Date: fmt.Sprintf("2024-02-%02d", i+1), Close: price}
	}
	return models.NewSeries(id, points)
}
