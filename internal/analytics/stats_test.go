package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func f(v float64) *float64 { return &v }

func ptrs(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		v := values[i]
		out[i] = &v
	}
	return out
}

func TestReturns(t *testing.T) {
	t.Run("log returns over clean prices", func(t *testing.T) {
		returns := Returns(ptrs(100, 110, 121))

		assert.Len(t, returns, 2)
		assert.InDelta(t, math.Log(1.1), returns[0], 1e-12)
		assert.InDelta(t, math.Log(1.1), returns[1], 1e-12)
	})

	t.Run("missing endpoint yields zero", func(t *testing.T) {
		prices := []*float64{f(100), nil, f(110)}
		returns := Returns(prices)

		assert.Equal(t, []float64{0, 0}, returns)
	})

	t.Run("non-positive price yields zero", func(t *testing.T) {
		returns := Returns(ptrs(100, 0, 110))

		assert.Equal(t, []float64{0, 0}, returns)
	})

	t.Run("too short", func(t *testing.T) {
		assert.Empty(t, Returns(ptrs(100)))
		assert.Empty(t, Returns(nil))
	})
}

func TestSimpleReturns(t *testing.T) {
	returns := SimpleReturns([]float64{100, 110, 99})

	assert.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-12)
	assert.InDelta(t, -0.10, returns[1], 1e-12)
}

func TestVolatility(t *testing.T) {
	t.Run("annualized scales by sqrt 252", func(t *testing.T) {
		returns := []float64{0.01, -0.02, 0.015, -0.005, 0.01}
		daily := Volatility(returns, false)
		annual := Volatility(returns, true)

		assert.Greater(t, daily, 0.0)
		assert.InDelta(t, daily*math.Sqrt(252), annual, 1e-12)
	})

	t.Run("constant returns have zero volatility", func(t *testing.T) {
		assert.Equal(t, 0.0, Volatility([]float64{0.01, 0.01, 0.01}, true))
	})

	t.Run("too short", func(t *testing.T) {
		assert.Equal(t, 0.0, Volatility([]float64{0.01}, true))
	})
}

func TestCorrelation(t *testing.T) {
	a := []float64{0.01, -0.02, 0.015, -0.005, 0.02, -0.01}
	b := []float64{0.02, -0.01, 0.01, 0.005, 0.015, -0.02}

	t.Run("self correlation is one", func(t *testing.T) {
		assert.InDelta(t, 1.0, Correlation(a, a), 1e-12)
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.InDelta(t, Correlation(a, b), Correlation(b, a), 1e-12)
	})

	t.Run("perfect inverse", func(t *testing.T) {
		inv := make([]float64, len(a))
		for i, v := range a {
			inv[i] = -v
		}
		assert.InDelta(t, -1.0, Correlation(a, inv), 1e-12)
	})

	t.Run("both-zero pairs are excluded", func(t *testing.T) {
		// The zero pairs come from gap filling, not agreement, so this
		// must match the correlation of the non-zero pairs alone.
		padded1 := []float64{0.01, 0, -0.02, 0, 0.015}
		padded2 := []float64{0.02, 0, -0.01, 0, 0.01}
		clean1 := []float64{0.01, -0.02, 0.015}
		clean2 := []float64{0.02, -0.01, 0.01}

		assert.InDelta(t, Correlation(clean1, clean2), Correlation(padded1, padded2), 1e-12)
	})

	t.Run("degenerate inputs", func(t *testing.T) {
		assert.Equal(t, 0.0, Correlation(a, b[:3]))
		assert.Equal(t, 0.0, Correlation([]float64{0.01}, []float64{0.02}))
		assert.Equal(t, 0.0, Correlation([]float64{0.01, 0.01}, []float64{0.02, 0.03}))
	})
}

func TestBeta(t *testing.T) {
	market := []float64{0.01, -0.02, 0.015, -0.005, 0.02, -0.01, 0.005, 0.01}

	t.Run("self beta is near one", func(t *testing.T) {
		// Sample covariance over population variance puts self-beta a
		// hair above 1.
		beta := Beta(market, market)
		assert.InDelta(t, 1.0, beta, 0.2)
		assert.Greater(t, beta, 1.0)
	})

	t.Run("leveraged asset doubles beta", func(t *testing.T) {
		double := make([]float64, len(market))
		for i, v := range market {
			double[i] = 2 * v
		}
		assert.InDelta(t, 2*Beta(market, market), Beta(double, market), 1e-9)
	})

	t.Run("neutral default on degenerate input", func(t *testing.T) {
		assert.Equal(t, 1.0, Beta(market, market[:3]))
		assert.Equal(t, 1.0, Beta([]float64{0.01}, []float64{0.02}))
		assert.Equal(t, 1.0, Beta([]float64{0.01, 0.02, 0.03}, []float64{0.01, 0.01, 0.01}))
	})
}

func TestAlpha(t *testing.T) {
	t.Run("asset tracking market has zero alpha", func(t *testing.T) {
		market := []float64{0.01, -0.02, 0.015, -0.005, 0.02, -0.01}
		alpha := Alpha(market, market, 0)
		beta := Beta(market, market)

		// alpha = meanA*252 - beta*meanM*252 with rf=0; residual comes
		// only from beta's ddof mismatch.
		expected := mean(market) * 252 * (1 - beta)
		assert.InDelta(t, expected, alpha, 1e-9)
	})

	t.Run("neutral default", func(t *testing.T) {
		assert.Equal(t, 0.0, Alpha([]float64{0.01}, []float64{0.02}, 0))
	})
}

func TestValueAtRisk(t *testing.T) {
	t.Run("needs at least ten points", func(t *testing.T) {
		assert.Equal(t, 0.0, ValueAtRisk([]float64{-0.05, 0.01, 0.02}, 0.95))
	})

	t.Run("fifth percentile as percentage", func(t *testing.T) {
		returns := make([]float64, 100)
		for i := range returns {
			returns[i] = float64(i-50) / 1000 // -5.0% .. +4.9%
		}
		v := ValueAtRisk(returns, 0.95)

		assert.InDelta(t, Percentile(returns, 5)*100, v, 1e-12)
		assert.Less(t, v, 0.0)
	})
}

func TestConditionalVaR(t *testing.T) {
	returns := make([]float64, 100)
	for i := range returns {
		returns[i] = float64(i-50) / 1000
	}

	cvar := ConditionalVaR(returns, 0.95)
	v := ValueAtRisk(returns, 0.95)

	// expected shortfall is at least as bad as the threshold
	assert.LessOrEqual(t, cvar, v)
	assert.Equal(t, 0.0, ConditionalVaR(returns[:5], 0.95))
}

func TestSortino(t *testing.T) {
	t.Run("no negative returns yields zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Sortino([]float64{0.01, 0.02, 0.005}, 0))
	})

	t.Run("penalizes downside only", func(t *testing.T) {
		mild := []float64{0.01, -0.004, 0.02, -0.006, 0.015}
		harsh := []float64{0.01, -0.04, 0.02, -0.06, 0.015}

		assert.Greater(t, Sortino(mild, 0), Sortino(harsh, 0))
	})

	t.Run("constant negatives have zero downside deviation", func(t *testing.T) {
		assert.Equal(t, 0.0, Sortino([]float64{0.01, -0.02, 0.03, -0.02}, 0))
	})
}

func TestRolling(t *testing.T) {
	prices := ptrs(100, 101, 99, 102, 103, 101, 104, 105)

	t.Run("aligned with returns and nil before full window", func(t *testing.T) {
		rolling := Rolling(prices, 3)

		assert.Len(t, rolling.Volatility, len(prices)-1)
		assert.Len(t, rolling.Mean, len(prices)-1)
		assert.Nil(t, rolling.Volatility[0])
		assert.Nil(t, rolling.Volatility[1])
		assert.NotNil(t, rolling.Volatility[2])
		assert.NotNil(t, rolling.Mean[len(prices)-2])
	})

	t.Run("too short yields empty", func(t *testing.T) {
		rolling := Rolling(ptrs(100, 101), 5)
		assert.Empty(t, rolling.Volatility)
		assert.Empty(t, rolling.Mean)
	})
}

func TestRollingCorrelation(t *testing.T) {
	a := []float64{0.01, -0.02, 0.015, -0.005, 0.02, -0.01}

	t.Run("self correlation windows are one", func(t *testing.T) {
		out := RollingCorrelation(a, a, 3)

		assert.Len(t, out, len(a))
		assert.Nil(t, out[0])
		assert.Nil(t, out[1])
		for i := 2; i < len(out); i++ {
			assert.NotNil(t, out[i])
			assert.InDelta(t, 1.0, *out[i], 1e-12)
		}
	})

	t.Run("mismatched lengths yield empty", func(t *testing.T) {
		assert.Empty(t, RollingCorrelation(a, a[:4], 3))
	})
}

func TestDrawdownSeries(t *testing.T) {
	t.Run("tracks running peak", func(t *testing.T) {
		dd := DrawdownSeries(ptrs(100, 110, 99, 121, 110))

		assert.InDelta(t, 0.0, dd[0], 1e-12)
		assert.InDelta(t, 0.0, dd[1], 1e-12)
		assert.InDelta(t, 10.0, dd[2], 1e-12)
		assert.InDelta(t, 0.0, dd[3], 1e-12)
		assert.InDelta(t, (121.0-110)/121*100, dd[4], 1e-9)
	})

	t.Run("gaps do not reset the peak", func(t *testing.T) {
		prices := []*float64{f(100), nil, f(80)}
		dd := DrawdownSeries(prices)

		assert.Equal(t, 0.0, dd[1])
		assert.InDelta(t, 20.0, dd[2], 1e-12)
	})
}

func TestMaxDrawdown(t *testing.T) {
	assert.InDelta(t, 50.0, MaxDrawdown([]float64{100, 200, 100, 150}), 1e-12)
	assert.Equal(t, 0.0, MaxDrawdown([]float64{100, 110, 120}))
	assert.Equal(t, 0.0, MaxDrawdown(nil))
}

func TestStatistics(t *testing.T) {
	prices := ptrs(100, 102, 101, 105, 103, 108, 107, 110, 109, 112, 111, 115)
	returns := Returns(prices)

	t.Run("panel fields", func(t *testing.T) {
		stats, ok := Statistics(prices, returns, nil)

		assert.True(t, ok)
		assert.Equal(t, 115.0, stats.CurrentPrice)
		assert.Equal(t, 100.0, stats.StartPrice)
		assert.Equal(t, 100.0, stats.MinPrice)
		assert.Equal(t, 115.0, stats.MaxPrice)
		assert.InDelta(t, 15.0, stats.TotalReturn, 1e-9)
		assert.Greater(t, stats.Volatility, 0.0)
		assert.Equal(t, 1.0, stats.Beta)
		assert.Equal(t, 0.0, stats.Alpha)
	})

	t.Run("benchmark enables beta and alpha", func(t *testing.T) {
		bench := make([]float64, len(returns))
		for i, r := range returns {
			bench[i] = r * 0.5
		}
		stats, ok := Statistics(prices, returns, bench)

		assert.True(t, ok)
		assert.InDelta(t, 2.0, stats.Beta, 0.3)
	})

	t.Run("all-nil column", func(t *testing.T) {
		_, ok := Statistics([]*float64{nil, nil}, nil, nil)
		assert.False(t, ok)
	})
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, 1.0, Percentile(values, 0))
	assert.Equal(t, 5.0, Percentile(values, 100))
	assert.Equal(t, 3.0, Percentile(values, 50))
	assert.InDelta(t, 1.4, Percentile(values, 10), 1e-12)
	assert.Equal(t, 0.0, Percentile(nil, 50))
}
