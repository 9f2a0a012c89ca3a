package analytics

import (
	"math"
	"sort"

	"stonks-api/internal/models"
)

// TradingDays is the annualization base used throughout the statistics
// library.
const TradingDays = 252

// Returns computes daily log returns over an aligned column. Transitions
// where either endpoint is missing or non-positive contribute exactly 0.0,
// keeping the result aligned pairwise with other return series.
func Returns(prices []*float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		cur, prev := prices[i], prices[i-1]
		if cur != nil && prev != nil && *prev > 0 && *cur > 0 {
			returns = append(returns, math.Log(*cur / *prev))
		} else {
			returns = append(returns, 0.0)
		}
	}
	return returns
}

// ReturnsDense is Returns for a fully observed price slice.
func ReturnsDense(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] > 0 && prices[i] > 0 {
			returns = append(returns, math.Log(prices[i]/prices[i-1]))
		} else {
			returns = append(returns, 0.0)
		}
	}
	return returns
}

// SimpleReturns computes non-log returns with the same zero-fill policy.
func SimpleReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] > 0 {
			returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
		} else {
			returns = append(returns, 0.0)
		}
	}
	return returns
}

// Volatility is the standard deviation of returns, annualized by sqrt(252)
// when requested. Fewer than two points yield 0.0.
func Volatility(returns []float64, annualize bool) float64 {
	if len(returns) < 2 {
		return 0.0
	}
	vol := stdPop(returns)
	if annualize {
		vol *= math.Sqrt(TradingDays)
	}
	return vol
}

// Correlation is the Pearson correlation of two return series. Pairs where
// both values are exactly zero are dropped first: the zero-fill policy in
// Returns would otherwise report perfect agreement on non-trading days.
// Mismatched lengths or fewer than two valid pairs yield 0.0.
func Correlation(a, b []float64) float64 {
	if len(a) != len(b) || len(a) < 2 {
		return 0.0
	}
	va, vb := validPairs(a, b)
	if len(va) < 2 {
		return 0.0
	}

	meanA, meanB := mean(va), mean(vb)
	var num, ssA, ssB float64
	for i := range va {
		da, db := va[i]-meanA, vb[i]-meanB
		num += da * db
		ssA += da * da
		ssB += db * db
	}
	den := math.Sqrt(ssA * ssB)
	if den == 0 {
		return 0.0
	}
	corr := num / den
	if math.IsNaN(corr) {
		return 0.0
	}
	return corr
}

// Beta is cov(asset, market) / var(market) over the valid-pair filtered
// series. Degenerate input (length mismatch, too few points, zero market
// variance) yields the neutral 1.0: an unknown beta is treated as
// market-equivalent, not as zero exposure.
func Beta(assetReturns, marketReturns []float64) float64 {
	if len(assetReturns) != len(marketReturns) || len(assetReturns) < 2 {
		return 1.0
	}
	va, vm := validPairs(assetReturns, marketReturns)
	if len(va) < 2 {
		return 1.0
	}

	// Sample covariance over population variance, matching the historical
	// behavior of this metric.
	meanA, meanM := mean(va), mean(vm)
	var cov, varM float64
	for i := range va {
		cov += (va[i] - meanA) * (vm[i] - meanM)
		d := vm[i] - meanM
		varM += d * d
	}
	cov /= float64(len(va) - 1)
	varM /= float64(len(vm))

	if varM == 0 {
		return 1.0
	}
	beta := cov / varM
	if math.IsNaN(beta) {
		return 1.0
	}
	return beta
}

// Alpha is Jensen's alpha, annualized by 252. Degenerate input yields 0.0.
func Alpha(assetReturns, marketReturns []float64, riskFreeRate float64) float64 {
	if len(assetReturns) < 2 {
		return 0.0
	}
	beta := Beta(assetReturns, marketReturns)

	avgAsset := mean(assetReturns) * TradingDays
	avgMarket := mean(marketReturns) * TradingDays

	alpha := avgAsset - (riskFreeRate + beta*(avgMarket-riskFreeRate))
	if math.IsNaN(alpha) {
		return 0.0
	}
	return alpha
}

// ValueAtRisk is the (1-confidence) percentile of the return distribution,
// expressed as a percentage. Requires at least 10 points, else 0.0.
func ValueAtRisk(returns []float64, confidence float64) float64 {
	if len(returns) < 10 {
		return 0.0
	}
	return Percentile(returns, (1-confidence)*100) * 100
}

// ConditionalVaR is the mean of the returns at or below the VaR threshold,
// as a percentage. Requires at least 10 points, else 0.0.
func ConditionalVaR(returns []float64, confidence float64) float64 {
	if len(returns) < 10 {
		return 0.0
	}
	threshold := Percentile(returns, (1-confidence)*100)

	var tail []float64
	for _, r := range returns {
		if r <= threshold {
			tail = append(tail, r)
		}
	}
	if len(tail) == 0 {
		return threshold * 100
	}
	return mean(tail) * 100
}

// Sortino is the annualized mean return over the annualized downside
// deviation (std of negative returns only). A series with no negative
// returns has no downside deviation and yields 0.0 by definition.
func Sortino(returns []float64, riskFreeRate float64) float64 {
	if len(returns) < 2 {
		return 0.0
	}
	avg := mean(returns) * TradingDays

	var negative []float64
	for _, r := range returns {
		if r < 0 {
			negative = append(negative, r)
		}
	}
	if len(negative) == 0 {
		return 0.0
	}

	downside := stdPop(negative) * math.Sqrt(TradingDays)
	if downside == 0 {
		return 0.0
	}
	sortino := (avg - riskFreeRate) / downside
	if math.IsNaN(sortino) {
		return 0.0
	}
	return sortino
}

// Rolling computes trailing-window annualized volatility and mean over the
// return series derived from prices. Both outputs align with the returns
// (one element shorter than prices); entries before a full window are nil.
// Values are percentages.
func Rolling(prices []*float64, window int) models.RollingStats {
	if len(prices) < window {
		return models.RollingStats{Volatility: []*float64{}, Mean: []*float64{}}
	}

	returns := Returns(prices)
	vol := make([]*float64, len(returns))
	avg := make([]*float64, len(returns))

	for i := range returns {
		if i < window-1 {
			continue
		}
		win := returns[i-window+1 : i+1]
		v := stdPop(win) * math.Sqrt(TradingDays) * 100
		m := mean(win) * TradingDays * 100
		vol[i] = &v
		avg[i] = &m
	}

	return models.RollingStats{Volatility: vol, Mean: avg}
}

// RollingCorrelation computes the trailing-window correlation of two return
// series. Mismatched lengths or a series shorter than the window yield an
// empty result; entries before a full window are nil.
func RollingCorrelation(a, b []float64, window int) []*float64 {
	if len(a) != len(b) || len(a) < window {
		return []*float64{}
	}
	out := make([]*float64, len(a))
	for i := range a {
		if i < window-1 {
			continue
		}
		c := Correlation(a[i-window+1:i+1], b[i-window+1:i+1])
		v := c
		out[i] = &v
	}
	return out
}

// DrawdownSeries returns the running-peak-relative drawdown percentage at
// each point. Missing or non-positive entries contribute 0.0 drawdown and
// do not reset the peak.
func DrawdownSeries(prices []*float64) []float64 {
	drawdowns := make([]float64, len(prices))
	if len(prices) == 0 {
		return drawdowns
	}

	var peak float64
	hasPeak := false
	for _, p := range prices {
		if p != nil && *p > 0 {
			peak = *p
			hasPeak = true
			break
		}
	}
	if !hasPeak {
		return drawdowns
	}

	for i, p := range prices {
		if p != nil && *p > 0 {
			if *p > peak {
				peak = *p
			}
			if peak > 0 {
				drawdowns[i] = (peak - *p) / peak * 100
			}
		}
	}
	return drawdowns
}

// MaxDrawdown is the worst peak-to-trough decline of a dense price slice,
// as a percentage, found in one linear scan.
func MaxDrawdown(prices []float64) float64 {
	if len(prices) == 0 {
		return 0.0
	}
	peak := prices[0]
	maxDD := 0.0
	for _, p := range prices {
		if p > peak {
			peak = p
		}
		if peak > 0 {
			if dd := (peak - p) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD * 100
}

// Statistics builds the full per-asset metrics panel. Beta and alpha are
// computed only when a benchmark return series of matching length is
// supplied; otherwise they keep their neutral defaults. The boolean is
// false when the column has no valid prices at all.
func Statistics(prices []*float64, returns []float64, benchmarkReturns []float64) (models.StatisticsReport, bool) {
	var valid []float64
	for _, p := range prices {
		if p != nil && *p > 0 {
			valid = append(valid, *p)
		}
	}
	if len(valid) == 0 {
		return models.StatisticsReport{}, false
	}

	stats := models.StatisticsReport{
		CurrentPrice: valid[len(valid)-1],
		StartPrice:   valid[0],
		MinPrice:     minOf(valid),
		MaxPrice:     maxOf(valid),
		MeanPrice:    mean(valid),
		Beta:         1.0,
	}
	if valid[0] > 0 {
		stats.TotalReturn = (valid[len(valid)-1]/valid[0] - 1) * 100
	}
	stats.Volatility = Volatility(returns, true) * 100

	if len(returns) > 1 {
		meanReturn := mean(returns) * TradingDays
		if vol := Volatility(returns, true); vol > 0 {
			stats.SharpeRatio = meanReturn / vol
		}
		stats.SortinoRatio = Sortino(returns, 0)
		stats.VaR95 = ValueAtRisk(returns, 0.95)
		stats.CVaR95 = ConditionalVaR(returns, 0.95)

		if benchmarkReturns != nil && len(benchmarkReturns) == len(returns) {
			stats.Beta = Beta(returns, benchmarkReturns)
			stats.Alpha = Alpha(returns, benchmarkReturns, 0) * 100
		}
	}

	stats.MaxDrawdown = MaxDrawdown(valid)
	return stats, true
}

// Percentile computes the p-th percentile (0..100) with linear
// interpolation between closest ranks.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// validPairs drops index positions where both series are exactly zero.
func validPairs(a, b []float64) ([]float64, []float64) {
	va := make([]float64, 0, len(a))
	vb := make([]float64, 0, len(b))
	for i := range a {
		if a[i] != 0 || b[i] != 0 {
			va = append(va, a[i])
			vb = append(vb, b[i])
		}
	}
	return va, vb
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdPop is the population standard deviation.
func stdPop(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	m := mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
