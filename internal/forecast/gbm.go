// Package forecast runs seeded geometric Brownian motion Monte Carlo
// simulations calibrated on historical log returns.
package forecast

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"stonks-api/internal/analytics"
	"stonks-api/internal/models"
)

const (
	// rngSeed fixes the generator so identical requests produce identical
	// forecasts, which keeps cached and fresh responses interchangeable.
	rngSeed = 42

	tradingDays = 252
	// minCalibrationPoints is the least history a GBM calibration accepts.
	minCalibrationPoints = 20
	// maxDrawdownPaths bounds the per-path drawdown scan, which is the
	// most expensive derived statistic.
	maxDrawdownPaths = 1000
	// numSamplePaths is how many full paths the response carries for
	// charting.
	numSamplePaths = 100
)

// varHorizons are the intermediate days at which horizon VaR is reported,
// when the forecast extends past them.
var varHorizons = []int{21, 63, 126, 252}

// Forecaster calibrates GBM parameters from an asset's history and
// simulates forward price paths.
type Forecaster struct {
	loader analytics.SeriesLoader
	logger *logrus.Logger
}

func NewForecaster(loader analytics.SeriesLoader, logger *logrus.Logger) *Forecaster {
	return &Forecaster{loader: loader, logger: logger}
}

// Forecast loads the asset's history over the lookback period, calibrates
// drift and volatility from its log returns and simulates numSims paths of
// forecastDays steps. The simulation is deterministic for a given set of
// arguments.
func (f *Forecaster) Forecast(ctx context.Context, asset models.AssetRef, period string, forecastDays, numSims int) (*models.ForecastResult, error) {
	series, err := f.loader.LoadSeries(ctx, asset, period)
	if err != nil {
		return nil, fmt.Errorf("loading history for %s: %w", asset.ID(), err)
	}

	prices := series.Prices()
	if len(prices) < minCalibrationPoints {
		return nil, fmt.Errorf("insufficient history for %s: %d points, need %d", asset.ID(), len(prices), minCalibrationPoints)
	}

	returns := analytics.ReturnsDense(prices)
	drift := mean(returns)
	vol := stdDev(returns)
	currentPrice := prices[len(prices)-1]

	f.logger.WithFields(logrus.Fields{
		"asset":         asset.ID(),
		"forecast_days": forecastDays,
		"simulations":   numSims,
		"daily_drift":   drift,
		"daily_vol":     vol,
	}).Info("Running Monte Carlo forecast")

	paths := simulate(currentPrice, drift, vol, forecastDays, numSims)

	result := &models.ForecastResult{
		Ticker:         asset.Ticker,
		AssetType:      asset.Type,
		CurrentPrice:   currentPrice,
		LookbackPeriod: period,
		ForecastDays:   forecastDays,
		NumSimulations: numSims,
		Historical:     summarize(series),
		Parameters:     calibration(prices, returns, drift, vol),
	}

	terminalPrices := make([]float64, numSims)
	terminalReturns := make([]float64, numSims)
	for i, path := range paths {
		terminalPrices[i] = path[len(path)-1]
		terminalReturns[i] = (path[len(path)-1]/currentPrice - 1) * 100
	}

	result.ForecastStats = dayStats(paths, forecastDays)
	result.Scenarios = scenarios(terminalPrices, currentPrice)
	result.RiskMetrics = riskMetrics(paths, terminalReturns, currentPrice, forecastDays)
	result.ProbabilityAnalysis = probabilities(terminalReturns)
	result.ReturnDistribution = returnDistribution(terminalReturns, returns)
	result.FinalDistribution = finalDistribution(terminalPrices, terminalReturns)
	result.SamplePaths = samplePaths(paths)

	return result, nil
}

// simulate generates the full path matrix. A single seeded source feeds
// every path in order, so the matrix is a pure function of the arguments.
// Each path starts at the current price on day 0.
func simulate(currentPrice, drift, vol float64, forecastDays, numSims int) [][]float64 {
	rng := rand.New(rand.NewSource(rngSeed))

	driftTerm := drift - 0.5*vol*vol
	paths := make([][]float64, numSims)
	for i := range paths {
		path := make([]float64, forecastDays+1)
		path[0] = currentPrice
		logSum := 0.0
		for d := 1; d <= forecastDays; d++ {
			logSum += driftTerm + vol*rng.NormFloat64()
			path[d] = currentPrice * math.Exp(logSum)
		}
		paths[i] = path
	}
	return paths
}

func summarize(series models.Series) models.HistoricalSummary {
	prices := series.Prices()
	return models.HistoricalSummary{
		StartDate:  series.Points[0].Date,
		EndDate:    series.Points[len(series.Points)-1].Date,
		StartPrice: prices[0],
		EndPrice:   prices[len(prices)-1],
		MinPrice:   minOf(prices),
		MaxPrice:   maxOf(prices),
		MeanPrice:  mean(prices),
		DataPoints: len(prices),
	}
}

func calibration(prices, returns []float64, drift, vol float64) models.ForecastParameters {
	params := models.ForecastParameters{
		AnnualizedReturn:     drift * tradingDays * 100,
		AnnualizedVolatility: vol * math.Sqrt(tradingDays) * 100,
		DailyDrift:           drift,
		DailyVolatility:      vol,
		Skewness:             skewness(returns),
		Kurtosis:             kurtosis(returns),
	}
	if prices[0] > 0 && len(prices) > 1 {
		years := float64(len(prices)) / tradingDays
		params.CAGR = (math.Pow(prices[len(prices)-1]/prices[0], 1/years) - 1) * 100
	}
	return params
}

// dayStats computes the cross-path distribution for every forecast day.
// Day 0 is included; every path starts there at the current price, so
// its row collapses to a single value.
func dayStats(paths [][]float64, forecastDays int) []models.DayStats {
	stats := make([]models.DayStats, 0, forecastDays+1)
	column := make([]float64, len(paths))
	for d := 0; d <= forecastDays; d++ {
		for i, path := range paths {
			column[i] = path[d]
		}
		stats = append(stats, models.DayStats{
			Day:  d,
			Mean: mean(column),
			Std:  stdDev(column),
			Min:  minOf(column),
			Max:  maxOf(column),
			P1:   analytics.Percentile(column, 1),
			P5:   analytics.Percentile(column, 5),
			P10:  analytics.Percentile(column, 10),
			P25:  analytics.Percentile(column, 25),
			P50:  analytics.Percentile(column, 50),
			P75:  analytics.Percentile(column, 75),
			P90:  analytics.Percentile(column, 90),
			P95:  analytics.Percentile(column, 95),
			P99:  analytics.Percentile(column, 99),
		})
	}
	return stats
}

func scenarios(terminalPrices []float64, currentPrice float64) map[string]models.Scenario {
	at := func(description string, p float64) models.Scenario {
		price := analytics.Percentile(terminalPrices, p)
		return models.Scenario{
			Description: description,
			FinalPrice:  price,
			ReturnPct:   (price/currentPrice - 1) * 100,
		}
	}
	return map[string]models.Scenario{
		"base":         at("Median outcome (50th percentile)", 50),
		"bull":         at("Optimistic outcome (90th percentile)", 90),
		"bear":         at("Pessimistic outcome (10th percentile)", 10),
		"extreme_bull": at("Best-case tail (99th percentile)", 99),
		"extreme_bear": at("Worst-case tail (1st percentile)", 1),
	}
}

func riskMetrics(paths [][]float64, terminalReturns []float64, currentPrice float64, forecastDays int) models.RiskMetrics {
	metrics := models.RiskMetrics{
		VaR95:      analytics.Percentile(terminalReturns, 5),
		VaR99:      analytics.Percentile(terminalReturns, 1),
		HorizonVaR: make(map[string]float64),
	}
	metrics.CVaR95 = tailMean(terminalReturns, metrics.VaR95)
	metrics.CVaR99 = tailMean(terminalReturns, metrics.VaR99)

	for _, horizon := range varHorizons {
		if horizon >= forecastDays {
			continue
		}
		horizonReturns := make([]float64, len(paths))
		for i, path := range paths {
			horizonReturns[i] = (path[horizon]/currentPrice - 1) * 100
		}
		metrics.HorizonVaR[fmt.Sprintf("%dd_var_95", horizon)] = analytics.Percentile(horizonReturns, 5)
		metrics.HorizonVaR[fmt.Sprintf("%dd_var_99", horizon)] = analytics.Percentile(horizonReturns, 1)
	}

	sample := len(paths)
	if sample > maxDrawdownPaths {
		sample = maxDrawdownPaths
	}
	drawdowns := make([]float64, sample)
	for i := 0; i < sample; i++ {
		drawdowns[i] = analytics.MaxDrawdown(paths[i])
	}
	metrics.MeanMaxDrawdown = mean(drawdowns)
	metrics.MedianMaxDrawdown = analytics.Percentile(drawdowns, 50)
	metrics.P95MaxDrawdown = analytics.Percentile(drawdowns, 95)
	metrics.WorstDrawdown = maxOf(drawdowns)
	metrics.DrawdownSampleSize = sample

	return metrics
}

func probabilities(terminalReturns []float64) models.ProbabilityAnalysis {
	share := func(pred func(float64) bool) float64 {
		n := 0
		for _, r := range terminalReturns {
			if pred(r) {
				n++
			}
		}
		return float64(n) / float64(len(terminalReturns)) * 100
	}
	return models.ProbabilityAnalysis{
		ProbPositive:  share(func(r float64) bool { return r > 0 }),
		ProbNegative:  share(func(r float64) bool { return r < 0 }),
		ProbUp10Pct:   share(func(r float64) bool { return r > 10 }),
		ProbUp25Pct:   share(func(r float64) bool { return r > 25 }),
		ProbUp50Pct:   share(func(r float64) bool { return r > 50 }),
		ProbDouble:    share(func(r float64) bool { return r > 100 }),
		ProbDown10Pct: share(func(r float64) bool { return r < -10 }),
		ProbDown25Pct: share(func(r float64) bool { return r < -25 }),
		ProbDown50Pct: share(func(r float64) bool { return r < -50 }),
		ProbHalve:     share(func(r float64) bool { return r < -50 }),
	}
}

// returnBuckets are the histogram edges for the terminal-return
// distribution, in percent.
var returnBuckets = []struct {
	label string
	lo    float64
	hi    float64
}{
	{"< -50%", math.Inf(-1), -50},
	{"-50% to -25%", -50, -25},
	{"-25% to -10%", -25, -10},
	{"-10% to 0%", -10, 0},
	{"0% to +10%", 0, 10},
	{"+10% to +25%", 10, 25},
	{"+25% to +50%", 25, 50},
	{"+50% to +100%", 50, 100},
	{"> +100%", 100, math.Inf(1)},
}

// returnDistribution buckets the simulated terminal returns. The skew field
// reports the shape of the historical daily returns, not the simulated ones.
func returnDistribution(terminalReturns, historicalReturns []float64) models.ReturnDistribution {
	dist := models.ReturnDistribution{
		Distribution: distribution(terminalReturns),
		Skew:         skewness(historicalReturns),
	}
	for _, bucket := range returnBuckets {
		n := 0
		for _, r := range terminalReturns {
			if r >= bucket.lo && r < bucket.hi {
				n++
			}
		}
		dist.Buckets = append(dist.Buckets, models.ReturnBucket{
			Label: bucket.label,
			Pct:   float64(n) / float64(len(terminalReturns)) * 100,
		})
	}
	return dist
}

func finalDistribution(terminalPrices, terminalReturns []float64) models.FinalDistribution {
	probs := probabilities(terminalReturns)
	return models.FinalDistribution{
		Distribution: distribution(terminalPrices),
		ProbPositive: probs.ProbPositive,
		ProbDouble:   probs.ProbDouble,
		ProbHalve:    probs.ProbHalve,
	}
}

func distribution(values []float64) models.Distribution {
	return models.Distribution{
		Mean: mean(values),
		Std:  stdDev(values),
		Min:  minOf(values),
		Max:  maxOf(values),
		P1:   analytics.Percentile(values, 1),
		P5:   analytics.Percentile(values, 5),
		P10:  analytics.Percentile(values, 10),
		P25:  analytics.Percentile(values, 25),
		P50:  analytics.Percentile(values, 50),
		P75:  analytics.Percentile(values, 75),
		P90:  analytics.Percentile(values, 90),
		P95:  analytics.Percentile(values, 95),
		P99:  analytics.Percentile(values, 99),
	}
}

// samplePaths picks numSamplePaths paths spread evenly across the matrix
// so the chart shows the whole seed order, not just the first paths.
func samplePaths(paths [][]float64) [][]float64 {
	if len(paths) <= numSamplePaths {
		out := make([][]float64, len(paths))
		copy(out, paths)
		return out
	}
	out := make([][]float64, numSamplePaths)
	for i := 0; i < numSamplePaths; i++ {
		idx := i * (len(paths) - 1) / (numSamplePaths - 1)
		out[i] = paths[idx]
	}
	return out
}

func tailMean(values []float64, threshold float64) float64 {
	var tail []float64
	for _, v := range values {
		if v <= threshold {
			tail = append(tail, v)
		}
	}
	if len(tail) == 0 {
		return threshold
	}
	return mean(tail)
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

func stdDev(values []float64) float64 {
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

func skewness(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	m := mean(values)
	sd := stdDev(values)
	if sd == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		d := (v - m) / sd
		sum += d * d * d
	}
	return sum / float64(len(values))
}

// kurtosis is non-excess: a Normal distribution scores 3. Zero-variance
// input defaults to 3 rather than blowing up.
func kurtosis(values []float64) float64 {
	if len(values) < 2 {
		return 3.0
	}
	m := mean(values)
	sd := stdDev(values)
	if sd == 0 {
		return 3.0
	}
	sum := 0.0
	for _, v := range values {
		d := (v - m) / sd
		sum += d * d * d * d
	}
	return sum / float64(len(values))
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
