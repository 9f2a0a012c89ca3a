// Package invest replays dollar-cost-averaging schedules over historical
// prices.
package invest

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"stonks-api/internal/analytics"
	"stonks-api/internal/models"
)

const (
	tradingDays = 252
	// minHistoryPoints is the least history a replay accepts.
	minHistoryPoints = 5
)

// Simulator replays a contribution schedule against an asset's history and
// reports the outcome against lump-sum and benchmark alternatives.
type Simulator struct {
	loader analytics.SeriesLoader
	logger *logrus.Logger
}

func NewSimulator(loader analytics.SeriesLoader, logger *logrus.Logger) *Simulator {
	return &Simulator{loader: loader, logger: logger}
}

// Simulate runs the replay. The initial amount is invested on the first
// trading date; with frequency "once" nothing else is ever bought, while
// the other frequencies add the recurring amount on each later date that
// opens a new period. A benchmark, when given, is compared best-effort:
// failures are logged and the report ships without the comparison rather
// than failing the simulation.
func (s *Simulator) Simulate(ctx context.Context, asset models.AssetRef, period, frequency string, initialAmount, recurringAmount float64, benchmark *models.AssetRef) (*models.InvestmentReport, error) {
	series, err := s.loader.LoadSeries(ctx, asset, period)
	if err != nil {
		return nil, fmt.Errorf("loading history for %s: %w", asset.ID(), err)
	}
	if len(series.Points) < minHistoryPoints {
		return nil, fmt.Errorf("insufficient history for %s: %d points, need %d", asset.ID(), len(series.Points), minHistoryPoints)
	}

	var benchSeries *models.Series
	if benchmark != nil {
		b, err := s.loader.LoadSeries(ctx, *benchmark, period)
		if err != nil || len(b.Points) == 0 {
			s.logger.WithField("benchmark", benchmark.ID()).Warn("Benchmark history unavailable, skipping comparison")
		} else {
			benchSeries = &b
		}
	}

	report := replay(series, frequency, initialAmount, recurringAmount, benchSeries)
	report.Ticker = asset.Ticker
	report.AssetType = asset.Type
	report.Period = period
	if report.BenchmarkComparison != nil && benchmark != nil {
		report.BenchmarkComparison.BenchmarkTicker = benchmark.Ticker
	}
	return report, nil
}

func replay(series models.Series, frequency string, initialAmount, recurringAmount float64, benchSeries *models.Series) *models.InvestmentReport {
	points := series.Points
	startPrice := points[0].Close
	endPrice := points[len(points)-1].Close

	var benchPrices map[string]float64
	if benchSeries != nil {
		benchPrices = make(map[string]float64, len(benchSeries.Points))
		for _, p := range benchSeries.Points {
			benchPrices[p.Date] = p.Close
		}
	}

	var (
		shares        float64
		invested      float64
		purchases     int
		benchShares   float64
		lastBench     float64
		benchStart    float64
		peak          float64
		timeline      = make([]models.TimelineEntry, 0, len(points))
		values        = make([]float64, 0, len(points))
		lastPeriodKey string
	)

	monthly := newMonthlyTracker()

	for i, p := range points {
		contribution := 0.0
		if i == 0 {
			// The period tracker stays empty here, so the next trading
			// date starts a new period even inside the start week or month.
			contribution = initialAmount
		} else if recurringAmount > 0 && frequency != "once" {
			key := periodKey(p.Date, frequency)
			if key != lastPeriodKey {
				contribution = recurringAmount
				lastPeriodKey = key
			}
		}

		if contribution > 0 {
			shares += contribution / p.Close
			invested += contribution
			purchases++
		}

		value := shares * p.Close
		values = append(values, value)

		if value > peak {
			peak = value
		}
		drawdown := 0.0
		if peak > 0 {
			drawdown = (peak - value) / peak * 100
		}

		entry := models.TimelineEntry{
			Date:          p.Date,
			Price:         p.Close,
			Shares:        shares,
			Value:         value,
			Invested:      invested,
			InvestedToday: contribution,
			Drawdown:      drawdown,
			ProfitLoss:    value - invested,
		}
		if invested > 0 {
			entry.ReturnPct = (value/invested - 1) * 100
		}

		if benchPrices != nil {
			if bp, ok := benchPrices[p.Date]; ok {
				lastBench = bp
			}
			if i == 0 {
				benchStart = lastBench
			}
			if lastBench > 0 {
				if contribution > 0 {
					benchShares += contribution / lastBench
				}
				bPrice, bValue := lastBench, benchShares*lastBench
				entry.BenchmarkPrice = &bPrice
				entry.BenchmarkValue = &bValue
			}
		}

		timeline = append(timeline, entry)
		monthly.observe(p.Date, value)
	}

	finalValue := shares * endPrice
	report := &models.InvestmentReport{
		Frequency:      frequency,
		StartDate:      points[0].Date,
		EndDate:        points[len(points)-1].Date,
		StartPrice:     startPrice,
		EndPrice:       endPrice,
		PriceChangePct: (endPrice/startPrice - 1) * 100,
		Investment: models.InvestmentSummary{
			InitialAmount:   initialAmount,
			RecurringAmount: recurringAmount,
			TotalInvested:   invested,
			NumPurchases:    purchases,
			SharesBought:    shares,
		},
		Results: models.InvestmentResults{
			FinalValue:  finalValue,
			TotalReturn: finalValue - invested,
		},
		MonthlyAnalysis: monthly.analysis(),
		Timeline:        timeline,
	}
	if shares > 0 {
		report.Investment.AvgCostBasis = invested / shares
	}
	if invested > 0 {
		report.Results.TotalReturnPct = (finalValue/invested - 1) * 100
		years := float64(len(points)) / tradingDays
		if years > 0 && finalValue > 0 {
			report.Results.CAGR = (math.Pow(finalValue/invested, 1/years) - 1) * 100
		}
	}

	report.RiskMetrics = portfolioRisk(values)
	report.Comparison = buyHold(invested, startPrice, endPrice, report.Results.TotalReturnPct)

	if benchSeries != nil && benchShares > 0 && benchStart > 0 && lastBench > 0 {
		report.BenchmarkComparison = benchmarkComparison(benchStart, lastBench, benchShares, invested, report.Results.TotalReturnPct)
	}

	return report
}

// periodKey buckets a date by contribution frequency. A contribution fires
// on the first trading date of each new bucket.
func periodKey(date, frequency string) string {
	switch frequency {
	case "weekly":
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			return date
		}
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case "monthly":
		if len(date) >= 7 {
			return date[:7]
		}
		return date
	default: // daily
		return date
	}
}

// portfolioRisk derives volatility, Sharpe and max drawdown from the
// portfolio value series itself rather than the asset's prices: the
// contribution schedule changes the risk profile.
func portfolioRisk(values []float64) models.InvestmentRisk {
	var positive []float64
	for _, v := range values {
		if v > 0 {
			positive = append(positive, v)
		}
	}

	returns := analytics.ReturnsDense(positive)
	vol := analytics.Volatility(returns, true)

	risk := models.InvestmentRisk{
		Volatility:  vol * 100,
		MaxDrawdown: analytics.MaxDrawdown(positive),
	}
	if vol > 0 && len(returns) > 0 {
		meanReturn := 0.0
		for _, r := range returns {
			meanReturn += r
		}
		meanReturn /= float64(len(returns))
		risk.SharpeRatio = meanReturn * tradingDays / vol
	}
	return risk
}

func buyHold(invested, startPrice, endPrice, dcaReturnPct float64) models.BuyHoldComparison {
	cmp := models.BuyHoldComparison{
		BuyHoldReturnPct: (endPrice/startPrice - 1) * 100,
	}
	if startPrice > 0 {
		cmp.BuyHoldFinalValue = invested / startPrice * endPrice
	}
	cmp.DCAAdvantage = dcaReturnPct - cmp.BuyHoldReturnPct
	return cmp
}

// benchmarkComparison works from the benchmark prices in effect on the
// asset's first and last trading dates, not the benchmark series' own
// endpoints: the benchmark calendar can be wider than the asset's.
func benchmarkComparison(benchStart, benchEnd, benchShares, invested, dcaReturnPct float64) *models.BenchmarkComparison {
	finalValue := benchShares * benchEnd

	cmp := &models.BenchmarkComparison{
		BenchmarkStartPrice:     benchStart,
		BenchmarkEndPrice:       benchEnd,
		BenchmarkPriceChangePct: (benchEnd/benchStart - 1) * 100,
		BenchmarkFinalValue:     finalValue,
	}
	if invested > 0 {
		cmp.BenchmarkReturnPct = (finalValue/invested - 1) * 100
	}
	cmp.ExcessReturn = dcaReturnPct - cmp.BenchmarkReturnPct
	cmp.Outperformed = cmp.ExcessReturn > 0
	return cmp
}

// monthlyTracker closes a month when the first date of the next month
// arrives. The trailing partial month is never closed, matching how a
// still-running month has no final value yet.
type monthlyTracker struct {
	currentMonth string
	monthStart   float64
	lastValue    float64
	returns      []models.MonthlyReturn
}

func newMonthlyTracker() *monthlyTracker {
	return &monthlyTracker{}
}

func (m *monthlyTracker) observe(date string, value float64) {
	month := date
	if len(date) >= 7 {
		month = date[:7]
	}

	if month != m.currentMonth {
		m.close()
		m.currentMonth = month
		m.monthStart = value
	}
	m.lastValue = value
}

func (m *monthlyTracker) close() {
	if m.currentMonth == "" || m.monthStart <= 0 {
		return
	}
	m.returns = append(m.returns, models.MonthlyReturn{
		Month:     m.currentMonth,
		ReturnPct: (m.lastValue/m.monthStart - 1) * 100,
	})
}

func (m *monthlyTracker) analysis() models.MonthlyAnalysis {
	analysis := models.MonthlyAnalysis{TotalMonths: len(m.returns)}
	if len(m.returns) == 0 {
		return analysis
	}

	sum := 0.0
	best, worst := m.returns[0], m.returns[0]
	for _, r := range m.returns {
		sum += r.ReturnPct
		if r.ReturnPct > 0 {
			analysis.WinningMonths++
		} else if r.ReturnPct < 0 {
			analysis.LosingMonths++
		}
		if r.ReturnPct > best.ReturnPct {
			best = r
		}
		if r.ReturnPct < worst.ReturnPct {
			worst = r
		}
	}

	analysis.WinRate = float64(analysis.WinningMonths) / float64(len(m.returns)) * 100
	analysis.AvgMonthlyReturn = sum / float64(len(m.returns))
	b, w := best, worst
	analysis.BestMonth = &b
	analysis.WorstMonth = &w
	return analysis
}
