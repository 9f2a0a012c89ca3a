package analytics

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"stonks-api/internal/models"
)

const (
	// rollingWindow sizes every trailing-window statistic on the chart.
	rollingWindow = 20
	// maxConcurrentLoads bounds the parallel history fetches per request.
	maxConcurrentLoads = 5
)

// SeriesLoader provides price series for one asset over a named period.
type SeriesLoader interface {
	LoadSeries(ctx context.Context, asset models.AssetRef, period string) (models.Series, error)
}

// Comparator aligns several assets onto one date axis and computes the full
// comparison panel: normalized chart, per-asset statistics and trend lines,
// correlation matrix and rolling correlations for every asset pair.
type Comparator struct {
	loader SeriesLoader
	logger *logrus.Logger
}

func NewComparator(loader SeriesLoader, logger *logrus.Logger) *Comparator {
	return &Comparator{loader: loader, logger: logger}
}

// Compare runs the multi-asset analysis. Assets whose history cannot be
// loaded are dropped with a warning; at least two assets must survive with
// data. When the first requested asset is an index its returns serve as the
// benchmark for every beta and alpha in the panel.
func (c *Comparator) Compare(ctx context.Context, assets []models.AssetRef, period string) (*models.ComparisonReport, error) {
	if len(assets) < 2 {
		return nil, fmt.Errorf("comparison requires at least 2 assets, got %d", len(assets))
	}

	series := c.loadAll(ctx, assets, period)

	loaded := make([]models.Series, 0, len(series))
	for i, s := range series {
		if len(s.Points) == 0 {
			c.logger.WithFields(logrus.Fields{
				"asset":  assets[i].ID(),
				"period": period,
			}).Warn("No usable history, dropping asset from comparison")
			continue
		}
		loaded = append(loaded, s)
	}
	if len(loaded) < 2 {
		return nil, fmt.Errorf("insufficient data: only %d of %d assets returned history", len(loaded), len(assets))
	}

	frame := Align(loaded)
	if len(frame.Dates) == 0 {
		return nil, fmt.Errorf("no overlapping dates across requested assets")
	}

	// Benchmark returns come from the lead asset when it is an index.
	// Request order decides this, which is why callers must not reorder.
	var benchmarkReturns []float64
	if assets[0].Type == "index" {
		leadID := assets[0].ID()
		if col := frame.Column(leadID); col != nil {
			benchmarkReturns = Returns(col)
		}
	}

	report := &models.ComparisonReport{
		Period:              period,
		DataPoints:          len(frame.Dates),
		Tickers:             frame.Order,
		Dates:               frame.Dates,
		Statistics:          make(map[string]models.StatisticsReport, len(loaded)),
		RollingCorrelations: make(map[string][]*float64),
		TrendLines:          make(map[string]models.TrendLines, len(loaded)),
		AlignedPrices:       frame.Columns,
	}

	returnsByID := make(map[string][]float64, len(loaded))
	for _, id := range frame.Order {
		col := frame.Column(id)
		returnsByID[id] = Returns(col)

		if stats, ok := Statistics(col, returnsByID[id], benchmarkReturns); ok {
			report.Statistics[id] = stats
		}
		report.TrendLines[id] = DetectTrendLines(frame.Dates, col)
	}

	report.CorrelationLabels = frame.Order
	report.CorrelationMatrix = correlationMatrix(frame.Order, returnsByID)

	for i, idA := range frame.Order {
		for _, idB := range frame.Order[i+1:] {
			key := fmt.Sprintf("%s_vs_%s", idA, idB)
			report.RollingCorrelations[key] = RollingCorrelation(returnsByID[idA], returnsByID[idB], rollingWindow)
		}
	}

	report.ChartData = buildChart(frame, returnsByID, report.RollingCorrelations)
	return report, nil
}

// loadAll fetches every asset's history with bounded concurrency. Failed
// loads produce empty series; the caller decides whether enough survived.
func (c *Comparator) loadAll(ctx context.Context, assets []models.AssetRef, period string) []models.Series {
	series := make([]models.Series, len(assets))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentLoads)

	for i, asset := range assets {
		wg.Add(1)
		go func(i int, asset models.AssetRef) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			s, err := c.loader.LoadSeries(ctx, asset, period)
			if err != nil {
				c.logger.WithError(err).WithField("asset", asset.ID()).Warn("Failed to load history")
				series[i] = models.Series{AssetID: asset.ID()}
				return
			}
			series[i] = s
		}(i, asset)
	}
	wg.Wait()

	return series
}

// correlationMatrix computes the upper triangle and mirrors it. The
// diagonal is pinned to exactly 1.0 rather than recomputed.
func correlationMatrix(order []string, returnsByID map[string][]float64) [][]float64 {
	n := len(order)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1.0
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			corr := Correlation(returnsByID[order[i]], returnsByID[order[j]])
			matrix[i][j] = corr
			matrix[j][i] = corr
		}
	}
	return matrix
}

// buildChart produces the per-date payload: prices normalized to 100 at
// each asset's first valid observation, raw prices, drawdowns and trailing
// statistics. Assets without an observation yet are absent from early
// points.
func buildChart(frame *models.AlignedFrame, returnsByID map[string][]float64, rollingCorrs map[string][]*float64) []models.ChartPoint {
	type assetView struct {
		id       string
		column   []*float64
		base     float64
		drawdown []float64
		rolling  models.RollingStats
	}

	views := make([]assetView, 0, len(frame.Order))
	for _, id := range frame.Order {
		col := frame.Column(id)
		view := assetView{
			id:       id,
			column:   col,
			drawdown: DrawdownSeries(col),
			rolling:  Rolling(col, rollingWindow),
		}
		for _, p := range col {
			if p != nil && *p > 0 {
				view.base = *p
				break
			}
		}
		views = append(views, view)
	}

	chart := make([]models.ChartPoint, len(frame.Dates))
	for i, date := range frame.Dates {
		point := models.ChartPoint{
			Date:   date,
			Assets: make(map[string]models.AssetChartValue),
		}

		for _, v := range views {
			p := v.column[i]
			if p == nil || v.base <= 0 {
				continue
			}
			value := models.AssetChartValue{
				Normalized: *p / v.base * 100,
				Raw:        *p,
				Drawdown:   v.drawdown[i],
			}
			// Rolling series align with returns, one shorter than prices.
			if i > 0 && i-1 < len(v.rolling.Volatility) {
				value.RollingVol = v.rolling.Volatility[i-1]
				value.RollingMean = v.rolling.Mean[i-1]
			}
			point.Assets[v.id] = value
		}

		for id, corrs := range rollingCorrs {
			if i > 0 && i-1 < len(corrs) && corrs[i-1] != nil {
				if point.Correlations == nil {
					point.Correlations = make(map[string]*float64)
				}
				point.Correlations[id] = corrs[i-1]
			}
		}

		chart[i] = point
	}
	return chart
}
