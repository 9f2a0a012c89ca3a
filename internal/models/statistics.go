package models

// StatisticsReport is the per-asset metrics panel computed for every
// comparison request. Percentage fields are pre-multiplied by 100; beta and
// the ratios are unitless.
type StatisticsReport struct {
	CurrentPrice float64 `json:"current_price"`
	StartPrice   float64 `json:"start_price"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	MeanPrice    float64 `json:"mean_price"`
	TotalReturn  float64 `json:"total_return"`
	Volatility   float64 `json:"volatility"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
	SortinoRatio float64 `json:"sortino_ratio"`
	VaR95        float64 `json:"var_95"`
	CVaR95       float64 `json:"cvar_95"`
	Beta         float64 `json:"beta"`
	Alpha        float64 `json:"alpha"`
	MaxDrawdown  float64 `json:"max_drawdown"`
}

// TrendPoint anchors a trend line on an observation.
type TrendPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
	Index int     `json:"index"`
}

// TrendSegment is one extrapolated endpoint of a trend line.
type TrendSegment struct {
	Index int     `json:"index"`
	Price float64 `json:"price"`
}

// TrendExtent carries the line endpoints over the whole visible range.
type TrendExtent struct {
	Start TrendSegment `json:"start"`
	End   TrendSegment `json:"end"`
}

// TrendLine is a support or resistance line fitted through two extrema.
type TrendLine struct {
	Point1   TrendPoint  `json:"point1"`
	Point2   TrendPoint  `json:"point2"`
	Slope    float64     `json:"slope"`
	Extended TrendExtent `json:"extended"`
}

// TrendLines bundles the detected support and resistance lines. Either can
// be nil when no qualifying pair of extrema exists.
type TrendLines struct {
	Support    *TrendLine `json:"support"`
	Resistance *TrendLine `json:"resistance"`
}

// RollingStats holds trailing-window statistics aligned to the return
// series (one element shorter than prices). Entries are nil until a full
// window is available.
type RollingStats struct {
	Volatility []*float64 `json:"rolling_volatility"`
	Mean       []*float64 `json:"rolling_mean"`
}

// AssetChartValue is one asset's slice of a chart point.
type AssetChartValue struct {
	Normalized  float64  `json:"normalized"`
	Raw         float64  `json:"raw"`
	Drawdown    float64  `json:"drawdown"`
	RollingVol  *float64 `json:"rolling_vol,omitempty"`
	RollingMean *float64 `json:"rolling_mean,omitempty"`
}

// ChartPoint is one date on the normalized comparison chart.
type ChartPoint struct {
	Date         string                     `json:"date"`
	Assets       map[string]AssetChartValue `json:"assets"`
	Correlations map[string]*float64        `json:"correlations,omitempty"`
}

// ComparisonReport is the full multi-asset analysis result.
type ComparisonReport struct {
	Period              string                      `json:"period"`
	DataPoints          int                         `json:"data_points"`
	Tickers             []string                    `json:"tickers"`
	Dates               []string                    `json:"dates"`
	ChartData           []ChartPoint                `json:"chart_data"`
	Statistics          map[string]StatisticsReport `json:"statistics"`
	CorrelationMatrix   [][]float64                 `json:"correlation_matrix"`
	CorrelationLabels   []string                    `json:"correlation_labels"`
	RollingCorrelations map[string][]*float64       `json:"rolling_correlations"`
	TrendLines          map[string]TrendLines       `json:"trend_lines"`
	AlignedPrices       map[string][]*float64       `json:"aligned_prices"`
}
