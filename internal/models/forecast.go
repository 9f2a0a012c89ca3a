package models

// HistoricalSummary describes the lookback window a forecast was
// calibrated on.
type HistoricalSummary struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	StartPrice float64 `json:"start_price"`
	EndPrice   float64 `json:"end_price"`
	MinPrice   float64 `json:"min_price"`
	MaxPrice   float64 `json:"max_price"`
	MeanPrice  float64 `json:"mean_price"`
	DataPoints int     `json:"data_points"`
}

// ForecastParameters are the calibrated GBM inputs, reported as
// percentages where marked. Skewness and kurtosis describe the historical
// return distribution only; the simulation itself is Normal.
type ForecastParameters struct {
	CAGR                 float64 `json:"cagr"`
	AnnualizedReturn     float64 `json:"annualized_return"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	DailyDrift           float64 `json:"daily_drift"`
	DailyVolatility      float64 `json:"daily_volatility"`
	Skewness             float64 `json:"skewness"`
	Kurtosis             float64 `json:"kurtosis"`
}

// DayStats is the cross-path distribution of simulated prices on one day.
type DayStats struct {
	Day  int     `json:"day"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	P1   float64 `json:"p1"`
	P5   float64 `json:"p5"`
	P10  float64 `json:"p10"`
	P25  float64 `json:"p25"`
	P50  float64 `json:"p50"`
	P75  float64 `json:"p75"`
	P90  float64 `json:"p90"`
	P95  float64 `json:"p95"`
	P99  float64 `json:"p99"`
}

// Scenario maps one named outcome to a terminal percentile of the
// simulation.
type Scenario struct {
	Description string  `json:"description"`
	FinalPrice  float64 `json:"final_price"`
	ReturnPct   float64 `json:"return_pct"`
}

// RiskMetrics aggregates terminal and horizon VaR/CVaR plus simulated
// drawdown statistics. HorizonVaR is keyed like "63d_var_95".
type RiskMetrics struct {
	VaR95             float64            `json:"var_95"`
	VaR99             float64            `json:"var_99"`
	CVaR95            float64            `json:"cvar_95"`
	CVaR99            float64            `json:"cvar_99"`
	HorizonVaR        map[string]float64 `json:"horizon_var"`
	MeanMaxDrawdown   float64            `json:"mean_max_drawdown"`
	MedianMaxDrawdown float64            `json:"median_max_drawdown"`
	P95MaxDrawdown    float64            `json:"p95_max_drawdown"`
	WorstDrawdown     float64            `json:"worst_drawdown"`
	// Drawdown figures come from a bounded sample of paths, not the full
	// population.
	DrawdownSampleSize int `json:"drawdown_sample_size"`
}

// ProbabilityAnalysis is the chance (in percent of paths) of the listed
// terminal outcomes.
type ProbabilityAnalysis struct {
	ProbPositive  float64 `json:"prob_positive"`
	ProbNegative  float64 `json:"prob_negative"`
	ProbUp10Pct   float64 `json:"prob_up_10pct"`
	ProbUp25Pct   float64 `json:"prob_up_25pct"`
	ProbUp50Pct   float64 `json:"prob_up_50pct"`
	ProbDouble    float64 `json:"prob_double"`
	ProbDown10Pct float64 `json:"prob_down_10pct"`
	ProbDown25Pct float64 `json:"prob_down_25pct"`
	ProbDown50Pct float64 `json:"prob_down_50pct"`
	ProbHalve     float64 `json:"prob_halve"`
}

// ReturnBucket is one bar of the terminal-return histogram.
type ReturnBucket struct {
	Label string  `json:"label"`
	Pct   float64 `json:"pct"`
}

// Distribution summarizes the terminal distribution of a simulated
// quantity with fixed percentiles.
type Distribution struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`
	P1   float64 `json:"p1"`
	P5   float64 `json:"p5"`
	P10  float64 `json:"p10"`
	P25  float64 `json:"p25"`
	P50  float64 `json:"p50"`
	P75  float64 `json:"p75"`
	P90  float64 `json:"p90"`
	P95  float64 `json:"p95"`
	P99  float64 `json:"p99"`
}

// ReturnDistribution is the terminal-return distribution with its
// histogram buckets.
type ReturnDistribution struct {
	Distribution
	Skew    float64        `json:"skew"`
	Buckets []ReturnBucket `json:"buckets"`
}

// FinalDistribution is the terminal-price distribution with headline
// probabilities.
type FinalDistribution struct {
	Distribution
	ProbPositive float64 `json:"prob_positive"`
	ProbDouble   float64 `json:"prob_double"`
	ProbHalve    float64 `json:"prob_halve"`
}

// ForecastResult is the full Monte Carlo report for one asset. The path
// matrix itself stays inside the forecaster; only derived summaries and a
// fixed sample of paths leave it.
type ForecastResult struct {
	Ticker              string              `json:"ticker"`
	AssetType           string              `json:"asset_type"`
	CurrentPrice        float64             `json:"current_price"`
	LookbackPeriod      string              `json:"lookback_period"`
	ForecastDays        int                 `json:"forecast_days"`
	NumSimulations      int                 `json:"num_simulations"`
	Historical          HistoricalSummary   `json:"historical"`
	Parameters          ForecastParameters  `json:"parameters"`
	RiskMetrics         RiskMetrics         `json:"risk_metrics"`
	Scenarios           map[string]Scenario `json:"scenarios"`
	ProbabilityAnalysis ProbabilityAnalysis `json:"probability_analysis"`
	ReturnDistribution  ReturnDistribution  `json:"return_distribution"`
	ForecastStats       []DayStats          `json:"forecast_stats"`
	SamplePaths         [][]float64         `json:"sample_paths"`
	FinalDistribution   FinalDistribution   `json:"final_distribution"`
}
