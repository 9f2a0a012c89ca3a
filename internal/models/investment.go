package models

// TimelineEntry is one per-date snapshot of the investment replay.
type TimelineEntry struct {
	Date           string   `json:"date"`
	Price          float64  `json:"price"`
	Shares         float64  `json:"shares"`
	Value          float64  `json:"value"`
	Invested       float64  `json:"invested"`
	InvestedToday  float64  `json:"invested_today"`
	Drawdown       float64  `json:"drawdown"`
	ProfitLoss     float64  `json:"profit_loss"`
	ReturnPct      float64  `json:"return_pct"`
	BenchmarkPrice *float64 `json:"benchmark_price,omitempty"`
	BenchmarkValue *float64 `json:"benchmark_value,omitempty"`
}

// InvestmentSummary describes the purchase schedule that was replayed.
type InvestmentSummary struct {
	InitialAmount   float64 `json:"initial_amount"`
	RecurringAmount float64 `json:"recurring_amount"`
	TotalInvested   float64 `json:"total_invested"`
	NumPurchases    int     `json:"num_purchases"`
	SharesBought    float64 `json:"shares_bought"`
	AvgCostBasis    float64 `json:"avg_cost_basis"`
}

// InvestmentResults are the headline outcome figures.
type InvestmentResults struct {
	FinalValue     float64 `json:"final_value"`
	TotalReturn    float64 `json:"total_return"`
	TotalReturnPct float64 `json:"total_return_pct"`
	CAGR           float64 `json:"cagr"`
}

// InvestmentRisk carries the portfolio-level risk figures derived from the
// replayed value series.
type InvestmentRisk struct {
	Volatility  float64 `json:"volatility"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	MaxDrawdown float64 `json:"max_drawdown"`
}

// BuyHoldComparison contrasts the schedule with investing the same total
// on day one.
type BuyHoldComparison struct {
	BuyHoldReturnPct  float64 `json:"buy_hold_return_pct"`
	BuyHoldFinalValue float64 `json:"buy_hold_final_value"`
	DCAAdvantage      float64 `json:"dca_advantage"`
}

// BenchmarkComparison replays the same contribution schedule against a
// benchmark series. Nil in the report when the benchmark could not be
// fetched; benchmark failure never fails the simulation.
type BenchmarkComparison struct {
	BenchmarkTicker         string  `json:"benchmark_ticker"`
	BenchmarkStartPrice     float64 `json:"benchmark_start_price"`
	BenchmarkEndPrice       float64 `json:"benchmark_end_price"`
	BenchmarkPriceChangePct float64 `json:"benchmark_price_change_pct"`
	BenchmarkFinalValue     float64 `json:"benchmark_final_value"`
	BenchmarkReturnPct      float64 `json:"benchmark_return_pct"`
	ExcessReturn            float64 `json:"excess_return"`
	Outperformed            bool    `json:"outperformed"`
}

// MonthlyReturn is the portfolio return over one calendar month.
type MonthlyReturn struct {
	Month     string  `json:"month"`
	ReturnPct float64 `json:"return_pct"`
}

// MonthlyAnalysis buckets the replay by calendar month.
type MonthlyAnalysis struct {
	TotalMonths      int            `json:"total_months"`
	WinningMonths    int            `json:"winning_months"`
	LosingMonths     int            `json:"losing_months"`
	WinRate          float64        `json:"win_rate"`
	BestMonth        *MonthlyReturn `json:"best_month"`
	WorstMonth       *MonthlyReturn `json:"worst_month"`
	AvgMonthlyReturn float64        `json:"avg_monthly_return"`
}

// InvestmentReport is the full DCA simulation result.
type InvestmentReport struct {
	Ticker              string               `json:"ticker"`
	AssetType           string               `json:"asset_type"`
	Period              string               `json:"period"`
	Frequency           string               `json:"frequency"`
	StartDate           string               `json:"start_date"`
	EndDate             string               `json:"end_date"`
	StartPrice          float64              `json:"start_price"`
	EndPrice            float64              `json:"end_price"`
	PriceChangePct      float64              `json:"price_change_pct"`
	Investment          InvestmentSummary    `json:"investment"`
	Results             InvestmentResults    `json:"results"`
	RiskMetrics         InvestmentRisk       `json:"risk_metrics"`
	Comparison          BuyHoldComparison    `json:"comparison"`
	BenchmarkComparison *BenchmarkComparison `json:"benchmark_comparison,omitempty"`
	MonthlyAnalysis     MonthlyAnalysis      `json:"monthly_analysis"`
	Timeline            []TimelineEntry      `json:"timeline"`
}
