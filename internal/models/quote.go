package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a current snapshot for one asset as delivered by a provider.
// Money fields stay decimal at this boundary; the analytics core works on
// float64 history only.
type Quote struct {
	Ticker           string          `json:"ticker"`
	Name             string          `json:"name"`
	AssetType        string          `json:"asset_type"`
	Source           string          `json:"source"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	PreviousClose    decimal.Decimal `json:"previous_close"`
	PriceChange      decimal.Decimal `json:"price_change"`
	PriceChangePct   decimal.Decimal `json:"price_change_percent"`
	DayHigh          decimal.Decimal `json:"day_high,omitempty"`
	DayLow           decimal.Decimal `json:"day_low,omitempty"`
	Volume           decimal.Decimal `json:"volume,omitempty"`
	MarketCap        decimal.Decimal `json:"market_cap,omitempty"`
	Currency         string          `json:"currency"`
	Exchange         string          `json:"exchange,omitempty"`
	Timestamp        time.Time       `json:"timestamp"`
}

// WithChange fills the derived change fields from current and previous
// close when both are set.
func (q *Quote) WithChange() *Quote {
	if q.CurrentPrice.IsZero() || q.PreviousClose.IsZero() {
		return q
	}
	q.PriceChange = q.CurrentPrice.Sub(q.PreviousClose)
	q.PriceChangePct = q.PriceChange.Div(q.PreviousClose).Mul(decimal.NewFromInt(100))
	return q
}
