package models

import (
	"fmt"
	"sort"
	"strings"
)

// AssetRef identifies an asset by its declared type and ticker.
// Types mirror the upstream fetchers: crypto, stock, commodity, forex,
// index, treasury, macro.
type AssetRef struct {
	Type   string `json:"type" validate:"required,oneof=crypto stock commodity forex index treasury macro"`
	Ticker string `json:"ticker" validate:"required"`
}

// ID returns the canonical asset identifier used as a series key.
func (a AssetRef) ID() string {
	return a.Type + ":" + a.Ticker
}

func (a AssetRef) String() string {
	return a.ID()
}

// PricePoint is one observation in a price series. Dates are ISO-8601
// strings (YYYY-MM-DD), so lexicographic order equals chronological order.
type PricePoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// History is the canonical record shape every provider produces. The
// analytics core never sees provider-specific field names.
type History struct {
	Ticker string       `json:"ticker"`
	Source string       `json:"source,omitempty"`
	Points []PricePoint `json:"data"`
}

// Series is an ordered price series for one asset. Duplicate dates are
// collapsed last-write-wins when the series is built from raw points.
type Series struct {
	AssetID string
	Points  []PricePoint
}

// NewSeries builds a Series from raw points: drops non-positive prices,
// collapses duplicate dates (last write wins) and sorts ascending by date.
func NewSeries(assetID string, points []PricePoint) Series {
	byDate := make(map[string]float64, len(points))
	for _, p := range points {
		if p.Date == "" || p.Close <= 0 {
			continue
		}
		byDate[p.Date] = p.Close
	}

	out := make([]PricePoint, 0, len(byDate))
	for date, close := range byDate {
		out = append(out, PricePoint{Date: date, Close: close})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	return Series{AssetID: assetID, Points: out}
}

// Prices returns the close prices in date order.
func (s Series) Prices() []float64 {
	prices := make([]float64, len(s.Points))
	for i, p := range s.Points {
		prices[i] = p.Close
	}
	return prices
}

// Dates returns the observation dates in order.
func (s Series) Dates() []string {
	dates := make([]string, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// AlignedFrame holds several price series merged onto one ascending date
// axis. Column values are nil before an asset's first observation and
// forward-filled afterwards. Every column has len(Dates) entries.
type AlignedFrame struct {
	Dates   []string              `json:"dates"`
	Columns map[string][]*float64 `json:"columns"`
	Order   []string              `json:"order"`
}

// Column returns the aligned column for an asset id, or nil if absent.
func (f *AlignedFrame) Column(assetID string) []*float64 {
	return f.Columns[assetID]
}

// ValidCount reports how many non-nil values a column holds.
func (f *AlignedFrame) ValidCount(assetID string) int {
	n := 0
	for _, v := range f.Columns[assetID] {
		if v != nil {
			n++
		}
	}
	return n
}

// Fingerprint builds a deterministic cache key component for a set of
// assets and a period. Asset order is preserved: request order matters for
// benchmark selection, so it is part of the identity.
func Fingerprint(op string, assets []AssetRef, period, version string) string {
	ids := make([]string, len(assets))
	for i, a := range assets {
		ids[i] = a.ID()
	}
	return fmt.Sprintf("%s:%s:%s:%s", op, strings.Join(ids, "-"), period, version)
}
