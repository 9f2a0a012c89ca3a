// Package dto defines the request payloads of the analysis endpoints.
// Every request knows how to default, validate and key itself for the
// result cache.
package dto

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"stonks-api/internal/fetch"
	"stonks-api/internal/models"
)

// cacheVersion invalidates every cached result when response shapes
// change.
const cacheVersion = "v1"

var validate = validator.New()

// CompareRequest asks for a multi-asset comparison. Asset order is
// significant: the first asset is the benchmark candidate.
type CompareRequest struct {
	Assets []models.AssetRef `json:"assets" validate:"required,min=2,max=10,dive"`
	Period string            `json:"period" validate:"omitempty"`
}

func (r *CompareRequest) SetDefaults() {
	if r.Period == "" {
		r.Period = "1y"
	}
}

func (r *CompareRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid compare request: %w", err)
	}
	if !fetch.ValidPeriod(r.Period) {
		return fmt.Errorf("invalid period %q", r.Period)
	}
	return nil
}

func (r *CompareRequest) BuildCacheKey() string {
	return models.Fingerprint("compare", r.Assets, r.Period, cacheVersion)
}

// ForecastRequest asks for a Monte Carlo forecast of one asset.
type ForecastRequest struct {
	Asset        models.AssetRef `json:"asset" validate:"required"`
	Period       string          `json:"period" validate:"omitempty"`
	ForecastDays int             `json:"forecast_days" validate:"omitempty,min=1,max=504"`
	Simulations  int             `json:"simulations" validate:"omitempty,min=100,max=10000"`
}

func (r *ForecastRequest) SetDefaults() {
	if r.Period == "" {
		r.Period = "1y"
	}
	if r.ForecastDays == 0 {
		r.ForecastDays = 252
	}
	if r.Simulations == 0 {
		r.Simulations = 10000
	}
}

func (r *ForecastRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid forecast request: %w", err)
	}
	if !fetch.ValidPeriod(r.Period) {
		return fmt.Errorf("invalid period %q", r.Period)
	}
	return nil
}

func (r *ForecastRequest) BuildCacheKey() string {
	key := models.Fingerprint("forecast", []models.AssetRef{r.Asset}, r.Period, cacheVersion)
	return fmt.Sprintf("%s:%d:%d", key, r.ForecastDays, r.Simulations)
}

// InvestmentRequest asks for a DCA replay. At least one of the two
// amounts must be positive or there is nothing to simulate.
type InvestmentRequest struct {
	Asset           models.AssetRef  `json:"asset" validate:"required"`
	Period          string           `json:"period" validate:"omitempty"`
	Frequency       string           `json:"frequency" validate:"omitempty,oneof=once daily weekly monthly"`
	InitialAmount   float64          `json:"initial_amount" validate:"min=0"`
	RecurringAmount float64          `json:"recurring_amount" validate:"min=0"`
	Benchmark       *models.AssetRef `json:"benchmark,omitempty"`
}

func (r *InvestmentRequest) SetDefaults() {
	if r.Period == "" {
		r.Period = "1y"
	}
	if r.Frequency == "" {
		r.Frequency = "once"
	}
}

func (r *InvestmentRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid investment request: %w", err)
	}
	if !fetch.ValidPeriod(r.Period) {
		return fmt.Errorf("invalid period %q", r.Period)
	}
	if r.InitialAmount <= 0 && r.RecurringAmount <= 0 {
		return fmt.Errorf("at least one of initial_amount and recurring_amount must be positive")
	}
	return nil
}

func (r *InvestmentRequest) BuildCacheKey() string {
	assets := []models.AssetRef{r.Asset}
	if r.Benchmark != nil {
		assets = append(assets, *r.Benchmark)
	}
	key := models.Fingerprint("invest", assets, r.Period, cacheVersion)
	return fmt.Sprintf("%s:%s:%.2f:%.2f", key, r.Frequency, r.InitialAmount, r.RecurringAmount)
}

// SentimentRequest scores a batch of headlines or posts.
type SentimentRequest struct {
	Ticker string   `json:"ticker" validate:"omitempty,max=32"`
	Texts  []string `json:"texts" validate:"required,min=1,max=500,dive,max=2000"`
}

func (r *SentimentRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid sentiment request: %w", err)
	}
	return nil
}
