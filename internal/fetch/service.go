// Package fetch routes history and quote requests to the right upstream
// provider and caches fetched histories.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"stonks-api/internal/cache"
	"stonks-api/internal/models"
)

// periodDays translates lookback period names to calendar days for
// providers that take day counts instead of range strings.
var periodDays = map[string]int{
	"1mo": 30,
	"3mo": 90,
	"6mo": 180,
	"1y":  365,
	"2y":  730,
	"5y":  1825,
}

// PeriodDays resolves a period name, defaulting to one year.
func PeriodDays(period string) int {
	if days, ok := periodDays[period]; ok {
		return days
	}
	return 365
}

// ValidPeriod reports whether the period name is one the API accepts.
func ValidPeriod(period string) bool {
	_, ok := periodDays[period]
	return ok
}

// CryptoProvider serves crypto assets (CoinGecko).
type CryptoProvider interface {
	FetchHistory(ctx context.Context, ticker string, days int) (*models.History, error)
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)
}

// MarketProvider serves everything Yahoo lists: stocks, commodities,
// forex, indices and treasuries.
type MarketProvider interface {
	FetchHistory(ctx context.Context, assetType, ticker, period string) (*models.History, error)
	GetQuote(ctx context.Context, assetType, ticker string) (*models.Quote, error)
}

// MacroProvider serves macroeconomic series (FRED).
type MacroProvider interface {
	FetchHistory(ctx context.Context, ticker string) (*models.History, error)
}

// Service is the single entry point the analytics layer uses to obtain
// price data. Histories are cached as JSON blobs; quotes are not cached
// here because their TTL policy belongs to the handler.
type Service struct {
	crypto CryptoProvider
	market MarketProvider
	macro  MacroProvider
	cache  cache.Cache
	ttl    time.Duration
	logger *logrus.Logger
}

func NewService(crypto CryptoProvider, market MarketProvider, macro MacroProvider, c cache.Cache, ttl time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		crypto: crypto,
		market: market,
		macro:  macro,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// FetchHistory returns the raw provider history for an asset, serving from
// cache when possible.
func (s *Service) FetchHistory(ctx context.Context, asset models.AssetRef, period string) (*models.History, error) {
	key := models.Fingerprint("hist", []models.AssetRef{asset}, period, "v1")

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var history models.History
		if err := json.Unmarshal(cached, &history); err == nil {
			return &history, nil
		}
		// Unreadable entries are dropped so the next write can heal them.
		_ = s.cache.Del(ctx, key)
	}

	history, err := s.fetchUpstream(ctx, asset, period)
	if err != nil {
		return nil, err
	}

	if blob, err := json.Marshal(history); err == nil {
		if err := s.cache.Set(ctx, key, blob, s.ttl); err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("Failed to cache history")
		}
	}
	return history, nil
}

// LoadSeries satisfies analytics.SeriesLoader: it fetches the history and
// normalizes it into an ordered series keyed by the asset id.
func (s *Service) LoadSeries(ctx context.Context, asset models.AssetRef, period string) (models.Series, error) {
	history, err := s.FetchHistory(ctx, asset, period)
	if err != nil {
		return models.Series{}, err
	}
	return models.NewSeries(asset.ID(), history.Points), nil
}

// GetQuote returns a current snapshot. Macro series have no quote
// endpoint upstream, so the latest two observations serve as one.
func (s *Service) GetQuote(ctx context.Context, asset models.AssetRef) (*models.Quote, error) {
	switch asset.Type {
	case "crypto":
		return s.crypto.GetQuote(ctx, asset.Ticker)
	case "macro":
		return s.macroQuote(ctx, asset)
	default:
		return s.market.GetQuote(ctx, asset.Type, asset.Ticker)
	}
}

func (s *Service) fetchUpstream(ctx context.Context, asset models.AssetRef, period string) (*models.History, error) {
	s.logger.WithFields(logrus.Fields{
		"asset":  asset.ID(),
		"period": period,
	}).Debug("Fetching history from provider")

	switch asset.Type {
	case "crypto":
		return s.crypto.FetchHistory(ctx, asset.Ticker, PeriodDays(period))
	case "macro":
		history, err := s.macro.FetchHistory(ctx, asset.Ticker)
		if err != nil {
			return nil, err
		}
		return trimToPeriod(history, period), nil
	default:
		return s.market.FetchHistory(ctx, asset.Type, asset.Ticker, period)
	}
}

// trimToPeriod cuts a full macro series down to the requested lookback.
// FRED always returns the whole series, which can span decades.
func trimToPeriod(history *models.History, period string) *models.History {
	if len(history.Points) == 0 {
		return history
	}
	last, err := time.Parse("2006-01-02", history.Points[len(history.Points)-1].Date)
	if err != nil {
		return history
	}
	cutoff := last.AddDate(0, 0, -PeriodDays(period)).Format("2006-01-02")

	points := history.Points
	for i, p := range points {
		if p.Date >= cutoff {
			points = points[i:]
			break
		}
	}
	trimmed := *history
	trimmed.Points = points
	return &trimmed
}

func (s *Service) macroQuote(ctx context.Context, asset models.AssetRef) (*models.Quote, error) {
	history, err := s.macro.FetchHistory(ctx, asset.Ticker)
	if err != nil {
		return nil, err
	}
	if len(history.Points) == 0 {
		return nil, fmt.Errorf("no observations for %s", asset.ID())
	}

	last := history.Points[len(history.Points)-1]
	quote := &models.Quote{
		Ticker:       history.Ticker,
		Name:         asset.Ticker,
		AssetType:    "macro",
		Source:       history.Source,
		CurrentPrice: decimal.NewFromFloat(last.Close),
		Currency:     "USD",
		Timestamp:    time.Now().UTC(),
	}
	if len(history.Points) > 1 {
		prev := history.Points[len(history.Points)-2]
		quote.PreviousClose = decimal.NewFromFloat(prev.Close)
	}
	return quote.WithChange(), nil
}
