// Package yahoo fetches quotes and daily history from the Yahoo Finance
// chart API. It serves every asset class Yahoo lists: stocks, commodity
// futures, forex pairs, indices and treasury yields.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"stonks-api/internal/models"
)

// Client talks to the public chart endpoint. Yahoo rate limits
// aggressively on burst traffic, so all requests share one limiter.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit int
}

func NewClient(config *Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 60
	}

	return &Client{
		baseURL:     config.BaseURL,
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RateLimit)), 1),
	}
}

// FetchHistory returns daily closes over a Yahoo range string such as
// "3mo" or "1y". Days without a close (halts, partial sessions) are
// dropped here rather than zero-filled.
func (c *Client) FetchHistory(ctx context.Context, assetType, ticker, period string) (*models.History, error) {
	symbol := ResolveSymbol(assetType, ticker)

	data, err := c.makeRequest(ctx, symbol, url.Values{
		"range":    {period},
		"interval": {"1d"},
	})
	if err != nil {
		return nil, err
	}

	result, err := parseChart(data)
	if err != nil {
		return nil, fmt.Errorf("yahoo: %s: %w", symbol, err)
	}

	points := make([]models.PricePoint, 0, len(result.Timestamps))
	for i, ts := range result.Timestamps {
		if i >= len(result.Closes) || result.Closes[i] == nil {
			continue
		}
		points = append(points, models.PricePoint{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: *result.Closes[i],
		})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("yahoo: no usable closes for %s over %s", symbol, period)
	}

	return &models.History{
		Ticker: symbol,
		Source: "yahoo",
		Points: points,
	}, nil
}

// GetQuote derives a snapshot from the last five daily candles.
func (c *Client) GetQuote(ctx context.Context, assetType, ticker string) (*models.Quote, error) {
	symbol := ResolveSymbol(assetType, ticker)

	data, err := c.makeRequest(ctx, symbol, url.Values{
		"range":    {"5d"},
		"interval": {"1d"},
	})
	if err != nil {
		return nil, err
	}

	result, err := parseChart(data)
	if err != nil {
		return nil, fmt.Errorf("yahoo: %s: %w", symbol, err)
	}

	var closes []float64
	for _, close := range result.Closes {
		if close != nil {
			closes = append(closes, *close)
		}
	}
	if len(closes) == 0 {
		return nil, fmt.Errorf("yahoo: no recent closes for %s", symbol)
	}

	quote := &models.Quote{
		Ticker:       symbol,
		Name:         DisplayName(assetType, ticker),
		AssetType:    assetType,
		Source:       "yahoo",
		CurrentPrice: decimal.NewFromFloat(closes[len(closes)-1]),
		Currency:     result.Currency,
		Exchange:     result.Exchange,
		Timestamp:    time.Now().UTC(),
	}
	if len(closes) > 1 {
		quote.PreviousClose = decimal.NewFromFloat(closes[len(closes)-2])
	}
	if result.DayHigh != 0 {
		quote.DayHigh = decimal.NewFromFloat(result.DayHigh)
	}
	if result.DayLow != 0 {
		quote.DayLow = decimal.NewFromFloat(result.DayLow)
	}
	return quote.WithChange(), nil
}

func (c *Client) makeRequest(ctx context.Context, symbol string, params url.Values) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("yahoo: rate limit wait cancelled: %w", err)
	}

	fullURL := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; stonks-api/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo: network error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo: failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("yahoo: rate limited")
	case http.StatusNotFound:
		return nil, fmt.Errorf("yahoo: unknown symbol %s", symbol)
	default:
		return nil, fmt.Errorf("yahoo: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

// chartData is the flattened view of a chart response the callers need.
type chartData struct {
	Timestamps []int64
	Closes     []*float64
	Currency   string
	Exchange   string
	DayHigh    float64
	DayLow     float64
}

func parseChart(data []byte) (*chartData, error) {
	var response ChartResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse chart response: %w", err)
	}
	if response.Chart.Error != nil {
		return nil, fmt.Errorf("chart error: %s", response.Chart.Error.Description)
	}
	if len(response.Chart.Result) == 0 {
		return nil, fmt.Errorf("empty chart result")
	}

	result := response.Chart.Result[0]
	out := &chartData{
		Timestamps: result.Timestamp,
		Currency:   result.Meta.Currency,
		Exchange:   result.Meta.ExchangeName,
		DayHigh:    result.Meta.RegularMarketDayHigh,
		DayLow:     result.Meta.RegularMarketDayLow,
	}
	if len(result.Indicators.Quote) > 0 {
		out.Closes = result.Indicators.Quote[0].Close
	}
	if len(out.Timestamps) == 0 || len(out.Closes) == 0 {
		return nil, fmt.Errorf("no data in chart result")
	}
	return out, nil
}
