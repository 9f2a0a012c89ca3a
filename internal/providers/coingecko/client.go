// Package coingecko fetches cryptocurrency quotes and price history from
// the CoinGecko API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"stonks-api/internal/models"
)

// Client talks to the CoinGecko API with a shared rate limiter. The free
// tier allows 50 requests per minute; staying inside it matters more than
// latency because a 429 poisons several minutes of requests.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

type Config struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	RateLimit int
}

func NewClient(config *Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 50
	}

	return &Client{
		apiKey:      config.APIKey,
		baseURL:     config.BaseURL,
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RateLimit)), 1),
	}
}

// FetchHistory returns daily closes for the last `days` days. CoinGecko
// may return several intraday points per day; the last one per date wins
// when the series is normalized downstream.
func (c *Client) FetchHistory(ctx context.Context, ticker string, days int) (*models.History, error) {
	coinID := ResolveCoinID(ticker)

	endpoint := fmt.Sprintf("/coins/%s/market_chart?vs_currency=usd&days=%d", coinID, days)
	data, err := c.makeRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response MarketChartResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("coingecko: failed to parse market chart: %w", err)
	}
	if len(response.Prices) == 0 {
		return nil, fmt.Errorf("coingecko: no price data for %s", coinID)
	}

	points := make([]models.PricePoint, 0, len(response.Prices))
	for _, entry := range response.Prices {
		ts := time.UnixMilli(int64(entry[0])).UTC()
		points = append(points, models.PricePoint{
			Date:  ts.Format("2006-01-02"),
			Close: entry[1],
		})
	}

	return &models.History{
		Ticker: coinID,
		Source: "coingecko",
		Points: points,
	}, nil
}

// GetQuote fetches the current price snapshot for one coin.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	coinID := ResolveCoinID(ticker)

	endpoint := fmt.Sprintf("/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true&include_24hr_vol=true&include_market_cap=true", coinID)
	data, err := c.makeRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response map[string]SimplePriceResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("coingecko: failed to parse price response: %w", err)
	}

	priceData, exists := response[coinID]
	if !exists {
		return nil, fmt.Errorf("coingecko: no data for %s", coinID)
	}

	quote := &models.Quote{
		Ticker:       strings.ToUpper(ticker),
		Name:         coinID,
		AssetType:    "crypto",
		Source:       "coingecko",
		CurrentPrice: decimal.NewFromFloat(priceData.USD),
		Volume:       decimal.NewFromFloat(priceData.USD24hVol),
		MarketCap:    decimal.NewFromFloat(priceData.USDMarketCap),
		Currency:     "USD",
		Timestamp:    time.Now().UTC(),
	}

	// The endpoint reports the 24h change as a percentage; recover the
	// previous close from it so derived fields stay consistent.
	if priceData.USD24hChange != 0 {
		factor := 1 + priceData.USD24hChange/100
		if factor > 0 {
			quote.PreviousClose = decimal.NewFromFloat(priceData.USD / factor)
		}
	}
	return quote.WithChange(), nil
}

func (c *Client) makeRequest(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("coingecko: rate limit wait cancelled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("coingecko: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "stonks-api/1.0")
	if c.apiKey != "" {
		req.Header.Set("x-cg-pro-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko: network error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coingecko: failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("coingecko: rate limited")
	case http.StatusNotFound:
		return nil, fmt.Errorf("coingecko: not found: %s", endpoint)
	default:
		return nil, fmt.Errorf("coingecko: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}
