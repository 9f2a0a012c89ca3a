// Package fred fetches macroeconomic series from the St. Louis Fed's
// public fredgraph CSV endpoint, which needs no API key.
package fred

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"stonks-api/internal/models"
)

// Client downloads one series per request. FRED updates most series daily
// at most, so the limiter is deliberately conservative.
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
		config.BaseURL = "https://fred.stlouisfed.org/graph/fredgraph.csv"
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 30
	}

	return &Client{
		baseURL:     config.BaseURL,
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RateLimit)), 1),
	}
}

// FetchHistory downloads the full series. FRED marks missing observations
// with "."; those rows are dropped.
func (c *Client) FetchHistory(ctx context.Context, ticker string) (*models.History, error) {
	seriesID := ResolveSeriesID(ticker)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fred: rate limit wait cancelled: %w", err)
	}

	fullURL := fmt.Sprintf("%s?id=%s", c.baseURL, url.QueryEscape(seriesID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fred: failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "stonks-api/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fred: network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fred: HTTP %d for series %s", resp.StatusCode, seriesID)
	}

	points, err := parseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fred: series %s: %w", seriesID, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("fred: no valid observations for %s", seriesID)
	}

	return &models.History{
		Ticker: seriesID,
		Source: "fred",
		Points: points,
	}, nil
}

func parseCSV(r io.Reader) ([]models.PricePoint, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("empty CSV")
	}

	points := make([]models.PricePoint, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 || record[1] == "." {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			continue
		}
		points = append(points, models.PricePoint{Date: record[0], Close: value})
	}
	return points, nil
}
