package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig
	Redis       RedisConfig
	Providers   ProvidersConfig
	Cache       CacheConfig
	RateLimit   RateLimitConfig
	Logger      LoggerConfig
	Environment string
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ProvidersConfig represents external data provider configuration
type ProvidersConfig struct {
	CoinGecko CoinGeckoConfig
	Yahoo     YahooConfig
	FRED      FREDConfig
}

// CoinGeckoConfig represents CoinGecko API configuration
type CoinGeckoConfig struct {
	APIKey    string
	BaseURL   string
	RateLimit int
	Timeout   time.Duration
}

// YahooConfig represents Yahoo Finance chart API configuration
type YahooConfig struct {
	BaseURL   string
	RateLimit int
	Timeout   time.Duration
}

// FREDConfig represents FRED CSV endpoint configuration
type FREDConfig struct {
	BaseURL   string
	RateLimit int
	Timeout   time.Duration
}

// CacheConfig carries per-result-type TTLs. History responses change once
// a day at most, quotes move constantly, and analysis results are only as
// fresh as the histories they are computed from.
type CacheConfig struct {
	HistoryTTL    time.Duration
	QuoteTTL      time.Duration
	CompareTTL    time.Duration
	ForecastTTL   time.Duration
	InvestmentTTL time.Duration
	SentimentTTL  time.Duration
}

// RateLimitConfig represents inbound request rate limiting
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	Burst             int
}

// LoggerConfig represents logging configuration
type LoggerConfig struct {
	Level      string
	Format     string
	Output     string
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8004),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", "30s"),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", "30s"),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", "120s"),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", "30s"),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvAsDuration("REDIS_DIAL_TIMEOUT", "5s"),
			ReadTimeout:  getEnvAsDuration("REDIS_READ_TIMEOUT", "3s"),
			WriteTimeout: getEnvAsDuration("REDIS_WRITE_TIMEOUT", "3s"),
		},
		Providers: ProvidersConfig{
			CoinGecko: CoinGeckoConfig{
				APIKey:    getEnv("COINGECKO_API_KEY", ""),
				BaseURL:   getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
				RateLimit: getEnvAsInt("COINGECKO_RATE_LIMIT", 50),
				Timeout:   getEnvAsDuration("COINGECKO_TIMEOUT", "15s"),
			},
			Yahoo: YahooConfig{
				BaseURL:   getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
				RateLimit: getEnvAsInt("YAHOO_RATE_LIMIT", 60),
				Timeout:   getEnvAsDuration("YAHOO_TIMEOUT", "15s"),
			},
			FRED: FREDConfig{
				BaseURL:   getEnv("FRED_BASE_URL", "https://fred.stlouisfed.org/graph/fredgraph.csv"),
				RateLimit: getEnvAsInt("FRED_RATE_LIMIT", 30),
				Timeout:   getEnvAsDuration("FRED_TIMEOUT", "15s"),
			},
		},
		Cache: CacheConfig{
			HistoryTTL:    getEnvAsDuration("CACHE_HISTORY_TTL", "15m"),
			QuoteTTL:      getEnvAsDuration("CACHE_QUOTE_TTL", "1m"),
			CompareTTL:    getEnvAsDuration("CACHE_COMPARE_TTL", "15m"),
			ForecastTTL:   getEnvAsDuration("CACHE_FORECAST_TTL", "1h"),
			InvestmentTTL: getEnvAsDuration("CACHE_INVESTMENT_TTL", "30m"),
			SentimentTTL:  getEnvAsDuration("CACHE_SENTIMENT_TTL", "5m"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 120),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		Logger: LoggerConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE_PATH", "logs/stonks-api.log"),
			MaxSize:    getEnvAsInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getEnvAsInt("LOG_MAX_AGE", 28),
			Compress:   getEnvAsBool("LOG_COMPRESS", true),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
	}, nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Second * 30 // Fallback
}
