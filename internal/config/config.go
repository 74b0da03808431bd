package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Listings struct {
		URL               string        `yaml:"url"`
		ContainerSelector string        `yaml:"container_selector"`
		QuoteSuffix       string        `yaml:"quote_suffix"`
		Timeout           time.Duration `yaml:"timeout"`
		MaxRetries        int           `yaml:"max_retries"`
	} `yaml:"listings"`
	MarketData struct {
		Provider    string            `yaml:"provider"`
		BaseURL     string            `yaml:"base_url"`
		Timeout     time.Duration     `yaml:"timeout"`
		ViewTimeout time.Duration     `yaml:"view_timeout"`
		MaxRetries  int               `yaml:"max_retries"`
		RatePerSec  float64           `yaml:"rate_per_sec"`
		Burst       int               `yaml:"burst"`
		QuoteMap    map[string]string `yaml:"quote_map"`
	} `yaml:"market_data"`
	Fiats    []string `yaml:"fiats"`
	Windows  []int    `yaml:"windows"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional; plain environment variables work without it.
	_ = godotenv.Load()

	cfg := &Config{}
	// Zero is a valid retry count, so these defaults go in before decoding.
	cfg.Listings.MaxRetries = 2
	cfg.MarketData.MaxRetries = 2

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LISTINGS_URL"); v != "" {
		cfg.Listings.URL = v
	}
	if v := os.Getenv("MARKET_DATA_PROVIDER"); v != "" {
		cfg.MarketData.Provider = v
	}
	if v := os.Getenv("MARKET_DATA_BASE_URL"); v != "" {
		cfg.MarketData.BaseURL = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("FIATS"); v != "" {
		cfg.Fiats = strings.Split(v, ",")
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Listings.URL == "" {
		cfg.Listings.URL = "https://finance.yahoo.com/cryptocurrencies?offset=0&count=100"
	}
	if cfg.Listings.ContainerSelector == "" {
		cfg.Listings.ContainerSelector = "div#fin-scr-res-table"
	}
	if cfg.Listings.QuoteSuffix == "" {
		cfg.Listings.QuoteSuffix = "USD"
	}
	if cfg.Listings.Timeout == 0 {
		cfg.Listings.Timeout = 10 * time.Second
	}
	if cfg.MarketData.Provider == "" {
		cfg.MarketData.Provider = "yahoo"
	}
	cfg.MarketData.Provider = strings.ToLower(cfg.MarketData.Provider)
	if cfg.MarketData.Timeout == 0 {
		cfg.MarketData.Timeout = 10 * time.Second
	}
	if cfg.MarketData.ViewTimeout == 0 {
		cfg.MarketData.ViewTimeout = 20 * time.Second
	}
	if cfg.MarketData.RatePerSec == 0 {
		cfg.MarketData.RatePerSec = 2
	}
	if cfg.MarketData.Burst == 0 {
		cfg.MarketData.Burst = 2
	}
	if cfg.MarketData.QuoteMap == nil {
		cfg.MarketData.QuoteMap = map[string]string{"USD": "USDT"}
	}
	if len(cfg.Fiats) == 0 {
		cfg.Fiats = []string{"USD", "EUR", "GBP"}
	}
	for i, f := range cfg.Fiats {
		cfg.Fiats[i] = strings.ToUpper(strings.TrimSpace(f))
	}
	if len(cfg.Windows) == 0 {
		cfg.Windows = []int{20, 50, 100}
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 */10 * * * *"
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.MarketData.Provider {
	case "yahoo", "binance":
	default:
		return fmt.Errorf("market_data.provider must be yahoo or binance, got %q", c.MarketData.Provider)
	}
	if c.Listings.Timeout < 0 || c.MarketData.Timeout < 0 || c.MarketData.ViewTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.Listings.MaxRetries < 0 || c.MarketData.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	for _, f := range c.Fiats {
		if f == "" {
			return fmt.Errorf("fiats must not contain empty codes")
		}
	}
	for _, w := range c.Windows {
		if w <= 0 {
			return fmt.Errorf("windows must be positive, got %d", w)
		}
	}
	return nil
}
