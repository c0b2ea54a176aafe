package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	Data       struct {
		HoldingsCSV string `yaml:"holdings_csv"`
	} `yaml:"data"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Quotes struct {
		KRXBaseURL       string `yaml:"krx_base_url"`
		YahooBaseURL     string `yaml:"yahoo_base_url"`
		TimeoutSeconds   int    `yaml:"timeout_seconds"`
		Workers          int    `yaml:"workers"`
		DomesticLookback int    `yaml:"domestic_lookback_days"`
		ForeignLookback  int    `yaml:"foreign_lookback_sessions"`
	} `yaml:"quotes"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

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
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("HOLDINGS_CSV"); v != "" {
		cfg.Data.HoldingsCSV = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("KRX_BASE_URL"); v != "" {
		cfg.Quotes.KRXBaseURL = v
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.Quotes.YahooBaseURL = v
	}
	if v := os.Getenv("QUOTE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Quotes.Workers = n
		}
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.Data.HoldingsCSV == "" {
		cfg.Data.HoldingsCSV = "data/portfolio.csv"
	}
	if cfg.Quotes.TimeoutSeconds == 0 {
		cfg.Quotes.TimeoutSeconds = 10
	}
	if cfg.Quotes.Workers == 0 {
		cfg.Quotes.Workers = 4
	}
	if cfg.Quotes.DomesticLookback == 0 {
		cfg.Quotes.DomesticLookback = 7
	}
	if cfg.Quotes.ForeignLookback == 0 {
		cfg.Quotes.ForeignLookback = 5
	}
	if cfg.Schedule.RefreshCron == "" {
		// hourly, on the hour
		cfg.Schedule.RefreshCron = "0 0 * * * *"
	}

	return cfg, nil
}

// Validate checks that all required fields are sane.
func (c *Config) Validate() error {
	if c.Data.HoldingsCSV == "" {
		return fmt.Errorf("data.holdings_csv is required")
	}
	if c.Quotes.TimeoutSeconds <= 0 {
		return fmt.Errorf("quotes.timeout_seconds must be positive")
	}
	if c.Quotes.Workers <= 0 {
		return fmt.Errorf("quotes.workers must be positive")
	}
	if c.Quotes.DomesticLookback <= 0 || c.Quotes.ForeignLookback <= 0 {
		return fmt.Errorf("quote lookback windows must be positive")
	}
	return nil
}
