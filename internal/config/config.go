package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"CryptoLens/internal/model"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

const dateLayout = "2006-01-02"

// Config holds all application configuration.
type Config struct {
	Symbols    []string                 `yaml:"symbols" env:"SYMBOLS" envSeparator:","`
	TimeFrame  string                   `yaml:"timeframe" env:"TIMEFRAME"`
	Indicators *model.IndicatorSettings `yaml:"indicators"`

	Source struct {
		Kind      string        `yaml:"kind" env:"SOURCE"` // binance, file or mock
		BaseURL   string        `yaml:"base_url" env:"BINANCE_BASE_URL"`
		Start     string        `yaml:"start" env:"HISTORY_START"`
		PageDelay time.Duration `yaml:"page_delay" env:"PAGE_DELAY"`
		DataDir   string        `yaml:"data_dir" env:"DATA_DIR"`
		MockPrice float64       `yaml:"mock_price" env:"MOCK_PRICE"`
		MockCount int           `yaml:"mock_count" env:"MOCK_COUNT"`
	} `yaml:"source"`

	Feed struct {
		URL      string `yaml:"url" env:"FEED_URL"`
		Disabled bool   `yaml:"disabled" env:"FEED_DISABLED"`
	} `yaml:"feed"`

	Schedule struct {
		RefreshCron string `yaml:"refresh_cron" env:"CRON_REFRESH"`
		PricesCron  string `yaml:"prices_cron" env:"CRON_PRICES"`
	} `yaml:"schedule"`

	Server struct {
		Addr string `yaml:"addr" env:"ADDR"`
	} `yaml:"server"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
	Proxy    string `yaml:"proxy" env:"HTTPS_PROXY"`
}

// Path returns CONFIG_PATH or DefaultPath.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file on fs, then applies .env and
// environment variable overrides, then fills defaults. A missing file is
// not an error.
func Load(fs afero.Fs, path string) (*Config, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	cfg := &Config{}

	data, err := afero.ReadFile(fs, path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Ignore error if .env is missing
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Symbols) == 0 {
		c.Symbols = []string{"BTCUSDT", "ETHUSDT"}
	}
	for i, s := range c.Symbols {
		c.Symbols[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	if c.TimeFrame == "" {
		c.TimeFrame = string(model.TimeFrame1d)
	}
	if c.Indicators == nil {
		s := model.DefaultIndicatorSettings()
		c.Indicators = &s
	}
	if c.Source.Kind == "" {
		c.Source.Kind = "binance"
	}
	if c.Source.BaseURL == "" {
		c.Source.BaseURL = "https://api.binance.com"
	}
	if c.Source.Start == "" {
		c.Source.Start = "2017-01-01"
	}
	if c.Source.PageDelay == 0 {
		c.Source.PageDelay = 100 * time.Millisecond
	}
	if c.Source.DataDir == "" {
		c.Source.DataDir = "data"
	}
	if c.Source.MockPrice == 0 {
		c.Source.MockPrice = 50000
	}
	if c.Source.MockCount == 0 {
		c.Source.MockCount = 500
	}
	if c.Feed.URL == "" {
		c.Feed.URL = "wss://stream.binance.com:9443/ws"
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 */5 * * * *"
	}
	if c.Schedule.PricesCron == "" {
		c.Schedule.PricesCron = "0 * * * * *"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols must not be empty")
	}
	for _, s := range c.Symbols {
		if s == "" {
			return fmt.Errorf("symbols must not contain empty entries")
		}
	}
	if _, err := model.ParseTimeFrame(c.TimeFrame); err != nil {
		return fmt.Errorf("timeframe: %w", err)
	}
	switch c.Source.Kind {
	case "binance", "file", "mock":
	default:
		return fmt.Errorf("source.kind must be binance, file or mock, got %q", c.Source.Kind)
	}
	if _, err := time.Parse(dateLayout, c.Source.Start); err != nil {
		return fmt.Errorf("source.start must be YYYY-MM-DD: %w", err)
	}
	if c.Source.PageDelay < 0 {
		return fmt.Errorf("source.page_delay must not be negative")
	}
	if c.Schedule.RefreshCron == "" {
		return fmt.Errorf("schedule.refresh_cron is required")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// DefaultTimeFrame returns the parsed TimeFrame. Call after Validate.
func (c *Config) DefaultTimeFrame() model.TimeFrame {
	tf, _ := model.ParseTimeFrame(c.TimeFrame)
	return tf
}

// HistoryStart returns the parsed Source.Start at midnight UTC.
func (c *Config) HistoryStart() time.Time {
	t, err := time.Parse(dateLayout, c.Source.Start)
	if err != nil {
		return time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

// Settings returns the configured indicator selection.
func (c *Config) Settings() model.IndicatorSettings {
	if c.Indicators == nil {
		return model.DefaultIndicatorSettings()
	}
	return *c.Indicators
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
