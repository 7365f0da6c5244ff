package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTickers is the watch list analyzed when none is configured.
var DefaultTickers = []string{
	"DIA", "^GSPC", "SPY", "GDX", "GOOG", "GS", "F",
	"JNJ", "QCOM", "BA", "WMT", "NKE", "AMZN", "AAPL",
}

// Data providers.
const (
	ProviderYahoo = "yahoo"
	ProviderCSV   = "csv"
	ProviderMock  = "mock"
)

// Config holds all application configuration.
type Config struct {
	Tickers  []string `yaml:"tickers"`
	FromYear int      `yaml:"from_year"`
	Workers  int      `yaml:"workers"`
	Windows  struct {
		Month   int `yaml:"month"`
		Quarter int `yaml:"quarter"`
		Year    int `yaml:"year"`
		Bins    int `yaml:"bins"`
	} `yaml:"windows"`
	DataSource struct {
		Provider    string `yaml:"provider"`
		BaseURL     string `yaml:"base_url"`
		URLTemplate string `yaml:"url_template"`
		APIKey      string `yaml:"api_key"`
	} `yaml:"data_source"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
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
	if v := os.Getenv("TICKERS"); v != "" {
		cfg.Tickers = splitList(v)
	}
	if v := os.Getenv("FROM_YEAR"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("FROM_YEAR: %w", err)
		}
		cfg.FromYear = n
	}
	if v := os.Getenv("WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("CSV_URL_TEMPLATE"); v != "" {
		cfg.DataSource.URLTemplate = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = append([]string(nil), DefaultTickers...)
	}
	if cfg.FromYear == 0 {
		cfg.FromYear = 1995
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if cfg.Windows.Month == 0 {
		cfg.Windows.Month = 21
	}
	if cfg.Windows.Quarter == 0 {
		cfg.Windows.Quarter = 63
	}
	if cfg.Windows.Year == 0 {
		cfg.Windows.Year = 252
	}
	if cfg.Windows.Bins == 0 {
		cfg.Windows.Bins = 100
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = ProviderYahoo
	}

	return cfg, nil
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return fmt.Errorf("tickers must not be empty")
	}
	for _, t := range c.Tickers {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("tickers must not contain blank symbols")
		}
	}
	if c.FromYear < 1900 || c.FromYear > 9999 {
		return fmt.Errorf("from_year %d out of range", c.FromYear)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	if c.Windows.Month < 1 || c.Windows.Quarter < 1 || c.Windows.Year < 1 || c.Windows.Bins < 1 {
		return fmt.Errorf("windows must be positive")
	}
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock:
	case ProviderCSV:
		if c.DataSource.URLTemplate == "" {
			return fmt.Errorf("data_source.url_template is required for the csv provider")
		}
		if !strings.Contains(c.DataSource.URLTemplate, "{symbol}") {
			return fmt.Errorf("data_source.url_template must contain {symbol}")
		}
	default:
		return fmt.Errorf("unknown data_source.provider %q", c.DataSource.Provider)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
