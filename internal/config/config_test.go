package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, DefaultTickers, cfg.Tickers)
	require.Equal(t, 1995, cfg.FromYear)
	require.Equal(t, 1, cfg.Workers)
	require.Equal(t, 21, cfg.Windows.Month)
	require.Equal(t, 63, cfg.Windows.Quarter)
	require.Equal(t, 252, cfg.Windows.Year)
	require.Equal(t, 100, cfg.Windows.Bins)
	require.Equal(t, ProviderYahoo, cfg.DataSource.Provider)
	require.Empty(t, cfg.Schedule.Cron)
	require.Empty(t, cfg.Database.SQLitePath)
	require.False(t, cfg.TelegramEnabled())
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
tickers: [SPY, QQQ]
from_year: 2005
workers: 4
windows:
  month: 22
data_source:
  provider: csv
  url_template: https://example.com/{symbol}.csv
output:
  dir: out
schedule:
  cron: "0 30 22 * * 1-5"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, []string{"SPY", "QQQ"}, cfg.Tickers)
	require.Equal(t, 2005, cfg.FromYear)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, 22, cfg.Windows.Month)
	require.Equal(t, 252, cfg.Windows.Year)
	require.Equal(t, ProviderCSV, cfg.DataSource.Provider)
	require.Equal(t, "out", cfg.Output.Dir)
	require.Equal(t, "0 30 22 * * 1-5", cfg.Schedule.Cron)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "tickers: [SPY]\nfrom_year: 2005\n")
	t.Setenv("TICKERS", " GS, ,F ")
	t.Setenv("FROM_YEAR", "2010")
	t.Setenv("WORKERS", "2")
	t.Setenv("SQLITE_PATH", "data/runs.db")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"GS", "F"}, cfg.Tickers)
	require.Equal(t, 2010, cfg.FromYear)
	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, "data/runs.db", cfg.Database.SQLitePath)
	require.True(t, cfg.TelegramEnabled())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeConfig(t, "tickers: [SPY\n"))
	require.ErrorContains(t, err, "parse config")

	t.Setenv("FROM_YEAR", "nineteen")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "FROM_YEAR")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"blank ticker", func(c *Config) { c.Tickers = []string{"SPY", " "} }, "blank"},
		{"year", func(c *Config) { c.FromYear = 95 }, "from_year"},
		{"workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"windows", func(c *Config) { c.Windows.Month = -21 }, "windows"},
		{"provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }, "provider"},
		{"csv without template", func(c *Config) { c.DataSource.Provider = ProviderCSV }, "url_template"},
		{"csv template without symbol", func(c *Config) {
			c.DataSource.Provider = ProviderCSV
			c.DataSource.URLTemplate = "https://example.com/prices.csv"
		}, "{symbol}"},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "token" }, "telegram"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			require.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
