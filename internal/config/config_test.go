package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	raw := `{
		"server": {"port": "9100"},
		"scrape": {"base_currency": "EUR", "currencies": ["USD", "CHF"]},
		"jobs": {
			"max_concurrent": 1,
			"predefined": [
				{
					"name": "exchange-rates",
					"task": "exchange-rates",
					"schedule": {"enabled": true, "cron": "0 8 * * *", "run_on_startup_if_missed": true}
				}
			]
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "EUR", cfg.Scrape.BaseCurrency)
	assert.Equal(t, []string{"USD", "CHF"}, cfg.Scrape.Currencies)
	assert.Equal(t, 1, cfg.Jobs.MaxConcurrent)
	require.Len(t, cfg.Jobs.Predefined, 1)
	assert.Equal(t, "0 8 * * *", cfg.Jobs.Predefined[0].Schedule.Cron)
	assert.True(t, cfg.Jobs.Predefined[0].Schedule.RunOnStartupIfMissed)

	// Unset fields pick up defaults.
	assert.Equal(t, "https://api.frankfurter.app", cfg.Scrape.RatesURL)
	assert.Equal(t, "10s", cfg.Server.ReadTimeout)
	assert.Equal(t, "data", cfg.Data.Dir)
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("PORT", "9321")
	t.Setenv("BASE_CURRENCY", "USD")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "9321", cfg.Server.Port)
	assert.Equal(t, "USD", cfg.Scrape.BaseCurrency)
	assert.Equal(t, "https://query1.finance.yahoo.com/v7/finance/quote", cfg.Scrape.QuotesURL)
	assert.NotEmpty(t, cfg.Jobs.Predefined)
}

func TestLoadRejectsBadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultJobs(t *testing.T) {
	cfg := Default()

	require.Len(t, cfg.Jobs.Predefined, 3)
	names := make([]string, 0, 3)
	for _, job := range cfg.Jobs.Predefined {
		names = append(names, job.Name)
		assert.NotEmpty(t, job.Schedule.Cron)
	}
	assert.Contains(t, names, "exchange-rates")
	assert.Contains(t, names, "investment-prices")
	assert.Contains(t, names, "benchmark-values")
}

func TestLoadSeed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")

	raw := `benchmarks:
  - symbol: ^GSPC
    name: S&P 500
    currency: USD
investments:
  - symbol: VWRL.AS
    name: Vanguard FTSE All-World
    currency: EUR
  - symbol: AAPL
    name: Apple Inc.
    currency: USD
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	seed, err := LoadSeed(path)
	require.NoError(t, err)

	require.Len(t, seed.Benchmarks, 1)
	assert.Equal(t, "^GSPC", seed.Benchmarks[0].Symbol)
	require.Len(t, seed.Investments, 2)
	assert.Equal(t, "AAPL", seed.Investments[1].Symbol)
}
