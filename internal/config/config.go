package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig    `json:"server"`
	Data   DataConfig      `json:"data"`
	Scrape ScrapeConfig    `json:"scrape"`
	Slack  SlackConfig     `json:"slack"`
	Jobs   types.JobConfig `json:"jobs"`
}

type ServerConfig struct {
	Port         string `json:"port"`
	ReadTimeout  string `json:"read_timeout"`
	WriteTimeout string `json:"write_timeout"`
}

type DataConfig struct {
	Dir      string `json:"dir"`
	SeedFile string `json:"seed_file"`
}

type ScrapeConfig struct {
	RatesURL          string   `json:"rates_url"`
	RatesFallbackURL  string   `json:"rates_fallback_url"`
	QuotesURL         string   `json:"quotes_url"`
	QuotesFallbackURL string   `json:"quotes_fallback_url"`
	BaseCurrency      string   `json:"base_currency"`
	Currencies        []string `json:"currencies"`
	CacheTTL          string   `json:"cache_ttl"`
	Timeout           string   `json:"timeout"`
	RequestsPerSecond float64  `json:"requests_per_second"`
}

type SlackConfig struct {
	NotifyOnSuccess bool `json:"notify_on_success"`
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if err := godotenv.Load(); err != nil {
			if err := godotenv.Load(".env.local"); err != nil {
				fmt.Printf("No .env or .env.local file found. Using environment variables.\n")
			}
		}

		cfg := Default()
		cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
		cfg.Data.Dir = getEnv("PORTFOLIO60_DATA_DIR", cfg.Data.Dir)
		cfg.Scrape.RatesURL = getEnv("RATES_API_URL", cfg.Scrape.RatesURL)
		cfg.Scrape.QuotesURL = getEnv("QUOTES_API_URL", cfg.Scrape.QuotesURL)
		cfg.Scrape.BaseCurrency = getEnv("BASE_CURRENCY", cfg.Scrape.BaseCurrency)

		return cfg, nil
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.applyDefaults()

	return &config, nil
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "1420",
			ReadTimeout:  "10s",
			WriteTimeout: "10s",
		},
		Data: DataConfig{
			Dir:      "data",
			SeedFile: "config/portfolio.yaml",
		},
		Scrape: ScrapeConfig{
			RatesURL:          "https://api.frankfurter.app",
			RatesFallbackURL:  "https://api.frankfurter.dev/v1",
			QuotesURL:         "https://query1.finance.yahoo.com/v7/finance/quote",
			QuotesFallbackURL: "https://query2.finance.yahoo.com/v7/finance/quote",
			BaseCurrency:      "GBP",
			Currencies:        []string{"USD", "EUR"},
			CacheTTL:          "10m",
			Timeout:           "10s",
			RequestsPerSecond: 4,
		},
		Jobs: defaultJobs(),
	}
}

func defaultJobs() types.JobConfig {
	return types.JobConfig{
		MaxConcurrent: 2,
		Predefined: []types.Job{
			{
				Name:        "exchange-rates",
				TaskName:    "exchange-rates",
				Description: "Scrape daily exchange rates for configured currencies",
				Schedule: types.ScheduleConfig{
					Enabled:              true,
					Cron:                 "0 7 * * *",
					RunOnStartupIfMissed: true,
				},
			},
			{
				Name:        "investment-prices",
				TaskName:    "investment-prices",
				Description: "Scrape closing prices for all holdings",
				Schedule: types.ScheduleConfig{
					Enabled:              true,
					Cron:                 "30 21 * * 1-5",
					RunOnStartupIfMissed: true,
				},
			},
			{
				Name:        "benchmark-values",
				TaskName:    "benchmark-values",
				Description: "Scrape index values for tracked benchmarks",
				Schedule: types.ScheduleConfig{
					Enabled:              true,
					Cron:                 "45 21 * * 1-5",
					RunOnStartupIfMissed: false,
				},
			},
		},
	}
}

func (c *Config) applyDefaults() {
	def := Default()

	if c.Server.Port == "" {
		c.Server.Port = def.Server.Port
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = def.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = def.Server.WriteTimeout
	}
	if c.Data.Dir == "" {
		c.Data.Dir = def.Data.Dir
	}
	if c.Data.SeedFile == "" {
		c.Data.SeedFile = def.Data.SeedFile
	}
	if c.Scrape.RatesURL == "" {
		c.Scrape.RatesURL = def.Scrape.RatesURL
	}
	if c.Scrape.QuotesURL == "" {
		c.Scrape.QuotesURL = def.Scrape.QuotesURL
	}
	if c.Scrape.BaseCurrency == "" {
		c.Scrape.BaseCurrency = def.Scrape.BaseCurrency
	}
	if len(c.Scrape.Currencies) == 0 {
		c.Scrape.Currencies = def.Scrape.Currencies
	}
	if c.Scrape.CacheTTL == "" {
		c.Scrape.CacheTTL = def.Scrape.CacheTTL
	}
	if c.Scrape.Timeout == "" {
		c.Scrape.Timeout = def.Scrape.Timeout
	}
	if c.Scrape.RequestsPerSecond == 0 {
		c.Scrape.RequestsPerSecond = def.Scrape.RequestsPerSecond
	}
	if c.Jobs.MaxConcurrent == 0 {
		c.Jobs.MaxConcurrent = def.Jobs.MaxConcurrent
	}
	if len(c.Jobs.Predefined) == 0 {
		c.Jobs.Predefined = def.Jobs.Predefined
	}
}

type SeedConfig struct {
	Benchmarks  []SeedBenchmark  `yaml:"benchmarks"`
	Investments []SeedInvestment `yaml:"investments"`
}

type SeedBenchmark struct {
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

type SeedInvestment struct {
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

// LoadSeed reads the portfolio seed file. With an empty path it searches
// config/portfolio.yaml and portfolio.yaml upward from the working
// directory, so the server can be launched from a build subdirectory.
func LoadSeed(seedPath string) (*SeedConfig, error) {
	if seedPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}

		for i := 0; i < 3; i++ {
			candidate := filepath.Join(wd, "config", "portfolio.yaml")
			if _, err := os.Stat(candidate); err == nil {
				seedPath = candidate
				break
			}

			candidate = filepath.Join(wd, "portfolio.yaml")
			if _, err := os.Stat(candidate); err == nil {
				seedPath = candidate
				break
			}

			wd = filepath.Dir(wd)
			if wd == "/" {
				break
			}
		}

		if seedPath == "" {
			return nil, fmt.Errorf("seed file not found")
		}
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedConfig
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	return &seed, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
