package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	MarketData struct {
		Hosts          []string `yaml:"hosts"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		Retries        int      `yaml:"retries"`
		Workers        int      `yaml:"workers"`
		RiskFreeSymbol string   `yaml:"risk_free_symbol"`
	} `yaml:"market_data"`
	Charts struct {
		CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
	} `yaml:"charts"`
	Telegram struct {
		BotToken         string `yaml:"bot_token"`
		WebhookPublicURL string `yaml:"webhook_public_url"`
	} `yaml:"telegram"`
	OpenAI struct {
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`
	Proxy     string `yaml:"proxy"`
	LogLevel  string `yaml:"log_level"`
	LogPretty bool   `yaml:"log_pretty"`
}

// Load reads an optional .env file and the YAML config at path, then applies
// environment overrides and defaults. A missing config file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

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

	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("WEBHOOK_PUBLIC_URL"); v != "" {
		cfg.Telegram.WebhookPublicURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "9095"
	}
	if len(cfg.MarketData.Hosts) == 0 {
		cfg.MarketData.Hosts = []string{"https://query1.finance.yahoo.com", "https://query2.finance.yahoo.com"}
	}
	if cfg.MarketData.TimeoutSeconds == 0 {
		cfg.MarketData.TimeoutSeconds = 30
	}
	if cfg.MarketData.Workers == 0 {
		cfg.MarketData.Workers = 1
	}
	if cfg.MarketData.RiskFreeSymbol == "" {
		cfg.MarketData.RiskFreeSymbol = "^IRX"
	}
	if cfg.Charts.CacheTTLSeconds == 0 {
		cfg.Charts.CacheTTLSeconds = 600
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	return cfg, nil
}

// Validate checks ranges and that optional integrations are configured completely.
func (c *Config) Validate() error {
	if c.MarketData.TimeoutSeconds < 0 {
		return fmt.Errorf("market_data.timeout_seconds must not be negative")
	}
	if c.MarketData.Retries < 0 {
		return fmt.Errorf("market_data.retries must not be negative")
	}
	if c.MarketData.Workers < 1 {
		return fmt.Errorf("market_data.workers must be at least 1")
	}
	if c.Charts.CacheTTLSeconds < 0 {
		return fmt.Errorf("charts.cache_ttl_seconds must not be negative")
	}
	if c.Telegram.BotToken != "" && c.Telegram.WebhookPublicURL == "" {
		return fmt.Errorf("telegram.webhook_public_url is required when telegram.bot_token is set")
	}
	return nil
}

// TelegramEnabled reports whether the Telegram front-end should start.
func (c *Config) TelegramEnabled() bool { return c.Telegram.BotToken != "" }

// ExplainerEnabled reports whether results can be explained by the OpenAI model.
func (c *Config) ExplainerEnabled() bool { return c.OpenAI.APIKey != "" }
