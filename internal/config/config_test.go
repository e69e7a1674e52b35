package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9095" {
		t.Errorf("port = %q, want 9095", cfg.Server.Port)
	}
	if cfg.MarketData.Workers != 1 {
		t.Errorf("workers = %d, want 1", cfg.MarketData.Workers)
	}
	if cfg.MarketData.Retries != 0 {
		t.Errorf("retries = %d, want 0", cfg.MarketData.Retries)
	}
	if cfg.MarketData.RiskFreeSymbol != "^IRX" {
		t.Errorf("risk free symbol = %q", cfg.MarketData.RiskFreeSymbol)
	}
	if len(cfg.MarketData.Hosts) != 2 {
		t.Errorf("hosts = %v", cfg.MarketData.Hosts)
	}
	if cfg.TelegramEnabled() || cfg.ExplainerEnabled() {
		t.Error("optional integrations should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_FileThenEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "server:\n  port: \"8000\"\nmarket_data:\n  workers: 4\nlog_level: DEBUG\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "7000")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "7000" {
		t.Errorf("port = %q, want env override 7000", cfg.Server.Port)
	}
	if cfg.MarketData.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.MarketData.Workers)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
	if !cfg.ExplainerEnabled() {
		t.Error("explainer should be enabled with an API key")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("WEBHOOK_PUBLIC_URL", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	cfg.Telegram.BotToken = "123:abc"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for telegram token without webhook url")
	}
	cfg.Telegram.WebhookPublicURL = "https://example.com/telegram/webhook"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	cfg.MarketData.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero workers")
	}
}
