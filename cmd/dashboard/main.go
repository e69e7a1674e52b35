package main

import (
	"context"
	"flag"
	"os"
	"path"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"etfDashboard/internal/config"
	"etfDashboard/internal/finance"
)

var configPath = flag.String("config", defaultConfigPath(), "Path to the YAML configuration file")

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "configs/config.yaml"
}

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&serveCmd{}, "")
	commander.Register(&reportCmd{}, "")
	commander.Register(&catalogCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// loadConfig reads and validates the configuration, then sets up logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	setupLogging(cfg.LogLevel, cfg.LogPretty)
	return cfg, nil
}

func setupLogging(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func marketClient(cfg *config.Config) *finance.Client {
	return finance.NewClient(finance.ClientOptions{
		Hosts:          cfg.MarketData.Hosts,
		Timeout:        time.Duration(cfg.MarketData.TimeoutSeconds) * time.Second,
		Retries:        cfg.MarketData.Retries,
		Proxy:          cfg.Proxy,
		RiskFreeSymbol: cfg.MarketData.RiskFreeSymbol,
	})
}
