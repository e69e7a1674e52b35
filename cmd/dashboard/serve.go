package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"etfDashboard/internal/dashboard"
	"etfDashboard/internal/finance"
	"etfDashboard/internal/openai"
	"etfDashboard/internal/server"
	"etfDashboard/internal/telegram"
)

type serveCmd struct {
	port string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the web dashboard" }
func (*serveCmd) Usage() string {
	return `dashboard serve [-port <port>]

  Serves the ETF dashboard over HTTP. When a Telegram bot token is configured the
  bot webhook is served on the same listener.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.port, "port", "", "Listen port. Overrides the configuration.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.port != "" {
		cfg.Server.Port = c.port
	}

	controller := dashboard.NewController(marketClient(cfg), cfg.MarketData.Workers)
	charts := finance.NewChartCache(time.Duration(cfg.Charts.CacheTTLSeconds) * time.Second)

	var explainer server.Explainer
	if cfg.ExplainerEnabled() {
		explainer = openai.NewExplainer(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		log.Info().Str("model", cfg.OpenAI.Model).Msg("openai: explanations enabled")
	}

	srv, err := server.New(dashboard.NewSession(), controller, charts, explainer)
	if err != nil {
		log.Error().Err(err).Msg("http: templates failed")
		return subcommands.ExitFailure
	}

	var webhook http.HandlerFunc
	if cfg.TelegramEnabled() {
		bot, err := telegram.NewBot(cfg.Telegram.BotToken, cfg.Telegram.WebhookPublicURL, controller)
		if err != nil {
			log.Error().Err(err).Msg("telegram: init failed")
			return subcommands.ExitFailure
		}
		webhook = bot.WebhookHandler
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx, ":"+cfg.Server.Port, server.NewRouter(srv, webhook)); err != nil {
		log.Error().Err(err).Msg("http: server error")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
