package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"etfDashboard/internal/dashboard"
	"etfDashboard/internal/openai"
)

type reportCmd struct {
	period  string
	amount  float64
	explain bool
	raw     bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print return, risk and Sharpe ratio for some ETFs" }
func (*reportCmd) Usage() string {
	return `dashboard report [-p <period>] [-a <amount>] [-explain] [-raw] <symbol>...

  Fetches daily prices for the given catalog symbols and prints the analysis.
  Example: dashboard report -p 1y -a 5000 QQQ SPY
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "1y", "Period code (1mo, 3mo, 6mo, 1y, ytd, 5y, 10y) or label.")
	f.Float64Var(&c.amount, "a", 0, "Investment amount to project. 0 skips the projection.")
	f.BoolVar(&c.explain, "explain", false, "Ask OpenAI for a plain-language explanation.")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown instead of rendering it.")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	controller := dashboard.NewController(marketClient(cfg), cfg.MarketData.Workers)
	rep, err := controller.Analyze(ctx, dashboard.Selection{Symbols: f.Args(), PeriodLabel: c.period})
	if err != nil {
		fmt.Fprintln(os.Stderr, dashboard.UserMessage(err))
		return subcommands.ExitUsageError
	}

	var projections []dashboard.Projection
	if c.amount != 0 {
		projections, err = dashboard.Project(c.amount, rep.Results)
		if err != nil {
			fmt.Fprintln(os.Stderr, dashboard.UserMessage(err))
			return subcommands.ExitUsageError
		}
	}

	var b strings.Builder
	dashboard.WriteMarkdown(&b, rep, projections)

	if c.explain {
		if !cfg.ExplainerEnabled() {
			fmt.Fprintln(os.Stderr, "Error: -explain needs OPENAI_API_KEY")
			return subcommands.ExitUsageError
		}
		ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
		defer cancel()
		text, err := openai.NewExplainer(cfg.OpenAI.APIKey, cfg.OpenAI.Model).Explain(ctx, b.String())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error explaining report: %v\n", err)
			return subcommands.ExitFailure
		}
		b.WriteString("## Explicación\n\n" + text + "\n")
	}

	if c.raw {
		fmt.Print(b.String())
	} else {
		printMarkdown(b.String())
	}
	return subcommands.ExitSuccess
}
