package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"etfDashboard/internal/catalog"
	"etfDashboard/internal/finance"
)

// MarketData is the subset of the market-data client the controller needs.
type MarketData interface {
	FetchPriceHistory(ctx context.Context, symbol, periodCode string) (finance.PriceSeries, error)
	FetchRiskFreeRate(ctx context.Context) (*float64, error)
}

// Selection is what the user picked on the dashboard form.
type Selection struct {
	Symbols     []string
	PeriodLabel string
}

// Result is one analysed instrument.
type Result struct {
	Instrument catalog.Instrument
	Series     finance.PriceSeries
	Metrics    finance.Metrics
}

// SharpeRow is a defined Sharpe ratio for one result.
type SharpeRow struct {
	Instrument catalog.Instrument
	Ratio      float64
}

// Report is the outcome of one analysis, in selection order.
type Report struct {
	Period       catalog.Period
	Selected     []catalog.Instrument
	Results      []Result
	Excluded     []catalog.Instrument
	RiskFreeRate *float64
	Sharpe       []SharpeRow
}

// SharpeAvailable is false when the risk-free rate could not be fetched; the
// Sharpe section is then replaced by a warning.
func (r *Report) SharpeAvailable() bool { return r.RiskFreeRate != nil }

// Controller turns selections into reports.
type Controller struct {
	data    MarketData
	workers int
}

// NewController returns a controller fetching with at most workers concurrent requests.
func NewController(data MarketData, workers int) *Controller {
	if workers < 1 {
		workers = 1
	}
	return &Controller{data: data, workers: workers}
}

// Resolve maps a selection onto catalog entries, dropping duplicate symbols.
func Resolve(sel Selection) ([]catalog.Instrument, catalog.Period, error) {
	period, ok := catalog.PeriodByLabel(sel.PeriodLabel)
	if !ok {
		if period, ok = catalog.PeriodByCode(sel.PeriodLabel); !ok {
			return nil, catalog.Period{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, sel.PeriodLabel)
		}
	}
	seen := map[string]bool{}
	var out []catalog.Instrument
	for _, sym := range sel.Symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" || seen[sym] {
			continue
		}
		in, ok := catalog.InstrumentBySymbol(sym)
		if !ok {
			return nil, catalog.Period{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, sym)
		}
		seen[sym] = true
		out = append(out, in)
	}
	if len(out) == 0 {
		return nil, catalog.Period{}, ErrNoSelection
	}
	return out, period, nil
}

// Analyze fetches every selected instrument, computes its metrics and the
// Sharpe table. Instruments whose history is empty or could not be fetched are
// left out of the results and listed in Excluded.
func (c *Controller) Analyze(ctx context.Context, sel Selection) (*Report, error) {
	instruments, period, err := Resolve(sel)
	if err != nil {
		return nil, err
	}

	series := make([]finance.PriceSeries, len(instruments))
	pool := newWorkerPool(c.workers)
	for i, in := range instruments {
		i, in := i, in
		pool.Submit(func() {
			s, err := c.data.FetchPriceHistory(ctx, in.Symbol, period.Code)
			if err != nil {
				log.Warn().Err(err).Str("symbol", in.Symbol).Str("period", period.Code).Msg("dashboard: price history unavailable")
				return
			}
			series[i] = s
		})
	}
	pool.Wait()

	rep := &Report{Period: period, Selected: instruments}
	for i, in := range instruments {
		if series[i].Empty() {
			rep.Excluded = append(rep.Excluded, in)
			continue
		}
		rep.Results = append(rep.Results, Result{
			Instrument: in,
			Series:     series[i],
			Metrics:    finance.Analyze(series[i]),
		})
	}

	rf, err := c.data.FetchRiskFreeRate(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard: risk free rate unavailable")
		rf = nil
	}
	rep.RiskFreeRate = rf
	if rf != nil {
		for _, r := range rep.Results {
			ratio := finance.SharpeRatio(r.Metrics.TotalReturnPct, r.Metrics.AnnualizedVolatilityPct, *rf)
			if ratio == nil {
				continue
			}
			rep.Sharpe = append(rep.Sharpe, SharpeRow{Instrument: r.Instrument, Ratio: *ratio})
		}
	}

	log.Info().Int("selected", len(instruments)).Int("analysed", len(rep.Results)).Str("period", period.Code).Msg("dashboard: analysis done")
	return rep, nil
}

// CumulativeReturnLines returns one chart line per result.
func (r *Report) CumulativeReturnLines() []finance.ChartLine {
	lines := make([]finance.ChartLine, 0, len(r.Results))
	for _, res := range r.Results {
		lines = append(lines, finance.ChartLine{Name: res.Instrument.Name, Points: finance.CumulativeReturnSeries(res.Series)})
	}
	return lines
}

// CumulativeVolatilityLines returns one chart line per result with enough
// observations for an expanding volatility.
func (r *Report) CumulativeVolatilityLines() []finance.ChartLine {
	lines := make([]finance.ChartLine, 0, len(r.Results))
	for _, res := range r.Results {
		pts := finance.CumulativeVolatilitySeries(res.Series)
		if len(pts) == 0 {
			continue
		}
		lines = append(lines, finance.ChartLine{Name: res.Instrument.Name, Points: pts})
	}
	return lines
}
