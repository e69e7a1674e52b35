package dashboard

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"etfDashboard/internal/finance"
)

type fakeMarket struct {
	mu       sync.Mutex
	series   map[string][]float64
	fail     map[string]bool
	rf       *float64
	rfErr    error
	requests []string
}

func (f *fakeMarket) FetchPriceHistory(_ context.Context, symbol, periodCode string) (finance.PriceSeries, error) {
	f.mu.Lock()
	f.requests = append(f.requests, symbol+"/"+periodCode)
	f.mu.Unlock()
	if f.fail[symbol] {
		return finance.PriceSeries{Symbol: symbol}, errors.New("connection reset")
	}
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	s := finance.PriceSeries{Symbol: symbol}
	for i, c := range f.series[symbol] {
		s.Points = append(s.Points, finance.PricePoint{Date: start.AddDate(0, 0, i), Close: c})
	}
	return s, nil
}

func (f *fakeMarket) FetchRiskFreeRate(context.Context) (*float64, error) {
	return f.rf, f.rfErr
}

func rate(v float64) *float64 { return &v }

func TestSessionTransitions(t *testing.T) {
	s := NewSession()
	if s.State() != StateLoginForm {
		t.Fatalf("initial state = %s", s.State())
	}

	incomplete := []LoginForm{
		{},
		{FullName: "Ana", PolicyNumber: "P-1"},
		{FullName: "Ana", Password: "x"},
		{PolicyNumber: "P-1", Password: "x"},
		{FullName: "   ", PolicyNumber: "P-1", Password: "x"},
	}
	for _, f := range incomplete {
		if err := s.Login(f); !errors.Is(err, ErrMissingFields) {
			t.Errorf("Login(%+v) = %v, want ErrMissingFields", f, err)
		}
		if s.State() != StateLoginForm {
			t.Fatalf("state changed on incomplete form %+v", f)
		}
	}

	if err := s.Login(LoginForm{FullName: " Ana López ", PolicyNumber: "P-1", Password: "x"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.State() != StateDashboard || s.HolderName() != "Ana López" {
		t.Fatalf("state = %s holder = %q", s.State(), s.HolderName())
	}

	s.Return()
	if s.State() != StateLoginForm || s.HolderName() != "" {
		t.Fatalf("after Return state = %s holder = %q", s.State(), s.HolderName())
	}
}

func TestResolve(t *testing.T) {
	ins, p, err := Resolve(Selection{Symbols: []string{"spy", "QQQ", "SPY", ""}, PeriodLabel: "1 año"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ins) != 2 || ins[0].Symbol != "SPY" || ins[1].Symbol != "QQQ" || p.Code != "1y" {
		t.Errorf("Resolve = %+v %+v", ins, p)
	}

	if _, p, err := Resolve(Selection{Symbols: []string{"AGG"}, PeriodLabel: "ytd"}); err != nil || p.Label != "año a la fecha" {
		t.Errorf("period code fallback failed: %+v %v", p, err)
	}
	if _, _, err := Resolve(Selection{Symbols: []string{"SPY"}, PeriodLabel: "2 años"}); !errors.Is(err, ErrUnknownPeriod) {
		t.Errorf("err = %v, want ErrUnknownPeriod", err)
	}
	if _, _, err := Resolve(Selection{Symbols: []string{"TSLA"}, PeriodLabel: "1 mes"}); !errors.Is(err, ErrUnknownInstrument) {
		t.Errorf("err = %v, want ErrUnknownInstrument", err)
	}
	if _, _, err := Resolve(Selection{PeriodLabel: "1 mes"}); !errors.Is(err, ErrNoSelection) {
		t.Errorf("err = %v, want ErrNoSelection", err)
	}
}

func TestAnalyze(t *testing.T) {
	g := NewWithT(t)
	m := &fakeMarket{
		series: map[string][]float64{
			"QQQ": {100, 105, 121},
			"SPY": {100, 102, 99, 104},
			"AGG": {50, 50, 50},
		},
		rf: rate(0.05),
	}
	c := NewController(m, 1)

	rep, err := c.Analyze(context.Background(), Selection{Symbols: []string{"SPY", "DIA", "QQQ", "AGG"}, PeriodLabel: "1 año"})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(m.requests).To(Equal([]string{"SPY/1y", "DIA/1y", "QQQ/1y", "AGG/1y"}))

	// DIA has no data and is silently left out; order follows the selection.
	g.Expect(rep.Results).To(HaveLen(3))
	g.Expect(rep.Results[0].Instrument.Symbol).To(Equal("SPY"))
	g.Expect(rep.Results[1].Instrument.Symbol).To(Equal("QQQ"))
	g.Expect(rep.Results[2].Instrument.Symbol).To(Equal("AGG"))
	g.Expect(rep.Excluded).To(HaveLen(1))
	g.Expect(rep.Excluded[0].Symbol).To(Equal("DIA"))
	g.Expect(rep.Selected).To(HaveLen(4))

	g.Expect(rep.Results[1].Metrics.TotalReturnPct).To(BeNumerically("~", 21.0, 1e-9))

	// AGG has zero volatility so it has no Sharpe row.
	g.Expect(rep.SharpeAvailable()).To(BeTrue())
	g.Expect(rep.Sharpe).To(HaveLen(2))
	g.Expect(rep.Sharpe[0].Instrument.Symbol).To(Equal("SPY"))
	g.Expect(rep.Sharpe[1].Instrument.Symbol).To(Equal("QQQ"))
	spy := rep.Results[0].Metrics
	g.Expect(rep.Sharpe[0].Ratio).To(BeNumerically("~", (spy.TotalReturnPct/100-0.05)/(spy.AnnualizedVolatilityPct/100), 1e-12))
}

func TestAnalyze_FetchErrorIsOmission(t *testing.T) {
	m := &fakeMarket{
		series: map[string][]float64{"SPY": {1, 2, 3}, "QQQ": {3, 2, 1}},
		fail:   map[string]bool{"SPY": true},
		rf:     rate(0.04),
	}
	rep, err := NewController(m, 2).Analyze(context.Background(), Selection{Symbols: []string{"SPY", "QQQ"}, PeriodLabel: "1 mes"})
	if err != nil {
		t.Fatalf("fetch failure must not propagate: %v", err)
	}
	if len(rep.Results) != 1 || rep.Results[0].Instrument.Symbol != "QQQ" {
		t.Errorf("results = %+v", rep.Results)
	}
}

func TestAnalyze_MissingRiskFreeRate(t *testing.T) {
	for name, m := range map[string]*fakeMarket{
		"absent": {series: map[string][]float64{"SPY": {1, 2, 4}}},
		"error":  {series: map[string][]float64{"SPY": {1, 2, 4}}, rfErr: errors.New("timeout")},
	} {
		t.Run(name, func(t *testing.T) {
			rep, err := NewController(m, 1).Analyze(context.Background(), Selection{Symbols: []string{"SPY"}, PeriodLabel: "1 mes"})
			if err != nil {
				t.Fatal(err)
			}
			if rep.SharpeAvailable() || len(rep.Sharpe) != 0 {
				t.Error("Sharpe section should be unavailable")
			}
			if len(rep.Results) != 1 {
				t.Error("return/risk table must still be produced")
			}
		})
	}
}

func TestAnalyze_ConcurrentKeepsOrder(t *testing.T) {
	m := &fakeMarket{series: map[string][]float64{}, rf: rate(0.01)}
	var syms []string
	for _, s := range []string{"QQQ", "SPY", "DIA", "VWO", "XLF", "XLV", "ITB", "SLV"} {
		m.series[s] = []float64{10, 11, 12, 11}
		syms = append(syms, s)
	}
	rep, err := NewController(m, 4).Analyze(context.Background(), Selection{Symbols: syms, PeriodLabel: "3 meses"})
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range rep.Results {
		if r.Instrument.Symbol != syms[i] {
			t.Fatalf("result %d = %s, want %s", i, r.Instrument.Symbol, syms[i])
		}
	}
}

func TestChartLines(t *testing.T) {
	m := &fakeMarket{series: map[string][]float64{"SPY": {1, 2, 3, 4}, "QQQ": {5, 6}}, rf: rate(0.01)}
	rep, err := NewController(m, 1).Analyze(context.Background(), Selection{Symbols: []string{"SPY", "QQQ"}, PeriodLabel: "1 mes"})
	if err != nil {
		t.Fatal(err)
	}
	ret := rep.CumulativeReturnLines()
	if len(ret) != 2 || ret[0].Points[0].Value != 0 {
		t.Errorf("return lines = %+v", ret)
	}
	vol := rep.CumulativeVolatilityLines()
	if len(vol) != 1 || vol[0].Name != "AZ SPDR S&P 500 ETF TRUST" {
		t.Errorf("volatility lines should skip short series: %+v", vol)
	}
}

func TestProject(t *testing.T) {
	g := NewWithT(t)
	results := []Result{{Metrics: finance.Metrics{TotalReturnPct: 21.0}}}

	ps, err := Project(1000, results)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(ps).To(HaveLen(1))
	g.Expect(ps[0].FinalBalance.StringFixed(2)).To(Equal("1210.00"))
	g.Expect(ps[0].FinalDisplay()).To(Equal("$1,210.00"))
	g.Expect(ps[0].AmountDisplay()).To(Equal("$1,000.00"))

	_, err = Project(999, results)
	g.Expect(errors.Is(err, ErrBelowMinimum)).To(BeTrue())
	_, err = Project(999.99, results)
	g.Expect(errors.Is(err, ErrBelowMinimum)).To(BeTrue())

	loss, err := Project(2500, []Result{{Metrics: finance.Metrics{TotalReturnPct: -12.3}}})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(loss[0].FinalBalance.StringFixed(2)).To(Equal("2192.50"))
}

func TestProject_InvalidAmount(t *testing.T) {
	if _, err := Project(math.NaN(), nil); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
	if UserMessage(ErrInvalidAmount) != MsgBelowMinimum {
		t.Error("invalid amounts should show the minimum contribution message")
	}
}

func TestWriteMarkdown(t *testing.T) {
	m := &fakeMarket{series: map[string][]float64{"QQQ": {100, 105, 121}, "AGG": {10, 10, 10}}, rf: rate(0.05)}
	rep, err := NewController(m, 1).Analyze(context.Background(), Selection{Symbols: []string{"QQQ", "AGG"}, PeriodLabel: "1 año"})
	if err != nil {
		t.Fatal(err)
	}
	ps, err := Project(1000, rep.Results)
	if err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	WriteMarkdown(&b, rep, ps)
	out := b.String()
	for _, want := range []string{
		"Periodo: **1 año**",
		"| AZ QQQ NASDAQ 100 | 21.00 |",
		"| AZ BARCLAYS AGGREGATE | 0.00 | 0.00 |",
		"## Sharpe Ratio Calculado",
		"tu saldo final sería de **$1,210.00**",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "AZ BARCLAYS AGGREGATE |") != 1 {
		t.Error("zero-volatility instrument must not appear in the Sharpe table")
	}

	rep.RiskFreeRate = nil
	b.Reset()
	WriteMarkdown(&b, rep, nil)
	if !strings.Contains(b.String(), MsgNoRiskFreeRate) {
		t.Error("expected risk free warning")
	}
}

func TestFormat2(t *testing.T) {
	cases := map[float64]string{12.345: "12.35", -0.001: "0.00", 21.000000000000004: "21.00", -3.5: "-3.50"}
	for in, want := range cases {
		if got := Format2(in); got != want {
			t.Errorf("Format2(%v) = %q, want %q", in, got, want)
		}
	}
}
