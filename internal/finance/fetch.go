package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"

// errNoData marks a well-formed response that carries no bars. It never leaves the package.
var errNoData = errors.New("no data")

// ClientOptions configures a Client.
type ClientOptions struct {
	Hosts          []string // base URLs tried in order, e.g. https://query1.finance.yahoo.com
	Timeout        time.Duration
	Retries        int // extra rounds over all hosts after the first; 0 disables retrying
	Proxy          string
	RiskFreeSymbol string
}

// Client fetches daily history from the Yahoo Finance chart API.
// It does not cache anything.
type Client struct {
	HTTP           *http.Client
	Hosts          []string
	Retries        int
	Backoffs       []time.Duration
	RiskFreeSymbol string
}

// NewClient builds a Client from options, filling in Yahoo defaults.
func NewClient(opts ClientOptions) *Client {
	transport := &http.Transport{}
	if opts.Proxy != "" {
		if u, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	hosts := opts.Hosts
	if len(hosts) == 0 {
		hosts = []string{"https://query1.finance.yahoo.com", "https://query2.finance.yahoo.com"}
	}
	rf := opts.RiskFreeSymbol
	if rf == "" {
		rf = "^IRX"
	}
	return &Client{
		HTTP:           &http.Client{Timeout: timeout, Transport: transport},
		Hosts:          hosts,
		Retries:        opts.Retries,
		Backoffs:       []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second},
		RiskFreeSymbol: rf,
	}
}

// FetchPriceHistory retrieves daily closes for the trailing window denoted by
// periodCode (1mo, 3mo, 6mo, 1y, ytd, 5y, 10y). An unknown symbol or a window
// without bars yields an empty series and no error; transport failures are errors.
func (c *Client) FetchPriceHistory(ctx context.Context, symbol, periodCode string) (PriceSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	yc, err := c.fetchChart(ctx, symbol, periodCode)
	if errors.Is(err, errNoData) {
		return PriceSeries{Symbol: symbol}, nil
	}
	if err != nil {
		return PriceSeries{Symbol: symbol}, err
	}
	return seriesFromChart(symbol, yc), nil
}

// FetchRiskFreeRate returns the latest daily close of the 13-week T-bill yield
// as a decimal fraction (4.25% -> 0.0425). It returns nil when there is no
// recent observation.
func (c *Client) FetchRiskFreeRate(ctx context.Context) (*float64, error) {
	s, err := c.FetchPriceHistory(ctx, c.RiskFreeSymbol, "1d")
	if err != nil {
		return nil, fmt.Errorf("risk free rate: %w", err)
	}
	if s.Empty() {
		return nil, nil
	}
	rate := s.Last() / 100
	return &rate, nil
}

// fetchChart runs one round over all hosts, plus c.Retries extra rounds with backoff.
func (c *Client) fetchChart(ctx context.Context, symbol, rangeParam string) (*yahooChartResp, error) {
	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		for _, host := range c.Hosts {
			yc, err := c.fetchFromHost(ctx, host, symbol, rangeParam)
			if err == nil || errors.Is(err, errNoData) {
				return yc, err
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Str("symbol", symbol).Str("host", host).Int("attempt", attempt).Msg("yahoo: fetch failed")
			lastErr = err
		}
		if attempt < c.Retries {
			d := c.Backoffs[len(c.Backoffs)-1]
			if attempt < len(c.Backoffs) {
				d = c.Backoffs[attempt]
			}
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func (c *Client) fetchFromHost(ctx context.Context, host, symbol, rangeParam string) (*yahooChartResp, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d&events=div,splits",
		strings.TrimRight(host, "/"), url.PathEscape(symbol), url.QueryEscape(rangeParam))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", fmt.Sprintf("https://finance.yahoo.com/quote/%s/history", symbol))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("failed to read yahoo response: %w", readErr)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, errNoData
	}
	if resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests") {
		return nil, fmt.Errorf("yahoo %s returned 429: Edge: Too Many Requests", host)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo %s returned %d: %s", host, resp.StatusCode, preview(body))
	}
	if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
		return nil, fmt.Errorf("yahoo returned non-json body: %s", preview(body))
	}

	var yc yahooChartResp
	if err := json.Unmarshal(body, &yc); err != nil {
		return nil, fmt.Errorf("failed to parse yahoo json: %v; body: %s", err, preview(body))
	}
	if yc.Chart.Error != nil || len(yc.Chart.Result) == 0 || len(yc.Chart.Result[0].Timestamp) == 0 {
		return nil, errNoData
	}
	return &yc, nil
}

// seriesFromChart prefers adjusted closes when Yahoo sends a complete adjclose array.
func seriesFromChart(symbol string, yc *yahooChartResp) PriceSeries {
	r := yc.Chart.Result[0]
	var raw []*float64
	if len(r.Indicators.AdjClose) > 0 && len(r.Indicators.AdjClose[0].AdjClose) == len(r.Timestamp) {
		raw = r.Indicators.AdjClose[0].AdjClose
	} else if len(r.Indicators.Quote) > 0 {
		raw = r.Indicators.Quote[0].Close
	}
	ts, cl := filterMissing(r.Timestamp, raw)

	loc := exchangeLocation(r.Meta.ExchangeTimezoneName)
	points := make([]PricePoint, len(ts))
	for i := range ts {
		points[i] = PricePoint{Date: time.Unix(ts[i], 0).In(loc), Close: cl[i]}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return PriceSeries{Symbol: symbol, Points: points}
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
