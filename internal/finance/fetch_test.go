package finance

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const chartJSON = `{"chart":{"result":[{"meta":{"symbol":"SPY","exchangeTimezoneName":"America/New_York"},
"timestamp":[1704205800,1704292200,1704378600,1704465000],
"indicators":{"quote":[{"close":[470.0,null,467.5,480.25]}],
"adjclose":[{"adjclose":[465.0,null,462.5,475.25]}]}}],"error":null}}`

const irxJSON = `{"chart":{"result":[{"meta":{"symbol":"^IRX"},"timestamp":[1704465000],
"indicators":{"quote":[{"close":[5.2]}]}}],"error":null}}`

func newTestClient(hosts ...string) *Client {
	c := NewClient(ClientOptions{Hosts: hosts, Timeout: 5 * time.Second})
	c.Backoffs = []time.Duration{time.Millisecond}
	return c
}

func TestFetchPriceHistory(t *testing.T) {
	var gotPath, gotRange, gotInterval string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		gotInterval = r.URL.Query().Get("interval")
		w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	s, err := newTestClient(srv.URL).FetchPriceHistory(context.Background(), "spy", "1y")
	if err != nil {
		t.Fatalf("FetchPriceHistory: %v", err)
	}
	if gotPath != "/v8/finance/chart/SPY" || gotRange != "1y" || gotInterval != "1d" {
		t.Errorf("unexpected request path=%q range=%q interval=%q", gotPath, gotRange, gotInterval)
	}
	if s.Len() != 3 {
		t.Fatalf("expected null bar to be dropped, got %d points", s.Len())
	}
	if s.First() != 465.0 || s.Last() != 475.25 {
		t.Errorf("expected adjusted closes, got first=%v last=%v", s.First(), s.Last())
	}
	for i := 1; i < s.Len(); i++ {
		if !s.Points[i-1].Date.Before(s.Points[i].Date) {
			t.Fatal("points not chronological")
		}
	}
}

func TestFetchPriceHistory_CloseWithoutAdjClose(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(irxJSON))
	}))
	defer srv.Close()

	s, err := newTestClient(srv.URL).FetchPriceHistory(context.Background(), "^IRX", "1d")
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 || s.First() != 5.2 {
		t.Errorf("unexpected series %+v", s)
	}
}

func TestFetchPriceHistory_NoData(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"404": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
		},
		"empty result": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
		},
		"no timestamps": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"chart":{"result":[{"meta":{},"indicators":{"quote":[{}]}}],"error":null}}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			s, err := newTestClient(srv.URL).FetchPriceHistory(context.Background(), "ZZZZ", "1mo")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !s.Empty() {
				t.Errorf("expected empty series, got %d points", s.Len())
			}
		})
	}
}

func TestFetchPriceHistory_HostFailover(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("Edge: Too Many Requests"))
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chartJSON))
	}))
	defer good.Close()

	s, err := newTestClient(bad.URL, good.URL).FetchPriceHistory(context.Background(), "SPY", "1mo")
	if err != nil {
		t.Fatalf("expected failover to second host, got %v", err)
	}
	if s.Empty() {
		t.Fatal("expected data from second host")
	}
}

func TestFetchPriceHistory_NoRetryByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("x", 500)))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchPriceHistory(context.Background(), "SPY", "1mo")
	if err == nil {
		t.Fatal("expected error")
	}
	if len(err.Error()) > 200 {
		t.Errorf("error body preview should be truncated: %d chars", len(err.Error()))
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected a single request, got %d", n)
	}

	c := newTestClient(srv.URL)
	c.Retries = 2
	atomic.StoreInt32(&calls, 0)
	if _, err := c.FetchPriceHistory(context.Background(), "SPY", "1mo"); err == nil {
		t.Fatal("expected error")
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("expected 3 requests with 2 retries, got %d", n)
	}
}

func TestFetchRiskFreeRate(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(irxJSON))
	}))
	defer srv.Close()

	rf, err := newTestClient(srv.URL).FetchRiskFreeRate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rf == nil || math.Abs(*rf-0.052) > 1e-12 {
		t.Errorf("rate = %v, want 0.052", rf)
	}
	if gotPath != "/v8/finance/chart/%5EIRX" && gotPath != "/v8/finance/chart/^IRX" {
		t.Errorf("unexpected path %q", gotPath)
	}
}

func TestFetchRiskFreeRate_Absent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	rf, err := newTestClient(srv.URL).FetchRiskFreeRate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if rf != nil {
		t.Errorf("expected absent rate, got %v", *rf)
	}
}
