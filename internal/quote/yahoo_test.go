package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const yahooBody = `{
	"chart": {
		"result": [{
			"timestamp": [1704153600, 1704240000, 1704326400],
			"indicators": {
				"quote": [{
					"close": [150.25, null, 165.5]
				}]
			}
		}],
		"error": null
	}
}`

func TestYahooSource_ParsesChart(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(yahooBody))
	}))
	defer srv.Close()

	s := NewYahooSource(srv.URL, "")
	to := time.Now()
	candles, err := s.DailyCloses(context.Background(), "AAPL", to.AddDate(0, 0, -5), to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v8/finance/chart/AAPL" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	// The null bar is dropped.
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if !candles[1].Close.Equal(decimal.NewFromFloat(165.5)) {
		t.Errorf("last close: expected 165.5, got %s", candles[1].Close)
	}
	if !candles[0].Date.Before(candles[1].Date) {
		t.Error("candles must be sorted oldest first")
	}
}

func TestYahooSource_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	s := NewYahooSource(srv.URL, "")
	_, err := s.DailyCloses(context.Background(), "BOGUS", time.Now().AddDate(0, 0, -5), time.Now())
	if err == nil {
		t.Fatal("expected error for API error payload")
	}
}

func TestYahooSource_HTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewYahooSource(srv.URL, "")
	_, err := s.DailyCloses(context.Background(), "AAPL", time.Now().AddDate(0, 0, -5), time.Now())
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestYahooRange(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{1, "5d"},
		{5, "5d"},
		{6, "1mo"},
		{30, "1mo"},
		{90, "3mo"},
		{180, "6mo"},
	}
	for _, tt := range tests {
		if got := yahooRange(tt.days); got != tt.want {
			t.Errorf("yahooRange(%d): expected %s, got %s", tt.days, tt.want, got)
		}
	}
}
