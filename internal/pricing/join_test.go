package pricing

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"PortfolioTracker/internal/model"
)

// stubFetcher prices tickers from a fixed map; anything absent fails.
type stubFetcher struct {
	prices map[string]decimal.Decimal
	delay  time.Duration
	calls  atomic.Int64
}

func (s *stubFetcher) Latest(ctx context.Context, ticker string, _ model.Market) (decimal.Decimal, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return decimal.Zero, ctx.Err()
		}
	}
	p, ok := s.prices[ticker]
	if !ok {
		return decimal.Zero, errors.New("unknown ticker")
	}
	return p, nil
}

func makeHoldings(tickers ...string) []model.Holding {
	out := make([]model.Holding, len(tickers))
	for i, tk := range tickers {
		out[i] = model.Holding{
			Ticker:   tk,
			Name:     tk,
			Market:   model.MarketUS,
			Shares:   decimal.NewFromInt(1),
			AvgPrice: decimal.NewFromInt(100),
			Currency: model.CurrencyUSD,
		}
	}
	return out
}

func TestJoin_PreservesLengthAndOrder(t *testing.T) {
	fetcher := &stubFetcher{prices: map[string]decimal.Decimal{
		"AAPL": decimal.NewFromInt(165),
		"MSFT": decimal.NewFromInt(310),
		"NVDA": decimal.NewFromInt(480),
	}}
	holdings := makeHoldings("AAPL", "MSFT", "NVDA")

	priced := NewJoiner(fetcher, 2).Join(context.Background(), holdings)
	if len(priced) != len(holdings) {
		t.Fatalf("expected %d results, got %d", len(holdings), len(priced))
	}
	for i, p := range priced {
		if p.Ticker != holdings[i].Ticker {
			t.Errorf("slot %d: expected %s, got %s", i, holdings[i].Ticker, p.Ticker)
		}
		if !p.Available {
			t.Errorf("slot %d (%s): expected available", i, p.Ticker)
		}
	}
	if !priced[1].Price.Equal(decimal.NewFromInt(310)) {
		t.Errorf("MSFT price: expected 310, got %s", priced[1].Price)
	}
}

func TestJoin_PartialFailureIsIsolated(t *testing.T) {
	fetcher := &stubFetcher{prices: map[string]decimal.Decimal{
		"AAPL": decimal.NewFromInt(165),
	}}
	priced := NewJoiner(fetcher, 4).Join(context.Background(), makeHoldings("AAPL", "BOGUS", "ALSOBAD"))

	if !priced[0].Available {
		t.Error("AAPL should be priced despite sibling failures")
	}
	if priced[1].Available || priced[2].Available {
		t.Error("failed fetches must come back unavailable")
	}
}

func TestJoin_EmptyInput(t *testing.T) {
	fetcher := &stubFetcher{}
	priced := NewJoiner(fetcher, 4).Join(context.Background(), nil)
	if len(priced) != 0 {
		t.Fatalf("expected empty output, got %d", len(priced))
	}
	if fetcher.calls.Load() != 0 {
		t.Errorf("expected no fetches, got %d", fetcher.calls.Load())
	}
}

func TestJoin_OneFetchPerHolding(t *testing.T) {
	fetcher := &stubFetcher{prices: map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(1)}}
	holdings := makeHoldings("AAPL", "MSFT", "NVDA", "AMZN", "GOOG")
	NewJoiner(fetcher, 3).Join(context.Background(), holdings)
	if got := fetcher.calls.Load(); got != int64(len(holdings)) {
		t.Errorf("expected %d fetches, got %d", len(holdings), got)
	}
}

func TestJoin_ConcurrentAssembly(t *testing.T) {
	// Many holdings with a slow fetcher; run with -race to catch unsynchronized
	// writes into the output slice.
	prices := map[string]decimal.Decimal{}
	tickers := make([]string, 64)
	for i := range tickers {
		tickers[i] = "T" + string(rune('A'+i%26)) + string(rune('A'+i/26))
		prices[tickers[i]] = decimal.NewFromInt(int64(i + 1))
	}
	fetcher := &stubFetcher{prices: prices, delay: time.Millisecond}

	priced := NewJoiner(fetcher, 8).Join(context.Background(), makeHoldings(tickers...))
	for i, p := range priced {
		if p.Ticker != tickers[i] {
			t.Fatalf("slot %d holds %s, expected %s", i, p.Ticker, tickers[i])
		}
		if !p.Price.Equal(decimal.NewFromInt(int64(i + 1))) {
			t.Fatalf("slot %d price %s, expected %d", i, p.Price, i+1)
		}
	}
}
