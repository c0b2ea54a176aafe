package quote

import (
	"context"
	"time"

	"PortfolioTracker/internal/model"
)

// Source fetches daily closing prices from one market data backend.
type Source interface {
	// DailyCloses returns the daily sessions for ticker inside [from, to],
	// oldest first. Non-trading days are simply absent from the result.
	DailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]model.Candle, error)
	Name() string
}

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	Candles map[string][]model.Candle // keyed by ticker
	Err     error
	Delay   time.Duration
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) DailyCloses(ctx context.Context, ticker string, _, _ time.Time) ([]model.Candle, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Candles[ticker], nil
}
