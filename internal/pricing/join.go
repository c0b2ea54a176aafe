// Package pricing joins a holdings set with one price fetch per holding.
package pricing

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"PortfolioTracker/internal/model"
)

// PriceFetcher resolves one latest price. Failures surface as an error that
// the join turns into an unavailable slot, never into a batch failure.
type PriceFetcher interface {
	Latest(ctx context.Context, ticker string, market model.Market) (decimal.Decimal, error)
}

// Joiner fans price fetches out over a bounded worker pool. Each holding's
// outcome is independent; results land in index-addressed slots so the output
// keeps the input's length and order regardless of completion order.
type Joiner struct {
	fetcher PriceFetcher
	workers int
}

// NewJoiner creates a Joiner. workers <= 0 falls back to 4.
func NewJoiner(fetcher PriceFetcher, workers int) *Joiner {
	if workers <= 0 {
		workers = 4
	}
	return &Joiner{fetcher: fetcher, workers: workers}
}

// Join prices every holding and returns a parallel slice of PricedHoldings.
// Holdings whose fetch failed come back with Available=false.
func (j *Joiner) Join(ctx context.Context, holdings []model.Holding) []model.PricedHolding {
	priced := make([]model.PricedHolding, len(holdings))

	var wg sync.WaitGroup
	sem := make(chan struct{}, j.workers)
	for i, h := range holdings {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, h model.Holding) {
			defer wg.Done()
			defer func() { <-sem }()
			price, err := j.fetcher.Latest(ctx, h.Ticker, h.Market)
			priced[i] = model.PricedHolding{
				Holding:   h,
				Price:     price,
				Available: err == nil,
			}
		}(i, h)
	}
	wg.Wait()
	return priced
}
