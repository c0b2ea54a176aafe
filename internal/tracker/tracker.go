// Package tracker owns the holdings set for a session and orchestrates the
// price-fetch-and-aggregate pipeline around it.
package tracker

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"PortfolioTracker/internal/model"
	"PortfolioTracker/internal/portfolio"
	"PortfolioTracker/internal/recorder"
	"PortfolioTracker/internal/store"
)

// Joiner prices a holdings set, one independent fetch per holding.
type Joiner interface {
	Join(ctx context.Context, holdings []model.Holding) []model.PricedHolding
}

// Tracker holds the in-session holdings slice. Mutations persist through the
// store before they are visible; persistence errors propagate, they are never
// masked.
type Tracker struct {
	mu       sync.Mutex
	store    store.HoldingStore
	joiner   Joiner
	rec      recorder.Recorder
	holdings []model.Holding
}

// New loads the persisted holdings and returns a ready Tracker.
func New(st store.HoldingStore, joiner Joiner, rec recorder.Recorder) (*Tracker, error) {
	holdings, err := st.Load()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Tracker{store: st, joiner: joiner, rec: rec, holdings: holdings}, nil
}

// Holdings returns a copy of the current holdings set.
func (t *Tracker) Holdings() []model.Holding {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.Holding, len(t.holdings))
	copy(out, t.holdings)
	return out
}

// HoldingInput is the raw user input for one new position.
type HoldingInput struct {
	Ticker   string
	Name     string
	Market   model.Market
	Shares   decimal.Decimal
	AvgPrice decimal.Decimal
}

// Add validates the input, rejects duplicates, persists and returns the new
// holding. US tickers are uppercased; KR tickers (numeric codes) are kept
// as entered.
func (t *Tracker) Add(input HoldingInput) (model.Holding, error) {
	h, err := buildHolding(input)
	if err != nil {
		return model.Holding{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, existing := range t.holdings {
		if existing.Ticker == h.Ticker && existing.Market == h.Market {
			return model.Holding{}, &DuplicateError{Ticker: h.Ticker, Market: h.Market}
		}
	}

	next := make([]model.Holding, len(t.holdings), len(t.holdings)+1)
	copy(next, t.holdings)
	next = append(next, h)
	if err := t.store.Save(next); err != nil {
		return model.Holding{}, err
	}
	t.holdings = next
	log.Printf("[INFO] holding added: %s (%s)", h.Ticker, h.Market)
	return h, nil
}

func buildHolding(input HoldingInput) (model.Holding, error) {
	ticker := strings.TrimSpace(input.Ticker)
	name := strings.TrimSpace(input.Name)
	switch {
	case !input.Market.Valid():
		return model.Holding{}, &InvalidInputError{Field: "market", Reason: "must be KR or US"}
	case ticker == "":
		return model.Holding{}, &InvalidInputError{Field: "ticker", Reason: "must not be empty"}
	case name == "":
		return model.Holding{}, &InvalidInputError{Field: "name", Reason: "must not be empty"}
	case !input.Shares.IsPositive():
		return model.Holding{}, &InvalidInputError{Field: "shares", Reason: "must be positive"}
	case !input.AvgPrice.IsPositive():
		return model.Holding{}, &InvalidInputError{Field: "avg_price", Reason: "must be positive"}
	}
	if input.Market == model.MarketUS {
		ticker = strings.ToUpper(ticker)
	}
	return model.Holding{
		Ticker:   ticker,
		Name:     name,
		Market:   input.Market,
		Shares:   input.Shares,
		AvgPrice: input.AvgPrice,
		Currency: input.Market.Currency(),
	}, nil
}

// Remove deletes the holding with the given display name and persists the
// shrunken set.
func (t *Tracker) Remove(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := make([]model.Holding, 0, len(t.holdings))
	for _, h := range t.holdings {
		if h.Name != name {
			next = append(next, h)
		}
	}
	if len(next) == len(t.holdings) {
		return ErrHoldingNotFound
	}
	if err := t.store.Save(next); err != nil {
		return err
	}
	t.holdings = next
	log.Printf("[INFO] holding removed: %s", name)
	return nil
}

// Refresh prices every holding, evaluates the priced set and aggregates it
// into a snapshot. Individual price failures only shrink the snapshot; the
// all-failed case returns ErrNoValidPrices.
func (t *Tracker) Refresh(ctx context.Context) (*model.PortfolioSnapshot, error) {
	holdings := t.Holdings()
	if len(holdings) == 0 {
		return nil, ErrNoHoldings
	}

	priced := t.joiner.Join(ctx, holdings)
	evaluated := portfolio.Evaluate(priced)
	if len(evaluated) == 0 {
		return nil, ErrNoValidPrices
	}

	snap := &model.PortfolioSnapshot{
		Holdings:  evaluated,
		FetchedAt: time.Now(),
	}
	for _, p := range priced {
		if !p.Available {
			snap.Unpriced = append(snap.Unpriced, p.Key())
		}
	}
	for _, market := range []model.Market{model.MarketKR, model.MarketUS} {
		subset := portfolio.ByMarket(evaluated, market)
		ret, ok := portfolio.SegmentReturn(subset)
		if !ok {
			continue
		}
		costBasis := portfolio.SumCostBasis(subset)
		marketValue := portfolio.SumMarketValue(subset)
		snap.Segments = append(snap.Segments, model.SegmentSummary{
			Market:      market,
			Count:       len(subset),
			CostBasis:   costBasis,
			MarketValue: marketValue,
			ProfitLoss:  marketValue.Sub(costBasis),
			ReturnPct:   ret,
		})
	}
	// Unweighted mean, on purpose: see OverallAverageReturn.
	snap.AverageReturnPct, _ = portfolio.OverallAverageReturn(evaluated)

	if err := t.rec.RecordSnapshot(snap); err != nil {
		log.Printf("[ERROR] record snapshot: %v", err)
	}
	return snap, nil
}
