package quote

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"PortfolioTracker/internal/model"
)

var (
	// ErrEmptyWindow means the source answered but had no sessions in the
	// requested window.
	ErrEmptyWindow = errors.New("no sessions in lookback window")

	// ErrUnknownMarket means the holding names a market no source covers.
	ErrUnknownMarket = errors.New("unknown market")
)

// UnavailableError marks a price that could not be retrieved this cycle.
// It is the only error Latest returns: every retrieval failure is recovered
// into one so a single bad ticker can never abort a whole refresh.
type UnavailableError struct {
	Ticker string
	Market model.Market
	Cause  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("price unavailable for %s (%s): %v", e.Ticker, e.Market, e.Cause)
}

func (e *UnavailableError) Unwrap() error { return e.Cause }

// Provider resolves the latest price for a ticker by querying the source for
// its market segment over a short trailing window and taking the most recent
// close. Searching backward instead of demanding today's date keeps lookups
// working on weekends and holidays.
type Provider struct {
	domestic Source
	foreign  Source

	timeout         time.Duration
	domesticDays    int // calendar days of KRX lookback
	foreignSessions int // Yahoo daily sessions of lookback
}

// ProviderConfig carries the tunables for a Provider. Zero values fall back
// to the defaults from the reference behavior (7 days / 5 sessions / 10s).
type ProviderConfig struct {
	Timeout         time.Duration
	DomesticDays    int
	ForeignSessions int
}

// NewProvider creates a Provider over the two segment sources.
func NewProvider(domestic, foreign Source, cfg ProviderConfig) *Provider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.DomesticDays <= 0 {
		cfg.DomesticDays = 7
	}
	if cfg.ForeignSessions <= 0 {
		cfg.ForeignSessions = 5
	}
	return &Provider{
		domestic:        domestic,
		foreign:         foreign,
		timeout:         cfg.Timeout,
		domesticDays:    cfg.DomesticDays,
		foreignSessions: cfg.ForeignSessions,
	}
}

// Latest returns the most recent close for ticker on market, or an
// *UnavailableError. No retry, no caching: a single best-effort attempt
// bounded by the configured timeout.
func (p *Provider) Latest(ctx context.Context, ticker string, market model.Market) (decimal.Decimal, error) {
	var (
		src  Source
		days int
	)
	switch market {
	case model.MarketKR:
		src, days = p.domestic, p.domesticDays
	case model.MarketUS:
		src, days = p.foreign, p.foreignSessions
	default:
		return decimal.Zero, p.unavailable(ticker, market, ErrUnknownMarket)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	to := time.Now()
	from := to.AddDate(0, 0, -days)
	candles, err := src.DailyCloses(ctx, ticker, from, to)
	if err != nil {
		return decimal.Zero, p.unavailable(ticker, market, err)
	}
	if len(candles) == 0 {
		return decimal.Zero, p.unavailable(ticker, market, ErrEmptyWindow)
	}
	return candles[len(candles)-1].Close, nil
}

func (p *Provider) unavailable(ticker string, market model.Market, cause error) *UnavailableError {
	err := &UnavailableError{Ticker: ticker, Market: market, Cause: cause}
	log.Printf("[WARN] %v", err)
	return err
}
