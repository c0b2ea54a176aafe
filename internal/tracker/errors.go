package tracker

import (
	"errors"
	"fmt"

	"PortfolioTracker/internal/model"
)

var (
	// ErrNoHoldings means the portfolio is empty; there is nothing to price.
	ErrNoHoldings = errors.New("no holdings")

	// ErrNoValidPrices means holdings exist but every price fetch came back
	// unavailable this cycle. Distinct from ErrNoHoldings: the caller should
	// tell the user to check tickers rather than render empty aggregates.
	ErrNoValidPrices = errors.New("no valid prices")

	// ErrHoldingNotFound means a delete named a holding that is not in the set.
	ErrHoldingNotFound = errors.New("holding not found")
)

// DuplicateError rejects an add whose (ticker, market) is already tracked.
// The holdings set is left unchanged.
type DuplicateError struct {
	Ticker string
	Market model.Market
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("holding %s (%s) already exists", e.Ticker, e.Market)
}

// InvalidInputError rejects an add before a Holding is constructed.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
