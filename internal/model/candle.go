package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle is one daily session from a market data source. Only the close is
// needed for valuation; sources discard the rest of the OHLCV row.
type Candle struct {
	Date  time.Time
	Close decimal.Decimal
}
