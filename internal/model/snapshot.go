package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SegmentSummary aggregates the evaluated holdings of one market segment.
// ReturnPct here is the value-weighted (cost-basis-weighted) blended return,
// unlike PortfolioSnapshot.AverageReturnPct which is an unweighted mean.
type SegmentSummary struct {
	Market      Market          `json:"market"`
	Count       int             `json:"count"`
	CostBasis   decimal.Decimal `json:"cost_basis"`
	MarketValue decimal.Decimal `json:"market_value"`
	ProfitLoss  decimal.Decimal `json:"profit_loss"`
	ReturnPct   decimal.Decimal `json:"return_pct"`
}

// PortfolioSnapshot is the result of one refresh cycle: every holding that
// could be priced, per-segment aggregates, and the overall average return.
type PortfolioSnapshot struct {
	Holdings         []EvaluatedHolding `json:"holdings"`
	Segments         []SegmentSummary   `json:"segments"`
	AverageReturnPct decimal.Decimal    `json:"average_return_pct"`
	Unpriced         []string           `json:"unpriced,omitempty"`
	FetchedAt        time.Time          `json:"fetched_at"`
}
