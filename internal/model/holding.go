package model

import "github.com/shopspring/decimal"

// Market identifies which exchange segment a holding trades on.
type Market string

const (
	MarketKR Market = "KR" // domestic, priced via KRX
	MarketUS Market = "US" // foreign, priced via Yahoo Finance
)

// Valid reports whether m is a known market segment.
func (m Market) Valid() bool {
	return m == MarketKR || m == MarketUS
}

// Currency returns the quote currency implied by the market.
func (m Market) Currency() Currency {
	if m == MarketKR {
		return CurrencyKRW
	}
	return CurrencyUSD
}

// Currency is the currency a holding is quoted in.
type Currency string

const (
	CurrencyKRW Currency = "KRW"
	CurrencyUSD Currency = "USD"
)

// Holding is one tracked position: ticker, quantity and cost basis.
// (Ticker, Market) is unique within a holdings set.
type Holding struct {
	Ticker   string          `json:"ticker"`
	Name     string          `json:"name"`
	Market   Market          `json:"market"`
	Shares   decimal.Decimal `json:"shares"`
	AvgPrice decimal.Decimal `json:"avg_price"`
	Currency Currency        `json:"currency"`
}

// Key returns the identity of the holding within a set.
func (h Holding) Key() string {
	return string(h.Market) + ":" + h.Ticker
}

// PricedHolding is a Holding joined with the outcome of one price fetch.
// It is rebuilt on every refresh cycle and never persisted.
type PricedHolding struct {
	Holding
	Price     decimal.Decimal // latest close, meaningful only when Available
	Available bool
}

// EvaluatedHolding is a PricedHolding with a resolved price plus derived
// financial metrics:
//
//	CostBasis   = AvgPrice * Shares
//	MarketValue = CurrentPrice * Shares
//	ProfitLoss  = MarketValue - CostBasis
//	ReturnPct   = (CurrentPrice - AvgPrice) / AvgPrice * 100
//
// Holdings whose price was unavailable never become one.
type EvaluatedHolding struct {
	Holding
	CurrentPrice decimal.Decimal `json:"current_price"`
	CostBasis    decimal.Decimal `json:"cost_basis"`
	MarketValue  decimal.Decimal `json:"market_value"`
	ProfitLoss   decimal.Decimal `json:"profit_loss"`
	ReturnPct    decimal.Decimal `json:"return_pct"`
}
