// Package portfolio derives financial metrics from priced holdings.
// Everything here is a pure transform; no rounding is applied — display
// formatting belongs to the presentation layer.
package portfolio

import (
	"github.com/shopspring/decimal"

	"PortfolioTracker/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Evaluate drops holdings whose price is unavailable and computes cost basis,
// market value, profit/loss and return percentage for the rest. The result
// preserves input order.
func Evaluate(priced []model.PricedHolding) []model.EvaluatedHolding {
	evaluated := make([]model.EvaluatedHolding, 0, len(priced))
	for _, p := range priced {
		if !p.Available {
			continue
		}
		costBasis := p.AvgPrice.Mul(p.Shares)
		marketValue := p.Price.Mul(p.Shares)
		evaluated = append(evaluated, model.EvaluatedHolding{
			Holding:      p.Holding,
			CurrentPrice: p.Price,
			CostBasis:    costBasis,
			MarketValue:  marketValue,
			ProfitLoss:   marketValue.Sub(costBasis),
			// AvgPrice > 0 is guaranteed by the holding invariant.
			ReturnPct: p.Price.Sub(p.AvgPrice).Div(p.AvgPrice).Mul(hundred),
		})
	}
	return evaluated
}

// SumCostBasis sums the cost basis over a subset.
func SumCostBasis(holdings []model.EvaluatedHolding) decimal.Decimal {
	sum := decimal.Zero
	for _, h := range holdings {
		sum = sum.Add(h.CostBasis)
	}
	return sum
}

// SumMarketValue sums the market value over a subset.
func SumMarketValue(holdings []model.EvaluatedHolding) decimal.Decimal {
	sum := decimal.Zero
	for _, h := range holdings {
		sum = sum.Add(h.MarketValue)
	}
	return sum
}

// SegmentReturn is the value-weighted blended return of a subset:
// (sum market value - sum cost basis) / sum cost basis * 100.
// ok is false when the subset has zero cost basis (i.e. it is empty).
func SegmentReturn(holdings []model.EvaluatedHolding) (ret decimal.Decimal, ok bool) {
	costBasis := SumCostBasis(holdings)
	if costBasis.IsZero() {
		return decimal.Zero, false
	}
	return SumMarketValue(holdings).Sub(costBasis).Div(costBasis).Mul(hundred), true
}

// OverallAverageReturn is the unweighted arithmetic mean of per-holding
// return percentages. Note this deliberately differs from SegmentReturn:
// a small position moves it as much as a large one.
// ok is false when the set is empty.
func OverallAverageReturn(holdings []model.EvaluatedHolding) (ret decimal.Decimal, ok bool) {
	if len(holdings) == 0 {
		return decimal.Zero, false
	}
	sum := decimal.Zero
	for _, h := range holdings {
		sum = sum.Add(h.ReturnPct)
	}
	return sum.Div(decimal.NewFromInt(int64(len(holdings)))), true
}

// ByMarket filters a subset down to one market segment, preserving order.
func ByMarket(holdings []model.EvaluatedHolding, market model.Market) []model.EvaluatedHolding {
	out := make([]model.EvaluatedHolding, 0, len(holdings))
	for _, h := range holdings {
		if h.Market == market {
			out = append(out, h)
		}
	}
	return out
}
