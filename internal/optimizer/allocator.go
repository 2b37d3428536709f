package optimizer

import (
	"mkto/internal/domain"

	"github.com/shopspring/decimal"
)

// ReserveFraction is the share of the max affordable lot the greedy pass
// actually buys per asset. Holding back 30% keeps budget available for
// assets further down the ranking.
var ReserveFraction = decimal.NewFromFloat(0.7)

// AllocateGreedy walks the ranking once, buying a whole-share lot of each
// affordable asset. Skipped assets are skipped for good - there is no
// backtracking. Allocation order is exactly the ranking order, so the
// output is deterministic for a given ranking.
func AllocateGreedy(ranked []domain.RankedAsset, budget decimal.Decimal) []domain.Holding {
	holdings := []domain.Holding{}
	remaining := budget

	for _, asset := range ranked {
		price := asset.PriceDecimal()
		if price.GreaterThan(remaining) {
			continue
		}

		maxShares := remaining.Div(price).Floor()
		shares := maxShares.Mul(ReserveFraction).Floor().IntPart()
		if shares < 1 {
			shares = 1
		}

		investment := price.Mul(decimal.NewFromInt(shares))
		remaining = remaining.Sub(investment)

		holdings = append(holdings, domain.Holding{
			Symbol:         asset.Symbol,
			Price:          asset.Price,
			ExpectedReturn: asset.ExpectedReturn,
			Risk:           asset.Risk,
			Shares:         shares,
			Investment:     investment,
		})
	}

	return holdings
}
