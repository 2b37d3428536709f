package optimizer

import (
	"context"
	"math"
	"time"

	"mkto/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	// capacity grid resolution; one unit is budget / 1000
	knapsackGridUnits = 1000
	// fixed-point scale applied to scores so the dp table stays integral
	knapsackValueScale = 1_000_000
)

// AllocateExact selects the subset of assets whose single-share costs fit
// the budget and whose summed score is maximal, via 0/1 knapsack over a
// 1000-unit capacity grid. Lot sizing over the winning subset then reuses
// the greedy pass. Cancellation is checked per dp row; an expired ctx
// surfaces as TimeoutError with no partial result.
func AllocateExact(ctx context.Context, ranked []domain.RankedAsset, budget decimal.Decimal) ([]domain.Holding, error) {
	start := time.Now()

	n := len(ranked)
	if n == 0 || !budget.IsPositive() {
		return []domain.Holding{}, nil
	}

	unit := budget.Div(decimal.NewFromInt(knapsackGridUnits))

	// per-share cost in grid units, rounded up so a selection can never
	// exceed the true budget
	weights := make([]int64, n)
	values := make([]int64, n)
	for i, asset := range ranked {
		weights[i] = asset.PriceDecimal().Div(unit).Ceil().IntPart()
		values[i] = int64(math.Round(asset.Efficiency * knapsackValueScale))
	}

	dp := make([][]int64, n+1)
	for i := range dp {
		dp[i] = make([]int64, knapsackGridUnits+1)
	}

	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, TimeoutError{Elapsed: time.Since(start)}
		}
		for w := int64(0); w <= knapsackGridUnits; w++ {
			dp[i][w] = dp[i-1][w]
			if weights[i-1] <= w {
				include := dp[i-1][w-weights[i-1]] + values[i-1]
				// strict improvement only, so equal-value sets resolve to
				// exclusion and backtracking stays deterministic
				if include > dp[i][w] {
					dp[i][w] = include
				}
			}
		}
	}

	selected := make([]domain.RankedAsset, 0, n)
	w := int64(knapsackGridUnits)
	for i := n; i >= 1; i-- {
		if dp[i][w] != dp[i-1][w] {
			selected = append(selected, ranked[i-1])
			w -= weights[i-1]
		}
	}

	// backtracking walked the ranking in reverse; restore ranking order
	// before lot sizing
	for i, j := 0, len(selected)-1; i < j; i, j = i+1, j-1 {
		selected[i], selected[j] = selected[j], selected[i]
	}

	return AllocateGreedy(selected, budget), nil
}
