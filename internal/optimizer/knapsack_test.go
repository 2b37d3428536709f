package optimizer

import (
	"context"
	"testing"

	"mkto/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_AllocateExact(t *testing.T) {
	t.Run("finds combinations the greedy pass misses", func(t *testing.T) {
		// BIG alone scores highest but crowds out the pair that is jointly
		// better and still affordable
		ranked, err := Rank([]domain.Asset{
			{Symbol: "BIG", Price: 60, ExpectedReturn: 0.6, Risk: 0},
			{Symbol: "PAIRA", Price: 50, ExpectedReturn: 0.3, Risk: 0},
			{Symbol: "PAIRB", Price: 50, ExpectedReturn: 0.3, Risk: 0},
		}, 0.5)
		require.NoError(t, err)

		budget := decimal.NewFromInt(100)

		greedy := AllocateGreedy(ranked, budget)
		require.Len(t, greedy, 1)
		require.Equal(t, "BIG", greedy[0].Symbol)

		exact, err := AllocateExact(context.Background(), ranked, budget)
		require.NoError(t, err)
		require.Len(t, exact, 2)
		require.Equal(t, "PAIRA", exact[0].Symbol)
		require.Equal(t, "PAIRB", exact[1].Symbol)
	})

	t.Run("never exceeds budget", func(t *testing.T) {
		ranked, err := Rank([]domain.Asset{
			{Symbol: "AAPL", Price: 187.3, ExpectedReturn: 0.10, Risk: 0.2},
			{Symbol: "MSFT", Price: 311.09, ExpectedReturn: 0.08, Risk: 0.15},
			{Symbol: "GOOG", Price: 129.5, ExpectedReturn: 0.12, Risk: 0.3},
			{Symbol: "AMZN", Price: 142.77, ExpectedReturn: 0.11, Risk: 0.25},
		}, 0.5)
		require.NoError(t, err)

		for budget := int64(100); budget <= 3000; budget += 113 {
			b := decimal.NewFromInt(budget)
			holdings, err := AllocateExact(context.Background(), ranked, b)
			require.NoError(t, err)

			result := Summarize(holdings, 4)
			require.True(
				t,
				result.TotalInvested.LessThanOrEqual(b),
				"budget %d exceeded: invested %s", budget, result.TotalInvested,
			)
		}
	})

	t.Run("expired ctx returns TimeoutError and no holdings", func(t *testing.T) {
		ranked, err := Rank([]domain.Asset{
			{Symbol: "AAPL", Price: 200, ExpectedReturn: 0.10, Risk: 0.2},
			{Symbol: "MSFT", Price: 300, ExpectedReturn: 0.08, Risk: 0.15},
		}, 0.5)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		holdings, err := AllocateExact(ctx, ranked, decimal.NewFromInt(1000))
		require.Error(t, err)
		require.ErrorAs(t, err, &TimeoutError{})
		require.Nil(t, holdings)
	})

	t.Run("no candidates", func(t *testing.T) {
		holdings, err := AllocateExact(context.Background(), []domain.RankedAsset{}, decimal.NewFromInt(1000))
		require.NoError(t, err)
		require.Len(t, holdings, 0)
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		ranked, err := Rank([]domain.Asset{
			{Symbol: "AAPL", Price: 200, ExpectedReturn: 0.10, Risk: 0.2},
			{Symbol: "MSFT", Price: 300, ExpectedReturn: 0.08, Risk: 0.15},
			{Symbol: "GOOG", Price: 120, ExpectedReturn: 0.12, Risk: 0.3},
		}, 0.5)
		require.NoError(t, err)

		first, err := AllocateExact(context.Background(), ranked, decimal.NewFromInt(1500))
		require.NoError(t, err)
		second, err := AllocateExact(context.Background(), ranked, decimal.NewFromInt(1500))
		require.NoError(t, err)

		require.Equal(t, "", cmp.Diff(first, second))
	})
}
