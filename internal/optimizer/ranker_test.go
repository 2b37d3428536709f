package optimizer

import (
	"testing"

	"mkto/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func Test_Rank(t *testing.T) {
	t.Run("scores and orders the documented example", func(t *testing.T) {
		out, err := Rank([]domain.Asset{
			{
				Symbol:         "MSFT",
				Price:          300,
				ExpectedReturn: 0.08,
				Risk:           0.15,
			},
			{
				Symbol:         "AAPL",
				Price:          200,
				ExpectedReturn: 0.10,
				Risk:           0.2,
			},
		}, 0.5)
		require.NoError(t, err)

		require.Len(t, out, 2)
		require.Equal(t, "AAPL", out[0].Symbol)
		require.Equal(t, "MSFT", out[1].Symbol)
		require.InDelta(t, 0.00045, out[0].Efficiency, 1e-12)
		require.InDelta(t, 0.08*(1-0.15*0.5)/300, out[1].Efficiency, 1e-12)
	})

	t.Run("risk tolerance out of range", func(t *testing.T) {
		for _, tolerance := range []float64{-0.01, 1.01} {
			_, err := Rank([]domain.Asset{
				{Symbol: "AAPL", Price: 200, ExpectedReturn: 0.1, Risk: 0.2},
			}, tolerance)
			require.Error(t, err)
			require.ErrorAs(t, err, &InvalidParameterError{})
		}
	})

	t.Run("non-positive price", func(t *testing.T) {
		_, err := Rank([]domain.Asset{
			{Symbol: "AAPL", Price: 200, ExpectedReturn: 0.1, Risk: 0.2},
			{Symbol: "FREE", Price: 0, ExpectedReturn: 0.1, Risk: 0.2},
		}, 0.5)
		require.Error(t, err)

		invalidAsset := InvalidAssetError{}
		require.ErrorAs(t, err, &invalidAsset)
		require.Equal(t, "FREE", invalidAsset.Symbol)
	})

	t.Run("equal efficiency breaks ties by symbol", func(t *testing.T) {
		out, err := Rank([]domain.Asset{
			{Symbol: "ZZZ", Price: 100, ExpectedReturn: 0.1, Risk: 0.2},
			{Symbol: "AAA", Price: 100, ExpectedReturn: 0.1, Risk: 0.2},
		}, 0.5)
		require.NoError(t, err)

		require.Equal(t, "AAA", out[0].Symbol)
		require.Equal(t, "ZZZ", out[1].Symbol)
	})

	t.Run("raising tolerance never demotes the risky asset", func(t *testing.T) {
		assets := []domain.Asset{
			{Symbol: "RISKY", Price: 100, ExpectedReturn: 0.2, Risk: 0.8},
			{Symbol: "SAFE", Price: 100, ExpectedReturn: 0.05, Risk: 0.1},
		}

		rankOf := func(tolerance float64) int {
			out, err := Rank(assets, tolerance)
			require.NoError(t, err)
			for i, ranked := range out {
				if ranked.Symbol == "RISKY" {
					return i
				}
			}
			t.Fatal("RISKY missing from ranking")
			return -1
		}

		prev := rankOf(0)
		for _, tolerance := range []float64{0.25, 0.5, 0.75, 1} {
			position := rankOf(tolerance)
			require.LessOrEqual(t, position, prev)
			prev = position
		}
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		assets := []domain.Asset{
			{Symbol: "AAPL", Price: 200, ExpectedReturn: 0.10, Risk: 0.2},
			{Symbol: "MSFT", Price: 300, ExpectedReturn: 0.08, Risk: 0.15},
			{Symbol: "GOOG", Price: 120, ExpectedReturn: 0.12, Risk: 0.3},
		}

		first, err := Rank(assets, 0.4)
		require.NoError(t, err)
		second, err := Rank(assets, 0.4)
		require.NoError(t, err)

		require.Equal(t, "", cmp.Diff(first, second))
	})
}
