package calculator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_CalculateAssetMetrics(t *testing.T) {
	t.Run("mean and sample stdev", func(t *testing.T) {
		out, err := CalculateAssetMetrics([]float64{0.01, 0.03}, 0)
		require.NoError(t, err)

		require.InDelta(t, 0.02, out.ExpectedReturn, 1e-12)
		// sample stdev of {0.01, 0.03}
		require.InDelta(t, 0.0141421356, out.Risk, 1e-9)
		require.InDelta(t, out.ExpectedReturn/out.Risk, out.SharpeRatio, 1e-9)
	})

	t.Run("risk free rate lowers sharpe", func(t *testing.T) {
		returns := []float64{0.01, 0.02, 0.015, 0.03}

		without, err := CalculateAssetMetrics(returns, 0)
		require.NoError(t, err)
		with, err := CalculateAssetMetrics(returns, DefaultRiskFreeRate)
		require.NoError(t, err)

		require.Less(t, with.SharpeRatio, without.SharpeRatio)
	})

	t.Run("constant series has zero sharpe", func(t *testing.T) {
		out, err := CalculateAssetMetrics([]float64{0.01, 0.01, 0.01}, 0)
		require.NoError(t, err)

		require.Zero(t, out.Risk)
		require.Zero(t, out.SharpeRatio)
	})

	t.Run("too few returns", func(t *testing.T) {
		_, err := CalculateAssetMetrics([]float64{0.01}, 0)
		require.Error(t, err)
	})
}

func Test_CalculateRiskMetrics(t *testing.T) {
	t.Run("drawdown follows compounded value", func(t *testing.T) {
		// +10%, -50%, +20%: trough is 0.55x against a 1.10x peak
		out, err := CalculateRiskMetrics([]float64{0.10, -0.50, 0.20})
		require.NoError(t, err)

		require.InDelta(t, -0.5, out.MaxDrawdown, 1e-9)
	})

	t.Run("monotonically rising series never draws down", func(t *testing.T) {
		out, err := CalculateRiskMetrics([]float64{0.01, 0.02, 0.01, 0.03})
		require.NoError(t, err)

		require.Zero(t, out.MaxDrawdown)
		require.Greater(t, out.AnnualizedVolatility, 0.0)
	})

	t.Run("var quantiles order correctly", func(t *testing.T) {
		returns := []float64{-0.09, -0.04, -0.01, 0.0, 0.01, 0.015, 0.02, 0.03, 0.04, 0.06}

		out, err := CalculateRiskMetrics(returns)
		require.NoError(t, err)

		require.LessOrEqual(t, out.ValueAtRisk99, out.ValueAtRisk95)
		require.Less(t, out.ValueAtRisk95, 0.0)
	})

	t.Run("var interpolates on short series", func(t *testing.T) {
		out, err := CalculateRiskMetrics([]float64{0.03, -0.04, 0.01, -0.02})
		require.NoError(t, err)

		// sorted: -0.04, -0.02, 0.01, 0.03; rank 0.15 and 0.03 within the
		// lowest step
		require.InDelta(t, -0.037, out.ValueAtRisk95, 1e-9)
		require.InDelta(t, -0.0394, out.ValueAtRisk99, 1e-9)
	})

	t.Run("two point series still computes", func(t *testing.T) {
		out, err := CalculateRiskMetrics([]float64{-0.01, 0.02})
		require.NoError(t, err)

		require.InDelta(t, -0.0085, out.ValueAtRisk95, 1e-9)
		require.LessOrEqual(t, out.ValueAtRisk99, out.ValueAtRisk95)
	})

	t.Run("symmetric series has near zero skew", func(t *testing.T) {
		out, err := CalculateRiskMetrics([]float64{-0.02, -0.01, 0, 0.01, 0.02})
		require.NoError(t, err)

		require.InDelta(t, 0, out.Skewness, 1e-9)
	})
}

func Test_PortfolioReturnSeries(t *testing.T) {
	t.Run("weighted sum truncated to shortest series", func(t *testing.T) {
		out, err := PortfolioReturnSeries(
			map[string]float64{"AAPL": 0.6, "MSFT": 0.4},
			map[string][]float64{
				"AAPL": {0.01, 0.02, 0.03},
				"MSFT": {0.02, -0.01},
			},
		)
		require.NoError(t, err)

		require.Len(t, out, 2)
		require.InDelta(t, 0.6*0.01+0.4*0.02, out[0], 1e-12)
		require.InDelta(t, 0.6*0.02+0.4*-0.01, out[1], 1e-12)
	})

	t.Run("zero-weight symbols need no series", func(t *testing.T) {
		out, err := PortfolioReturnSeries(
			map[string]float64{"AAPL": 1, "MSFT": 0},
			map[string][]float64{"AAPL": {0.01, 0.02}},
		)
		require.NoError(t, err)
		require.Len(t, out, 2)
	})

	t.Run("missing series for allocated symbol", func(t *testing.T) {
		_, err := PortfolioReturnSeries(
			map[string]float64{"AAPL": 1},
			map[string][]float64{},
		)
		require.Error(t, err)
	})
}
