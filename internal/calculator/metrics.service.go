package calculator

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

const (
	// annual risk-free rate applied when deriving sharpe from raw returns
	DefaultRiskFreeRate = 0.02
	tradingDaysPerYear  = 252
)

type AssetMetricsResult struct {
	ExpectedReturn float64
	Risk           float64
	SharpeRatio    float64
}

// CalculateAssetMetrics derives the catalog-style metrics of one asset
// from its historical return series. Returns are per-period (daily); risk
// is the sample stdev of the series.
func CalculateAssetMetrics(returns []float64, riskFreeRate float64) (*AssetMetricsResult, error) {
	if len(returns) < 2 {
		return nil, fmt.Errorf("cannot calculate metrics on < 2 returns, got %d", len(returns))
	}

	mean, err := stats.Mean(returns)
	if err != nil {
		return nil, err
	}
	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate stdev: %w", err)
	}

	sharpe := 0.0
	if stdev > 0 {
		sharpe = (mean - riskFreeRate/tradingDaysPerYear) / stdev
	}

	return &AssetMetricsResult{
		ExpectedReturn: mean,
		Risk:           stdev,
		SharpeRatio:    sharpe,
	}, nil
}

type RiskMetricsResult struct {
	ValueAtRisk95        float64 `json:"value_at_risk_95"`
	ValueAtRisk99        float64 `json:"value_at_risk_99"`
	MaxDrawdown          float64 `json:"max_drawdown"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	Skewness             float64 `json:"skewness"`
	Kurtosis             float64 `json:"kurtosis"`
}

// CalculateRiskMetrics computes tail and shape statistics over a portfolio
// return series. VaR values are return-space quantiles, so losses come out
// negative.
func CalculateRiskMetrics(returns []float64) (*RiskMetricsResult, error) {
	if len(returns) < 2 {
		return nil, fmt.Errorf("cannot calculate risk metrics on < 2 returns, got %d", len(returns))
	}

	var95 := percentile(returns, 5)
	var99 := percentile(returns, 1)

	stdev, err := stats.StandardDeviationPopulation(returns)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate stdev: %w", err)
	}
	mean, err := stats.Mean(returns)
	if err != nil {
		return nil, err
	}

	return &RiskMetricsResult{
		ValueAtRisk95:        var95,
		ValueAtRisk99:        var99,
		MaxDrawdown:          maxDrawdown(returns),
		AnnualizedVolatility: stdev * math.Sqrt(tradingDaysPerYear),
		Skewness:             standardizedMoment(returns, mean, stdev, 3),
		Kurtosis:             standardizedMoment(returns, mean, stdev, 4) - 3,
	}, nil
}

// maxDrawdown follows the cumulative compounded value of the series and
// reports the deepest peak-to-trough decline as a negative fraction.
func maxDrawdown(returns []float64) float64 {
	value := 1.0
	peak := 1.0
	worst := 0.0

	for _, r := range returns {
		value *= 1 + r
		if value > peak {
			peak = value
		}
		drawdown := value/peak - 1
		if drawdown < worst {
			worst = drawdown
		}
	}

	return worst
}

// percentile is the linearly interpolated quantile of the series, defined
// for any non-empty input. stats.Percentile rejects series shorter than
// 100/percent observations, which rules out realistic short histories.
func percentile(returns []float64, percent float64) float64 {
	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	rank := percent / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lower] + (rank-float64(lower))*(sorted[lower+1]-sorted[lower])
}

func standardizedMoment(returns []float64, mean, stdev float64, order float64) float64 {
	if stdev == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range returns {
		sum += math.Pow((r-mean)/stdev, order)
	}
	return sum / float64(len(returns))
}

// PortfolioReturnSeries collapses per-symbol return series into one
// weighted series, truncated to the shortest series present in the
// allocation.
func PortfolioReturnSeries(allocations map[string]float64, returnsBySymbol map[string][]float64) ([]float64, error) {
	n := -1
	for symbol, weight := range allocations {
		if weight == 0 {
			continue
		}
		series, ok := returnsBySymbol[symbol]
		if !ok {
			return nil, fmt.Errorf("missing return series for allocated symbol %s", symbol)
		}
		if n == -1 || len(series) < n {
			n = len(series)
		}
	}
	if n <= 0 {
		return nil, fmt.Errorf("no return series to aggregate")
	}

	out := make([]float64, n)
	for symbol, weight := range allocations {
		if weight == 0 {
			continue
		}
		for i, r := range returnsBySymbol[symbol][:n] {
			out[i] += weight * r
		}
	}

	return out, nil
}
