package optimizer

import (
	"mkto/internal/domain"

	"github.com/shopspring/decimal"
)

// Summarize computes portfolio-level aggregates over the holdings and
// fills in each holding's weight. requestedCandidates is the size of the
// deduplicated candidate set, used for the diversification score.
func Summarize(holdings []domain.Holding, requestedCandidates int) domain.OptimizationResult {
	totalInvested := decimal.Zero
	for _, h := range holdings {
		totalInvested = totalInvested.Add(h.Investment)
	}

	if len(holdings) == 0 || totalInvested.IsZero() {
		return domain.OptimizationResult{
			Holdings:      []domain.Holding{},
			TotalInvested: decimal.Zero,
		}
	}

	totalF, _ := totalInvested.Float64()

	weighted := make([]domain.Holding, len(holdings))
	expectedReturn := 0.0
	totalRisk := 0.0
	for i, h := range holdings {
		investment, _ := h.Investment.Float64()
		h.Weight = investment / totalF
		weighted[i] = h

		expectedReturn += h.Weight * h.ExpectedReturn
		totalRisk += h.Weight * h.Risk
	}

	sharpe := 0.0
	if totalRisk > 0 {
		sharpe = expectedReturn / totalRisk
	}

	diversification := 0.0
	if requestedCandidates > 0 {
		diversification = float64(len(holdings)) / float64(requestedCandidates)
		if diversification > 1 {
			diversification = 1
		}
	}

	return domain.OptimizationResult{
		Holdings:             weighted,
		TotalInvested:        totalInvested,
		ExpectedReturn:       expectedReturn,
		TotalRisk:            totalRisk,
		SharpeRatio:          sharpe,
		DiversificationScore: diversification,
	}
}
