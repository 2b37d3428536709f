package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type AllocationStrategy string

const (
	// single forward pass in efficiency order, fast but not globally optimal
	AllocationStrategy_Greedy AllocationStrategy = "GREEDY"
	// exact 0/1 knapsack over a discretized grid; caller should impose a
	// deadline via ctx
	AllocationStrategy_ExactKnapsack AllocationStrategy = "EXACT_KNAPSACK"
)

func NewAllocationStrategy(s string) (*AllocationStrategy, error) {
	m := map[string]AllocationStrategy{
		"GREEDY":         AllocationStrategy_Greedy,
		"EXACT_KNAPSACK": AllocationStrategy_ExactKnapsack,
	}
	for k, v := range m {
		if strings.EqualFold(
			strings.ReplaceAll(k, "_", ""),
			strings.ReplaceAll(s, "_", ""),
		) {
			return &v, nil
		}
	}
	return nil, fmt.Errorf("could not convert '%s' to known allocation strategy", s)
}

// OptimizationRequest is the full input of one optimization call. State is
// passed in explicitly - the pipeline holds nothing between calls.
type OptimizationRequest struct {
	Budget           decimal.Decimal
	CandidateSymbols []string
	// RiskTolerance in [0, 1]; 0 fully penalizes risk, 1 ignores it
	RiskTolerance float64
	Strategy      AllocationStrategy
	// Objective optionally replaces the default efficiency formula with a
	// custom scoring expression over expectedReturn, risk and price
	Objective string
}

type OptimizationResult struct {
	Holdings      []Holding
	TotalInvested decimal.Decimal
	// weighted averages over the holdings
	ExpectedReturn float64
	TotalRisk      float64
	// ExpectedReturn / TotalRisk, 0 when TotalRisk is 0. Not the canonical
	// finance Sharpe ratio - no risk-free normalization here.
	SharpeRatio float64
	// fraction of requested candidates that received an allocation, in [0, 1]
	DiversificationScore float64
}

func (r OptimizationResult) SelectedSymbols() []string {
	symbols := make([]string, 0, len(r.Holdings))
	for _, h := range r.Holdings {
		symbols = append(symbols, h.Symbol)
	}
	return symbols
}

// AllocationsBySymbol returns the weight map keyed by symbol.
func (r OptimizationResult) AllocationsBySymbol() map[string]float64 {
	out := map[string]float64{}
	for _, h := range r.Holdings {
		out[h.Symbol] = h.Weight
	}
	return out
}
