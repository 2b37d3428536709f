package optimizer

import (
	"fmt"
	"sort"

	"mkto/internal/domain"
)

// Scorer maps one asset to a scalar desirability score. Higher is better.
type Scorer func(asset domain.Asset) (float64, error)

// Efficiency is the default score: expected return per dollar, discounted
// by risk. riskTolerance 0 applies the full risk penalty, 1 ignores risk.
func Efficiency(asset domain.Asset, riskTolerance float64) float64 {
	riskPenalty := 1 - asset.Risk*(1-riskTolerance)
	return asset.ExpectedReturn * riskPenalty / asset.Price
}

// Rank scores every candidate with the default efficiency formula and
// returns them efficiency-descending, ties broken by symbol ascending.
func Rank(assets []domain.Asset, riskTolerance float64) ([]domain.RankedAsset, error) {
	if riskTolerance < 0 || riskTolerance > 1 {
		return nil, InvalidParameterError{
			Name:   "riskTolerance",
			Reason: fmt.Sprintf("must be in [0, 1], got %f", riskTolerance),
		}
	}

	return RankWithScorer(assets, func(asset domain.Asset) (float64, error) {
		return Efficiency(asset, riskTolerance), nil
	})
}

// RankWithScorer is Rank with a caller-supplied score, used when the
// request carries a custom objective expression.
func RankWithScorer(assets []domain.Asset, score Scorer) ([]domain.RankedAsset, error) {
	ranked := make([]domain.RankedAsset, 0, len(assets))
	for _, asset := range assets {
		if asset.Price <= 0 {
			return nil, InvalidAssetError{
				Symbol: asset.Symbol,
				Reason: fmt.Sprintf("price must be > 0, got %f", asset.Price),
			}
		}
		efficiency, err := score(asset)
		if err != nil {
			return nil, fmt.Errorf("failed to score %s: %w", asset.Symbol, err)
		}
		ranked = append(ranked, domain.RankedAsset{
			Asset:      asset,
			Efficiency: efficiency,
		})
	}

	// stable sort plus the symbol tie-break keeps output deterministic
	// regardless of input order
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Efficiency == ranked[j].Efficiency {
			return ranked[i].Symbol < ranked[j].Symbol
		}
		return ranked[i].Efficiency > ranked[j].Efficiency
	})

	return ranked, nil
}
