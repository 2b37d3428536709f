package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"mkto/internal/db/models/postgres/public/model"
	"mkto/internal/domain"
	"mkto/internal/logger"
	"mkto/internal/optimizer"
	"mkto/internal/repository"
)

// catalog prices older than this are refreshed from the quote feed before
// an optimization runs
const quoteMaxAge = 15 * time.Minute

// EventPublisher fans a completed optimization out to live subscribers.
type EventPublisher interface {
	PublishOptimizationCompleted(event domain.OptimizationEvent)
}

type OptimizationService interface {
	// Optimize resolves candidates from the asset catalog
	Optimize(ctx context.Context, req domain.OptimizationRequest) (*domain.OptimizationResult, error)
	// OptimizeAssets runs over a caller-supplied universe
	OptimizeAssets(ctx context.Context, req domain.OptimizationRequest, assets []domain.Asset) (*domain.OptimizationResult, error)
}

type optimizationServiceHandler struct {
	AssetRepository  repository.AssetRepository
	QuoteRepository  repository.QuoteRepository
	ObjectiveService ObjectiveService
	// EventPublisher may be nil when no live subscribers exist, e.g. in the
	// one-shot cli
	EventPublisher EventPublisher
}

func NewOptimizationService(
	assetRepository repository.AssetRepository,
	quoteRepository repository.QuoteRepository,
	objectiveService ObjectiveService,
	eventPublisher EventPublisher,
) OptimizationService {
	return optimizationServiceHandler{
		AssetRepository:  assetRepository,
		QuoteRepository:  quoteRepository,
		ObjectiveService: objectiveService,
		EventPublisher:   eventPublisher,
	}
}

func (h optimizationServiceHandler) Optimize(ctx context.Context, req domain.OptimizationRequest) (*domain.OptimizationResult, error) {
	symbols := dedupeSymbols(req.CandidateSymbols)
	if len(symbols) == 0 {
		return nil, optimizer.InvalidParameterError{
			Name:   "candidateSymbols",
			Reason: "at least one symbol is required",
		}
	}

	profile := domain.GetProfile(ctx)
	_, endSpan := profile.StartNewSpan("resolving candidates")

	rows, err := h.AssetRepository.GetMany(symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve candidates: %w", err)
	}

	missing := []string{}
	for _, symbol := range symbols {
		if _, ok := rows[symbol]; !ok {
			missing = append(missing, symbol)
		}
	}
	if len(missing) > 0 {
		return nil, optimizer.AssetNotFoundError{Symbols: missing}
	}

	assets := make([]domain.Asset, 0, len(symbols))
	for _, symbol := range symbols {
		row := rows[symbol]
		asset, err := h.freshAsset(ctx, row)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	endSpan()

	return h.OptimizeAssets(ctx, req, assets)
}

// freshAsset converts a catalog row, refreshing its price from the quote
// feed when the row has gone stale. A dead quote feed fails the request -
// optimizing against stale or invented prices is worse than refusing.
func (h optimizationServiceHandler) freshAsset(ctx context.Context, row model.Asset) (domain.Asset, error) {
	asset := domain.Asset{
		Symbol:         row.Symbol,
		Price:          row.Price,
		ExpectedReturn: row.ExpectedReturn,
		Risk:           row.Risk,
	}

	if time.Since(row.UpdatedAt) <= quoteMaxAge {
		return asset, nil
	}

	price, err := h.QuoteRepository.GetLatestPrice(row.Symbol)
	if err != nil {
		return domain.Asset{}, fmt.Errorf("failed to refresh stale price for %s: %w", row.Symbol, err)
	}
	asset.Price = price

	if err := h.AssetRepository.UpdatePrice(row.Symbol, price); err != nil {
		// catalog write-back is best effort; the optimization proceeds on
		// the fresh quote
		logger.FromContext(ctx).Warnf("failed to write back refreshed price for %s: %v", row.Symbol, err)
	}

	return asset, nil
}

func (h optimizationServiceHandler) OptimizeAssets(ctx context.Context, req domain.OptimizationRequest, assets []domain.Asset) (*domain.OptimizationResult, error) {
	if !req.Budget.IsPositive() {
		return nil, optimizer.InvalidParameterError{
			Name:   "budget",
			Reason: fmt.Sprintf("must be > 0, got %s", req.Budget),
		}
	}
	if req.RiskTolerance < 0 || req.RiskTolerance > 1 {
		return nil, optimizer.InvalidParameterError{
			Name:   "riskTolerance",
			Reason: fmt.Sprintf("must be in [0, 1], got %f", req.RiskTolerance),
		}
	}

	assets = dedupeAssets(assets)
	if len(assets) == 0 {
		return nil, optimizer.InvalidParameterError{
			Name:   "assets",
			Reason: "at least one asset is required",
		}
	}

	profile := domain.GetProfile(ctx)

	_, endSpan := profile.StartNewSpan("ranking candidates")
	ranked, err := h.rank(req, assets)
	if err != nil {
		return nil, err
	}
	endSpan()

	_, endSpan = profile.StartNewSpan("allocating budget")
	var holdings []domain.Holding
	switch req.Strategy {
	case domain.AllocationStrategy_ExactKnapsack:
		holdings, err = optimizer.AllocateExact(ctx, ranked, req.Budget)
		if err != nil {
			return nil, err
		}
	default:
		holdings = optimizer.AllocateGreedy(ranked, req.Budget)
	}
	endSpan()

	_, endSpan = profile.StartNewSpan("summarizing portfolio")
	result := optimizer.Summarize(holdings, len(assets))
	endSpan()

	logger.FromContext(ctx).Infow("optimization complete",
		"strategy", req.Strategy,
		"candidates", len(assets),
		"holdings", len(result.Holdings),
		"totalInvested", result.TotalInvested,
	)

	if h.EventPublisher != nil {
		h.EventPublisher.PublishOptimizationCompleted(domain.OptimizationEvent{
			Type:               domain.EventTypeOptimizationCompleted,
			Timestamp:          time.Now().UTC(),
			Strategy:           req.Strategy,
			SelectedAssets:     result.SelectedSymbols(),
			TotalInvested:      result.TotalInvested.InexactFloat64(),
			SharpeRatio:        result.SharpeRatio,
			OptimizationTimeMs: profile.ElapsedMs(),
		})
	}

	return &result, nil
}

func (h optimizationServiceHandler) rank(req domain.OptimizationRequest, assets []domain.Asset) ([]domain.RankedAsset, error) {
	if req.Objective == "" {
		return optimizer.Rank(assets, req.RiskTolerance)
	}

	scorer, err := h.ObjectiveService.BuildScorer(req.Objective)
	if err != nil {
		return nil, err
	}
	return optimizer.RankWithScorer(assets, scorer)
}

func dedupeSymbols(symbols []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, symbol := range symbols {
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}

func dedupeAssets(assets []domain.Asset) []domain.Asset {
	seen := map[string]bool{}
	out := []domain.Asset{}
	for _, asset := range assets {
		if seen[asset.Symbol] {
			continue
		}
		seen[asset.Symbol] = true
		out = append(out, asset)
	}
	return out
}
