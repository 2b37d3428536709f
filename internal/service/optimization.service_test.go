package service

import (
	"context"
	"testing"
	"time"

	"mkto/internal/db/models/postgres/public/model"
	"mkto/internal/domain"
	"mkto/internal/optimizer"
	mock_repository "mkto/internal/repository/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// a disabled no-op global means every Infow and Warnf in this package
// silently vanishes; importing mkto/internal/logger installs the real one
func Test_globalLoggerEnabled(t *testing.T) {
	require.True(t, zap.S().Desugar().Core().Enabled(zapcore.InfoLevel))
}

type capturingPublisher struct {
	events []domain.OptimizationEvent
}

func (p *capturingPublisher) PublishOptimizationCompleted(event domain.OptimizationEvent) {
	p.events = append(p.events, event)
}

func Test_Optimize(t *testing.T) {
	t.Run("resolves catalog assets and allocates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		assetRepository := mock_repository.NewMockAssetRepository(ctrl)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)
		publisher := &capturingPublisher{}

		handler := optimizationServiceHandler{
			AssetRepository:  assetRepository,
			QuoteRepository:  quoteRepository,
			ObjectiveService: NewObjectiveService(),
			EventPublisher:   publisher,
		}

		assetRepository.EXPECT().
			GetMany([]string{"AAPL", "MSFT"}).
			Return(map[string]model.Asset{
				"AAPL": {Symbol: "AAPL", Price: 200, ExpectedReturn: 0.10, Risk: 0.2, UpdatedAt: time.Now()},
				"MSFT": {Symbol: "MSFT", Price: 300, ExpectedReturn: 0.08, Risk: 0.15, UpdatedAt: time.Now()},
			}, nil)

		result, err := handler.Optimize(context.Background(), domain.OptimizationRequest{
			Budget:           decimal.NewFromInt(1000),
			CandidateSymbols: []string{"MSFT", "AAPL", "MSFT"},
			RiskTolerance:    0.5,
			Strategy:         domain.AllocationStrategy_Greedy,
		})
		require.NoError(t, err)

		require.True(t, result.TotalInvested.Equal(decimal.NewFromInt(900)))
		require.Equal(t, []string{"AAPL", "MSFT"}, result.SelectedSymbols())

		require.Len(t, publisher.events, 1)
		require.Equal(t, domain.EventTypeOptimizationCompleted, publisher.events[0].Type)
		require.Equal(t, []string{"AAPL", "MSFT"}, publisher.events[0].SelectedAssets)
	})

	t.Run("unresolved symbols fail the request", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		assetRepository := mock_repository.NewMockAssetRepository(ctrl)

		handler := optimizationServiceHandler{
			AssetRepository:  assetRepository,
			ObjectiveService: NewObjectiveService(),
		}

		assetRepository.EXPECT().
			GetMany([]string{"AAPL", "FAKE"}).
			Return(map[string]model.Asset{
				"AAPL": {Symbol: "AAPL", Price: 200, ExpectedReturn: 0.10, Risk: 0.2, UpdatedAt: time.Now()},
			}, nil)

		_, err := handler.Optimize(context.Background(), domain.OptimizationRequest{
			Budget:           decimal.NewFromInt(1000),
			CandidateSymbols: []string{"AAPL", "FAKE"},
			RiskTolerance:    0.5,
		})
		require.Error(t, err)

		notFound := optimizer.AssetNotFoundError{}
		require.ErrorAs(t, err, &notFound)
		require.Equal(t, []string{"FAKE"}, notFound.Symbols)
	})

	t.Run("stale prices refresh from the quote feed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		assetRepository := mock_repository.NewMockAssetRepository(ctrl)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)

		handler := optimizationServiceHandler{
			AssetRepository:  assetRepository,
			QuoteRepository:  quoteRepository,
			ObjectiveService: NewObjectiveService(),
		}

		assetRepository.EXPECT().
			GetMany([]string{"AAPL"}).
			Return(map[string]model.Asset{
				"AAPL": {Symbol: "AAPL", Price: 180, ExpectedReturn: 0.10, Risk: 0.2, UpdatedAt: time.Now().Add(-24 * time.Hour)},
			}, nil)
		quoteRepository.EXPECT().
			GetLatestPrice("AAPL").
			Return(200.0, nil)
		assetRepository.EXPECT().
			UpdatePrice("AAPL", 200.0).
			Return(nil)

		result, err := handler.Optimize(context.Background(), domain.OptimizationRequest{
			Budget:           decimal.NewFromInt(1000),
			CandidateSymbols: []string{"AAPL"},
			RiskTolerance:    0.5,
		})
		require.NoError(t, err)

		require.Len(t, result.Holdings, 1)
		require.Equal(t, 200.0, result.Holdings[0].Price)
	})

	t.Run("dead quote feed fails instead of inventing prices", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		assetRepository := mock_repository.NewMockAssetRepository(ctrl)
		quoteRepository := mock_repository.NewMockQuoteRepository(ctrl)

		handler := optimizationServiceHandler{
			AssetRepository:  assetRepository,
			QuoteRepository:  quoteRepository,
			ObjectiveService: NewObjectiveService(),
		}

		assetRepository.EXPECT().
			GetMany([]string{"AAPL"}).
			Return(map[string]model.Asset{
				"AAPL": {Symbol: "AAPL", Price: 180, ExpectedReturn: 0.10, Risk: 0.2, UpdatedAt: time.Now().Add(-24 * time.Hour)},
			}, nil)
		quoteRepository.EXPECT().
			GetLatestPrice("AAPL").
			Return(0.0, optimizer.InvalidAssetError{Symbol: "AAPL", Reason: "feed unavailable"})

		_, err := handler.Optimize(context.Background(), domain.OptimizationRequest{
			Budget:           decimal.NewFromInt(1000),
			CandidateSymbols: []string{"AAPL"},
			RiskTolerance:    0.5,
		})
		require.Error(t, err)
	})
}

func Test_OptimizeAssets(t *testing.T) {
	handler := optimizationServiceHandler{
		ObjectiveService: NewObjectiveService(),
	}

	assets := []domain.Asset{
		{Symbol: "AAPL", Price: 200, ExpectedReturn: 0.10, Risk: 0.2},
		{Symbol: "MSFT", Price: 300, ExpectedReturn: 0.08, Risk: 0.15},
	}

	t.Run("rejects non-positive budget", func(t *testing.T) {
		_, err := handler.OptimizeAssets(context.Background(), domain.OptimizationRequest{
			Budget:        decimal.Zero,
			RiskTolerance: 0.5,
		}, assets)
		require.Error(t, err)
		require.ErrorAs(t, err, &optimizer.InvalidParameterError{})
	})

	t.Run("rejects out of range risk tolerance", func(t *testing.T) {
		_, err := handler.OptimizeAssets(context.Background(), domain.OptimizationRequest{
			Budget:        decimal.NewFromInt(1000),
			RiskTolerance: 1.5,
		}, assets)
		require.Error(t, err)
		require.ErrorAs(t, err, &optimizer.InvalidParameterError{})
	})

	t.Run("rejects an empty universe", func(t *testing.T) {
		_, err := handler.OptimizeAssets(context.Background(), domain.OptimizationRequest{
			Budget:        decimal.NewFromInt(1000),
			RiskTolerance: 0.5,
		}, []domain.Asset{})
		require.Error(t, err)
		require.ErrorAs(t, err, &optimizer.InvalidParameterError{})
	})

	t.Run("custom objective reorders the ranking", func(t *testing.T) {
		// cheap asset wins on efficiency; objective that only rewards raw
		// return flips the order
		result, err := handler.OptimizeAssets(context.Background(), domain.OptimizationRequest{
			Budget:        decimal.NewFromInt(500),
			RiskTolerance: 0.5,
			Objective:     "expectedReturn",
		}, []domain.Asset{
			{Symbol: "CHEAP", Price: 10, ExpectedReturn: 0.05, Risk: 0.1},
			{Symbol: "STRONG", Price: 400, ExpectedReturn: 0.20, Risk: 0.1},
		})
		require.NoError(t, err)

		require.NotEmpty(t, result.Holdings)
		require.Equal(t, "STRONG", result.Holdings[0].Symbol)
	})

	t.Run("exact strategy honors an expired deadline", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := handler.OptimizeAssets(ctx, domain.OptimizationRequest{
			Budget:        decimal.NewFromInt(1000),
			RiskTolerance: 0.5,
			Strategy:      domain.AllocationStrategy_ExactKnapsack,
		}, assets)
		require.Error(t, err)
		require.ErrorAs(t, err, &optimizer.TimeoutError{})
	})
}
