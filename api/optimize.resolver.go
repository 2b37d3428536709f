package api

import (
	"context"
	"fmt"
	"time"

	"mkto/internal/calculator"
	"mkto/internal/domain"
	"mkto/internal/logger"
	"mkto/internal/optimizer"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	maxInlineAssets = 50
	// ceiling on the exact strategy's dp runtime; the greedy path never
	// comes close
	exactModeTimeout = 5 * time.Second
)

type optimizeAssetInput struct {
	Symbol       string    `json:"symbol"`
	CurrentPrice float64   `json:"current_price"`
	Returns      []float64 `json:"returns"`
	// ExpectedReturn and Risk are derived from Returns when omitted
	ExpectedReturn *float64 `json:"expected_return"`
	Risk           *float64 `json:"risk"`
}

type optimizeRequest struct {
	Assets        []optimizeAssetInput `json:"assets"`
	Budget        float64              `json:"budget"`
	RiskTolerance float64              `json:"risk_tolerance"`
	Strategy      *string              `json:"strategy"`
	Objective     string               `json:"objective"`
}

type holdingJson struct {
	Symbol     string  `json:"symbol"`
	Shares     int64   `json:"shares"`
	Price      float64 `json:"price"`
	Investment string  `json:"investment"`
	Weight     float64 `json:"weight"`
}

type optimizeResponse struct {
	Success              bool                          `json:"success"`
	SelectedAssets       []string                      `json:"selected_assets"`
	Allocations          map[string]float64            `json:"allocations"`
	Holdings             []holdingJson                 `json:"holdings"`
	TotalInvested        string                        `json:"total_invested"`
	ExpectedReturn       float64                       `json:"expected_return"`
	TotalRisk            float64                       `json:"total_risk"`
	SharpeRatio          float64                       `json:"sharpe_ratio"`
	DiversificationScore float64                       `json:"diversification_score"`
	RiskMetrics          *calculator.RiskMetricsResult `json:"risk_metrics,omitempty"`
	OptimizationTimeMs   float64                       `json:"optimization_time_ms"`
}

func (m ApiHandler) optimize(c *gin.Context) {
	var requestBody optimizeRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	if len(requestBody.Assets) > maxInlineAssets {
		returnErrorJsonCode(fmt.Errorf("at most %d assets per request, got %d", maxInlineAssets, len(requestBody.Assets)), c, 400)
		return
	}

	assets := make([]domain.Asset, 0, len(requestBody.Assets))
	returnsBySymbol := map[string][]float64{}
	for _, input := range requestBody.Assets {
		asset, err := resolveInlineAsset(input)
		if err != nil {
			returnErrorJson(err, c)
			return
		}
		assets = append(assets, *asset)
		if len(input.Returns) > 0 {
			returnsBySymbol[input.Symbol] = input.Returns
		}
	}

	strategy, err := resolveStrategy(requestBody.Strategy)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	req := domain.OptimizationRequest{
		Budget:        decimal.NewFromFloat(requestBody.Budget),
		RiskTolerance: requestBody.RiskTolerance,
		Strategy:      *strategy,
		Objective:     requestBody.Objective,
	}

	profile, endProfile := domain.NewProfile()
	ctx := domain.NewCtxWithProfile(c.Request.Context(), profile)
	ctx = logger.NewCtx(ctx, zap.S())
	if *strategy == domain.AllocationStrategy_ExactKnapsack {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, exactModeTimeout)
		defer cancel()
	}

	result, err := m.OptimizationService.OptimizeAssets(ctx, req, assets)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	endProfile()

	response := buildOptimizeResponse(result, profile)
	response.RiskMetrics = riskMetricsForResult(result, returnsBySymbol)

	c.JSON(200, response)
}

// resolveInlineAsset fills the metric gaps of one inline asset from its
// return series.
func resolveInlineAsset(input optimizeAssetInput) (*domain.Asset, error) {
	asset := domain.Asset{
		Symbol: input.Symbol,
		Price:  input.CurrentPrice,
	}

	if input.ExpectedReturn != nil && input.Risk != nil {
		asset.ExpectedReturn = *input.ExpectedReturn
		asset.Risk = *input.Risk
		return &asset, nil
	}

	if len(input.Returns) < 2 {
		return nil, optimizer.InvalidAssetError{
			Symbol: input.Symbol,
			Reason: "expected_return/risk omitted and not enough returns to derive them",
		}
	}
	metrics, err := calculator.CalculateAssetMetrics(input.Returns, calculator.DefaultRiskFreeRate)
	if err != nil {
		return nil, optimizer.InvalidAssetError{Symbol: input.Symbol, Reason: err.Error()}
	}

	asset.ExpectedReturn = metrics.ExpectedReturn
	if input.ExpectedReturn != nil {
		asset.ExpectedReturn = *input.ExpectedReturn
	}
	asset.Risk = metrics.Risk
	if input.Risk != nil {
		asset.Risk = *input.Risk
	}

	return &asset, nil
}

func resolveStrategy(s *string) (*domain.AllocationStrategy, error) {
	if s == nil || *s == "" {
		strategy := domain.AllocationStrategy_Greedy
		return &strategy, nil
	}
	return domain.NewAllocationStrategy(*s)
}

func buildOptimizeResponse(result *domain.OptimizationResult, profile *domain.Profile) optimizeResponse {
	holdings := make([]holdingJson, len(result.Holdings))
	for i, h := range result.Holdings {
		holdings[i] = holdingJson{
			Symbol:     h.Symbol,
			Shares:     h.Shares,
			Price:      h.Price,
			Investment: h.Investment.StringFixed(2),
			Weight:     h.Weight,
		}
	}

	return optimizeResponse{
		Success:              true,
		SelectedAssets:       result.SelectedSymbols(),
		Allocations:          result.AllocationsBySymbol(),
		Holdings:             holdings,
		TotalInvested:        result.TotalInvested.StringFixed(2),
		ExpectedReturn:       result.ExpectedReturn,
		TotalRisk:            result.TotalRisk,
		SharpeRatio:          result.SharpeRatio,
		DiversificationScore: result.DiversificationScore,
		OptimizationTimeMs:   float64(profile.ElapsedMs()),
	}
}

// riskMetricsForResult computes portfolio risk metrics when every selected
// asset came with a return series; otherwise the field is omitted.
func riskMetricsForResult(result *domain.OptimizationResult, returnsBySymbol map[string][]float64) *calculator.RiskMetricsResult {
	if len(result.Holdings) == 0 {
		return nil
	}
	for _, h := range result.Holdings {
		if len(returnsBySymbol[h.Symbol]) < 2 {
			return nil
		}
	}

	series, err := calculator.PortfolioReturnSeries(result.AllocationsBySymbol(), returnsBySymbol)
	if err != nil {
		return nil
	}
	metrics, err := calculator.CalculateRiskMetrics(series)
	if err != nil {
		return nil
	}
	return metrics
}
