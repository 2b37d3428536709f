package api

import (
	"context"
	"fmt"

	"mkto/internal/domain"
	"mkto/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxSimpleSymbols = 20

type optimizeSimpleRequest struct {
	Symbols       []string `json:"symbols"`
	Budget        float64  `json:"budget"`
	RiskTolerance float64  `json:"risk_tolerance"`
	Strategy      *string  `json:"strategy"`
}

// optimizeSimple resolves candidates from the asset catalog instead of
// requiring the caller to inline full asset data.
func (m ApiHandler) optimizeSimple(c *gin.Context) {
	var requestBody optimizeSimpleRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	if len(requestBody.Symbols) > maxSimpleSymbols {
		returnErrorJsonCode(fmt.Errorf("at most %d symbols per request, got %d", maxSimpleSymbols, len(requestBody.Symbols)), c, 400)
		return
	}

	strategy, err := resolveStrategy(requestBody.Strategy)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	req := domain.OptimizationRequest{
		Budget:           decimal.NewFromFloat(requestBody.Budget),
		CandidateSymbols: requestBody.Symbols,
		RiskTolerance:    requestBody.RiskTolerance,
		Strategy:         *strategy,
	}

	profile, endProfile := domain.NewProfile()
	ctx := domain.NewCtxWithProfile(c.Request.Context(), profile)
	ctx = logger.NewCtx(ctx, zap.S())
	if *strategy == domain.AllocationStrategy_ExactKnapsack {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, exactModeTimeout)
		defer cancel()
	}

	result, err := m.OptimizationService.Optimize(ctx, req)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	endProfile()

	c.JSON(200, buildOptimizeResponse(result, profile))
}
