package api

import (
	"mkto/internal/calculator"

	"github.com/gin-gonic/gin"
)

type riskMetricsRequest struct {
	Allocations     map[string]float64   `json:"allocations" binding:"required"`
	ReturnsBySymbol map[string][]float64 `json:"returns_by_symbol" binding:"required"`
}

func (m ApiHandler) riskMetrics(c *gin.Context) {
	var requestBody riskMetricsRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	series, err := calculator.PortfolioReturnSeries(requestBody.Allocations, requestBody.ReturnsBySymbol)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	metrics, err := calculator.CalculateRiskMetrics(series)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	c.JSON(200, metrics)
}
