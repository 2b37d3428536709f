package api

import (
	"time"

	"mkto/internal/db/models/postgres/public/model"

	"github.com/gin-gonic/gin"
)

type assetJson struct {
	Symbol         string    `json:"symbol"`
	Name           *string   `json:"name,omitempty"`
	Price          float64   `json:"price"`
	ExpectedReturn float64   `json:"expected_return"`
	Risk           float64   `json:"risk"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (m ApiHandler) listAssets(c *gin.Context) {
	rows, err := m.AssetRepository.List()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := make([]assetJson, len(rows))
	for i, row := range rows {
		out[i] = assetJson{
			Symbol:         row.Symbol,
			Name:           row.Name,
			Price:          row.Price,
			ExpectedReturn: row.ExpectedReturn,
			Risk:           row.Risk,
			UpdatedAt:      row.UpdatedAt,
		}
	}

	c.JSON(200, gin.H{"assets": out})
}

type upsertAssetRequest struct {
	Symbol         string  `json:"symbol" binding:"required"`
	Name           *string `json:"name"`
	Price          float64 `json:"price" binding:"required"`
	ExpectedReturn float64 `json:"expected_return"`
	Risk           float64 `json:"risk"`
}

func (m ApiHandler) upsertAsset(c *gin.Context) {
	var requestBody upsertAssetRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	row, err := m.AssetRepository.Upsert(nil, model.Asset{
		Symbol:         requestBody.Symbol,
		Name:           requestBody.Name,
		Price:          requestBody.Price,
		ExpectedReturn: requestBody.ExpectedReturn,
		Risk:           requestBody.Risk,
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, assetJson{
		Symbol:         row.Symbol,
		Name:           row.Name,
		Price:          row.Price,
		ExpectedReturn: row.ExpectedReturn,
		Risk:           row.Risk,
		UpdatedAt:      row.UpdatedAt,
	})
}
