package api

import (
	"context"

	"github.com/gin-gonic/gin"
)

type constructObjectiveRequest struct {
	UserInput string `json:"input"`
}

type constructObjectiveResponse struct {
	Expression string `json:"expression"`
}

func (m ApiHandler) constructObjective(c *gin.Context) {
	ctx := context.Background()
	var requestBody constructObjectiveRequest

	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	expression, err := m.GptRepository.ConstructObjectiveExpression(
		ctx,
		requestBody.UserInput,
	)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, constructObjectiveResponse{
		Expression: expression,
	})
}
