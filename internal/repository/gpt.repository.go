package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/ayush6624/go-chatgpt"
)

type GptRepository interface {
	ConstructObjectiveExpression(ctx context.Context, description string) (string, error)
}

type gptRepositoryHandler struct {
	GptClient *chatgpt.Client
}

func NewGptRepository(apiKey string) (GptRepository, error) {
	client, err := chatgpt.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to construct gpt client: %w", err)
	}

	return gptRepositoryHandler{
		GptClient: client,
	}, nil
}

const prompt = `
You are helping a user construct a scoring expression for ranking assets in a portfolio optimizer. They will describe in English how candidate assets should be scored. You must output a single arithmetic expression that evaluates to a number; higher scores rank higher.

The expression may use numbers, parentheses and the operators + - * /, plus these per-asset variables:
- expectedReturn = the asset's expected periodic return, e.g. 0.10
- risk = the asset's volatility-like risk scalar, >= 0
- price = the asset's current share price in dollars, > 0

here's an example:
score assets by return per dollar, but cut the score in half for every unit of risk:

expected output:
(expectedReturn / price) / (1 + risk)

Output only the expression, with no surrounding explanation.
`

func (h gptRepositoryHandler) ConstructObjectiveExpression(ctx context.Context, description string) (string, error) {
	res, err := h.GptClient.Send(ctx, &chatgpt.ChatCompletionRequest{
		Model: chatgpt.GPT35Turbo,
		Messages: []chatgpt.ChatMessage{
			{
				Role:    chatgpt.ChatGPTModelRoleSystem,
				Content: prompt,
			},
			{
				Role:    chatgpt.ChatGPTModelRoleUser,
				Content: description,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to construct objective expression: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("gpt returned no choices")
	}

	return strings.TrimSpace(res.Choices[0].Message.Content), nil
}
