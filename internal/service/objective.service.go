package service

import (
	"fmt"
	"strings"

	"mkto/internal/domain"
	"mkto/internal/optimizer"

	"github.com/maja42/goval"
)

// ObjectiveService compiles user-supplied scoring expressions into scorers
// the ranker can run. Expressions see three variables per asset:
// expectedReturn, risk and price.
type ObjectiveService interface {
	BuildScorer(expression string) (optimizer.Scorer, error)
}

type objectiveServiceHandler struct{}

func NewObjectiveService() ObjectiveService {
	return objectiveServiceHandler{}
}

func (h objectiveServiceHandler) BuildScorer(expression string) (optimizer.Scorer, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, optimizer.InvalidParameterError{
			Name:   "objective",
			Reason: "expression is empty",
		}
	}

	evaluator := goval.NewEvaluator()

	// probe evaluation rejects bad syntax and unknown variables before the
	// expression ever reaches the ranker
	probe := domain.Asset{Symbol: "PROBE", Price: 100, ExpectedReturn: 0.05, Risk: 0.1}
	if _, err := evaluateObjective(evaluator, expression, probe); err != nil {
		return nil, optimizer.InvalidParameterError{
			Name:   "objective",
			Reason: err.Error(),
		}
	}

	return func(asset domain.Asset) (float64, error) {
		return evaluateObjective(evaluator, expression, asset)
	}, nil
}

func evaluateObjective(evaluator *goval.Evaluator, expression string, asset domain.Asset) (float64, error) {
	result, err := evaluator.Evaluate(expression, map[string]interface{}{
		"expectedReturn": asset.ExpectedReturn,
		"risk":           asset.Risk,
		"price":          asset.Price,
	}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate objective: %w", err)
	}

	switch v := result.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("objective evaluated to non-numeric type %T", result)
	}
}
