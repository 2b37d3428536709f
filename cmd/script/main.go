package main

import (
	"context"
	"flag"
	"log"
	"os"

	"mkto/internal"
	"mkto/internal/domain"
	"mkto/internal/logger"
	"mkto/internal/service"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// one-shot optimizer over a csv universe, no db or api involved

type assetRow struct {
	Symbol         string  `csv:"symbol"`
	Price          float64 `csv:"price"`
	ExpectedReturn float64 `csv:"expected_return"`
	Risk           float64 `csv:"risk"`
}

func main() {
	universePath := flag.String("universe", "universe.csv", "csv universe of candidate assets")
	budget := flag.Float64("budget", 1000, "budget in dollars")
	riskTolerance := flag.Float64("riskTolerance", 0.5, "risk tolerance in [0, 1]")
	strategy := flag.String("strategy", "GREEDY", "GREEDY or EXACT_KNAPSACK")
	objective := flag.String("objective", "", "optional custom scoring expression")
	flag.Parse()

	f, err := os.Open(*universePath)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	rows := []assetRow{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		log.Fatal(err)
	}

	assets := make([]domain.Asset, len(rows))
	for i, row := range rows {
		assets[i] = domain.Asset{
			Symbol:         row.Symbol,
			Price:          row.Price,
			ExpectedReturn: row.ExpectedReturn,
			Risk:           row.Risk,
		}
	}

	parsedStrategy, err := domain.NewAllocationStrategy(*strategy)
	if err != nil {
		log.Fatal(err)
	}

	profile, endProfile := domain.NewProfile()
	ctx := domain.NewCtxWithProfile(context.Background(), profile)
	ctx = logger.NewCtx(ctx, logger.New())

	optimizationService := service.NewOptimizationService(nil, nil, service.NewObjectiveService(), nil)
	result, err := optimizationService.OptimizeAssets(ctx, domain.OptimizationRequest{
		Budget:        decimal.NewFromFloat(*budget),
		RiskTolerance: *riskTolerance,
		Strategy:      *parsedStrategy,
		Objective:     *objective,
	}, assets)
	if err != nil {
		log.Fatal(err)
	}
	endProfile()

	internal.Pprint(result)
	internal.Pprint(profile.Spans)
}
