package cmd

import (
	"database/sql"
	"fmt"
	"log"

	"mkto/api"
	"mkto/internal"
	"mkto/internal/realtime"
	"mkto/internal/repository"
	"mkto/internal/service"

	_ "github.com/lib/pq"
)

func CloseDependencies(handler *api.ApiHandler) {
	err := handler.Db.Close()
	if err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := internal.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	gptRepository, err := repository.NewGptRepository(secrets.ChatGPTApiKey)
	if err != nil {
		return nil, err
	}

	dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	assetRepository := repository.NewAssetRepository(dbConn)
	quoteRepository := repository.NewQuoteRepository()

	eventHub := realtime.NewHub()

	objectiveService := service.NewObjectiveService()
	optimizationService := service.NewOptimizationService(
		assetRepository,
		quoteRepository,
		objectiveService,
		eventHub,
	)

	apiHandler := &api.ApiHandler{
		Db:                   dbConn,
		OptimizationService:  optimizationService,
		AssetRepository:      assetRepository,
		GptRepository:        gptRepository,
		ApiRequestRepository: repository.ApiRequestRepositoryHandler{},
		EventHub:             eventHub,
		JwtDecodeToken:       secrets.JwtDecodeToken,
	}

	return apiHandler, nil
}
