package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/docs"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/config"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/handler"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/logger"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/repository/postgres"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/service"
)

// @title Email Statistics API
// @version 1.0
// @description Read-only API for email delivery, open and click statistics
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, "api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting statistics API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Service.Host

	ctx := context.Background()

	// Initialize Postgres client
	pgClient, err := postgres.NewClient(ctx, cfg.Postgres, log)
	if err != nil {
		log.Fatal("Failed to create Postgres client", zap.Error(err))
	}
	defer pgClient.Close()

	// Initialize repository
	repo := postgres.NewRepository(pgClient, log)

	// Initialize stats service
	statsService := service.NewStatsService(repo, log)

	// Initialize handler
	h := handler.NewStatsHandler(statsService, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
