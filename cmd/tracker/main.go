package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/config"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/handler"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/logger"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/metrics"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/queue/sqs"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, "tracker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting tracker service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.TrackerPort))

	ctx := context.Background()

	// Initialize SQS client
	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	// Initialize metrics
	m := metrics.New("tracker")

	// Initialize tracking service
	trackingService := service.NewTrackingService(sqsClient, m, log)

	// Initialize handler
	h := handler.NewTrackerHandler(trackingService, log)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", h)

	addr := fmt.Sprintf(":%s", cfg.Service.TrackerPort)
	log.Info("Tracker server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("Failed to start tracker server", zap.Error(err))
	}
}
