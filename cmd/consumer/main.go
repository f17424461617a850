package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/config"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/consumer"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/dedup"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/domain"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/logger"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/metrics"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/queue/sqs"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/repository"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/repository/clickhouse"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/repository/postgres"
	"github.com/DigitalGarageMVP/ifmvp-backend/internal/stats"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, "consumer")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting consumer service",
		zap.String("environment", cfg.Service.Environment))

	ctx := context.Background()

	// Initialize Postgres client and counter repository
	pgClient, err := postgres.NewClient(ctx, cfg.Postgres, log)
	if err != nil {
		log.Fatal("Failed to create Postgres client", zap.Error(err))
	}
	defer pgClient.Close()

	repo := postgres.NewRepository(pgClient, log)

	// Initialize schema (create tables if not exist)
	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}
	log.Info("Database schema initialized")

	// Initialize ClickHouse event archive. The archive is best-effort:
	// an unreachable ClickHouse degrades to dropping raw events instead
	// of holding up the counter pipeline.
	var archive repository.EventArchive = repository.NewNopArchive(log)
	if chClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log); err != nil {
		log.Warn("ClickHouse unavailable, raw events will not be archived", zap.Error(err))
	} else {
		defer func() {
			if err := chClient.Close(); err != nil {
				log.Error("Failed to close ClickHouse client", zap.Error(err))
			}
		}()

		chArchive := clickhouse.NewArchive(chClient, log)
		if err := chArchive.InitSchema(ctx); err != nil {
			log.Warn("Failed to initialize archive schema, raw events will not be archived", zap.Error(err))
		} else {
			archive = chArchive
		}
	}

	// Initialize SQS client
	sqsClient, err := sqs.NewClient(ctx, cfg.SQS, log)
	if err != nil {
		log.Fatal("Failed to create SQS client", zap.Error(err))
	}

	// Initialize redis-backed dead letter store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client", zap.Error(err))
		}
	}()

	var deadLetter consumer.DeadLetter
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, dead letters will be dropped", zap.Error(err))
		deadLetter = consumer.NewNopDeadLetter(log)
	} else {
		deadLetter = consumer.NewRedisDeadLetter(redisClient, log)
	}

	// Initialize dedup guard
	var guard dedup.Guard = dedup.Disabled{}
	if cfg.Consumer.DedupEnabled {
		ttl := time.Duration(cfg.Consumer.DedupTTLHours) * time.Hour
		redisGuard, err := dedup.NewRedisGuard(ctx, cfg.Redis, ttl, cfg.Consumer.DedupFailOpen, log)
		if err != nil {
			log.Fatal("Failed to create dedup guard", zap.Error(err))
		}
		defer func() {
			if err := redisGuard.Close(); err != nil {
				log.Error("Failed to close dedup guard", zap.Error(err))
			}
		}()
		guard = redisGuard
	}

	// Initialize metrics and aggregator
	m := metrics.New("consumer")
	aggregator := stats.NewAggregator(repo, stats.NewStaticResolver(), guard, m, log)

	// One pipeline per channel; the queue identity determines the event type
	eventTypes := []domain.EventType{
		domain.EventTypeDelivery,
		domain.EventTypeOpen,
		domain.EventTypeClick,
	}

	pipelines := make([]*consumer.Pipeline, 0, len(eventTypes))
	for _, eventType := range eventTypes {
		queueConsumer, err := sqsClient.ConsumerFor(eventType)
		if err != nil {
			log.Fatal("Failed to bind queue consumer",
				zap.String("event_type", string(eventType)),
				zap.Error(err))
		}
		pipelines = append(pipelines, consumer.NewPipeline(
			cfg,
			eventType,
			queueConsumer,
			aggregator,
			archive,
			deadLetter,
			m,
			log,
		))
	}

	// Start health check and metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := repo.Ping(r.Context()); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})
		mux.Handle("/metrics", promhttp.Handler())

		addr := ":" + cfg.Consumer.HealthCheckPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	// Start pipelines
	consumerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for _, p := range pipelines {
		wg.Add(1)
		go func(p *consumer.Pipeline) {
			defer wg.Done()
			if err := p.Start(consumerCtx); err != nil {
				log.Error("Pipeline error", zap.Error(err))
			}
		}(p)
	}

	log.Info("Consumer started", zap.Int("pipelines", len(pipelines)))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down consumer gracefully")
	cancel()
	wg.Wait()
	log.Info("Consumer stopped")
}
