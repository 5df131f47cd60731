package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ous-demographics/internal/app"
	"github.com/ous-demographics/internal/config"
	"github.com/ous-demographics/internal/pkg/logger"
	redisRepo "github.com/ous-demographics/internal/repository/redis"
	"github.com/ous-demographics/internal/worker"
	"github.com/ous-demographics/internal/worker/overlap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "ous-worker"})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting OUS overlap worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("batch_size", cfg.Worker.BatchSize),
		zap.Int("max_retries", cfg.Worker.MaxRetries))

	// 3. Connections, repositories, use cases
	application, err := app.New(cfg, log, app.Options{NeedRedis: true})
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	streamRepo := redisRepo.NewStreamRepository(application.Redis.Client(), log)

	// 4. Initialize workers
	overlapWorker := overlap.NewOverlapWorker(streamRepo, application.DemographicUC, overlap.Options{
		ConsumerGroup: cfg.Worker.ConsumerGroup,
		Concurrency:   cfg.Worker.BatchSize,
		ReadTimeout:   cfg.Worker.StreamReadTimeout,
		MaxRetries:    cfg.Worker.MaxRetries,
		ClaimMinIdle:  cfg.Worker.ClaimMinIdle,
	}, log)

	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(overlapWorker)

	// 5. Start and wait for shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
