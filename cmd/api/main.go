package main

// @title OUS Demographics API
// @version 1.0.0
// @description Сервис демографии опроса использования океана (Ocean Use Survey).
// @description Считает число респондентов и людей, чьи участки использования пересекают участок планирования,
// @description с разбивкой по сектору, атоллу, острову и орудию лова.
// @description
// @description Основные возможности:
// @description - Демография пересечения участка (Feature или FeatureCollection)
// @description - Базовая линия по всему опросу и метрики в процентах от нее

// @contact.name API Support
// @contact.email support@ous-demographics.org

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/ous-demographics/docs"
	"github.com/ous-demographics/internal/app"
	"github.com/ous-demographics/internal/config"
	httpDelivery "github.com/ous-demographics/internal/delivery/http"
	"github.com/ous-demographics/internal/delivery/http/handler"
	"github.com/ous-demographics/internal/pkg/logger"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Service: "ous-api"})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting OUS Demographics API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connections, repositories, use cases
	application, err := app.New(cfg, log, app.Options{})
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	// 4. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := application.Ping(ctx); err != nil {
		log.Fatal("Startup health check failed", zap.Error(err))
	}
	log.Info("All connections healthy")

	// 5. Initialize HTTP Handlers
	demographicHandler := handler.NewDemographicHandler(application.DemographicUC, log)
	healthHandler := handler.NewHealthHandler(application.HealthCheckers(), log)

	var metricsHandler http.Handler
	if application.Metrics != nil {
		metricsHandler = application.Metrics.Handler()
	}

	// 6. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, demographicHandler, healthHandler, metricsHandler)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
