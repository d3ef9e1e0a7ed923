package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	database "taskapp/internal/adapter/database/mongo"
	"taskapp/internal/adapter/database/mongo/repository"
	server "taskapp/internal/adapter/http"
	"taskapp/internal/core/telemetry"
	. "taskapp/pkg/config"
	. "taskapp/pkg/tracing"

	"go.uber.org/zap"
)

func main() {
	cfg, err := Load(".")

	if err != nil {
		if errors.Is(err, ErrMissingMongoURI) {
			log.Println("MONGODB_URI is not defined.")
			os.Exit(1)
		}

		log.Fatal("Failed to load configuration: ", err)
	}

	logger, err := NewLogger(cfg.ServiceName, cfg.Environment)

	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}

	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, err := InitTelemetry(ctx, TelemetryConfig{
		Enabled:        cfg.TelemetryEnabled,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	}, logger.Zap())

	if err != nil {
		logger.Logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	metrics := NewAppMetrics(tel.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	db, err := database.NewDB(ctx, cfg.Mongo, logger.Zap())

	if err != nil {
		logger.Logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	probe := telemetry.NewOTELProbe(logger.Logger, metrics)
	repo := repository.NewTaskRepository(db, probe)

	srv := server.NewServer(repo, probe, metrics, logger, cfg)

	logger.Logger.Info("Task API configured",
		zap.String("port", cfg.Port),
		zap.String("route_prefix", cfg.RoutePrefix),
		zap.String("environment", cfg.Environment),
		zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled),
		zap.Bool("telemetry_enabled", cfg.TelemetryEnabled))

	if err := srv.Run(ctx, cfg.ShutdownTimeout); err != nil {
		logger.Logger.Error("Server stopped with error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := db.Close(shutdownCtx); err != nil {
		logger.Logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
	}

	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Failed to shut down telemetry", zap.Error(err))
	}

	logger.Logger.Info("Shutdown complete")
}
