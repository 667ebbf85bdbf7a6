// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"agri-advisory-workers/internal/bootstrap"
	"agri-advisory-workers/internal/common/camunda"
	"agri-advisory-workers/internal/common/config"
	"agri-advisory-workers/internal/common/database"
	"agri-advisory-workers/internal/common/logger"
	"agri-advisory-workers/internal/common/observability"
	"agri-advisory-workers/internal/common/validation"
	"agri-advisory-workers/pkg/registry"

	afd "agri-advisory-workers/internal/workers/advisory/aggregate-farm-data"
	cfq "agri-advisory-workers/internal/workers/advisory/classify-farm-query"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.Build(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
		zap.String("catalogSource", cfg.Catalog.Source),
	)

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.App.Name,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	})
	if err != nil {
		zapLog.Warn("observability partially initialised", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Catalog and aggregator ---
	cat, err := bootstrap.LoadCatalog(ctx, cfg, bootstrap.DefaultRetry, log)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	agg := bootstrap.NewAggregator(cat, cfg.Catalog.SimulateLatency, log)

	reg, err := registry.Default()
	if err != nil {
		zapLog.Fatal("activity registry invalid", zap.Error(err))
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		zapLog.Fatal("input schemas invalid", zap.Error(err))
	}

	// --- Zeebe client with retry ---
	var zeebe *camunda.Client
	err = bootstrap.RetryWithBackoff(ctx, bootstrap.DefaultRetry, log, "Zeebe client initialization", func(context.Context) error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- Redis, only when the response cache is on ---
	aggCfg := afd.FromAppConfig(cfg)
	deps := afd.Dependencies{Aggregator: agg, Validator: validator, Observability: obs}
	if aggCfg.CacheTTL > 0 {
		rc := database.NewRedis(cfg.Database.Redis)
		defer rc.Close()
		if err := bootstrap.RetryWithBackoff(ctx, bootstrap.DefaultRetry, log, "Redis connection", rc.Ping); err != nil {
			zapLog.Warn("redis unavailable, aggregate cache disabled", zap.Error(err))
		} else {
			deps.Redis = rc.Client
			zapLog.Info("Redis connected successfully", zap.Duration("cacheTTL", aggCfg.CacheTTL))
		}
	}

	// --- Workers ---
	workers := camunda.NewWorkers(zeebe.GetClient(), log)

	classifyCfg := cfq.LoadConfig()
	if wc := config.GetWorkerConfig(cfg, cfq.TaskType); wc.Timeout > 0 {
		classifyCfg.Timeout = config.GetDuration(wc.Timeout)
	}
	workers.StartWorker(cfq.TaskType, config.GetWorkerConfig(cfg, cfq.TaskType),
		cfq.NewHandler(classifyCfg, validator, obs, log))

	workers.StartWorker(afd.TaskType, config.GetWorkerConfig(cfg, afd.TaskType),
		afd.NewHandler(aggCfg, deps, log))

	zapLog.Info("workers registered", zap.Strings("taskTypes", workers.Running()))

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              cfg.Observability.MetricsAddress,
		Handler:           newMux(zeebe.HealthCheck),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
