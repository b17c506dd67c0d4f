// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"resume-checker/internal/app"
	"resume-checker/internal/common/camunda"
	"resume-checker/internal/common/config"
	"resume-checker/internal/common/logger"
	"resume-checker/internal/common/observability"

	sr "resume-checker/internal/workers/evaluation/score-resume"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("config load failed", zap.Error(err))
	}
	if err := config.ValidateForWorkers(cfg); err != nil {
		zap.L().Fatal("invalid worker configuration", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("environment", cfg.App.Environment),
		zap.String("broker", cfg.Camunda.BrokerAddress),
	)

	obs, err := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
	})
	if err != nil {
		zapLog.Warn("observability disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init Zeebe Client with retry ---
	camundaClient, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		RetryConfig:            camunda.DefaultRetryConfig,
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer camundaClient.Close()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init Service Clients ---
	clients, err := app.NewClients(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("service client setup failed", zap.Error(err))
	}
	defer clients.Close()

	// --- Register Workers ---
	handler, err := sr.NewHandler(sr.HandlerOptions{
		AppConfig: cfg,
		Camunda:   camundaClient,
		Logger:    log,
		Dependencies: sr.ServiceDependencies{
			Predictor: clients.Prediction,
			Analyzer:  clients.Analysis,
			Catalog:   clients.Catalog,
			Presenter: clients.Presenter(),
			Telemetry: obs,
		},
	})
	if err != nil {
		zapLog.Fatal("failed to create score-resume handler", zap.Error(err))
	}
	if err := handler.Register(); err != nil {
		zapLog.Fatal("failed to register score-resume worker", zap.Error(err))
	}
	defer handler.Close()
	workerCfg := handler.GetConfig()
	zapLog.Info("Workers registered",
		zap.String("taskType", handler.GetTaskType()),
		zap.Bool("enabled", handler.IsEnabled()),
		zap.Int("maxJobsActive", workerCfg.MaxJobsActive),
		zap.Duration("timeout", workerCfg.Timeout),
	)

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.Observability.MetricsAddress,
		Handler:           newMux(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func newMux(checker healthChecker) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", nil)
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := checker.HealthCheck(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready", err)
			return
		}
		writeStatus(w, http.StatusOK, "ready", nil)
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, status string, err error) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if err != nil {
		body["error"] = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
