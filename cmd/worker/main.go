package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/snow-ghost/seeker/pkg/observability"
	"github.com/snow-ghost/seeker/worker"
	"github.com/snow-ghost/seeker/worker/telemetry"
)

func main() {
	config := worker.LoadConfig()

	// Setup structured logging
	level := slog.LevelInfo
	if config.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	w, err := worker.NewWorker(config)
	if err != nil {
		log.Fatalf("worker setup failed: %v", err)
	}

	// Tracing and Prometheus metrics are enabled when a Jaeger collector
	// endpoint is configured.
	if config.JaegerEndpoint != "" {
		obs, err := observability.NewManager(observability.Config{
			ServiceName:    "seeker-worker",
			ServiceVersion: "dev",
			Environment:    "dev",
			JaegerEndpoint: config.JaegerEndpoint,
			LogLevel:       config.LogLevel,
			LogFormat:      "json",
		})
		if err != nil {
			log.Fatalf("observability setup failed: %v", err)
		}
		defer func() { _ = obs.Shutdown(context.Background()) }()
		w = worker.WithObservability(w, obs)
	}

	ing := worker.NewIngestor(w.Search)

	// Setup HTTP routes
	mux := http.NewServeMux()
	mux.Handle("/search", ing)
	mux.Handle("/metrics/prometheus", promhttp.Handler())
	if tw, ok := w.(interface{ GetTelemetry() *telemetry.Telemetry }); ok {
		if tel := tw.GetTelemetry(); tel != nil {
			mux.Handle("/health", http.HandlerFunc(tel.HealthHandler))
			mux.Handle("/metrics", http.HandlerFunc(tel.MetricsHandler))
		}
	}

	logger.Info("worker starting", "type", w.Type(), "port", config.WorkerPort)
	log.Fatal(http.ListenAndServe(":"+config.WorkerPort, mux))
}
