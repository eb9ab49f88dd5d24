package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/balloon-tracker/internal/adapter/constellation"
	httpadapter "github.com/couchcryptid/balloon-tracker/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/balloon-tracker/internal/adapter/kafka"
	"github.com/couchcryptid/balloon-tracker/internal/adapter/openmeteo"
	"github.com/couchcryptid/balloon-tracker/internal/config"
	"github.com/couchcryptid/balloon-tracker/internal/observability"
	"github.com/couchcryptid/balloon-tracker/internal/tracker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	source := constellation.NewClient(cfg.ConstellationBaseURL, cfg.ConstellationTimeout, clock, logger)

	weatherClient := openmeteo.NewClient(cfg.WeatherBaseURL, cfg.WeatherTimeout, metrics, logger)
	throttle := openmeteo.NewThrottle(cfg.WeatherMinInterval, clock)
	weather := openmeteo.NewThrottledProvider(weatherClient, throttle)

	// Alert publishing is feature-flagged via KAFKA_ENABLED.
	var alerts tracker.AlertPublisher
	var alertsWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		alertsWriter = kafkaadapter.NewWriter(cfg, logger)
		alerts = alertsWriter
		logger.Info("kafka alert publishing enabled", "topic", cfg.KafkaAlertsTopic)
	} else {
		logger.Info("kafka alert publishing disabled")
	}

	tr := tracker.New(source, weather, alerts, logger, metrics, clock, tracker.Options{
		RefreshInterval:    cfg.RefreshInterval,
		HistoryHours:       cfg.HistoryHours,
		WeatherConcurrency: cfg.WeatherConcurrency,
		MatchRadiusDeg:     cfg.MatchRadiusDeg,
		PredictSteps:       cfg.PredictSteps,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, tr, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh loop.
	go func() {
		if err := tr.Run(ctx); err != nil {
			logger.Error("tracker error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if alertsWriter != nil {
		if err := alertsWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
