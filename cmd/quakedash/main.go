package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/quake-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/quake-dashboard/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-dashboard/internal/config"
	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/feed"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
	"github.com/couchcryptid/quake-dashboard/internal/pipeline"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var source feed.Source
	if cfg.FeedPath != "" {
		source = feed.NewFileSource(cfg.FeedPath)
	} else {
		source = feed.NewHTTPSource(cfg.FeedURL, cfg.FeedTimeout)
	}
	logger.Info("feed source", "source", source.Describe())

	// Record export is optional (KAFKA_BROKERS).
	var exporter pipeline.Exporter
	var writer *kafkaadapter.Writer
	if cfg.ExportEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		exporter = writer
		logger.Info("kafka export enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	}

	// Detail geocoding is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	p := pipeline.New(source, exporter, logger, metrics)
	session := dashboard.NewSession(p, geocoder, logger, metrics)
	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:        cfg.HTTPAddr,
		CORSOrigins: cfg.CORSOrigins,
	}, p, session, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Ingestion failure is reported through /api/status; the server keeps running.
	go func() {
		if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("ingestion error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-p.Done():
	case <-shutdownCtx.Done():
		logger.Warn("ingestion still running at shutdown")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
