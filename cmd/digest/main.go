package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/storm-forecast-digest/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/storm-forecast-digest/internal/adapter/kafka"
	"github.com/couchcryptid/storm-forecast-digest/internal/adapter/redisdedupe"
	"github.com/couchcryptid/storm-forecast-digest/internal/adapter/snsnotify"
	"github.com/couchcryptid/storm-forecast-digest/internal/adapter/weatherapi"
	"github.com/couchcryptid/storm-forecast-digest/internal/config"
	"github.com/couchcryptid/storm-forecast-digest/internal/notify"
	"github.com/couchcryptid/storm-forecast-digest/internal/observability"
	"github.com/couchcryptid/storm-forecast-digest/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Crisis notification fan-out. The crisis topic is always on; SNS and
	// Redis dedupe are enabled by SNS_TOPIC_ARN and REDIS_URL.
	crisisWriter := kafkaadapter.NewCrisisWriter(cfg, logger)
	notifiers := []notify.Notifier{crisisWriter}

	if cfg.SNSTopicARN != "" {
		sns, err := snsnotify.New(cfg.AWSRegion, cfg.SNSTopicARN)
		if err != nil {
			logger.Error("failed to create sns notifier", "error", err)
			os.Exit(1)
		}
		notifiers = append(notifiers, sns)
		logger.Info("sns crisis notifications enabled", "region", cfg.AWSRegion)
	}

	var (
		deduper     notify.Deduper
		store       *redisdedupe.Store
		readyChecks []sharedobs.ReadinessChecker
	)
	if cfg.RedisURL != "" {
		store, err = redisdedupe.New(cfg.RedisURL, cfg.CrisisDedupeTTL)
		if err != nil {
			logger.Error("failed to create redis dedupe store", "error", err)
			os.Exit(1)
		}
		deduper = store
		readyChecks = append(readyChecks, store)
		logger.Info("crisis dedupe enabled", "ttl", cfg.CrisisDedupeTTL)
	} else {
		logger.Info("crisis dedupe disabled")
	}

	dispatcher := notify.NewDispatcher(deduper, logger, metrics, notifiers...)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(logger)

	p := pipeline.New(reader, transformer, writer, dispatcher, logger, metrics, cfg.BatchSize)

	client := weatherapi.NewClient(cfg.WeatherAPIURL, cfg.WeatherAPITimeout, metrics, logger)
	source := weatherapi.NewCachedSource(client, cfg.FeedCacheSize, cfg.FeedCachePrecision, metrics)
	logger.Info("weather source configured",
		"url", cfg.WeatherAPIURL,
		"timeout", cfg.WeatherAPITimeout,
		"cache_size", cfg.FeedCacheSize,
		"cache_precision", cfg.FeedCachePrecision,
	)

	ready := httpadapter.AllReady(append([]sharedobs.ReadinessChecker{p}, readyChecks...)...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, source, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start digest pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if err := crisisWriter.Close(); err != nil {
		logger.Error("kafka crisis writer close error", "error", err)
	}
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
