package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-forecast-digest/internal/config"
	"github.com/couchcryptid/storm-forecast-digest/internal/notify"
	kafkago "github.com/segmentio/kafka-go"
)

// CrisisWriter publishes crisis alerts to the crisis topic.
// It implements notify.Notifier.
type CrisisWriter struct {
	writer messageWriter
	logger *slog.Logger
}

// NewCrisisWriter creates a Kafka producer for the configured crisis topic.
func NewCrisisWriter(cfg *config.Config, logger *slog.Logger) *CrisisWriter {
	return &CrisisWriter{writer: newProducer(cfg.KafkaBrokers, cfg.KafkaCrisisTopic), logger: logger}
}

func (w *CrisisWriter) Name() string { return "kafka" }

// Notify publishes one alert keyed by its ID.
func (w *CrisisWriter) Notify(ctx context.Context, alert notify.Alert) error {
	msg, err := alertToMessage(alert)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish crisis alert: %w", err)
	}
	return nil
}

func (w *CrisisWriter) Close() error {
	return w.writer.Close()
}

func alertToMessage(alert notify.Alert) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize crisis alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "feed_key", Value: []byte(alert.FeedKey)},
			{Key: "issued_at", Value: []byte(alert.IssuedAt.Format(time.RFC3339))},
		},
	}, nil
}
