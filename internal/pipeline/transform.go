package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/storm-forecast-digest/internal/domain"
)

// FeedTransformer implements Transformer by running the aggregation engine
// over each decoded feed.
type FeedTransformer struct {
	logger *slog.Logger
}

func NewTransformer(logger *slog.Logger) *FeedTransformer {
	return &FeedTransformer{logger: logger}
}

// Transform decodes the message and builds its digest. The message key, when
// present, becomes the digest key. Feeds carrying an upstream error are
// rejected before aggregation.
func (t *FeedTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.DigestEvent, error) {
	feed, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.DigestEvent{}, err
	}

	event, err := domain.NewDigestEvent(feed, string(raw.Key))
	if err != nil {
		return domain.DigestEvent{}, err
	}

	if event.Result.Crisis != nil {
		t.logger.Debug("feed raised crisis indicator",
			"key", event.Key,
			"events", len(event.Result.Crisis.Events),
		)
	}
	return event, nil
}
