package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/storm-forecast-digest/internal/domain"
	"github.com/couchcryptid/storm-forecast-digest/internal/observability"
)

// Notifier delivers an alert to one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, alert Alert) error
}

// Deduper records alert IDs. FirstSeen reports true only for the first call
// with a given ID within its retention window. Forget releases a claim so the
// next FirstSeen for that ID reports true again.
type Deduper interface {
	FirstSeen(ctx context.Context, id string) (bool, error)
	Forget(ctx context.Context, id string) error
}

// Dispatcher inspects digests and fans crisis alerts out to every notifier.
type Dispatcher struct {
	notifiers []Notifier
	dedupe    Deduper
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewDispatcher creates a Dispatcher. Pass a nil deduper to notify on every signal.
func NewDispatcher(dedupe Deduper, logger *slog.Logger, metrics *observability.Metrics, notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{
		notifiers: notifiers,
		dedupe:    dedupe,
		logger:    logger,
		metrics:   metrics,
	}
}

// Dispatch notifies when the digest carries a crisis signal and does nothing
// otherwise. A signal with zero events is still dispatched. Dedupe failures
// are logged and the alert is sent anyway; notifier failures are joined.
// When no notifier delivered the alert its dedupe claim is released, so a
// later feed carrying the same crisis is not suppressed as a duplicate.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.DigestEvent) error {
	signal := event.Result.Crisis
	if signal == nil {
		return nil
	}

	alert := NewAlert(event.Key, event.Location, *signal, event.ProcessedAt)

	claimed := false
	if d.dedupe != nil {
		first, err := d.dedupe.FirstSeen(ctx, alert.ID)
		switch {
		case err != nil:
			d.logger.Warn("crisis dedupe failed, notifying anyway", "alert_id", alert.ID, "error", err)
		case first:
			claimed = true
		default:
			d.metrics.CrisisSignals.WithLabelValues("duplicate").Inc()
			d.logger.Debug("crisis already notified", "alert_id", alert.ID, "feed_key", event.Key)
			return nil
		}
	}

	var errs []error
	for _, n := range d.notifiers {
		if err := n.Notify(ctx, alert); err != nil {
			d.metrics.NotifierFailures.WithLabelValues(n.Name()).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}

	if len(errs) > 0 {
		d.metrics.CrisisSignals.WithLabelValues("error").Inc()
		if claimed && len(errs) == len(d.notifiers) {
			d.release(ctx, alert.ID)
		}
		return errors.Join(errs...)
	}

	d.metrics.CrisisSignals.WithLabelValues("notified").Inc()
	d.logger.Info("crisis alert dispatched",
		"alert_id", alert.ID,
		"feed_key", event.Key,
		"events", len(alert.Events),
		"notifiers", len(d.notifiers),
	)
	return nil
}

func (d *Dispatcher) release(ctx context.Context, id string) {
	if err := d.dedupe.Forget(ctx, id); err != nil {
		d.logger.Warn("crisis dedupe release failed", "alert_id", id, "error", err)
	}
}
