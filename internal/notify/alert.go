// Package notify performs the crisis notification effect. It runs after a
// digest has been published and never feeds back into the digest itself.
package notify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/storm-forecast-digest/internal/domain"
)

const (
	AlertTitle = "Crisis Alert!"

	// emptySignalBody is used when the crisis indicator is raised without events.
	emptySignalBody = "Severe weather conditions expected!"
)

// Alert is the interruptive notification built from a crisis signal.
type Alert struct {
	ID       string               `json:"id"`
	FeedKey  string               `json:"feed_key"`
	Location domain.Location      `json:"location"`
	Title    string               `json:"title"`
	Body     string               `json:"body"`
	Events   []domain.CrisisEvent `json:"events"`
	IssuedAt time.Time            `json:"issued_at"`
}

// NewAlert formats a crisis signal as one "time: condition" line per event.
func NewAlert(feedKey string, loc domain.Location, signal domain.CrisisSignal, issuedAt time.Time) Alert {
	body := emptySignalBody
	if len(signal.Events) > 0 {
		lines := make([]string, 0, len(signal.Events))
		for _, e := range signal.Events {
			lines = append(lines, fmt.Sprintf("%s: %s", e.Time, e.Condition))
		}
		body = strings.Join(lines, "\n")
	}

	events := make([]domain.CrisisEvent, len(signal.Events))
	copy(events, signal.Events)

	return Alert{
		ID:       alertID(loc, signal),
		FeedKey:  feedKey,
		Location: loc,
		Title:    AlertTitle,
		Body:     body,
		Events:   events,
		IssuedAt: issuedAt,
	}
}

// alertID is stable for the same location and event list, so a crisis that
// stays raised across consecutive feeds is recognized as already notified.
func alertID(loc domain.Location, signal domain.CrisisSignal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%.2f|%.2f", loc.Lat, loc.Lon)
	for _, e := range signal.Events {
		fmt.Fprintf(&b, "|%s|%s", e.Time, e.Condition)
	}
	hash := sha256.Sum256([]byte(b.String()))
	return "crisis-" + hex.EncodeToString(hash[:8])
}
