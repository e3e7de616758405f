// Command validate checks forecast fixtures against the digest engine's
// invariants: feed timestamps are well formed, every date appears exactly once
// in first-occurrence order, each representative belongs to its day and is the
// midday sample when one exists, and the crisis signal mirrors the indicator.
// When a digest fixture is given it must equal a fresh digest of the feed.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -feed-json data/mock/forecast_feed_240426.json \
//	  -digest-json data/mock/forecast_digest_240426.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/storm-forecast-digest/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	feedJSON := flag.String("feed-json", "", "path to raw feed fixture")
	digestJSON := flag.String("digest-json", "", "optional path to expected digest fixture")
	flag.Parse()

	if *feedJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*feedJSON, *digestJSON))
}

func run(feedPath, digestPath string) int {
	fmt.Println("=== Forecast Fixture Validation ===")
	fmt.Println()

	data, err := os.ReadFile(feedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read feed: %v\n", err)
		return 1
	}
	feed, err := domain.ParseFeed(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	if err := feed.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	result, err := domain.BuildDigest(feed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: digest: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateTimestamps(feed.Samples),
		validateDays(feed.Samples, result.DailyForecasts),
		validateRepresentatives(feed.Samples, result.DailyForecasts),
		validateCrisis(feed, result.Crisis),
	}
	if digestPath != "" {
		phases = append(phases, validateFixture(feed, digestPath))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Samples: %d, days: %d, crisis: %v\n", len(feed.Samples), len(result.DailyForecasts), result.Crisis != nil)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Timestamps ──
// Samples are full "YYYY-MM-DD HH:MM:SS" timestamps in ascending order.

func validateTimestamps(samples []domain.RawSample) *phase {
	p := &phase{name: "Phase 1: Timestamps (format, order)"}
	var prev time.Time
	for i, s := range samples {
		ts, err := time.Parse(time.DateTime, s.Timestamp)
		if err != nil {
			p.errorf("sample %d: timestamp %q: %v", i, s.Timestamp, err)
			continue
		}
		if i > 0 && !ts.After(prev) {
			p.errorf("sample %d: %s is not after %s", i, s.Timestamp, prev.Format(time.DateTime))
		}
		prev = ts
	}
	return p
}

// ── Phase 2: Days ──
// Exactly one entry per distinct date, in first-occurrence order.

func validateDays(samples []domain.RawSample, days []domain.DailyForecast) *phase {
	p := &phase{name: "Phase 2: Days (completeness, order)"}

	var want []string
	seen := map[string]bool{}
	for _, s := range samples {
		key, err := domain.DateKey(s.Timestamp)
		if err != nil {
			p.errorf("%v", err)
			continue
		}
		if !seen[key] {
			seen[key] = true
			want = append(want, key)
		}
	}

	got := make([]string, 0, len(days))
	for _, d := range days {
		got = append(got, d.DateKey)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		p.errorf("date keys mismatch (-want +got):\n%s", diff)
	}
	return p
}

// ── Phase 3: Representatives ──
// Each representative belongs to its day and is the midday sample if present.

func validateRepresentatives(samples []domain.RawSample, days []domain.DailyForecast) *phase {
	p := &phase{name: "Phase 3: Representatives (membership, midday)"}

	byDay := map[string][]domain.RawSample{}
	for _, s := range samples {
		key, err := domain.DateKey(s.Timestamp)
		if err != nil {
			continue
		}
		byDay[key] = append(byDay[key], s)
	}

	for _, d := range days {
		group := byDay[d.DateKey]
		member := false
		var midday *domain.RawSample
		for i := range group {
			if group[i] == d.Representative {
				member = true
			}
			if midday == nil && domain.TimeOfDay(group[i].Timestamp) == "12:00:00" {
				midday = &group[i]
			}
		}
		if !member {
			p.errorf("%s: representative %s is not one of the day's samples", d.DateKey, d.Representative.Timestamp)
		}
		switch {
		case midday != nil && d.Representative != *midday:
			p.errorf("%s: midday sample exists but %s was chosen", d.DateKey, d.Representative.Timestamp)
		case midday == nil && len(group) > 0 && d.Representative != group[0]:
			p.errorf("%s: no midday sample, expected first sample %s, got %s", d.DateKey, group[0].Timestamp, d.Representative.Timestamp)
		}
	}
	return p
}

// ── Phase 4: Crisis ──
// The signal exists iff the indicator is raised, and carries the feed's events.

func validateCrisis(feed domain.Feed, signal *domain.CrisisSignal) *phase {
	p := &phase{name: "Phase 4: Crisis signal"}
	switch {
	case feed.CrisisMode && signal == nil:
		p.errorf("crisis_mode is set but no signal was produced")
	case !feed.CrisisMode && signal != nil:
		p.errorf("crisis_mode is not set but a signal was produced")
	case signal != nil:
		want := feed.CrisisEvents
		if want == nil {
			want = []domain.CrisisEvent{}
		}
		if diff := cmp.Diff(want, signal.Events); diff != "" {
			p.errorf("crisis events mismatch (-want +got):\n%s", diff)
		}
	}
	return p
}

// ── Phase 5: Digest fixture ──
// The stored digest equals a fresh digest computed with the fixture's clock.

func validateFixture(feed domain.Feed, path string) *phase {
	p := &phase{name: "Phase 5: Digest fixture (regenerated)"}

	data, err := os.ReadFile(path)
	if err != nil {
		p.errorf("read digest fixture: %v", err)
		return p
	}
	var stored domain.DigestEvent
	if err := json.Unmarshal(data, &stored); err != nil {
		p.errorf("decode digest fixture: %v", err)
		return p
	}

	domain.SetClock(clockwork.NewFakeClockAt(stored.ProcessedAt))
	defer domain.SetClock(nil)

	fresh, err := domain.NewDigestEvent(feed, stored.Key)
	if err != nil {
		p.errorf("digest feed: %v", err)
		return p
	}
	if diff := cmp.Diff(stored, fresh); diff != "" {
		p.errorf("digest fixture is stale (-stored +fresh):\n%s", diff)
	}
	return p
}
