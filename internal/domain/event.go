package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// RawSample is one three-hourly forecast observation.
type RawSample struct {
	Timestamp          string  `json:"timestamp"` // "YYYY-MM-DD HH:MM:SS"
	WeatherCategory    string  `json:"category"`
	WeatherDescription string  `json:"description"`
	IconCode           string  `json:"icon"`
	Temperature        float64 `json:"temperature"`
	Humidity           float64 `json:"humidity"`
	Pressure           float64 `json:"pressure"`
	WindSpeed          float64 `json:"wind_speed"`
}

// DayGroup holds the samples sharing one date-key, in input order.
type DayGroup struct {
	DateKey string
	Samples []RawSample
}

// DailyForecast is the single representative sample chosen for a date.
type DailyForecast struct {
	DateKey        string    `json:"date"`
	Representative RawSample `json:"forecast"`
}

// CrisisEvent is one severe-weather alert item, copied verbatim from the feed.
type CrisisEvent struct {
	Time      string `json:"time"`
	Condition string `json:"condition"`
}

// CrisisSignal is present only when the feed raised its crisis indicator.
// Events may be empty; presence of the signal is what matters.
type CrisisSignal struct {
	Events []CrisisEvent `json:"events"`
}

// AggregationResult is the engine's full output for one feed.
type AggregationResult struct {
	DailyForecasts []DailyForecast `json:"daily_forecasts"`
	Crisis         *CrisisSignal   `json:"crisis,omitempty"`
}

// Location identifies the point a feed was produced for.
type Location struct {
	Name string  `json:"name,omitempty"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Feed is the normalized upstream response: a sample series plus the optional
// crisis indicator, crisis events, and top-level error string.
type Feed struct {
	Location     Location
	Samples      []RawSample
	CrisisMode   bool
	CrisisEvents []CrisisEvent
	Error        string
}

// Err returns an *UpstreamError when the feed carries an error string.
// Callers must check it before handing the feed to the engine.
func (f Feed) Err() error {
	if f.Error == "" {
		return nil
	}
	return &UpstreamError{Message: f.Error}
}

// DigestEvent is the transformed output destined for the digest topic.
type DigestEvent struct {
	Key         string            `json:"key"`
	Location    Location          `json:"location"`
	Result      AggregationResult `json:"result"`
	ProcessedAt time.Time         `json:"processed_at"`
}
