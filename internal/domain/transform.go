package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// feedResponse mirrors the upstream /weather JSON: the OpenWeatherMap 5-day
// forecast shape extended with crisis_mode, crisis_events, and error.
type feedResponse struct {
	List         []feedItem    `json:"list"`
	CrisisMode   boolLike      `json:"crisis_mode"`
	CrisisEvents []feedCrisis  `json:"crisis_events"`
	Error        string        `json:"error"`
	City         struct {
		Name  string `json:"name"`
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
	} `json:"city"`
}

type feedItem struct {
	DtTxt   string `json:"dt_txt"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// feedCrisis is one crisis_events item. Both fields are opaque display text.
type feedCrisis struct {
	Time      looseString `json:"time"`
	Condition looseString `json:"condition"`
}

// looseString keeps JSON strings as-is, turns null into "", and keeps any
// other value as its compact JSON text.
type looseString string

func (l *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = looseString(s)
		return nil
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*l = looseString(buf.String())
		return nil
	}
}

// boolLike accepts true/false, numbers (non-zero is true), strings understood
// by strconv.ParseBool, and null.
type boolLike bool

func (b *boolLike) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*b = false
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("crisis_mode: %w", err)
		}
		*b = boolLike(v)
		return nil
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*b = boolLike(data[0] == 't')
		return nil
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("crisis_mode: unsupported value %s", data)
		}
		*b = f != 0
		return nil
	}
}

// ParseFeed decodes an upstream /weather response body into a Feed.
func ParseFeed(data []byte) (Feed, error) {
	var resp feedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return Feed{}, fmt.Errorf("parse feed: %w", err)
	}

	var events []CrisisEvent
	if resp.CrisisEvents != nil {
		events = make([]CrisisEvent, len(resp.CrisisEvents))
		for i, e := range resp.CrisisEvents {
			events[i] = CrisisEvent{Time: string(e.Time), Condition: string(e.Condition)}
		}
	}

	samples := make([]RawSample, 0, len(resp.List))
	for _, item := range resp.List {
		s := RawSample{
			Timestamp:   item.DtTxt,
			Temperature: item.Main.Temp,
			Humidity:    item.Main.Humidity,
			Pressure:    item.Main.Pressure,
			WindSpeed:   item.Wind.Speed,
		}
		if len(item.Weather) > 0 {
			s.WeatherCategory = item.Weather[0].Main
			s.WeatherDescription = item.Weather[0].Description
			s.IconCode = item.Weather[0].Icon
		}
		samples = append(samples, s)
	}

	return Feed{
		Location: Location{
			Name: resp.City.Name,
			Lat:  resp.City.Coord.Lat,
			Lon:  resp.City.Coord.Lon,
		},
		Samples:      samples,
		CrisisMode:   bool(resp.CrisisMode),
		CrisisEvents: events,
		Error:        strings.TrimSpace(resp.Error),
	}, nil
}

// ParseRawEvent decodes a source-topic message into a Feed.
func ParseRawEvent(raw RawEvent) (Feed, error) {
	return ParseFeed(raw.Value)
}

// NewDigestEvent runs the engine over a feed and stamps the result for
// publication. key falls back to a deterministic hash of the feed when empty.
func NewDigestEvent(feed Feed, key string) (DigestEvent, error) {
	if err := feed.Err(); err != nil {
		return DigestEvent{}, err
	}
	result, err := BuildDigest(feed)
	if err != nil {
		return DigestEvent{}, err
	}
	if key == "" {
		key = generateKey(feed)
	}
	return DigestEvent{
		Key:         key,
		Location:    feed.Location,
		Result:      result,
		ProcessedAt: clock.Now(),
	}, nil
}

// generateKey derives a stable key from the location and the first sample's
// timestamp so replays of the same feed publish under the same key.
func generateKey(feed Feed) string {
	first := ""
	if len(feed.Samples) > 0 {
		first = feed.Samples[0].Timestamp
	}
	input := fmt.Sprintf("%.4f|%.4f|%s|%d", feed.Location.Lat, feed.Location.Lon, first, len(feed.Samples))
	hash := sha256.Sum256([]byte(input))
	return "digest-" + hex.EncodeToString(hash[:8])
}
