package domain

import (
	"strings"
	"time"
)

const dateKeyLen = len(time.DateOnly)

// DateKey returns the literal leading YYYY-MM-DD portion of a sample timestamp.
// No timezone conversion is applied.
func DateKey(timestamp string) (string, error) {
	if len(timestamp) < dateKeyLen {
		return "", ErrMalformedSample
	}
	key := timestamp[:dateKeyLen]
	if _, err := time.Parse(time.DateOnly, key); err != nil {
		return "", ErrMalformedSample
	}
	if len(timestamp) > dateKeyLen && timestamp[dateKeyLen] != ' ' {
		return "", ErrMalformedSample
	}
	return key, nil
}

// TimeOfDay returns the portion of the timestamp after the date and separator,
// or "" when the timestamp carries no time.
func TimeOfDay(timestamp string) string {
	_, tod, ok := strings.Cut(timestamp, " ")
	if !ok {
		return ""
	}
	return tod
}

// GroupByDay partitions samples by date-key. Groups appear in first-occurrence
// order of their key and keep input order within each day.
func GroupByDay(samples []RawSample) ([]DayGroup, error) {
	groups := make([]DayGroup, 0)
	index := make(map[string]int)

	for i, s := range samples {
		key, err := DateKey(s.Timestamp)
		if err != nil {
			return nil, &MalformedSampleError{Index: i, Timestamp: s.Timestamp}
		}
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, DayGroup{DateKey: key})
		}
		groups[pos].Samples = append(groups[pos].Samples, s)
	}

	return groups, nil
}
