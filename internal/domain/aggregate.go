package domain

// middayTime is the time-of-day preferred as a day's representative sample.
const middayTime = "12:00:00"

// SelectRepresentative returns the first sample timestamped exactly at midday.
// If the group has none, the first sample by input order is returned; proximity
// to midday is never considered.
func SelectRepresentative(group []RawSample) (RawSample, error) {
	if len(group) == 0 {
		return RawSample{}, ErrEmptyGroup
	}
	for _, s := range group {
		if TimeOfDay(s.Timestamp) == middayTime {
			return s, nil
		}
	}
	return group[0], nil
}

// Aggregate reduces a sample series to one DailyForecast per date-key, in
// first-occurrence order of the keys. A malformed sample aborts the whole call.
func Aggregate(samples []RawSample) ([]DailyForecast, error) {
	groups, err := GroupByDay(samples)
	if err != nil {
		return nil, err
	}

	daily := make([]DailyForecast, 0, len(groups))
	for _, g := range groups {
		rep, err := SelectRepresentative(g.Samples)
		if err != nil {
			return nil, err
		}
		daily = append(daily, DailyForecast{DateKey: g.DateKey, Representative: rep})
	}
	return daily, nil
}

// ExtractCrisis returns the feed's crisis signal, or nil when the crisis
// indicator is not raised. A raised indicator with no events still yields a
// non-nil signal with an empty (non-nil) event slice.
func ExtractCrisis(feed Feed) *CrisisSignal {
	if !feed.CrisisMode {
		return nil
	}
	events := make([]CrisisEvent, 0, len(feed.CrisisEvents))
	for _, e := range feed.CrisisEvents {
		events = append(events, CrisisEvent{Time: e.Time, Condition: e.Condition})
	}
	return &CrisisSignal{Events: events}
}

// BuildDigest runs the aggregator and the crisis extractor over one feed.
// The feed's upstream error must already have been checked by the caller.
func BuildDigest(feed Feed) (AggregationResult, error) {
	daily, err := Aggregate(feed.Samples)
	if err != nil {
		return AggregationResult{}, err
	}
	return AggregationResult{
		DailyForecasts: daily,
		Crisis:         ExtractCrisis(feed),
	}, nil
}
