// Package domain turns a three-hourly point forecast feed into a daily digest
// and recognizes the crisis signal carried alongside it.
//
// # Feed Conventions
//
// The upstream /weather endpoint returns the OpenWeatherMap 5-day forecast
// shape, extended with three fields:
//
//	list[]         three-hour samples; dt_txt is "YYYY-MM-DD HH:MM:SS"
//	crisis_mode    boolean-like crisis indicator (true, 1, "true")
//	crisis_events  [{time, condition}] alert items, opaque text
//	error          top-level error string; when set the feed is not digested
//
// Only the first entry of each sample's weather[] array is read.
//
// # Date Keys
//
// A sample's date-key is the literal leading 10 characters of dt_txt. No
// timezone or locale conversion is applied: a sample stamped
// "2024-03-10 21:00:00" belongs to 2024-03-10 regardless of where the point is.
// A timestamp whose prefix is not a valid YYYY-MM-DD date is a data-contract
// violation and aborts the whole digest ([MalformedSampleError]).
//
// # Representative Selection
//
// Each date is summarized by one sample: the first one stamped exactly
// "12:00:00", or else the first sample of the day in feed order. The fallback
// never looks for the sample closest to midday; partial first and last days
// are therefore represented by their earliest remaining slot.
//
// # Ordering
//
// [GroupByDay] returns an explicit ordered slice. Days appear in the order
// their date-key first occurs in the feed, not sorted by date.
//
// # Crisis Signal
//
// [ExtractCrisis] returns nil when the indicator is not raised, and a non-nil
// signal (possibly with zero events) when it is. Deciding whether an empty
// signal should interrupt anyone belongs to the notify layer.
package domain
