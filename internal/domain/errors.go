package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedSample matches any *MalformedSampleError via errors.Is.
	ErrMalformedSample = errors.New("malformed sample")

	// ErrEmptyGroup is returned when a representative is requested for an
	// empty group. GroupByDay never produces one.
	ErrEmptyGroup = errors.New("empty day group")
)

// MalformedSampleError reports a sample whose timestamp has no usable date portion.
type MalformedSampleError struct {
	Index     int
	Timestamp string
}

func (e *MalformedSampleError) Error() string {
	return fmt.Sprintf("malformed sample at index %d: timestamp %q has no YYYY-MM-DD date portion", e.Index, e.Timestamp)
}

func (e *MalformedSampleError) Is(target error) bool {
	return target == ErrMalformedSample
}

// UpstreamError carries the error string returned by the weather data source.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return "upstream weather error: " + e.Message
}
