package models

import (
	"math"
	"time"
)

// Instant is a UTC date-time that may be invalid, e.g. when the source
// timestamp could not be parsed.
type Instant struct {
	Time  time.Time
	Valid bool
}

// invalidKey groups every invalid instant under a single key.
const invalidKey int64 = math.MinInt64

// NewInstant returns a valid instant normalized to UTC and truncated to whole
// milliseconds, the precision the summary file carries.
func NewInstant(t time.Time) Instant {
	return Instant{Time: t.UTC().Truncate(time.Millisecond), Valid: true}
}

// Key returns a comparable grouping key. Two instants share a key when they
// denote the same point in time, or when both are invalid.
func (i Instant) Key() int64 {
	if !i.Valid {
		return invalidKey
	}
	return i.Time.UnixNano()
}

// Equal reports whether i and o have the same grouping key.
func (i Instant) Equal(o Instant) bool {
	return i.Key() == o.Key()
}
