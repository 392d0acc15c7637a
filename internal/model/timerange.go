package model

import (
	"time"

	"github.com/frontdesk/frontdesk-api/pkg/errors"
)

// TimeRange is an immutable half-open interval [Start, End).
type TimeRange struct {
	start time.Time
	end   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !end.After(start) {
		return TimeRange{}, errors.InvalidArgument("time range end must be after start", nil)
	}
	return TimeRange{start: start, end: end}, nil
}

func NewTimeRangeFromDuration(start time.Time, duration time.Duration) (TimeRange, error) {
	return NewTimeRange(start, start.Add(duration))
}

func (r TimeRange) Start() time.Time { return r.start }

func (r TimeRange) End() time.Time { return r.end }

func (r TimeRange) DurationMinutes() int {
	return int(r.end.Sub(r.start) / time.Minute)
}

func (r TimeRange) Duration() time.Duration {
	return r.end.Sub(r.start)
}

// Overlaps reports whether the two half-open intervals intersect. The
// comparison is strict on both ends, so a zero-length range overlaps nothing.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.start.Before(other.end) && other.start.Before(r.end)
}

func (r TimeRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}
