package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eastern = time.FixedZone("EDT", -4*60*60)

func mustRange(t *testing.T, start, end time.Time) TimeRange {
	t.Helper()
	r, err := NewTimeRange(start, end)
	require.NoError(t, err)
	return r
}

func TestNewTimeRangeRejectsEndNotAfterStart(t *testing.T) {
	start := time.Date(2021, 1, 1, 10, 0, 0, 0, eastern)

	_, err := NewTimeRange(start, start)
	assert.Error(t, err)

	_, err = NewTimeRange(start, start.Add(-time.Minute))
	assert.Error(t, err)
}

func TestNewTimeRangeFromDuration(t *testing.T) {
	start := time.Date(2021, 1, 1, 10, 0, 0, 0, eastern)

	r, err := NewTimeRangeFromDuration(start, 45*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, start, r.Start())
	assert.Equal(t, start.Add(45*time.Minute), r.End())
	assert.Equal(t, 45, r.DurationMinutes())

	_, err = NewTimeRangeFromDuration(start, 0)
	assert.Error(t, err)
}

func TestOverlapsIsSymmetric(t *testing.T) {
	base := time.Date(2021, 1, 1, 10, 0, 0, 0, eastern)

	pairs := []struct {
		a, b TimeRange
		want bool
	}{
		// identical
		{mustRange(t, base, base.Add(time.Hour)), mustRange(t, base, base.Add(time.Hour)), true},
		// partial overlap
		{mustRange(t, base, base.Add(time.Hour)), mustRange(t, base.Add(30*time.Minute), base.Add(2*time.Hour)), true},
		// containment
		{mustRange(t, base, base.Add(3*time.Hour)), mustRange(t, base.Add(time.Hour), base.Add(2*time.Hour)), true},
		// disjoint
		{mustRange(t, base, base.Add(time.Hour)), mustRange(t, base.Add(2*time.Hour), base.Add(3*time.Hour)), false},
	}

	for _, pair := range pairs {
		assert.Equal(t, pair.want, pair.a.Overlaps(pair.b))
		assert.Equal(t, pair.a.Overlaps(pair.b), pair.b.Overlaps(pair.a))
	}
}

func TestAdjacentRangesDoNotOverlap(t *testing.T) {
	base := time.Date(2021, 1, 1, 10, 0, 0, 0, eastern)
	first := mustRange(t, base, base.Add(time.Hour))
	second := mustRange(t, base.Add(time.Hour), base.Add(2*time.Hour))

	// half-open: [10,11) and [11,12) share no instant
	assert.False(t, first.Overlaps(second))
	assert.False(t, second.Overlaps(first))
}

func TestZeroLengthRangeOverlapsNothing(t *testing.T) {
	base := time.Date(2021, 1, 1, 10, 0, 0, 0, eastern)
	degenerate := TimeRange{start: base, end: base}
	hour := mustRange(t, base.Add(-time.Hour), base.Add(time.Hour))

	assert.False(t, degenerate.Overlaps(hour))
	assert.False(t, hour.Overlaps(degenerate))
	assert.False(t, degenerate.Overlaps(degenerate))
}
