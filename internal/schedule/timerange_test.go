package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, hour, minute, duration int) TimeRange {
	t.Helper()
	r, err := NewTimeRange(hour, minute, duration)
	require.NoError(t, err)
	return r
}

func TestNewTimeRangeRejectsBadInput(t *testing.T) {
	cases := []struct {
		name                   string
		hour, minute, duration int
		wantErr                error
	}{
		{"zero duration", 9, 0, 0, ErrInvalidDuration},
		{"negative duration", 9, 0, -15, ErrInvalidDuration},
		{"hour too large", 24, 0, 30, ErrInvalidClock},
		{"negative minute", 9, -1, 30, ErrInvalidClock},
		{"minute too large", 9, 60, 30, ErrInvalidClock},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTimeRange(tc.hour, tc.minute, tc.duration)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	r, err := ParseTimeRange("09:30", 45)
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, r.StartMinutes())
	assert.Equal(t, 9*60+75, r.EndMinutes())
	assert.Equal(t, "09:30", r.Clock())

	_, err = ParseTimeRange("09:30", 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestParseTimeRangeRejectsMalformedClock(t *testing.T) {
	cases := []string{
		"late morning",
		"09:30xyz",
		"09:30:59",
		"9:30 ",
		"25:00",
		"09:75",
		"",
	}

	for _, clock := range cases {
		t.Run(clock, func(t *testing.T) {
			_, err := ParseTimeRange(clock, 30)
			assert.ErrorIs(t, err, ErrInvalidClock)
		})
	}
}

func TestOverlapsSymmetry(t *testing.T) {
	pairs := []struct {
		a, b TimeRange
	}{
		{mustRange(t, 9, 0, 30), mustRange(t, 9, 15, 30)},
		{mustRange(t, 9, 0, 30), mustRange(t, 9, 30, 30)},
		{mustRange(t, 9, 0, 30), mustRange(t, 14, 0, 30)},
		{mustRange(t, 9, 0, 120), mustRange(t, 9, 30, 15)},
	}

	for _, p := range pairs {
		assert.Equal(t, p.a.Overlaps(p.b), p.b.Overlaps(p.a),
			"overlap of %s and %s must be symmetric", p.a.Clock(), p.b.Clock())
	}
}

func TestOverlapsSelf(t *testing.T) {
	r := mustRange(t, 10, 0, 20)
	assert.True(t, r.Overlaps(r))
}

func TestBackToBackDoesNotOverlap(t *testing.T) {
	first := mustRange(t, 9, 0, 30)
	second := mustRange(t, 9, 30, 30)

	assert.False(t, first.Overlaps(second))
	assert.False(t, second.Overlaps(first))
}

func TestContainedRangeOverlaps(t *testing.T) {
	outer := mustRange(t, 9, 0, 120)
	inner := mustRange(t, 9, 30, 15)

	assert.True(t, outer.Overlaps(inner))
	assert.True(t, inner.Overlaps(outer))
}
