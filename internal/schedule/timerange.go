package schedule

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDuration = errors.New("duration must be a positive number of minutes")
	ErrInvalidClock    = errors.New("start time must be a valid HH:MM clock value")
)

// TimeRange is a half-open interval [start, start+duration) within one
// calendar day, measured in minutes from midnight.
type TimeRange struct {
	startMinutes    int
	durationMinutes int
}

func NewTimeRange(hour, minute, durationMinutes int) (TimeRange, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeRange{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidClock, hour, minute)
	}
	if durationMinutes <= 0 {
		return TimeRange{}, fmt.Errorf("%w: got %d", ErrInvalidDuration, durationMinutes)
	}
	return TimeRange{
		startMinutes:    hour*60 + minute,
		durationMinutes: durationMinutes,
	}, nil
}

// ParseTimeRange builds a TimeRange from an "HH:MM" clock string.
func ParseTimeRange(clock string, durationMinutes int) (TimeRange, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	return NewTimeRange(t.Hour(), t.Minute(), durationMinutes)
}

// StartMinutes is the offset from midnight in minutes.
func (r TimeRange) StartMinutes() int { return r.startMinutes }

// EndMinutes is the exclusive end offset. It may pass midnight.
func (r TimeRange) EndMinutes() int { return r.startMinutes + r.durationMinutes }

func (r TimeRange) DurationMinutes() int { return r.durationMinutes }

// Clock renders the start as "HH:MM".
func (r TimeRange) Clock() string {
	return fmt.Sprintf("%02d:%02d", r.startMinutes/60, r.startMinutes%60)
}

// Overlaps reports whether two half-open ranges intersect. Back-to-back
// ranges (one ends exactly where the other starts) do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.startMinutes < other.EndMinutes() && other.startMinutes < r.EndMinutes()
}

// rangeFromStored rebuilds a TimeRange from persisted minute columns.
// Stored rows were validated on the way in.
func rangeFromStored(startMinutes, durationMinutes int) TimeRange {
	return TimeRange{startMinutes: startMinutes, durationMinutes: durationMinutes}
}
