package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func booking(t *testing.T, hour, minute, duration int, status Status) Appointment {
	t.Helper()
	return Appointment{
		ID:              uuid.New(),
		PatientID:       uuid.New(),
		PractitionerID:  uuid.New(),
		Date:            time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		StartMinutes:    hour*60 + minute,
		DurationMinutes: duration,
		Status:          status,
	}
}

func TestIsAvailableEmptySet(t *testing.T) {
	slot := mustRange(t, 9, 0, 30)
	assert.True(t, IsAvailable(slot, nil, uuid.Nil))
	assert.True(t, IsAvailable(slot, []Appointment{}, uuid.Nil))
}

func TestIsAvailableBackToBack(t *testing.T) {
	// Confirmed 09:00-09:30; candidate 09:30-10:00 on the same day.
	existing := []Appointment{booking(t, 9, 0, 30, StatusConfirmed)}
	candidate := mustRange(t, 9, 30, 30)

	assert.True(t, IsAvailable(candidate, existing, uuid.Nil))
}

func TestIsAvailableOverlapBlocks(t *testing.T) {
	// Confirmed 09:00-09:30; candidate 09:15-09:45 overlaps.
	existing := []Appointment{booking(t, 9, 0, 30, StatusConfirmed)}
	candidate := mustRange(t, 9, 15, 30)

	assert.False(t, IsAvailable(candidate, existing, uuid.Nil))

	conflict := FirstConflict(candidate, existing, uuid.Nil)
	if assert.NotNil(t, conflict) {
		assert.Equal(t, existing[0].ID, conflict.ID)
	}
}

func TestIsAvailableCancelledNeverBlocks(t *testing.T) {
	existing := []Appointment{booking(t, 9, 0, 30, StatusCancelled)}
	candidate := mustRange(t, 9, 0, 30)

	assert.True(t, IsAvailable(candidate, existing, uuid.Nil))
}

func TestIsAvailableAllOtherStatusesBlock(t *testing.T) {
	candidate := mustRange(t, 9, 15, 30)
	for _, status := range []Status{StatusScheduled, StatusConfirmed, StatusCompleted, StatusNoShow} {
		existing := []Appointment{booking(t, 9, 0, 30, status)}
		assert.False(t, IsAvailable(candidate, existing, uuid.Nil),
			"status %s should block the slot", status)
	}
}

func TestIsAvailableExcludesSelf(t *testing.T) {
	self := booking(t, 9, 0, 30, StatusScheduled)
	other := booking(t, 10, 0, 30, StatusScheduled)
	existing := []Appointment{self, other}

	// Editing "self" to a slot overlapping only itself is fine.
	assert.True(t, IsAvailable(mustRange(t, 9, 10, 30), existing, self.ID))
	// But not to a slot overlapping the other booking.
	assert.False(t, IsAvailable(mustRange(t, 9, 45, 30), existing, self.ID))
}
