package schedule

import "github.com/google/uuid"

// FirstConflict scans the existing bookings for one that blocks the
// candidate range. Cancelled bookings never block, and an appointment
// being edited is excluded so it cannot conflict with itself. Returns
// nil when the candidate is free.
func FirstConflict(candidate TimeRange, existing []Appointment, excludeID uuid.UUID) *Appointment {
	for i := range existing {
		appt := &existing[i]
		if appt.Status == StatusCancelled {
			continue
		}
		if excludeID != uuid.Nil && appt.ID == excludeID {
			continue
		}
		if candidate.Overlaps(appt.Range()) {
			return appt
		}
	}
	return nil
}

// IsAvailable is the boolean verdict over FirstConflict. An empty
// booking set is trivially available.
func IsAvailable(candidate TimeRange, existing []Appointment, excludeID uuid.UUID) bool {
	return FirstConflict(candidate, existing, excludeID) == nil
}
