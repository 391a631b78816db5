package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

// ParseStatus rejects anything outside the closed status set. Status
// strings arrive from the API and from stored rows; an unknown value is
// a construction-time error, never a silent passthrough.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

type Appointment struct {
	ID              uuid.UUID
	PatientID       uuid.UUID
	PractitionerID  uuid.UUID
	Date            time.Time // calendar date, midnight UTC
	StartMinutes    int
	DurationMinutes int
	Reason          string
	Status          Status
	Notes           *string
	CreatedBy       uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Range returns the booked slot as a half-open interval.
func (a Appointment) Range() TimeRange {
	return rangeFromStored(a.StartMinutes, a.DurationMinutes)
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}

// DateOnly strips the clock from a timestamp, keeping the calendar date
// in UTC. Appointment dates are naive local dates per the data model.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
