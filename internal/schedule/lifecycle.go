package schedule

import (
	"errors"
	"time"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrSlotConflict      = errors.New("slot conflicts with an existing appointment")
)

// allowedTransitions lists every legal status edge. Completed,
// cancelled and no-show are terminal: they have no outgoing edges.
var allowedTransitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// CanTransition answers the structural half of the lifecycle rules.
// Date-dependent guards (completion, no-show) are checked separately.
func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a status permits no further transitions.
func Terminal(s Status) bool {
	return len(allowedTransitions[s]) == 0
}

// Reschedulable reports whether an appointment may still be moved to a
// different date, time or duration.
func Reschedulable(s Status) bool {
	return s == StatusScheduled || s == StatusConfirmed
}

// CompletableOn allows completion only once the appointment day has
// arrived: date <= today.
func CompletableOn(apptDate, today time.Time) bool {
	return !DateOnly(apptDate).After(DateOnly(today))
}

// NoShowEligibleOn allows the no-show mark only after the appointment
// day has fully passed: date < today.
func NoShowEligibleOn(apptDate, today time.Time) bool {
	return DateOnly(apptDate).Before(DateOnly(today))
}

// checkTransition folds the structural rule and the date guards into a
// single verdict for the service methods.
func checkTransition(a *Appointment, to Status, now time.Time) error {
	if !CanTransition(a.Status, to) {
		return ErrInvalidTransition
	}
	switch to {
	case StatusCompleted:
		if !CompletableOn(a.Date, now) {
			return ErrInvalidTransition
		}
	case StatusNoShow:
		if !NoShowEligibleOn(a.Date, now) {
			return ErrInvalidTransition
		}
	}
	return nil
}
