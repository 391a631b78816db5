package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrPractitionerNotFound = errors.New("practitioner not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	PatientExists(ctx context.Context, id uuid.UUID) (bool, error)
	PractitionerExists(ctx context.Context, id uuid.UUID) (bool, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// ListForPractitionerDate feeds the availability check: every
	// appointment for one practitioner on one calendar day, any status.
	ListForPractitionerDate(ctx context.Context, practitionerID uuid.UUID, date time.Time) ([]Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error)

	Create(ctx context.Context, a *Appointment) (*Appointment, error)

	// UpdateStatus is a compare-and-swap: the row is only touched while
	// it still carries the expected current status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (*Appointment, error)

	// UpdateSlot moves an appointment to a new date/time/duration while
	// it is still scheduled or confirmed.
	UpdateSlot(ctx context.Context, id uuid.UUID, date time.Time, slot TimeRange) (*Appointment, error)

	// Delete is the administrative hard-delete override. Normal
	// cancellation is a status change, never a deletion.
	Delete(ctx context.Context, id uuid.UUID) error

	InsertEvent(ctx context.Context, ev EventLog) error
}
