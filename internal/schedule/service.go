package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicore/clinic-backend/internal/redisclient"
)

const (
	EventAppointmentBooked      = "APPOINTMENT_BOOKED"
	EventAppointmentConfirmed   = "APPOINTMENT_CONFIRMED"
	EventAppointmentCompleted   = "APPOINTMENT_COMPLETED"
	EventAppointmentCancelled   = "APPOINTMENT_CANCELLED"
	EventAppointmentNoShow      = "APPOINTMENT_NO_SHOW"
	EventAppointmentRescheduled = "APPOINTMENT_RESCHEDULED"
	EventAppointmentDeleted     = "APPOINTMENT_DELETED"
)

var (
	ErrSlotBeingBooked = errors.New("slot is currently being booked, please retry")
	ErrReasonRequired  = errors.New("a visit reason is required")
)

type Service struct {
	repo   Repository
	locker redisclient.Locker
	log    zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		log:    log.With().Str("component", "schedule").Logger(),
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Date guards on completion and
// no-show depend on "today", so tests pin it.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type BookRequest struct {
	PatientID      uuid.UUID
	PractitionerID uuid.UUID
	Date           time.Time
	Slot           TimeRange
	Reason         string
	Notes          *string
	CreatedBy      uuid.UUID
}

// Book reserves a slot for a patient with a named practitioner. The
// availability check runs inside a per-practitioner-day lock so two
// concurrent front-desk requests cannot both pass it.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	if req.Reason == "" {
		return nil, ErrReasonRequired
	}

	if ok, err := s.repo.PatientExists(ctx, req.PatientID); err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	} else if !ok {
		return nil, ErrPatientNotFound
	}

	if ok, err := s.repo.PractitionerExists(ctx, req.PractitionerID); err != nil {
		return nil, fmt.Errorf("load practitioner: %w", err)
	} else if !ok {
		return nil, ErrPractitionerNotFound
	}

	var created *Appointment

	err := s.locker.WithBookingLock(ctx, req.PractitionerID, req.Date, func(lockCtx context.Context) error {
		existing, err := s.repo.ListForPractitionerDate(lockCtx, req.PractitionerID, req.Date)
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}
		if conflict := FirstConflict(req.Slot, existing, uuid.Nil); conflict != nil {
			return fmt.Errorf("%w: %s at %s", ErrSlotConflict, conflict.ID, conflict.Range().Clock())
		}

		appt, err := s.repo.Create(lockCtx, &Appointment{
			PatientID:       req.PatientID,
			PractitionerID:  req.PractitionerID,
			Date:            DateOnly(req.Date),
			StartMinutes:    req.Slot.StartMinutes(),
			DurationMinutes: req.Slot.DurationMinutes(),
			Reason:          req.Reason,
			Status:          StatusScheduled,
			Notes:           req.Notes,
			CreatedBy:       req.CreatedBy,
		})
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt

		s.logEvent(lockCtx, appt.ID, EventAppointmentBooked, map[string]any{
			"practitioner_id": req.PractitionerID.String(),
			"patient_id":      req.PatientID.String(),
			"date":            DateOnly(req.Date).Format("2006-01-02"),
			"start":           req.Slot.Clock(),
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	return created, nil
}

// Confirm moves a scheduled appointment to confirmed.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, StatusConfirmed, EventAppointmentConfirmed)
}

// Complete closes out a visit. Only allowed once the appointment day
// has arrived.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, StatusCompleted, EventAppointmentCompleted)
}

// Cancel marks an appointment cancelled. The row stays; cancellation is
// a status, not a deletion.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, StatusCancelled, EventAppointmentCancelled)
}

// MarkNoShow records that the patient never arrived. Only allowed once
// the appointment day has fully passed.
func (s *Service) MarkNoShow(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.transition(ctx, id, StatusNoShow, EventAppointmentNoShow)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to Status, eventType string) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if err := checkTransition(appt, to, s.now()); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, appt.ID, appt.Status, to)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// The CAS lost: someone moved the row between our read and
			// the update. Report it as a transition failure.
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("update status: %w", err)
	}

	s.logEvent(ctx, updated.ID, eventType, map[string]any{
		"from": string(appt.Status),
		"to":   string(to),
	})

	return updated, nil
}

// Reschedule moves an appointment to a new date/time/duration. Only
// scheduled and confirmed appointments may move, and the new slot must
// be free for the practitioner, ignoring the appointment itself.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, date time.Time, slot TimeRange) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if !Reschedulable(appt.Status) {
		return nil, ErrInvalidTransition
	}

	var updated *Appointment

	err = s.locker.WithBookingLock(ctx, appt.PractitionerID, date, func(lockCtx context.Context) error {
		existing, err := s.repo.ListForPractitionerDate(lockCtx, appt.PractitionerID, date)
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}
		if conflict := FirstConflict(slot, existing, appt.ID); conflict != nil {
			return fmt.Errorf("%w: %s at %s", ErrSlotConflict, conflict.ID, conflict.Range().Clock())
		}

		moved, err := s.repo.UpdateSlot(lockCtx, appt.ID, date, slot)
		if err != nil {
			if errors.Is(err, ErrAppointmentNotFound) {
				return ErrInvalidTransition
			}
			return fmt.Errorf("update slot: %w", err)
		}

		updated = moved

		s.logEvent(lockCtx, appt.ID, EventAppointmentRescheduled, map[string]any{
			"old_date":  appt.Date.Format("2006-01-02"),
			"old_start": appt.Range().Clock(),
			"new_date":  DateOnly(date).Format("2006-01-02"),
			"new_start": slot.Clock(),
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	return updated, nil
}

// CheckAvailability answers the advisory availability query for the UI:
// would this slot be free right now. Excluding an appointment id lets
// an edit form ignore the booking being edited.
func (s *Service) CheckAvailability(ctx context.Context, practitionerID uuid.UUID, date time.Time, slot TimeRange, excludeID uuid.UUID) (bool, error) {
	existing, err := s.repo.ListForPractitionerDate(ctx, practitionerID, date)
	if err != nil {
		return false, fmt.Errorf("list bookings: %w", err)
	}
	return IsAvailable(slot, existing, excludeID), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

func (s *Service) ListDay(ctx context.Context, practitionerID uuid.UUID, date time.Time) ([]Appointment, error) {
	appts, err := s.repo.ListForPractitionerDate(ctx, practitionerID, date)
	if err != nil {
		return nil, fmt.Errorf("list day: %w", err)
	}
	return appts, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 20 // default
	}
	if limit > 100 {
		limit = 100 // max
	}
	if offset < 0 {
		offset = 0
	}

	appts, err := s.repo.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list by patient: %w", err)
	}
	return appts, nil
}

// Delete is the administrative hard-delete override.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	s.logEvent(ctx, id, EventAppointmentDeleted, map[string]any{
		"deleted_by": deletedBy.String(),
	})
	return nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Str("event", eventType).Msg("marshal event payload")
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     s.now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.log.Error().Err(err).
			Str("event", eventType).
			Stringer("appointment_id", appointmentID).
			Msg("insert event log")
	}
}
