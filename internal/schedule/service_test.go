package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-backend/internal/redisclient"
)

// fakeRepo keeps appointments in memory and satisfies Repository.
type fakeRepo struct {
	patients      map[uuid.UUID]bool
	practitioners map[uuid.UUID]bool
	appointments  map[uuid.UUID]*Appointment
	events        []EventLog
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		patients:      map[uuid.UUID]bool{},
		practitioners: map[uuid.UUID]bool{},
		appointments:  map[uuid.UUID]*Appointment{},
	}
}

func (f *fakeRepo) PatientExists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.patients[id], nil
}

func (f *fakeRepo) PractitionerExists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.practitioners[id], nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) ListForPractitionerDate(_ context.Context, practitionerID uuid.UUID, date time.Time) ([]Appointment, error) {
	var out []Appointment
	for _, a := range f.appointments {
		if a.PractitionerID == practitionerID && a.Date.Equal(DateOnly(date)) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error) {
	var out []Appointment
	for _, a := range f.appointments {
		if a.PatientID == patientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, a *Appointment) (*Appointment, error) {
	cp := *a
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.appointments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status) (*Appointment, error) {
	a, ok := f.appointments[id]
	if !ok || a.Status != from {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) UpdateSlot(_ context.Context, id uuid.UUID, date time.Time, slot TimeRange) (*Appointment, error) {
	a, ok := f.appointments[id]
	if !ok || !Reschedulable(a.Status) {
		return nil, ErrAppointmentNotFound
	}
	a.Date = DateOnly(date)
	a.StartMinutes = slot.StartMinutes()
	a.DurationMinutes = slot.DurationMinutes()
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.appointments[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(f.appointments, id)
	return nil
}

func (f *fakeRepo) InsertEvent(_ context.Context, ev EventLog) error {
	f.events = append(f.events, ev)
	return nil
}

// passLocker runs the critical section directly; lock contention is
// covered by the redisclient tests.
type passLocker struct{}

func (passLocker) WithBookingLock(ctx context.Context, _ uuid.UUID, _ time.Time, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type deniedLocker struct{}

func (deniedLocker) WithBookingLock(context.Context, uuid.UUID, time.Time, func(ctx context.Context) error) error {
	return redisclient.ErrLockNotAcquired
}

func newTestService(repo Repository, locker redisclient.Locker, now time.Time) *Service {
	return NewService(repo, locker, zerolog.Nop()).WithClock(func() time.Time { return now })
}

func seedActors(repo *fakeRepo) (patientID, practitionerID uuid.UUID) {
	patientID = uuid.New()
	practitionerID = uuid.New()
	repo.patients[patientID] = true
	repo.practitioners[practitionerID] = true
	return patientID, practitionerID
}

var testDay = time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

func TestBookAndConflict(t *testing.T) {
	repo := newFakeRepo()
	patientID, practitionerID := seedActors(repo)
	svc := newTestService(repo, passLocker{}, testDay)

	first, err := svc.Book(context.Background(), BookRequest{
		PatientID:      patientID,
		PractitionerID: practitionerID,
		Date:           testDay,
		Slot:           mustRange(t, 9, 0, 30),
		Reason:         "checkup",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, first.Status)

	// Back-to-back slot is free.
	_, err = svc.Book(context.Background(), BookRequest{
		PatientID:      patientID,
		PractitionerID: practitionerID,
		Date:           testDay,
		Slot:           mustRange(t, 9, 30, 30),
		Reason:         "follow-up",
	})
	require.NoError(t, err)

	// Overlapping slot is rejected.
	_, err = svc.Book(context.Background(), BookRequest{
		PatientID:      patientID,
		PractitionerID: practitionerID,
		Date:           testDay,
		Slot:           mustRange(t, 9, 15, 30),
		Reason:         "checkup",
	})
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestBookValidatesActors(t *testing.T) {
	repo := newFakeRepo()
	patientID, practitionerID := seedActors(repo)
	svc := newTestService(repo, passLocker{}, testDay)

	_, err := svc.Book(context.Background(), BookRequest{
		PatientID:      uuid.New(),
		PractitionerID: practitionerID,
		Date:           testDay,
		Slot:           mustRange(t, 9, 0, 30),
		Reason:         "checkup",
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	_, err = svc.Book(context.Background(), BookRequest{
		PatientID:      patientID,
		PractitionerID: uuid.New(),
		Date:           testDay,
		Slot:           mustRange(t, 9, 0, 30),
		Reason:         "checkup",
	})
	assert.ErrorIs(t, err, ErrPractitionerNotFound)

	_, err = svc.Book(context.Background(), BookRequest{
		PatientID:      patientID,
		PractitionerID: practitionerID,
		Date:           testDay,
		Slot:           mustRange(t, 9, 0, 30),
	})
	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestBookLockContention(t *testing.T) {
	repo := newFakeRepo()
	patientID, practitionerID := seedActors(repo)
	svc := newTestService(repo, deniedLocker{}, testDay)

	_, err := svc.Book(context.Background(), BookRequest{
		PatientID:      patientID,
		PractitionerID: practitionerID,
		Date:           testDay,
		Slot:           mustRange(t, 9, 0, 30),
		Reason:         "checkup",
	})
	assert.ErrorIs(t, err, ErrSlotBeingBooked)
}

func TestTransitionsOutOfTerminalFail(t *testing.T) {
	repo := newFakeRepo()
	patientID, practitionerID := seedActors(repo)
	svc := newTestService(repo, passLocker{}, testDay)

	for _, terminal := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		appt := &Appointment{
			ID:              uuid.New(),
			PatientID:       patientID,
			PractitionerID:  practitionerID,
			Date:            testDay.AddDate(0, 0, -1),
			StartMinutes:    9 * 60,
			DurationMinutes: 30,
			Status:          terminal,
		}
		repo.appointments[appt.ID] = appt

		_, err := svc.Confirm(context.Background(), appt.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition, "confirm from %s", terminal)

		_, err = svc.Cancel(context.Background(), appt.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition, "cancel from %s", terminal)
	}
}

func TestCompleteDateGuard(t *testing.T) {
	repo := newFakeRepo()
	patientID, practitionerID := seedActors(repo)
	svc := newTestService(repo, passLocker{}, testDay)

	future := &Appointment{
		ID:              uuid.New(),
		PatientID:       patientID,
		PractitionerID:  practitionerID,
		Date:            testDay.AddDate(0, 0, 2),
		StartMinutes:    9 * 60,
		DurationMinutes: 30,
		Status:          StatusConfirmed,
	}
	repo.appointments[future.ID] = future

	_, err := svc.Complete(context.Background(), future.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	today := &Appointment{
		ID:              uuid.New(),
		PatientID:       patientID,
		PractitionerID:  practitionerID,
		Date:            testDay,
		StartMinutes:    10 * 60,
		DurationMinutes: 30,
		Status:          StatusConfirmed,
	}
	repo.appointments[today.ID] = today

	updated, err := svc.Complete(context.Background(), today.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)
}

func TestMarkNoShowDateGuard(t *testing.T) {
	repo := newFakeRepo()
	patientID, practitionerID := seedActors(repo)
	svc := newTestService(repo, passLocker{}, testDay)

	sameDay := &Appointment{
		ID:              uuid.New(),
		PatientID:       patientID,
		PractitionerID:  practitionerID,
		Date:            testDay,
		StartMinutes:    9 * 60,
		DurationMinutes: 30,
		Status:          StatusScheduled,
	}
	repo.appointments[sameDay.ID] = sameDay

	_, err := svc.MarkNoShow(context.Background(), sameDay.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	yesterday := &Appointment{
		ID:              uuid.New(),
		PatientID:       patientID,
		PractitionerID:  practitionerID,
		Date:            testDay.AddDate(0, 0, -1),
		StartMinutes:    9 * 60,
		DurationMinutes: 30,
		Status:          StatusScheduled,
	}
	repo.appointments[yesterday.ID] = yesterday

	updated, err := svc.MarkNoShow(context.Background(), yesterday.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNoShow, updated.Status)
}

func TestRescheduleConflictLeavesOriginalUntouched(t *testing.T) {
	repo := newFakeRepo()
	patientID, practitionerID := seedActors(repo)
	svc := newTestService(repo, passLocker{}, testDay)

	blocker, err := svc.Book(context.Background(), BookRequest{
		PatientID:      patientID,
		PractitionerID: practitionerID,
		Date:           testDay,
		Slot:           mustRange(t, 10, 0, 30),
		Reason:         "checkup",
	})
	require.NoError(t, err)

	moving, err := svc.Book(context.Background(), BookRequest{
		PatientID:      patientID,
		PractitionerID: practitionerID,
		Date:           testDay,
		Slot:           mustRange(t, 9, 0, 30),
		Reason:         "checkup",
	})
	require.NoError(t, err)

	_, err = svc.Reschedule(context.Background(), moving.ID, testDay, mustRange(t, 10, 15, 30))
	assert.ErrorIs(t, err, ErrSlotConflict)

	// Original slot unchanged after the failed move.
	unchanged, err := svc.Get(context.Background(), moving.ID)
	require.NoError(t, err)
	assert.Equal(t, 9*60, unchanged.StartMinutes)
	assert.Equal(t, 30, unchanged.DurationMinutes)
	assert.Equal(t, StatusScheduled, unchanged.Status)

	_ = blocker
}

func TestRescheduleIntoOwnSlot(t *testing.T) {
	repo := newFakeRepo()
	patientID, practitionerID := seedActors(repo)
	svc := newTestService(repo, passLocker{}, testDay)

	appt, err := svc.Book(context.Background(), BookRequest{
		PatientID:      patientID,
		PractitionerID: practitionerID,
		Date:           testDay,
		Slot:           mustRange(t, 9, 0, 30),
		Reason:         "checkup",
	})
	require.NoError(t, err)

	// Shifting within its own current range must not self-conflict.
	updated, err := svc.Reschedule(context.Background(), appt.ID, testDay, mustRange(t, 9, 15, 30))
	require.NoError(t, err)
	assert.Equal(t, 9*60+15, updated.StartMinutes)
}

func TestRescheduleTerminalRejected(t *testing.T) {
	repo := newFakeRepo()
	patientID, practitionerID := seedActors(repo)
	svc := newTestService(repo, passLocker{}, testDay)

	appt := &Appointment{
		ID:              uuid.New(),
		PatientID:       patientID,
		PractitionerID:  practitionerID,
		Date:            testDay,
		StartMinutes:    9 * 60,
		DurationMinutes: 30,
		Status:          StatusCompleted,
	}
	repo.appointments[appt.ID] = appt

	_, err := svc.Reschedule(context.Background(), appt.ID, testDay, mustRange(t, 11, 0, 30))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCheckAvailability(t *testing.T) {
	repo := newFakeRepo()
	patientID, practitionerID := seedActors(repo)
	svc := newTestService(repo, passLocker{}, testDay)

	free, err := svc.CheckAvailability(context.Background(), practitionerID, testDay, mustRange(t, 9, 0, 30), uuid.Nil)
	require.NoError(t, err)
	assert.True(t, free, "empty day is trivially available")

	appt, err := svc.Book(context.Background(), BookRequest{
		PatientID:      patientID,
		PractitionerID: practitionerID,
		Date:           testDay,
		Slot:           mustRange(t, 9, 0, 30),
		Reason:         "checkup",
	})
	require.NoError(t, err)

	free, err = svc.CheckAvailability(context.Background(), practitionerID, testDay, mustRange(t, 9, 15, 30), uuid.Nil)
	require.NoError(t, err)
	assert.False(t, free)

	// Cancelled bookings stop blocking.
	_, err = svc.Cancel(context.Background(), appt.ID)
	require.NoError(t, err)

	free, err = svc.CheckAvailability(context.Background(), practitionerID, testDay, mustRange(t, 9, 15, 30), uuid.Nil)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestDeleteHardRemoves(t *testing.T) {
	repo := newFakeRepo()
	patientID, practitionerID := seedActors(repo)
	svc := newTestService(repo, passLocker{}, testDay)

	appt, err := svc.Book(context.Background(), BookRequest{
		PatientID:      patientID,
		PractitionerID: practitionerID,
		Date:           testDay,
		Slot:           mustRange(t, 9, 0, 30),
		Reason:         "checkup",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), appt.ID, uuid.New()))

	_, err = svc.Get(context.Background(), appt.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
