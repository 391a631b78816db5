package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-backend/internal/auth"
	"github.com/clinicore/clinic-backend/internal/redisclient"
	"github.com/clinicore/clinic-backend/internal/schedule"
)

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

// actingUser resolves the authenticated staff member for audit fields.
func actingUser(r *http.Request) (uuid.UUID, bool) {
	sess, ok := auth.SessionFrom(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	return sess.UserID, true
}

func bookAppointmentHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
			return
		}
		practitionerID, err := uuid.Parse(req.PractitionerID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_practitioner_id", "practitioner_id must be a valid UUID")
			return
		}
		date, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		slot, err := schedule.ParseTimeRange(req.Time, req.DurationMinutes)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot", err.Error())
			return
		}
		createdBy, ok := actingUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
			return
		}

		appt, err := svc.Book(r.Context(), schedule.BookRequest{
			PatientID:      patientID,
			PractitionerID: practitionerID,
			Date:           date,
			Slot:           slot,
			Reason:         req.Reason,
			Notes:          req.Notes,
			CreatedBy:      createdBy,
		})
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func listAppointmentsHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if patientStr := q.Get("patient_id"); patientStr != "" {
			patientID, err := uuid.Parse(patientStr)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
				return
			}
			appts, err := svc.ListByPatient(r.Context(), patientID, queryInt(r, "limit"), queryInt(r, "offset"))
			if err != nil {
				handleScheduleError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
			return
		}

		practitionerID, err := uuid.Parse(q.Get("practitioner_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_practitioner_id", "practitioner_id must be a valid UUID")
			return
		}
		date, err := parseDate(q.Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		appts, err := svc.ListDay(r.Context(), practitionerID, date)
		if err != nil {
			handleScheduleError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
	}
}

func getAppointmentHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}
		appt, err := svc.Get(r.Context(), id)
		if err != nil {
			handleScheduleError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

// transitionHandler serves the confirm/complete/cancel/no-show actions,
// which differ only in the service call.
func transitionHandler(fn func(r *http.Request, id uuid.UUID) (*schedule.Appointment, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}
		appt, err := fn(r, id)
		if err != nil {
			handleScheduleError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func rescheduleAppointmentHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}
		var req RescheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		date, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		slot, err := schedule.ParseTimeRange(req.Time, req.DurationMinutes)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot", err.Error())
			return
		}

		appt, err := svc.Reschedule(r.Context(), id, date, slot)
		if err != nil {
			handleScheduleError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func deleteAppointmentHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}
		deletedBy, ok := actingUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
			return
		}
		if err := svc.Delete(r.Context(), id, deletedBy); err != nil {
			handleScheduleError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func checkAvailabilityHandler(svc *schedule.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		practitionerID, err := uuid.Parse(q.Get("practitioner_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_practitioner_id", "practitioner_id must be a valid UUID")
			return
		}
		date, err := parseDate(q.Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		duration, err := strconv.Atoi(q.Get("duration_minutes"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_duration", "duration_minutes must be an integer")
			return
		}
		slot, err := schedule.ParseTimeRange(q.Get("time"), duration)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot", err.Error())
			return
		}

		excludeID := uuid.Nil
		if excludeStr := q.Get("exclude_id"); excludeStr != "" {
			excludeID, err = uuid.Parse(excludeStr)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_exclude_id", "exclude_id must be a valid UUID")
				return
			}
		}

		available, err := svc.CheckAvailability(r.Context(), practitionerID, date, slot, excludeID)
		if err != nil {
			handleScheduleError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, AvailabilityResponse{Available: available})
	}
}

func handleScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrReasonRequired):
		writeError(w, http.StatusBadRequest, "reason_required", err.Error())
	case errors.Is(err, schedule.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, schedule.ErrPractitionerNotFound):
		writeError(w, http.StatusNotFound, "practitioner_not_found", err.Error())
	case errors.Is(err, schedule.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, schedule.ErrSlotConflict):
		writeError(w, http.StatusConflict, "slot_conflict", err.Error())
	case errors.Is(err, schedule.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, schedule.ErrSlotBeingBooked),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
