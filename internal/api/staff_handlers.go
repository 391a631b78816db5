package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-backend/internal/staff"
)

func createPractitionerHandler(svc *staff.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PractitionerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		role, err := staff.ParseRole(req.Role)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_role", err.Error())
			return
		}

		created, err := svc.Create(r.Context(), &staff.Practitioner{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      role,
			Specialty: req.Specialty,
			Phone:     req.Phone,
			Email:     req.Email,
			Active:    req.Active,
		}, req.Secret)
		if err != nil {
			handleStaffError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPractitionerResponse(created))
	}
}

func listPractitionersHandler(svc *staff.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			practitioners []staff.Practitioner
			err           error
		)
		if r.URL.Query().Get("bookable") == "true" {
			practitioners, err = svc.ListBookable(r.Context())
		} else {
			practitioners, err = svc.List(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
		}
		if err != nil {
			handleStaffError(w, err)
			return
		}
		out := make([]PractitionerResponse, 0, len(practitioners))
		for i := range practitioners {
			out = append(out, toPractitionerResponse(&practitioners[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPractitionerHandler(svc *staff.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_practitioner_id", "id must be a valid UUID")
			return
		}
		p, err := svc.Get(r.Context(), id)
		if err != nil {
			handleStaffError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPractitionerResponse(p))
	}
}

func updatePractitionerHandler(svc *staff.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_practitioner_id", "id must be a valid UUID")
			return
		}
		var req PractitionerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		role, err := staff.ParseRole(req.Role)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_role", err.Error())
			return
		}

		updated, err := svc.Update(r.Context(), &staff.Practitioner{
			ID:        id,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      role,
			Specialty: req.Specialty,
			Phone:     req.Phone,
			Email:     req.Email,
			Active:    req.Active,
		})
		if err != nil {
			handleStaffError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPractitionerResponse(updated))
	}
}

func handleStaffError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, staff.ErrNameRequired),
		errors.Is(err, staff.ErrEmailRequired),
		errors.Is(err, staff.ErrSecretTooShort):
		writeError(w, http.StatusBadRequest, "invalid_practitioner_data", err.Error())
	case errors.Is(err, staff.ErrPractitionerNotFound):
		writeError(w, http.StatusNotFound, "practitioner_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
