package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-backend/internal/patient"
)

func decodePatientRequest(r *http.Request, w http.ResponseWriter) (*patient.Patient, bool) {
	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return nil, false
	}
	gender, err := patient.ParseGender(req.Gender)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_gender", err.Error())
		return nil, false
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date_of_birth", "date_of_birth must be YYYY-MM-DD")
		return nil, false
	}
	return &patient.Patient{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		DateOfBirth:      dob,
		Gender:           gender,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		BloodType:        req.BloodType,
		Allergies:        req.Allergies,
	}, true
}

func createPatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := decodePatientRequest(r, w)
		if !ok {
			return
		}
		created, err := svc.Create(r.Context(), p)
		if err != nil {
			handlePatientError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPatientResponse(created))
	}
}

func listPatientsHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			patients []patient.Patient
			err      error
		)
		if search := r.URL.Query().Get("search"); search != "" {
			patients, err = svc.Search(r.Context(), search)
		} else {
			patients, err = svc.List(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
		}
		if err != nil {
			handlePatientError(w, err)
			return
		}
		out := make([]PatientResponse, 0, len(patients))
		for i := range patients {
			out = append(out, toPatientResponse(&patients[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
			return
		}
		p, err := svc.Get(r.Context(), id)
		if err != nil {
			handlePatientError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

func updatePatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
			return
		}
		p, ok := decodePatientRequest(r, w)
		if !ok {
			return
		}
		p.ID = id
		updated, err := svc.Update(r.Context(), p)
		if err != nil {
			handlePatientError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(updated))
	}
}

func deletePatientHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			handlePatientError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func addMedicalRecordHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
			return
		}
		var req MedicalRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
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

		prescriptions := make([]patient.Prescription, 0, len(req.Prescriptions))
		for _, p := range req.Prescriptions {
			prescriptions = append(prescriptions, patient.Prescription{
				Medication:   p.Medication,
				Dosage:       p.Dosage,
				Frequency:    p.Frequency,
				Duration:     p.Duration,
				Instructions: p.Instructions,
			})
		}

		rec, err := svc.AddRecord(r.Context(), &patient.MedicalRecord{
			PatientID:      patientID,
			PractitionerID: practitionerID,
			Date:           date,
			Reason:         req.Reason,
			Symptoms:       req.Symptoms,
			Diagnosis:      req.Diagnosis,
			Treatment:      req.Treatment,
			Notes:          req.Notes,
			Prescriptions:  prescriptions,
		})
		if err != nil {
			handlePatientError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toMedicalRecordResponse(rec))
	}
}

func listMedicalRecordsHandler(svc *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
			return
		}
		records, err := svc.ListRecords(r.Context(), patientID)
		if err != nil {
			handlePatientError(w, err)
			return
		}
		out := make([]MedicalRecordResponse, 0, len(records))
		for i := range records {
			out = append(out, toMedicalRecordResponse(&records[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handlePatientError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, patient.ErrNameRequired),
		errors.Is(err, patient.ErrReasonRequired):
		writeError(w, http.StatusBadRequest, "invalid_patient_data", err.Error())
	case errors.Is(err, patient.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, patient.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "record_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
