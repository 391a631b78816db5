package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-backend/internal/billing"
)

func toLineItems(items []LineItemRequest) []billing.LineItem {
	out := make([]billing.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, billing.LineItem{
			Description:    it.Description,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		})
	}
	return out
}

func createInvoiceHandler(svc *billing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateInvoiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		patientID, err := uuid.Parse(req.PatientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
			return
		}
		date, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		var appointmentID *uuid.UUID
		if req.AppointmentID != nil {
			id, err := uuid.Parse(*req.AppointmentID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_appointment_id", "appointment_id must be a valid UUID")
				return
			}
			appointmentID = &id
		}
		createdBy, ok := actingUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
			return
		}

		inv, err := svc.CreateInvoice(r.Context(), billing.CreateInvoiceRequest{
			PatientID:     patientID,
			AppointmentID: appointmentID,
			Date:          date,
			Items:         toLineItems(req.Items),
			TaxCents:      req.TaxCents,
			CreatedBy:     createdBy,
		})
		if err != nil {
			handleBillingError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toInvoiceResponse(inv))
	}
}

func listInvoicesHandler(svc *billing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invoices, err := svc.List(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
		if err != nil {
			handleBillingError(w, err)
			return
		}
		out := make([]InvoiceResponse, 0, len(invoices))
		for i := range invoices {
			out = append(out, toInvoiceResponse(&invoices[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getInvoiceHandler(svc *billing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleBillingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
	}
}

func updateInvoiceHandler(svc *billing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateInvoiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		inv, err := svc.UpdateItems(r.Context(), chi.URLParam(r, "id"), toLineItems(req.Items), req.TaxCents)
		if err != nil {
			handleBillingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
	}
}

func finalizeInvoiceHandler(svc *billing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, err := svc.Finalize(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleBillingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
	}
}

func recordPaymentHandler(svc *billing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		method, err := billing.ParsePaymentMethod(req.Method)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_payment_method", err.Error())
			return
		}
		createdBy, ok := actingUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
			return
		}

		inv, err := svc.RecordPayment(r.Context(), chi.URLParam(r, "id"), req.AmountCents, method, createdBy)
		if err != nil {
			handleBillingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
	}
}

func billingStatsHandler(svc *billing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.GetStats(r.Context())
		if err != nil {
			handleBillingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func handleBillingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, billing.ErrInvalidQuantity),
		errors.Is(err, billing.ErrInvalidUnitPrice),
		errors.Is(err, billing.ErrInvalidTax),
		errors.Is(err, billing.ErrInvalidPaymentAmount):
		writeError(w, http.StatusBadRequest, "invalid_invoice_data", err.Error())
	case errors.Is(err, billing.ErrEmptyInvoice):
		writeError(w, http.StatusUnprocessableEntity, "empty_invoice", err.Error())
	case errors.Is(err, billing.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, billing.ErrInvoiceNotFound):
		writeError(w, http.StatusNotFound, "invoice_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
