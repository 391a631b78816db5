package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-backend/internal/billing"
	"github.com/clinicore/clinic-backend/internal/patient"
	"github.com/clinicore/clinic-backend/internal/schedule"
	"github.com/clinicore/clinic-backend/internal/staff"
)

type LoginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

type BookAppointmentRequest struct {
	PatientID       string  `json:"patient_id"`
	PractitionerID  string  `json:"practitioner_id"`
	Date            string  `json:"date"` // YYYY-MM-DD
	Time            string  `json:"time"` // HH:MM
	DurationMinutes int     `json:"duration_minutes"`
	Reason          string  `json:"reason"`
	Notes           *string `json:"notes,omitempty"`
}

type RescheduleRequest struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	PatientID       uuid.UUID `json:"patient_id"`
	PractitionerID  uuid.UUID `json:"practitioner_id"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	DurationMinutes int       `json:"duration_minutes"`
	Reason          string    `json:"reason"`
	Status          string    `json:"status"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedBy       uuid.UUID `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toAppointmentResponse(a *schedule.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		PatientID:       a.PatientID,
		PractitionerID:  a.PractitionerID,
		Date:            a.Date.Format("2006-01-02"),
		Time:            a.Range().Clock(),
		DurationMinutes: a.DurationMinutes,
		Reason:          a.Reason,
		Status:          string(a.Status),
		Notes:           a.Notes,
		CreatedBy:       a.CreatedBy,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func toAppointmentResponses(appts []schedule.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for i := range appts {
		out = append(out, toAppointmentResponse(&appts[i]))
	}
	return out
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

type PatientRequest struct {
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	DateOfBirth      string   `json:"date_of_birth"` // YYYY-MM-DD
	Gender           string   `json:"gender"`
	Phone            string   `json:"phone"`
	Email            *string  `json:"email,omitempty"`
	Address          string   `json:"address"`
	EmergencyContact string   `json:"emergency_contact"`
	BloodType        *string  `json:"blood_type,omitempty"`
	Allergies        []string `json:"allergies,omitempty"`
}

type PatientResponse struct {
	ID               uuid.UUID `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	DateOfBirth      string    `json:"date_of_birth"`
	Gender           string    `json:"gender"`
	Phone            string    `json:"phone"`
	Email            *string   `json:"email,omitempty"`
	Address          string    `json:"address"`
	EmergencyContact string    `json:"emergency_contact"`
	BloodType        *string   `json:"blood_type,omitempty"`
	Allergies        []string  `json:"allergies,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toPatientResponse(p *patient.Patient) PatientResponse {
	return PatientResponse{
		ID:               p.ID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		DateOfBirth:      p.DateOfBirth.Format("2006-01-02"),
		Gender:           string(p.Gender),
		Phone:            p.Phone,
		Email:            p.Email,
		Address:          p.Address,
		EmergencyContact: p.EmergencyContact,
		BloodType:        p.BloodType,
		Allergies:        p.Allergies,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

type PrescriptionRequest struct {
	Medication   string `json:"medication"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions,omitempty"`
}

type MedicalRecordRequest struct {
	PractitionerID string                `json:"practitioner_id"`
	Date           string                `json:"date"`
	Reason         string                `json:"reason"`
	Symptoms       string                `json:"symptoms,omitempty"`
	Diagnosis      string                `json:"diagnosis,omitempty"`
	Treatment      string                `json:"treatment,omitempty"`
	Notes          *string               `json:"notes,omitempty"`
	Prescriptions  []PrescriptionRequest `json:"prescriptions,omitempty"`
}

type MedicalRecordResponse struct {
	ID             uuid.UUID              `json:"id"`
	PatientID      uuid.UUID              `json:"patient_id"`
	PractitionerID uuid.UUID              `json:"practitioner_id"`
	Date           string                 `json:"date"`
	Reason         string                 `json:"reason"`
	Symptoms       string                 `json:"symptoms,omitempty"`
	Diagnosis      string                 `json:"diagnosis,omitempty"`
	Treatment      string                 `json:"treatment,omitempty"`
	Notes          *string                `json:"notes,omitempty"`
	Prescriptions  []patient.Prescription `json:"prescriptions,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

func toMedicalRecordResponse(rec *patient.MedicalRecord) MedicalRecordResponse {
	return MedicalRecordResponse{
		ID:             rec.ID,
		PatientID:      rec.PatientID,
		PractitionerID: rec.PractitionerID,
		Date:           rec.Date.Format("2006-01-02"),
		Reason:         rec.Reason,
		Symptoms:       rec.Symptoms,
		Diagnosis:      rec.Diagnosis,
		Treatment:      rec.Treatment,
		Notes:          rec.Notes,
		Prescriptions:  rec.Prescriptions,
		CreatedAt:      rec.CreatedAt,
	}
}

type PractitionerRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Role      string  `json:"role"`
	Specialty *string `json:"specialty,omitempty"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	Active    bool    `json:"active"`
	Secret    string  `json:"secret,omitempty"` // create only
}

type PractitionerResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	Specialty *string   `json:"specialty,omitempty"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPractitionerResponse(p *staff.Practitioner) PractitionerResponse {
	return PractitionerResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Role:      string(p.Role),
		Specialty: p.Specialty,
		Phone:     p.Phone,
		Email:     p.Email,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type LineItemRequest struct {
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type CreateInvoiceRequest struct {
	PatientID     string            `json:"patient_id"`
	AppointmentID *string           `json:"appointment_id,omitempty"`
	Date          string            `json:"date"`
	Items         []LineItemRequest `json:"items"`
	TaxCents      int64             `json:"tax_cents"`
}

type UpdateInvoiceRequest struct {
	Items    []LineItemRequest `json:"items"`
	TaxCents int64             `json:"tax_cents"`
}

type PaymentRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
}

type InvoiceResponse struct {
	ID            string             `json:"id"`
	PatientID     uuid.UUID          `json:"patient_id"`
	AppointmentID *uuid.UUID         `json:"appointment_id,omitempty"`
	Date          string             `json:"date"`
	Items         []billing.LineItem `json:"items"`
	SubtotalCents int64              `json:"subtotal_cents"`
	TaxCents      int64              `json:"tax_cents"`
	TotalCents    int64              `json:"total_cents"`
	Status        string             `json:"status"`
	PaymentMethod *string            `json:"payment_method,omitempty"`
	PaidAt        *time.Time         `json:"paid_at,omitempty"`
	DueDate       string             `json:"due_date"`
	CreatedBy     uuid.UUID          `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func toInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	var method *string
	if inv.PaymentMethod != nil {
		m := string(*inv.PaymentMethod)
		method = &m
	}
	return InvoiceResponse{
		ID:            inv.ID,
		PatientID:     inv.PatientID,
		AppointmentID: inv.AppointmentID,
		Date:          inv.Date.Format("2006-01-02"),
		Items:         inv.Items,
		SubtotalCents: inv.SubtotalCents,
		TaxCents:      inv.TaxCents,
		TotalCents:    inv.TotalCents,
		Status:        string(inv.Status),
		PaymentMethod: method,
		PaidAt:        inv.PaidAt,
		DueDate:       inv.DueDate.Format("2006-01-02"),
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

type StockRequest struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Manufacturer   *string `json:"manufacturer,omitempty"`
	BatchNumber    *string `json:"batch_number,omitempty"`
	CurrentStock   int     `json:"current_stock"`
	MinStock       int     `json:"min_stock"`
	UnitPriceCents int64   `json:"unit_price_cents"`
	ExpiryDate     string  `json:"expiry_date"`
	Location       *string `json:"location,omitempty"`
}

type MovementRequest struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}
