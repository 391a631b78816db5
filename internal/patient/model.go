package patient

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s), nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

type Patient struct {
	ID               uuid.UUID
	FirstName        string
	LastName         string
	DateOfBirth      time.Time
	Gender           Gender
	Phone            string
	Email            *string
	Address          string
	EmergencyContact string
	BloodType        *string
	Allergies        []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// MedicalRecord is one consultation entry, authored by a practitioner
// and carrying zero or more prescription lines.
type MedicalRecord struct {
	ID             uuid.UUID
	PatientID      uuid.UUID
	PractitionerID uuid.UUID
	Date           time.Time
	Reason         string
	Symptoms       string
	Diagnosis      string
	Treatment      string
	Notes          *string
	Prescriptions  []Prescription
	CreatedAt      time.Time
}

type Prescription struct {
	ID           int64     `json:"id"`
	RecordID     uuid.UUID `json:"record_id"`
	Medication   string    `json:"medication"`
	Dosage       string    `json:"dosage"`
	Frequency    string    `json:"frequency"`
	Duration     string    `json:"duration"`
	Instructions string    `json:"instructions,omitempty"`
}
