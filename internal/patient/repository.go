package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrRecordNotFound  = errors.New("medical record not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]Patient, error)
	Search(ctx context.Context, query string) ([]Patient, error)
	Create(ctx context.Context, p *Patient) (*Patient, error)
	Update(ctx context.Context, p *Patient) (*Patient, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// CreateRecord stores the consultation and its prescriptions in one
	// transaction.
	CreateRecord(ctx context.Context, rec *MedicalRecord) (*MedicalRecord, error)
	ListRecords(ctx context.Context, patientID uuid.UUID) ([]MedicalRecord, error)
}
