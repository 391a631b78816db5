package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrNameRequired   = errors.New("first and last name are required")
	ErrReasonRequired = errors.New("a consultation reason is required")
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "patient").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, p *Patient) (*Patient, error) {
	if p.FirstName == "" || p.LastName == "" {
		return nil, ErrNameRequired
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}

	s.log.Info().Stringer("patient_id", created.ID).Msg("patient registered")
	return created, nil
}

func (s *Service) Update(ctx context.Context, p *Patient) (*Patient, error) {
	if p.FirstName == "" || p.LastName == "" {
		return nil, ErrNameRequired
	}

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Patient, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	patients, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) Search(ctx context.Context, query string) ([]Patient, error) {
	patients, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return patients, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	return nil
}

// AddRecord stores a consultation entry with its prescriptions.
func (s *Service) AddRecord(ctx context.Context, rec *MedicalRecord) (*MedicalRecord, error) {
	if rec.Reason == "" {
		return nil, ErrReasonRequired
	}

	if _, err := s.repo.GetByID(ctx, rec.PatientID); err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}

	created, err := s.repo.CreateRecord(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("create medical record: %w", err)
	}

	s.log.Info().
		Stringer("patient_id", rec.PatientID).
		Stringer("record_id", created.ID).
		Int("prescriptions", len(created.Prescriptions)).
		Msg("consultation recorded")
	return created, nil
}

func (s *Service) ListRecords(ctx context.Context, patientID uuid.UUID) ([]MedicalRecord, error) {
	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}

	records, err := s.repo.ListRecords(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list medical records: %w", err)
	}
	return records, nil
}
