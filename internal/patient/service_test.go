package patient

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePatientRepo struct {
	patients map[uuid.UUID]*Patient
	records  map[uuid.UUID][]MedicalRecord
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{
		patients: map[uuid.UUID]*Patient{},
		records:  map[uuid.UUID][]MedicalRecord{},
	}
}

func (f *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePatientRepo) List(_ context.Context, limit, offset int) ([]Patient, error) {
	var out []Patient
	for _, p := range f.patients {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePatientRepo) Search(_ context.Context, query string) ([]Patient, error) {
	return f.List(context.Background(), 0, 0)
}

func (f *fakePatientRepo) Create(_ context.Context, p *Patient) (*Patient, error) {
	cp := *p
	cp.ID = uuid.New()
	f.patients[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakePatientRepo) Update(_ context.Context, p *Patient) (*Patient, error) {
	if _, ok := f.patients[p.ID]; !ok {
		return nil, ErrPatientNotFound
	}
	cp := *p
	f.patients[p.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakePatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.patients[id]; !ok {
		return ErrPatientNotFound
	}
	delete(f.patients, id)
	return nil
}

func (f *fakePatientRepo) CreateRecord(_ context.Context, rec *MedicalRecord) (*MedicalRecord, error) {
	cp := *rec
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	f.records[rec.PatientID] = append(f.records[rec.PatientID], cp)
	out := cp
	return &out, nil
}

func (f *fakePatientRepo) ListRecords(_ context.Context, patientID uuid.UUID) ([]MedicalRecord, error) {
	return f.records[patientID], nil
}

func TestCreateRequiresNames(t *testing.T) {
	svc := NewService(newFakePatientRepo(), zerolog.Nop())

	_, err := svc.Create(context.Background(), &Patient{FirstName: "Awa"})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Create(context.Background(), &Patient{LastName: "Diallo"})
	assert.ErrorIs(t, err, ErrNameRequired)

	p, err := svc.Create(context.Background(), &Patient{
		FirstName: "Awa",
		LastName:  "Diallo",
		Gender:    GenderFemale,
		Phone:     "+221770000000",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
}

func TestAddRecordWithPrescriptions(t *testing.T) {
	repo := newFakePatientRepo()
	svc := NewService(repo, zerolog.Nop())

	p, err := svc.Create(context.Background(), &Patient{FirstName: "Awa", LastName: "Diallo"})
	require.NoError(t, err)

	rec, err := svc.AddRecord(context.Background(), &MedicalRecord{
		PatientID:      p.ID,
		PractitionerID: uuid.New(),
		Date:           time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		Reason:         "fever",
		Diagnosis:      "malaria",
		Prescriptions: []Prescription{
			{Medication: "Artemether", Dosage: "80mg", Frequency: "2x/day", Duration: "3 days"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, rec.Prescriptions, 1)

	records, err := svc.ListRecords(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAddRecordValidation(t *testing.T) {
	repo := newFakePatientRepo()
	svc := NewService(repo, zerolog.Nop())

	p, err := svc.Create(context.Background(), &Patient{FirstName: "Awa", LastName: "Diallo"})
	require.NoError(t, err)

	_, err = svc.AddRecord(context.Background(), &MedicalRecord{PatientID: p.ID})
	assert.ErrorIs(t, err, ErrReasonRequired)

	_, err = svc.AddRecord(context.Background(), &MedicalRecord{PatientID: uuid.New(), Reason: "fever"})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}
