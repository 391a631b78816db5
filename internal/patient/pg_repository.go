package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const patientColumns = `id, first_name, last_name, date_of_birth, gender, phone, email, address, emergency_contact, blood_type, allergies, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var gender string

	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.DateOfBirth,
		&gender,
		&p.Phone,
		&p.Email,
		&p.Address,
		&p.EmergencyContact,
		&p.BloodType,
		&p.Allergies,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	parsed, err := ParseGender(gender)
	if err != nil {
		return nil, fmt.Errorf("stored patient %s: %w", p.ID, err)
	}
	p.Gender = parsed
	return &p, nil
}

func collectPatients(rows pgx.Rows) ([]Patient, error) {
	var result []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) List(ctx context.Context, limit, offset int) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		ORDER BY last_name, first_name
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPatients(rows)
}

func (r *PgRepository) Search(ctx context.Context, query string) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE first_name ILIKE '%' || $1 || '%'
		   OR last_name ILIKE '%' || $1 || '%'
		   OR phone LIKE '%' || $1 || '%'
		ORDER BY last_name, first_name
	`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPatients(rows)
}

func (r *PgRepository) Create(ctx context.Context, p *Patient) (*Patient, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, first_name, last_name, date_of_birth, gender, phone, email, address, emergency_contact, blood_type, allergies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING `+patientColumns+`
	`, id, p.FirstName, p.LastName, p.DateOfBirth, string(p.Gender), p.Phone, p.Email, p.Address, p.EmergencyContact, p.BloodType, p.Allergies)

	return scanPatient(row)
}

func (r *PgRepository) Update(ctx context.Context, p *Patient) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE patients
		SET first_name = $2,
		    last_name = $3,
		    date_of_birth = $4,
		    gender = $5,
		    phone = $6,
		    email = $7,
		    address = $8,
		    emergency_contact = $9,
		    blood_type = $10,
		    allergies = $11,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+patientColumns+`
	`, p.ID, p.FirstName, p.LastName, p.DateOfBirth, string(p.Gender), p.Phone, p.Email, p.Address, p.EmergencyContact, p.BloodType, p.Allergies)

	return scanPatient(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM patients WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

const recordColumns = `id, patient_id, practitioner_id, date, reason, symptoms, diagnosis, treatment, notes, created_at`

func (r *PgRepository) CreateRecord(ctx context.Context, rec *MedicalRecord) (*MedicalRecord, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	id := uuid.New()

	row := tx.QueryRow(ctx, `
		INSERT INTO medical_records (id, patient_id, practitioner_id, date, reason, symptoms, diagnosis, treatment, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		RETURNING `+recordColumns+`
	`, id, rec.PatientID, rec.PractitionerID, rec.Date, rec.Reason, rec.Symptoms, rec.Diagnosis, rec.Treatment, rec.Notes)

	created := &MedicalRecord{}
	err = row.Scan(
		&created.ID,
		&created.PatientID,
		&created.PractitionerID,
		&created.Date,
		&created.Reason,
		&created.Symptoms,
		&created.Diagnosis,
		&created.Treatment,
		&created.Notes,
		&created.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, rx := range rec.Prescriptions {
		_, err := tx.Exec(ctx, `
			INSERT INTO prescriptions (record_id, medication, dosage, frequency, duration, instructions)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, created.ID, rx.Medication, rx.Dosage, rx.Frequency, rx.Duration, rx.Instructions)
		if err != nil {
			return nil, fmt.Errorf("insert prescription: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	created.Prescriptions = rec.Prescriptions
	return created, nil
}

func (r *PgRepository) ListRecords(ctx context.Context, patientID uuid.UUID) ([]MedicalRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM medical_records
		WHERE patient_id = $1
		ORDER BY date DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []MedicalRecord
	for rows.Next() {
		var rec MedicalRecord
		err := rows.Scan(
			&rec.ID,
			&rec.PatientID,
			&rec.PractitionerID,
			&rec.Date,
			&rec.Reason,
			&rec.Symptoms,
			&rec.Diagnosis,
			&rec.Treatment,
			&rec.Notes,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		prescriptions, err := r.listPrescriptions(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Prescriptions = prescriptions
	}

	return records, nil
}

func (r *PgRepository) listPrescriptions(ctx context.Context, recordID uuid.UUID) ([]Prescription, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, record_id, medication, dosage, frequency, duration, instructions
		FROM prescriptions
		WHERE record_id = $1
		ORDER BY id
	`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Prescription
	for rows.Next() {
		var rx Prescription
		if err := rows.Scan(&rx.ID, &rx.RecordID, &rx.Medication, &rx.Dosage, &rx.Frequency, &rx.Duration, &rx.Instructions); err != nil {
			return nil, err
		}
		result = append(result, rx)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
