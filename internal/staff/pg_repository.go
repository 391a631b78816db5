package staff

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxDB is the slice of the pool the repository uses; pgxmock stands in
// for it in tests.
type pgxDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PgRepository struct {
	db pgxDB
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: pool}
}

// NewPgRepositoryWithDB allows injecting a mock database for testing.
func NewPgRepositoryWithDB(db pgxDB) *PgRepository {
	return &PgRepository{db: db}
}

const practitionerColumns = `id, first_name, last_name, role, specialty, phone, email, active, credential_hash, created_at, updated_at`

func scanPractitioner(row pgx.Row) (*Practitioner, error) {
	var p Practitioner
	var role string
	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &role, &p.Specialty,
		&p.Phone, &p.Email, &p.Active, &p.CredentialHash,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPractitionerNotFound
		}
		return nil, fmt.Errorf("scan practitioner: %w", err)
	}
	p.Role, err = ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("scan practitioner: %w", err)
	}
	return &p, nil
}

func collectPractitioners(rows pgx.Rows) ([]Practitioner, error) {
	defer rows.Close()
	var out []Practitioner
	for rows.Next() {
		p, err := scanPractitioner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Practitioner, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+practitionerColumns+` FROM practitioners WHERE id = $1`, id)
	return scanPractitioner(row)
}

func (r *PgRepository) GetByEmail(ctx context.Context, email string) (*Practitioner, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+practitionerColumns+` FROM practitioners WHERE lower(email) = lower($1)`, email)
	return scanPractitioner(row)
}

func (r *PgRepository) List(ctx context.Context, limit, offset int) ([]Practitioner, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+practitionerColumns+` FROM practitioners
		 ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list practitioners: %w", err)
	}
	return collectPractitioners(rows)
}

func (r *PgRepository) ListActiveDoctors(ctx context.Context) ([]Practitioner, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+practitionerColumns+` FROM practitioners
		 WHERE role = 'doctor' AND active ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return collectPractitioners(rows)
}

func (r *PgRepository) Create(ctx context.Context, p *Practitioner) (*Practitioner, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO practitioners
		   (first_name, last_name, role, specialty, phone, email, active, credential_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+practitionerColumns,
		p.FirstName, p.LastName, p.Role, p.Specialty, p.Phone, p.Email, p.Active, p.CredentialHash)
	return scanPractitioner(row)
}

func (r *PgRepository) Update(ctx context.Context, p *Practitioner) (*Practitioner, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE practitioners
		 SET first_name = $2, last_name = $3, role = $4, specialty = $5,
		     phone = $6, email = $7, active = $8, updated_at = now()
		 WHERE id = $1
		 RETURNING `+practitionerColumns, p.ID,
		p.FirstName, p.LastName, p.Role, p.Specialty, p.Phone, p.Email, p.Active)
	return scanPractitioner(row)
}

func (r *PgRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE practitioners SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set practitioner active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPractitionerNotFound
	}
	return nil
}
