package staff

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
)

func practitionerRow(id uuid.UUID, role string) *pgxmock.Rows {
	now := time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC)
	return pgxmock.NewRows([]string{
		"id", "first_name", "last_name", "role", "specialty",
		"phone", "email", "active", "credential_hash", "created_at", "updated_at",
	}).AddRow(id, "Fatou", "Ndiaye", role, (*string)(nil),
		"770000000", "fatou@clinic.test", true, "hash", now, now)
}

func TestGetByIDParsesStoredRole(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM practitioners WHERE id`).
		WithArgs(id).
		WillReturnRows(practitionerRow(id, "doctor"))

	repo := NewPgRepositoryWithDB(mock)
	p, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.Role != RoleDoctor {
		t.Errorf("role = %q, want %q", p.Role, RoleDoctor)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByIDRejectsUnknownStoredRole(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM practitioners WHERE id`).
		WithArgs(id).
		WillReturnRows(practitionerRow(id, "janitor"))

	repo := NewPgRepositoryWithDB(mock)
	if _, err := repo.GetByID(context.Background(), id); err == nil {
		t.Fatal("expected an error for a row with an unknown role")
	}
}
