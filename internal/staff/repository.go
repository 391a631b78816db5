package staff

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrPractitionerNotFound = errors.New("practitioner not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Practitioner, error)
	GetByEmail(ctx context.Context, email string) (*Practitioner, error)
	List(ctx context.Context, limit, offset int) ([]Practitioner, error)
	ListActiveDoctors(ctx context.Context) ([]Practitioner, error)
	Create(ctx context.Context, p *Practitioner) (*Practitioner, error)
	Update(ctx context.Context, p *Practitioner) (*Practitioner, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
