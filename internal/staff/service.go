package staff

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNameRequired   = errors.New("first and last name are required")
	ErrEmailRequired  = errors.New("email is required")
	ErrSecretTooShort = errors.New("credential must be at least 8 characters")
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "staff").Logger()}
}

// HashCredential derives the stored form of an API credential.
func HashCredential(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyCredential reports whether secret matches a stored hash.
func VerifyCredential(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

func (s *Service) Create(ctx context.Context, p *Practitioner, secret string) (*Practitioner, error) {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(p.Email) == "" {
		return nil, ErrEmailRequired
	}
	if len(secret) < 8 {
		return nil, ErrSecretTooShort
	}
	if _, err := ParseRole(string(p.Role)); err != nil {
		return nil, err
	}
	hash, err := HashCredential(secret)
	if err != nil {
		return nil, err
	}
	p.CredentialHash = hash
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("practitioner_id", created.ID.String()).
		Str("role", string(created.Role)).
		Msg("practitioner created")
	return created, nil
}

func (s *Service) Update(ctx context.Context, p *Practitioner) (*Practitioner, error) {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return nil, ErrNameRequired
	}
	if _, err := ParseRole(string(p.Role)); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Practitioner, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Practitioner, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, limit, offset)
}

// ListBookable returns the active doctors patients can be scheduled with.
func (s *Service) ListBookable(ctx context.Context) ([]Practitioner, error) {
	return s.repo.ListActiveDoctors(ctx)
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.log.Info().Str("practitioner_id", id.String()).Msg("practitioner deactivated")
	return nil
}
