package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicore/clinic-backend/internal/staff"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
)

// Directory looks up the staff member a credential belongs to.
type Directory interface {
	GetByEmail(ctx context.Context, email string) (*staff.Practitioner, error)
}

type Manager struct {
	directory Directory
	store     *Store
	secret    []byte
	ttl       time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

func NewManager(directory Directory, store *Store, secret string, ttl time.Duration, log zerolog.Logger) *Manager {
	return &Manager{
		directory: directory,
		store:     store,
		secret:    []byte(secret),
		ttl:       ttl,
		log:       log.With().Str("component", "auth").Logger(),
		now:       time.Now,
	}
}

// WithClock fixes the time source, for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Login verifies the credential against the staff row and issues a
// signed token backed by a redis session.
func (m *Manager) Login(ctx context.Context, email, secret string) (string, *Session, error) {
	member, err := m.directory.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, staff.ErrPractitionerNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !staff.VerifyCredential(member.CredentialHash, secret) {
		return "", nil, ErrInvalidCredentials
	}
	if !member.Active {
		return "", nil, ErrAccountInactive
	}

	sess := &Session{
		TokenID:   uuid.New(),
		UserID:    member.ID,
		Role:      member.Role,
		ExpiresAt: m.now().Add(m.ttl),
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return "", nil, err
	}

	claims := jwt.RegisteredClaims{
		ID:        sess.TokenID.String(),
		Subject:   member.ID.String(),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		IssuedAt:  jwt.NewNumericDate(m.now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	m.log.Info().
		Str("user_id", member.ID.String()).
		Str("role", string(member.Role)).
		Msg("login")
	return token, sess, nil
}

// Authenticate verifies the token signature and resolves the backing
// session. A revoked session fails even if the JWT is still valid.
func (m *Manager) Authenticate(ctx context.Context, token string) (*Session, error) {
	tokenID, err := m.parseTokenID(token)
	if err != nil {
		return nil, err
	}
	sess, err := m.store.Get(ctx, tokenID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if m.now().After(sess.ExpiresAt) {
		return nil, ErrInvalidToken
	}
	return sess, nil
}

// Logout revokes the session behind the token.
func (m *Manager) Logout(ctx context.Context, token string) error {
	tokenID, err := m.parseTokenID(token)
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, tokenID); err != nil {
		return err
	}
	m.log.Info().Str("token_id", tokenID.String()).Msg("logout")
	return nil
}

func (m *Manager) parseTokenID(token string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	tokenID, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return tokenID, nil
}
