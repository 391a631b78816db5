package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-backend/internal/staff"
)

type fakeDirectory struct {
	byEmail map[string]*staff.Practitioner
}

func (f *fakeDirectory) GetByEmail(_ context.Context, email string) (*staff.Practitioner, error) {
	p, ok := f.byEmail[email]
	if !ok {
		return nil, staff.ErrPractitionerNotFound
	}
	cp := *p
	return &cp, nil
}

var authNow = time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T) (*Manager, *fakeDirectory) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(client, 12*time.Hour)

	hash, err := staff.HashCredential("strongsecret")
	require.NoError(t, err)

	dir := &fakeDirectory{byEmail: map[string]*staff.Practitioner{
		"fatou@clinic.test": {
			ID:             uuid.New(),
			FirstName:      "Fatou",
			LastName:       "Ndiaye",
			Role:           staff.RoleDoctor,
			Email:          "fatou@clinic.test",
			Active:         true,
			CredentialHash: hash,
		},
	}}
	mgr := NewManager(dir, store, "test-signing-secret", 12*time.Hour, zerolog.Nop()).
		WithClock(func() time.Time { return authNow })
	return mgr, dir
}

func TestLoginAndAuthenticate(t *testing.T) {
	mgr, dir := newTestManager(t)
	ctx := context.Background()

	token, sess, err := mgr.Login(ctx, "fatou@clinic.test", "strongsecret")
	require.NoError(t, err)
	assert.Equal(t, dir.byEmail["fatou@clinic.test"].ID, sess.UserID)
	assert.Equal(t, staff.RoleDoctor, sess.Role)

	got, err := mgr.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, sess.TokenID, got.TokenID)
	assert.Equal(t, sess.UserID, got.UserID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	mgr, dir := newTestManager(t)
	ctx := context.Background()

	_, _, err := mgr.Login(ctx, "fatou@clinic.test", "wrongsecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = mgr.Login(ctx, "nobody@clinic.test", "strongsecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	dir.byEmail["fatou@clinic.test"].Active = false
	_, _, err = mgr.Login(ctx, "fatou@clinic.test", "strongsecret")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestLogoutRevokesSession(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	token, _, err := mgr.Login(ctx, "fatou@clinic.test", "strongsecret")
	require.NoError(t, err)

	require.NoError(t, mgr.Logout(ctx, token))

	// The JWT is still within its validity window but the session is gone.
	_, err = mgr.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	mgr, _ := newTestManager(t)

	_, err := mgr.Authenticate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateRejectsForeignSignature(t *testing.T) {
	mgrA, _ := newTestManager(t)
	mgrB, _ := newTestManager(t)
	mgrB.secret = []byte("different-signing-secret")

	token, _, err := mgrA.Login(context.Background(), "fatou@clinic.test", "strongsecret")
	require.NoError(t, err)

	_, err = mgrB.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
