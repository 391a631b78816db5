package staff

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStaffRepo struct {
	byID map[uuid.UUID]*Practitioner
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{byID: map[uuid.UUID]*Practitioner{}}
}

func (f *fakeStaffRepo) GetByID(_ context.Context, id uuid.UUID) (*Practitioner, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, ErrPractitionerNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*Practitioner, error) {
	for _, p := range f.byID {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrPractitionerNotFound
}

func (f *fakeStaffRepo) List(_ context.Context, limit, offset int) ([]Practitioner, error) {
	var out []Practitioner
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStaffRepo) ListActiveDoctors(_ context.Context) ([]Practitioner, error) {
	var out []Practitioner
	for _, p := range f.byID {
		if p.Role == RoleDoctor && p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStaffRepo) Create(_ context.Context, p *Practitioner) (*Practitioner, error) {
	cp := *p
	cp.ID = uuid.New()
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStaffRepo) Update(_ context.Context, p *Practitioner) (*Practitioner, error) {
	existing, ok := f.byID[p.ID]
	if !ok {
		return nil, ErrPractitionerNotFound
	}
	cp := *p
	cp.CredentialHash = existing.CredentialHash
	f.byID[p.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStaffRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	p, ok := f.byID[id]
	if !ok {
		return ErrPractitionerNotFound
	}
	p.Active = active
	return nil
}

func TestCreatePractitionerValidation(t *testing.T) {
	svc := NewService(newFakeStaffRepo(), zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Create(ctx, &Practitioner{LastName: "Ndiaye", Role: RoleDoctor, Email: "a@clinic.test"}, "strongsecret")
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Create(ctx, &Practitioner{FirstName: "Fatou", LastName: "Ndiaye", Role: RoleDoctor, Email: "a@clinic.test"}, "short")
	assert.ErrorIs(t, err, ErrSecretTooShort)

	_, err = svc.Create(ctx, &Practitioner{FirstName: "Fatou", LastName: "Ndiaye", Role: "janitor", Email: "a@clinic.test"}, "strongsecret")
	assert.Error(t, err)
}

func TestCreatePractitionerHashesCredential(t *testing.T) {
	repo := newFakeStaffRepo()
	svc := NewService(repo, zerolog.Nop())

	p, err := svc.Create(context.Background(), &Practitioner{
		FirstName: "Fatou",
		LastName:  "Ndiaye",
		Role:      RoleDoctor,
		Email:     "fatou@clinic.test",
		Active:    true,
	}, "strongsecret")
	require.NoError(t, err)

	assert.True(t, VerifyCredential(p.CredentialHash, "strongsecret"))
	assert.False(t, VerifyCredential(p.CredentialHash, "othersecret"))
	assert.NotEqual(t, "strongsecret", p.CredentialHash)
}

func TestHashCredentialIsSalted(t *testing.T) {
	first, err := HashCredential("strongsecret")
	require.NoError(t, err)
	second, err := HashCredential("strongsecret")
	require.NoError(t, err)

	// Each hash carries its own salt, so equal secrets never produce
	// equal stored forms.
	assert.NotEqual(t, first, second)
	assert.True(t, VerifyCredential(first, "strongsecret"))
	assert.True(t, VerifyCredential(second, "strongsecret"))
}

func TestListBookableFiltersInactiveAndNonDoctors(t *testing.T) {
	repo := newFakeStaffRepo()
	svc := NewService(repo, zerolog.Nop())
	ctx := context.Background()

	doc, err := svc.Create(ctx, &Practitioner{FirstName: "Fatou", LastName: "Ndiaye", Role: RoleDoctor, Email: "d@clinic.test", Active: true}, "strongsecret")
	require.NoError(t, err)
	_, err = svc.Create(ctx, &Practitioner{FirstName: "Moussa", LastName: "Ba", Role: RoleSecretary, Email: "s@clinic.test", Active: true}, "strongsecret")
	require.NoError(t, err)

	bookable, err := svc.ListBookable(ctx)
	require.NoError(t, err)
	require.Len(t, bookable, 1)
	assert.Equal(t, doc.ID, bookable[0].ID)

	require.NoError(t, svc.Deactivate(ctx, doc.ID))
	bookable, err = svc.ListBookable(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookable)
}
