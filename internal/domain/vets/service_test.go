package vets_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rafikipets-api/internal/adapters/storage/memory"
	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/domain/vets"
	"rafikipets-api/internal/platform/apperr"
)

func newService(t *testing.T) (*vets.Service, *users.Service) {
	t.Helper()
	us := users.NewService(memory.NewUserRepo())
	return vets.NewService(memory.NewVetRepo(), us), us
}

func newUser(t *testing.T, us *users.Service, email, name string) users.User {
	t.Helper()
	u, err := us.Create(context.Background(), users.CreateInput{Email: email, Name: name})
	require.NoError(t, err)
	return u
}

func TestCreate_PromotesAndRejectsSecondProfile(t *testing.T) {
	svc, us := newService(t)
	ctx := context.Background()
	u := newUser(t, us, "vet@example.com", "Dr. Vet")

	p, err := svc.Create(ctx, u.ID, vets.CreateInput{
		LicenseNumber: "LIC-1", Specialty: "Surgery", Location: "Nairobi", ExperienceYears: 4,
	})
	require.NoError(t, err)
	assert.True(t, p.Available)
	assert.Zero(t, p.Rating)

	got, err := us.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, users.RoleVet, got.Role)

	_, err = svc.Create(ctx, u.ID, vets.CreateInput{LicenseNumber: "LIC-2", Specialty: "x", Location: "y"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.EqualError(t, err, "Profile already exists")
}

func TestGetMine_NotFound(t *testing.T) {
	svc, us := newService(t)
	u := newUser(t, us, "owner@example.com", "Owner")

	_, err := svc.GetMine(context.Background(), u.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.EqualError(t, err, "Profile not found")
}

func TestList_CaseInsensitiveSubstringAndEnrichment(t *testing.T) {
	svc, us := newService(t)
	ctx := context.Background()

	a := newUser(t, us, "a@example.com", "Alice")
	b := newUser(t, us, "b@example.com", "Bob")
	_, err := svc.Create(ctx, a.ID, vets.CreateInput{LicenseNumber: "1", Specialty: "Small Animal Surgery", Location: "Nairobi West"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, b.ID, vets.CreateInput{LicenseNumber: "2", Specialty: "Dermatology", Location: "Mombasa"})
	require.NoError(t, err)

	all, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := svc.List(ctx, "surg", "NAIROBI")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].UserID)
	assert.Equal(t, "Alice", got[0].Name)

	// Metacaracteres de regex se tratan como texto.
	got, err = svc.List(ctx, ".*", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGet(t *testing.T) {
	svc, us := newService(t)
	ctx := context.Background()
	u := newUser(t, us, "v@example.com", "Vera")

	_, err := svc.Get(ctx, u.ID)
	assert.EqualError(t, err, "Vet not found")

	_, err = svc.Create(ctx, u.ID, vets.CreateInput{LicenseNumber: "1", Specialty: "s", Location: "l"})
	require.NoError(t, err)

	l, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vera", l.Name)
}
