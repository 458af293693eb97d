package emergencies_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rafikipets-api/internal/adapters/storage/memory"
	"rafikipets-api/internal/domain/emergencies"
	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/platform/apperr"
)

func TestAcceptFlow_LastWriterWins(t *testing.T) {
	ctx := context.Background()
	us := users.NewService(memory.NewUserRepo())
	svc := emergencies.NewService(memory.NewEmergencyRepo(), us, nil)

	owner, err := us.Create(ctx, users.CreateInput{Email: "o@example.com", Name: "Owner"})
	require.NoError(t, err)
	vet1, err := us.Create(ctx, users.CreateInput{Email: "v1@example.com", Name: "Vet One", Role: users.RoleVet})
	require.NoError(t, err)
	vet2, err := us.Create(ctx, users.CreateInput{Email: "v2@example.com", Name: "Vet Two", Role: users.RoleVet})
	require.NoError(t, err)

	req, err := svc.Create(ctx, owner.ID, emergencies.CreateInput{
		Location: "Kisumu", Description: "bleeding", PetName: "Mia", PetType: "cat",
	})
	require.NoError(t, err)
	assert.Equal(t, emergencies.StatusActive, req.Status)
	assert.Nil(t, req.AssignedVetID)

	active, err := svc.ListFor(ctx, vet2.ID, users.RoleVet)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Owner", active[0].OwnerName)

	_, err = svc.Accept(ctx, owner.ID, users.RolePetOwner, req.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	got, err := svc.Accept(ctx, vet1.ID, users.RoleVet, req.ID)
	require.NoError(t, err)
	assert.Equal(t, emergencies.StatusAccepted, got.Status)
	require.NotNil(t, got.AssignedVetID)
	assert.Equal(t, vet1.ID, *got.AssignedVetID)

	seen, err := svc.ListFor(ctx, vet1.ID, users.RoleVet)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, emergencies.StatusAccepted, seen[0].Status)
	assert.Equal(t, "Vet One", seen[0].VetName)

	got, err = svc.Accept(ctx, vet2.ID, users.RoleVet, req.ID)
	require.NoError(t, err)
	assert.Equal(t, vet2.ID, *got.AssignedVetID)

	// vet1 ya no la ve: no está activa ni asignada a él.
	seen, err = svc.ListFor(ctx, vet1.ID, users.RoleVet)
	require.NoError(t, err)
	assert.Empty(t, seen)

	mine, err := svc.ListFor(ctx, owner.ID, users.RolePetOwner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Vet Two", mine[0].VetName)
}

func TestAccept_NotFound(t *testing.T) {
	svc := emergencies.NewService(memory.NewEmergencyRepo(), users.NewService(memory.NewUserRepo()), nil)

	_, err := svc.Accept(context.Background(), "user_v", users.RoleVet, "emr_missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
