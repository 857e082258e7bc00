package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/desk-booking/internal/model"
	"github.com/iliyamo/desk-booking/internal/repository"
	"github.com/iliyamo/desk-booking/internal/utils"
)

func TestUserRepo_CreateAndGet(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()

	id, err := users.Create(ctx, "alice", "secret", "backend", "", 4)
	require.NoError(t, err)
	require.NotZero(t, id)

	u, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, model.RoleUser, u.Role, "empty role defaults to user")
	require.Equal(t, "backend", u.TechArea)
	require.True(t, utils.VerifyPassword(u.PasswordHash, "secret"))
	require.False(t, u.CreatedAt.IsZero())

	byID, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)
}

func TestUserRepo_DuplicateUsername(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()

	_, err := users.Create(ctx, "alice", "secret", "backend", "", 4)
	require.NoError(t, err)
	_, err = users.Create(ctx, "alice", "other", "frontend", "", 4)
	require.ErrorIs(t, err, repository.ErrUsernameExists)
}

func TestUserRepo_GetMissing(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()

	_, err := users.GetByID(ctx, 999)
	require.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = users.GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestUserRepo_UpdatePassword(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()
	u := mustUser(t, users, "alice", "backend", "")

	require.NoError(t, users.UpdatePassword(ctx, u.ID, "newpw", 4))

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, utils.VerifyPassword(got.PasswordHash, "newpw"))
	require.False(t, utils.VerifyPassword(got.PasswordHash, "pw-alice"))

	require.ErrorIs(t, users.UpdatePassword(ctx, 999, "x", 4), repository.ErrUserNotFound)
}

func TestUserRepo_UpdateTechArea(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()
	u := mustUser(t, users, "alice", "backend", "")

	require.NoError(t, users.UpdateTechArea(ctx, u.ID, "frontend"))
	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "frontend", got.TechArea)

	// Setting the same value again is not an error.
	require.NoError(t, users.UpdateTechArea(ctx, u.ID, "frontend"))

	require.ErrorIs(t, users.UpdateTechArea(ctx, 999, "x"), repository.ErrUserNotFound)
}

func TestUserRepo_List(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()
	mustUser(t, users, "alice", "backend", "")
	mustUser(t, users, "bob", "frontend", "")
	mustUser(t, users, "carol", "backend", model.RoleAdmin)

	all, err := users.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	backend, err := users.List(ctx, "backend")
	require.NoError(t, err)
	require.Len(t, backend, 2)
	for _, u := range backend {
		require.Equal(t, "backend", u.TechArea)
	}
}

func TestUserRepo_DeleteReleasesDesk(t *testing.T) {
	users, desks := newTestRepos(t)
	ctx := context.Background()

	alice := mustUser(t, users, "alice", "backend", "")
	mustDesk(t, desks, "D1", "L2", "backend")

	_, err := desks.Claim(ctx, alice, "L2", "D1", model.DeskOccupied)
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, alice.ID))

	// The desk must not keep a dangling occupant reference.
	d, err := desks.GetByDeskID(ctx, "D1", "L2")
	require.NoError(t, err)
	require.Equal(t, model.DeskAvailable, d.Status)
	require.Nil(t, d.UserID)

	_, err = users.GetByID(ctx, alice.ID)
	require.ErrorIs(t, err, repository.ErrUserNotFound)

	require.ErrorIs(t, users.Delete(ctx, alice.ID), repository.ErrUserNotFound)
}
