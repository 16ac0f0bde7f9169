package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailbook/backend/internal/domain"
	"github.com/pkordes/trailbook/backend/internal/repo"
)

func TestUserRepo_CreateAndGet(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewUserRepo(tx)
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	created, err := r.Create(ctx, email, "bcrypt-hash")
	require.NoError(t, err)
	assert.Nil(t, created.CurrentTripID)

	byEmail, err := r.GetByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "bcrypt-hash", byEmail.PasswordHash)

	byID, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, email, byID.Email)
}

func TestUserRepo_SetCurrentTrip(t *testing.T) {
	tx := newTestTx(t)
	users := repo.NewUserRepo(tx)
	ctx := context.Background()
	trip := newTestTrip(t, tx)

	require.NoError(t, users.SetCurrentTrip(ctx, trip.UserID, &trip.ID))
	u, err := users.GetByID(ctx, trip.UserID)
	require.NoError(t, err)
	require.NotNil(t, u.CurrentTripID)
	assert.Equal(t, trip.ID, *u.CurrentTripID)

	require.NoError(t, users.SetCurrentTrip(ctx, trip.UserID, nil))
	u, err = users.GetByID(ctx, trip.UserID)
	require.NoError(t, err)
	assert.Nil(t, u.CurrentTripID)
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	tx := newTestTx(t)

	_, err := repo.NewUserRepo(tx).GetByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewUserRepo(tx)
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	_, err := r.Create(ctx, email, "h1")
	require.NoError(t, err)

	_, err = r.Create(ctx, email, "h2")

	assert.ErrorIs(t, err, domain.ErrConflict)
}
