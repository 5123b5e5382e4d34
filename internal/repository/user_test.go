// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestorweb/contactos/internal/models"
	"github.com/gestorweb/contactos/internal/repository"
	"github.com/gestorweb/contactos/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := &models.User{Email: "ana@example.com", PasswordHash: "hash"}
	err := repo.CreateUser(ctx, user)

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.False(t, user.EmailConfirmed)
	assert.NotZero(t, user.CreatedAt)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, &models.User{Email: "ana@example.com", PasswordHash: "hash"}))

	err := repo.CreateUser(ctx, &models.User{Email: "ana@example.com", PasswordHash: "hash"})

	assert.Error(t, err)
}

func TestGetUserByEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	created := testutil.NewTestUser(t, repo, "ana@example.com")

	retrieved, err := repo.GetUserByEmail(ctx, "ana@example.com")

	require.NoError(t, err)
	assert.Equal(t, created.ID, retrieved.ID)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := repo.GetUserByEmail(ctx, "nadie@example.com")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetUserByID_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := repo.GetUserByID(ctx, 999)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserExists(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	testutil.NewTestUser(t, repo, "ana@example.com")

	exists, err := repo.UserExists(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.UserExists(ctx, "nadie@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestConfirmEmail_ClearsToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := &models.User{Email: "ana@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.CreateUser(ctx, user))
	require.NoError(t, repo.SetConfirmationToken(ctx, user.ID, "jti-1", time.Now().Add(24*time.Hour)))

	require.NoError(t, repo.ConfirmEmail(ctx, user.ID, time.Now()))

	updated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, updated.EmailConfirmed)
	assert.True(t, updated.EmailConfirmedAt.Valid)
	assert.False(t, updated.ConfirmationToken.Valid)
	assert.False(t, updated.ConfirmationTokenExpires.Valid)
}

func TestSetConfirmationToken_ReplacesPrevious(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "ana@example.com")
	require.NoError(t, repo.SetConfirmationToken(ctx, user.ID, "jti-1", time.Now().Add(time.Hour)))
	require.NoError(t, repo.SetConfirmationToken(ctx, user.ID, "jti-2", time.Now().Add(time.Hour)))

	updated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jti-2", updated.ConfirmationToken.String)
}

func TestResetPassword_ClearsToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "ana@example.com")
	require.NoError(t, repo.SetResetToken(ctx, user.ID, "jti-1", time.Now().Add(time.Hour)))

	require.NoError(t, repo.ResetPassword(ctx, user.ID, "new-hash"))

	updated, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", updated.PasswordHash)
	assert.False(t, updated.ResetToken.Valid)
	assert.False(t, updated.ResetTokenExpires.Valid)
}

func TestDeleteUserByEmail(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	user := testutil.NewTestUser(t, repo, "ana@example.com")
	testutil.NewTestContact(t, repo, user.ID, models.EstadoAbierto)

	require.NoError(t, repo.DeleteUserByEmail(ctx, "ana@example.com"))

	_, err := repo.GetUserByEmail(ctx, "ana@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Contacts cascade away with their owner
	count, err := repo.CountContactsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteUserByEmail_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	err := repo.DeleteUserByEmail(ctx, "nadie@example.com")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCountUsers(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	testutil.NewTestUser(t, repo, "ana@example.com")
	testutil.NewTestUser(t, repo, "jorge@example.com")

	count, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
