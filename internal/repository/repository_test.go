// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"github.com/gestorweb/contactos/internal/testutil"
)

func TestInTx_Commit(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	err := repo.InTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (email, password_hash) VALUES (?, ?)`,
			"ana@example.com", "hash")
		return err
	})
	require.NoError(t, err)

	exists, err := repo.UserExists(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInTx_RollbackOnError(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repo.InTx(ctx, func(tx *sqlx.Tx) error {
		_, execErr := tx.ExecContext(ctx,
			`INSERT INTO users (email, password_hash) VALUES (?, ?)`,
			"ana@example.com", "hash")
		require.NoError(t, execErr)
		return boom
	})
	require.ErrorIs(t, err, boom)

	exists, err := repo.UserExists(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}
