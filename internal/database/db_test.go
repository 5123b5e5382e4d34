// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_InMemory(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	// Migrations ran: both tables exist
	var count int
	err = db.Get(&count,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'contacts')`)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestOpen_ForeignKeysEnforced(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(
		`INSERT INTO contacts (
			user_id, origen, cobertura_actual, promocion, privado_desregulado,
			apellido_nombre, correo_electronico, edad_titular, telefono,
			grupo_familiar, plan_ofrecido, fecha, estado, observaciones,
			conyuge, conyuge_edad
		) VALUES (999, '', '', '', '', '', '', '', '', '', '', '', 'abierto', '', '', '')`)

	assert.Error(t, err, "insert with dangling user_id must fail")
}

func TestAddDefaultParams(t *testing.T) {
	dsn := addDefaultParams("./test.db")

	assert.Contains(t, dsn, "_txlock=immediate")
	assert.Contains(t, dsn, "_busy_timeout=5000")
	assert.Contains(t, dsn, "_foreign_keys=on")
}

func TestAddDefaultParams_KeepsExisting(t *testing.T) {
	dsn := addDefaultParams("./test.db?_busy_timeout=10000")

	assert.Contains(t, dsn, "_busy_timeout=10000")
	assert.NotContains(t, dsn, "_busy_timeout=5000")
}
