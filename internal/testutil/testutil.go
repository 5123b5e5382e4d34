// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"github.com/gestorweb/contactos/internal/database"
	"github.com/gestorweb/contactos/internal/models"
	"github.com/gestorweb/contactos/internal/repository"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestUser creates a confirmed user in the database.
func NewTestUser(t *testing.T, repo *repository.Repository, email string) *models.User {
	t.Helper()
	ctx := context.Background()
	user := &models.User{
		Email:        email,
		PasswordHash: "$2a$10$test-hash-not-a-real-one-at-all",
	}
	require.NoError(t, repo.CreateUser(ctx, user))
	require.NoError(t, repo.ConfirmEmail(ctx, user.ID, time.Now()))
	user.EmailConfirmed = true
	return user
}

// NewTestContact creates a contact owned by userID. The returned contact has
// sensible defaults for every required field; tweak fields afterwards via
// estado updates where a test needs a specific state.
func NewTestContact(t *testing.T, repo *repository.Repository, userID int64, estado string) *models.Contact {
	t.Helper()
	ctx := context.Background()
	contact := &models.Contact{
		UserID:             userID,
		Origen:             "propio",
		CoberturaActual:    "osde",
		PrivadoDesregulado: "privado",
		ApellidoNombre:     "García, María",
		CorreoElectronico:  "maria@example.com",
		EdadTitular:        "40",
		Telefono:           "+54 11 5555 0000",
		GrupoFamiliar:      "2",
		PlanOfrecido:       "Plan 210",
		Fecha:              "01/06/2025",
		Estado:             estado,
		Conyuge:            "sin conyuge",
		ConyugeEdad:        models.SinConyuge,
	}
	require.NoError(t, repo.CreateContact(ctx, contact))
	return contact
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewFormContext creates an Echo context carrying form-encoded values.
func NewFormContext(e *echo.Echo, method, path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}
