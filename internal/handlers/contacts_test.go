// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestorweb/contactos/internal/models"
	"github.com/gestorweb/contactos/internal/testutil"
)

func contactForm() url.Values {
	return url.Values{
		"origen":              {"propio"},
		"cobertura_actual":    {"osde"},
		"privado_desregulado": {"privado"},
		"apellido_nombre":     {"García, María"},
		"correo_electronico":  {"maria@example.com"},
		"edad_titular":        {"42"},
		"telefono":            {"+54 11 5555 0001"},
		"grupo_familiar":      {"3"},
		"plan_ofrecido":       {"Plan 210"},
		"fecha":               {"01/06/2025"},
		"estado":              {models.EstadoAbierto},
		"conyuge":             {"sin conyuge"},
	}
}

func TestCreateContact(t *testing.T) {
	f := newFixture(t)
	user := testutil.NewTestUser(t, f.repo, "ana@example.com")

	c, rec := f.formContext(http.MethodPost, "/usuario", contactForm(), user)
	require.NoError(t, f.handler.CreateContact(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["contact"])
}

func TestCreateContact_FieldErrors(t *testing.T) {
	f := newFixture(t)
	user := testutil.NewTestUser(t, f.repo, "ana@example.com")

	form := contactForm()
	form.Set("telefono", "")
	c, rec := f.formContext(http.MethodPost, "/usuario", form, user)
	require.NoError(t, f.handler.CreateContact(c))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["errors"])
}

func TestListContacts_IncludesFormOptions(t *testing.T) {
	f := newFixture(t)
	user := testutil.NewTestUser(t, f.repo, "ana@example.com")
	testutil.NewTestContact(t, f.repo, user.ID, models.EstadoAbierto)

	c, rec := f.formContext(http.MethodGet, "/usuario", nil, user)
	require.NoError(t, f.handler.ListContacts(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	contacts, ok := body["contacts"].([]any)
	require.True(t, ok)
	assert.Len(t, contacts, 1)
	assert.NotNil(t, body["opciones"])
}

func TestAdminContacts_IncludesOwners(t *testing.T) {
	f := newFixture(t)
	ana := testutil.NewTestUser(t, f.repo, "ana@example.com")
	jorge := testutil.NewTestUser(t, f.repo, "jorge@example.com")
	testutil.NewTestContact(t, f.repo, ana.ID, models.EstadoAbierto)
	testutil.NewTestContact(t, f.repo, jorge.ID, models.EstadoVendido)

	c, rec := f.formContext(http.MethodGet, "/admin", nil, ana)
	require.NoError(t, f.handler.AdminContacts(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	contacts, ok := decode(t, rec)["contacts"].([]any)
	require.True(t, ok)
	assert.Len(t, contacts, 2)
	first, ok := contacts[0].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, first["owner_email"])
}

func TestChangeEstado(t *testing.T) {
	f := newFixture(t)
	user := testutil.NewTestUser(t, f.repo, "ana@example.com")
	contact := testutil.NewTestContact(t, f.repo, user.ID, models.EstadoAbierto)

	form := url.Values{
		"contact_id": {fmt.Sprintf("%d", contact.ID)},
		"estado":     {models.EstadoVendido},
	}
	c, rec := f.formContext(http.MethodPost, "/cambiar_estado_contacto", form, user)
	require.NoError(t, f.handler.ChangeEstado(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, models.EstadoVendido, body["estado"])
	assert.Contains(t, body["message"], models.EstadoVendido)
}

func TestChangeEstado_InvalidValue(t *testing.T) {
	f := newFixture(t)
	user := testutil.NewTestUser(t, f.repo, "ana@example.com")
	contact := testutil.NewTestContact(t, f.repo, user.ID, models.EstadoAbierto)

	form := url.Values{
		"contact_id": {fmt.Sprintf("%d", contact.ID)},
		"estado":     {"perdido"},
	}
	c, rec := f.formContext(http.MethodPost, "/cambiar_estado_contacto", form, user)
	require.NoError(t, f.handler.ChangeEstado(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeEstado_OtherOwner(t *testing.T) {
	f := newFixture(t)
	owner := testutil.NewTestUser(t, f.repo, "ana@example.com")
	other := testutil.NewTestUser(t, f.repo, "jorge@example.com")
	contact := testutil.NewTestContact(t, f.repo, owner.ID, models.EstadoAbierto)

	form := url.Values{
		"contact_id": {fmt.Sprintf("%d", contact.ID)},
		"estado":     {models.EstadoVendido},
	}
	c, rec := f.formContext(http.MethodPost, "/cambiar_estado_contacto", form, other)
	require.NoError(t, f.handler.ChangeEstado(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChangeEstado_BadID(t *testing.T) {
	f := newFixture(t)
	user := testutil.NewTestUser(t, f.repo, "ana@example.com")

	form := url.Values{"contact_id": {"abc"}, "estado": {models.EstadoVendido}}
	c, rec := f.formContext(http.MethodPost, "/cambiar_estado_contacto", form, user)
	require.NoError(t, f.handler.ChangeEstado(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangePromocion_RequiresClosed(t *testing.T) {
	f := newFixture(t)
	user := testutil.NewTestUser(t, f.repo, "ana@example.com")
	open := testutil.NewTestContact(t, f.repo, user.ID, models.EstadoAbierto)
	closed := testutil.NewTestContact(t, f.repo, user.ID, models.EstadoCerrado)

	form := url.Values{
		"contact_id": {fmt.Sprintf("%d", open.ID)},
		"promocion":  {"promocion sancor"},
	}
	c, rec := f.formContext(http.MethodPost, "/actualizar_promocion", form, user)
	require.NoError(t, f.handler.ChangePromocion(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	form.Set("contact_id", fmt.Sprintf("%d", closed.ID))
	c, rec = f.formContext(http.MethodPost, "/actualizar_promocion", form, user)
	require.NoError(t, f.handler.ChangePromocion(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "promocion sancor", decode(t, rec)["promocion"])
}

func TestVerifyEmail(t *testing.T) {
	f := newFixture(t)
	testutil.NewTestUser(t, f.repo, "ana@example.com")

	cases := []struct {
		name     string
		email    string
		contexto string
		valid    bool
	}{
		{"login existing", "ana@example.com", "login", true},
		{"login unknown", "nadie@example.com", "login", false},
		{"register existing", "ana@example.com", "registro", false},
		{"register available", "nueva@example.com", "registro", true},
		{"bad format", "no-es-un-email", "login", false},
		{"empty", "", "login", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := url.Values{"email": {tc.email}, "contexto": {tc.contexto}}
			c, rec := f.formContext(http.MethodPost, "/verificar_email", form, nil)
			require.NoError(t, f.handler.VerifyEmail(c))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.valid, decode(t, rec)["valid"])
		})
	}
}
