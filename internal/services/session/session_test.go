// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestorweb/contactos/internal/services/session"
)

var testHashKey = []byte("0123456789abcdef0123456789abcdef")

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager(testHashKey, nil, "_session", false, 2*time.Hour, 336*time.Hour)
	require.NoError(t, err)
	return m
}

func requestWithCookie(cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	return req
}

func TestNewManager_RequiresHashKey(t *testing.T) {
	_, err := session.NewManager(nil, nil, "_session", false, time.Hour, time.Hour)

	assert.Error(t, err)
}

func TestCreateParse_Roundtrip(t *testing.T) {
	m := newManager(t)

	cookie, err := m.Create(42, "ana@example.com", true, false)
	require.NoError(t, err)
	assert.Zero(t, cookie.MaxAge)

	sess, err := m.Parse(requestWithCookie(cookie))
	require.NoError(t, err)
	assert.EqualValues(t, 42, sess.UserID)
	assert.Equal(t, "ana@example.com", sess.Email)
	assert.True(t, sess.IsAdmin)
	assert.False(t, sess.Remember)
}

func TestCreate_RememberSetsMaxAge(t *testing.T) {
	m := newManager(t)

	cookie, err := m.Create(42, "ana@example.com", false, true)
	require.NoError(t, err)

	assert.Equal(t, int((336 * time.Hour).Seconds()), cookie.MaxAge)
	assert.False(t, cookie.Expires.IsZero())
}

func TestParse_NoCookie(t *testing.T) {
	m := newManager(t)

	_, err := m.Parse(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestParse_Tampered(t *testing.T) {
	m := newManager(t)

	cookie, err := m.Create(42, "ana@example.com", false, false)
	require.NoError(t, err)
	cookie.Value = "tampered" + cookie.Value

	_, err = m.Parse(requestWithCookie(cookie))

	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestParse_OtherManagerKey(t *testing.T) {
	m := newManager(t)
	other, err := session.NewManager([]byte("fedcba9876543210fedcba9876543210"), nil, "_session", false, time.Hour, time.Hour)
	require.NoError(t, err)

	cookie, err := m.Create(42, "ana@example.com", false, false)
	require.NoError(t, err)

	_, err = other.Parse(requestWithCookie(cookie))

	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestParse_AgedOut(t *testing.T) {
	m, err := session.NewManager(testHashKey, nil, "_session", false, -time.Second, time.Hour)
	require.NoError(t, err)

	cookie, err := m.Create(42, "ana@example.com", false, false)
	require.NoError(t, err)

	_, err = m.Parse(requestWithCookie(cookie))

	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestClear(t *testing.T) {
	m := newManager(t)

	cookie := m.Clear()

	assert.Equal(t, "_session", cookie.Name)
	assert.Equal(t, -1, cookie.MaxAge)
	assert.Empty(t, cookie.Value)
}
