// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session manages the signed session cookie.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// ErrNoSession is returned when a request carries no valid session cookie.
var ErrNoSession = errors.New("no valid session")

// Session is the payload stored inside the signed cookie.
type Session struct {
	UserID   int64     `json:"uid"`
	Email    string    `json:"email"`
	IsAdmin  bool      `json:"admin"`
	Remember bool      `json:"remember"`
	IssuedAt time.Time `json:"iat"`
}

// Manager issues, parses, and clears session cookies. Sessions live inside
// the cookie itself; there is no server-side session store.
type Manager struct {
	sc          *securecookie.SecureCookie
	cookieName  string
	secure      bool
	sessionTTL  time.Duration
	rememberTTL time.Duration
}

// NewManager creates a session manager. hashKey is required; blockKey is
// optional and enables payload encryption on top of signing.
func NewManager(hashKey, blockKey []byte, cookieName string, secure bool, sessionTTL, rememberTTL time.Duration) (*Manager, error) {
	if len(hashKey) == 0 {
		return nil, errors.New("session: hash key is required")
	}
	var bk []byte
	if len(blockKey) > 0 {
		bk = blockKey
	}
	sc := securecookie.New(hashKey, bk)
	sc.MaxAge(int(rememberTTL.Seconds()))

	return &Manager{
		sc:          sc,
		cookieName:  cookieName,
		secure:      secure,
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
	}, nil
}

// Create issues a session cookie for the given user. With remember the
// cookie persists across browser restarts for the remember duration;
// without it the cookie dies with the browser session and the payload
// deadline enforces the shorter server-side lifetime.
func (m *Manager) Create(userID int64, email string, isAdmin, remember bool) (*http.Cookie, error) {
	sess := Session{
		UserID:   userID,
		Email:    email,
		IsAdmin:  isAdmin,
		Remember: remember,
		IssuedAt: time.Now(),
	}

	encoded, err := m.sc.Encode(m.cookieName, sess)
	if err != nil {
		return nil, err
	}

	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.MaxAge = int(m.rememberTTL.Seconds())
		cookie.Expires = time.Now().Add(m.rememberTTL)
	}
	return cookie, nil
}

// Parse extracts and validates the session from a request. Tampered,
// missing, or aged-out sessions all come back as ErrNoSession.
func (m *Manager) Parse(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	var sess Session
	if err := m.sc.Decode(m.cookieName, cookie.Value, &sess); err != nil {
		return nil, ErrNoSession
	}

	ttl := m.sessionTTL
	if sess.Remember {
		ttl = m.rememberTTL
	}
	if time.Since(sess.IssuedAt) > ttl {
		return nil, ErrNoSession
	}

	return &sess, nil
}

// Clear returns a cookie that deletes the session unconditionally.
func (m *Manager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
