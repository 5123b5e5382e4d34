// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package token issues signed, time-limited tokens for email confirmation
// and password reset. Each purpose is a separate namespace, so a
// confirmation token can never pass as a reset token.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token purposes.
const (
	PurposeEmailConfirm  = "email-confirm"
	PurposePasswordReset = "password-reset"
)

// DefaultMaxAge is the validation window when the caller does not override
// it. Confirmation emails use ConfirmMaxAge instead.
const (
	DefaultMaxAge = time.Hour
	ConfirmMaxAge = 24 * time.Hour
)

var (
	// ErrExpired is returned when a token's signature verifies but its age
	// exceeds the allowed maximum.
	ErrExpired = errors.New("token expired")
	// ErrInvalid is returned when a token is malformed, carries the wrong
	// purpose, or its signature does not verify.
	ErrInvalid = errors.New("token invalid")
)

// Claims binds an email address and a purpose to the standard JWT claims.
// The jti is stored on the user row by the caller to enforce single use.
type Claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Service signs and validates tokens. It must be constructed with a secret
// before any token operation; there is no lazily initialized global.
type Service struct {
	secret []byte
}

// New creates a token service. An empty secret is a configuration error and
// must abort startup, not be deferred to the first token operation.
func New(secret string) (*Service, error) {
	if secret == "" {
		return nil, errors.New("token: secret key is required")
	}
	return &Service{secret: []byte(secret)}, nil
}

// Generate issues a signed token binding email to purpose for maxAge.
// It returns the token, its jti, and the expiry time.
func (s *Service) Generate(purpose, email string, maxAge time.Duration) (string, string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(maxAge)
	jti := uuid.NewString()

	claims := &Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, jti, expiresAt, nil
}

// Validate checks signature, purpose, and age, and returns the bound email
// and the token's jti. maxAge is enforced on top of the embedded expiry, so
// a caller can narrow the window but never widen it.
func (s *Service) Validate(tokenString, purpose string, maxAge time.Duration) (string, string, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrExpired
		}
		return "", "", ErrInvalid
	}

	if claims.Purpose != purpose {
		return "", "", ErrInvalid
	}

	if claims.IssuedAt == nil || time.Since(claims.IssuedAt.Time) > maxAge {
		return "", "", ErrExpired
	}

	return claims.Subject, claims.ID, nil
}
