// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth orchestrates registration, login, email confirmation, and
// password reset.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/gestorweb/contactos/internal/config"
	"github.com/gestorweb/contactos/internal/models"
	"github.com/gestorweb/contactos/internal/repository"
	"github.com/gestorweb/contactos/internal/services/token"
	"github.com/gestorweb/contactos/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials deliberately covers both unknown email and wrong
	// password so login cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	// ErrEmailNotConfirmed blocks session creation until the email is
	// confirmed. A fresh confirmation mail has already been re-sent when
	// this is returned.
	ErrEmailNotConfirmed = errors.New("email not confirmed")
	ErrAlreadyConfirmed  = errors.New("email already confirmed")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrUserNotFound      = errors.New("user not found")
	// ErrServerConfig means the shared community password is not configured.
	// That is an operator mistake, never a user one.
	ErrServerConfig = errors.New("server configuration error")
	// ErrDeliveryFailed reports a mail send failure on flows where the user
	// explicitly asked for the mail.
	ErrDeliveryFailed = errors.New("email delivery failed")
)

const minPasswordLength = 6

// dummyHash is used for constant-time login to prevent timing attacks.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// Mailer delivers confirmation and reset mail. Failures are transient by
// contract; callers decide whether they block the flow.
type Mailer interface {
	SendConfirmation(ctx context.Context, toEmail, token string) error
	SendPasswordReset(ctx context.Context, toEmail, token string) error
}

// Service wires the credential store, the token service, and the mailer.
// All dependencies are injected at startup; there are no module globals.
type Service struct {
	repo   *repository.Repository
	tokens *token.Service
	mailer Mailer
	cfg    *config.AuthConfig
}

// NewService creates the auth service.
func NewService(repo *repository.Repository, tokens *token.Service, mailer Mailer, cfg *config.AuthConfig) *Service {
	return &Service{repo: repo, tokens: tokens, mailer: mailer, cfg: cfg}
}

// RegisterParams holds the registration form input.
type RegisterParams struct {
	Email             string
	Password          string
	ConfirmPassword   string
	CommunityPassword string
	AcceptTerms       bool
}

// RegisterResult reports the created user and whether the confirmation mail
// went out. EmailSent false is a warning, not a failure: the account exists
// and the user can request a resend.
type RegisterResult struct {
	User      *models.User
	EmailSent bool
}

// Register creates a new, unconfirmed account and sends the confirmation
// mail. The community password gates registration; emails on the allow-list
// become admins.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*RegisterResult, error) {
	if s.cfg.CommunityPassword == "" {
		slog.Error("register_misconfigured", "reason", "community password not set")
		return nil, ErrServerConfig
	}

	var verrs validation.Errors
	if _, err := mail.ParseAddress(params.Email); err != nil {
		verrs.Add("email", "Por favor ingrese un correo electrónico válido")
	}
	if len(params.Password) < minPasswordLength {
		verrs.Add("password", fmt.Sprintf("La contraseña debe tener al menos %d caracteres", minPasswordLength))
	}
	if params.Password != params.ConfirmPassword {
		verrs.Add("confirm_password", "Las contraseñas deben coincidir")
	}
	if params.CommunityPassword != s.cfg.CommunityPassword {
		verrs.Add("community_password", "Contraseña comunal incorrecta")
	}
	if !params.AcceptTerms {
		verrs.Add("accept_terms", "Debes aceptar los términos y condiciones para registrarte")
	}
	if verrs.HasErrors() {
		return nil, verrs
	}

	if _, err := s.repo.GetUserByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        params.Email,
		PasswordHash: string(passwordHash),
		IsAdmin:      s.cfg.IsAdminEmail(params.Email),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("register_success", "user_id", user.ID, "email", user.Email, "is_admin", user.IsAdmin)

	// The account commit stands even if the mail cannot go out; the user
	// recovers via /auth/resend-confirmation.
	result := &RegisterResult{User: user, EmailSent: true}
	if err := s.issueConfirmation(ctx, user); err != nil {
		slog.Warn("confirmation_email_failed", "email", user.Email, "error", err)
		result.EmailSent = false
	}
	return result, nil
}

// Login authenticates a user. Unconfirmed users get a fresh confirmation
// mail and no session.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform bcrypt comparison to prevent timing attacks
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	if !user.EmailConfirmed {
		if err := s.issueConfirmation(ctx, user); err != nil {
			slog.Warn("confirmation_email_failed", "email", user.Email, "error", err)
		}
		slog.Warn("login_blocked", "email", email, "reason", "email_not_confirmed")
		return nil, ErrEmailNotConfirmed
	}

	slog.Info("login_success", "user_id", user.ID, "email", email)
	return user, nil
}

// ConfirmEmail validates a confirmation token and marks the account as
// confirmed. The signed token must also match the stored one, which is
// cleared on first use: a consumed or superseded token fails.
func (s *Service) ConfirmEmail(ctx context.Context, tokenString string) error {
	email, jti, err := s.tokens.Validate(tokenString, token.PurposeEmailConfirm, token.ConfirmMaxAge)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.EmailConfirmed {
		return ErrAlreadyConfirmed
	}
	if !user.ConfirmationToken.Valid || user.ConfirmationToken.String != jti {
		return ErrInvalidToken
	}
	if user.ConfirmationTokenExpires.Valid && user.ConfirmationTokenExpires.Time.Before(time.Now()) {
		return ErrInvalidToken
	}

	if err := s.repo.ConfirmEmail(ctx, user.ID, time.Now()); err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}

	slog.Info("email_confirmed", "user_id", user.ID, "email", user.Email)
	return nil
}

// ResendConfirmation issues a new confirmation token, invalidating the
// previous one.
func (s *Service) ResendConfirmation(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.EmailConfirmed {
		return ErrAlreadyConfirmed
	}

	if err := s.issueConfirmation(ctx, user); err != nil {
		slog.Warn("confirmation_email_failed", "email", user.Email, "error", err)
		return ErrDeliveryFailed
	}
	return nil
}

// ForgotPassword issues a reset token if the account exists. The outcome is
// identical either way, so the endpoint cannot confirm registrations.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Info("reset_requested_unknown", "email", email)
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	signed, jti, expiresAt, err := s.tokens.Generate(token.PurposePasswordReset, user.Email, token.DefaultMaxAge)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := s.repo.SetResetToken(ctx, user.ID, jti, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, signed); err != nil {
		slog.Warn("reset_email_failed", "email", user.Email, "error", err)
	} else {
		slog.Info("reset_requested", "user_id", user.ID, "email", user.Email)
	}
	return nil
}

// ResetPassword validates a reset token and replaces the password. The
// stored token is cleared in the same statement as the hash update.
func (s *Service) ResetPassword(ctx context.Context, tokenString, newPassword, confirmPassword string) error {
	var verrs validation.Errors
	if len(newPassword) < minPasswordLength {
		verrs.Add("password", fmt.Sprintf("La contraseña debe tener al menos %d caracteres", minPasswordLength))
	}
	if newPassword != confirmPassword {
		verrs.Add("confirm_password", "Las contraseñas deben coincidir")
	}
	if verrs.HasErrors() {
		return verrs
	}

	email, jti, err := s.tokens.Validate(tokenString, token.PurposePasswordReset, token.DefaultMaxAge)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !user.ResetToken.Valid || user.ResetToken.String != jti {
		return ErrInvalidToken
	}
	if user.ResetTokenExpires.Valid && user.ResetTokenExpires.Time.Before(time.Now()) {
		return ErrInvalidToken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.ResetPassword(ctx, user.ID, string(passwordHash)); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	slog.Info("password_reset", "user_id", user.ID, "email", user.Email)
	return nil
}

// EmailRegistered reports whether an account exists for email. Only exposed
// to the interactive email probe, which serves both the login and the
// registration form.
func (s *Service) EmailRegistered(ctx context.Context, email string) (bool, error) {
	return s.repo.UserExists(ctx, email)
}

// issueConfirmation generates a confirmation token, stores its jti, and
// sends the mail. Storing before sending keeps the link in an already
// delivered mail valid even if a later resend fails midway.
func (s *Service) issueConfirmation(ctx context.Context, user *models.User) error {
	signed, jti, expiresAt, err := s.tokens.Generate(token.PurposeEmailConfirm, user.Email, token.ConfirmMaxAge)
	if err != nil {
		return fmt.Errorf("failed to generate confirmation token: %w", err)
	}
	if err := s.repo.SetConfirmationToken(ctx, user.ID, jti, expiresAt); err != nil {
		return fmt.Errorf("failed to store confirmation token: %w", err)
	}
	return s.mailer.SendConfirmation(ctx, user.Email, signed)
}
