// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gestorweb/contactos/internal/services/auth"
)

// Register creates a new account gated by the community password.
func (h *Handler) Register(c echo.Context) error {
	params := auth.RegisterParams{
		Email:             strings.TrimSpace(c.FormValue("email")),
		Password:          c.FormValue("password"),
		ConfirmPassword:   c.FormValue("confirm_password"),
		CommunityPassword: c.FormValue("community_password"),
		AcceptTerms:       formBool(c.FormValue("accept_terms")),
	}

	result, err := h.auth.Register(c.Request().Context(), params)
	if err != nil {
		if verrs, isValidation := asValidation(err); isValidation {
			return fieldErrors(c, verrs)
		}
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			return fail(c, http.StatusConflict, "register_email_taken")
		case errors.Is(err, auth.ErrServerConfig):
			return fail(c, http.StatusInternalServerError, "server_error")
		default:
			slog.Error("register_handler_error", "error", err)
			return fail(c, http.StatusInternalServerError, "register_failed")
		}
	}

	messageID := "register_success"
	if result.User.IsAdmin {
		messageID = "register_admin_success"
	}
	if !result.EmailSent {
		messageID = "register_email_warning"
	}
	return respond(c, http.StatusCreated, true, messageID, echo.Map{
		"email":      result.User.Email,
		"email_sent": result.EmailSent,
	})
}

// Login authenticates and issues the session cookie.
func (h *Handler) Login(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")
	remember := formBool(c.FormValue("remember"))

	user, err := h.auth.Login(c.Request().Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return fail(c, http.StatusUnauthorized, "login_invalid")
		case errors.Is(err, auth.ErrEmailNotConfirmed):
			return fail(c, http.StatusForbidden, "login_unconfirmed")
		default:
			slog.Error("login_handler_error", "error", err)
			return fail(c, http.StatusInternalServerError, "login_failed")
		}
	}

	cookie, err := h.sessions.Create(user.ID, user.Email, user.IsAdmin, remember)
	if err != nil {
		slog.Error("session_create_failed", "user_id", user.ID, "error", err)
		return fail(c, http.StatusInternalServerError, "login_failed")
	}
	c.SetCookie(cookie)

	return ok(c, "", echo.Map{
		"email":    user.Email,
		"is_admin": user.IsAdmin,
	})
}

// Logout clears the session cookie.
func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.Clear())
	return ok(c, "", nil)
}

// Confirm marks the account behind the confirmation token as confirmed.
func (h *Handler) Confirm(c echo.Context) error {
	err := h.auth.ConfirmEmail(c.Request().Context(), c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAlreadyConfirmed):
			return ok(c, "confirm_already", nil)
		case errors.Is(err, auth.ErrInvalidToken):
			return fail(c, http.StatusBadRequest, "confirm_invalid")
		default:
			slog.Error("confirm_handler_error", "error", err)
			return fail(c, http.StatusInternalServerError, "server_error")
		}
	}
	return ok(c, "confirm_success", nil)
}

// ResendConfirmation issues a fresh confirmation mail. Unknown emails get
// the success message too, so the endpoint cannot be probed.
func (h *Handler) ResendConfirmation(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))

	err := h.auth.ResendConfirmation(c.Request().Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			return ok(c, "resend_success", nil)
		case errors.Is(err, auth.ErrAlreadyConfirmed):
			return ok(c, "confirm_already", nil)
		case errors.Is(err, auth.ErrDeliveryFailed):
			return fail(c, http.StatusInternalServerError, "resend_failed")
		default:
			slog.Error("resend_handler_error", "error", err)
			return fail(c, http.StatusInternalServerError, "server_error")
		}
	}
	return ok(c, "resend_success", nil)
}

// ForgotPassword starts the reset flow. The response never reveals whether
// the email exists.
func (h *Handler) ForgotPassword(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))

	if err := h.auth.ForgotPassword(c.Request().Context(), email); err != nil {
		slog.Error("forgot_password_handler_error", "error", err)
		return fail(c, http.StatusInternalServerError, "server_error")
	}
	return ok(c, "forgot_password_generic", nil)
}

// ResetPassword replaces the password behind a valid reset token.
func (h *Handler) ResetPassword(c echo.Context) error {
	err := h.auth.ResetPassword(
		c.Request().Context(),
		c.Param("token"),
		c.FormValue("password"),
		c.FormValue("confirm_password"),
	)
	if err != nil {
		if verrs, isValidation := asValidation(err); isValidation {
			return fieldErrors(c, verrs)
		}
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			return fail(c, http.StatusBadRequest, "reset_invalid")
		default:
			slog.Error("reset_handler_error", "error", err)
			return fail(c, http.StatusInternalServerError, "reset_failed")
		}
	}
	return ok(c, "reset_success", nil)
}

func formBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes", "y":
		return true
	}
	return false
}
