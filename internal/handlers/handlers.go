// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP handlers. They translate between the
// JSON/form surface and the services, and own nothing but that translation.
package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gestorweb/contactos/internal/i18n"
	"github.com/gestorweb/contactos/internal/services/auth"
	"github.com/gestorweb/contactos/internal/services/contacts"
	"github.com/gestorweb/contactos/internal/services/session"
	"github.com/gestorweb/contactos/internal/validation"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	auth     *auth.Service
	contacts *contacts.Service
	sessions *session.Manager
}

// New creates the handler set.
func New(authSvc *auth.Service, contactsSvc *contacts.Service, sessions *session.Manager) *Handler {
	return &Handler{auth: authSvc, contacts: contactsSvc, sessions: sessions}
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// respond is the common JSON envelope.
func respond(c echo.Context, status int, success bool, messageID string, extra echo.Map) error {
	body := echo.Map{"success": success}
	if messageID != "" {
		body["message"] = i18n.T(c.Request().Context(), messageID)
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.JSON(status, body)
}

func ok(c echo.Context, messageID string, extra echo.Map) error {
	return respond(c, http.StatusOK, true, messageID, extra)
}

func fail(c echo.Context, status int, messageID string) error {
	return respond(c, status, false, messageID, nil)
}

// fieldErrors renders a validation failure as a per-field error list.
func fieldErrors(c echo.Context, verrs validation.Errors) error {
	return respond(c, http.StatusUnprocessableEntity, false, "", echo.Map{"errors": verrs})
}

// asValidation unwraps a validation error list if err carries one.
func asValidation(err error) (validation.Errors, bool) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}
