// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gestorweb/contactos/internal/auth"
	"github.com/gestorweb/contactos/internal/i18n"
	"github.com/gestorweb/contactos/internal/models"
	"github.com/gestorweb/contactos/internal/services/contacts"
)

// formOptions are the select-field option lists the capture form renders.
var formOptions = echo.Map{
	"origen":              models.OpcionesOrigen,
	"cobertura_actual":    models.OpcionesCobertura,
	"promocion":           models.OpcionesPromocion,
	"privado_desregulado": models.OpcionesPrivadoDesregulado,
	"conyuge":             models.OpcionesConyuge,
	"estado":              models.Estados,
}

// ListContacts returns the authenticated user's contacts plus the option
// lists for the capture form.
func (h *Handler) ListContacts(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())

	list, err := h.contacts.List(c.Request().Context(), user)
	if err != nil {
		slog.Error("list_contacts_failed", "user_id", user.ID, "error", err)
		return fail(c, http.StatusInternalServerError, "server_error")
	}
	return ok(c, "", echo.Map{
		"contacts": list,
		"opciones": formOptions,
	})
}

// CreateContact stores a new contact owned by the authenticated user.
func (h *Handler) CreateContact(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())

	params := contacts.CreateParams{
		Origen:              c.FormValue("origen"),
		CoberturaActual:     c.FormValue("cobertura_actual"),
		CoberturaActualOtra: c.FormValue("cobertura_actual_otra"),
		Promocion:           c.FormValue("promocion"),
		PrivadoDesregulado:  c.FormValue("privado_desregulado"),
		ApellidoNombre:      strings.TrimSpace(c.FormValue("apellido_nombre")),
		CorreoElectronico:   strings.TrimSpace(c.FormValue("correo_electronico")),
		EdadTitular:         strings.TrimSpace(c.FormValue("edad_titular")),
		Telefono:            strings.TrimSpace(c.FormValue("telefono")),
		GrupoFamiliar:       strings.TrimSpace(c.FormValue("grupo_familiar")),
		PlanOfrecido:        strings.TrimSpace(c.FormValue("plan_ofrecido")),
		Fecha:               strings.TrimSpace(c.FormValue("fecha")),
		Estado:              c.FormValue("estado"),
		Observaciones:       strings.TrimSpace(c.FormValue("observaciones")),
		Conyuge:             c.FormValue("conyuge"),
		ConyugeEdad:         strings.TrimSpace(c.FormValue("conyuge_edad")),
	}

	contact, err := h.contacts.Create(c.Request().Context(), user, params)
	if err != nil {
		if verrs, isValidation := asValidation(err); isValidation {
			return fieldErrors(c, verrs)
		}
		slog.Error("create_contact_failed", "user_id", user.ID, "error", err)
		return fail(c, http.StatusInternalServerError, "contact_create_failed")
	}

	return respond(c, http.StatusCreated, true, "contact_created", echo.Map{
		"contact": contact,
	})
}

// AdminContacts returns every contact with its owner. Admin only.
func (h *Handler) AdminContacts(c echo.Context) error {
	list, err := h.contacts.ListAll(c.Request().Context())
	if err != nil {
		slog.Error("admin_contacts_failed", "error", err)
		return fail(c, http.StatusInternalServerError, "server_error")
	}
	return ok(c, "", echo.Map{"contacts": list})
}

// ChangeEstado moves one of the user's contacts to a new state.
func (h *Handler) ChangeEstado(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())

	contactID, err := strconv.ParseInt(c.FormValue("contact_id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "contact_not_found")
	}
	estado := c.FormValue("estado")

	err = h.contacts.ChangeEstado(c.Request().Context(), user, contactID, estado)
	if err != nil {
		switch {
		case errors.Is(err, contacts.ErrInvalidEstado):
			return fail(c, http.StatusBadRequest, "contact_invalid_estado")
		case errors.Is(err, contacts.ErrNotFound):
			return fail(c, http.StatusNotFound, "contact_not_found")
		default:
			slog.Error("change_estado_failed", "user_id", user.ID, "error", err)
			return fail(c, http.StatusInternalServerError, "contact_estado_failed")
		}
	}

	message := i18n.TData(c.Request().Context(), "contact_estado_updated", map[string]any{"Estado": estado})
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": message,
		"estado":  estado,
	})
}

// ChangePromocion updates the promotion of one of the user's closed contacts.
func (h *Handler) ChangePromocion(c echo.Context) error {
	user := auth.GetUser(c.Request().Context())

	contactID, err := strconv.ParseInt(c.FormValue("contact_id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "contact_not_found")
	}
	promocion := c.FormValue("promocion")

	err = h.contacts.ChangePromocion(c.Request().Context(), user, contactID, promocion)
	if err != nil {
		switch {
		case errors.Is(err, contacts.ErrInvalidPromocion):
			return fail(c, http.StatusBadRequest, "contact_invalid_promocion")
		case errors.Is(err, contacts.ErrNotClosed):
			return fail(c, http.StatusBadRequest, "contact_promocion_not_closed")
		case errors.Is(err, contacts.ErrNotFound):
			return fail(c, http.StatusNotFound, "contact_not_found")
		default:
			slog.Error("change_promocion_failed", "user_id", user.ID, "error", err)
			return fail(c, http.StatusInternalServerError, "server_error")
		}
	}
	return ok(c, "contact_promocion_updated", echo.Map{"promocion": promocion})
}

// VerifyEmail is the interactive probe behind the login and registration
// forms. The contexto field decides which way an existing account reads:
// valid for login, taken for registration.
func (h *Handler) VerifyEmail(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	contexto := c.FormValue("contexto")

	if email == "" {
		return respond(c, http.StatusOK, false, "email_required", echo.Map{"valid": false})
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return respond(c, http.StatusOK, false, "email_invalid_format", echo.Map{"valid": false})
	}

	exists, err := h.auth.EmailRegistered(c.Request().Context(), email)
	if err != nil {
		slog.Error("verify_email_failed", "error", err)
		return fail(c, http.StatusInternalServerError, "server_error")
	}

	if contexto == "registro" {
		if exists {
			return respond(c, http.StatusOK, false, "email_taken", echo.Map{"valid": false})
		}
		return respond(c, http.StatusOK, true, "email_available", echo.Map{"valid": true})
	}
	if exists {
		return respond(c, http.StatusOK, true, "email_valid", echo.Map{"valid": true})
	}
	return respond(c, http.StatusOK, false, "email_not_registered", echo.Map{"valid": false})
}
