// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gestorweb/contactos/internal/auth"
	"github.com/gestorweb/contactos/internal/models"
	"github.com/gestorweb/contactos/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportAllContacts streams the full database as a styled spreadsheet with
// the owner column and the user ranking. Admin only.
func (h *Handler) ExportAllContacts(c echo.Context) error {
	rows, err := h.contacts.ListAll(c.Request().Context())
	if err != nil {
		slog.Error("export_all_failed", "error", err)
		return fail(c, http.StatusInternalServerError, "server_error")
	}
	return h.writeWorkbook(c, rows, report.Options{IncludeOwner: true}, "contactos")
}

// ExportMyContacts streams the user's own contacts as a spreadsheet.
func (h *Handler) ExportMyContacts(c echo.Context) error {
	rows, err := h.ownRows(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "server_error")
	}
	return h.writeWorkbook(c, rows, report.Options{}, "mis_contactos")
}

// ExportMyContactsCSV is the plain-text fallback for the user's own
// contacts, same columns and order as the spreadsheet.
func (h *Handler) ExportMyContactsCSV(c echo.Context) error {
	rows, err := h.ownRows(c)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "server_error")
	}

	filename := report.CSVFilename("mis_contactos", time.Now())
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)

	if err := report.WriteCSV(c.Response().Writer, rows, report.Options{}); err != nil {
		slog.Error("export_csv_failed", "error", err)
		return err
	}
	return nil
}

func (h *Handler) ownRows(c echo.Context) ([]models.ContactWithOwner, error) {
	user := auth.GetUser(c.Request().Context())

	list, err := h.contacts.List(c.Request().Context(), user)
	if err != nil {
		slog.Error("export_list_failed", "user_id", user.ID, "error", err)
		return nil, err
	}

	rows := make([]models.ContactWithOwner, len(list))
	for i, contact := range list {
		rows[i] = models.ContactWithOwner{Contact: contact, OwnerEmail: user.Email}
	}
	return rows, nil
}

func (h *Handler) writeWorkbook(c echo.Context, rows []models.ContactWithOwner, opts report.Options, prefix string) error {
	f, err := report.Workbook(rows, opts)
	if err != nil {
		slog.Error("export_build_failed", "error", err)
		return fail(c, http.StatusInternalServerError, "server_error")
	}
	defer f.Close()

	filename := report.Filename(prefix, time.Now())
	c.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)

	if err := f.Write(c.Response().Writer); err != nil {
		slog.Error("export_write_failed", "error", err)
		return err
	}
	return nil
}
