// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gestorweb/contactos/internal/models"
	"github.com/gestorweb/contactos/internal/report"
	"github.com/gestorweb/contactos/internal/testutil"
)

func TestExportMyContacts(t *testing.T) {
	f := newFixture(t)
	user := testutil.NewTestUser(t, f.repo, "ana@example.com")
	testutil.NewTestContact(t, f.repo, user.ID, models.EstadoVendido)

	c, rec := f.formContext(http.MethodGet, "/exportar_mis_contactos", nil, user)
	require.NoError(t, f.handler.ExportMyContacts(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "mis_contactos_")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()

	sheets := wb.GetSheetList()
	assert.Contains(t, sheets, "Base de Datos")
	assert.Contains(t, sheets, "Resumen Mensual")
	assert.NotContains(t, sheets, "Ranking de Usuarios")
}

func TestExportAllContacts_IncludesRanking(t *testing.T) {
	f := newFixture(t)
	ana := testutil.NewTestUser(t, f.repo, "ana@example.com")
	jorge := testutil.NewTestUser(t, f.repo, "jorge@example.com")
	testutil.NewTestContact(t, f.repo, ana.ID, models.EstadoVendido)
	testutil.NewTestContact(t, f.repo, jorge.ID, models.EstadoAbierto)

	c, rec := f.formContext(http.MethodGet, "/exportar_contactos", nil, ana)
	require.NoError(t, f.handler.ExportAllContacts(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()

	assert.Contains(t, wb.GetSheetList(), "Ranking de Usuarios")

	// Top of the ranking is the seller
	top, err := wb.GetCellValue("Ranking de Usuarios", "B3")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", top)
}

func TestExportMyContactsCSV(t *testing.T) {
	f := newFixture(t)
	user := testutil.NewTestUser(t, f.repo, "ana@example.com")
	testutil.NewTestContact(t, f.repo, user.ID, models.EstadoAbierto)

	c, rec := f.formContext(http.MethodGet, "/exportar_mis_contactos_csv", nil, user)
	require.NoError(t, f.handler.ExportMyContactsCSV(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")

	records, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, report.Headers(report.Options{}), records[0])
}
