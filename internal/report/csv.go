// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/gestorweb/contactos/internal/models"
)

// WriteCSV streams the contacts as CSV with the same columns and order as
// the spreadsheet's data sheet.
func WriteCSV(w io.Writer, rows []models.ContactWithOwner, opts Options) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Headers(opts)); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for i := range rows {
		if err := cw.Write(Record(&rows[i], opts)); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSVFilename returns the CSV export file name with the timestamp embedded.
func CSVFilename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, now.Format("20060102_150405"))
}
