// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gestorweb/contactos/internal/models"
)

const (
	sheetData    = "Base de Datos"
	sheetSummary = "Resumen Mensual"
	sheetStats   = "Estadísticas de Campos"
	sheetRanking = "Ranking de Usuarios"
)

// styles holds the style IDs registered on one workbook.
type styles struct {
	title     int
	header    int
	monthBand int
	cell      int
	abierto   int
	cerrado   int
	vendido   int
	gold      int
	silver    int
	bronze    int
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "D9D9D9", Style: 1},
	{Type: "right", Color: "D9D9D9", Style: 1},
	{Type: "top", Color: "D9D9D9", Style: 1},
	{Type: "bottom", Color: "D9D9D9", Style: 1},
}

func fillStyle(f *excelize.File, fill, fontColor string, bold bool) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		Font:      &excelize.Font{Bold: bold, Color: fontColor, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorder,
	})
}

func newStyles(f *excelize.File) (*styles, error) {
	st := &styles{}
	var err error

	st.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: "1F4E78"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	if st.header, err = fillStyle(f, "1F4E78", "FFFFFF", true); err != nil {
		return nil, err
	}
	if st.monthBand, err = fillStyle(f, "E2EFDA", "1F4E78", true); err != nil {
		return nil, err
	}
	st.cell, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		Border:    thinBorder,
	})
	if err != nil {
		return nil, err
	}
	if st.abierto, err = fillStyle(f, "C6EFCE", "006100", false); err != nil {
		return nil, err
	}
	if st.cerrado, err = fillStyle(f, "FFC7CE", "9C0006", false); err != nil {
		return nil, err
	}
	if st.vendido, err = fillStyle(f, "BDD7EE", "1F4E78", false); err != nil {
		return nil, err
	}
	if st.gold, err = fillStyle(f, "FFD700", "7F6000", true); err != nil {
		return nil, err
	}
	if st.silver, err = fillStyle(f, "C0C0C0", "404040", true); err != nil {
		return nil, err
	}
	if st.bronze, err = fillStyle(f, "CD7F32", "FFFFFF", true); err != nil {
		return nil, err
	}
	return st, nil
}

func (st *styles) estado(estado string) (int, bool) {
	switch estado {
	case models.EstadoAbierto:
		return st.abierto, true
	case models.EstadoCerrado:
		return st.cerrado, true
	case models.EstadoVendido:
		return st.vendido, true
	}
	return 0, false
}

// Workbook renders the contacts into a styled spreadsheet. The caller owns
// the returned file and must Close it.
func Workbook(rows []models.ContactWithOwner, opts Options) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetData); err != nil {
		return nil, fmt.Errorf("renaming data sheet: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("registering styles: %w", err)
	}

	if err := writeDataSheet(f, st, rows, opts); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, st, rows); err != nil {
		return nil, err
	}
	if err := writeStatsSheet(f, st, rows); err != nil {
		return nil, err
	}
	if opts.IncludeOwner {
		if err := writeRankingSheet(f, st, rows); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func setRow(f *excelize.File, sheet string, row int, values []string, style int) error {
	for col, v := range values {
		cell := cellName(col+1, row)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
		}
	}
	if len(values) > 0 {
		if err := f.SetCellStyle(sheet, cellName(1, row), cellName(len(values), row), style); err != nil {
			return fmt.Errorf("styling row %d of %s: %w", row, sheet, err)
		}
	}
	return nil
}

// writeDataSheet emits the raw contacts grouped by load month. Each month is
// a band row followed by its own column-header row and the contact rows, with
// the estado column colored by state.
func writeDataSheet(f *excelize.File, st *styles, rows []models.ContactWithOwner, opts Options) error {
	headers := Headers(opts)
	lastCol := len(headers)
	estadoCol := 12 // "Estado" position in the fixed column order

	if err := f.SetCellValue(sheetData, "A1", "Base de Datos de Contactos"); err != nil {
		return err
	}
	if err := f.MergeCell(sheetData, "A1", cellName(lastCol, 1)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetData, "A1", cellName(lastCol, 1), st.title); err != nil {
		return err
	}

	widths := make([]int, lastCol)
	for i, h := range headers {
		widths[i] = len([]rune(h))
	}

	row := 2
	for _, group := range GroupByMonth(rows) {
		if err := f.SetCellValue(sheetData, cellName(1, row), group.Label); err != nil {
			return err
		}
		if err := f.MergeCell(sheetData, cellName(1, row), cellName(lastCol, row)); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetData, cellName(1, row), cellName(lastCol, row), st.monthBand); err != nil {
			return err
		}
		row++

		if err := setRow(f, sheetData, row, headers, st.header); err != nil {
			return err
		}
		row++

		for i := range group.Contacts {
			rec := Record(&group.Contacts[i], opts)
			if err := setRow(f, sheetData, row, rec, st.cell); err != nil {
				return err
			}
			if style, ok := st.estado(group.Contacts[i].Estado); ok {
				cell := cellName(estadoCol, row)
				if err := f.SetCellStyle(sheetData, cell, cell, style); err != nil {
					return err
				}
			}
			for i, v := range rec {
				if n := len([]rune(v)); n > widths[i] {
					widths[i] = n
				}
			}
			row++
		}
	}

	for i, w := range widths {
		colWidth := float64(w) + 4
		if colWidth > 40 {
			colWidth = 40
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetData, col, col, colWidth); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, st *styles, rows []models.ContactWithOwner) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}

	if err := f.SetCellValue(sheetSummary, "A1", "Resumen Mensual"); err != nil {
		return err
	}
	if err := f.MergeCell(sheetSummary, "A1", "F1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetSummary, "A1", "F1", st.title); err != nil {
		return err
	}

	headers := []string{"Mes", "Total", "Vendidos", "Abiertos", "Cerrados", "Tasa de venta"}
	if err := setRow(f, sheetSummary, 2, headers, st.header); err != nil {
		return err
	}

	row := 3
	for _, s := range MonthlySummaries(rows) {
		rec := []string{
			s.Mes,
			fmt.Sprintf("%d", s.Total),
			fmt.Sprintf("%d", s.Vendidos),
			fmt.Sprintf("%d", s.Abiertos),
			fmt.Sprintf("%d", s.Cerrados),
			s.Tasa,
		}
		if err := setRow(f, sheetSummary, row, rec, st.cell); err != nil {
			return err
		}
		row++
	}

	if err := f.SetColWidth(sheetSummary, "A", "A", 22); err != nil {
		return err
	}
	return f.SetColWidth(sheetSummary, "B", "F", 14)
}

func writeStatsSheet(f *excelize.File, st *styles, rows []models.ContactWithOwner) error {
	if _, err := f.NewSheet(sheetStats); err != nil {
		return err
	}

	if err := f.SetCellValue(sheetStats, "A1", "Estadísticas de Campos"); err != nil {
		return err
	}
	if err := f.MergeCell(sheetStats, "A1", "C1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetStats, "A1", "C1", st.title); err != nil {
		return err
	}

	dists := FieldDistributions(rows)
	row := 3
	for _, field := range StatFieldNames() {
		if err := f.SetCellValue(sheetStats, cellName(1, row), field); err != nil {
			return err
		}
		if err := f.MergeCell(sheetStats, cellName(1, row), cellName(3, row)); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetStats, cellName(1, row), cellName(3, row), st.monthBand); err != nil {
			return err
		}
		row++

		if err := setRow(f, sheetStats, row, []string{"Valor", "Cantidad", "Porcentaje"}, st.header); err != nil {
			return err
		}
		row++

		for _, stat := range dists[field] {
			rec := []string{stat.Opcion, fmt.Sprintf("%d", stat.Cantidad), stat.Porcentaje}
			if err := setRow(f, sheetStats, row, rec, st.cell); err != nil {
				return err
			}
			row++
		}
		row++ // blank separator between fields
	}

	if err := f.SetColWidth(sheetStats, "A", "A", 36); err != nil {
		return err
	}
	return f.SetColWidth(sheetStats, "B", "C", 14)
}

func writeRankingSheet(f *excelize.File, st *styles, rows []models.ContactWithOwner) error {
	if _, err := f.NewSheet(sheetRanking); err != nil {
		return err
	}

	if err := f.SetCellValue(sheetRanking, "A1", "Ranking de Usuarios"); err != nil {
		return err
	}
	if err := f.MergeCell(sheetRanking, "A1", "E1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetRanking, "A1", "E1", st.title); err != nil {
		return err
	}

	headers := []string{"Puesto", "Usuario", "Vendidos", "Total cargados", "Tasa de venta"}
	if err := setRow(f, sheetRanking, 2, headers, st.header); err != nil {
		return err
	}

	podium := []int{st.gold, st.silver, st.bronze}
	row := 3
	for i, r := range UserRanking(rows) {
		rec := []string{
			fmt.Sprintf("%d", i+1),
			r.Email,
			fmt.Sprintf("%d", r.Vendidos),
			fmt.Sprintf("%d", r.Total),
			r.Tasa,
		}
		style := st.cell
		if i < len(podium) {
			style = podium[i]
		}
		if err := setRow(f, sheetRanking, row, rec, style); err != nil {
			return err
		}
		row++
	}

	if err := f.SetColWidth(sheetRanking, "B", "B", 34); err != nil {
		return err
	}
	return f.SetColWidth(sheetRanking, "C", "E", 16)
}
