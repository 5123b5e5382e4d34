// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package report builds the spreadsheet exports: raw data grouped by load
// month, the monthly summary, the field-value distributions, and (for the
// admin export) the user ranking.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/gestorweb/contactos/internal/models"
)

// Options selects between the per-user export and the admin export, which
// adds the owner column and the user-ranking sheet.
type Options struct {
	IncludeOwner bool
}

// baseHeaders is the exported column order. The admin export appends
// "Usuario cargador".
var baseHeaders = []string{
	"Origen",
	"Cobertura Actual",
	"¿Por qué no toma la cobertura?",
	"Privado/Desregulado",
	"Apellido y nombre",
	"Correo electrónico",
	"Edad titular",
	"Teléfono",
	"Grupo familiar",
	"Plan ofrecido",
	"Fecha",
	"Estado",
	"Observaciones",
	"Cónyuge",
	"Edad cónyuge",
	"Fecha de carga",
}

// Headers returns the column headers for the given options.
func Headers(opts Options) []string {
	if !opts.IncludeOwner {
		return baseHeaders
	}
	headers := make([]string, 0, len(baseHeaders)+1)
	headers = append(headers, baseHeaders...)
	return append(headers, "Usuario cargador")
}

// Filename returns the export file name with the timestamp embedded.
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("20060102_150405"))
}

// Normalize trims the value, lower-cases it, and capitalizes the first
// letter, so "obra social" and "OBRA SOCIAL" export identically.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// CoberturaValue resolves the exported coverage: a contact captured with
// "otros" exports its free-text override, never the literal "otros".
func CoberturaValue(c *models.Contact) string {
	if c.CoberturaActual == "otros" && c.CoberturaActualOtra.Valid {
		return Normalize(c.CoberturaActualOtra.String)
	}
	return c.CoberturaActual
}

// PromocionValue resolves the exported promotion, with a placeholder for
// unspecified ones.
func PromocionValue(c *models.Contact) string {
	if c.Promocion == "" {
		return "No especificado"
	}
	return Normalize(c.Promocion)
}

// Record renders one contact into the exported column order.
func Record(c *models.ContactWithOwner, opts Options) []string {
	rec := []string{
		Normalize(c.Origen),
		CoberturaValue(&c.Contact),
		PromocionValue(&c.Contact),
		c.PrivadoDesregulado,
		c.ApellidoNombre,
		c.CorreoElectronico,
		c.EdadTitular,
		c.Telefono,
		c.GrupoFamiliar,
		c.PlanOfrecido,
		c.Fecha,
		c.Estado,
		c.Observaciones,
		c.Conyuge,
		c.ConyugeEdad,
		c.CreatedAt.Format("02/01/2006"),
	}
	if opts.IncludeOwner {
		rec = append(rec, c.OwnerEmail)
	}
	return rec
}

// MonthGroup is one calendar month of contacts, in load order.
type MonthGroup struct {
	Label    string // e.g. "March 2025"
	Contacts []models.ContactWithOwner
}

// GroupByMonth buckets contacts by calendar month of their load date, in
// chronological order.
func GroupByMonth(rows []models.ContactWithOwner) []MonthGroup {
	byMonth := map[time.Time][]models.ContactWithOwner{}
	for _, c := range rows {
		key := time.Date(c.CreatedAt.Year(), c.CreatedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
		byMonth[key] = append(byMonth[key], c)
	}

	keys := make([]time.Time, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	groups := make([]MonthGroup, 0, len(keys))
	for _, k := range keys {
		contacts := byMonth[k]
		sort.SliceStable(contacts, func(i, j int) bool {
			return contacts[i].CreatedAt.Before(contacts[j].CreatedAt)
		})
		groups = append(groups, MonthGroup{
			Label:    k.Format("January 2006"),
			Contacts: contacts,
		})
	}
	return groups
}

// MonthSummary is one row of the "Resumen Mensual" sheet.
type MonthSummary struct {
	Mes      string
	Total    int
	Vendidos int
	Abiertos int
	Cerrados int
	Tasa     string // sold/total, one decimal, "0.0%" on empty months
}

// MonthlySummaries computes the per-month totals.
func MonthlySummaries(rows []models.ContactWithOwner) []MonthSummary {
	groups := GroupByMonth(rows)
	summaries := make([]MonthSummary, 0, len(groups))
	for _, g := range groups {
		s := MonthSummary{Mes: g.Label, Total: len(g.Contacts)}
		for _, c := range g.Contacts {
			switch c.Estado {
			case models.EstadoVendido:
				s.Vendidos++
			case models.EstadoAbierto:
				s.Abiertos++
			case models.EstadoCerrado:
				s.Cerrados++
			}
		}
		s.Tasa = Percentage(s.Vendidos, s.Total)
		summaries = append(summaries, s)
	}
	return summaries
}

// Percentage formats count/total with one decimal. Zero total is 0%, never
// a division by zero.
func Percentage(count, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100)
}

// FieldStat is one row of the "Estadísticas de Campos" sheet.
type FieldStat struct {
	Campo      string
	Opcion     string
	Cantidad   int
	Porcentaje string
}

// statFields are the categorical columns analyzed in the distribution
// sheet, with the accessor producing the exported value.
var statFields = []struct {
	name  string
	value func(*models.ContactWithOwner) string
}{
	{"Origen", func(c *models.ContactWithOwner) string { return Normalize(c.Origen) }},
	{"Cobertura Actual", func(c *models.ContactWithOwner) string { return CoberturaValue(&c.Contact) }},
	{"¿Por qué no toma la cobertura?", func(c *models.ContactWithOwner) string { return PromocionValue(&c.Contact) }},
	{"Privado/Desregulado", func(c *models.ContactWithOwner) string { return c.PrivadoDesregulado }},
	{"Estado", func(c *models.ContactWithOwner) string { return c.Estado }},
}

// FieldDistributions counts each observed value of the fixed categorical
// fields, most frequent first. Percentages are against all contacts.
func FieldDistributions(rows []models.ContactWithOwner) map[string][]FieldStat {
	total := len(rows)
	out := make(map[string][]FieldStat, len(statFields))

	for _, sf := range statFields {
		counts := map[string]int{}
		for i := range rows {
			counts[sf.value(&rows[i])]++
		}

		stats := make([]FieldStat, 0, len(counts))
		for opcion, cantidad := range counts {
			stats = append(stats, FieldStat{
				Campo:      sf.name,
				Opcion:     opcion,
				Cantidad:   cantidad,
				Porcentaje: Percentage(cantidad, total),
			})
		}
		sort.Slice(stats, func(i, j int) bool {
			if stats[i].Cantidad != stats[j].Cantidad {
				return stats[i].Cantidad > stats[j].Cantidad
			}
			return stats[i].Opcion < stats[j].Opcion
		})
		out[sf.name] = stats
	}
	return out
}

// StatFieldNames returns the analyzed field names in sheet order.
func StatFieldNames() []string {
	names := make([]string, len(statFields))
	for i, sf := range statFields {
		names[i] = sf.name
	}
	return names
}

// UserRank is one row of the admin "Ranking de Usuarios" sheet.
type UserRank struct {
	Email    string
	Total    int
	Vendidos int
	Tasa     string
}

// UserRanking ranks loading users by sold contacts, descending. Ties break
// by total loaded, then email, so the order is stable.
func UserRanking(rows []models.ContactWithOwner) []UserRank {
	type agg struct{ total, vendidos int }
	byUser := map[string]*agg{}
	for _, c := range rows {
		a := byUser[c.OwnerEmail]
		if a == nil {
			a = &agg{}
			byUser[c.OwnerEmail] = a
		}
		a.total++
		if c.Estado == models.EstadoVendido {
			a.vendidos++
		}
	}

	ranks := make([]UserRank, 0, len(byUser))
	for email, a := range byUser {
		ranks = append(ranks, UserRank{
			Email:    email,
			Total:    a.total,
			Vendidos: a.vendidos,
			Tasa:     Percentage(a.vendidos, a.total),
		})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Vendidos != ranks[j].Vendidos {
			return ranks[i].Vendidos > ranks[j].Vendidos
		}
		if ranks[i].Total != ranks[j].Total {
			return ranks[i].Total > ranks[j].Total
		}
		return ranks[i].Email < ranks[j].Email
	})
	return ranks
}
