// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"database/sql"
	"time"
)

// Contact states. Every contact is in exactly one of these.
const (
	EstadoAbierto    = "abierto"
	EstadoCerrado    = "cerrado"
	EstadoNoResponde = "no responde"
	EstadoVendido    = "vendido"
)

// SinConyuge is the sentinel stored in ConyugeEdad when the lead has no spouse.
const SinConyuge = "Sin cónyuge"

// Estados lists the valid contact states.
var Estados = []string{EstadoAbierto, EstadoCerrado, EstadoNoResponde, EstadoVendido}

// OpcionesOrigen are the accepted lead origins.
var OpcionesOrigen = []string{"propio", "elegi mejor", "wise", "guardia", "broker"}

// OpcionesCobertura are the accepted current-coverage options. "otros"
// requires a free-text override in CoberturaActualOtra.
var OpcionesCobertura = []string{"smg", "osde", "prevencion", "sancor", "medife", "obra social", "otros"}

// OpcionesPromocion are the accepted reasons for not taking the coverage.
// The empty value means "not specified" and is always allowed.
var OpcionesPromocion = []string{
	"promocion sancor",
	"promocion medicus",
	"promocion omint",
	"promocion prevencion",
	"promocion smg",
	"promocion medife",
	"osde",
	"servicios insatisfactorios",
	"no puede pagarlo",
	"otros prepagos",
}

// OpcionesConyuge are the accepted spouse-status options.
var OpcionesConyuge = []string{"sin conyuge", "con conyuge"}

// OpcionesPrivadoDesregulado are the accepted regulation types.
var OpcionesPrivadoDesregulado = []string{"privado", "desregulado"}

// Contact is one insurance lead, owned by exactly one user. Rows cascade
// away with their owner. Field names follow the Spanish domain vocabulary of
// the capture form and the exported reports.
type Contact struct { //nolint:govet // fieldalignment: readability over optimization
	ID                  int64          `db:"id" json:"id"`
	UserID              int64          `db:"user_id" json:"user_id"`
	Origen              string         `db:"origen" json:"origen"`
	CoberturaActual     string         `db:"cobertura_actual" json:"cobertura_actual"`
	CoberturaActualOtra sql.NullString `db:"cobertura_actual_otra" json:"cobertura_actual_otra"`
	Promocion           string         `db:"promocion" json:"promocion"`
	PrivadoDesregulado  string         `db:"privado_desregulado" json:"privado_desregulado"`
	ApellidoNombre      string         `db:"apellido_nombre" json:"apellido_nombre"`
	CorreoElectronico   string         `db:"correo_electronico" json:"correo_electronico"`
	EdadTitular         string         `db:"edad_titular" json:"edad_titular"`
	Telefono            string         `db:"telefono" json:"telefono"`
	GrupoFamiliar       string         `db:"grupo_familiar" json:"grupo_familiar"`
	PlanOfrecido        string         `db:"plan_ofrecido" json:"plan_ofrecido"`
	Fecha               string         `db:"fecha" json:"fecha"`
	Estado              string         `db:"estado" json:"estado"`
	Observaciones       string         `db:"observaciones" json:"observaciones"`
	Conyuge             string         `db:"conyuge" json:"conyuge"`
	ConyugeEdad         string         `db:"conyuge_edad" json:"conyuge_edad"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
}

// ContactWithOwner joins a contact with its owner's email for admin views
// and the admin export.
type ContactWithOwner struct {
	Contact
	OwnerEmail string `db:"owner_email" json:"owner_email"`
}

// ValidEstado reports whether s is one of the four contact states.
func ValidEstado(s string) bool {
	for _, e := range Estados {
		if s == e {
			return true
		}
	}
	return false
}

// ValidPromocion reports whether s is an accepted promotion value. The empty
// string is valid and means "not specified".
func ValidPromocion(s string) bool {
	if s == "" {
		return true
	}
	for _, p := range OpcionesPromocion {
		if s == p {
			return true
		}
	}
	return false
}
