// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package contacts implements the lead capture and lifecycle operations.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/gestorweb/contactos/internal/models"
	"github.com/gestorweb/contactos/internal/repository"
	"github.com/gestorweb/contactos/internal/validation"
)

var (
	// ErrNotFound covers both a missing contact and one owned by someone
	// else; existence is never leaked across owners.
	ErrNotFound         = errors.New("contact not found")
	ErrInvalidEstado    = errors.New("invalid estado")
	ErrInvalidPromocion = errors.New("invalid promocion")
	// ErrNotClosed is returned when a promotion edit is attempted while the
	// contact is not in the "cerrado" state.
	ErrNotClosed = errors.New("contact is not closed")
)

// Service implements contact operations over the repository.
type Service struct {
	repo *repository.Repository
}

// NewService creates the contacts service.
func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// CreateParams holds the contact form input.
type CreateParams struct {
	Origen              string
	CoberturaActual     string
	CoberturaActualOtra string
	Promocion           string
	PrivadoDesregulado  string
	ApellidoNombre      string
	CorreoElectronico   string
	EdadTitular         string
	Telefono            string
	GrupoFamiliar       string
	PlanOfrecido        string
	Fecha               string
	Estado              string
	Observaciones       string
	Conyuge             string
	ConyugeEdad         string
}

// requiredFields maps form fields to their display labels, in form order.
var requiredFields = []struct {
	field string
	label string
	value func(*CreateParams) string
}{
	{"origen", "Origen", func(p *CreateParams) string { return p.Origen }},
	{"cobertura_actual", "Cobertura Actual", func(p *CreateParams) string { return p.CoberturaActual }},
	{"privado_desregulado", "Privado/Desregulado", func(p *CreateParams) string { return p.PrivadoDesregulado }},
	{"apellido_nombre", "Apellido y nombre", func(p *CreateParams) string { return p.ApellidoNombre }},
	{"correo_electronico", "Correo electrónico", func(p *CreateParams) string { return p.CorreoElectronico }},
	{"edad_titular", "Edad titular", func(p *CreateParams) string { return p.EdadTitular }},
	{"telefono", "Teléfono", func(p *CreateParams) string { return p.Telefono }},
	{"grupo_familiar", "Grupo familiar", func(p *CreateParams) string { return p.GrupoFamiliar }},
	{"plan_ofrecido", "Plan ofrecido", func(p *CreateParams) string { return p.PlanOfrecido }},
	{"fecha", "Fecha", func(p *CreateParams) string { return p.Fecha }},
	{"estado", "Estado", func(p *CreateParams) string { return p.Estado }},
	{"conyuge", "Cónyuge", func(p *CreateParams) string { return p.Conyuge }},
}

func validate(params *CreateParams) validation.Errors {
	var verrs validation.Errors

	for _, rf := range requiredFields {
		if strings.TrimSpace(rf.value(params)) == "" {
			verrs.Add(rf.field, fmt.Sprintf("Por favor complete el campo obligatorio: %s", rf.label))
		}
	}

	if params.Origen != "" && !contains(models.OpcionesOrigen, params.Origen) {
		verrs.Add("origen", "Por favor seleccione un origen válido")
	}
	if params.CoberturaActual != "" && !contains(models.OpcionesCobertura, params.CoberturaActual) {
		verrs.Add("cobertura_actual", "Por favor seleccione una cobertura válida")
	}
	if !models.ValidPromocion(params.Promocion) {
		verrs.Add("promocion", "Por favor seleccione una promoción válida")
	}
	if params.PrivadoDesregulado != "" && !contains(models.OpcionesPrivadoDesregulado, params.PrivadoDesregulado) {
		verrs.Add("privado_desregulado", "Por favor seleccione privado o desregulado")
	}
	if params.Estado != "" && !models.ValidEstado(params.Estado) {
		verrs.Add("estado", "Por favor seleccione un estado válido")
	}
	if params.Conyuge != "" && !contains(models.OpcionesConyuge, params.Conyuge) {
		verrs.Add("conyuge", "Por favor seleccione una opción de cónyuge")
	}

	if params.CorreoElectronico != "" {
		if _, err := mail.ParseAddress(params.CorreoElectronico); err != nil {
			verrs.Add("correo_electronico", "Por favor ingrese un correo electrónico válido")
		}
	}

	// Conditional rules
	if params.CoberturaActual == "otros" && strings.TrimSpace(params.CoberturaActualOtra) == "" {
		verrs.Add("cobertura_actual_otra", "Especifique la otra cobertura")
	}
	if params.Conyuge == "con conyuge" && strings.TrimSpace(params.ConyugeEdad) == "" {
		verrs.Add("conyuge_edad", "Ingrese la edad del cónyuge")
	}

	return verrs
}

// Create validates the form input and stores a new contact owned by user.
// Validation failures come back as a field-level list, one message per field.
func (s *Service) Create(ctx context.Context, user *models.User, params CreateParams) (*models.Contact, error) {
	if verrs := validate(&params); verrs.HasErrors() {
		return nil, verrs
	}

	contact := &models.Contact{
		UserID:             user.ID,
		Origen:             params.Origen,
		CoberturaActual:    params.CoberturaActual,
		Promocion:          params.Promocion,
		PrivadoDesregulado: params.PrivadoDesregulado,
		ApellidoNombre:     params.ApellidoNombre,
		CorreoElectronico:  params.CorreoElectronico,
		EdadTitular:        params.EdadTitular,
		Telefono:           params.Telefono,
		GrupoFamiliar:      params.GrupoFamiliar,
		PlanOfrecido:       params.PlanOfrecido,
		Fecha:              params.Fecha,
		Estado:             params.Estado,
		Observaciones:      params.Observaciones,
		Conyuge:            params.Conyuge,
		ConyugeEdad:        params.ConyugeEdad,
	}
	if params.CoberturaActual == "otros" {
		contact.CoberturaActualOtra.String = strings.TrimSpace(params.CoberturaActualOtra)
		contact.CoberturaActualOtra.Valid = true
	}
	if params.Conyuge != "con conyuge" {
		contact.ConyugeEdad = models.SinConyuge
	}

	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	slog.Info("contact_created", "contact_id", contact.ID, "user_id", user.ID, "estado", contact.Estado)
	return contact, nil
}

// List returns all contacts owned by user, in storage order.
func (s *Service) List(ctx context.Context, user *models.User) ([]models.Contact, error) {
	return s.repo.ListContactsByUser(ctx, user.ID)
}

// ListAll returns every contact with its owner's email. Route-level admin
// gating is the caller's responsibility.
func (s *Service) ListAll(ctx context.Context) ([]models.ContactWithOwner, error) {
	return s.repo.ListAllContacts(ctx)
}

// ChangeEstado moves a contact owned by user to a new state.
func (s *Service) ChangeEstado(ctx context.Context, user *models.User, contactID int64, estado string) error {
	if !models.ValidEstado(estado) {
		return ErrInvalidEstado
	}

	err := s.repo.UpdateContactEstado(ctx, contactID, user.ID, estado)
	if errors.Is(err, repository.ErrNotFound) {
		slog.Warn("estado_change_rejected", "contact_id", contactID, "user_id", user.ID, "reason", "not_found")
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update estado: %w", err)
	}

	slog.Info("estado_changed", "contact_id", contactID, "user_id", user.ID, "estado", estado)
	return nil
}

// ChangePromocion updates the promotion of a contact owned by user.
// Promotions are only editable while the contact is "cerrado".
func (s *Service) ChangePromocion(ctx context.Context, user *models.User, contactID int64, promocion string) error {
	if !models.ValidPromocion(promocion) {
		return ErrInvalidPromocion
	}

	contact, err := s.repo.GetOwnedContact(ctx, contactID, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load contact: %w", err)
	}
	if contact.Estado != models.EstadoCerrado {
		return ErrNotClosed
	}

	if err := s.repo.UpdateContactPromocion(ctx, contactID, user.ID, promocion); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update promocion: %w", err)
	}

	slog.Info("promocion_changed", "contact_id", contactID, "user_id", user.ID, "promocion", promocion)
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
