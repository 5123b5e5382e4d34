// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/vinovest/sqlx"

	"github.com/gestorweb/contactos/internal/models"
)

// CreateContact inserts a new contact owned by contact.UserID. The insert and
// the read-back of the row defaults run in one transaction.
func (r *Repository) CreateContact(ctx context.Context, contact *models.Contact) error {
	return r.InTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO contacts (
				user_id, origen, cobertura_actual, cobertura_actual_otra, promocion,
				privado_desregulado, apellido_nombre, correo_electronico, edad_titular,
				telefono, grupo_familiar, plan_ofrecido, fecha, estado, observaciones,
				conyuge, conyuge_edad
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			contact.UserID, contact.Origen, contact.CoberturaActual, contact.CoberturaActualOtra,
			contact.Promocion, contact.PrivadoDesregulado, contact.ApellidoNombre,
			contact.CorreoElectronico, contact.EdadTitular, contact.Telefono,
			contact.GrupoFamiliar, contact.PlanOfrecido, contact.Fecha, contact.Estado,
			contact.Observaciones, contact.Conyuge, contact.ConyugeEdad)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		contact.ID = id
		return tx.GetContext(ctx, contact, `SELECT * FROM contacts WHERE id = ?`, id)
	})
}

// GetContact retrieves a contact by ID regardless of owner.
func (r *Repository) GetContact(ctx context.Context, id int64) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.GetContext(ctx, &contact, `SELECT * FROM contacts WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &contact, nil
}

// GetOwnedContact retrieves a contact only if it belongs to userID. A contact
// owned by someone else surfaces as ErrNotFound, never as a permission error.
func (r *Repository) GetOwnedContact(ctx context.Context, id, userID int64) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.GetContext(ctx, &contact,
		`SELECT * FROM contacts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &contact, nil
}

// ListContactsByUser returns all contacts owned by userID in storage order.
func (r *Repository) ListContactsByUser(ctx context.Context, userID int64) ([]models.Contact, error) {
	contacts := []models.Contact{}
	err := r.db.SelectContext(ctx, &contacts,
		`SELECT * FROM contacts WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// ListAllContacts returns every contact joined with its owner's email.
func (r *Repository) ListAllContacts(ctx context.Context) ([]models.ContactWithOwner, error) {
	contacts := []models.ContactWithOwner{}
	err := r.db.SelectContext(ctx, &contacts,
		`SELECT c.*, u.email AS owner_email
		 FROM contacts c JOIN users u ON u.id = c.user_id`)
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// UpdateContactEstado persists a state change for a contact owned by userID.
func (r *Repository) UpdateContactEstado(ctx context.Context, id, userID int64, estado string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET estado = ? WHERE id = ? AND user_id = ?`,
		estado, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateContactPromocion persists a promotion change for a contact owned by
// userID.
func (r *Repository) UpdateContactPromocion(ctx context.Context, id, userID int64, promocion string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET promocion = ? WHERE id = ? AND user_id = ?`,
		promocion, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountContactsByUser returns how many contacts userID owns.
func (r *Repository) CountContactsByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM contacts WHERE user_id = ?`, userID)
	if err != nil {
		return 0, err
	}
	return count, nil
}
