// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/vinovest/sqlx"

	"github.com/gestorweb/contactos/internal/models"
)

// CreateUser inserts a new user and fills in its ID and creation time. The
// insert and the read-back of the row defaults run in one transaction.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.InTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO users (email, password_hash, is_admin) VALUES (?, ?, ?)`,
			user.Email, user.PasswordHash, user.IsAdmin)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		user.ID = id
		return tx.GetContext(ctx, user, `SELECT * FROM users WHERE id = ?`, id)
	})
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = ?`, email); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// UserExists checks if a user with the given email exists.
func (r *Repository) UserExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE email = ?`, email); err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetConfirmationToken stores the jti and expiry of a freshly issued
// confirmation token, replacing any previous one.
func (r *Repository) SetConfirmationToken(ctx context.Context, userID int64, jti string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET confirmation_token = ?, confirmation_token_expires = ? WHERE id = ?`,
		jti, expiresAt, userID)
	return err
}

// ConfirmEmail marks the user's email as confirmed and clears the stored
// confirmation token so it cannot be replayed.
func (r *Repository) ConfirmEmail(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET email_confirmed = TRUE, email_confirmed_at = ?,
		     confirmation_token = NULL, confirmation_token_expires = NULL
		 WHERE id = ?`,
		at, userID)
	return err
}

// SetResetToken stores the jti and expiry of a freshly issued reset token.
func (r *Repository) SetResetToken(ctx context.Context, userID int64, jti string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET reset_token = ?, reset_token_expires = ? WHERE id = ?`,
		jti, expiresAt, userID)
	return err
}

// ResetPassword replaces the password hash and clears the reset token in one
// statement, so a crash can never leave the token usable with the old hash.
func (r *Repository) ResetPassword(ctx context.Context, userID int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET password_hash = ?, reset_token = NULL, reset_token_expires = NULL
		 WHERE id = ?`,
		passwordHash, userID)
	return err
}

// DeleteUserByEmail removes a user; the contacts cascade away with it.
// Only used by the maintenance command, never by normal flows.
func (r *Repository) DeleteUserByEmail(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE email = ?`, email)
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

// CountUsers returns the total number of users.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, err
	}
	return count, nil
}
