// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"database/sql"
	"time"
)

// User is an account that loads contacts. The confirmation and reset token
// columns hold the jti of the last issued token; a token is only accepted
// while its jti is still stored, which makes every token single-use.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID                       int64          `db:"id" json:"id"`
	Email                    string         `db:"email" json:"email"`
	PasswordHash             string         `db:"password_hash" json:"-"`
	IsAdmin                  bool           `db:"is_admin" json:"is_admin"`
	EmailConfirmed           bool           `db:"email_confirmed" json:"email_confirmed"`
	EmailConfirmedAt         sql.NullTime   `db:"email_confirmed_at" json:"email_confirmed_at"`
	ConfirmationToken        sql.NullString `db:"confirmation_token" json:"-"`
	ConfirmationTokenExpires sql.NullTime   `db:"confirmation_token_expires" json:"-"`
	ResetToken               sql.NullString `db:"reset_token" json:"-"`
	ResetTokenExpires        sql.NullTime   `db:"reset_token_expires" json:"-"`
	CreatedAt                time.Time      `db:"created_at" json:"created_at"`
}
