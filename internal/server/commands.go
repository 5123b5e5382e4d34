// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/gestorweb/contactos/internal/config"
	"github.com/gestorweb/contactos/internal/database"
	"github.com/gestorweb/contactos/internal/models"
	"github.com/gestorweb/contactos/internal/repository"
)

// withRepo opens the database for a maintenance command and hands the
// repository to fn.
func withRepo(cmd *cli.Command, fn func(ctx context.Context, cfg *config.Config, repo *repository.Repository) error) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	return fn(context.Background(), cfg, repository.New(db))
}

// RunMigrateUp applies all pending migrations. Opening the database already
// migrates, so this only reports the final state.
func RunMigrateUp(ctx context.Context, cmd *cli.Command) error {
	return withRepo(cmd, func(ctx context.Context, cfg *config.Config, repo *repository.Repository) error {
		slog.Info("migrations applied", "dsn", cfg.Database.DSN)
		return nil
	})
}

// RunMigrateDown rolls back the last migration.
func RunMigrateDown(ctx context.Context, cmd *cli.Command) error {
	return runMigration(cmd, database.MigrateDown, "migration rolled back")
}

// RunMigrateReset rolls back all migrations and re-applies them.
func RunMigrateReset(ctx context.Context, cmd *cli.Command) error {
	return runMigration(cmd, func(db *sql.DB) error {
		if err := database.MigrateReset(db); err != nil {
			return err
		}
		return database.RunMigrations(db)
	}, "migrations reset")
}

func runMigration(cmd *cli.Command, fn func(*sql.DB) error, doneMsg string) error {
	return withRepo(cmd, func(ctx context.Context, cfg *config.Config, repo *repository.Repository) error {
		if err := fn(repo.DB().DB); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		slog.Info(doneMsg, "dsn", cfg.Database.DSN)
		return nil
	})
}

// RunDeleteUser removes the account named on the command line together with
// all its contacts.
func RunDeleteUser(ctx context.Context, cmd *cli.Command) error {
	email := cmd.Args().First()
	if email == "" {
		return errors.New("usage: delete-user EMAIL")
	}

	return withRepo(cmd, func(ctx context.Context, cfg *config.Config, repo *repository.Repository) error {
		if err := repo.DeleteUserByEmail(ctx, email); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("no account with email %s", email)
			}
			return fmt.Errorf("failed to delete user: %w", err)
		}
		slog.Info("user deleted", "email", email)
		return nil
	})
}

// RunSeed loads a confirmed demo account with a handful of contacts in
// different states, enough to exercise the list views and the exports.
func RunSeed(ctx context.Context, cmd *cli.Command) error {
	return withRepo(cmd, func(ctx context.Context, cfg *config.Config, repo *repository.Repository) error {
		const demoEmail = "demo@example.com"

		if exists, err := repo.UserExists(ctx, demoEmail); err != nil {
			return fmt.Errorf("failed to check demo user: %w", err)
		} else if exists {
			slog.Info("seed data already present", "email", demoEmail)
			return nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash demo password: %w", err)
		}

		user := &models.User{
			Email:        demoEmail,
			PasswordHash: string(hash),
			IsAdmin:      cfg.Auth.IsAdminEmail(demoEmail),
		}
		if err := repo.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to create demo user: %w", err)
		}
		if err := repo.ConfirmEmail(ctx, user.ID, time.Now()); err != nil {
			return fmt.Errorf("failed to confirm demo user: %w", err)
		}

		for _, contact := range seedContacts(user.ID) {
			if err := repo.CreateContact(ctx, &contact); err != nil {
				return fmt.Errorf("failed to create demo contact: %w", err)
			}
		}

		slog.Info("seed data loaded", "email", demoEmail, "password", "demo-password")
		return nil
	})
}

func seedContacts(userID int64) []models.Contact {
	return []models.Contact{
		{
			UserID:             userID,
			Origen:             "propio",
			CoberturaActual:    "osde",
			PrivadoDesregulado: "privado",
			ApellidoNombre:     "García, María",
			CorreoElectronico:  "maria.garcia@example.com",
			EdadTitular:        "42",
			Telefono:           "+54 11 5555 0001",
			GrupoFamiliar:      "3",
			PlanOfrecido:       "Plan 210",
			Fecha:              "01/06/2025",
			Estado:             models.EstadoAbierto,
			Conyuge:            "con conyuge",
			ConyugeEdad:        "44",
		},
		{
			UserID:             userID,
			Origen:             "broker",
			CoberturaActual:    "obra social",
			Promocion:          "no puede pagarlo",
			PrivadoDesregulado: "desregulado",
			ApellidoNombre:     "Pérez, Jorge",
			CorreoElectronico:  "jorge.perez@example.com",
			EdadTitular:        "35",
			Telefono:           "+54 11 5555 0002",
			GrupoFamiliar:      "1",
			PlanOfrecido:       "Plan 310",
			Fecha:              "15/06/2025",
			Estado:             models.EstadoCerrado,
			Observaciones:      "Volver a contactar el mes próximo",
			Conyuge:            "sin conyuge",
			ConyugeEdad:        models.SinConyuge,
		},
		{
			UserID:             userID,
			Origen:             "wise",
			CoberturaActual:    "smg",
			PrivadoDesregulado: "privado",
			ApellidoNombre:     "Rodríguez, Ana",
			CorreoElectronico:  "ana.rodriguez@example.com",
			EdadTitular:        "29",
			Telefono:           "+54 11 5555 0003",
			GrupoFamiliar:      "2",
			PlanOfrecido:       "Plan 410",
			Fecha:              "20/06/2025",
			Estado:             models.EstadoVendido,
			Conyuge:            "sin conyuge",
			ConyugeEdad:        models.SinConyuge,
		},
	}
}
