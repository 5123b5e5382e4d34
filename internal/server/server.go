// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server wires configuration, storage, services, and the HTTP
// surface together, and owns the process lifecycle.
package server

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/gestorweb/contactos/internal/config"
	"github.com/gestorweb/contactos/internal/database"
	"github.com/gestorweb/contactos/internal/handlers"
	"github.com/gestorweb/contactos/internal/i18n"
	"github.com/gestorweb/contactos/internal/repository"
	authsvc "github.com/gestorweb/contactos/internal/services/auth"
	contactssvc "github.com/gestorweb/contactos/internal/services/contacts"
	"github.com/gestorweb/contactos/internal/services/email"
	"github.com/gestorweb/contactos/internal/services/session"
	"github.com/gestorweb/contactos/internal/services/token"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database, migrations run on open
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	repo := repository.New(db)

	tokens, err := token.New(cfg.Auth.SecretKey)
	if err != nil {
		return fmt.Errorf("failed to init token service: %w", err)
	}

	sessions, err := buildSessionManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to init session manager: %w", err)
	}

	mailer, err := email.NewService(&cfg.SMTP, cfg.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to init mailer: %w", err)
	}

	authService := authsvc.NewService(repo, tokens, mailer, &cfg.Auth)
	contactsService := contactssvc.NewService(repo)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg, sessions, repo)
	setupRoutes(e, authService, contactsService, sessions)

	return startWithGracefulShutdown(e, cfg)
}

// buildSessionManager decodes the hex cookie keys and creates the manager.
func buildSessionManager(cfg *config.Config) (*session.Manager, error) {
	hashKey, err := hex.DecodeString(cfg.Session.HashKey)
	if err != nil {
		return nil, fmt.Errorf("invalid session hash key: %w", err)
	}

	var blockKey []byte
	if cfg.Session.BlockKey != "" {
		blockKey, err = hex.DecodeString(cfg.Session.BlockKey)
		if err != nil {
			return nil, fmt.Errorf("invalid session block key: %w", err)
		}
	}

	return session.NewManager(
		hashKey,
		blockKey,
		cfg.Session.CookieName,
		cfg.Session.Secure,
		time.Duration(cfg.Session.DurationHours)*time.Hour,
		time.Duration(cfg.Session.RememberHours)*time.Hour,
	)
}

func setupRoutes(e *echo.Echo, authService *authsvc.Service, contactsService *contactssvc.Service, sessions *session.Manager) {
	h := handlers.New(authService, contactsService, sessions)

	e.GET("/health", h.Health)

	// Authentication
	e.POST("/auth/register", h.Register)
	e.POST("/auth/login", h.Login)
	e.POST("/auth/logout", h.Logout)
	e.GET("/auth/confirm/:token", h.Confirm)
	e.POST("/auth/resend-confirmation", h.ResendConfirmation)
	e.POST("/auth/forgot-password", h.ForgotPassword)
	e.POST("/auth/reset-password/:token", h.ResetPassword)
	e.POST("/verificar_email", h.VerifyEmail)

	// Contact management
	authed := e.Group("", requireAuth())
	authed.GET("/usuario", h.ListContacts)
	authed.POST("/usuario", h.CreateContact)
	authed.POST("/cambiar_estado_contacto", h.ChangeEstado)
	authed.POST("/actualizar_promocion", h.ChangePromocion)
	authed.GET("/exportar_mis_contactos", h.ExportMyContacts)
	authed.GET("/exportar_mis_contactos_csv", h.ExportMyContactsCSV)

	// Admin surface
	admin := e.Group("", requireAdmin())
	admin.GET("/admin", h.AdminContacts)
	admin.GET("/exportar_contactos", h.ExportAllContacts)
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
