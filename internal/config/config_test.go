// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestIsAdminEmail(t *testing.T) {
	cfg := &AuthConfig{AdminEmails: []string{"admin@example.com", "jefa@example.com"}}

	assert.True(t, cfg.IsAdminEmail("admin@example.com"))
	assert.True(t, cfg.IsAdminEmail("Admin@Example.COM")) // case-insensitive
	assert.False(t, cfg.IsAdminEmail("otro@example.com"))
	assert.False(t, (&AuthConfig{}).IsAdminEmail("admin@example.com"))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a@x.com"}, splitList("a@x.com"))
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, splitList(" a@x.com , b@x.com ,, "))
}

func TestBuildBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		expected string
	}{
		{
			name:     "http custom port",
			cfg:      &Config{Server: ServerConfig{Host: "localhost", Port: 5555}},
			expected: "http://localhost:5555",
		},
		{
			name:     "http default port hidden",
			cfg:      &Config{Server: ServerConfig{Host: "example.com", Port: 80}},
			expected: "http://example.com",
		},
		{
			name: "https from secure cookie",
			cfg: &Config{
				Server:  ServerConfig{Host: "example.com", Port: 443},
				Session: SessionConfig{Secure: true},
			},
			expected: "https://example.com",
		},
		{
			name: "https custom port",
			cfg: &Config{
				Server:  ServerConfig{Host: "example.com", Port: 8443},
				Session: SessionConfig{Secure: true},
			},
			expected: "https://example.com:8443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildBaseURL(tt.cfg))
		})
	}
}

func TestFlags(t *testing.T) {
	flags := Flags()

	assert.NotEmpty(t, flags)

	flagNames := make(map[string]bool)
	for _, f := range flags {
		for _, name := range f.Names() {
			flagNames[name] = true
		}
	}

	assert.True(t, flagNames["host"], "should have host flag")
	assert.True(t, flagNames["port"], "should have port flag")
	assert.True(t, flagNames["database-dsn"], "should have database-dsn flag")
	assert.True(t, flagNames["secret-key"], "should have secret-key flag")
	assert.True(t, flagNames["community-password"], "should have community-password flag")
	assert.True(t, flagNames["admin-emails"], "should have admin-emails flag")
	assert.True(t, flagNames["smtp-host"], "should have smtp-host flag")
	assert.True(t, flagNames["session-cookie-name"], "should have session-cookie-name flag")
}

func TestNewFromCLI(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.NotNil(t, cfg)
			assert.Equal(t, "localhost", cfg.Server.Host)
			assert.Equal(t, 5555, cfg.Server.Port)
			assert.Equal(t, "info", cfg.Log.Level)
			assert.Equal(t, "text", cfg.Log.Format)
			assert.Equal(t, "_session", cfg.Session.CookieName)
			assert.Equal(t, 2, cfg.Session.DurationHours)
			assert.Equal(t, 336, cfg.Session.RememberHours)
			assert.Equal(t, 587, cfg.SMTP.Port)
			assert.Equal(t, "Gestor de Contactos", cfg.SMTP.FromName)
			assert.True(t, cfg.SMTP.TLS)

			// BaseURL auto-generated from host and port
			assert.Equal(t, "http://localhost:5555", cfg.Server.BaseURL)

			return nil
		},
	}

	err := app.Run(context.Background(), []string{"test"})
	assert.NoError(t, err)
}

func TestNewFromCLI_WithCustomValues(t *testing.T) {
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg := NewFromCLI(cmd)

			assert.Equal(t, "0.0.0.0", cfg.Server.Host)
			assert.Equal(t, 9000, cfg.Server.Port)
			assert.Equal(t, "https://example.com", cfg.Server.BaseURL)
			assert.Equal(t, "./data/test.db", cfg.Database.DSN)
			assert.Equal(t, []string{"admin@example.com", "jefa@example.com"}, cfg.Auth.AdminEmails)

			return nil
		},
	}

	args := []string{
		"test",
		"--host", "0.0.0.0",
		"--port", "9000",
		"--base-url", "https://example.com",
		"--database-dsn", "./data/test.db",
		"--admin-emails", "admin@example.com, jefa@example.com",
	}
	err := app.Run(context.Background(), args)
	assert.NoError(t, err)
}
