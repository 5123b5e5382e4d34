// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"fmt"
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Session  SessionConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

type SessionConfig struct { //nolint:govet // fieldalignment not critical
	CookieName    string // Session cookie name
	Secure        bool   // HTTPS only cookie
	HashKey       string // 32-byte hex string for HMAC signing
	BlockKey      string // 32-byte hex string for AES encryption (optional)
	DurationHours int    // Hours for normal sessions
	RememberHours int    // Hours for "remember me" sessions
}

type AuthConfig struct { //nolint:govet // fieldalignment not critical
	SecretKey         string   // Signs confirmation and reset tokens
	CommunityPassword string   // Shared secret required at registration
	AdminEmails       []string // Emails auto-flagged as admin at registration
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

// IsAdminEmail reports whether email is on the admin allow-list.
func (c *AuthConfig) IsAdminEmail(email string) bool {
	for _, e := range c.AdminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		Session: SessionConfig{
			CookieName:    cmd.String("session-cookie-name"),
			Secure:        cmd.Bool("session-cookie-secure"),
			HashKey:       cmd.String("session-hash-key"),
			BlockKey:      cmd.String("session-block-key"),
			DurationHours: int(cmd.Int("session-duration")),
			RememberHours: int(cmd.Int("remember-me-duration")),
		},
		Auth: AuthConfig{
			SecretKey:         cmd.String("secret-key"),
			CommunityPassword: cmd.String("community-password"),
			AdminEmails:       splitList(cmd.String("admin-emails")),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}

	return cfg
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func buildBaseURL(cfg *Config) string {
	scheme := "http"
	if cfg.Session.Secure {
		scheme = "https"
	}

	host := cfg.Server.Host
	port := cfg.Server.Port

	// Hide default ports in URL
	if (scheme == "http" && port == 80) || (scheme == "https" && port == 443) {
		return fmt.Sprintf("%s://%s", scheme, host)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, host, port)
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   5555,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL for the application (used in email links)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   1,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/contactos.db",
			Usage:   "SQLite database path",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-cookie-name",
			Value:   "_session",
			Usage:   "Session cookie name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_COOKIE_NAME"), toml.TOML("session.cookie_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "session-cookie-secure",
			Usage:   "HTTPS only session cookie",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_COOKIE_SECURE"), toml.TOML("session.cookie_secure", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-hash-key",
			Usage:   "Session hash key (32-byte hex)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_HASH_KEY"), toml.TOML("session.hash_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-block-key",
			Usage:   "Session block key for encryption (32-byte hex, optional)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_BLOCK_KEY"), toml.TOML("session.block_key", configFile)),
		},
		&cli.IntFlag{
			Name:    "session-duration",
			Value:   2,
			Usage:   "Hours for normal sessions",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_DURATION"), toml.TOML("session.duration", configFile)),
		},
		&cli.IntFlag{
			Name:    "remember-me-duration",
			Value:   336,
			Usage:   "Hours for 'remember me' sessions",
			Sources: cli.NewValueSourceChain(cli.EnvVar("REMEMBER_ME_DURATION"), toml.TOML("session.remember_me_duration", configFile)),
		},
		&cli.StringFlag{
			Name:    "secret-key",
			Usage:   "Secret key for signing confirmation and reset tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SECRET_KEY"), toml.TOML("auth.secret_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "community-password",
			Usage:   "Shared secret required at registration",
			Sources: cli.NewValueSourceChain(cli.EnvVar("COMMUNITY_PASSWORD"), toml.TOML("auth.community_password", configFile)),
		},
		&cli.StringFlag{
			Name:    "admin-emails",
			Usage:   "Comma-separated emails auto-flagged as admin",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_EMAILS"), toml.TOML("auth.admin_emails", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAIL_SERVER"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAIL_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAIL_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAIL_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "Default sender address",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAIL_DEFAULT_SENDER"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "Gestor de Contactos",
			Usage:   "Default sender display name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAIL_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Use STARTTLS for SMTP",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAIL_USE_TLS"), toml.TOML("smtp.tls", configFile)),
		},
	}
}
