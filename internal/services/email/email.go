// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package email sends confirmation and password-reset mail over SMTP.
package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/gestorweb/contactos/internal/config"
	"github.com/gestorweb/contactos/internal/i18n"
	"github.com/wneessen/go-mail"
)

// Service sends transactional email. Construct it once at startup; a missing
// SMTP host or sender address is a configuration error, not something to
// discover on the first send.
type Service struct {
	cfg     *config.SMTPConfig
	baseURL string
}

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig, baseURL string) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Service{
		cfg:     cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// SendConfirmation sends the email-confirmation link for the given token.
func (s *Service) SendConfirmation(ctx context.Context, toEmail, token string) error {
	confirmURL := fmt.Sprintf("%s/auth/confirm/%s", s.baseURL, token)

	subject := i18n.T(ctx, "confirmation_email_subject")
	body := fmt.Sprintf(`<h1>¡Bienvenido al Gestor de Contactos!</h1>
<p>Para confirmar tu correo electrónico, por favor haz clic en el siguiente enlace:</p>
<p><a href="%s">Confirmar correo electrónico</a></p>
<p>Este enlace expirará en 24 horas.</p>
<p>Si no te registraste en nuestra aplicación, por favor ignora este correo.</p>`, confirmURL)

	return s.send(toEmail, subject, body)
}

// SendPasswordReset sends the password-reset link for the given token.
func (s *Service) SendPasswordReset(ctx context.Context, toEmail, token string) error {
	resetURL := fmt.Sprintf("%s/auth/reset-password/%s", s.baseURL, token)

	subject := i18n.T(ctx, "reset_email_subject")
	body := fmt.Sprintf(`<h1>Restablecer Contraseña</h1>
<p>Has solicitado restablecer tu contraseña en el Gestor de Contactos.</p>
<p>Para continuar con el proceso, haz clic en el siguiente enlace:</p>
<p><a href="%s">Restablecer contraseña</a></p>
<p>Este enlace expirará en 1 hora.</p>
<p>Si no solicitaste este cambio, por favor ignora este correo. Tu contraseña permanecerá sin cambios.</p>`, resetURL)

	return s.send(toEmail, subject, body)
}

// send sends an email via SMTP using go-mail.
func (s *Service) send(to, subject, body string) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Use implicit TLS (SSL) for port 465, STARTTLS for others
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
