package mail

import (
	"context"
	"fmt"
	"log"

	"flockr/config"
)

// Mailer delivers plain-text mail.
type Mailer interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// LogMailer is used when no provider is configured. It only logs.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, recipient, subject, _ string) error {
	log.Printf("Skipping email send (mail disabled): %q to %s", subject, recipient)
	return nil
}

// New builds the mailer selected by cfg.MailProvider.
func New(ctx context.Context, cfg *config.Config) (Mailer, error) {
	switch cfg.MailProvider {
	case "", "log":
		return LogMailer{}, nil
	case "smtp":
		return &SMTPMailer{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.EmailUser,
			Password: cfg.EmailPassword,
			From:     cfg.EmailFrom,
		}, nil
	case "ses":
		if cfg.SESFromEmail == "" {
			log.Println("Email service disabled: SES_FROM_EMAIL not configured")
			return LogMailer{}, nil
		}
		return NewSESMailer(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName)
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", cfg.MailProvider)
	}
}
