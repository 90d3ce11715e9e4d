package mail

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
)

type SMTPMailer struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

func (m *SMTPMailer) Send(_ context.Context, recipient, subject, body string) error {
	if m.User == "" || m.Password == "" {
		return fmt.Errorf("EMAIL or EMAIL_PASSWORD not configured")
	}
	from := m.From
	if from == "" {
		from = m.User
	}

	auth := smtp.PlainAuth("", m.User, m.Password, m.Host)
	msg := []byte(
		"From: " + from + "\r\n" +
			"To: " + recipient + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
			"\r\n" +
			body + "\r\n")

	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.User, []string{recipient}, msg); err != nil {
		return err
	}

	log.Printf("Email sent to %s (%s)", recipient, subject)
	return nil
}
