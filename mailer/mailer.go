// Package mailer delivers contact-form notifications over SMTP.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"greeventech/telemetry/config"
	"greeventech/telemetry/models"
)

// Mailer sends the operator a notification for an accepted contact
// submission.
type Mailer interface {
	SendContactNotification(sub models.ContactSubmission) error
}

// SMTPMailer dials the configured SMTP server per message. Volume on the
// contact path is rate-limited to a handful per minute per client, so a
// persistent connection is not worth keeping.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendContactNotification(sub models.ContactSubmission) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.To)
	msg.SetHeader("Subject", fmt.Sprintf("New Contact Form Submission from %s", sub.Name))
	msg.SetHeader("Reply-To", sub.Email)
	msg.SetBody("text/plain", fmt.Sprintf(
		"New contact form submission\n\nName: %s\nEmail: %s\n\nMessage:\n%s\n",
		sub.Name, sub.Email, sub.Message,
	))

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send contact notification: %w", err)
	}
	return nil
}
