package email

import (
	"context"
	"fmt"

	"community_issues/internal/config"
	"community_issues/internal/logger"

	"gopkg.in/gomail.v2"
)

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	Body    string // HTML
}

// Sender delivers email. Callers treat failures as non-fatal.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns an SMTP sender when smtp_host is configured, otherwise a
// sender that only logs.
func NewSender(cfg *config.Config) Sender {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP host is not configured, outgoing email will only be logged")
		return LogSender{}
	}
	return NewSMTPSender(cfg)
}

// SMTPSender sends through gomail.
type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPassword,
		),
		from:     cfg.Email.FromEmail,
		fromName: cfg.Email.FromName,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("no recipient specified")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	logger.CtxInfo(ctx, "Email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// LogSender writes the message to the log instead of sending it.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	logger.CtxInfo(ctx, "Email (not sent, SMTP disabled)", "to", msg.To, "subject", msg.Subject)
	return nil
}
