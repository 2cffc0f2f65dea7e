package security

import (
	"context"
	"log/slog"
	"time"

	"github.com/cradoe/remitflow/internal/smtp"
)

// Sender delivers an OTP out of band.
type Sender interface {
	Send(ctx context.Context, contact, code string) error
}

type EmailSender struct {
	mailer smtp.MailerInterface
	ttl    time.Duration
}

func NewEmailSender(mailer smtp.MailerInterface, ttl time.Duration) *EmailSender {
	return &EmailSender{mailer: mailer, ttl: ttl}
}

// Send gives up when ctx is done. The mail may still go out afterwards; the code it carries
// is never stored, so it cannot be used.
func (s *EmailSender) Send(ctx context.Context, contact, code string) error {
	data := map[string]any{
		"Code":             code,
		"ExpiresInMinutes": int(s.ttl.Minutes()),
	}

	done := make(chan error, 1)
	go func() {
		done <- s.mailer.Send(contact, data, "otp.tmpl")
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogSender writes codes to the log. Development only.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, contact, code string) error {
	s.logger.Info("otp issued", "contact", contact, "code", code)
	return nil
}
