package smtp

import (
	"bytes"
	"time"

	"github.com/cradoe/remitflow/assets"
	"github.com/cradoe/remitflow/internal/funcs"

	"github.com/wneessen/go-mail"

	htmlTemplate "html/template"
	textTemplate "text/template"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultAttempts   = 3
	defaultRetryDelay = 2 * time.Second
)

type MailClient interface {
	DialAndSend(...*mail.Msg) error
}

type MailerInterface interface {
	Send(recipient string, data any, patterns ...string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// TLS switches from plain SMTP to opportunistic STARTTLS
	TLS        bool
	Attempts   int
	RetryDelay time.Duration
}

type Mailer struct {
	client     MailClient
	from       string
	attempts   int
	retryDelay time.Duration
}

func NewMailer(cfg Config) (*Mailer, error) {
	policy := mail.NoTLS
	if cfg.TLS {
		policy = mail.TLSOpportunistic
	}

	opts := []mail.Option{
		mail.WithTimeout(defaultTimeout),
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(policy),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}

	return newMailer(client, cfg), nil
}

func newMailer(client MailClient, cfg Config) *Mailer {
	if cfg.Attempts <= 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	return &Mailer{
		client:     client,
		from:       cfg.From,
		attempts:   cfg.Attempts,
		retryDelay: cfg.RetryDelay,
	}
}

// Send renders the subject, plainBody and optional htmlBody blocks of the named
// templates under assets/emails and delivers the result, retrying on failure.
func (m *Mailer) Send(recipient string, data any, patterns ...string) error {
	msg, err := m.compose(recipient, data, patterns...)
	if err != nil {
		return err
	}

	for i := 1; i <= m.attempts; i++ {
		err = m.client.DialAndSend(msg)
		if err == nil {
			return nil
		}

		if i != m.attempts {
			time.Sleep(m.retryDelay)
		}
	}

	return err
}

func (m *Mailer) compose(recipient string, data any, patterns ...string) (*mail.Msg, error) {
	paths := make([]string, len(patterns))
	for i := range patterns {
		paths[i] = "emails/" + patterns[i]
	}

	msg := mail.NewMsg()

	if err := msg.To(recipient); err != nil {
		return nil, err
	}

	if err := msg.From(m.from); err != nil {
		return nil, err
	}

	ts, err := textTemplate.New("").Funcs(funcs.TemplateFuncs).ParseFS(assets.EmbeddedFiles, paths...)
	if err != nil {
		return nil, err
	}

	subject := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(subject, "subject", data); err != nil {
		return nil, err
	}

	msg.Subject(subject.String())

	plainBody := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(plainBody, "plainBody", data); err != nil {
		return nil, err
	}

	msg.SetBodyString(mail.TypeTextPlain, plainBody.String())

	if ts.Lookup("htmlBody") != nil {
		ts, err := htmlTemplate.New("").Funcs(funcs.TemplateFuncs).ParseFS(assets.EmbeddedFiles, paths...)
		if err != nil {
			return nil, err
		}

		htmlBody := new(bytes.Buffer)
		if err := ts.ExecuteTemplate(htmlBody, "htmlBody", data); err != nil {
			return nil, err
		}

		msg.AddAlternativeString(mail.TypeTextHTML, htmlBody.String())
	}

	return msg, nil
}
