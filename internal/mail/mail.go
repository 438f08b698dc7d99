package mail

import (
	"context"
	"fmt"
	"strings"

	"pickup-service/internal/apperr"

	gomail "github.com/wneessen/go-mail"
)

// Mailer sends a plain-text notification to the configured operators.
type Mailer interface {
	Send(ctx context.Context, subject, text string) error
}

type Config struct {
	Enabled bool
	Host    string
	Port    int
	Secure  bool
	User    string
	Pass    string
	From    string
	To      string
}

// Noop is used when mail is disabled.
type Noop struct{}

func (Noop) Send(context.Context, string, string) error { return nil }

type SMTPMailer struct {
	cfg Config
	to  []string
}

// New returns Noop unless mail is enabled. An enabled but incomplete
// configuration is a startup error.
func New(cfg Config) (Mailer, error) {
	if !cfg.Enabled {
		return Noop{}, nil
	}
	if cfg.Host == "" || cfg.User == "" || cfg.Pass == "" || cfg.From == "" || cfg.To == "" {
		return nil, apperr.Config("mail: SMTP_HOST, SMTP_USER, SMTP_PASS, MAIL_FROM and MAIL_TO are required when MAIL_ENABLE=true")
	}

	var to []string
	for _, addr := range strings.Split(cfg.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}

	return &SMTPMailer{cfg: cfg, to: to}, nil
}

func (s *SMTPMailer) Send(ctx context.Context, subject, text string) error {
	msg, err := s.message(subject, text)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("mail: client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}

func (s *SMTPMailer) message(subject, text string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("mail: from: %w", err)
	}
	if err := msg.To(s.to...); err != nil {
		return nil, fmt.Errorf("mail: to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, text)
	return msg, nil
}

func (s *SMTPMailer) clientOptions() []gomail.Option {
	var opts []gomail.Option
	if s.cfg.Secure {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPortPolicy(gomail.TLSOpportunistic))
	}

	return append(opts,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.User),
		gomail.WithPassword(s.cfg.Pass),
	)
}
