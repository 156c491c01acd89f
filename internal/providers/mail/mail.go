// Package mail sends delivery emails with the site archive attached.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"webgen/internal/infra"
)

// Message is one outgoing delivery email.
type Message struct {
	To             string
	Subject        string
	Body           string
	AttachmentPath string
	AttachmentName string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPOptions configures the SMTP sender.
type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP sends mail through an SMTP relay.
type SMTP struct {
	opts SMTPOptions
}

func NewSMTP(opts SMTPOptions) (*SMTP, error) {
	if strings.TrimSpace(opts.Host) == "" {
		return nil, errors.New("mail: smtp host is required")
	}
	if strings.TrimSpace(opts.From) == "" {
		return nil, errors.New("mail: from address is required")
	}
	if opts.Port <= 0 {
		opts.Port = 587
	}
	return &SMTP{opts: opts}, nil
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	m, err := buildMessage(s.opts.From, msg)
	if err != nil {
		return err
	}

	clientOpts := []gomail.Option{
		gomail.WithPort(s.opts.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.opts.Username != "" {
		clientOpts = append(clientOpts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.opts.Username),
			gomail.WithPassword(s.opts.Password),
		)
	}
	client, err := gomail.NewClient(s.opts.Host, clientOpts...)
	if err != nil {
		return fmt.Errorf("mail: build client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}

func buildMessage(from string, msg Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("mail: from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("mail: to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	if msg.AttachmentPath != "" {
		name := msg.AttachmentName
		if name == "" {
			name = "site.zip"
		}
		m.AttachFile(msg.AttachmentPath, gomail.WithFileName(name))
	}
	return m, nil
}

// Log records deliveries in the log instead of sending them. It is used when
// no SMTP relay is configured.
type Log struct {
	logger infra.Logger
}

func NewLog(logger infra.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("mail: recipient is required")
	}
	l.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("attachment", msg.AttachmentName).
		Msg("simulated email delivery")
	return nil
}

var (
	_ Sender = (*SMTP)(nil)
	_ Sender = (*Log)(nil)
)
