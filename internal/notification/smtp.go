package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/wneessen/go-mail"
)

type SMTPSender struct {
	client *mail.Client
	from   string
	logger *slog.Logger
}

func NewSMTPSender(cfg internal.SMTPConfig, from string, logger *slog.Logger) (*SMTPSender, error) {
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(timeout),
	}
	if cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPSender{client: client, from: from, logger: logger}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}

	s.logger.Debug("notification sent", "message_id", msg.ID, "kind", msg.Kind, "to", msg.To)
	return nil
}

func (s *SMTPSender) build(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.AddToFormat(msg.ToName, msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetMessageID()
	m.SetDate()
	m.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}
	return m, nil
}

// Close is a no-op; each Send dials and closes its own connection.
func (s *SMTPSender) Close() error { return nil }
