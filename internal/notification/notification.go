// Package notification delivers best-effort email notifications for application events.
// Delivery never blocks or fails the mutation that triggered it.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/recruitment/internal"
)

type Kind string

const (
	KindApplicationReceived Kind = "application_received"
	KindNewApplicant        Kind = "new_applicant"
	KindStatusChanged       Kind = "status_changed"
	KindTest                Kind = "test"
)

// Message is a rendered notification ready for a Sender. It is also the AMQP wire payload.
type Message struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	To       string `json:"to"`
	ToName   string `json:"to_name,omitempty"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
	TextBody string `json:"text_body"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// CloseableSender is a Sender holding a connection.
type CloseableSender interface {
	Sender
	Close() error
}

// NewSender builds the sender selected by notification.driver.
func NewSender(cfg internal.NotificationConfig, logger *slog.Logger) (CloseableSender, error) {
	switch cfg.Driver {
	case "", "log":
		return NewLogSender(logger), nil
	case "smtp":
		return NewSMTPSender(cfg.SMTP, cfg.From, logger)
	case "amqp":
		return DialAMQPPublisher(cfg.AMQP, logger)
	}
	return nil, fmt.Errorf("unknown notification driver %q", cfg.Driver)
}

// LogSender writes notifications to the log instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("notification (log driver)",
		"message_id", msg.ID,
		"kind", msg.Kind,
		"to", msg.To,
		"subject", msg.Subject)
	return nil
}

func (s *LogSender) Close() error { return nil }
