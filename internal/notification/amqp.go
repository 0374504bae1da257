package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/recruitment/internal"
	amqp "github.com/rabbitmq/amqp091-go"
)

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher hands messages to a broker; the notifications worker delivers them.
type AMQPPublisher struct {
	cfg     internal.AMQPConfig
	conn    *amqp.Connection
	channel publishChannel
	logger  *slog.Logger
}

func NewAMQPPublisher(channel publishChannel, cfg internal.AMQPConfig, logger *slog.Logger) *AMQPPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &AMQPPublisher{cfg: cfg, channel: channel, logger: logger}
}

func DialAMQPPublisher(cfg internal.AMQPConfig, logger *slog.Logger) (*AMQPPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, ch, err := dialAMQP(cfg, logger)
	if err != nil {
		return nil, err
	}
	p := NewAMQPPublisher(ch, cfg, logger)
	p.conn = conn
	return p, nil
}

func (p *AMQPPublisher) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.cfg.Exchange,
		p.cfg.RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    msg.ID,
			Type:         string(msg.Kind),
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("publish notification %s: %w", msg.ID, err)
	}

	p.logger.Debug("notification published", "message_id", msg.ID, "exchange", p.cfg.Exchange)
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// Consumer reads queued notifications and delivers them through a Sender.
type Consumer struct {
	cfg      internal.AMQPConfig
	sender   Sender
	prefetch int
	timeout  time.Duration
	logger   *slog.Logger
}

func NewConsumer(cfg internal.AMQPConfig, sender Sender, prefetch int, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	if prefetch <= 0 {
		prefetch = 1
	}
	return &Consumer{cfg: cfg, sender: sender, prefetch: prefetch, timeout: 30 * time.Second, logger: logger}
}

// Run consumes until ctx is done or the broker closes the delivery channel.
func (c *Consumer) Run(ctx context.Context) error {
	conn, ch, err := dialAMQP(c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := ch.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("notification consumer started", "queue", c.cfg.Queue, "prefetch", c.prefetch)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("notification consumer stopped")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			c.Handle(ctx, d)
		}
	}
}

// Handle delivers one message. Malformed payloads are dropped; a failed send is
// requeued once and dropped on redelivery.
func (c *Consumer) Handle(ctx context.Context, d amqp.Delivery) {
	var msg Message
	if err := json.Unmarshal(d.Body, &msg); err != nil || msg.To == "" {
		c.logger.Error("malformed notification message", "error", err, "body", string(d.Body))
		if nackErr := d.Nack(false, false); nackErr != nil {
			c.logger.Error("failed to NACK malformed message", "error", nackErr)
		}
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.sender.Send(sendCtx, msg); err != nil {
		requeue := !d.Redelivered
		c.logger.Error("notification delivery failed",
			"message_id", msg.ID,
			"to", msg.To,
			"requeue", requeue,
			"error", err)
		if nackErr := d.Nack(false, requeue); nackErr != nil {
			c.logger.Error("failed to NACK message", "message_id", msg.ID, "error", nackErr)
		}
		return
	}

	if err := d.Ack(false); err != nil {
		c.logger.Error("failed to ACK message", "message_id", msg.ID, "error", err)
	}
}

func dialAMQP(cfg internal.AMQPConfig, logger *slog.Logger) (*amqp.Connection, *amqp.Channel, error) {
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var (
		conn *amqp.Connection
		err  error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		conn, err = amqp.DialConfig(cfg.URL, amqp.Config{Heartbeat: 10 * time.Second, Locale: "en_US"})
		if err == nil {
			break
		}
		logger.Warn("failed to connect to broker", "attempt", attempt, "max_attempts", attempts, "error", err)
		if attempt < attempts {
			time.Sleep(cfg.RetryInterval)
		}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to broker after %d attempts: %w", attempts, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		conn.Close()
		return nil, nil, err
	}

	logger.Info("connected to broker", "exchange", cfg.Exchange, "queue", cfg.Queue)
	return conn, ch, nil
}

func declareTopology(ch *amqp.Channel, cfg internal.AMQPConfig) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(cfg.Queue, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	return nil
}
