package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"storefront-admin/config"
	"storefront-admin/models"
)

type RabbitMQ struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Cfg     *config.Config

	logger  *logrus.Logger
	mu      sync.Mutex
	delayed bool
}

var ErrDelayUnsupported = errors.New("delayed exchange is not available")

func NewRabbitMQ(cfg *config.Config, logger *logrus.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &RabbitMQ{
		Conn:    conn,
		Channel: ch,
		Cfg:     cfg,
		logger:  logger,
	}, nil
}

func (r *RabbitMQ) deadLetterExchange() string {
	return r.Cfg.DeadLetterQueue + "_exchange"
}

// SetupQueues declares the order exchange and queue, the dead-letter pair
// that receives rejected events and the delayed exchange used for payment
// checks.
func (r *RabbitMQ) SetupQueues() error {
	if err := r.Channel.ExchangeDeclare(
		r.deadLetterExchange(),
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare dead-letter exchange: %w", err)
	}

	if _, err := r.Channel.QueueDeclare(
		r.Cfg.DeadLetterQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-queue-type": "classic"},
	); err != nil {
		return fmt.Errorf("declare dead-letter queue: %w", err)
	}

	if err := r.Channel.QueueBind(r.Cfg.DeadLetterQueue, r.Cfg.DeadLetterQueue, r.deadLetterExchange(), false, nil); err != nil {
		return fmt.Errorf("bind dead-letter queue: %w", err)
	}

	if err := r.Channel.ExchangeDeclare(r.Cfg.OrderExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare order exchange: %w", err)
	}

	if _, err := r.Channel.QueueDeclare(
		r.Cfg.OrderQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-max-priority":            r.Cfg.MaxPriority,
			"x-dead-letter-exchange":    r.deadLetterExchange(),
			"x-dead-letter-routing-key": r.Cfg.DeadLetterQueue,
		},
	); err != nil {
		return fmt.Errorf("declare order queue: %w", err)
	}

	if err := r.Channel.QueueBind(r.Cfg.OrderQueue, r.Cfg.OrderQueue, r.Cfg.OrderExchange, false, nil); err != nil {
		return fmt.Errorf("bind order queue: %w", err)
	}

	// Needs the rabbitmq_delayed_message_exchange plugin. Without it payment
	// checks are not scheduled but everything else works.
	if err := r.Channel.ExchangeDeclare(
		r.Cfg.DelayExchange,
		"x-delayed-message",
		true,
		false,
		false,
		false,
		amqp.Table{"x-delayed-type": "direct"},
	); err != nil {
		r.logger.WithError(err).Warn("Delayed exchange not supported")
		return r.reopenChannel()
	}
	if err := r.Channel.QueueBind(r.Cfg.OrderQueue, r.Cfg.OrderQueue, r.Cfg.DelayExchange, false, nil); err != nil {
		return fmt.Errorf("bind delayed queue: %w", err)
	}
	r.delayed = true

	return nil
}

// A failed declare closes the channel, so a fresh one is needed afterwards.
func (r *RabbitMQ) reopenChannel() error {
	ch, err := r.Conn.Channel()
	if err != nil {
		return fmt.Errorf("reopen channel: %w", err)
	}
	r.Channel = ch
	return nil
}

func encodeEvent(event models.OrderEvent) ([]byte, error) {
	if event.Occurred.IsZero() {
		event.Occurred = time.Now().UTC()
	}
	return json.Marshal(event)
}

func (r *RabbitMQ) PublishOrderEvent(ctx context.Context, event models.OrderEvent, priority uint8) error {
	body, err := encodeEvent(event)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		ContentType:  "application/json",
		Type:         event.Type,
		Body:         body,
		Priority:     priority,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Channel.PublishWithContext(ctx, r.Cfg.OrderExchange, r.Cfg.OrderQueue, false, false, msg)
}

func (r *RabbitMQ) PublishDelayedEvent(ctx context.Context, event models.OrderEvent, delay time.Duration) error {
	if !r.delayed {
		return ErrDelayUnsupported
	}
	body, err := encodeEvent(event)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		ContentType:  "application/json",
		Type:         event.Type,
		Body:         body,
		Headers: amqp.Table{
			"x-delay": delay.Milliseconds(),
		},
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Channel.PublishWithContext(ctx, r.Cfg.DelayExchange, r.Cfg.OrderQueue, false, false, msg)
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		if err := r.Channel.Close(); err != nil {
			r.logger.WithError(err).Warn("Failed to close rabbitmq channel")
		}
	}
	if r.Conn != nil {
		if err := r.Conn.Close(); err != nil {
			r.logger.WithError(err).Warn("Failed to close rabbitmq connection")
		}
	}
}
