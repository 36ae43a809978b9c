package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"storefront-admin/config"
	"storefront-admin/middlewares"
	"storefront-admin/models"
	"storefront-admin/repository"
)

type OrderStore interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}

type OrderConsumer struct {
	store  OrderStore
	logger *logrus.Logger
}

func NewOrderConsumer(store OrderStore, logger *logrus.Logger) *OrderConsumer {
	return &OrderConsumer{store: store, logger: logger}
}

// Start consumes the order queue and its dead-letter queue until ctx is
// cancelled or the channel closes.
func (c *OrderConsumer) Start(ctx context.Context, ch *amqp.Channel, cfg *config.Config) error {
	msgs, err := ch.Consume(
		cfg.OrderQueue,
		"storefront-admin", // consumer tag
		false,              // auto-ack
		false,              // exclusive
		false,              // no-local
		false,              // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register order consumer: %w", err)
	}

	dlqMsgs, err := ch.Consume(cfg.DeadLetterQueue, "storefront-admin-dlq", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register dead-letter consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			c.processOrderMessage(ctx, msg)
		}
	}()

	go func() {
		for msg := range dlqMsgs {
			c.processDeadLetterMessage(msg)
		}
	}()

	return nil
}

func (c *OrderConsumer) processOrderMessage(ctx context.Context, msg amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithField("panic", r).Error("Recovered from panic in message processing")
			_ = msg.Nack(false, false)
		}
	}()

	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil || event.OrderID == "" {
		c.logger.WithField("body", string(msg.Body)).Warn("Invalid order event")
		middlewares.RecordOrderEvent("invalid", "rejected")
		// dead-lettered, not requeued
		_ = msg.Nack(false, false)
		return
	}

	entry := c.logger.WithFields(logrus.Fields{"order_id": event.OrderID, "type": event.Type})
	entry.Info("Processing order event")

	var err error
	switch event.Type {
	case models.OrderEventCreated:
		entry.WithField("total", event.Total).Info("Order created")
	case models.OrderEventStatusUpdated:
		entry.WithField("status", event.Status).Info("Order status updated")
	case models.OrderEventPaymentCheck:
		err = c.handlePaymentCheck(ctx, event.OrderID)
	default:
		entry.Warn("Unknown event type")
	}

	if err != nil {
		entry.WithError(err).Error("Failed to handle order event")
		middlewares.RecordOrderEvent(event.Type, "failed")
		_ = msg.Nack(false, false)
		return
	}
	middlewares.RecordOrderEvent(event.Type, "handled")
	if err := msg.Ack(false); err != nil {
		entry.WithError(err).Warn("Failed to ack order event")
	}
}

func (c *OrderConsumer) processDeadLetterMessage(msg amqp.Delivery) {
	c.logger.WithField("body", string(msg.Body)).Warn("Received dead letter")
	middlewares.RecordOrderEvent("dead_letter", "logged")
	_ = msg.Ack(false)
}

// handlePaymentCheck cancels an order that is still pending and unpaid once
// the payment window has passed.
func (c *OrderConsumer) handlePaymentCheck(ctx context.Context, orderID string) error {
	order, err := c.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.logger.WithField("order_id", orderID).Info("Order gone before payment check")
			return nil
		}
		return err
	}

	if order.Status != models.OrderStatusPending || order.PaymentStatus != models.PaymentStatusUnpaid {
		return nil
	}

	if _, err := c.store.UpdateOrderStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
		return fmt.Errorf("auto-cancel order %s: %w", orderID, err)
	}
	c.logger.WithField("order_id", orderID).Info("Auto-cancelled order due to non-payment")
	return nil
}
