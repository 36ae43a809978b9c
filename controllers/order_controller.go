package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-admin/analytics"
	"storefront-admin/middlewares"
	"storefront-admin/models"
	"storefront-admin/rabbitmq"
	"storefront-admin/repository"
)

// EventPublisher delivers order events to the broker.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent, priority uint8) error
	PublishDelayedEvent(ctx context.Context, event models.OrderEvent, delay time.Duration) error
}

const (
	priorityDefault   uint8 = 5
	priorityCancelled uint8 = 8
	priorityLarge     uint8 = 9

	largeOrderTotal = 1000
)

type OrderController struct {
	repo         repository.OrderRepository
	publisher    EventPublisher
	paymentDelay time.Duration
	logger       *logrus.Logger
}

// NewOrderController builds the order handlers. publisher may be nil, in
// which case no events are sent.
func NewOrderController(repo repository.OrderRepository, publisher EventPublisher, paymentDelay time.Duration, logger *logrus.Logger) *OrderController {
	return &OrderController{
		repo:         repo,
		publisher:    publisher,
		paymentDelay: paymentDelay,
		logger:       logger,
	}
}

// ListOrders returns orders newest first, narrowed by q and status.
// GET /api/orders?q=&status=
func (h *OrderController) ListOrders(c *gin.Context) {
	defer middlewares.TrackOperation(c, "list_orders")

	status := c.Query("status")
	if status != "" && status != analytics.StatusAll && !models.OrderStatus(status).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	orders, err := h.repo.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, analytics.FilterOrders(orders, c.Query("q"), status))
}

func (h *OrderController) GetOrder(c *gin.Context) {
	defer middlewares.TrackOperation(c, "get_order")

	order, err := h.repo.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "get order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderController) CreateOrder(c *gin.Context) {
	defer middlewares.TrackOperation(c, "create_order")

	var input models.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.PaymentStatus != "" && !input.PaymentStatus.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment status"})
		return
	}

	order, err := h.repo.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err, "create order")
		return
	}

	c.JSON(http.StatusCreated, order)

	// events go out only once the order is stored
	priority := priorityDefault
	if order.Total > largeOrderTotal {
		priority = priorityLarge
	}
	h.publish(c.Request.Context(), models.OrderEventCreated, order, priority)

	if h.publisher != nil && order.PaymentStatus == models.PaymentStatusUnpaid {
		event := orderEvent(models.OrderEventPaymentCheck, order)
		err := h.publisher.PublishDelayedEvent(c.Request.Context(), event, h.paymentDelay)
		switch {
		case errors.Is(err, rabbitmq.ErrDelayUnsupported):
			h.logger.WithField("order_id", order.ID).Debug("Payment check skipped, no delayed exchange")
		case err != nil:
			h.logger.WithError(err).WithField("order_id", order.ID).Warn("Failed to schedule payment check")
		}
	}
}

type statusUpdate struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// PUT /api/orders/:id/status
func (h *OrderController) UpdateOrderStatus(c *gin.Context) {
	defer middlewares.TrackOperation(c, "update_order_status")

	var req statusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
		return
	}

	order, err := h.repo.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.logger, err, "update order status")
		return
	}

	c.JSON(http.StatusOK, order)

	priority := priorityDefault
	if order.Status == models.OrderStatusCancelled {
		priority = priorityCancelled
	}
	h.publish(c.Request.Context(), models.OrderEventStatusUpdated, order, priority)
}

func (h *OrderController) DeleteOrder(c *gin.Context) {
	defer middlewares.TrackOperation(c, "delete_order")

	if err := h.repo.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "delete order")
		return
	}
	c.Status(http.StatusNoContent)
}

func orderEvent(eventType string, order *models.Order) models.OrderEvent {
	return models.OrderEvent{
		OrderID:  order.ID,
		Type:     eventType,
		Status:   order.Status,
		Total:    order.Total,
		Occurred: time.Now().UTC(),
	}
}

// publish is best effort: the write already succeeded, so a broker failure
// is only logged.
func (h *OrderController) publish(ctx context.Context, eventType string, order *models.Order, priority uint8) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishOrderEvent(ctx, orderEvent(eventType, order), priority); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"order_id": order.ID,
			"type":     eventType,
		}).Warn("Failed to publish order event")
		middlewares.RecordOrderEvent(eventType, "publish_failed")
		return
	}
	middlewares.RecordOrderEvent(eventType, "published")
}
