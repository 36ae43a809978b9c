package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusUnpaid, PaymentStatusRefunded:
		return true
	}
	return false
}

type Customer struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
}

type OrderItem struct {
	ProductID   string  `json:"productId" binding:"required"`
	ProductName string  `json:"productName" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"gte=0"`
	Image       string  `json:"image"`
}

type Order struct {
	ID             string        `json:"id"`
	Customer       Customer      `json:"customer"`
	Items          []OrderItem   `json:"items"`
	Subtotal       float64       `json:"subtotal"`
	Tax            float64       `json:"tax"`
	Total          float64       `json:"total"`
	Status         OrderStatus   `json:"status"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	PaymentMethod  string        `json:"paymentMethod"`
	Date           time.Time     `json:"date"`
	TrackingNumber string        `json:"trackingNumber,omitempty"`
}

// OrderInput is the payload accepted when an order is placed. Totals are
// always computed by the store.
type OrderInput struct {
	Customer       Customer      `json:"customer" binding:"required"`
	Items          []OrderItem   `json:"items" binding:"required,min=1,dive"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	PaymentMethod  string        `json:"paymentMethod"`
	TrackingNumber string        `json:"trackingNumber"`
}

type OrderEvent struct {
	OrderID  string      `json:"order_id"`
	Type     string      `json:"type"` // created, status_updated, payment_check
	Status   OrderStatus `json:"status"`
	Total    float64     `json:"total"`
	Occurred time.Time   `json:"occurred"`
}

const (
	OrderEventCreated       = "created"
	OrderEventStatusUpdated = "status_updated"
	OrderEventPaymentCheck  = "payment_check"
)
