package models

import "time"

const (
	EventOrderCreated       = "order_created"
	EventOrderConfirmed     = "order_confirmed"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderCancelled     = "order_cancelled"
)

// OrderEvent is published on every order lifecycle change.
type OrderEvent struct {
	EventType      string        `json:"event_type"`
	OrderID        string        `json:"order_id"`
	UserID         string        `json:"user_id"`
	TotalAmount    float64       `json:"total_amount"`
	OrderStatus    OrderStatus   `json:"order_status"`
	PreviousStatus OrderStatus   `json:"previous_status,omitempty"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	Timestamp      time.Time     `json:"timestamp"`
}
