package models

import (
	"fmt"
	"time"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// statusRank orders the forward path. cancelled has no rank.
var statusRank = map[OrderStatus]int{
	OrderStatusPlaced:    1,
	OrderStatusConfirmed: 2,
	OrderStatusShipped:   3,
	OrderStatusDelivered: 4,
}

// IsValid reports whether s is a known order status.
func (s OrderStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok || s == OrderStatusCancelled
}

// Cancellable reports whether an order in status s may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPlaced || s == OrderStatusConfirmed
}

// ValidateTransition checks a status change. Moves are forward only, cancelled
// is reachable from placed or confirmed, and a cancelled order never changes.
func ValidateTransition(from, to OrderStatus) error {
	if from == OrderStatusCancelled {
		return fmt.Errorf("cannot update a cancelled order")
	}
	if to == OrderStatusCancelled {
		if from.Cancellable() {
			return nil
		}
		return fmt.Errorf("invalid status transition from %s to %s", from, to)
	}
	if statusRank[to] <= statusRank[from] {
		return fmt.Errorf("invalid status transition from %s to %s", from, to)
	}
	return nil
}

type OrderItem struct {
	SweetID      string  `bson:"sweet_id" json:"sweetId"`
	Name         string  `bson:"name" json:"name"`
	Price        float64 `bson:"price" json:"price"`
	Quantity     int     `bson:"quantity" json:"quantity"`
	SelectedSize string  `bson:"selected_size,omitempty" json:"selectedSize,omitempty"`
}

type DeliveryInfo struct {
	FullName string `bson:"full_name" json:"fullName"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone" json:"phone"`
	Street   string `bson:"street" json:"street"`
	City     string `bson:"city" json:"city"`
	State    string `bson:"state" json:"state"`
	Pincode  string `bson:"pincode" json:"pincode"`
}

type Order struct {
	ID                    string        `bson:"_id" json:"_id"`
	UserID                string        `bson:"user_id" json:"userId"`
	Items                 []OrderItem   `bson:"items" json:"items"`
	TotalAmount           float64       `bson:"total_amount" json:"totalAmount"`
	PaymentStatus         PaymentStatus `bson:"payment_status" json:"paymentStatus"`
	PaymentID             string        `bson:"payment_id,omitempty" json:"paymentId,omitempty"`
	PaymentIntentID       string        `bson:"payment_intent_id" json:"paymentIntentId"`
	DeliveryInfo          DeliveryInfo  `bson:"delivery_info" json:"deliveryInfo"`
	EstimatedDeliveryDate string        `bson:"estimated_delivery_date" json:"estimatedDeliveryDate"`
	OrderStatus           OrderStatus   `bson:"order_status" json:"orderStatus"`
	CreatedAt             time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt             time.Time     `bson:"updated_at" json:"updatedAt"`
}

// Subtotal is the sum of price times quantity over the line items.
func (o *Order) Subtotal() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// CreateOrderRequest is validated by the order service so each rule has its own message.
type CreateOrderRequest struct {
	Items                 []OrderItem  `json:"items"`
	TotalAmount           float64      `json:"totalAmount"`
	DeliveryInfo          DeliveryInfo `json:"deliveryInfo"`
	EstimatedDeliveryDate string       `json:"estimatedDeliveryDate"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus OrderStatus `json:"orderStatus"`
}

// CreateOrderResponse is returned from POST /orders.
type CreateOrderResponse struct {
	ID                    string        `json:"_id"`
	PaymentIntentID       string        `json:"paymentIntentId"`
	TotalAmount           float64       `json:"totalAmount"`
	EstimatedDeliveryDate string        `json:"estimatedDeliveryDate"`
	OrderStatus           OrderStatus   `json:"orderStatus"`
	PaymentStatus         PaymentStatus `json:"paymentStatus"`
}
