package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	"go.uber.org/zap"
)

// Publisher delivers a raw message to a named topic or queue.
// pkg/aws.SNSClient, pkg/aws.SQSClient, AMQPPublisher and KafkaPublisher satisfy it.
type Publisher interface {
	Publish(ctx context.Context, topic string, message []byte) error
}

// KeyedPublisher is implemented by brokers that partition by key. Order events
// are keyed by order id.
type KeyedPublisher interface {
	PublishWithKey(ctx context.Context, topic, key string, message []byte) error
}

// OrderEvents publishes order lifecycle events. Publishing is best effort:
// a failed publish is logged and never fails the request that caused it.
type OrderEvents struct {
	publisher Publisher
	topic     string
	log       *zap.Logger
}

// NewOrderEvents returns an emitter for topic. A nil publisher disables publishing.
func NewOrderEvents(publisher Publisher, topic string, log *zap.Logger) *OrderEvents {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderEvents{publisher: publisher, topic: topic, log: log}
}

// Emit builds the event for order and publishes it.
func (e *OrderEvents) Emit(ctx context.Context, eventType string, order *models.Order, previous models.OrderStatus) {
	if e == nil || e.publisher == nil || e.topic == "" {
		return
	}

	event := models.OrderEvent{
		EventType:      eventType,
		OrderID:        order.ID,
		UserID:         order.UserID,
		TotalAmount:    order.TotalAmount,
		OrderStatus:    order.OrderStatus,
		PreviousStatus: previous,
		PaymentStatus:  order.PaymentStatus,
		Timestamp:      time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		e.log.Error("Failed to marshal order event", zap.String("event_type", eventType), zap.Error(err))
		return
	}

	if kp, ok := e.publisher.(KeyedPublisher); ok {
		err = kp.PublishWithKey(ctx, e.topic, order.ID, body)
	} else {
		err = e.publisher.Publish(ctx, e.topic, body)
	}
	if err != nil {
		e.log.Warn("Failed to publish order event",
			zap.String("event_type", eventType),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		return
	}
	e.log.Debug("Published order event", zap.String("event_type", eventType), zap.String("order_id", order.ID))
}
