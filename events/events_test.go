package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockPublisher struct {
	topics   []string
	messages [][]byte
	err      error
}

func (m *mockPublisher) Publish(_ context.Context, topic string, message []byte) error {
	m.topics = append(m.topics, topic)
	m.messages = append(m.messages, message)
	return m.err
}

func testOrder() *models.Order {
	return &models.Order{
		ID:            "o1",
		UserID:        "u1",
		TotalAmount:   120,
		OrderStatus:   models.OrderStatusConfirmed,
		PaymentStatus: models.PaymentStatusCompleted,
	}
}

func TestOrderEvents_Emit(t *testing.T) {
	pub := &mockPublisher{}
	events := NewOrderEvents(pub, "order-events", zap.NewNop())

	events.Emit(context.Background(), models.EventOrderConfirmed, testOrder(), models.OrderStatusPlaced)

	require.Len(t, pub.messages, 1)
	assert.Equal(t, "order-events", pub.topics[0])

	var got models.OrderEvent
	require.NoError(t, json.Unmarshal(pub.messages[0], &got))
	assert.Equal(t, models.EventOrderConfirmed, got.EventType)
	assert.Equal(t, "o1", got.OrderID)
	assert.Equal(t, models.OrderStatusPlaced, got.PreviousStatus)
	assert.Equal(t, models.PaymentStatusCompleted, got.PaymentStatus)
	assert.False(t, got.Timestamp.IsZero())
}

func TestOrderEvents_PublishFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	pub := &mockPublisher{err: errors.New("broker down")}
	events := NewOrderEvents(pub, "order-events", zap.New(core))

	events.Emit(context.Background(), models.EventOrderCreated, testOrder(), "")

	assert.Equal(t, 1, logs.FilterMessage("Failed to publish order event").Len())
}

func TestOrderEvents_Disabled(t *testing.T) {
	var nilEvents *OrderEvents
	assert.NotPanics(t, func() {
		nilEvents.Emit(context.Background(), models.EventOrderCreated, testOrder(), "")
		NewOrderEvents(nil, "t", nil).Emit(context.Background(), models.EventOrderCreated, testOrder(), "")
	})

	pub := &mockPublisher{}
	NewOrderEvents(pub, "", nil).Emit(context.Background(), models.EventOrderCreated, testOrder(), "")
	assert.Empty(t, pub.messages)
}

type fakeChannel struct {
	declared  []string
	published []amqp.Publishing
	keys      []string
	closed    bool
}

func (f *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	f.declared = append(f.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.keys = append(f.keys, exchange+"/"+key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher_DeclaresQueueOnce(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, declared: map[string]bool{}}

	require.NoError(t, p.Publish(context.Background(), "order_events", []byte(`{"a":1}`)))
	require.NoError(t, p.Publish(context.Background(), "order_events", []byte(`{"a":2}`)))

	assert.Equal(t, []string{"order_events"}, ch.declared)
	assert.Equal(t, []string{"/order_events", "/order_events"}, ch.keys)
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, amqp.Persistent, ch.published[1].DeliveryMode)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

type fakeKafkaWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeKafkaWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeKafkaWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_KeysOrderEvents(t *testing.T) {
	w := &fakeKafkaWriter{}
	p := &KafkaPublisher{writer: w}

	NewOrderEvents(p, "order_events", zap.NewNop()).
		Emit(context.Background(), models.EventOrderCreated, testOrder(), "")

	require.Len(t, w.messages, 1)
	assert.Equal(t, "order_events", w.messages[0].Topic)
	assert.Equal(t, []byte("o1"), w.messages[0].Key)

	require.NoError(t, p.Publish(context.Background(), "other", []byte("x")))
	assert.Nil(t, w.messages[1].Key)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeKafkaWriter{err: errors.New("broker down")}}

	err := p.Publish(context.Background(), "order_events", []byte("x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "order_events")
	assert.Contains(t, err.Error(), "broker down")
}
