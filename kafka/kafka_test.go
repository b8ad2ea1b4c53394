package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/restaurant-backend/pkg/breaker"
)

func header(msg *sarama.ProducerMessage, key string) string {
	for _, h := range msg.Headers {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublishOrderEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	fixed := time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC)

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, TopicOrderEvents, msg.Topic)
		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, "order_42", string(key))
		assert.Equal(t, EventTypeOrderPaid, header(msg, "event_type"))
		assert.NotEmpty(t, header(msg, "event_id"))

		body, err := msg.Value.Encode()
		require.NoError(t, err)
		var event OrderEvent
		require.NoError(t, json.Unmarshal(body, &event))
		assert.Equal(t, uint(42), event.OrderID)
		assert.Equal(t, "31.50", event.TotalAmount)
		assert.True(t, fixed.Equal(event.Timestamp))
		return nil
	})

	p := NewPublisherWithProducer(producer, []string{"localhost:9092"})
	p.now = func() time.Time { return fixed }

	err := p.PublishOrderEvent(context.Background(), OrderEvent{
		EventType:   EventTypeOrderPaid,
		OrderID:     42,
		TotalAmount: "31.50",
		Items:       []OrderEventItem{{DishID: 3, Quantity: 2}},
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestPublishStockEvent_Key(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, TopicInventoryEvents, msg.Topic)
		key, _ := msg.Key.Encode()
		assert.Equal(t, "ingredient_7", string(key))
		return nil
	})

	p := NewPublisherWithProducer(producer, nil)
	require.NoError(t, p.PublishStockEvent(context.Background(), StockEvent{EventType: EventTypeStockLow, IngredientID: 7}))
	require.NoError(t, p.Close())
}

func TestPublish_CircuitOpensAfterFailures(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	sendErr := errors.New("kafka: client has run out of available brokers")
	for i := 0; i < breaker.DefaultConfig().MaxFailures; i++ {
		producer.ExpectSendMessageAndFail(sendErr)
	}

	p := NewPublisherWithProducer(producer, nil)
	event := ReservationEvent{EventType: EventTypeReservationCreated, ReservationID: 1, TableID: 2}
	for i := 0; i < breaker.DefaultConfig().MaxFailures; i++ {
		err := p.PublishReservationEvent(context.Background(), event)
		assert.ErrorIs(t, err, sendErr)
	}

	err := p.PublishReservationEvent(context.Background(), event)
	assert.ErrorIs(t, err, breaker.ErrOpen)
	require.NoError(t, p.Close())
}

func TestDispatch(t *testing.T) {
	var got []OrderEvent
	c := &Consumer{handlers: make(map[string]OrderEventHandler)}
	c.RegisterHandler(EventTypeOrderPaid, func(_ context.Context, event OrderEvent) error {
		got = append(got, event)
		return nil
	})

	body, err := json.Marshal(OrderEvent{EventType: EventTypeOrderPaid, OrderID: 9})
	require.NoError(t, err)
	message := func(eventType string) *sarama.ConsumerMessage {
		return &sarama.ConsumerMessage{
			Topic: TopicOrderEvents,
			Value: body,
			Headers: []*sarama.RecordHeader{
				{Key: []byte("event_type"), Value: []byte(eventType)},
				{Key: []byte("event_id"), Value: []byte("evt_1")},
			},
		}
	}

	require.NoError(t, c.dispatch(context.Background(), message(EventTypeOrderPaid)))
	require.NoError(t, c.dispatch(context.Background(), message(EventTypeOrderCreated)))
	require.NoError(t, c.dispatch(context.Background(), &sarama.ConsumerMessage{Topic: TopicOrderEvents, Value: body}))

	require.Len(t, got, 1)
	assert.Equal(t, uint(9), got[0].OrderID)
}

func TestDispatch_HandlerErrorIsReturned(t *testing.T) {
	c := &Consumer{handlers: make(map[string]OrderEventHandler)}
	c.RegisterHandler(EventTypeOrderPaid, func(context.Context, OrderEvent) error {
		return errors.New("insufficient stock")
	})

	err := c.dispatch(context.Background(), &sarama.ConsumerMessage{
		Value:   []byte(`{"order_id":1}`),
		Headers: []*sarama.RecordHeader{{Key: []byte("event_type"), Value: []byte(EventTypeOrderPaid)}},
	})
	assert.EqualError(t, err, "insufficient stock")
}
