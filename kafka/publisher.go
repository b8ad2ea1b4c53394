package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/restaurant-backend/pkg/breaker"
	"github.com/tair/restaurant-backend/pkg/logger"
)

// Publisher wraps a Kafka sync producer. Sends go through a circuit breaker so
// an unreachable cluster fails fast instead of stalling every request.
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
	breaker  *breaker.Breaker
	now      func() time.Time
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return NewPublisherWithProducer(producer, brokers), nil
}

// NewPublisherWithProducer builds a publisher around an existing producer
func NewPublisherWithProducer(producer sarama.SyncProducer, brokers []string) *Publisher {
	return &Publisher{
		producer: producer,
		brokers:  brokers,
		breaker:  breaker.New("kafka", breaker.DefaultConfig()),
		now:      time.Now,
	}
}

// PublishReservationEvent publishes to the reservation topic keyed by table
func (p *Publisher) PublishReservationEvent(ctx context.Context, event ReservationEvent) error {
	if event.EventID == "" {
		event.EventID = newEventID()
	}
	event.Timestamp = p.now()

	return p.publish(ctx, TopicReservationEvents, event.EventType, event.EventID,
		fmt.Sprintf("table_%d", event.TableID), event,
		attribute.Int64("reservation.id", int64(event.ReservationID)),
		attribute.Int64("table.id", int64(event.TableID)),
	)
}

// PublishOrderEvent publishes to the order topic keyed by order
func (p *Publisher) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	if event.EventID == "" {
		event.EventID = newEventID()
	}
	event.Timestamp = p.now()

	return p.publish(ctx, TopicOrderEvents, event.EventType, event.EventID,
		fmt.Sprintf("order_%d", event.OrderID), event,
		attribute.Int64("order.id", int64(event.OrderID)),
		attribute.String("order.status", event.Status),
	)
}

// PublishStockEvent publishes to the inventory topic keyed by ingredient
func (p *Publisher) PublishStockEvent(ctx context.Context, event StockEvent) error {
	if event.EventID == "" {
		event.EventID = newEventID()
	}
	event.Timestamp = p.now()

	return p.publish(ctx, TopicInventoryEvents, event.EventType, event.EventID,
		fmt.Sprintf("ingredient_%d", event.IngredientID), event,
		attribute.Int64("ingredient.id", int64(event.IngredientID)),
	)
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, eventID, key string, payload interface{}, attrs ...attribute.KeyValue) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish "+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topic),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID),
		),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// trace context travels in headers so consumers continue the trace
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(eventType)},
		{Key: []byte("event_id"), Value: []byte(eventID)},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(body),
		Headers: headers,
	}

	var (
		partition int32
		offset    int64
	)
	err = p.breaker.Call(func() error {
		var sendErr error
		partition, offset, sendErr = p.producer.SendMessage(msg)
		return sendErr
	})
	if errors.Is(err, breaker.ErrOpen) {
		span.SetStatus(codes.Error, "Circuit open")
		logger.Warn(ctx).
			Str("topic", topic).
			Str("event_type", eventType).
			Str("event_id", eventID).
			Msg("Kafka circuit open, event dropped")
		return fmt.Errorf("event %s not published: %w", eventID, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Error(ctx).
			Err(err).
			Str("topic", topic).
			Str("event_type", eventType).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "")

	logger.Debug(ctx).
		Str("event_id", eventID).
		Str("event_type", eventType).
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Event published")
	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// Ping opens a short-lived client and checks that at least one broker answers
func (p *Publisher) Ping(ctx context.Context) error {
	config := sarama.NewConfig()
	config.Net.DialTimeout = 2 * time.Second
	config.Metadata.Retry.Max = 0
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d > 0 && d < config.Net.DialTimeout {
			config.Net.DialTimeout = d
		}
	}

	client, err := sarama.NewClient(p.brokers, config)
	if err != nil {
		return fmt.Errorf("kafka unreachable: %w", err)
	}
	defer client.Close()

	if len(client.Brokers()) == 0 {
		return fmt.Errorf("kafka has no brokers")
	}
	return nil
}

func newEventID() string {
	return "evt_" + uuid.NewString()
}

// NopPublisher drops every event; used when Kafka is disabled
type NopPublisher struct{}

func (NopPublisher) PublishReservationEvent(context.Context, ReservationEvent) error { return nil }
func (NopPublisher) PublishOrderEvent(context.Context, OrderEvent) error { return nil }
func (NopPublisher) PublishStockEvent(context.Context, StockEvent) error { return nil }
func (NopPublisher) Close() error { return nil }
