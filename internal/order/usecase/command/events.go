package command

import (
	"context"

	"github.com/tair/restaurant-backend/internal/order/domain"
	"github.com/tair/restaurant-backend/kafka"
	"github.com/tair/restaurant-backend/pkg/logger"
)

// EventPublisher is satisfied by *kafka.Publisher and kafka.NopPublisher
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event kafka.OrderEvent) error
}

// OrderEvent converts an order to its event payload
func OrderEvent(eventType string, order *domain.Order) kafka.OrderEvent {
	event := kafka.OrderEvent{
		EventType:   eventType,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TableID:     order.TableID,
		TotalAmount: order.TotalAmount.StringFixed(2),
		Items:       make([]kafka.OrderEventItem, 0, len(order.Items)),
	}
	if order.Status != nil {
		event.Status = order.Status.Name
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, kafka.OrderEventItem{DishID: item.DishID, Quantity: item.Quantity})
	}
	return event
}

// Publish runs after commit; a broker failure is logged and never fails the request
func Publish(ctx context.Context, events EventPublisher, eventType string, order *domain.Order) {
	if err := events.PublishOrderEvent(ctx, OrderEvent(eventType, order)); err != nil {
		logger.Warn(ctx).
			Err(err).
			Uint("order_id", order.ID).
			Str("event_type", eventType).
			Msg("Failed to publish order event")
	}
}
