package storetest

import (
	"context"
	"sync"

	"github.com/tair/restaurant-backend/kafka"
)

// Events records published events instead of sending them
type Events struct {
	mu           sync.Mutex
	Reservations []kafka.ReservationEvent
	Orders       []kafka.OrderEvent
	Stock        []kafka.StockEvent
	Err          error
}

func (e *Events) PublishReservationEvent(_ context.Context, event kafka.ReservationEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Reservations = append(e.Reservations, event)
	return e.Err
}

func (e *Events) PublishOrderEvent(_ context.Context, event kafka.OrderEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Orders = append(e.Orders, event)
	return e.Err
}

func (e *Events) PublishStockEvent(_ context.Context, event kafka.StockEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Stock = append(e.Stock, event)
	return e.Err
}

// OrderEventTypes lists the order event types in publish order
func (e *Events) OrderEventTypes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	types := make([]string, 0, len(e.Orders))
	for _, ev := range e.Orders {
		types = append(types, ev.EventType)
	}
	return types
}
