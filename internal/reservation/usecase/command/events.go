package command

import (
	"context"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/reservation/domain"
	"github.com/tair/restaurant-backend/kafka"
	"github.com/tair/restaurant-backend/pkg/logger"
)

// EventPublisher is satisfied by *kafka.Publisher and kafka.NopPublisher
type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, event kafka.ReservationEvent) error
}

// Settings carries configurable defaults
type Settings struct {
	DefaultDurationMinutes int
}

// Duration resolves a requested duration; zero falls back to the configured default
func (s Settings) Duration(requested int) (int, error) {
	switch {
	case requested < 0:
		return 0, apperror.Validation("duration must be positive")
	case requested > 0:
		return requested, nil
	case s.DefaultDurationMinutes > 0:
		return s.DefaultDurationMinutes, nil
	}
	return domain.DefaultDurationMinutes, nil
}

// publish runs after commit; a broker failure is logged and never fails the request
func publish(ctx context.Context, events EventPublisher, eventType string, r *domain.Reservation) {
	err := events.PublishReservationEvent(ctx, kafka.ReservationEvent{
		EventType:     eventType,
		ReservationID: r.ID,
		TableID:       r.TableID,
		Status:        string(r.Status),
		GuestName:     r.GuestName,
		PartySize:     r.PartySize,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
	})
	if err != nil {
		logger.Warn(ctx).
			Err(err).
			Uint("reservation_id", r.ID).
			Str("event_type", eventType).
			Msg("Failed to publish reservation event")
	}
}
