package command

import (
	"context"

	"github.com/tair/restaurant-backend/internal/reservation/domain"
	"github.com/tair/restaurant-backend/kafka"
)

// ConfirmReservationCommand confirms a pending reservation. Availability is not re-checked.
type ConfirmReservationCommand struct {
	ID uint
}

// CancelReservationCommand cancels a reservation in any state
type CancelReservationCommand struct {
	ID uint
}

// CompleteReservationCommand closes a confirmed reservation
type CompleteReservationCommand struct {
	ID uint
}

// ChangeStatusHandler applies lifecycle transitions
type ChangeStatusHandler struct {
	repo   domain.ReservationRepository
	events EventPublisher
}

// NewChangeStatusHandler creates a new change status handler
func NewChangeStatusHandler(repo domain.ReservationRepository, events EventPublisher) *ChangeStatusHandler {
	return &ChangeStatusHandler{repo: repo, events: events}
}

// Confirm executes the confirm command
func (h *ChangeStatusHandler) Confirm(ctx context.Context, cmd ConfirmReservationCommand) (*domain.Reservation, error) {
	return h.transition(ctx, cmd.ID, (*domain.Reservation).Confirm)
}

// Cancel executes the cancel command; cancelling twice succeeds
func (h *ChangeStatusHandler) Cancel(ctx context.Context, cmd CancelReservationCommand) (*domain.Reservation, error) {
	return h.transition(ctx, cmd.ID, func(r *domain.Reservation) error {
		r.Cancel()
		return nil
	})
}

// Complete executes the complete command
func (h *ChangeStatusHandler) Complete(ctx context.Context, cmd CompleteReservationCommand) (*domain.Reservation, error) {
	return h.transition(ctx, cmd.ID, (*domain.Reservation).Complete)
}

func (h *ChangeStatusHandler) transition(ctx context.Context, id uint, apply func(*domain.Reservation) error) (*domain.Reservation, error) {
	reservation, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := reservation.Status
	if err := apply(reservation); err != nil {
		return nil, err
	}
	if reservation.Status == before {
		return reservation, nil
	}

	if err := h.repo.Update(ctx, reservation); err != nil {
		return nil, err
	}
	publish(ctx, h.events, kafka.EventTypeReservationStatusChanged, reservation)
	return reservation, nil
}
