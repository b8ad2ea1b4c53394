package command

import (
	"context"
	"time"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/reservation/availability"
	"github.com/tair/restaurant-backend/internal/reservation/domain"
	tabledomain "github.com/tair/restaurant-backend/internal/table/domain"
	"github.com/tair/restaurant-backend/kafka"
	"github.com/tair/restaurant-backend/pkg/database"
)

// UpdateReservationCommand overwrites guest data, schedule, party size and table
type UpdateReservationCommand struct {
	ID              uint
	Guest           domain.Guest
	StartTime       time.Time
	DurationMinutes int
	PartySize       int
	TableID         uint
	SpecialRequests string
}

// UpdateReservationHandler handles reservation updates
type UpdateReservationHandler struct {
	tx       database.Transactor
	tables   tabledomain.TableRepository
	repo     domain.ReservationRepository
	engine   *availability.Engine
	events   EventPublisher
	settings Settings
}

// NewUpdateReservationHandler creates a new update reservation handler
func NewUpdateReservationHandler(
	tx database.Transactor,
	tables tabledomain.TableRepository,
	repo domain.ReservationRepository,
	engine *availability.Engine,
	events EventPublisher,
	settings Settings,
) *UpdateReservationHandler {
	return &UpdateReservationHandler{
		tx:       tx,
		tables:   tables,
		repo:     repo,
		engine:   engine,
		events:   events,
		settings: settings,
	}
}

// Handle executes the update command. The reservation itself is left out of the
// conflict set so it can be moved within its own slot.
func (h *UpdateReservationHandler) Handle(ctx context.Context, cmd UpdateReservationCommand) (*domain.Reservation, error) {
	if err := cmd.Guest.Validate(); err != nil {
		return nil, err
	}
	duration, err := h.settings.Duration(cmd.DurationMinutes)
	if err != nil {
		return nil, err
	}
	if cmd.PartySize < 1 {
		return nil, apperror.Validation("party size must be at least 1")
	}

	var reservation *domain.Reservation
	err = h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		reservation, err = h.repo.FindByID(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if !reservation.Status.IsActive() {
			return apperror.Conflict("reservation is %s and cannot be changed", reservation.Status)
		}

		table, err := h.lockTables(ctx, reservation.TableID, cmd.TableID)
		if err != nil {
			return err
		}

		window := domain.NewWindow(cmd.StartTime, duration)
		if err := ensureBookable(ctx, h.engine, table, window, cmd.PartySize, reservation.ID); err != nil {
			return err
		}

		reservation.GuestName = cmd.Guest.Name
		reservation.GuestPhone = cmd.Guest.Phone
		reservation.GuestEmail = cmd.Guest.Email
		reservation.PartySize = cmd.PartySize
		reservation.SpecialRequests = cmd.SpecialRequests
		reservation.TableID = table.ID
		reservation.Table = table
		reservation.Schedule(cmd.StartTime, duration)
		return h.repo.Update(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, h.events, kafka.EventTypeReservationUpdated, reservation)
	return reservation, nil
}

// lockTables locks the current and the target table in id order and returns the target
func (h *UpdateReservationHandler) lockTables(ctx context.Context, currentID, targetID uint) (*tabledomain.RestaurantTable, error) {
	if currentID < targetID {
		if _, err := h.tables.FindByIDForUpdate(ctx, currentID); err != nil && !apperror.IsNotFound(err) {
			return nil, err
		}
	}

	target, err := lockBookableTable(ctx, h.tables, targetID)
	if err != nil {
		return nil, err
	}

	if currentID > targetID {
		if _, err := h.tables.FindByIDForUpdate(ctx, currentID); err != nil && !apperror.IsNotFound(err) {
			return nil, err
		}
	}
	return target, nil
}
