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

// CreateReservationCommand represents the command to book a table
type CreateReservationCommand struct {
	Guest           domain.Guest
	StartTime       time.Time
	DurationMinutes int
	PartySize       int
	TableID         uint
	SpecialRequests string
	RequestedBy     string
}

// CreateReservationHandler handles reservation creation
type CreateReservationHandler struct {
	tx       database.Transactor
	tables   tabledomain.TableRepository
	repo     domain.ReservationRepository
	engine   *availability.Engine
	events   EventPublisher
	settings Settings
}

// NewCreateReservationHandler creates a new create reservation handler
func NewCreateReservationHandler(
	tx database.Transactor,
	tables tabledomain.TableRepository,
	repo domain.ReservationRepository,
	engine *availability.Engine,
	events EventPublisher,
	settings Settings,
) *CreateReservationHandler {
	return &CreateReservationHandler{
		tx:       tx,
		tables:   tables,
		repo:     repo,
		engine:   engine,
		events:   events,
		settings: settings,
	}
}

// Handle executes the create reservation command. The availability check and the
// insert run in one transaction holding the table row lock, so two requests for the
// same table cannot both pass the check.
func (h *CreateReservationHandler) Handle(ctx context.Context, cmd CreateReservationCommand) (*domain.Reservation, error) {
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

	reservation := &domain.Reservation{
		GuestName:       cmd.Guest.Name,
		GuestPhone:      cmd.Guest.Phone,
		GuestEmail:      cmd.Guest.Email,
		PartySize:       cmd.PartySize,
		TableID:         cmd.TableID,
		Status:          domain.StatusPending,
		SpecialRequests: cmd.SpecialRequests,
		CreatedBy:       cmd.RequestedBy,
	}
	reservation.Schedule(cmd.StartTime, duration)

	err = h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		table, err := lockBookableTable(ctx, h.tables, cmd.TableID)
		if err != nil {
			return err
		}
		if err := ensureBookable(ctx, h.engine, table, reservation.Window(), cmd.PartySize, 0); err != nil {
			return err
		}
		return h.repo.Create(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, h.events, kafka.EventTypeReservationCreated, reservation)
	return reservation, nil
}

// lockBookableTable loads the table under a row lock and requires it to be active
func lockBookableTable(ctx context.Context, tables tabledomain.TableRepository, id uint) (*tabledomain.RestaurantTable, error) {
	table, err := tables.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !table.IsActive {
		return nil, apperror.Validation("table %d is not active", table.Number)
	}
	return table, nil
}

// ensureBookable runs the window, availability and capacity checks in that order
func ensureBookable(ctx context.Context, engine *availability.Engine, table *tabledomain.RestaurantTable, window domain.Window, partySize int, excludeID uint) error {
	available, err := engine.IsTableAvailable(ctx, table.ID, window, excludeID)
	if err != nil {
		return err
	}
	if !available {
		return apperror.Conflict("table not available")
	}
	if !table.Seats(partySize) {
		return apperror.Validation("party of %d exceeds table capacity %d", partySize, table.Capacity)
	}
	return nil
}
