package query

import (
	"context"
	"time"

	"github.com/tair/restaurant-backend/internal/reservation/availability"
	"github.com/tair/restaurant-backend/internal/reservation/domain"
	"github.com/tair/restaurant-backend/internal/reservation/usecase/command"
	tabledomain "github.com/tair/restaurant-backend/internal/table/domain"
)

// AvailableTablesQuery asks for tables free over [StartTime, StartTime+DurationMinutes).
// A zero duration uses the configured default.
type AvailableTablesQuery struct {
	StartTime       time.Time
	DurationMinutes int
	PartySize       int
}

// TableAvailabilityQuery asks whether one table is free
type TableAvailabilityQuery struct {
	TableID              uint
	StartTime            time.Time
	DurationMinutes      int
	ExcludeReservationID uint
}

// AvailabilityHandler exposes the availability engine to the transport layer
type AvailabilityHandler struct {
	engine   *availability.Engine
	settings command.Settings
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(engine *availability.Engine, settings command.Settings) *AvailabilityHandler {
	return &AvailabilityHandler{engine: engine, settings: settings}
}

// AvailableTables returns the free tables ordered by id
func (h *AvailabilityHandler) AvailableTables(ctx context.Context, query AvailableTablesQuery) ([]tabledomain.RestaurantTable, error) {
	w, err := h.window(query.StartTime, query.DurationMinutes)
	if err != nil {
		return nil, err
	}
	return h.engine.FindAvailableTables(ctx, w, query.PartySize)
}

// IsTableAvailable checks a single table
func (h *AvailabilityHandler) IsTableAvailable(ctx context.Context, query TableAvailabilityQuery) (bool, error) {
	w, err := h.window(query.StartTime, query.DurationMinutes)
	if err != nil {
		return false, err
	}
	return h.engine.IsTableAvailable(ctx, query.TableID, w, query.ExcludeReservationID)
}

func (h *AvailabilityHandler) window(start time.Time, durationMinutes int) (domain.Window, error) {
	minutes, err := h.settings.Duration(durationMinutes)
	if err != nil {
		return domain.Window{}, err
	}
	return domain.NewWindow(start, minutes), nil
}
