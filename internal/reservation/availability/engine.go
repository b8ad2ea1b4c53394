// Package availability answers which tables are free for a party over a time window.
package availability

import (
	"context"
	"sort"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/reservation/domain"
	tabledomain "github.com/tair/restaurant-backend/internal/table/domain"
)

// Engine combines the table registry with reservation conflict queries
type Engine struct {
	tables       tabledomain.TableRepository
	reservations domain.ReservationRepository
}

func NewEngine(tables tabledomain.TableRepository, reservations domain.ReservationRepository) *Engine {
	return &Engine{tables: tables, reservations: reservations}
}

// FindAvailableTables returns active tables seating minCapacity guests that have no
// active reservation overlapping window, ordered by id
func (e *Engine) FindAvailableTables(ctx context.Context, window domain.Window, minCapacity int) ([]tabledomain.RestaurantTable, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if minCapacity < 1 {
		return nil, apperror.Validation("party size must be at least 1")
	}

	candidates, err := e.tables.FindAll(ctx, tabledomain.TableFilter{ActiveOnly: true, MinCapacity: minCapacity})
	if err != nil {
		return nil, err
	}
	reserved, err := e.reservations.FindReservedTableIDs(ctx, window)
	if err != nil {
		return nil, err
	}

	taken := make(map[uint]struct{}, len(reserved))
	for _, id := range reserved {
		taken[id] = struct{}{}
	}

	available := make([]tabledomain.RestaurantTable, 0, len(candidates))
	for _, t := range candidates {
		if _, ok := taken[t.ID]; !ok {
			available = append(available, t)
		}
	}
	sort.Slice(available, func(i, j int) bool { return available[i].ID < available[j].ID })
	return available, nil
}

// IsTableAvailable reports whether tableID has no active reservation overlapping window.
// excludeID drops the reservation being rescheduled from its own conflict set; 0 excludes nothing.
func (e *Engine) IsTableAvailable(ctx context.Context, tableID uint, window domain.Window, excludeID uint) (bool, error) {
	if err := window.Validate(); err != nil {
		return false, err
	}
	conflicts, err := e.reservations.FindConflicting(ctx, tableID, window, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}
