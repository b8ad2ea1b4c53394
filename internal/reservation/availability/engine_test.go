package availability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/reservation/availability"
	"github.com/tair/restaurant-backend/internal/reservation/domain"
	"github.com/tair/restaurant-backend/internal/storetest"
	tabledomain "github.com/tair/restaurant-backend/internal/table/domain"
)

func TestEngine(t *testing.T) {
	ctx := context.Background()
	store := storetest.New()
	tables := store.Tables()
	reservations := store.Reservations()

	add := func(number, capacity int, active bool) *tabledomain.RestaurantTable {
		tbl := &tabledomain.RestaurantTable{Number: number, Capacity: capacity, Type: tabledomain.TypeStandard, IsActive: active}
		require.NoError(t, tables.Create(ctx, tbl))
		return tbl
	}
	small := add(1, 2, true)
	large := add(2, 6, true)
	add(3, 8, false)

	start := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	booked := &domain.Reservation{GuestName: "g", PartySize: 4, TableID: large.ID, Status: domain.StatusConfirmed}
	booked.Schedule(start, 120)
	require.NoError(t, reservations.Create(ctx, booked))
	cancelled := &domain.Reservation{GuestName: "g", PartySize: 2, TableID: small.ID, Status: domain.StatusCancelled}
	cancelled.Schedule(start, 120)
	require.NoError(t, reservations.Create(ctx, cancelled))

	engine := availability.NewEngine(tables, reservations)

	t.Run("capacity and conflicts", func(t *testing.T) {
		free, err := engine.FindAvailableTables(ctx, domain.NewWindow(start.Add(time.Hour), 60), 2)
		require.NoError(t, err)
		require.Len(t, free, 1)
		assert.Equal(t, small.ID, free[0].ID)
	})

	t.Run("nothing fits", func(t *testing.T) {
		free, err := engine.FindAvailableTables(ctx, domain.NewWindow(start, 60), 7)
		require.NoError(t, err)
		assert.Empty(t, free)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := engine.FindAvailableTables(ctx, domain.NewWindow(start, 0), 2)
		assert.True(t, apperror.IsValidation(err))
		_, err = engine.FindAvailableTables(ctx, domain.NewWindow(start, 60), 0)
		assert.True(t, apperror.IsValidation(err))
	})

	t.Run("exclude self", func(t *testing.T) {
		ok, err := engine.IsTableAvailable(ctx, large.ID, domain.NewWindow(start, 30), 0)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = engine.IsTableAvailable(ctx, large.ID, domain.NewWindow(start, 30), booked.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
