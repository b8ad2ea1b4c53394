package query_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/reservation/availability"
	"github.com/tair/restaurant-backend/internal/reservation/domain"
	"github.com/tair/restaurant-backend/internal/reservation/usecase/command"
	"github.com/tair/restaurant-backend/internal/reservation/usecase/query"
	"github.com/tair/restaurant-backend/internal/storetest"
	tabledomain "github.com/tair/restaurant-backend/internal/table/domain"
)

func TestAvailability_UsesConfiguredDefaultDuration(t *testing.T) {
	ctx := context.Background()
	store := storetest.New()

	table := &tabledomain.RestaurantTable{Number: 1, Capacity: 4, Type: tabledomain.TypeStandard, IsActive: true}
	require.NoError(t, store.Tables().Create(ctx, table))

	dinner := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	booked := &domain.Reservation{GuestName: "g", PartySize: 2, TableID: table.ID, Status: domain.StatusConfirmed}
	booked.Schedule(dinner, 90)
	require.NoError(t, store.Reservations().Create(ctx, booked))

	engine := availability.NewEngine(store.Tables(), store.Reservations())
	early := dinner.Add(-75 * time.Minute)

	short := query.NewAvailabilityHandler(engine, command.Settings{DefaultDurationMinutes: 60})
	free, err := short.AvailableTables(ctx, query.AvailableTablesQuery{StartTime: early, PartySize: 2})
	require.NoError(t, err)
	require.Len(t, free, 1)
	ok, err := short.IsTableAvailable(ctx, query.TableAvailabilityQuery{TableID: table.ID, StartTime: early})
	require.NoError(t, err)
	assert.True(t, ok)

	unset := query.NewAvailabilityHandler(engine, command.Settings{})
	free, err = unset.AvailableTables(ctx, query.AvailableTablesQuery{StartTime: early, PartySize: 2})
	require.NoError(t, err)
	assert.Empty(t, free)
	ok, err = unset.IsTableAvailable(ctx, query.TableAvailabilityQuery{TableID: table.ID, StartTime: early})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = short.IsTableAvailable(ctx, query.TableAvailabilityQuery{TableID: table.ID, StartTime: early, DurationMinutes: 90})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = short.AvailableTables(ctx, query.AvailableTablesQuery{StartTime: early, DurationMinutes: -30, PartySize: 2})
	assert.True(t, apperror.IsValidation(err))
}
