package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/reservation/domain"
	"github.com/tair/restaurant-backend/internal/reservation/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestCreate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormReservationRepository(gormDB)

	r := &domain.Reservation{GuestName: "Aigerim", PartySize: 2, TableID: 1, Status: domain.StatusPending}
	r.Schedule(time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC), 90)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reservations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, uint(7), r.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormReservationRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reservations" WHERE "reservations"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 42)
	assert.True(t, apperror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindConflicting_QueriesActiveOverlap(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormReservationRepository(gormDB)

	start := time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)
	window := domain.NewWindow(start, 60)

	mock.ExpectQuery(`FROM "reservations" WHERE table_id = \$1 AND status IN \(\$2,\$3\) AND .*start_time < \$4 AND end_time > \$5.* AND id <> \$6 ORDER BY start_time`).
		WithArgs(3, "pending", "confirmed", sqlmock.AnyArg(), sqlmock.AnyArg(), 9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "table_id", "status"}).AddRow(5, 3, "confirmed"))

	conflicts, err := repo.FindConflicting(context.Background(), 3, window, 9)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, uint(5), conflicts[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindReservedTableIDs(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormReservationRepository(gormDB)

	mock.ExpectQuery(`SELECT DISTINCT "table_id" FROM "reservations" WHERE status IN`).
		WillReturnRows(sqlmock.NewRows([]string{"table_id"}).AddRow(1).AddRow(4))

	ids, err := repo.FindReservedTableIDs(context.Background(), domain.NewWindow(time.Now(), 30))
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 4}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
