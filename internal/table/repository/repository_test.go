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
	"github.com/tair/restaurant-backend/internal/table/domain"
	"github.com/tair/restaurant-backend/internal/table/repository"
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

var tableColumns = []string{"id", "number", "capacity", "type", "location", "is_active", "created_at", "updated_at"}

func TestCreate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormTableRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "restaurant_tables"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	table := &domain.RestaurantTable{Number: 1, Capacity: 4, Type: domain.TypeStandard, IsActive: true}
	err := repo.Create(context.Background(), table)

	assert.NoError(t, err)
	assert.Equal(t, uint(1), table.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormTableRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "restaurant_tables"`)).
		WillReturnRows(sqlmock.NewRows(tableColumns))

	table, err := repo.FindByID(context.Background(), 9)
	assert.Nil(t, table)
	assert.True(t, apperror.IsNotFound(err))
}

func TestFindAll_AppliesFilter(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormTableRepository(gormDB)

	now := time.Now()
	rows := sqlmock.NewRows(tableColumns).
		AddRow(1, 1, 4, "standard", "hall", true, now, now).
		AddRow(3, 3, 6, "standard", "terrace", true, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "restaurant_tables" WHERE is_active = $1 AND capacity >= $2 AND type = $3 ORDER BY id`)).
		WithArgs(true, 4, "standard").
		WillReturnRows(rows)

	tables, err := repo.FindAll(context.Background(), domain.TableFilter{ActiveOnly: true, MinCapacity: 4, Type: domain.TypeStandard})
	require.NoError(t, err)
	assert.Len(t, tables, 2)
	assert.Equal(t, 6, tables[1].Capacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}
