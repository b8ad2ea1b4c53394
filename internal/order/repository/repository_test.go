package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/order/repository"
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

func TestDeleteItem_ScopedToOrder(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "order_items" WHERE order_id = \$1 AND "order_items"."id" = \$2`).
		WithArgs(3, 11).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.DeleteItem(context.Background(), 3, 11)
	assert.True(t, apperror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByNumber_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE order_number = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByNumber(context.Background(), "ORD-1-ABCDEF12")
	assert.True(t, apperror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountPaidBetween(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "orders" JOIN order_statuses ON order_statuses.id = orders.status_id WHERE order_statuses.is_paid = \$1 AND \(orders.created_at >= \$2 AND orders.created_at < \$3\)`).
		WithArgs(true, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountPaidBetween(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPopularDishes_GroupsByDish(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(`SELECT order_items.dish_id, MAX\(order_items.dish_name\) AS dish_name, SUM\(order_items.quantity\) AS quantity FROM "order_items" JOIN orders ON .* GROUP BY .*dish_id"? ORDER BY quantity DESC, order_items.dish_id LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"dish_id", "dish_name", "quantity"}).
			AddRow(2, "Plov", 17).
			AddRow(5, "Tea", 9))

	dishes, err := repo.PopularDishes(context.Background(), from, to, 10)
	require.NoError(t, err)
	require.Len(t, dishes, 2)
	assert.Equal(t, "Plov", dishes[0].DishName)
	assert.Equal(t, int64(17), dishes[0].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusFindPaid_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormStatusRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "order_statuses" WHERE is_paid = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindPaid(context.Background())
	assert.True(t, apperror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
