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
	"github.com/tair/restaurant-backend/internal/payment/domain"
	"github.com/tair/restaurant-backend/internal/payment/repository"
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

func TestFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormPaymentRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE "payments"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), 7)
	assert.True(t, apperror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByOrder(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormPaymentRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "payments" WHERE order_id = \$1 ORDER BY created_at, id`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "amount", "method", "status"}).
			AddRow(1, 5, "20.00", "card", "failed").
			AddRow(2, 5, "20.00", "cash", "paid"))

	payments, err := repo.FindByOrder(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, domain.StatusPaid, payments[1].Status)
	assert.Equal(t, "20.00", payments[1].Amount.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevenueByMethod_OnlyPaidInRange(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormPaymentRepository(gormDB)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	mock.ExpectQuery(`SELECT method, SUM\(amount\) AS amount, COUNT\(\*\) AS count FROM "payments" WHERE status = \$1 AND \(paid_at >= \$2 AND paid_at < \$3\) GROUP BY .*method.* ORDER BY method`).
		WithArgs(domain.StatusPaid, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"method", "amount", "count"}).
			AddRow("card", "120.50", 3).
			AddRow("cash", "40.00", 1))

	rows, err := repo.RevenueByMethod(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.MethodCard, rows[0].Method)
	assert.Equal(t, "120.5", rows[0].Amount.String())
	assert.Equal(t, int64(3), rows[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
