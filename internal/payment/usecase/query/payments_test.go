package query_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/restaurant-backend/internal/apperror"
	orderdomain "github.com/tair/restaurant-backend/internal/order/domain"
	"github.com/tair/restaurant-backend/internal/payment/domain"
	"github.com/tair/restaurant-backend/internal/payment/usecase/query"
	"github.com/tair/restaurant-backend/internal/storetest"
	tabledomain "github.com/tair/restaurant-backend/internal/table/domain"
)

func seedOrder(t *testing.T, store *storetest.Store) *orderdomain.Order {
	t.Helper()
	ctx := context.Background()

	table := &tabledomain.RestaurantTable{Number: 1, Capacity: 2, Type: tabledomain.TypeStandard, IsActive: true}
	require.NoError(t, store.Tables().Create(ctx, table))
	status := &orderdomain.OrderStatus{Name: "received"}
	require.NoError(t, store.Statuses().Create(ctx, status))

	order := &orderdomain.Order{OrderNumber: "ORD-1-AAAAAAAA", TableID: table.ID, StatusID: status.ID, TotalAmount: decimal.NewFromInt(30)}
	require.NoError(t, store.Orders().Create(ctx, order))
	return order
}

func addPayment(t *testing.T, store *storetest.Store, orderID uint, method domain.Method, status domain.Status, amount string, paidAt *time.Time) {
	t.Helper()
	require.NoError(t, store.Payments().Create(context.Background(), &domain.Payment{
		OrderID: orderID,
		Method:  method,
		Status:  status,
		Amount:  decimal.RequireFromString(amount),
		PaidAt:  paidAt,
	}))
}

func TestByOrder(t *testing.T) {
	store := storetest.New()
	order := seedOrder(t, store)
	h := query.NewPaymentQueryHandler(store.Payments(), store.Orders())

	payments, err := h.ByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
	assert.NotNil(t, payments)

	addPayment(t, store, order.ID, domain.MethodCard, domain.StatusFailed, "30", nil)
	addPayment(t, store, order.ID, domain.MethodCash, domain.StatusPending, "30", nil)

	payments, err = h.ByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, domain.MethodCard, payments[0].Method)

	_, err = h.ByOrder(context.Background(), 999)
	assert.True(t, apperror.IsNotFound(err))

	_, err = h.Get(context.Background(), 999)
	assert.True(t, apperror.IsNotFound(err))
}

func TestRevenue(t *testing.T) {
	store := storetest.New()
	order := seedOrder(t, store)
	h := query.NewPaymentQueryHandler(store.Payments(), store.Orders())

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	inside := from.Add(12 * time.Hour)
	atEnd := to
	before := from.Add(-time.Minute)

	addPayment(t, store, order.ID, domain.MethodCard, domain.StatusPaid, "12.50", &inside)
	addPayment(t, store, order.ID, domain.MethodCard, domain.StatusPaid, "7.50", &from)
	addPayment(t, store, order.ID, domain.MethodCash, domain.StatusPaid, "30.00", &inside)
	addPayment(t, store, order.ID, domain.MethodCash, domain.StatusPaid, "99.00", &atEnd)
	addPayment(t, store, order.ID, domain.MethodCash, domain.StatusPaid, "99.00", &before)
	addPayment(t, store, order.ID, domain.MethodOnline, domain.StatusPending, "99.00", nil)

	stats, err := h.Revenue(context.Background(), query.RevenueQuery{From: from, To: to})
	require.NoError(t, err)
	assert.Equal(t, "50", stats.TotalRevenue.String())
	assert.Equal(t, int64(3), stats.TotalTransactions)
	require.Len(t, stats.ByMethod, 2)
	assert.Equal(t, "20", stats.ByMethod["card"].String())
	assert.Equal(t, "30", stats.ByMethod["cash"].String())

	_, err = h.Revenue(context.Background(), query.RevenueQuery{From: to, To: from})
	assert.True(t, apperror.IsValidation(err))
}

func TestRevenue_EmptyPeriod(t *testing.T) {
	store := storetest.New()
	h := query.NewPaymentQueryHandler(store.Payments(), store.Orders())

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	stats, err := h.Revenue(context.Background(), query.RevenueQuery{From: from, To: from.Add(time.Hour)})
	require.NoError(t, err)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.Zero(t, stats.TotalTransactions)
	assert.Empty(t, stats.ByMethod)
}
