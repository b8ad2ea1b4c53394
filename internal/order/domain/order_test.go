package domain_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/restaurant-backend/internal/order/domain"
)

func TestRecalculateTotal_IsDecimalExact(t *testing.T) {
	order := &domain.Order{}
	order.AddItem(domain.OrderItem{ID: 1, DishID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")})
	order.AddItem(domain.OrderItem{ID: 2, DishID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("5.50")})

	assert.Equal(t, "25.50", order.TotalAmount.StringFixed(2))

	order = &domain.Order{}
	for i := 0; i < 3; i++ {
		order.AddItem(domain.OrderItem{ID: uint(i + 1), Quantity: 1, UnitPrice: decimal.RequireFromString("0.10")})
	}
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("0.30")))
}

func TestRemoveItem(t *testing.T) {
	order := &domain.Order{}
	order.AddItem(domain.OrderItem{ID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(10)})
	order.AddItem(domain.OrderItem{ID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("5.5")})

	require.True(t, order.RemoveItem(1))
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "5.50", order.TotalAmount.StringFixed(2))
	assert.False(t, order.RemoveItem(1))
}

func TestCanBeModified(t *testing.T) {
	order := &domain.Order{Status: &domain.OrderStatus{Name: "served"}}
	assert.True(t, order.CanBeModified())

	order.Status = &domain.OrderStatus{Name: "paid", IsPaid: true}
	assert.False(t, order.CanBeModified())
	assert.True(t, order.IsPaid())
}

func TestNewOrderNumber(t *testing.T) {
	now := time.UnixMilli(1767225600123)
	number := domain.NewOrderNumber(now)

	assert.Regexp(t, regexp.MustCompile(`^ORD-1767225600123-[0-9A-F]{8}$`), number)
	assert.NotEqual(t, number, domain.NewOrderNumber(now))
}
