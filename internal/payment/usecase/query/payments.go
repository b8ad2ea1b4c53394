package query

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/restaurant-backend/internal/apperror"
	orderdomain "github.com/tair/restaurant-backend/internal/order/domain"
	"github.com/tair/restaurant-backend/internal/payment/domain"
)

// RevenueQuery covers payments settled in [From, To)
type RevenueQuery struct {
	From time.Time
	To   time.Time
}

// RevenueStatistics summarizes settled payments in a period
type RevenueStatistics struct {
	From              time.Time                  `json:"from"`
	To                time.Time                  `json:"to"`
	TotalRevenue      decimal.Decimal            `json:"total_revenue"`
	TotalTransactions int64                      `json:"total_transactions"`
	ByMethod          map[string]decimal.Decimal `json:"revenue_by_payment_method"`
}

// PaymentQueryHandler answers payment reads
type PaymentQueryHandler struct {
	repo   domain.PaymentRepository
	orders orderdomain.OrderRepository
}

func NewPaymentQueryHandler(repo domain.PaymentRepository, orders orderdomain.OrderRepository) *PaymentQueryHandler {
	return &PaymentQueryHandler{repo: repo, orders: orders}
}

// Get executes the get payment query
func (h *PaymentQueryHandler) Get(ctx context.Context, id uint) (*domain.Payment, error) {
	return h.repo.FindByID(ctx, id)
}

// ByOrder lists every payment attempt of an order; an unknown order is NotFound
func (h *PaymentQueryHandler) ByOrder(ctx context.Context, orderID uint) ([]domain.Payment, error) {
	if _, err := h.orders.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	payments, err := h.repo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	return payments, nil
}

// Revenue executes the revenue query
func (h *PaymentQueryHandler) Revenue(ctx context.Context, query RevenueQuery) (*RevenueStatistics, error) {
	if !query.To.After(query.From) {
		return nil, apperror.Validation("end must be after start")
	}

	rows, err := h.repo.RevenueByMethod(ctx, query.From, query.To)
	if err != nil {
		return nil, err
	}

	stats := &RevenueStatistics{
		From:         query.From,
		To:           query.To,
		TotalRevenue: decimal.Zero,
		ByMethod:     make(map[string]decimal.Decimal, len(rows)),
	}
	for _, row := range rows {
		stats.ByMethod[string(row.Method)] = row.Amount
		stats.TotalRevenue = stats.TotalRevenue.Add(row.Amount)
		stats.TotalTransactions += row.Count
	}
	return stats, nil
}
