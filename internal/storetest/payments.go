package storetest

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/restaurant-backend/internal/apperror"
	paydomain "github.com/tair/restaurant-backend/internal/payment/domain"
)

// PaymentRepository is an in-memory paydomain.PaymentRepository
type PaymentRepository struct {
	s *Store
}

func (s *Store) Payments() *PaymentRepository {
	return &PaymentRepository{s: s}
}

func (r *PaymentRepository) Create(_ context.Context, payment *paydomain.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.orders[payment.OrderID]; !ok {
		return apperror.Validation("payment references a missing record")
	}
	payment.ID = r.s.nextID()
	r.s.stamp(&payment.CreatedAt, &payment.UpdatedAt)
	r.s.data.payments[payment.ID] = *payment
	return nil
}

func (r *PaymentRepository) Update(_ context.Context, payment *paydomain.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.payments[payment.ID]; !ok {
		return apperror.NotFound("payment not found")
	}
	r.s.stamp(&payment.CreatedAt, &payment.UpdatedAt)
	r.s.data.payments[payment.ID] = *payment
	return nil
}

func (r *PaymentRepository) FindByID(_ context.Context, id uint) (*paydomain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.payments[id]
	if !ok {
		return nil, apperror.NotFound("payment not found")
	}
	return &p, nil
}

func (r *PaymentRepository) FindByIDForUpdate(ctx context.Context, id uint) (*paydomain.Payment, error) {
	return r.FindByID(ctx, id)
}

func (r *PaymentRepository) FindByOrder(_ context.Context, orderID uint) ([]paydomain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []paydomain.Payment{}
	for _, p := range r.s.data.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PaymentRepository) RevenueByMethod(_ context.Context, from, to time.Time) ([]paydomain.MethodRevenue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byMethod := map[paydomain.Method]*paydomain.MethodRevenue{}
	for _, p := range r.s.data.payments {
		if p.Status != paydomain.StatusPaid || p.PaidAt == nil || !inRange(*p.PaidAt, from, to) {
			continue
		}
		row, ok := byMethod[p.Method]
		if !ok {
			row = &paydomain.MethodRevenue{Method: p.Method, Amount: decimal.Zero}
			byMethod[p.Method] = row
		}
		row.Amount = row.Amount.Add(p.Amount)
		row.Count++
	}

	out := make([]paydomain.MethodRevenue, 0, len(byMethod))
	for _, row := range byMethod {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out, nil
}
