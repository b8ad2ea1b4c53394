package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/payment/domain"
)

var tracer = otel.Tracer("payment-repository")

// GormPaymentRepositoryWithTracing wraps GormPaymentRepository with tracing
type GormPaymentRepositoryWithTracing struct {
	*GormPaymentRepository
}

// NewGormPaymentRepositoryWithTracing creates a new repository with tracing
func NewGormPaymentRepositoryWithTracing(db *gorm.DB) *GormPaymentRepositoryWithTracing {
	return &GormPaymentRepositoryWithTracing{
		GormPaymentRepository: NewGormPaymentRepository(db),
	}
}

// Create with tracing
func (r *GormPaymentRepositoryWithTracing) Create(ctx context.Context, payment *domain.Payment) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.Int("payment.order_id", int(payment.OrderID)),
			attribute.String("payment.method", string(payment.Method)),
			attribute.String("payment.amount", payment.Amount.StringFixed(2)),
		),
	)
	defer span.End()

	if err := r.GormPaymentRepository.Create(ctx, payment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("payment.id", int(payment.ID)))
	return nil
}

// Update with tracing
func (r *GormPaymentRepositoryWithTracing) Update(ctx context.Context, payment *domain.Payment) error {
	ctx, span := tracer.Start(ctx, "repository.Update",
		trace.WithAttributes(
			attribute.Int("payment.id", int(payment.ID)),
			attribute.String("payment.status", string(payment.Status)),
		),
	)
	defer span.End()

	if err := r.GormPaymentRepository.Update(ctx, payment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// FindByIDForUpdate with tracing
func (r *GormPaymentRepositoryWithTracing) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Payment, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByIDForUpdate",
		trace.WithAttributes(attribute.Int("payment.id", int(id))),
	)
	defer span.End()

	payment, err := r.GormPaymentRepository.FindByIDForUpdate(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return payment, nil
}
