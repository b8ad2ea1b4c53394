package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/order/domain"
)

var tracer = otel.Tracer("order-repository")

// GormOrderRepositoryWithTracing wraps GormOrderRepository with tracing
type GormOrderRepositoryWithTracing struct {
	*GormOrderRepository
}

// NewGormOrderRepositoryWithTracing creates a new repository with tracing
func NewGormOrderRepositoryWithTracing(db *gorm.DB) *GormOrderRepositoryWithTracing {
	return &GormOrderRepositoryWithTracing{
		GormOrderRepository: NewGormOrderRepository(db),
	}
}

// Create with tracing
func (r *GormOrderRepositoryWithTracing) Create(ctx context.Context, order *domain.Order) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("order.number", order.OrderNumber),
			attribute.Int("order.table_id", int(order.TableID)),
			attribute.Int("order.item_count", len(order.Items)),
		),
	)
	defer span.End()

	if err := r.GormOrderRepository.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("order.id", int(order.ID)))
	return nil
}

// FindByIDForUpdate with tracing
func (r *GormOrderRepositoryWithTracing) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByIDForUpdate",
		trace.WithAttributes(attribute.Int("order.id", int(id))),
	)
	defer span.End()

	order, err := r.GormOrderRepository.FindByIDForUpdate(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("order.item_count", len(order.Items)),
		attribute.String("order.total_amount", order.TotalAmount.StringFixed(2)),
	)
	return order, nil
}

// FindAll with tracing
func (r *GormOrderRepositoryWithTracing) FindAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAll",
		trace.WithAttributes(
			attribute.StringSlice("filter.statuses", filter.StatusNames),
			attribute.Int("filter.table_number", filter.TableNumber),
			attribute.String("filter.waiter", filter.WaiterUsername),
		),
	)
	defer span.End()

	orders, err := r.GormOrderRepository.FindAll(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(orders)))
	return orders, nil
}
