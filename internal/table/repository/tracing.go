package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/table/domain"
)

var tracer = otel.Tracer("table-repository")

// GormTableRepositoryWithTracing wraps GormTableRepository with spans on the
// calls the availability path depends on
type GormTableRepositoryWithTracing struct {
	*GormTableRepository
}

// NewGormTableRepositoryWithTracing creates a new repository with tracing
func NewGormTableRepositoryWithTracing(db *gorm.DB) *GormTableRepositoryWithTracing {
	return &GormTableRepositoryWithTracing{
		GormTableRepository: NewGormTableRepository(db),
	}
}

// FindByIDForUpdate with tracing
func (r *GormTableRepositoryWithTracing) FindByIDForUpdate(ctx context.Context, id uint) (*domain.RestaurantTable, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByIDForUpdate",
		trace.WithAttributes(attribute.Int("table.id", int(id))),
	)
	defer span.End()

	table, err := r.GormTableRepository.FindByIDForUpdate(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("table.number", table.Number),
		attribute.Int("table.capacity", table.Capacity),
		attribute.Bool("table.is_active", table.IsActive),
	)
	return table, nil
}

// FindAll with tracing
func (r *GormTableRepositoryWithTracing) FindAll(ctx context.Context, filter domain.TableFilter) ([]domain.RestaurantTable, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAll",
		trace.WithAttributes(
			attribute.Bool("filter.active_only", filter.ActiveOnly),
			attribute.Int("filter.min_capacity", filter.MinCapacity),
			attribute.String("filter.type", string(filter.Type)),
		),
	)
	defer span.End()

	tables, err := r.GormTableRepository.FindAll(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(tables)))
	return tables, nil
}
