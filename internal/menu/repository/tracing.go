package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/menu/domain"
)

var tracer = otel.Tracer("menu-repository")

// GormDishRepositoryWithTracing wraps GormDishRepository with tracing
type GormDishRepositoryWithTracing struct {
	*GormDishRepository
}

// NewGormDishRepositoryWithTracing creates a new repository with tracing
func NewGormDishRepositoryWithTracing(db *gorm.DB) *GormDishRepositoryWithTracing {
	return &GormDishRepositoryWithTracing{
		GormDishRepository: NewGormDishRepository(db),
	}
}

// FindByID with tracing
func (r *GormDishRepositoryWithTracing) FindByID(ctx context.Context, id uint) (*domain.Dish, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.Int("dish.id", int(id))),
	)
	defer span.End()

	dish, err := r.GormDishRepository.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("dish.name", dish.Name),
		attribute.Bool("dish.is_active", dish.IsActive),
		attribute.String("dish.effective_price", dish.EffectivePrice().StringFixed(2)),
	)
	return dish, nil
}

// FindAll with tracing
func (r *GormDishRepositoryWithTracing) FindAll(ctx context.Context, filter domain.DishFilter) ([]domain.Dish, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAll",
		trace.WithAttributes(
			attribute.Bool("filter.active_only", filter.ActiveOnly),
			attribute.Int("filter.category_id", int(filter.CategoryID)),
			attribute.Bool("filter.promotion_only", filter.PromotionOnly),
			attribute.String("filter.name_contains", filter.NameContains),
		),
	)
	defer span.End()

	dishes, err := r.GormDishRepository.FindAll(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(dishes)))
	return dishes, nil
}
