package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// GormIngredientRepositoryWithTracing wraps GormIngredientRepository with tracing
type GormIngredientRepositoryWithTracing struct {
	*GormIngredientRepository
}

// NewGormIngredientRepositoryWithTracing creates a new repository with tracing
func NewGormIngredientRepositoryWithTracing(db *gorm.DB) *GormIngredientRepositoryWithTracing {
	return &GormIngredientRepositoryWithTracing{
		GormIngredientRepository: NewGormIngredientRepository(db),
	}
}

// FindByIDForUpdate with tracing
func (r *GormIngredientRepositoryWithTracing) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Ingredient, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByIDForUpdate",
		trace.WithAttributes(
			attribute.Int("ingredient.id", int(id)),
		),
	)
	defer span.End()

	ingredient, err := r.GormIngredientRepository.FindByIDForUpdate(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("ingredient.name", ingredient.Name),
		attribute.String("ingredient.current_stock", ingredient.CurrentStock.String()),
	)
	return ingredient, nil
}

// Update with tracing
func (r *GormIngredientRepositoryWithTracing) Update(ctx context.Context, ingredient *domain.Ingredient) error {
	ctx, span := tracer.Start(ctx, "repository.Update",
		trace.WithAttributes(
			attribute.Int("ingredient.id", int(ingredient.ID)),
			attribute.String("ingredient.current_stock", ingredient.CurrentStock.String()),
		),
	)
	defer span.End()

	if err := r.GormIngredientRepository.Update(ctx, ingredient); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// GormMovementRepositoryWithTracing wraps GormMovementRepository with tracing
type GormMovementRepositoryWithTracing struct {
	*GormMovementRepository
}

// NewGormMovementRepositoryWithTracing creates a new repository with tracing
func NewGormMovementRepositoryWithTracing(db *gorm.DB) *GormMovementRepositoryWithTracing {
	return &GormMovementRepositoryWithTracing{
		GormMovementRepository: NewGormMovementRepository(db),
	}
}

// Create with tracing
func (r *GormMovementRepositoryWithTracing) Create(ctx context.Context, movement *domain.StockMovement) error {
	ctx, span := tracer.Start(ctx, "repository.CreateMovement",
		trace.WithAttributes(
			attribute.Int("movement.ingredient_id", int(movement.IngredientID)),
			attribute.String("movement.type", string(movement.Type)),
			attribute.String("movement.reason", string(movement.Reason)),
			attribute.String("movement.quantity", movement.Quantity.String()),
		),
	)
	defer span.End()

	if err := r.GormMovementRepository.Create(ctx, movement); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("movement.id", int(movement.ID)))
	return nil
}
