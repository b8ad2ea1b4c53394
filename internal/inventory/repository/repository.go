package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/inventory/domain"
	"github.com/tair/restaurant-backend/pkg/database"
)

const (
	ingredientEntity = "ingredient"
	movementEntity   = "stock movement"
	recipeEntity     = "recipe"
)

type GormIngredientRepository struct {
	db *gorm.DB
}

func NewGormIngredientRepository(db *gorm.DB) *GormIngredientRepository {
	return &GormIngredientRepository{db: db}
}

func (r *GormIngredientRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Ingredient{}, &domain.StockMovement{}, &domain.DishRecipe{})
}

func (r *GormIngredientRepository) Create(ctx context.Context, ingredient *domain.Ingredient) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Create(ingredient).Error, ingredientEntity)
}

func (r *GormIngredientRepository) Update(ctx context.Context, ingredient *domain.Ingredient) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Save(ingredient).Error, ingredientEntity)
}

func (r *GormIngredientRepository) FindByID(ctx context.Context, id uint) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	if err := database.Conn(ctx, r.db).First(&ingredient, id).Error; err != nil {
		return nil, apperror.FromDB(err, ingredientEntity)
	}
	return &ingredient, nil
}

func (r *GormIngredientRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	if err := database.ForUpdate(ctx, r.db).First(&ingredient, id).Error; err != nil {
		return nil, apperror.FromDB(err, ingredientEntity)
	}
	return &ingredient, nil
}

func (r *GormIngredientRepository) FindAll(ctx context.Context, filter domain.IngredientFilter) ([]domain.Ingredient, error) {
	q := database.Conn(ctx, r.db)
	if filter.LowStockOnly {
		q = q.Where("current_stock <= min_stock_level")
	}
	if filter.NameContains != "" {
		q = q.Where("name ILIKE ?", database.ContainsPattern(filter.NameContains))
	}

	var ingredients []domain.Ingredient
	if err := q.Order("name, id").Find(&ingredients).Error; err != nil {
		return nil, apperror.FromDB(err, ingredientEntity)
	}
	return ingredients, nil
}

type GormMovementRepository struct {
	db *gorm.DB
}

func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

func (r *GormMovementRepository) Create(ctx context.Context, movement *domain.StockMovement) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Omit("Ingredient").Create(movement).Error, movementEntity)
}

// FindByIngredient returns the newest movements first
func (r *GormMovementRepository) FindByIngredient(ctx context.Context, ingredientID uint, limit int) ([]domain.StockMovement, error) {
	var movements []domain.StockMovement
	err := database.Conn(ctx, r.db).
		Where("ingredient_id = ?", ingredientID).
		Order("movement_date DESC, id DESC").
		Limit(limit).
		Find(&movements).Error
	if err != nil {
		return nil, apperror.FromDB(err, movementEntity)
	}
	return movements, nil
}

func (r *GormMovementRepository) ExistsForOrder(ctx context.Context, orderID uint, reason domain.MovementReason) (bool, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&domain.StockMovement{}).
		Where("order_id = ? AND reason = ?", orderID, reason).
		Count(&count).Error
	if err != nil {
		return false, apperror.FromDB(err, movementEntity)
	}
	return count > 0, nil
}

// ConsumptionBetween sums outcome movements per ingredient over [from, to)
func (r *GormMovementRepository) ConsumptionBetween(ctx context.Context, from, to time.Time) ([]domain.Consumption, error) {
	var rows []domain.Consumption
	err := database.Conn(ctx, r.db).Model(&domain.StockMovement{}).
		Select("stock_movements.ingredient_id, ingredients.name AS ingredient_name, ingredients.unit, SUM(stock_movements.quantity) AS quantity").
		Joins("JOIN ingredients ON ingredients.id = stock_movements.ingredient_id").
		Where("stock_movements.type = ?", domain.MovementOutcome).
		Where("stock_movements.movement_date >= ? AND stock_movements.movement_date < ?", from, to).
		Group("stock_movements.ingredient_id, ingredients.name, ingredients.unit").
		Order("quantity DESC, stock_movements.ingredient_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.FromDB(err, movementEntity)
	}
	return rows, nil
}

type GormRecipeRepository struct {
	db *gorm.DB
}

func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

func (r *GormRecipeRepository) Save(ctx context.Context, recipe *domain.DishRecipe) error {
	err := database.Conn(ctx, r.db).
		Omit("Ingredient").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dish_id"}, {Name: "ingredient_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity_required"}),
		}).
		Create(recipe).Error
	return apperror.FromDB(err, recipeEntity)
}

func (r *GormRecipeRepository) Delete(ctx context.Context, dishID, ingredientID uint) error {
	result := database.Conn(ctx, r.db).
		Where("dish_id = ? AND ingredient_id = ?", dishID, ingredientID).
		Delete(&domain.DishRecipe{})
	if result.Error != nil {
		return apperror.FromDB(result.Error, recipeEntity)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("recipe not found")
	}
	return nil
}

func (r *GormRecipeRepository) FindByDish(ctx context.Context, dishID uint) ([]domain.DishRecipe, error) {
	return r.FindByDishes(ctx, []uint{dishID})
}

func (r *GormRecipeRepository) FindByDishes(ctx context.Context, dishIDs []uint) ([]domain.DishRecipe, error) {
	var recipes []domain.DishRecipe
	err := database.Conn(ctx, r.db).
		Preload("Ingredient").
		Where("dish_id IN ?", dishIDs).
		Order("dish_id, ingredient_id").
		Find(&recipes).Error
	if err != nil {
		return nil, apperror.FromDB(err, recipeEntity)
	}
	return recipes, nil
}
