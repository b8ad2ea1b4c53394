package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/restaurant-backend/internal/apperror"
)

// MovementType is the direction of a stock movement
type MovementType string

const (
	MovementIncome  MovementType = "income"
	MovementOutcome MovementType = "outcome"
)

func (t MovementType) Valid() bool {
	return t == MovementIncome || t == MovementOutcome
}

// MovementReason explains why stock moved
type MovementReason string

const (
	ReasonPurchase   MovementReason = "purchase"
	ReasonWriteOff   MovementReason = "write_off"
	ReasonAdjustment MovementReason = "adjustment"
	ReasonProduction MovementReason = "production"
)

func (r MovementReason) Valid() bool {
	switch r {
	case ReasonPurchase, ReasonWriteOff, ReasonAdjustment, ReasonProduction:
		return true
	}
	return false
}

// QuantityPlaces is the scale of every stored quantity column
const QuantityPlaces = 3

// FitsQuantityScale reports whether q survives storage in a numeric(14,3) column unchanged
func FitsQuantityScale(q decimal.Decimal) bool {
	return q.Equal(q.Truncate(QuantityPlaces))
}

// Ingredient is a stocked raw material
type Ingredient struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Unit          string          `json:"unit" gorm:"size:20;not null"`
	CurrentStock  decimal.Decimal `json:"current_stock" gorm:"type:numeric(14,3);not null;default:0"`
	MinStockLevel decimal.Decimal `json:"min_stock_level" gorm:"type:numeric(14,3);not null;default:0"`
	CostPerUnit   decimal.Decimal `json:"cost_per_unit" gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Ingredient) TableName() string {
	return "ingredients"
}

// IsStockLow reports whether the stock is at or below the minimum level
func (i *Ingredient) IsStockLow() bool {
	return i.CurrentStock.LessThanOrEqual(i.MinStockLevel)
}

// Apply changes the stock by a signed quantity. Stock never goes negative.
func (i *Ingredient) Apply(movementType MovementType, quantity decimal.Decimal) error {
	switch movementType {
	case MovementIncome:
		i.CurrentStock = i.CurrentStock.Add(quantity)
	case MovementOutcome:
		next := i.CurrentStock.Sub(quantity)
		if next.IsNegative() {
			return apperror.Validation("insufficient stock for %s: have %s %s, need %s",
				i.Name, i.CurrentStock.String(), i.Unit, quantity.String())
		}
		i.CurrentStock = next
	default:
		return apperror.Validation("invalid movement type: %s", movementType)
	}
	return nil
}

// StockMovement is an immutable ledger entry
type StockMovement struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	IngredientID uint            `json:"ingredient_id" gorm:"not null;index"`
	Ingredient   *Ingredient     `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID"`
	Type         MovementType    `json:"type" gorm:"size:10;not null"`
	Reason       MovementReason  `json:"reason" gorm:"size:20;not null"`
	Quantity     decimal.Decimal `json:"quantity" gorm:"type:numeric(14,3);not null"`
	OrderID      *uint           `json:"order_id,omitempty" gorm:"index"`
	PerformedBy  string          `json:"performed_by,omitempty" gorm:"size:100"`
	Notes        string          `json:"notes,omitempty"`
	MovementDate time.Time       `json:"movement_date" gorm:"not null;index"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TableName specifies the table name
func (StockMovement) TableName() string {
	return "stock_movements"
}

// DishRecipe is the quantity of one ingredient needed for one portion of a dish
type DishRecipe struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	DishID           uint            `json:"dish_id" gorm:"not null;uniqueIndex:idx_recipe_dish_ingredient"`
	IngredientID     uint            `json:"ingredient_id" gorm:"not null;uniqueIndex:idx_recipe_dish_ingredient"`
	Ingredient       *Ingredient     `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID"`
	QuantityRequired decimal.Decimal `json:"quantity_required" gorm:"type:numeric(14,3);not null"`
}

// TableName specifies the table name
func (DishRecipe) TableName() string {
	return "dish_recipes"
}

// IngredientFilter narrows FindAll; zero values disable a criterion
type IngredientFilter struct {
	LowStockOnly bool
	NameContains string
}

// Consumption is the outcome quantity of one ingredient over a period
type Consumption struct {
	IngredientID   uint            `json:"ingredient_id"`
	IngredientName string          `json:"ingredient_name"`
	Unit           string          `json:"unit"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// IngredientRepository defines the contract for ingredient data access
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *Ingredient) error
	Update(ctx context.Context, ingredient *Ingredient) error
	FindByID(ctx context.Context, id uint) (*Ingredient, error)
	// FindByIDForUpdate locks the row for the rest of the surrounding transaction
	FindByIDForUpdate(ctx context.Context, id uint) (*Ingredient, error)
	FindAll(ctx context.Context, filter IngredientFilter) ([]Ingredient, error)
}

// MovementRepository defines the contract for the stock ledger. Movements are never updated.
type MovementRepository interface {
	Create(ctx context.Context, movement *StockMovement) error
	FindByIngredient(ctx context.Context, ingredientID uint, limit int) ([]StockMovement, error)
	ExistsForOrder(ctx context.Context, orderID uint, reason MovementReason) (bool, error)
	ConsumptionBetween(ctx context.Context, from, to time.Time) ([]Consumption, error)
}

// RecipeRepository defines the contract for recipe data access
type RecipeRepository interface {
	// Save inserts the row or replaces the quantity of an existing dish/ingredient pair
	Save(ctx context.Context, recipe *DishRecipe) error
	Delete(ctx context.Context, dishID, ingredientID uint) error
	FindByDish(ctx context.Context, dishID uint) ([]DishRecipe, error)
	FindByDishes(ctx context.Context, dishIDs []uint) ([]DishRecipe, error)
}

// PortionLine is a number of portions of one dish
type PortionLine struct {
	DishID   uint
	Portions int
}

// RequiredQuantities sums quantityRequired × portions per ingredient across lines,
// merging ingredients that several dishes share
func RequiredQuantities(recipes []DishRecipe, lines []PortionLine) map[uint]decimal.Decimal {
	byDish := make(map[uint][]DishRecipe)
	for _, recipe := range recipes {
		byDish[recipe.DishID] = append(byDish[recipe.DishID], recipe)
	}

	required := make(map[uint]decimal.Decimal)
	for _, line := range lines {
		portions := decimal.NewFromInt(int64(line.Portions))
		for _, recipe := range byDish[line.DishID] {
			required[recipe.IngredientID] = required[recipe.IngredientID].Add(recipe.QuantityRequired.Mul(portions))
		}
	}
	return required
}
