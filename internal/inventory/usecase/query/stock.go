package query

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/inventory/domain"
	menudomain "github.com/tair/restaurant-backend/internal/menu/domain"
	orderdomain "github.com/tair/restaurant-backend/internal/order/domain"
)

const defaultHistoryLimit = 50

// OrderFinder resolves the order whose ingredients are requested
type OrderFinder interface {
	FindByID(ctx context.Context, id uint) (*orderdomain.Order, error)
}

// ListIngredientsQuery filters the ingredient catalog
type ListIngredientsQuery struct {
	LowStockOnly bool
	Search       string
}

// HistoryQuery returns the newest movements of one ingredient
type HistoryQuery struct {
	IngredientID uint
	Limit        int
}

// CanProduceQuery asks whether stock covers a number of portions of a dish
type CanProduceQuery struct {
	DishID   uint
	Portions int
}

// RequiredItem is a dish and how many portions of it are needed
type RequiredItem struct {
	DishID   uint `json:"dish_id"`
	Quantity int  `json:"quantity"`
}

// Requirement is the total quantity of one ingredient a set of items needs
type Requirement struct {
	Ingredient domain.Ingredient `json:"ingredient"`
	Quantity   decimal.Decimal   `json:"quantity"`
	Sufficient bool              `json:"sufficient"`
}

// ConsumptionQuery covers outcome movements in [From, To)
type ConsumptionQuery struct {
	From time.Time
	To   time.Time
}

// StockValue summarizes the value of current stock
type StockValue struct {
	Ingredients int             `json:"ingredients"`
	LowStock    int             `json:"low_stock"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// StockQueryHandler answers read-only stock questions
type StockQueryHandler struct {
	ingredients domain.IngredientRepository
	movements   domain.MovementRepository
	recipes     domain.RecipeRepository
	dishes      menudomain.DishRepository
	orders      OrderFinder
}

func NewStockQueryHandler(
	ingredients domain.IngredientRepository,
	movements domain.MovementRepository,
	recipes domain.RecipeRepository,
	dishes menudomain.DishRepository,
	orders OrderFinder,
) *StockQueryHandler {
	return &StockQueryHandler{
		ingredients: ingredients,
		movements:   movements,
		recipes:     recipes,
		dishes:      dishes,
		orders:      orders,
	}
}

func (h *StockQueryHandler) GetIngredient(ctx context.Context, id uint) (*domain.Ingredient, error) {
	return h.ingredients.FindByID(ctx, id)
}

func (h *StockQueryHandler) ListIngredients(ctx context.Context, query ListIngredientsQuery) ([]domain.Ingredient, error) {
	ingredients, err := h.ingredients.FindAll(ctx, domain.IngredientFilter{
		LowStockOnly: query.LowStockOnly,
		NameContains: query.Search,
	})
	if err != nil {
		return nil, err
	}
	if ingredients == nil {
		ingredients = []domain.Ingredient{}
	}
	return ingredients, nil
}

func (h *StockQueryHandler) History(ctx context.Context, query HistoryQuery) ([]domain.StockMovement, error) {
	if _, err := h.ingredients.FindByID(ctx, query.IngredientID); err != nil {
		return nil, err
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	movements, err := h.movements.FindByIngredient(ctx, query.IngredientID, limit)
	if err != nil {
		return nil, err
	}
	if movements == nil {
		movements = []domain.StockMovement{}
	}
	return movements, nil
}

// Recipe lists the ingredients of a dish
func (h *StockQueryHandler) Recipe(ctx context.Context, dishID uint) ([]domain.DishRecipe, error) {
	if _, err := h.dishes.FindByID(ctx, dishID); err != nil {
		return nil, err
	}
	recipes, err := h.recipes.FindByDish(ctx, dishID)
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []domain.DishRecipe{}
	}
	return recipes, nil
}

// CanProduceDish is true iff every recipe row is covered by current stock for the
// requested portions. A dish without a recipe can always be produced.
func (h *StockQueryHandler) CanProduceDish(ctx context.Context, query CanProduceQuery) (bool, error) {
	if query.Portions < 1 {
		return false, apperror.Validation("portions must be at least 1")
	}
	if _, err := h.dishes.FindByID(ctx, query.DishID); err != nil {
		return false, err
	}

	recipes, err := h.recipes.FindByDish(ctx, query.DishID)
	if err != nil {
		return false, err
	}
	portions := decimal.NewFromInt(int64(query.Portions))
	for _, recipe := range recipes {
		if recipe.Ingredient == nil {
			return false, nil
		}
		if recipe.Ingredient.CurrentStock.LessThan(recipe.QuantityRequired.Mul(portions)) {
			return false, nil
		}
	}
	return true, nil
}

// CalculateRequiredIngredients totals the ingredients the items need, ordered by ingredient id
func (h *StockQueryHandler) CalculateRequiredIngredients(ctx context.Context, items []RequiredItem) ([]Requirement, error) {
	if len(items) == 0 {
		return []Requirement{}, nil
	}

	lines := make([]domain.PortionLine, 0, len(items))
	dishIDs := make([]uint, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, apperror.Validation("quantity must be at least 1")
		}
		lines = append(lines, domain.PortionLine{DishID: item.DishID, Portions: item.Quantity})
		dishIDs = append(dishIDs, item.DishID)
	}

	recipes, err := h.recipes.FindByDishes(ctx, dishIDs)
	if err != nil {
		return nil, err
	}
	ingredients := make(map[uint]domain.Ingredient)
	for _, recipe := range recipes {
		if recipe.Ingredient != nil {
			ingredients[recipe.IngredientID] = *recipe.Ingredient
		}
	}

	required := domain.RequiredQuantities(recipes, lines)
	out := make([]Requirement, 0, len(required))
	for id, quantity := range required {
		ingredient := ingredients[id]
		out = append(out, Requirement{
			Ingredient: ingredient,
			Quantity:   quantity,
			Sufficient: ingredient.CurrentStock.GreaterThanOrEqual(quantity),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ingredient.ID < out[j].Ingredient.ID })
	return out, nil
}

// RequiredForOrder totals the ingredients of an order's items
func (h *StockQueryHandler) RequiredForOrder(ctx context.Context, orderID uint) ([]Requirement, error) {
	order, err := h.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	items := make([]RequiredItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, RequiredItem{DishID: item.DishID, Quantity: item.Quantity})
	}
	return h.CalculateRequiredIngredients(ctx, items)
}

func (h *StockQueryHandler) Consumption(ctx context.Context, query ConsumptionQuery) ([]domain.Consumption, error) {
	if !query.To.After(query.From) {
		return nil, apperror.Validation("end must be after start")
	}
	rows, err := h.movements.ConsumptionBetween(ctx, query.From, query.To)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.Consumption{}
	}
	return rows, nil
}

// Value sums stock × cost over all ingredients
func (h *StockQueryHandler) Value(ctx context.Context) (*StockValue, error) {
	ingredients, err := h.ingredients.FindAll(ctx, domain.IngredientFilter{})
	if err != nil {
		return nil, err
	}

	value := &StockValue{Ingredients: len(ingredients), TotalValue: decimal.Zero}
	for i := range ingredients {
		value.TotalValue = value.TotalValue.Add(ingredients[i].CurrentStock.Mul(ingredients[i].CostPerUnit))
		if ingredients[i].IsStockLow() {
			value.LowStock++
		}
	}
	value.TotalValue = value.TotalValue.Round(2)
	return value, nil
}
