package storetest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/restaurant-backend/internal/apperror"
	invdomain "github.com/tair/restaurant-backend/internal/inventory/domain"
)

// IngredientRepository is an in-memory invdomain.IngredientRepository
type IngredientRepository struct {
	s *Store
}

func (s *Store) Ingredients() *IngredientRepository {
	return &IngredientRepository{s: s}
}

func (r *IngredientRepository) Create(_ context.Context, ingredient *invdomain.Ingredient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.s.data.ingredients {
		if i.Name == ingredient.Name {
			return apperror.Conflict("ingredient conflicts with an existing record")
		}
	}
	ingredient.ID = r.s.nextID()
	r.s.stamp(&ingredient.CreatedAt, &ingredient.UpdatedAt)
	r.s.data.ingredients[ingredient.ID] = *ingredient
	return nil
}

func (r *IngredientRepository) Update(_ context.Context, ingredient *invdomain.Ingredient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.ingredients[ingredient.ID]; !ok {
		return apperror.NotFound("ingredient not found")
	}
	r.s.stamp(&ingredient.CreatedAt, &ingredient.UpdatedAt)
	r.s.data.ingredients[ingredient.ID] = *ingredient
	return nil
}

func (r *IngredientRepository) FindByID(_ context.Context, id uint) (*invdomain.Ingredient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.data.ingredients[id]
	if !ok {
		return nil, apperror.NotFound("ingredient not found")
	}
	return &i, nil
}

func (r *IngredientRepository) FindByIDForUpdate(ctx context.Context, id uint) (*invdomain.Ingredient, error) {
	return r.FindByID(ctx, id)
}

func (r *IngredientRepository) FindAll(_ context.Context, filter invdomain.IngredientFilter) ([]invdomain.Ingredient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	needle := strings.ToLower(filter.NameContains)
	out := []invdomain.Ingredient{}
	for _, i := range r.s.data.ingredients {
		if filter.LowStockOnly && !i.IsStockLow() {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(i.Name), needle) {
			continue
		}
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Name == out[b].Name {
			return out[a].ID < out[b].ID
		}
		return out[a].Name < out[b].Name
	})
	return out, nil
}

// MovementRepository is an in-memory invdomain.MovementRepository
type MovementRepository struct {
	s *Store
}

func (s *Store) Movements() *MovementRepository {
	return &MovementRepository{s: s}
}

func (r *MovementRepository) Create(_ context.Context, movement *invdomain.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.ingredients[movement.IngredientID]; !ok {
		return apperror.Validation("stock movement references a missing record")
	}
	movement.ID = r.s.nextID()
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = r.s.Now()
	}
	stored := *movement
	stored.Ingredient = nil
	r.s.data.movements[movement.ID] = stored
	return nil
}

func (r *MovementRepository) FindByIngredient(_ context.Context, ingredientID uint, limit int) ([]invdomain.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []invdomain.StockMovement{}
	for _, m := range r.s.data.movements {
		if m.IngredientID == ingredientID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MovementDate.Equal(out[j].MovementDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].MovementDate.After(out[j].MovementDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MovementRepository) ExistsForOrder(_ context.Context, orderID uint, reason invdomain.MovementReason) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.data.movements {
		if m.OrderID != nil && *m.OrderID == orderID && m.Reason == reason {
			return true, nil
		}
	}
	return false, nil
}

func (r *MovementRepository) ConsumptionBetween(_ context.Context, from, to time.Time) ([]invdomain.Consumption, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byIngredient := map[uint]*invdomain.Consumption{}
	for _, m := range r.s.data.movements {
		if m.Type != invdomain.MovementOutcome || !inRange(m.MovementDate, from, to) {
			continue
		}
		c, ok := byIngredient[m.IngredientID]
		if !ok {
			ingredient := r.s.data.ingredients[m.IngredientID]
			c = &invdomain.Consumption{
				IngredientID:   m.IngredientID,
				IngredientName: ingredient.Name,
				Unit:           ingredient.Unit,
				Quantity:       decimal.Zero,
			}
			byIngredient[m.IngredientID] = c
		}
		c.Quantity = c.Quantity.Add(m.Quantity)
	}

	out := make([]invdomain.Consumption, 0, len(byIngredient))
	for _, c := range byIngredient {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity.Equal(out[j].Quantity) {
			return out[i].IngredientID < out[j].IngredientID
		}
		return out[i].Quantity.GreaterThan(out[j].Quantity)
	})
	return out, nil
}

// RecipeRepository is an in-memory invdomain.RecipeRepository
type RecipeRepository struct {
	s *Store
}

func (s *Store) Recipes() *RecipeRepository {
	return &RecipeRepository{s: s}
}

func (r *RecipeRepository) Save(_ context.Context, recipe *invdomain.DishRecipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.dishes[recipe.DishID]; !ok {
		return apperror.Validation("recipe references a missing record")
	}
	if _, ok := r.s.data.ingredients[recipe.IngredientID]; !ok {
		return apperror.Validation("recipe references a missing record")
	}
	for id, existing := range r.s.data.recipes {
		if existing.DishID == recipe.DishID && existing.IngredientID == recipe.IngredientID {
			existing.QuantityRequired = recipe.QuantityRequired
			r.s.data.recipes[id] = existing
			recipe.ID = id
			return nil
		}
	}
	recipe.ID = r.s.nextID()
	stored := *recipe
	stored.Ingredient = nil
	r.s.data.recipes[recipe.ID] = stored
	return nil
}

func (r *RecipeRepository) Delete(_ context.Context, dishID, ingredientID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, existing := range r.s.data.recipes {
		if existing.DishID == dishID && existing.IngredientID == ingredientID {
			delete(r.s.data.recipes, id)
			return nil
		}
	}
	return apperror.NotFound("recipe not found")
}

func (r *RecipeRepository) FindByDish(ctx context.Context, dishID uint) ([]invdomain.DishRecipe, error) {
	return r.FindByDishes(ctx, []uint{dishID})
}

func (r *RecipeRepository) FindByDishes(_ context.Context, dishIDs []uint) ([]invdomain.DishRecipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := map[uint]bool{}
	for _, id := range dishIDs {
		wanted[id] = true
	}
	out := []invdomain.DishRecipe{}
	for _, recipe := range r.s.data.recipes {
		if !wanted[recipe.DishID] {
			continue
		}
		if i, ok := r.s.data.ingredients[recipe.IngredientID]; ok {
			recipe.Ingredient = &i
		}
		out = append(out, recipe)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DishID == out[j].DishID {
			return out[i].IngredientID < out[j].IngredientID
		}
		return out[i].DishID < out[j].DishID
	})
	return out, nil
}
