package command

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/inventory/domain"
	menudomain "github.com/tair/restaurant-backend/internal/menu/domain"
)

// SetRecipeCommand sets how much of an ingredient one portion of a dish needs
type SetRecipeCommand struct {
	DishID           uint
	IngredientID     uint
	QuantityRequired decimal.Decimal
}

// RemoveRecipeCommand drops an ingredient from a dish recipe
type RemoveRecipeCommand struct {
	DishID       uint
	IngredientID uint
}

// RecipeHandler maintains dish recipes
type RecipeHandler struct {
	dishes      menudomain.DishRepository
	ingredients domain.IngredientRepository
	recipes     domain.RecipeRepository
}

func NewRecipeHandler(dishes menudomain.DishRepository, ingredients domain.IngredientRepository, recipes domain.RecipeRepository) *RecipeHandler {
	return &RecipeHandler{dishes: dishes, ingredients: ingredients, recipes: recipes}
}

func (h *RecipeHandler) Set(ctx context.Context, cmd SetRecipeCommand) (*domain.DishRecipe, error) {
	if !cmd.QuantityRequired.IsPositive() {
		return nil, apperror.Validation("quantity required must be positive")
	}
	if !domain.FitsQuantityScale(cmd.QuantityRequired) {
		return nil, apperror.Validation("quantity required supports at most %d decimal places", domain.QuantityPlaces)
	}
	if _, err := h.dishes.FindByID(ctx, cmd.DishID); err != nil {
		return nil, err
	}
	ingredient, err := h.ingredients.FindByID(ctx, cmd.IngredientID)
	if err != nil {
		return nil, err
	}

	recipe := &domain.DishRecipe{
		DishID:           cmd.DishID,
		IngredientID:     cmd.IngredientID,
		QuantityRequired: cmd.QuantityRequired,
	}
	if err := h.recipes.Save(ctx, recipe); err != nil {
		return nil, err
	}
	recipe.Ingredient = ingredient
	return recipe, nil
}

func (h *RecipeHandler) Remove(ctx context.Context, cmd RemoveRecipeCommand) error {
	return h.recipes.Delete(ctx, cmd.DishID, cmd.IngredientID)
}
