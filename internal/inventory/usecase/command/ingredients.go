package command

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/inventory/domain"
)

// IngredientDetails are the catalog fields of an ingredient. Stock only moves through the ledger.
type IngredientDetails struct {
	Name          string
	Unit          string
	MinStockLevel decimal.Decimal
	CostPerUnit   decimal.Decimal
}

func (d IngredientDetails) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return apperror.Validation("ingredient name is required")
	}
	if strings.TrimSpace(d.Unit) == "" {
		return apperror.Validation("unit is required")
	}
	if d.MinStockLevel.IsNegative() {
		return apperror.Validation("minimum stock level cannot be negative")
	}
	if !domain.FitsQuantityScale(d.MinStockLevel) {
		return apperror.Validation("minimum stock level supports at most %d decimal places", domain.QuantityPlaces)
	}
	if d.CostPerUnit.IsNegative() {
		return apperror.Validation("cost per unit cannot be negative")
	}
	return nil
}

func (d IngredientDetails) applyTo(ingredient *domain.Ingredient) {
	ingredient.Name = strings.TrimSpace(d.Name)
	ingredient.Unit = strings.TrimSpace(d.Unit)
	ingredient.MinStockLevel = d.MinStockLevel
	ingredient.CostPerUnit = d.CostPerUnit
}

// CreateIngredientCommand adds an ingredient with zero stock
type CreateIngredientCommand struct {
	Details IngredientDetails
}

// UpdateIngredientCommand replaces the catalog fields of an ingredient
type UpdateIngredientCommand struct {
	ID      uint
	Details IngredientDetails
}

// IngredientHandler maintains the ingredient catalog
type IngredientHandler struct {
	repo domain.IngredientRepository
}

func NewIngredientHandler(repo domain.IngredientRepository) *IngredientHandler {
	return &IngredientHandler{repo: repo}
}

func (h *IngredientHandler) Create(ctx context.Context, cmd CreateIngredientCommand) (*domain.Ingredient, error) {
	if err := cmd.Details.validate(); err != nil {
		return nil, err
	}

	ingredient := &domain.Ingredient{CurrentStock: decimal.Zero}
	cmd.Details.applyTo(ingredient)
	if err := h.repo.Create(ctx, ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (h *IngredientHandler) Update(ctx context.Context, cmd UpdateIngredientCommand) (*domain.Ingredient, error) {
	if err := cmd.Details.validate(); err != nil {
		return nil, err
	}

	ingredient, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	cmd.Details.applyTo(ingredient)
	if err := h.repo.Update(ctx, ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}
