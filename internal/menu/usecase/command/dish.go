package command

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/menu/domain"
)

// DishDetails are the editable fields of a dish
type DishDetails struct {
	Name           string
	Description    string
	CategoryID     uint
	Price          decimal.Decimal
	IsOnPromotion  bool
	PromotionPrice decimal.NullDecimal
	WeightGrams    int
	ImageURL       string
	Composition    string
	Allergens      string
}

func (d *DishDetails) validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return apperror.Validation("dish name is required")
	}
	if !d.Price.IsPositive() {
		return apperror.Validation("price must be positive")
	}
	if d.WeightGrams < 0 {
		return apperror.Validation("weight must not be negative")
	}
	return validatePromotion(d.IsOnPromotion, d.PromotionPrice, d.Price)
}

func validatePromotion(on bool, promo decimal.NullDecimal, price decimal.Decimal) error {
	if !on {
		return nil
	}
	if !promo.Valid || !promo.Decimal.IsPositive() {
		return apperror.Validation("promotion price must be positive")
	}
	if promo.Decimal.GreaterThan(price) {
		return apperror.Validation("promotion price must not exceed the regular price")
	}
	return nil
}

func (d DishDetails) apply(dish *domain.Dish) {
	dish.Name = d.Name
	dish.Description = d.Description
	dish.CategoryID = d.CategoryID
	dish.Price = d.Price.Round(2)
	dish.IsOnPromotion = d.IsOnPromotion
	dish.PromotionPrice = d.PromotionPrice
	if d.PromotionPrice.Valid {
		dish.PromotionPrice.Decimal = d.PromotionPrice.Decimal.Round(2)
	}
	dish.WeightGrams = d.WeightGrams
	dish.ImageURL = d.ImageURL
	dish.Composition = d.Composition
	dish.Allergens = d.Allergens
}

// CreateDishCommand represents the command to add a dish
type CreateDishCommand struct {
	DishDetails
}

// UpdateDishCommand overwrites the editable fields of a dish
type UpdateDishCommand struct {
	ID uint
	DishDetails
}

// SetDishActiveCommand activates or deactivates a dish
type SetDishActiveCommand struct {
	ID     uint
	Active bool
}

// SetPromotionCommand starts or ends a promotion. Price is ignored when Active is false.
type SetPromotionCommand struct {
	ID     uint
	Active bool
	Price  decimal.NullDecimal
}

// DishHandler handles dish mutations
type DishHandler struct {
	dishes     domain.DishRepository
	categories domain.CategoryRepository
}

func NewDishHandler(dishes domain.DishRepository, categories domain.CategoryRepository) *DishHandler {
	return &DishHandler{dishes: dishes, categories: categories}
}

// Create executes the create dish command
func (h *DishHandler) Create(ctx context.Context, cmd CreateDishCommand) (*domain.Dish, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	category, err := h.categories.FindByID(ctx, cmd.CategoryID)
	if err != nil {
		return nil, err
	}

	dish := &domain.Dish{IsActive: true}
	cmd.apply(dish)
	if err := h.dishes.Create(ctx, dish); err != nil {
		return nil, err
	}
	dish.Category = category
	return dish, nil
}

// Update executes the update dish command. Prices already frozen on order items are untouched.
func (h *DishHandler) Update(ctx context.Context, cmd UpdateDishCommand) (*domain.Dish, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	dish, err := h.dishes.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	category, err := h.categories.FindByID(ctx, cmd.CategoryID)
	if err != nil {
		return nil, err
	}

	cmd.apply(dish)
	dish.Category = category
	if err := h.dishes.Update(ctx, dish); err != nil {
		return nil, err
	}
	return dish, nil
}

// SetActive executes the activate/deactivate command
func (h *DishHandler) SetActive(ctx context.Context, cmd SetDishActiveCommand) (*domain.Dish, error) {
	dish, err := h.dishes.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if dish.IsActive == cmd.Active {
		return dish, nil
	}

	dish.IsActive = cmd.Active
	if err := h.dishes.Update(ctx, dish); err != nil {
		return nil, err
	}
	return dish, nil
}

// SetPromotion executes the promotion command
func (h *DishHandler) SetPromotion(ctx context.Context, cmd SetPromotionCommand) (*domain.Dish, error) {
	dish, err := h.dishes.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Active {
		if err := validatePromotion(true, cmd.Price, dish.Price); err != nil {
			return nil, err
		}
		dish.PromotionPrice = decimal.NewNullDecimal(cmd.Price.Decimal.Round(2))
	} else {
		dish.PromotionPrice = decimal.NullDecimal{}
	}
	dish.IsOnPromotion = cmd.Active

	if err := h.dishes.Update(ctx, dish); err != nil {
		return nil, err
	}
	return dish, nil
}
