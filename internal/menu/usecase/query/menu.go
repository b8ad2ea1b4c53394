package query

import (
	"context"
	"strings"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/menu/domain"
)

// GetDishQuery represents the query to get a dish by ID
type GetDishQuery struct {
	ID uint
}

// ListDishesQuery lists dishes. Inactive dishes are only listed when IncludeInactive is set.
type ListDishesQuery struct {
	IncludeInactive bool
	CategoryID      uint
	PromotionOnly   bool
	Search          string
}

// ListCategoriesQuery lists categories in display order
type ListCategoriesQuery struct {
	IncludeInactive bool
}

// MenuQueryHandler answers menu reads
type MenuQueryHandler struct {
	dishes     domain.DishRepository
	categories domain.CategoryRepository
}

func NewMenuQueryHandler(dishes domain.DishRepository, categories domain.CategoryRepository) *MenuQueryHandler {
	return &MenuQueryHandler{dishes: dishes, categories: categories}
}

// GetDish executes the get dish query
func (h *MenuQueryHandler) GetDish(ctx context.Context, query GetDishQuery) (*domain.Dish, error) {
	return h.dishes.FindByID(ctx, query.ID)
}

// ListDishes executes the list dishes query
func (h *MenuQueryHandler) ListDishes(ctx context.Context, query ListDishesQuery) ([]domain.Dish, error) {
	if query.CategoryID != 0 {
		if _, err := h.categories.FindByID(ctx, query.CategoryID); err != nil {
			return nil, err
		}
	}
	search := strings.TrimSpace(query.Search)
	if query.Search != "" && search == "" {
		return nil, apperror.Validation("search term is empty")
	}

	dishes, err := h.dishes.FindAll(ctx, domain.DishFilter{
		ActiveOnly:    !query.IncludeInactive,
		CategoryID:    query.CategoryID,
		PromotionOnly: query.PromotionOnly,
		NameContains:  search,
	})
	if err != nil {
		return nil, err
	}
	if dishes == nil {
		dishes = []domain.Dish{}
	}
	return dishes, nil
}

// ListCategories executes the list categories query
func (h *MenuQueryHandler) ListCategories(ctx context.Context, query ListCategoriesQuery) ([]domain.MenuCategory, error) {
	categories, err := h.categories.FindAll(ctx, !query.IncludeInactive)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.MenuCategory{}
	}
	return categories, nil
}
