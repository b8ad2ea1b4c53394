package query_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/menu/domain"
	"github.com/tair/restaurant-backend/internal/menu/usecase/query"
	"github.com/tair/restaurant-backend/internal/storetest"
)

func seedMenu(t *testing.T, store *storetest.Store) (starters, mains *domain.MenuCategory) {
	t.Helper()
	ctx := context.Background()

	starters = &domain.MenuCategory{Name: "Starters", DisplayOrder: 1, IsActive: true}
	mains = &domain.MenuCategory{Name: "Mains", DisplayOrder: 2, IsActive: true}
	archive := &domain.MenuCategory{Name: "Archive", DisplayOrder: 0, IsActive: false}
	for _, c := range []*domain.MenuCategory{mains, starters, archive} {
		require.NoError(t, store.Categories().Create(ctx, c))
	}

	dishes := []*domain.Dish{
		{Name: "Bruschetta", CategoryID: starters.ID, Price: decimal.RequireFromString("6"), IsActive: true},
		{Name: "Soup of the day", CategoryID: starters.ID, Price: decimal.RequireFromString("5"), IsActive: false},
		{Name: "Steak", CategoryID: mains.ID, Price: decimal.RequireFromString("24"), IsActive: true,
			IsOnPromotion: true, PromotionPrice: decimal.NewNullDecimal(decimal.RequireFromString("19"))},
		{Name: "Mushroom risotto", CategoryID: mains.ID, Price: decimal.RequireFromString("13"), IsActive: true},
	}
	for _, d := range dishes {
		require.NoError(t, store.Dishes().Create(ctx, d))
	}
	return starters, mains
}

func names(dishes []domain.Dish) []string {
	out := make([]string, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, d.Name)
	}
	return out
}

func TestListDishes(t *testing.T) {
	store := storetest.New()
	starters, mains := seedMenu(t, store)
	h := query.NewMenuQueryHandler(store.Dishes(), store.Categories())
	ctx := context.Background()

	all, err := h.ListDishes(ctx, query.ListDishesQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bruschetta", "Mushroom risotto", "Steak"}, names(all))

	withInactive, err := h.ListDishes(ctx, query.ListDishesQuery{IncludeInactive: true, CategoryID: starters.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bruschetta", "Soup of the day"}, names(withInactive))

	promo, err := h.ListDishes(ctx, query.ListDishesQuery{PromotionOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Steak"}, names(promo))

	search, err := h.ListDishes(ctx, query.ListDishesQuery{Search: " RISOTTO ", CategoryID: mains.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Mushroom risotto"}, names(search))
}

func TestListDishes_Errors(t *testing.T) {
	store := storetest.New()
	seedMenu(t, store)
	h := query.NewMenuQueryHandler(store.Dishes(), store.Categories())

	_, err := h.ListDishes(context.Background(), query.ListDishesQuery{CategoryID: 999})
	assert.True(t, apperror.IsNotFound(err))

	_, err = h.ListDishes(context.Background(), query.ListDishesQuery{Search: "   "})
	assert.True(t, apperror.IsValidation(err))
}

func TestListDishes_EmptyMenu(t *testing.T) {
	store := storetest.New()
	h := query.NewMenuQueryHandler(store.Dishes(), store.Categories())

	dishes, err := h.ListDishes(context.Background(), query.ListDishesQuery{})
	require.NoError(t, err)
	assert.NotNil(t, dishes)
	assert.Empty(t, dishes)
}

func TestListCategories(t *testing.T) {
	store := storetest.New()
	seedMenu(t, store)
	h := query.NewMenuQueryHandler(store.Dishes(), store.Categories())

	active, err := h.ListCategories(context.Background(), query.ListCategoriesQuery{})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Starters", active[0].Name)
	assert.Equal(t, "Mains", active[1].Name)

	all, err := h.ListCategories(context.Background(), query.ListCategoriesQuery{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Archive", all[0].Name)
}

func TestGetDish(t *testing.T) {
	store := storetest.New()
	seedMenu(t, store)
	h := query.NewMenuQueryHandler(store.Dishes(), store.Categories())

	_, err := h.GetDish(context.Background(), query.GetDishQuery{ID: 999})
	assert.True(t, apperror.IsNotFound(err))
}
