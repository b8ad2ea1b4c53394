package storetest

import (
	"context"
	"sort"
	"strings"

	"github.com/tair/restaurant-backend/internal/apperror"
	menudomain "github.com/tair/restaurant-backend/internal/menu/domain"
)

// CategoryRepository is an in-memory menudomain.CategoryRepository
type CategoryRepository struct {
	s *Store
}

func (s *Store) Categories() *CategoryRepository {
	return &CategoryRepository{s: s}
}

func (r *CategoryRepository) Create(_ context.Context, category *menudomain.MenuCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.data.categories {
		if c.Name == category.Name {
			return apperror.Conflict("menu category conflicts with an existing record")
		}
	}
	category.ID = r.s.nextID()
	r.s.stamp(&category.CreatedAt, &category.UpdatedAt)
	r.s.data.categories[category.ID] = *category
	return nil
}

func (r *CategoryRepository) FindByID(_ context.Context, id uint) (*menudomain.MenuCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.categories[id]
	if !ok {
		return nil, apperror.NotFound("menu category not found")
	}
	return &c, nil
}

func (r *CategoryRepository) FindAll(_ context.Context, activeOnly bool) ([]menudomain.MenuCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []menudomain.MenuCategory{}
	for _, c := range r.s.data.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder == out[j].DisplayOrder {
			return out[i].ID < out[j].ID
		}
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out, nil
}

// DishRepository is an in-memory menudomain.DishRepository
type DishRepository struct {
	s *Store
}

func (s *Store) Dishes() *DishRepository {
	return &DishRepository{s: s}
}

func (r *DishRepository) Create(_ context.Context, dish *menudomain.Dish) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.categories[dish.CategoryID]; !ok {
		return apperror.Validation("dish references a missing record")
	}
	dish.ID = r.s.nextID()
	r.s.stamp(&dish.CreatedAt, &dish.UpdatedAt)
	stored := *dish
	stored.Category = nil
	r.s.data.dishes[dish.ID] = stored
	return nil
}

func (r *DishRepository) Update(_ context.Context, dish *menudomain.Dish) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.dishes[dish.ID]; !ok {
		return apperror.NotFound("dish not found")
	}
	if _, ok := r.s.data.categories[dish.CategoryID]; !ok {
		return apperror.Validation("dish references a missing record")
	}
	r.s.stamp(&dish.CreatedAt, &dish.UpdatedAt)
	stored := *dish
	stored.Category = nil
	r.s.data.dishes[dish.ID] = stored
	return nil
}

func (r *DishRepository) FindByID(_ context.Context, id uint) (*menudomain.Dish, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.data.dishes[id]
	if !ok {
		return nil, apperror.NotFound("dish not found")
	}
	r.preload(&d)
	return &d, nil
}

func (r *DishRepository) FindAll(_ context.Context, filter menudomain.DishFilter) ([]menudomain.Dish, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	needle := strings.ToLower(filter.NameContains)
	out := []menudomain.Dish{}
	for _, d := range r.s.data.dishes {
		switch {
		case filter.ActiveOnly && !d.IsActive:
			continue
		case filter.CategoryID != 0 && d.CategoryID != filter.CategoryID:
			continue
		case filter.PromotionOnly && !d.IsOnPromotion:
			continue
		case needle != "" && !strings.Contains(strings.ToLower(d.Name), needle):
			continue
		}
		r.preload(&d)
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *DishRepository) preload(d *menudomain.Dish) {
	if c, ok := r.s.data.categories[d.CategoryID]; ok {
		d.Category = &c
	}
}
