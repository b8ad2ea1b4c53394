package storetest

import (
	"context"
	"sort"

	"github.com/tair/restaurant-backend/internal/apperror"
	tabledomain "github.com/tair/restaurant-backend/internal/table/domain"
)

// TableRepository is an in-memory tabledomain.TableRepository
type TableRepository struct {
	s *Store
}

func (s *Store) Tables() *TableRepository {
	return &TableRepository{s: s}
}

func (r *TableRepository) Create(_ context.Context, table *tabledomain.RestaurantTable) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.data.tables {
		if t.Number == table.Number {
			return apperror.Conflict("table conflicts with an existing record")
		}
	}
	table.ID = r.s.nextID()
	r.s.stamp(&table.CreatedAt, &table.UpdatedAt)
	r.s.data.tables[table.ID] = *table
	return nil
}

func (r *TableRepository) Update(_ context.Context, table *tabledomain.RestaurantTable) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.tables[table.ID]; !ok {
		return apperror.NotFound("table not found")
	}
	r.s.stamp(&table.CreatedAt, &table.UpdatedAt)
	r.s.data.tables[table.ID] = *table
	return nil
}

func (r *TableRepository) FindByID(_ context.Context, id uint) (*tabledomain.RestaurantTable, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.data.tables[id]
	if !ok {
		return nil, apperror.NotFound("table not found")
	}
	return &t, nil
}

func (r *TableRepository) FindByIDForUpdate(ctx context.Context, id uint) (*tabledomain.RestaurantTable, error) {
	return r.FindByID(ctx, id)
}

func (r *TableRepository) FindByNumber(_ context.Context, number int) (*tabledomain.RestaurantTable, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.data.tables {
		if t.Number == number {
			return &t, nil
		}
	}
	return nil, apperror.NotFound("table not found")
}

func (r *TableRepository) FindAll(_ context.Context, filter tabledomain.TableFilter) ([]tabledomain.RestaurantTable, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []tabledomain.RestaurantTable
	for _, t := range r.s.data.tables {
		if filter.ActiveOnly && !t.IsActive {
			continue
		}
		if t.Capacity < filter.MinCapacity {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
