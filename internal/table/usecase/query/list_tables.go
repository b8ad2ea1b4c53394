package query

import (
	"context"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/table/domain"
)

// ListTablesQuery lists tables matching optional criteria
type ListTablesQuery struct {
	ActiveOnly  bool
	MinCapacity int
	Type        domain.TableType
}

// ListTablesHandler handles list tables query
type ListTablesHandler struct {
	repo domain.TableRepository
}

// NewListTablesHandler creates a new list tables handler
func NewListTablesHandler(repo domain.TableRepository) *ListTablesHandler {
	return &ListTablesHandler{repo: repo}
}

// Handle executes the list tables query
func (h *ListTablesHandler) Handle(ctx context.Context, query ListTablesQuery) ([]domain.RestaurantTable, error) {
	if query.MinCapacity < 0 {
		return nil, apperror.Validation("capacity must not be negative")
	}
	if query.Type != "" && !query.Type.Valid() {
		return nil, apperror.Validation("unknown table type %q", query.Type)
	}

	tables, err := h.repo.FindAll(ctx, domain.TableFilter{
		ActiveOnly:  query.ActiveOnly,
		MinCapacity: query.MinCapacity,
		Type:        query.Type,
	})
	if err != nil {
		return nil, err
	}
	if tables == nil {
		tables = []domain.RestaurantTable{}
	}
	return tables, nil
}
