package query

import (
	"context"

	"github.com/tair/restaurant-backend/internal/table/domain"
)

// GetTableQuery represents the query to get a table by ID
type GetTableQuery struct {
	ID uint
}

// GetTableHandler handles get table query
type GetTableHandler struct {
	repo domain.TableRepository
}

// NewGetTableHandler creates a new get table handler
func NewGetTableHandler(repo domain.TableRepository) *GetTableHandler {
	return &GetTableHandler{repo: repo}
}

// Handle executes the get table query
func (h *GetTableHandler) Handle(ctx context.Context, query GetTableQuery) (*domain.RestaurantTable, error) {
	return h.repo.FindByID(ctx, query.ID)
}
