package command

import (
	"context"

	"github.com/tair/restaurant-backend/internal/table/domain"
)

// SetTableActiveCommand activates or deactivates (soft-deletes) a table
type SetTableActiveCommand struct {
	ID     uint
	Active bool
}

type SetTableActiveHandler struct {
	repo domain.TableRepository
}

func NewSetTableActiveHandler(repo domain.TableRepository) *SetTableActiveHandler {
	return &SetTableActiveHandler{repo: repo}
}

func (h *SetTableActiveHandler) Handle(ctx context.Context, cmd SetTableActiveCommand) (*domain.RestaurantTable, error) {
	table, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if table.IsActive == cmd.Active {
		return table, nil
	}

	table.IsActive = cmd.Active
	if err := h.repo.Update(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}
