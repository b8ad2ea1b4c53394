package command

import (
	"context"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/table/domain"
)

// UpdateTableCommand overwrites the descriptive fields of a table
type UpdateTableCommand struct {
	ID       uint
	Number   int
	Capacity int
	Type     domain.TableType
	Location string
}

// UpdateTableHandler handles table updates
type UpdateTableHandler struct {
	repo domain.TableRepository
}

// NewUpdateTableHandler creates a new update table handler
func NewUpdateTableHandler(repo domain.TableRepository) *UpdateTableHandler {
	return &UpdateTableHandler{repo: repo}
}

// Handle executes the update table command. Existing reservations are not re-validated
// against a reduced capacity.
func (h *UpdateTableHandler) Handle(ctx context.Context, cmd UpdateTableCommand) (*domain.RestaurantTable, error) {
	if err := validateTable(cmd.Number, cmd.Capacity, &cmd.Type); err != nil {
		return nil, err
	}

	table, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Number != table.Number {
		other, err := h.repo.FindByNumber(ctx, cmd.Number)
		if err != nil && !apperror.IsNotFound(err) {
			return nil, err
		}
		if other != nil {
			return nil, apperror.Conflict("table number %d already exists", cmd.Number)
		}
	}

	table.Number = cmd.Number
	table.Capacity = cmd.Capacity
	table.Type = cmd.Type
	table.Location = cmd.Location

	if err := h.repo.Update(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}
