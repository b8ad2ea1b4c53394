package command

import (
	"context"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/table/domain"
)

// CreateTableCommand represents the command to register a new table
type CreateTableCommand struct {
	Number   int
	Capacity int
	Type     domain.TableType
	Location string
}

// CreateTableHandler handles table creation
type CreateTableHandler struct {
	repo domain.TableRepository
}

// NewCreateTableHandler creates a new create table handler
func NewCreateTableHandler(repo domain.TableRepository) *CreateTableHandler {
	return &CreateTableHandler{repo: repo}
}

// Handle executes the create table command
func (h *CreateTableHandler) Handle(ctx context.Context, cmd CreateTableCommand) (*domain.RestaurantTable, error) {
	if err := validateTable(cmd.Number, cmd.Capacity, &cmd.Type); err != nil {
		return nil, err
	}

	existing, err := h.repo.FindByNumber(ctx, cmd.Number)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("table number %d already exists", cmd.Number)
	}

	table := &domain.RestaurantTable{
		Number:   cmd.Number,
		Capacity: cmd.Capacity,
		Type:     cmd.Type,
		Location: cmd.Location,
		IsActive: true,
	}
	if err := h.repo.Create(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

func validateTable(number, capacity int, tableType *domain.TableType) error {
	if number <= 0 {
		return apperror.Validation("table number must be positive")
	}
	if capacity <= 0 {
		return apperror.Validation("capacity must be positive")
	}
	if *tableType == "" {
		*tableType = domain.TypeStandard
	}
	if !tableType.Valid() {
		return apperror.Validation("unknown table type %q", *tableType)
	}
	return nil
}
