package command

import (
	"context"
	"strings"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/menu/domain"
)

// CreateCategoryCommand represents the command to add a menu category
type CreateCategoryCommand struct {
	Name         string
	Description  string
	DisplayOrder int
}

type CreateCategoryHandler struct {
	repo domain.CategoryRepository
}

func NewCreateCategoryHandler(repo domain.CategoryRepository) *CreateCategoryHandler {
	return &CreateCategoryHandler{repo: repo}
}

// Handle executes the command; a duplicate name surfaces as Conflict from the unique index
func (h *CreateCategoryHandler) Handle(ctx context.Context, cmd CreateCategoryCommand) (*domain.MenuCategory, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperror.Validation("category name is required")
	}

	category := &domain.MenuCategory{
		Name:         name,
		Description:  cmd.Description,
		DisplayOrder: cmd.DisplayOrder,
		IsActive:     true,
	}
	if err := h.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
