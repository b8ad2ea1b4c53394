package command

import (
	"context"
	"strings"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/user/domain"
)

// UpdateUserCommand represents the command to update a user's profile
type UpdateUserCommand struct {
	ID       uint
	Email    string
	FullName string
}

// UpdateUserHandler handles user update command
type UpdateUserHandler struct {
	repo domain.UserRepository
}

// NewUpdateUserHandler creates a new update user handler
func NewUpdateUserHandler(repo domain.UserRepository) *UpdateUserHandler {
	return &UpdateUserHandler{repo: repo}
}

// Handle executes the update user command
func (h *UpdateUserHandler) Handle(ctx context.Context, cmd UpdateUserCommand) (*domain.User, error) {
	fullName := strings.TrimSpace(cmd.FullName)
	if fullName == "" {
		return nil, apperror.Validation("full name is required")
	}
	email, err := normalizeEmail(cmd.Email)
	if err != nil {
		return nil, err
	}

	user, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	user.Email = email
	user.FullName = fullName
	if err := h.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
