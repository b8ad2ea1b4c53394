package command

import (
	"context"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/user/domain"
)

// ToggleActiveCommand represents the command to activate/deactivate user (admin only)
type ToggleActiveCommand struct {
	UserID   uint
	IsActive bool
	// ActorID is the admin issuing the command
	ActorID uint
}

// ToggleActiveHandler handles user activation toggle command
type ToggleActiveHandler struct {
	repo domain.UserRepository
}

// NewToggleActiveHandler creates a new toggle active handler
func NewToggleActiveHandler(repo domain.UserRepository) *ToggleActiveHandler {
	return &ToggleActiveHandler{repo: repo}
}

// Handle executes the toggle active command
func (h *ToggleActiveHandler) Handle(ctx context.Context, cmd ToggleActiveCommand) (*domain.User, error) {
	if !cmd.IsActive && cmd.UserID == cmd.ActorID {
		return nil, apperror.Validation("cannot deactivate your own account")
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if user.IsActive == cmd.IsActive {
		return user, nil
	}

	user.IsActive = cmd.IsActive
	if err := h.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
