package command

import (
	"context"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/user/domain"
	"github.com/tair/restaurant-backend/pkg/auth"
)

// ChangeRoleCommand represents the command to change user role (admin only)
type ChangeRoleCommand struct {
	UserID  uint
	Role    string
	ActorID uint
}

// ChangeRoleHandler handles user role change command
type ChangeRoleHandler struct {
	repo domain.UserRepository
}

// NewChangeRoleHandler creates a new change role handler
func NewChangeRoleHandler(repo domain.UserRepository) *ChangeRoleHandler {
	return &ChangeRoleHandler{repo: repo}
}

// Handle executes the change role command. Admins cannot demote themselves.
func (h *ChangeRoleHandler) Handle(ctx context.Context, cmd ChangeRoleCommand) (*domain.User, error) {
	if !auth.ValidRole(cmd.Role) {
		return nil, apperror.Validation("invalid role %q", cmd.Role)
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if user.ID == cmd.ActorID && user.Role == auth.RoleAdmin && cmd.Role != auth.RoleAdmin {
		return nil, apperror.Validation("cannot remove your own admin role")
	}

	user.Role = cmd.Role
	if err := h.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
