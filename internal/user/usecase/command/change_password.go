package command

import (
	"context"
	"fmt"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/user/domain"
	"github.com/tair/restaurant-backend/pkg/auth"
)

// ChangePasswordCommand changes the password of the calling user
type ChangePasswordCommand struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

type ChangePasswordHandler struct {
	repo domain.UserRepository
}

func NewChangePasswordHandler(repo domain.UserRepository) *ChangePasswordHandler {
	return &ChangePasswordHandler{repo: repo}
}

// Handle executes the change password command
func (h *ChangePasswordHandler) Handle(ctx context.Context, cmd ChangePasswordCommand) error {
	if len(cmd.NewPassword) < minPasswordLength {
		return apperror.Validation("password must be at least %d characters", minPasswordLength)
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, cmd.CurrentPassword) {
		return apperror.Validation("current password is incorrect")
	}

	hashed, err := auth.HashPassword(cmd.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hashed
	return h.repo.Update(ctx, user)
}
