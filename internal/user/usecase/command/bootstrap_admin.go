package command

import (
	"context"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/user/domain"
	"github.com/tair/restaurant-backend/pkg/auth"
	"github.com/tair/restaurant-backend/pkg/logger"
)

// BootstrapAdminCommand creates the first admin account when it is missing
type BootstrapAdminCommand struct {
	Username string
	Password string
}

type BootstrapAdminHandler struct {
	repo     domain.UserRepository
	register *RegisterUserHandler
}

func NewBootstrapAdminHandler(repo domain.UserRepository, register *RegisterUserHandler) *BootstrapAdminHandler {
	return &BootstrapAdminHandler{repo: repo, register: register}
}

// Handle is a no-op when the username already exists or no password is configured
func (h *BootstrapAdminHandler) Handle(ctx context.Context, cmd BootstrapAdminCommand) error {
	if cmd.Username == "" || cmd.Password == "" {
		return nil
	}

	_, err := h.repo.FindByUsername(ctx, cmd.Username)
	if err == nil {
		return nil
	}
	if !apperror.IsNotFound(err) {
		return err
	}

	user, err := h.register.Handle(ctx, RegisterUserCommand{
		Username: cmd.Username,
		Password: cmd.Password,
		FullName: "Administrator",
		Role:     auth.RoleAdmin,
	})
	if err != nil {
		return err
	}
	logger.Info(ctx).Uint("user_id", user.ID).Str("username", user.Username).Msg("Admin account created")
	return nil
}
