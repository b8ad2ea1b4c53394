package command

import (
	"context"
	"fmt"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/user/domain"
	"github.com/tair/restaurant-backend/pkg/auth"
)

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateToken(userID uint, username, role string) (string, error)
}

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	Username string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token string       `json:"token"`
	Type  string       `json:"type"`
	User  *domain.User `json:"user"`
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo   domain.UserRepository
	tokens TokenIssuer
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository, tokens TokenIssuer) *LoginUserHandler {
	return &LoginUserHandler{repo: repo, tokens: tokens}
}

// Handle executes the login user command. Unknown users and wrong passwords
// are indistinguishable to the caller.
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginResponse, error) {
	if cmd.Username == "" || cmd.Password == "" {
		return nil, apperror.Validation("username and password are required")
	}

	user, err := h.repo.FindByUsername(ctx, cmd.Username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, cmd.Password) {
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if !user.IsActive {
		return nil, apperror.Forbidden("account is deactivated")
	}

	token, err := h.tokens.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{
		Token: token,
		Type:  "Bearer",
		User:  user,
	}, nil
}
