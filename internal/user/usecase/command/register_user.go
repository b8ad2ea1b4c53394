package command

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/user/domain"
	"github.com/tair/restaurant-backend/pkg/auth"
)

const minPasswordLength = 6

// RegisterUserCommand represents the command to register a staff account
type RegisterUserCommand struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	username := strings.TrimSpace(cmd.Username)
	if len(username) < 3 || len(username) > 100 {
		return nil, apperror.Validation("username must be between 3 and 100 characters")
	}
	if len(cmd.Password) < minPasswordLength {
		return nil, apperror.Validation("password must be at least %d characters", minPasswordLength)
	}
	fullName := strings.TrimSpace(cmd.FullName)
	if fullName == "" {
		return nil, apperror.Validation("full name is required")
	}
	email, err := normalizeEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	if !auth.ValidRole(cmd.Role) {
		return nil, apperror.Validation("invalid role %q", cmd.Role)
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hashedPassword,
		Email:        email,
		FullName:     fullName,
		Role:         cmd.Role,
		IsActive:     true,
	}
	if err := h.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// normalizeEmail accepts an empty address
func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", apperror.Validation("email should be valid")
	}
	return email, nil
}
