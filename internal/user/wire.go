//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/user/delivery/http"
	"github.com/tair/restaurant-backend/internal/user/domain"
	"github.com/tair/restaurant-backend/internal/user/repository"
	"github.com/tair/restaurant-backend/internal/user/usecase/command"
	"github.com/tair/restaurant-backend/internal/user/usecase/query"
	"github.com/tair/restaurant-backend/pkg/ratelimit"
)

// ProvideUserRepository provides the traced user repository
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewGormUserRepositoryWithTracing(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)

var CommandHandlerSet = wire.NewSet(
	command.NewRegisterUserHandler,
	command.NewLoginUserHandler,
	command.NewUpdateUserHandler,
	command.NewChangePasswordHandler,
	command.NewChangeRoleHandler,
	command.NewToggleActiveHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetUserHandler,
	query.NewListUsersHandler,
	query.NewGetStatsHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, tokens command.TokenIssuer, loginLimiter *ratelimit.Limiter) (*http.UserHandler, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
		QueryHandlerSet,
		http.NewUserHandler,
	)
	return nil, nil
}

// InitializeBootstrapAdminHandler builds the startup admin seeding command
func InitializeBootstrapAdminHandler(db *gorm.DB) (*command.BootstrapAdminHandler, error) {
	wire.Build(
		RepositorySet,
		command.NewRegisterUserHandler,
		command.NewBootstrapAdminHandler,
	)
	return nil, nil
}
