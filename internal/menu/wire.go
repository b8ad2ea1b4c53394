//go:build wireinject
// +build wireinject

package menu

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/menu/delivery/http"
	"github.com/tair/restaurant-backend/internal/menu/domain"
	"github.com/tair/restaurant-backend/internal/menu/repository"
	"github.com/tair/restaurant-backend/internal/menu/usecase/command"
	"github.com/tair/restaurant-backend/internal/menu/usecase/query"
	"github.com/tair/restaurant-backend/pkg/cache"
)

// ProvideDishRepository provides the traced dish repository
func ProvideDishRepository(db *gorm.DB) domain.DishRepository {
	return repository.NewGormDishRepositoryWithTracing(db)
}

// ProvideCategoryRepository provides the category repository
func ProvideCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return repository.NewGormCategoryRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideDishRepository,
	ProvideCategoryRepository,
)

var CommandHandlerSet = wire.NewSet(
	command.NewCreateCategoryHandler,
	command.NewDishHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewMenuQueryHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, responseCache *cache.ResponseCache) (*http.MenuHandler, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
		QueryHandlerSet,
		http.NewMenuHandler,
	)
	return nil, nil
}
