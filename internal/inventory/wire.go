//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/inventory/delivery/http"
	"github.com/tair/restaurant-backend/internal/inventory/domain"
	"github.com/tair/restaurant-backend/internal/inventory/repository"
	"github.com/tair/restaurant-backend/internal/inventory/usecase/command"
	"github.com/tair/restaurant-backend/internal/inventory/usecase/query"
	menudomain "github.com/tair/restaurant-backend/internal/menu/domain"
	"github.com/tair/restaurant-backend/pkg/database"
)

// ProvideIngredientRepository provides the traced ingredient repository
func ProvideIngredientRepository(db *gorm.DB) domain.IngredientRepository {
	return repository.NewGormIngredientRepositoryWithTracing(db)
}

// ProvideMovementRepository provides the traced stock ledger
func ProvideMovementRepository(db *gorm.DB) domain.MovementRepository {
	return repository.NewGormMovementRepositoryWithTracing(db)
}

// ProvideRecipeRepository provides the recipe repository
func ProvideRecipeRepository(db *gorm.DB) domain.RecipeRepository {
	return repository.NewGormRecipeRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideIngredientRepository,
	ProvideMovementRepository,
	ProvideRecipeRepository,
	database.NewGormTransactor,
	wire.Bind(new(database.Transactor), new(*database.GormTransactor)),
)

var CommandHandlerSet = wire.NewSet(
	command.NewRecordMovementHandler,
	command.NewIngredientHandler,
	command.NewRecipeHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewStockQueryHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	dishes menudomain.DishRepository,
	orders query.OrderFinder,
	events command.EventPublisher,
) (*http.InventoryHandler, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
		QueryHandlerSet,
		http.NewInventoryHandler,
	)
	return nil, nil
}

// InitializeProduceOrderHandler initializes the order.paid consumer handler
func InitializeProduceOrderHandler(db *gorm.DB, events command.EventPublisher) (*command.ProduceOrderHandler, error) {
	wire.Build(
		RepositorySet,
		command.NewRecordMovementHandler,
		command.NewProduceOrderHandler,
	)
	return nil, nil
}
