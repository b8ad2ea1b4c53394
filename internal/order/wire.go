//go:build wireinject
// +build wireinject

package order

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	menudomain "github.com/tair/restaurant-backend/internal/menu/domain"
	"github.com/tair/restaurant-backend/internal/order/delivery/http"
	"github.com/tair/restaurant-backend/internal/order/domain"
	"github.com/tair/restaurant-backend/internal/order/repository"
	"github.com/tair/restaurant-backend/internal/order/usecase/command"
	"github.com/tair/restaurant-backend/internal/order/usecase/query"
	tabledomain "github.com/tair/restaurant-backend/internal/table/domain"
	"github.com/tair/restaurant-backend/pkg/database"
)

// ProvideOrderRepository provides the traced order repository
func ProvideOrderRepository(db *gorm.DB) domain.OrderRepository {
	return repository.NewGormOrderRepositoryWithTracing(db)
}

// ProvideStatusRepository provides the order status repository
func ProvideStatusRepository(db *gorm.DB) domain.StatusRepository {
	return repository.NewGormStatusRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideOrderRepository,
	ProvideStatusRepository,
	database.NewGormTransactor,
	wire.Bind(new(database.Transactor), new(*database.GormTransactor)),
)

var CommandHandlerSet = wire.NewSet(
	command.NewCreateOrderHandler,
	command.NewOrderItemsHandler,
	command.NewUpdateOrderStatusHandler,
	command.NewStatusHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewOrderQueryHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	tables tabledomain.TableRepository,
	reservations command.ReservationFinder,
	waiters command.WaiterDirectory,
	dishes menudomain.DishRepository,
	events command.EventPublisher,
	vocabulary domain.Vocabulary,
) (*http.OrderHandler, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
		QueryHandlerSet,
		http.NewOrderHandler,
	)
	return nil, nil
}

// InitializeStatusHandler initializes the status vocabulary handler used for seeding
func InitializeStatusHandler(db *gorm.DB, vocabulary domain.Vocabulary) (*command.StatusHandler, error) {
	wire.Build(
		ProvideStatusRepository,
		database.NewGormTransactor,
		wire.Bind(new(database.Transactor), new(*database.GormTransactor)),
		command.NewStatusHandler,
	)
	return nil, nil
}
