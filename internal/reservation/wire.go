//go:build wireinject
// +build wireinject

package reservation

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/reservation/availability"
	"github.com/tair/restaurant-backend/internal/reservation/delivery/http"
	"github.com/tair/restaurant-backend/internal/reservation/domain"
	"github.com/tair/restaurant-backend/internal/reservation/repository"
	"github.com/tair/restaurant-backend/internal/reservation/usecase/command"
	"github.com/tair/restaurant-backend/internal/reservation/usecase/query"
	tabledomain "github.com/tair/restaurant-backend/internal/table/domain"
	"github.com/tair/restaurant-backend/pkg/database"
)

// ProvideReservationRepository provides the traced reservation repository
func ProvideReservationRepository(db *gorm.DB) domain.ReservationRepository {
	return repository.NewGormReservationRepositoryWithTracing(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideReservationRepository,
	database.NewGormTransactor,
	wire.Bind(new(database.Transactor), new(*database.GormTransactor)),
)

var CommandHandlerSet = wire.NewSet(
	command.NewCreateReservationHandler,
	command.NewUpdateReservationHandler,
	command.NewChangeStatusHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetReservationHandler,
	query.NewListReservationsHandler,
	query.NewAvailabilityHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(
	db *gorm.DB,
	tables tabledomain.TableRepository,
	events command.EventPublisher,
	settings command.Settings,
) (*http.ReservationHandler, error) {
	wire.Build(
		RepositorySet,
		availability.NewEngine,
		CommandHandlerSet,
		QueryHandlerSet,
		http.NewReservationHandler,
	)
	return nil, nil
}
