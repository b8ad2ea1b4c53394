//go:build wireinject
// +build wireinject

package payment

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	orderdomain "github.com/tair/restaurant-backend/internal/order/domain"
	ordercommand "github.com/tair/restaurant-backend/internal/order/usecase/command"
	"github.com/tair/restaurant-backend/internal/payment/delivery/http"
	"github.com/tair/restaurant-backend/internal/payment/domain"
	"github.com/tair/restaurant-backend/internal/payment/repository"
	"github.com/tair/restaurant-backend/internal/payment/usecase/command"
	"github.com/tair/restaurant-backend/internal/payment/usecase/query"
	"github.com/tair/restaurant-backend/pkg/database"
)

// ProvidePaymentRepository provides the traced payment repository
func ProvidePaymentRepository(db *gorm.DB) domain.PaymentRepository {
	return repository.NewGormPaymentRepositoryWithTracing(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvidePaymentRepository,
	database.NewGormTransactor,
	wire.Bind(new(database.Transactor), new(*database.GormTransactor)),
)

var CommandHandlerSet = wire.NewSet(
	command.NewCreatePaymentHandler,
	command.NewProcessPaymentHandler,
	command.NewUpdateStatusHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewPaymentQueryHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies. The
// order repositories are shared with the order module so settling a payment
// writes the order in the same transaction.
func InitializeHTTPHandler(
	db *gorm.DB,
	orders orderdomain.OrderRepository,
	statuses orderdomain.StatusRepository,
	events ordercommand.EventPublisher,
) (*http.PaymentHandler, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
		QueryHandlerSet,
		http.NewPaymentHandler,
	)
	return nil, nil
}
