//go:build wireinject
// +build wireinject

package table

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/table/delivery/http"
	"github.com/tair/restaurant-backend/internal/table/domain"
	"github.com/tair/restaurant-backend/internal/table/repository"
	"github.com/tair/restaurant-backend/internal/table/usecase/command"
	"github.com/tair/restaurant-backend/internal/table/usecase/query"
)

// ProvideTableRepository provides the traced table repository
func ProvideTableRepository(db *gorm.DB) domain.TableRepository {
	return repository.NewGormTableRepositoryWithTracing(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideTableRepository,
)

var CommandHandlerSet = wire.NewSet(
	command.NewCreateTableHandler,
	command.NewUpdateTableHandler,
	command.NewSetTableActiveHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetTableHandler,
	query.NewListTablesHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.TableHandler, error) {
	wire.Build(
		RepositorySet,
		CommandHandlerSet,
		QueryHandlerSet,
		http.NewTableHandler,
	)
	return nil, nil
}
