package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/table/domain"
	"github.com/tair/restaurant-backend/pkg/database"
)

const entity = "table"

type GormTableRepository struct {
	db *gorm.DB
}

func NewGormTableRepository(db *gorm.DB) *GormTableRepository {
	return &GormTableRepository{db: db}
}

func (r *GormTableRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.RestaurantTable{})
}

func (r *GormTableRepository) Create(ctx context.Context, table *domain.RestaurantTable) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Create(table).Error, entity)
}

func (r *GormTableRepository) Update(ctx context.Context, table *domain.RestaurantTable) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Save(table).Error, entity)
}

func (r *GormTableRepository) FindByID(ctx context.Context, id uint) (*domain.RestaurantTable, error) {
	var table domain.RestaurantTable
	if err := database.Conn(ctx, r.db).First(&table, id).Error; err != nil {
		return nil, apperror.FromDB(err, entity)
	}
	return &table, nil
}

func (r *GormTableRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.RestaurantTable, error) {
	var table domain.RestaurantTable
	if err := database.ForUpdate(ctx, r.db).First(&table, id).Error; err != nil {
		return nil, apperror.FromDB(err, entity)
	}
	return &table, nil
}

func (r *GormTableRepository) FindByNumber(ctx context.Context, number int) (*domain.RestaurantTable, error) {
	var table domain.RestaurantTable
	if err := database.Conn(ctx, r.db).Where("number = ?", number).First(&table).Error; err != nil {
		return nil, apperror.FromDB(err, entity)
	}
	return &table, nil
}

func (r *GormTableRepository) FindAll(ctx context.Context, filter domain.TableFilter) ([]domain.RestaurantTable, error) {
	q := database.Conn(ctx, r.db).Order("id")
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.MinCapacity > 0 {
		q = q.Where("capacity >= ?", filter.MinCapacity)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var tables []domain.RestaurantTable
	if err := q.Find(&tables).Error; err != nil {
		return nil, apperror.FromDB(err, entity)
	}
	return tables, nil
}
