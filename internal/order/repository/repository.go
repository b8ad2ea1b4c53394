package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/order/domain"
	"github.com/tair/restaurant-backend/pkg/database"
)

const (
	orderEntity  = "order"
	itemEntity   = "order item"
	statusEntity = "order status"
)

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Order{}, &domain.OrderItem{})
}

func itemsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id")
}

// withAggregate preloads everything an order response carries
func withAggregate(q *gorm.DB) *gorm.DB {
	return q.Preload("Items", itemsInOrder).Preload("Status").Preload("Table")
}

// Create inserts the order together with its items
func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Omit("Table", "Status").Create(order).Error, orderEntity)
}

func (r *GormOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Omit(clause.Associations).Save(order).Error, orderEntity)
}

func (r *GormOrderRepository) AddItem(ctx context.Context, item *domain.OrderItem) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Create(item).Error, itemEntity)
}

func (r *GormOrderRepository) DeleteItem(ctx context.Context, orderID, itemID uint) error {
	result := database.Conn(ctx, r.db).Where("order_id = ?", orderID).Delete(&domain.OrderItem{}, itemID)
	if result.Error != nil {
		return apperror.FromDB(result.Error, itemEntity)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("order item not found")
	}
	return nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	if err := withAggregate(database.Conn(ctx, r.db)).First(&order, id).Error; err != nil {
		return nil, apperror.FromDB(err, orderEntity)
	}
	return &order, nil
}

// FindByIDForUpdate locks the order row; the preloads read the current items under that lock
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	if err := withAggregate(database.ForUpdate(ctx, r.db)).First(&order, id).Error; err != nil {
		return nil, apperror.FromDB(err, orderEntity)
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	var order domain.Order
	if err := withAggregate(database.Conn(ctx, r.db)).Where("order_number = ?", number).First(&order).Error; err != nil {
		return nil, apperror.FromDB(err, orderEntity)
	}
	return &order, nil
}

func (r *GormOrderRepository) FindAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	q := withAggregate(database.Conn(ctx, r.db).Model(&domain.Order{}))
	if len(filter.StatusNames) > 0 {
		q = q.Joins("JOIN order_statuses ON order_statuses.id = orders.status_id").
			Where("order_statuses.name IN ?", filter.StatusNames)
	}
	if filter.TableNumber != 0 {
		q = q.Joins("JOIN restaurant_tables ON restaurant_tables.id = orders.table_id").
			Where("restaurant_tables.number = ?", filter.TableNumber)
	}
	if filter.WaiterUsername != "" {
		q = q.Where("orders.waiter_username = ?", filter.WaiterUsername)
	}
	if filter.ReservationID != 0 {
		q = q.Where("orders.reservation_id = ?", filter.ReservationID)
	}

	var orders []domain.Order
	if err := q.Order("orders.created_at, orders.id").Find(&orders).Error; err != nil {
		return nil, apperror.FromDB(err, orderEntity)
	}
	return orders, nil
}

// CountPaidBetween counts orders created in [from, to) that are in the paid status
func (r *GormOrderRepository) CountPaidBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&domain.Order{}).
		Joins("JOIN order_statuses ON order_statuses.id = orders.status_id").
		Where("order_statuses.is_paid = ?", true).
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to).
		Count(&count).Error
	if err != nil {
		return 0, apperror.FromDB(err, orderEntity)
	}
	return count, nil
}

// PopularDishes sums item quantities per dish over orders created in [from, to)
func (r *GormOrderRepository) PopularDishes(ctx context.Context, from, to time.Time, limit int) ([]domain.DishPopularity, error) {
	var rows []domain.DishPopularity
	err := database.Conn(ctx, r.db).Model(&domain.OrderItem{}).
		Select("order_items.dish_id, MAX(order_items.dish_name) AS dish_name, SUM(order_items.quantity) AS quantity").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to).
		Group("order_items.dish_id").
		Order("quantity DESC, order_items.dish_id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.FromDB(err, itemEntity)
	}
	return rows, nil
}

type GormStatusRepository struct {
	db *gorm.DB
}

func NewGormStatusRepository(db *gorm.DB) *GormStatusRepository {
	return &GormStatusRepository{db: db}
}

func (r *GormStatusRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.OrderStatus{})
}

func (r *GormStatusRepository) Create(ctx context.Context, status *domain.OrderStatus) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Create(status).Error, statusEntity)
}

func (r *GormStatusRepository) Update(ctx context.Context, status *domain.OrderStatus) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Save(status).Error, statusEntity)
}

func (r *GormStatusRepository) FindByName(ctx context.Context, name string) (*domain.OrderStatus, error) {
	var status domain.OrderStatus
	if err := database.Conn(ctx, r.db).Where("name = ?", name).First(&status).Error; err != nil {
		return nil, apperror.FromDB(err, statusEntity)
	}
	return &status, nil
}

func (r *GormStatusRepository) FindPaid(ctx context.Context) (*domain.OrderStatus, error) {
	var status domain.OrderStatus
	if err := database.Conn(ctx, r.db).Where("is_paid = ?", true).First(&status).Error; err != nil {
		return nil, apperror.FromDB(err, statusEntity)
	}
	return &status, nil
}

func (r *GormStatusRepository) FindAll(ctx context.Context) ([]domain.OrderStatus, error) {
	var statuses []domain.OrderStatus
	if err := database.Conn(ctx, r.db).Order("display_order, id").Find(&statuses).Error; err != nil {
		return nil, apperror.FromDB(err, statusEntity)
	}
	return statuses, nil
}
