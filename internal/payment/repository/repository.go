package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/payment/domain"
	"github.com/tair/restaurant-backend/pkg/database"
)

const paymentEntity = "payment"

type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Payment{})
}

func (r *GormPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Create(payment).Error, paymentEntity)
}

func (r *GormPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Save(payment).Error, paymentEntity)
}

func (r *GormPaymentRepository) FindByID(ctx context.Context, id uint) (*domain.Payment, error) {
	var payment domain.Payment
	if err := database.Conn(ctx, r.db).First(&payment, id).Error; err != nil {
		return nil, apperror.FromDB(err, paymentEntity)
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Payment, error) {
	var payment domain.Payment
	if err := database.ForUpdate(ctx, r.db).First(&payment, id).Error; err != nil {
		return nil, apperror.FromDB(err, paymentEntity)
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindByOrder(ctx context.Context, orderID uint) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := database.Conn(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at, id").
		Find(&payments).Error
	if err != nil {
		return nil, apperror.FromDB(err, paymentEntity)
	}
	return payments, nil
}

func (r *GormPaymentRepository) RevenueByMethod(ctx context.Context, from, to time.Time) ([]domain.MethodRevenue, error) {
	var rows []domain.MethodRevenue
	err := database.Conn(ctx, r.db).Model(&domain.Payment{}).
		Select("method, SUM(amount) AS amount, COUNT(*) AS count").
		Where("status = ?", domain.StatusPaid).
		Where("paid_at >= ? AND paid_at < ?", from, to).
		Group("method").
		Order("method").
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.FromDB(err, paymentEntity)
	}
	return rows, nil
}
