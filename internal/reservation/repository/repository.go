package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/reservation/domain"
	"github.com/tair/restaurant-backend/pkg/database"
)

const entity = "reservation"

var activeStatuses = []string{string(domain.StatusPending), string(domain.StatusConfirmed)}

type GormReservationRepository struct {
	db *gorm.DB
}

func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

func (r *GormReservationRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Reservation{})
}

func (r *GormReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Omit("Table").Create(reservation).Error, entity)
}

func (r *GormReservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Omit("Table").Save(reservation).Error, entity)
}

func (r *GormReservationRepository) FindByID(ctx context.Context, id uint) (*domain.Reservation, error) {
	var reservation domain.Reservation
	if err := database.Conn(ctx, r.db).Preload("Table").First(&reservation, id).Error; err != nil {
		return nil, apperror.FromDB(err, entity)
	}
	return &reservation, nil
}

// overlapping restricts q to active reservations sharing an instant with window
func overlapping(q *gorm.DB, window domain.Window) *gorm.DB {
	return q.Where("status IN ?", activeStatuses).
		Where("start_time < ? AND end_time > ?", window.End, window.Start)
}

func (r *GormReservationRepository) FindConflicting(ctx context.Context, tableID uint, window domain.Window, excludeID uint) ([]domain.Reservation, error) {
	q := overlapping(database.Conn(ctx, r.db).Where("table_id = ?", tableID), window)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var reservations []domain.Reservation
	if err := q.Order("start_time").Find(&reservations).Error; err != nil {
		return nil, apperror.FromDB(err, entity)
	}
	return reservations, nil
}

func (r *GormReservationRepository) FindReservedTableIDs(ctx context.Context, window domain.Window) ([]uint, error) {
	var ids []uint
	q := overlapping(database.Conn(ctx, r.db).Model(&domain.Reservation{}), window)
	if err := q.Distinct().Pluck("table_id", &ids).Error; err != nil {
		return nil, apperror.FromDB(err, entity)
	}
	return ids, nil
}

// FindByDate returns reservations starting on the calendar day of day, in day's location
func (r *GormReservationRepository) FindByDate(ctx context.Context, day time.Time) ([]domain.Reservation, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)
	return r.find(ctx, "start_time >= ? AND start_time < ?", from, to)
}

func (r *GormReservationRepository) FindByStatus(ctx context.Context, status domain.Status) ([]domain.Reservation, error) {
	return r.find(ctx, "status = ?", status)
}

func (r *GormReservationRepository) FindByGuestPhone(ctx context.Context, phone string) ([]domain.Reservation, error) {
	return r.find(ctx, "guest_phone = ?", phone)
}

func (r *GormReservationRepository) FindByGuestName(ctx context.Context, name string) ([]domain.Reservation, error) {
	return r.find(ctx, "guest_name ILIKE ?", database.ContainsPattern(name))
}

func (r *GormReservationRepository) find(ctx context.Context, cond string, args ...interface{}) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	err := database.Conn(ctx, r.db).
		Preload("Table").
		Where(cond, args...).
		Order("start_time").
		Find(&reservations).Error
	if err != nil {
		return nil, apperror.FromDB(err, entity)
	}
	return reservations, nil
}
