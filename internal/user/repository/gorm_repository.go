package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/user/domain"
	"github.com/tair/restaurant-backend/pkg/database"
)

const entity = "user"

// GormUserRepository implements UserRepository interface using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GormUserRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.User{})
}

// Create inserts a new user; a taken username surfaces as Conflict
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Create(user).Error, entity)
}

// Update saves every column of user
func (r *GormUserRepository) Update(ctx context.Context, user *domain.User) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Save(user).Error, entity)
}

// FindByID retrieves a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := database.Conn(ctx, r.db).First(&user, id).Error; err != nil {
		return nil, apperror.FromDB(err, entity)
	}
	return &user, nil
}

// FindByUsername retrieves a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := database.Conn(ctx, r.db).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, apperror.FromDB(err, entity)
	}
	return &user, nil
}

// FindAll retrieves users with pagination, newest first
func (r *GormUserRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.User, error) {
	var users []domain.User
	query := database.Conn(ctx, r.db).Order("created_at DESC, id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, apperror.FromDB(err, entity)
	}
	return users, nil
}

// CountByRole returns the number of users per role
func (r *GormUserRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Role  string
		Count int64
	}
	err := database.Conn(ctx, r.db).Model(&domain.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.FromDB(err, entity)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

// CountActive returns the number of active users
func (r *GormUserRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := database.Conn(ctx, r.db).Model(&domain.User{}).Where("is_active = ?", true).Count(&count).Error; err != nil {
		return 0, apperror.FromDB(err, entity)
	}
	return count, nil
}
