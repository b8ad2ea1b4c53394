package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/apperror"
	"github.com/tair/restaurant-backend/internal/menu/domain"
	"github.com/tair/restaurant-backend/pkg/database"
)

type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.MenuCategory{})
}

func (r *GormCategoryRepository) Create(ctx context.Context, category *domain.MenuCategory) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Create(category).Error, "category")
}

func (r *GormCategoryRepository) FindByID(ctx context.Context, id uint) (*domain.MenuCategory, error) {
	var category domain.MenuCategory
	if err := database.Conn(ctx, r.db).First(&category, id).Error; err != nil {
		return nil, apperror.FromDB(err, "category")
	}
	return &category, nil
}

func (r *GormCategoryRepository) FindAll(ctx context.Context, activeOnly bool) ([]domain.MenuCategory, error) {
	q := database.Conn(ctx, r.db).Order("display_order, id")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var categories []domain.MenuCategory
	if err := q.Find(&categories).Error; err != nil {
		return nil, apperror.FromDB(err, "category")
	}
	return categories, nil
}

type GormDishRepository struct {
	db *gorm.DB
}

func NewGormDishRepository(db *gorm.DB) *GormDishRepository {
	return &GormDishRepository{db: db}
}

func (r *GormDishRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Dish{})
}

func (r *GormDishRepository) Create(ctx context.Context, dish *domain.Dish) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Omit("Category").Create(dish).Error, "dish")
}

func (r *GormDishRepository) Update(ctx context.Context, dish *domain.Dish) error {
	return apperror.FromDB(database.Conn(ctx, r.db).Omit("Category").Save(dish).Error, "dish")
}

func (r *GormDishRepository) FindByID(ctx context.Context, id uint) (*domain.Dish, error) {
	var dish domain.Dish
	if err := database.Conn(ctx, r.db).Preload("Category").First(&dish, id).Error; err != nil {
		return nil, apperror.FromDB(err, "dish")
	}
	return &dish, nil
}

func (r *GormDishRepository) FindAll(ctx context.Context, filter domain.DishFilter) ([]domain.Dish, error) {
	q := database.Conn(ctx, r.db).Preload("Category").Order("name, id")
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.PromotionOnly {
		q = q.Where("is_on_promotion = ?", true)
	}
	if filter.NameContains != "" {
		q = q.Where("name ILIKE ?", database.ContainsPattern(filter.NameContains))
	}

	var dishes []domain.Dish
	if err := q.Find(&dishes).Error; err != nil {
		return nil, apperror.FromDB(err, "dish")
	}
	return dishes, nil
}
