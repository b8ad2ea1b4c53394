package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MenuCategory groups dishes on the menu
type MenuCategory struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null;uniqueIndex"`
	Description  string    `json:"description,omitempty"`
	DisplayOrder int       `json:"display_order" gorm:"not null;default:0"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (MenuCategory) TableName() string {
	return "menu_categories"
}

// Dish is a menu item that can be ordered
type Dish struct {
	ID             uint                `json:"id" gorm:"primaryKey"`
	Name           string              `json:"name" gorm:"not null;index"`
	Description    string              `json:"description,omitempty"`
	CategoryID     uint                `json:"category_id" gorm:"not null;index"`
	Category       *MenuCategory       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Price          decimal.Decimal     `json:"price" gorm:"type:numeric(12,2);not null"`
	IsOnPromotion  bool                `json:"is_on_promotion" gorm:"not null;default:false"`
	PromotionPrice decimal.NullDecimal `json:"promotion_price" gorm:"type:numeric(12,2)"`
	WeightGrams    int                 `json:"weight_grams,omitempty"`
	ImageURL       string              `json:"image_url,omitempty"`
	Composition    string              `json:"composition,omitempty"`
	Allergens      string              `json:"allergens,omitempty"`
	IsActive       bool                `json:"is_active" gorm:"not null;index"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// TableName specifies the table name
func (Dish) TableName() string {
	return "dishes"
}

// EffectivePrice is the price charged right now
func (d *Dish) EffectivePrice() decimal.Decimal {
	if d.IsOnPromotion && d.PromotionPrice.Valid {
		return d.PromotionPrice.Decimal
	}
	return d.Price
}

// DishFilter narrows FindAll; zero values disable a criterion
type DishFilter struct {
	ActiveOnly    bool
	CategoryID    uint
	PromotionOnly bool
	NameContains  string
}

// CategoryRepository defines the contract for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *MenuCategory) error
	FindByID(ctx context.Context, id uint) (*MenuCategory, error)
	FindAll(ctx context.Context, activeOnly bool) ([]MenuCategory, error)
}

// DishRepository defines the contract for dish data access
type DishRepository interface {
	Create(ctx context.Context, dish *Dish) error
	Update(ctx context.Context, dish *Dish) error
	FindByID(ctx context.Context, id uint) (*Dish, error)
	FindAll(ctx context.Context, filter DishFilter) ([]Dish, error)
}
