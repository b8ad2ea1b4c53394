package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	tabledomain "github.com/tair/restaurant-backend/internal/table/domain"
)

// OrderStatus is one entry of the configurable status vocabulary. Exactly the
// configured paid status carries IsPaid.
type OrderStatus struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Description  string    `json:"description,omitempty"`
	DisplayOrder int       `json:"display_order" gorm:"not null;default:0"`
	IsPaid       bool      `json:"is_paid" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name
func (OrderStatus) TableName() string {
	return "order_statuses"
}

// Order is the aggregate root for a table's bill
type Order struct {
	ID             uint                         `json:"id" gorm:"primaryKey"`
	OrderNumber    string                       `json:"order_number" gorm:"size:40;not null;uniqueIndex"`
	ReservationID  *uint                        `json:"reservation_id,omitempty" gorm:"index"`
	TableID        uint                         `json:"table_id" gorm:"not null;index"`
	Table          *tabledomain.RestaurantTable `json:"table,omitempty" gorm:"foreignKey:TableID"`
	WaiterUsername string                       `json:"waiter_username,omitempty" gorm:"size:100;index"`
	StatusID       uint                         `json:"status_id" gorm:"not null;index"`
	Status         *OrderStatus                 `json:"status,omitempty" gorm:"foreignKey:StatusID"`
	TotalAmount    decimal.Decimal              `json:"total_amount" gorm:"type:numeric(12,2);not null;default:0"`
	Notes          string                       `json:"notes,omitempty"`
	Items          []OrderItem                  `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time                    `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time                    `json:"updated_at"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order. UnitPrice is frozen when the line is added.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"not null;index"`
	DishID    uint            `json:"dish_id" gorm:"not null;index"`
	DishName  string          `json:"dish_name"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2);not null"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName specifies the table name
func (OrderItem) TableName() string {
	return "order_items"
}

// Total is UnitPrice × Quantity
func (i OrderItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewOrderNumber builds ORD-<unix millis>-<8 hex>
func NewOrderNumber(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), strings.ToUpper(suffix))
}

// IsPaid reports whether the order is in the paid status. Status must be loaded.
func (o *Order) IsPaid() bool {
	return o.Status != nil && o.Status.IsPaid
}

// CanBeModified reports whether items may still be added or removed
func (o *Order) CanBeModified() bool {
	return !o.IsPaid()
}

// AddItem appends item and recomputes the total
func (o *Order) AddItem(item OrderItem) {
	o.Items = append(o.Items, item)
	o.RecalculateTotal()
}

// RemoveItem drops the item with the given id and recomputes the total
func (o *Order) RemoveItem(itemID uint) bool {
	for i, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.RecalculateTotal()
			return true
		}
	}
	return false
}

// RecalculateTotal sets TotalAmount to the sum of the item totals
func (o *Order) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Total())
	}
	o.TotalAmount = total.Round(2)
}

// Vocabulary names the statuses with special meaning
type Vocabulary struct {
	Statuses []string
	Initial  string
	Paid     string
	Kitchen  []string
}

// OrderFilter narrows FindAll; zero values disable a criterion
type OrderFilter struct {
	StatusNames    []string
	TableNumber    int
	WaiterUsername string
	ReservationID  uint
}

// DishPopularity is the quantity of one dish sold in a period
type DishPopularity struct {
	DishID   uint   `json:"dish_id"`
	DishName string `json:"dish_name"`
	Quantity int64  `json:"quantity"`
}

// OrderRepository defines the contract for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	// Update saves the order row only; items are written through AddItem/DeleteItem
	Update(ctx context.Context, order *Order) error
	AddItem(ctx context.Context, item *OrderItem) error
	DeleteItem(ctx context.Context, orderID, itemID uint) error
	FindByID(ctx context.Context, id uint) (*Order, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*Order, error)
	FindByNumber(ctx context.Context, number string) (*Order, error)
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, error)
	CountPaidBetween(ctx context.Context, from, to time.Time) (int64, error)
	PopularDishes(ctx context.Context, from, to time.Time, limit int) ([]DishPopularity, error)
}

// StatusRepository defines the contract for status vocabulary access
type StatusRepository interface {
	Create(ctx context.Context, status *OrderStatus) error
	Update(ctx context.Context, status *OrderStatus) error
	FindByName(ctx context.Context, name string) (*OrderStatus, error)
	FindPaid(ctx context.Context) (*OrderStatus, error)
	FindAll(ctx context.Context) ([]OrderStatus, error)
}
