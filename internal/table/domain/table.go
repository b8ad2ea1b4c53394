package domain

import (
	"context"
	"time"
)

// TableType classifies a physical table
type TableType string

const (
	TypeStandard TableType = "standard"
	TypeBar      TableType = "bar"
	TypeVIP      TableType = "vip"
	TypeBanquet  TableType = "banquet"
)

// Valid reports whether t is a known table type
func (t TableType) Valid() bool {
	switch t {
	case TypeStandard, TypeBar, TypeVIP, TypeBanquet:
		return true
	}
	return false
}

// RestaurantTable is a physical table guests can be seated at
type RestaurantTable struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Number    int       `json:"number" gorm:"not null;uniqueIndex"`
	Capacity  int       `json:"capacity" gorm:"not null;check:capacity > 0"`
	Type      TableType `json:"type" gorm:"type:varchar(20);not null"`
	Location  string    `json:"location"`
	IsActive  bool      `json:"is_active" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (RestaurantTable) TableName() string {
	return "restaurant_tables"
}

// Seats reports whether the table can host partySize guests
func (t *RestaurantTable) Seats(partySize int) bool {
	return partySize <= t.Capacity
}

// TableFilter narrows FindAll; zero values disable a criterion
type TableFilter struct {
	ActiveOnly  bool
	MinCapacity int
	Type        TableType
}

// TableRepository defines the contract for table data access
type TableRepository interface {
	Create(ctx context.Context, table *RestaurantTable) error
	Update(ctx context.Context, table *RestaurantTable) error
	FindByID(ctx context.Context, id uint) (*RestaurantTable, error)
	// FindByIDForUpdate locks the row for the rest of the surrounding transaction
	FindByIDForUpdate(ctx context.Context, id uint) (*RestaurantTable, error)
	FindByNumber(ctx context.Context, number int) (*RestaurantTable, error)
	FindAll(ctx context.Context, filter TableFilter) ([]RestaurantTable, error)
}
