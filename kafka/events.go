package kafka

import "time"

// Event types
const (
	EventTypeReservationCreated       = "reservation.created"
	EventTypeReservationUpdated       = "reservation.updated"
	EventTypeReservationStatusChanged = "reservation.status_changed"

	EventTypeOrderCreated       = "order.created"
	EventTypeOrderItemAdded     = "order.item_added"
	EventTypeOrderItemRemoved   = "order.item_removed"
	EventTypeOrderStatusChanged = "order.status_changed"
	EventTypeOrderPaid          = "order.paid"

	EventTypeStockMovementRecorded = "inventory.movement_recorded"
	EventTypeStockLow              = "inventory.low_stock"
	EventTypeStockProductionFailed = "inventory.production_failed"
)

// Kafka topics
const (
	TopicReservationEvents = "reservation-events"
	TopicOrderEvents       = "order-events"
	TopicInventoryEvents   = "inventory-events"
)

// ReservationEvent describes a change to a reservation
type ReservationEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	ReservationID uint      `json:"reservation_id"`
	TableID       uint      `json:"table_id"`
	Status        string    `json:"status"`
	GuestName     string    `json:"guest_name"`
	PartySize     int       `json:"party_size"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Timestamp     time.Time `json:"timestamp"`
}

// OrderEventItem is one line of an order as carried by events
type OrderEventItem struct {
	DishID   uint `json:"dish_id"`
	Quantity int  `json:"quantity"`
}

// OrderEvent describes a change to an order. Amounts are decimal strings.
type OrderEvent struct {
	EventID     string           `json:"event_id"`
	EventType   string           `json:"event_type"`
	OrderID     uint             `json:"order_id"`
	OrderNumber string           `json:"order_number"`
	TableID     uint             `json:"table_id"`
	Status      string           `json:"status"`
	TotalAmount string           `json:"total_amount"`
	Items       []OrderEventItem `json:"items,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}

// StockEvent describes a stock movement, a low stock condition or a failed
// production write-off. Failures carry the order and the error instead of stock levels.
type StockEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	IngredientID   uint      `json:"ingredient_id"`
	IngredientName string    `json:"ingredient_name"`
	MovementType   string    `json:"movement_type,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Quantity       string    `json:"quantity,omitempty"`
	CurrentStock   string    `json:"current_stock"`
	MinStockLevel  string    `json:"min_stock_level"`
	OrderID        uint      `json:"order_id,omitempty"`
	OrderNumber    string    `json:"order_number,omitempty"`
	Error          string    `json:"error,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
