package models

import "time"

// Event types
const (
	EventTypeOrderPlaced        = "ORDER_PLACED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeOrderArchived      = "ORDER_ARCHIVED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderPlacedEvent published after an order transaction commits
type OrderPlacedEvent struct {
	BaseEvent
	OrderID       int64           `json:"order_id"`
	PaymentID     int64           `json:"payment_id"`
	CustomerEmail string          `json:"customer_email"`
	TotalAmount   float64         `json:"total_amount"`
	Items         []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent published when an admin moves an order
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID   int64  `json:"order_id"`
	Status    string `json:"status"`
	UpdatedBy string `json:"updated_by"`
}

// OrderArchivedEvent published after an order leaves the live tables
type OrderArchivedEvent struct {
	BaseEvent
	OrderID    int64  `json:"order_id"`
	ArchiveID  int64  `json:"archive_id"`
	ArchivedBy string `json:"archived_by"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	FoodID   int64   `json:"food_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}
