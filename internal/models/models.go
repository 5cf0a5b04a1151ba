package models

import (
	"database/sql"
	"strings"
	"time"
)

// Food represents a catalog item
type Food struct {
	FoodID    int64     `db:"food_id" json:"food_id"`
	FoodName  string    `db:"food_name" json:"food_name"`
	Category  string    `db:"category" json:"category"`
	Price     float64   `db:"price" json:"price"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Stock represents the available quantity for one food item
type Stock struct {
	StocksID int64  `db:"stocks_id" json:"stocks_id"`
	FoodID   int64  `db:"food_id" json:"food_id"`
	AdminID  int64  `db:"admin_id" json:"admin_id"`
	Quantity int    `db:"quantity" json:"quantity"`
	FoodName string `db:"food_name" json:"food_name,omitempty"`
}

// Payment represents a payment record, immutable after creation
type Payment struct {
	PaymentID     int64          `db:"payment_id" json:"payment_id"`
	Amount        float64        `db:"amount" json:"amount"`
	Currency      string         `db:"currency" json:"currency"`
	PaymentMethod string         `db:"payment_method" json:"payment_method"`
	GcashDetails  sql.NullString `db:"gcash_details" json:"gcash_details,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// Order represents a customer order
type Order struct {
	OrdersID        int64     `db:"orders_id" json:"orders_id"`
	CustomerEmail   string    `db:"customer_email" json:"customer_email"`
	TotalAmount     float64   `db:"total_amount" json:"total_amount"`
	DeliveryAddress string    `db:"delivery_address" json:"delivery_address"`
	ContactNumber   string    `db:"contact_number" json:"contact_number"`
	OrderStatus     string    `db:"order_status" json:"order_status"`
	PaymentMethod   string    `db:"payment_method" json:"payment_method"`
	Notes           string    `db:"notes" json:"notes,omitempty"`
	PaymentID       int64     `db:"payment_id" json:"payment_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem represents one line item of an order; price is a snapshot
// taken at order time, not a live reference into the catalog.
type OrderItem struct {
	ItemID   int64   `db:"item_id" json:"item_id"`
	OrderID  int64   `db:"order_id" json:"order_id"`
	FoodID   int64   `db:"food_id" json:"food_id"`
	Quantity int     `db:"quantity" json:"quantity"`
	Price    float64 `db:"price" json:"price"`
	FoodName string  `db:"food_name" json:"food_name,omitempty"`
}

// OrderWithItems is the listing shape the dashboard consumes
type OrderWithItems struct {
	Order
	Items []OrderItem `json:"items"`
}

// ArchivedOrder is the append-only copy of an order after it leaves the
// live working set. Items are kept as a serialized snapshot since the
// live order_items rows are deleted on archive.
type ArchivedOrder struct {
	ArchiveID       int64          `db:"archive_id" json:"archive_id"`
	OriginalOrderID int64          `db:"original_order_id" json:"original_order_id"`
	CustomerEmail   string         `db:"customer_email" json:"customer_email"`
	TotalAmount     float64        `db:"total_amount" json:"total_amount"`
	PaymentID       int64          `db:"payment_id" json:"payment_id"`
	DeliveryAddress string         `db:"delivery_address" json:"delivery_address"`
	ContactNumber   string         `db:"contact_number" json:"contact_number"`
	OrderStatus     string         `db:"order_status" json:"order_status"`
	PaymentMethod   string         `db:"payment_method" json:"payment_method"`
	GcashDetails    sql.NullString `db:"gcash_details" json:"gcash_details,omitempty"`
	Items           []byte         `db:"items" json:"-"`
	ArchivedBy      string         `db:"archived_by" json:"archived_by"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
	ArchivedAt      time.Time      `db:"archived_at" json:"archived_at"`
}

// ArchivedItem is one entry of the serialized item snapshot
type ArchivedItem struct {
	FoodID   int64   `json:"food_id"`
	FoodName string  `json:"food_name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ArchivedFood is the append-only copy of a catalog item
type ArchivedFood struct {
	ArchivedID int64     `db:"archived_id" json:"archived_id"`
	FoodID     int64     `db:"food_id" json:"food_id"`
	FoodName   string    `db:"food_name" json:"food_name"`
	Category   string    `db:"category" json:"category"`
	Price      float64   `db:"price" json:"price"`
	ArchivedAt time.Time `db:"archived_at" json:"archived_at"`
}

// Customer represents a storefront account
type Customer struct {
	ID           int64     `db:"id" json:"id"`
	FullName     string    `db:"customer_fullname" json:"customer_fullname"`
	Birthday     string    `db:"customer_birthday" json:"customer_birthday"`
	Email        string    `db:"customer_email" json:"customer_email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Admin represents a dashboard account
type Admin struct {
	ID           int64     `db:"id" json:"id"`
	FullName     string    `db:"admin_fullname" json:"admin_fullname"`
	Email        string    `db:"admin_email" json:"admin_email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// AdminLogEntry is one row of the append-only admin action log
type AdminLogEntry struct {
	LogID     int64     `db:"log_id" json:"log_id"`
	AdminName string    `db:"admin_name" json:"admin_name"`
	Action    string    `db:"action" json:"action"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BestSeller is one leaderboard entry, units summed over placed orders
type BestSeller struct {
	FoodID   int64  `json:"food_id"`
	FoodName string `json:"food_name"`
	Sold     int64  `json:"sold"`
}

// ProcessedEvent for idempotent event consumption
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}

// Order statuses (storage representation)
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPreparing      = "preparing"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

var orderStatuses = map[string]struct{}{
	OrderStatusPending:        {},
	OrderStatusConfirmed:      {},
	OrderStatusPreparing:      {},
	OrderStatusOutForDelivery: {},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

// NormalizeOrderStatus maps input to the storage representation, accepting
// both underscore and space variants ("out for delivery" == "out_for_delivery").
// The second return is false for unrecognized values.
func NormalizeOrderStatus(s string) (string, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	_, ok := orderStatuses[normalized]
	return normalized, ok
}
