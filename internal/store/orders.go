package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"hitolicious-api/internal/apperr"
	"hitolicious-api/internal/models"
)

// PlaceOrderItem is one requested line item
type PlaceOrderItem struct {
	FoodID   int64
	Quantity int
	Price    float64
}

// PlaceOrderParams carries everything the order transaction needs
type PlaceOrderParams struct {
	CustomerEmail   string
	TotalAmount     float64
	DeliveryAddress string
	ContactNumber   string
	PaymentMethod   string
	Notes           string
	GcashDetails    sql.NullString
	Currency        string
	Items           []PlaceOrderItem
}

// PlaceOrderTx runs the whole order placement as a single transaction:
// stock rows are locked and checked first, then the payment, order and
// line items are inserted and the stock decremented under those locks.
// Any failure rolls back everything.
func (s *Store) PlaceOrderTx(ctx context.Context, p *PlaceOrderParams) (orderID, paymentID int64, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	// Aggregate requested quantities per food item and lock the stock rows
	// in food_id order so concurrent orders cannot deadlock on each other.
	requested := make(map[int64]int)
	for _, item := range p.Items {
		requested[item.FoodID] += item.Quantity
	}
	foodIDs := make([]int64, 0, len(requested))
	for id := range requested {
		foodIDs = append(foodIDs, id)
	}
	sort.Slice(foodIDs, func(i, j int) bool { return foodIDs[i] < foodIDs[j] })

	for _, foodID := range foodIDs {
		var available int
		err = tx.GetContext(ctx, &available,
			"SELECT quantity FROM stocks WHERE food_id = $1 FOR UPDATE", foodID)
		if err == sql.ErrNoRows {
			return 0, 0, apperr.NotFound("stock", foodID)
		}
		if err != nil {
			return 0, 0, fmt.Errorf("failed to lock stock: %w", err)
		}

		if available < requested[foodID] {
			return 0, 0, &apperr.InsufficientStockError{
				FoodID:    foodID,
				Available: available,
				Requested: requested[foodID],
			}
		}
	}

	err = tx.GetContext(ctx, &paymentID, `
		INSERT INTO payments (amount, currency, payment_method, gcash_details)
		VALUES ($1, $2, $3, $4)
		RETURNING payment_id`,
		p.TotalAmount, p.Currency, p.PaymentMethod, p.GcashDetails)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create payment: %w", err)
	}

	err = tx.GetContext(ctx, &orderID, `
		INSERT INTO orders (customer_email, total_amount, delivery_address, contact_number, order_status, payment_method, notes, payment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING orders_id`,
		p.CustomerEmail, p.TotalAmount, p.DeliveryAddress, p.ContactNumber,
		models.OrderStatusPending, p.PaymentMethod, p.Notes, paymentID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range p.Items {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, food_id, quantity, price) VALUES ($1, $2, $3, $4)",
			orderID, item.FoodID, item.Quantity, item.Price)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	for _, foodID := range foodIDs {
		_, err = tx.ExecContext(ctx,
			"UPDATE stocks SET quantity = quantity - $1 WHERE food_id = $2",
			requested[foodID], foodID)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to update stock: %w", err)
		}
	}

	return orderID, paymentID, tx.Commit()
}

// GetOrders retrieves all live orders, newest first
func (s *Store) GetOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders ORDER BY created_at DESC")
	return orders, err
}

// GetOrdersByCustomer retrieves a customer's live orders, newest first
func (s *Store) GetOrdersByCustomer(ctx context.Context, email string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE customer_email = $1 ORDER BY created_at DESC", email)
	return orders, err
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE orders_id = $1", id)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("order", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderItemsByOrderID retrieves line items with food names resolved
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items, `
		SELECT oi.item_id, oi.order_id, oi.food_id, oi.quantity, oi.price, COALESCE(f.food_name, 'Unknown Food') AS food_name
		FROM order_items oi
		LEFT JOIN food f ON oi.food_id = f.food_id
		WHERE oi.order_id = $1
		ORDER BY oi.item_id`, orderID)
	return items, err
}

// UpdateOrderStatus overwrites an order's status
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET order_status = $1, updated_at = NOW() WHERE orders_id = $2",
		status, orderID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.NotFound("order", orderID)
	}
	return nil
}

// ArchiveOrderTx moves an order and its line items into orders_archive
// and deletes the live rows, all in one transaction. The line items are
// serialized into the archive row since they stop existing afterwards.
func (s *Store) ArchiveOrderTx(ctx context.Context, orderID int64, archivedBy string) (archiveID int64, itemCount int, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	var order models.Order
	err = tx.GetContext(ctx, &order, "SELECT * FROM orders WHERE orders_id = $1", orderID)
	if err == sql.ErrNoRows {
		return 0, 0, apperr.NotFound("order", orderID)
	}
	if err != nil {
		return 0, 0, err
	}

	var items []models.OrderItem
	err = tx.SelectContext(ctx, &items, `
		SELECT oi.item_id, oi.order_id, oi.food_id, oi.quantity, oi.price, COALESCE(f.food_name, 'Unknown Food') AS food_name
		FROM order_items oi
		LEFT JOIN food f ON oi.food_id = f.food_id
		WHERE oi.order_id = $1`, orderID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch order items: %w", err)
	}

	snapshot := make([]models.ArchivedItem, 0, len(items))
	for _, item := range items {
		snapshot = append(snapshot, models.ArchivedItem{
			FoodID:   item.FoodID,
			FoodName: item.FoodName,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	itemsJSON, err := json.Marshal(snapshot)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to serialize order items: %w", err)
	}

	var gcashDetails sql.NullString
	err = tx.GetContext(ctx, &gcashDetails,
		"SELECT gcash_details FROM payments WHERE payment_id = $1", order.PaymentID)
	if err != nil && err != sql.ErrNoRows {
		return 0, 0, err
	}

	err = tx.GetContext(ctx, &archiveID, `
		INSERT INTO orders_archive (
			original_order_id, customer_email, total_amount, payment_id,
			delivery_address, contact_number, order_status, payment_method,
			gcash_details, items, archived_by, created_at, updated_at, archived_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		RETURNING archive_id`,
		order.OrdersID, order.CustomerEmail, order.TotalAmount, order.PaymentID,
		order.DeliveryAddress, order.ContactNumber, order.OrderStatus, order.PaymentMethod,
		gcashDetails, itemsJSON, archivedBy, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to archive order: %w", err)
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID); err != nil {
		return 0, 0, fmt.Errorf("failed to delete order items: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM orders WHERE orders_id = $1", orderID); err != nil {
		return 0, 0, fmt.Errorf("failed to delete order: %w", err)
	}

	return archiveID, len(items), tx.Commit()
}

// GetArchivedOrders retrieves the archive, newest first
func (s *Store) GetArchivedOrders(ctx context.Context) ([]models.ArchivedOrder, error) {
	var orders []models.ArchivedOrder
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders_archive ORDER BY archived_at DESC")
	return orders, err
}

// GetArchivedOrdersByCustomer retrieves a customer's archived orders
func (s *Store) GetArchivedOrdersByCustomer(ctx context.Context, email string) ([]models.ArchivedOrder, error) {
	var orders []models.ArchivedOrder
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders_archive WHERE customer_email = $1 ORDER BY archived_at DESC", email)
	return orders, err
}
