package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hitolicious-api/internal/apperr"
	"hitolicious-api/internal/broker"
	"hitolicious-api/internal/models"
	"hitolicious-api/internal/store"
	"hitolicious-api/internal/util"
)

// OrderService handles order placement, status transitions and archival
type OrderService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	audit          *AuditLogger
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store *store.Store, eventPublisher *broker.EventPublisher, audit *AuditLogger) *OrderService {
	return &OrderService{
		store:          store,
		eventPublisher: eventPublisher,
		audit:          audit,
		logger:         util.GetLogger(),
	}
}

// PlaceOrderRequest represents a request to place an order
type PlaceOrderRequest struct {
	CustomerEmail   string             `json:"customer_email"`
	Items           []OrderItemRequest `json:"items"`
	TotalAmount     float64            `json:"total_amount"`
	DeliveryAddress string             `json:"delivery_address"`
	ContactNumber   string             `json:"contact_number"`
	PaymentMethod   string             `json:"payment_method"`
	Notes           string             `json:"notes"`
	GcashDetails    string             `json:"gcash_details"`
	Currency        string             `json:"currency"`
}

// OrderItemRequest represents one requested line item
type OrderItemRequest struct {
	FoodID   int64   `json:"food_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// PlaceOrderResponse is returned after a successful placement
type PlaceOrderResponse struct {
	OrderID   int64  `json:"orderId"`
	PaymentID int64  `json:"paymentId"`
	Status    string `json:"status"`
}

// validatePlaceOrder rejects incomplete requests before any database call
func validatePlaceOrder(req *PlaceOrderRequest) error {
	if req.CustomerEmail == "" {
		return apperr.Validation("customer email is required")
	}
	if len(req.Items) == 0 {
		return apperr.Validation("at least one order item is required")
	}
	for i, item := range req.Items {
		if item.FoodID <= 0 {
			return apperr.Validation("item %d: food id is required", i+1)
		}
		if item.Quantity <= 0 {
			return apperr.Validation("item %d: quantity must be positive", i+1)
		}
	}
	if req.TotalAmount <= 0 {
		return apperr.Validation("total amount is required")
	}
	if req.DeliveryAddress == "" {
		return apperr.Validation("delivery address is required")
	}
	if req.ContactNumber == "" {
		return apperr.Validation("contact number is required")
	}
	if req.PaymentMethod == "" {
		return apperr.Validation("payment method is required")
	}
	return nil
}

// PlaceOrder creates the payment, order and line items and decrements stock
// atomically. Nothing persists if any step fails.
func (s *OrderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if err := validatePlaceOrder(req); err != nil {
		util.OrdersFailedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "PHP"
	}

	gcash := sql.NullString{}
	if req.GcashDetails != "" {
		gcash = sql.NullString{String: req.GcashDetails, Valid: true}
	}

	params := &store.PlaceOrderParams{
		CustomerEmail:   req.CustomerEmail,
		TotalAmount:     req.TotalAmount,
		DeliveryAddress: req.DeliveryAddress,
		ContactNumber:   req.ContactNumber,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
		GcashDetails:    gcash,
		Currency:        currency,
		Items:           make([]store.PlaceOrderItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		params.Items = append(params.Items, store.PlaceOrderItem{
			FoodID:   item.FoodID,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	start := time.Now()
	orderID, paymentID, err := s.store.PlaceOrderTx(ctx, params)
	util.PlaceOrderLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		var insufficientErr *apperr.InsufficientStockError
		var notFoundErr *apperr.NotFoundError
		switch {
		case errors.As(err, &insufficientErr):
			util.StockRejectionsTotal.Inc()
			util.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
		case errors.As(err, &notFoundErr):
			util.OrdersFailedTotal.WithLabelValues("missing_stock").Inc()
		default:
			util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		}
		return nil, err
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", orderID),
		zap.Int64("payment_id", paymentID),
		zap.String("customer", req.CustomerEmail),
		zap.Int("items", len(req.Items)))

	eventItems := make([]models.OrderItemData, 0, len(req.Items))
	for _, item := range req.Items {
		eventItems = append(eventItems, models.OrderItemData{
			FoodID:   item.FoodID,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:       orderID,
		PaymentID:     paymentID,
		CustomerEmail: req.CustomerEmail,
		TotalAmount:   req.TotalAmount,
		Items:         eventItems,
	}
	if err := s.eventPublisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}

	return &PlaceOrderResponse{
		OrderID:   orderID,
		PaymentID: paymentID,
		Status:    models.OrderStatusPending,
	}, nil
}

// ListOrders returns all live orders with their line items nested
func (s *OrderService) ListOrders(ctx context.Context) ([]models.OrderWithItems, error) {
	orders, err := s.store.GetOrders(ctx)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

// ListOrdersByCustomer returns one customer's live orders with items nested
func (s *OrderService) ListOrdersByCustomer(ctx context.Context, email string) ([]models.OrderWithItems, error) {
	orders, err := s.store.GetOrdersByCustomer(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

func (s *OrderService) attachItems(ctx context.Context, orders []models.Order) ([]models.OrderWithItems, error) {
	result := make([]models.OrderWithItems, 0, len(orders))
	for _, order := range orders {
		items, err := s.store.GetOrderItemsByOrderID(ctx, order.OrdersID)
		if err != nil {
			return nil, err
		}
		result = append(result, models.OrderWithItems{Order: order, Items: items})
	}
	return result, nil
}

// SetOrderStatus normalizes and applies a status transition. Any status may
// follow any other; only membership in the known set is enforced.
func (s *OrderService) SetOrderStatus(ctx context.Context, orderID int64, status, updatedBy string) (string, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.SetOrderStatus")
	defer span.End()

	normalized, ok := models.NormalizeOrderStatus(status)
	if !ok {
		return "", &apperr.InvalidStatusError{Status: status}
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, normalized); err != nil {
		return "", err
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(normalized).Inc()
	s.audit.LogAction(ctx, updatedBy, fmt.Sprintf("Updated order #%d status to %s", orderID, normalized))

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:   orderID,
		Status:    normalized,
		UpdatedBy: updatedBy,
	}
	if err := s.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	return normalized, nil
}

// ArchiveOrderResult reports what the archive transaction moved
type ArchiveOrderResult struct {
	ArchiveID int64 `json:"archived_id"`
	ItemCount int   `json:"archived_items"`
}

// ArchiveOrder moves an order and its items into the archive tables
func (s *OrderService) ArchiveOrder(ctx context.Context, orderID int64, archivedBy string) (*ArchiveOrderResult, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ArchiveOrder")
	defer span.End()

	if archivedBy == "" {
		archivedBy = "admin"
	}

	archiveID, itemCount, err := s.store.ArchiveOrderTx(ctx, orderID, archivedBy)
	if err != nil {
		return nil, err
	}

	util.OrdersArchivedTotal.Inc()
	s.logger.Info("Order archived",
		zap.Int64("order_id", orderID),
		zap.Int64("archive_id", archiveID),
		zap.Int("items", itemCount))

	s.audit.LogAction(ctx, archivedBy, fmt.Sprintf("Archived order #%d", orderID))

	event := &models.OrderArchivedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderArchived,
			Timestamp: time.Now(),
		},
		OrderID:    orderID,
		ArchiveID:  archiveID,
		ArchivedBy: archivedBy,
	}
	if err := s.eventPublisher.PublishOrderArchived(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderArchived event", zap.Error(err))
	}

	return &ArchiveOrderResult{ArchiveID: archiveID, ItemCount: itemCount}, nil
}

// ArchivedOrderView is an archived order with its item snapshot decoded
type ArchivedOrderView struct {
	models.ArchivedOrder
	Items []models.ArchivedItem `json:"items"`
}

// ListArchivedOrders returns the archive with item snapshots decoded
func (s *OrderService) ListArchivedOrders(ctx context.Context) ([]ArchivedOrderView, error) {
	orders, err := s.store.GetArchivedOrders(ctx)
	if err != nil {
		return nil, err
	}
	return s.decodeSnapshots(orders), nil
}

// ListArchivedOrdersByCustomer returns one customer's archived orders
func (s *OrderService) ListArchivedOrdersByCustomer(ctx context.Context, email string) ([]ArchivedOrderView, error) {
	orders, err := s.store.GetArchivedOrdersByCustomer(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.decodeSnapshots(orders), nil
}

func (s *OrderService) decodeSnapshots(orders []models.ArchivedOrder) []ArchivedOrderView {
	views := make([]ArchivedOrderView, 0, len(orders))
	for _, order := range orders {
		view := ArchivedOrderView{ArchivedOrder: order, Items: []models.ArchivedItem{}}
		if len(order.Items) > 0 {
			if err := json.Unmarshal(order.Items, &view.Items); err != nil {
				s.logger.Warn("Failed to decode archived item snapshot",
					zap.Int64("archive_id", order.ArchiveID),
					zap.Error(err))
			}
		}
		views = append(views, view)
	}
	return views
}
