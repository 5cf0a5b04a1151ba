package worker

import (
	"context"

	"go.uber.org/zap"

	"hitolicious-api/internal/broker"
	"hitolicious-api/internal/models"
	"hitolicious-api/internal/redisclient"
	"hitolicious-api/internal/store"
	"hitolicious-api/internal/util"
)

// SalesWorker consumes order events and maintains the best-sellers
// leaderboard in Redis. Consumption is idempotent: each event id is
// recorded in processed_events before its effects count.
type SalesWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	redis        *redisclient.Client
	logger       *zap.Logger
}

// NewSalesWorker creates a new sales worker
func NewSalesWorker(consumer *broker.Consumer, store *store.Store, redis *redisclient.Client) *SalesWorker {
	w := &SalesWorker{
		consumer: consumer,
		store:    store,
		redis:    redis,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(w.handleOrderPlaced)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *SalesWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting sales worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *SalesWorker) Stop() error {
	w.logger.Info("Stopping sales worker")
	return w.consumer.Close()
}

func (w *SalesWorker) handleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return err
	}
	if processed {
		w.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	for _, item := range event.Items {
		if err := w.redis.IncrementSales(ctx, item.FoodID, item.Quantity); err != nil {
			w.logger.Error("Failed to bump best sellers",
				zap.Int64("food_id", item.FoodID),
				zap.Error(err))
			return err
		}
	}

	if err := w.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		w.logger.Error("Failed to mark event processed", zap.Error(err))
	}

	w.logger.Info("Sales recorded",
		zap.Int64("order_id", event.OrderID),
		zap.Int("items", len(event.Items)))
	return nil
}
