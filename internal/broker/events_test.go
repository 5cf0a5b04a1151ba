package broker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"hitolicious-api/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderPlacedMessage(t *testing.T) kafka.Message {
	t.Helper()

	event := models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-123",
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now().UTC(),
		},
		OrderID:       42,
		PaymentID:     7,
		CustomerEmail: "ana@example.com",
		TotalAmount:   700,
		Items: []models.OrderItemData{
			{FoodID: 1, Quantity: 2, Price: 350},
		},
	}

	value, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Key: []byte("order-42"), Value: value}
}

func TestHandleMessageDispatchesOrderPlaced(t *testing.T) {
	handler := NewEventHandler()

	var got *models.OrderPlacedEvent
	handler.OnOrderPlaced(func(_ context.Context, event *models.OrderPlacedEvent) error {
		got = event
		return nil
	})

	err := handler.HandleMessage(context.Background(), orderPlacedMessage(t))
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "evt-123", got.EventID)
	assert.Equal(t, int64(42), got.OrderID)
	assert.Equal(t, "ana@example.com", got.CustomerEmail)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(1), got.Items[0].FoodID)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestHandleMessageIgnoresUnknownEventType(t *testing.T) {
	handler := NewEventHandler()

	called := false
	handler.OnOrderPlaced(func(context.Context, *models.OrderPlacedEvent) error {
		called = true
		return nil
	})

	value, err := json.Marshal(models.BaseEvent{
		EventID:   "evt-999",
		EventType: "SOMETHING_ELSE",
		Timestamp: time.Now().UTC(),
	})
	require.NoError(t, err)

	err = handler.HandleMessage(context.Background(), kafka.Message{Value: value})
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestHandleMessageRejectsMalformedPayload(t *testing.T) {
	handler := NewEventHandler()

	err := handler.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestHandleMessageWithoutRegisteredHandler(t *testing.T) {
	handler := NewEventHandler()

	assert.NoError(t, handler.HandleMessage(context.Background(), orderPlacedMessage(t)))
}
