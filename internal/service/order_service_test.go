package service

import (
	"context"
	"errors"
	"testing"

	"hitolicious-api/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		CustomerEmail:   "ana@example.com",
		Items:           []OrderItemRequest{{FoodID: 1, Quantity: 2, Price: 350}},
		TotalAmount:     700,
		DeliveryAddress: "123 Mabini St",
		ContactNumber:   "09171234567",
		PaymentMethod:   "cod",
	}
}

func TestValidatePlaceOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PlaceOrderRequest)
	}{
		{"missing email", func(r *PlaceOrderRequest) { r.CustomerEmail = "" }},
		{"no items", func(r *PlaceOrderRequest) { r.Items = nil }},
		{"zero quantity", func(r *PlaceOrderRequest) { r.Items[0].Quantity = 0 }},
		{"negative quantity", func(r *PlaceOrderRequest) { r.Items[0].Quantity = -1 }},
		{"missing food id", func(r *PlaceOrderRequest) { r.Items[0].FoodID = 0 }},
		{"missing total", func(r *PlaceOrderRequest) { r.TotalAmount = 0 }},
		{"missing address", func(r *PlaceOrderRequest) { r.DeliveryAddress = "" }},
		{"missing contact", func(r *PlaceOrderRequest) { r.ContactNumber = "" }},
		{"missing payment method", func(r *PlaceOrderRequest) { r.PaymentMethod = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := validatePlaceOrder(req)
			require.Error(t, err)

			var validationErr *apperr.ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}
}

func TestValidatePlaceOrderAcceptsCompleteRequest(t *testing.T) {
	assert.NoError(t, validatePlaceOrder(validRequest()))
}

// Validation must reject before any database call: a service with no store
// at all has nothing else to fall back on.
func TestPlaceOrderRejectsBeforeStorage(t *testing.T) {
	s := NewOrderService(nil, nil, nil)

	req := validRequest()
	req.Items = nil

	resp, err := s.PlaceOrder(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, resp)

	var validationErr *apperr.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestSetOrderStatusRejectsUnknownStatus(t *testing.T) {
	s := NewOrderService(nil, nil, nil)

	_, err := s.SetOrderStatus(context.Background(), 1, "shipped", "admin")
	require.Error(t, err)

	var statusErr *apperr.InvalidStatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "shipped", statusErr.Status)
}
