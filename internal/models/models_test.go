package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOrderStatus(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"pending", OrderStatusPending, true},
		{"confirmed", OrderStatusConfirmed, true},
		{"preparing", OrderStatusPreparing, true},
		{"out_for_delivery", OrderStatusOutForDelivery, true},
		{"out for delivery", OrderStatusOutForDelivery, true},
		{"delivered", OrderStatusDelivered, true},
		{"cancelled", OrderStatusCancelled, true},
		{"  Delivered ", OrderStatusDelivered, true},
		{"OUT FOR DELIVERY", OrderStatusOutForDelivery, true},
		{"shipped", "", false},
		{"", "", false},
		{"pending_", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeOrderStatus(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %q", tt.input)
		}
	}
}

func TestNormalizeOrderStatusVariantsAgree(t *testing.T) {
	underscore, ok1 := NormalizeOrderStatus("out_for_delivery")
	spaced, ok2 := NormalizeOrderStatus("out for delivery")

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, underscore, spaced)
}
