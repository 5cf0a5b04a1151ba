package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &InsufficientStockError{FoodID: 7, Available: 3, Requested: 6}

	assert.Equal(t, "insufficient stock for food item 7: available=3, requested=6", err.Error())
}

func TestErrorsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("placing order: %w", NotFound("order", 42))

	var notFoundErr *NotFoundError
	assert.True(t, errors.As(wrapped, &notFoundErr))
	assert.Equal(t, "order", notFoundErr.Entity)
	assert.Equal(t, "42", notFoundErr.ID)
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, "quantity must be positive", Validation("quantity must be %s", "positive").Error())
	assert.Equal(t, "food 9 already exists", Conflict("food %d already exists", 9).Error())
	assert.Equal(t, `invalid order status: "shipped"`, (&InvalidStatusError{Status: "shipped"}).Error())
	assert.Equal(t, "invalid credentials", (&InvalidCredentialsError{}).Error())
}
