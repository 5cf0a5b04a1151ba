package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"hitolicious-api/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Validation("quantity must be positive"), http.StatusBadRequest},
		{"insufficient stock", &apperr.InsufficientStockError{FoodID: 1, Available: 3, Requested: 6}, http.StatusBadRequest},
		{"invalid status", &apperr.InvalidStatusError{Status: "shipped"}, http.StatusBadRequest},
		{"not found", apperr.NotFound("order", 42), http.StatusNotFound},
		{"conflict", apperr.Conflict("email already registered"), http.StatusConflict},
		{"invalid credentials", &apperr.InvalidCredentialsError{}, http.StatusUnauthorized},
		{"unclassified", errors.New("connection reset"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("archiving: %w", apperr.NotFound("order", 42)), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorStatus(tt.err))
		})
	}
}

func TestAdminIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPut, "/api/orders/1/status", nil)
	c.Request.Header.Set("X-Admin", "maria@hitolicious.com")
	assert.Equal(t, "maria@hitolicious.com", adminIdentity(c))

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPut, "/api/orders/1/status", nil)
	assert.Equal(t, "admin", adminIdentity(c))
}

func TestPathID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "orderId", Value: "42"}}
	id, ok := pathID(c, "orderId")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	rec := httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "orderId", Value: "abc"}}
	_, ok = pathID(c, "orderId")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
