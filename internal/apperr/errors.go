package apperr

import "fmt"

// ValidationError rejects malformed or incomplete input before any database call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NotFoundError means a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// InsufficientStockError names the offending food item and the quantities involved.
type InsufficientStockError struct {
	FoodID    int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for food item %d: available=%d, requested=%d",
		e.FoodID, e.Available, e.Requested)
}

// ConflictError means the operation would create a duplicate.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string {
	return e.Msg
}

// InvalidStatusError means the requested order status is not in the known set.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status: %q", e.Status)
}

// InvalidCredentialsError covers both unknown account and wrong password,
// deliberately without distinguishing the two.
type InvalidCredentialsError struct{}

func (e *InvalidCredentialsError) Error() string {
	return "invalid credentials"
}

func Validation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func NotFound(entity string, id interface{}) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: fmt.Sprint(id)}
}

func Conflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}
