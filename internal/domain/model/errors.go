package model

import (
	"errors"
	"fmt"
)

var (
	// ErrRouteStarted is returned when a driver already holds stock for the route/date.
	ErrRouteStarted = errors.New("route already started")
	// ErrRouteNotFound is returned for an unknown route id.
	ErrRouteNotFound = errors.New("route not found")
	// ErrRouteNotClaimed is returned when a driver acts on a route it does not hold.
	ErrRouteNotClaimed = errors.New("route not claimed by this driver")
	// ErrRouteClaimed is returned when another driver already holds the route.
	ErrRouteClaimed = errors.New("route claimed by another driver")
	// ErrStockNotFound is returned when no daily stock exists for the route/truck/date.
	ErrStockNotFound = errors.New("no stock found")
	// ErrProductNotFound is returned for an unknown product id.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductExists is returned when creating a product with a taken id.
	ErrProductExists = errors.New("product already exists")
	// ErrRouteExists is returned when creating a route with a taken id.
	ErrRouteExists = errors.New("route already exists")
	// ErrWarehouseStockMissing is returned when a product has no warehouse row.
	ErrWarehouseStockMissing = errors.New("warehouse stock record missing")
	// ErrConcurrentUpdate is returned when a versioned write loses a race.
	ErrConcurrentUpdate = errors.New("record changed concurrently")
	// ErrAssignmentInProgress is returned when the route/date lock is held elsewhere.
	ErrAssignmentInProgress = errors.New("another assignment is in progress")
	// ErrForbidden is returned when the session role may not run the operation.
	ErrForbidden = errors.New("operation not allowed for this role")
)

// ValidationError reports bad input detected before any backend call.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError builds a ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error returns "field: message".
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// InsufficientStockError reports a shortfall for one product.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   Quantity
	Available   Quantity
	Shortfall   Quantity
}

// Error names the product and the shortfall in boxes and pieces.
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: short by %d boxes %d pcs",
		e.ProductName, e.Shortfall.BoxQty, e.Shortfall.PcsQty)
}

// OversellError reports a sale line larger than what the route still carries.
type OversellError struct {
	ProductID   string
	ProductName string
	Requested   Quantity
	Available   Quantity
}

// Error names the product and what is left.
func (e *OversellError) Error() string {
	return fmt.Sprintf("cannot sell %d boxes %d pcs of %s: only %d boxes %d pcs left",
		e.Requested.BoxQty, e.Requested.PcsQty, e.ProductName, e.Available.BoxQty, e.Available.PcsQty)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsConflict reports whether err is a business conflict the caller can fix.
func IsConflict(err error) bool {
	var insufficient *InsufficientStockError
	var oversell *OversellError
	switch {
	case errors.As(err, &insufficient), errors.As(err, &oversell):
		return true
	case errors.Is(err, ErrRouteStarted), errors.Is(err, ErrRouteClaimed),
		errors.Is(err, ErrConcurrentUpdate), errors.Is(err, ErrAssignmentInProgress),
		errors.Is(err, ErrProductExists), errors.Is(err, ErrRouteExists),
		errors.Is(err, ErrRouteNotClaimed):
		return true
	}
	return false
}

// IsNotFound reports whether err names a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStockNotFound) || errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrRouteNotFound) || errors.Is(err, ErrWarehouseStockMissing)
}
