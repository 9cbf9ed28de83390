// Package i18n provides internationalization support for the distribution service.
package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyUnauthorized indicates missing or invalid authentication.
	ErrKeyUnauthorized = "error.unauthorized"
	// ErrKeyForbidden indicates the caller's role may not run the operation.
	ErrKeyForbidden = "error.forbidden"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyConflict indicates a conflict with current state.
	ErrKeyConflict = "error.conflict"
	// ErrKeyInvalidToken indicates an invalid or expired JWT token.
	ErrKeyInvalidToken = "error.invalid_token"
	// ErrKeyTokenRequired indicates that a JWT token is required.
	ErrKeyTokenRequired = "error.token_required"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
	// ErrKeyInsufficientStock indicates the warehouse cannot cover an assignment.
	ErrKeyInsufficientStock = "error.insufficient_stock"
	// ErrKeyOversell indicates a sale larger than what the route carries.
	ErrKeyOversell = "error.oversell"
	// ErrKeyRouteStarted indicates the route/day is already loaded on a driver.
	ErrKeyRouteStarted = "error.route_started"
	// ErrKeyConcurrentUpdate indicates a lost optimistic-lock race.
	ErrKeyConcurrentUpdate = "error.concurrent_update"
	// ErrKeyAssignmentInProgress indicates another writer holds the route/day lock.
	ErrKeyAssignmentInProgress = "error.assignment_in_progress"
	// ErrKeyIdempotencyConflict indicates a reused idempotency key with a different body.
	ErrKeyIdempotencyConflict = "error.idempotency_conflict"
)
