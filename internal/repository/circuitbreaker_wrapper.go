// Package repository provides circuit breaker wrappers for MongoDB operations.
package repository

import (
	"context"
	"errors"

	"github.com/guttosm/distribution-service/internal/circuitbreaker"
	"github.com/guttosm/distribution-service/internal/domain/model"
)

// IsBackendFailure reports whether err should count against a repository circuit breaker.
// Domain outcomes such as a missing product or a lost version race mean the database
// answered, so they leave the breaker alone.
func IsBackendFailure(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled):
		return false
	case model.IsNotFound(err), model.IsConflict(err), model.IsValidation(err):
		return false
	}
	return true
}

// ProductRepositoryWithCircuitBreaker wraps a product repository with circuit breaker protection.
type ProductRepositoryWithCircuitBreaker struct {
	repo           ProductRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewProductRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewProductRepositoryWithCircuitBreaker(repo ProductRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *ProductRepositoryWithCircuitBreaker {
	return &ProductRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create inserts a product with circuit breaker protection.
func (r *ProductRepositoryWithCircuitBreaker) Create(ctx context.Context, product *model.Product) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, product)
	})
}

// Update updates a product with circuit breaker protection.
func (r *ProductRepositoryWithCircuitBreaker) Update(ctx context.Context, product *model.Product) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Update(ctx, product)
	})
}

// FindByID returns a product with circuit breaker protection.
func (r *ProductRepositoryWithCircuitBreaker) FindByID(ctx context.Context, id string) (*model.Product, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() (*model.Product, error) {
		return r.repo.FindByID(ctx, id)
	})
}

// FindByIDs returns several products with circuit breaker protection.
func (r *ProductRepositoryWithCircuitBreaker) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() ([]model.Product, error) {
		return r.repo.FindByIDs(ctx, ids)
	})
}

// List returns the catalogue with circuit breaker protection.
func (r *ProductRepositoryWithCircuitBreaker) List(ctx context.Context) ([]model.Product, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() ([]model.Product, error) {
		return r.repo.List(ctx)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *ProductRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// SaleRepositoryWithCircuitBreaker wraps a sale repository with circuit breaker protection.
type SaleRepositoryWithCircuitBreaker struct {
	repo           SaleRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewSaleRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewSaleRepositoryWithCircuitBreaker(repo SaleRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *SaleRepositoryWithCircuitBreaker {
	return &SaleRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a sale with circuit breaker protection.
func (r *SaleRepositoryWithCircuitBreaker) Create(ctx context.Context, sale *model.Sale) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, sale)
	})
}

// List returns a route's sales for a day with circuit breaker protection.
func (r *SaleRepositoryWithCircuitBreaker) List(ctx context.Context, routeID, date string) ([]model.Sale, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() ([]model.Sale, error) {
		return r.repo.List(ctx, routeID, date)
	})
}

// Query returns the sales in a report range with circuit breaker protection.
func (r *SaleRepositoryWithCircuitBreaker) Query(ctx context.Context, q model.ReportQuery) ([]model.Sale, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() ([]model.Sale, error) {
		return r.repo.Query(ctx, q)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *SaleRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// LogsRepositoryWithCircuitBreaker wraps a logs repository with circuit breaker protection.
type LogsRepositoryWithCircuitBreaker struct {
	repo           LogsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a single log entry with circuit breaker protection.
// If circuit is open, silently fails (logging is non-critical).
func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *model.LogEntry) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// CreateMany stores multiple log entries with circuit breaker protection.
// If circuit is open, silently fails (logging is non-critical).
func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, entries)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// Query retrieves log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts model.LogQueryOptions) ([]*model.LogEntry, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() ([]*model.LogEntry, error) {
		return r.repo.Query(ctx, opts)
	})
}

// Count returns the count of log entries with circuit breaker protection.
func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return circuitbreaker.Call(ctx, r.circuitBreaker, func() (int64, error) {
		return r.repo.Count(ctx, opts)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
