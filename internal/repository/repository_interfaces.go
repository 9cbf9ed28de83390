// Package repository provides interfaces for repository operations.
package repository

import (
	"context"

	"github.com/guttosm/distribution-service/internal/domain/model"
)

// Find methods return (nil, nil) when the record does not exist. Versioned writes return
// model.ErrConcurrentUpdate when the stored version no longer matches.

// ProductRepositoryInterface defines the interface for catalogue product operations.
type ProductRepositoryInterface interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	// FindByIDs returns the products that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
}

// RouteRepositoryInterface defines the interface for route operations.
type RouteRepositoryInterface interface {
	Create(ctx context.Context, route *model.Route) error
	FindByID(ctx context.Context, id string) (*model.Route, error)
	List(ctx context.Context) ([]model.Route, error)
}

// DailyStockRepositoryInterface defines the interface for daily stock operations.
type DailyStockRepositoryInterface interface {
	// Find matches the key exactly; an empty DriverID matches only the unclaimed record.
	Find(ctx context.Context, key model.StockKey) (*model.DailyStock, error)
	ListByRouteDate(ctx context.Context, routeID, date string) ([]model.DailyStock, error)
	Query(ctx context.Context, q model.ReportQuery) ([]model.DailyStock, error)
	// Save inserts a record with an empty ID and otherwise updates it if its Version still
	// matches. On success the record's ID and Version are updated in place.
	Save(ctx context.Context, record *model.DailyStock) error
	Delete(ctx context.Context, record *model.DailyStock) error
}

// WarehouseRepositoryInterface defines the interface for warehouse level operations.
type WarehouseRepositoryInterface interface {
	Get(ctx context.Context, productID string) (*model.WarehouseStock, error)
	GetMany(ctx context.Context, productIDs []string) (map[string]model.WarehouseStock, error)
	List(ctx context.Context) ([]model.WarehouseStock, error)
	// Create inserts a zero level row; an existing row is left untouched.
	Create(ctx context.Context, productID string) error
	// Update writes Boxes/Pcs if Version still matches and bumps Version in place.
	Update(ctx context.Context, level *model.WarehouseStock) error
}

// MovementRepositoryInterface defines the interface for the append-only warehouse ledger.
type MovementRepositoryInterface interface {
	Append(ctx context.Context, movements ...*model.Movement) error
	ListByProduct(ctx context.Context, productID string, limit int) ([]model.Movement, error)
}

// SaleRepositoryInterface defines the interface for sale operations.
type SaleRepositoryInterface interface {
	Create(ctx context.Context, sale *model.Sale) error
	List(ctx context.Context, routeID, date string) ([]model.Sale, error)
	Query(ctx context.Context, q model.ReportQuery) ([]model.Sale, error)
}

// LogsRepositoryInterface defines the interface for logs repository operations.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *model.LogEntry) error
	CreateMany(ctx context.Context, entries []*model.LogEntry) error
	Query(ctx context.Context, opts model.LogQueryOptions) ([]*model.LogEntry, error)
	Count(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}

// UnitOfWork runs fn so that the writes it issues through the repositories either all
// land or, where the backend supports it, none do. Repositories must be called with the
// ctx passed to fn.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
