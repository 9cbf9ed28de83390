// Package app provides database initialization and setup.
package app

import (
	"context"
	"fmt"

	"github.com/guttosm/distribution-service/config"
	"github.com/guttosm/distribution-service/internal/circuitbreaker"
	"github.com/guttosm/distribution-service/internal/metrics"
	"github.com/guttosm/distribution-service/internal/repository"
	"github.com/guttosm/distribution-service/internal/repository/memstore"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds the repositories every service is built from.
type DatabaseComponents struct {
	Products  repository.ProductRepositoryInterface
	Routes    repository.RouteRepositoryInterface
	Daily     repository.DailyStockRepositoryInterface
	Warehouse repository.WarehouseRepositoryInterface
	Movements repository.MovementRepositoryInterface
	Sales     repository.SaleRepositoryInterface
	Logs      repository.LogsRepositoryInterface
	UoW       repository.UnitOfWork

	// CircuitBreakers guard the read-heavy collections, keyed by health check name.
	CircuitBreakers map[string]*circuitbreaker.CircuitBreaker
	// HealthCheck pings the backend. It is nil for the in-memory store.
	HealthCheck func(ctx context.Context) error
	// Close releases the connection.
	Close func(ctx context.Context) error
}

// InitializeDatabase connects to MongoDB and builds the repositories. With the database
// disabled it returns an in-memory store whose data lives as long as the process.
func InitializeDatabase(cfg config.DatabaseConfig) (*DatabaseComponents, error) {
	if !cfg.Enabled {
		log.Warn().Msg("MongoDB disabled - using in-memory store, data is lost on restart")
		return newMemoryDatabase(), nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	log.Info().Str("database", cfg.DatabaseName).Bool("transactions", cfg.Transactions).Msg("Connected to MongoDB")

	if cfg.LogsTTL > 0 {
		if err := db.SetLogsTTL(context.Background(), cfg.LogsTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
		}
	}

	productsCB := newCircuitBreaker(cfg, "mongodb-products")
	salesCB := newCircuitBreaker(cfg, "mongodb-sales")
	logsCB := newCircuitBreaker(cfg, "mongodb-logs")

	return &DatabaseComponents{
		Products:  repository.NewProductRepositoryWithCircuitBreaker(repository.NewProductRepository(db), productsCB),
		Routes:    repository.NewRouteRepository(db),
		Daily:     repository.NewDailyStockRepository(db),
		Warehouse: repository.NewWarehouseRepository(db),
		Movements: repository.NewMovementRepository(db),
		Sales:     repository.NewSaleRepositoryWithCircuitBreaker(repository.NewSaleRepository(db), salesCB),
		Logs:      repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), logsCB),
		UoW:       repository.NewUnitOfWork(db, cfg.Transactions),
		CircuitBreakers: map[string]*circuitbreaker.CircuitBreaker{
			"mongodb_products": productsCB,
			"mongodb_sales":    salesCB,
			"mongodb_logs":     logsCB,
		},
		HealthCheck: db.HealthCheck,
		Close:       db.Close,
	}, nil
}

func newMemoryDatabase() *DatabaseComponents {
	store := memstore.New()
	return &DatabaseComponents{
		Products:        store.Products(),
		Routes:          store.Routes(),
		Daily:           store.DailyStock(),
		Warehouse:       store.Warehouse(),
		Movements:       store.Movements(),
		Sales:           store.Sales(),
		Logs:            store.LogsRepo(),
		UoW:             store,
		CircuitBreakers: map[string]*circuitbreaker.CircuitBreaker{},
		Close:           func(context.Context) error { return nil },
	}
}

// newCircuitBreaker builds a breaker that only counts backend failures and mirrors its
// state into the circuit breaker gauge.
func newCircuitBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		IsFailure:        repository.IsBackendFailure,
		OnStateChange: func(breaker string, _, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(breaker, int(to))
		},
	})
	metrics.SetCircuitBreakerState(name, int(circuitbreaker.StateClosed))
	return cb
}
