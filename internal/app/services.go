// Package app provides service initialization.
package app

import (
	"github.com/guttosm/distribution-service/config"
	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/lock"
	"github.com/guttosm/distribution-service/internal/service"
	"github.com/guttosm/distribution-service/internal/service/cache"
)

// ServiceComponents holds the business services.
type ServiceComponents struct {
	Catalogue  *service.CatalogueServiceImpl
	Routes     *service.RouteServiceImpl
	Assignment *service.AssignmentServiceImpl
	Sales      *service.SaleServiceImpl
	Warehouse  *service.WarehouseServiceImpl
	Reports    *service.ReportServiceImpl
	Logging    service.LoggingService
	Tokens     *service.SessionTokens

	// ProductCache is nil when caching is disabled.
	ProductCache *cache.TTL[string, model.Product]
}

// InitializeServices builds the services on top of db. A cache size of zero disables
// the product cache.
func InitializeServices(cfg config.Config, db *DatabaseComponents, locker lock.Locker) *ServiceComponents {
	var productCache *cache.TTL[string, model.Product]
	var catalogueCache cache.Cache[string, model.Product]
	if cfg.Cache.Size > 0 {
		productCache = cache.NewTTL[string, model.Product](cfg.Cache.Size, cfg.Cache.TTL)
		catalogueCache = productCache
	}

	catalogue := service.NewCatalogueService(db.Products, db.Warehouse, db.UoW, catalogueCache)

	return &ServiceComponents{
		Catalogue: catalogue,
		Routes:    service.NewRouteService(db.Routes),
		Assignment: service.NewAssignmentService(service.AssignmentDeps{
			Routes:    db.Routes,
			Daily:     db.Daily,
			Warehouse: db.Warehouse,
			Movements: db.Movements,
			Catalogue: catalogue,
			UoW:       db.UoW,
			Locker:    locker,
		}),
		Sales:     service.NewSaleService(db.Sales, db.Daily, catalogue, db.UoW, locker),
		Warehouse: service.NewWarehouseService(db.Warehouse, db.Movements, catalogue, db.UoW, locker),
		Reports:   service.NewReportService(db.Daily, db.Sales, catalogue),
		Logging:   service.NewLoggingService(db.Logs),
		Tokens: service.NewSessionTokens(service.TokenConfig{
			SecretKey: cfg.Auth.JWTSecretKey,
			Issuer:    cfg.Auth.Issuer,
			TTL:       cfg.Auth.TokenTTL,
		}),
		ProductCache: productCache,
	}
}
