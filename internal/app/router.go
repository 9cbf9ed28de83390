// Package app provides router configuration.
package app

import (
	"github.com/guttosm/distribution-service/config"
	"github.com/guttosm/distribution-service/internal/http"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter builds the handlers, the readiness checks and the router configuration.
func InitializeRouter(cfg config.Config, services *ServiceComponents, db *DatabaseComponents, locks *LockComponents) *RouterComponents {
	handler := http.NewHandler(http.Services{
		Catalogue:  services.Catalogue,
		Routes:     services.Routes,
		Assignment: services.Assignment,
		Sales:      services.Sales,
		Warehouse:  services.Warehouse,
		Reports:    services.Reports,
		Logging:    services.Logging,
	})

	healthHandler := http.NewHealthHandler()
	if db.HealthCheck != nil {
		healthHandler.RegisterChecker("mongodb", http.HealthCheckFunc(db.HealthCheck))
	}
	if locks != nil && locks.HealthCheck != nil {
		healthHandler.RegisterChecker("redis", http.HealthCheckFunc(locks.HealthCheck))
	}
	for name, cb := range db.CircuitBreakers {
		healthHandler.RegisterCircuitBreaker(name, cb)
	}

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		RequestTimeout:    cfg.Server.RequestTimeout,
		EnableAuth:        cfg.Auth.Enabled,
		EnableIdempotency: true,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
		LoggingService:    services.Logging,
		Verifier:          services.Tokens,
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
