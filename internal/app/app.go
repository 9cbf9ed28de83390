// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/config"
	"github.com/guttosm/distribution-service/internal/http"
	"github.com/guttosm/distribution-service/internal/middleware"
	"github.com/rs/zerolog/log"
)

// App is the wired application.
type App struct {
	Router   *gin.Engine
	Services *ServiceComponents

	db      *DatabaseComponents
	locks   *LockComponents
	logFile io.Closer
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context, cfg config.Config) (*App, error) {
	// Logger first, everything below logs.
	logFile := InitializeLogger(cfg.Log)

	db, err := InitializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	locks, err := InitializeLocker(ctx, cfg.Lock)
	if err != nil {
		_ = db.Close(ctx)
		return nil, err
	}

	services := InitializeServices(cfg, db, locks.Locker)
	middleware.InitAsyncLogger(services.Logging, middleware.DefaultAsyncLoggerConfig())

	if !cfg.Auth.Enabled {
		log.Warn().Msg("Authentication disabled - every request runs as the development admin")
	}

	routerComponents := InitializeRouter(cfg, services, db, locks)
	router := http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config)

	return &App{
		Router:   router,
		Services: services,
		db:       db,
		locks:    locks,
		logFile:  logFile,
	}, nil
}

// Close flushes pending log entries and releases every connection.
func (a *App) Close(ctx context.Context) error {
	middleware.StopAsyncLogger()
	if a.Services.ProductCache != nil {
		a.Services.ProductCache.Stop()
	}

	var errs []error
	if err := a.locks.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.db.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
