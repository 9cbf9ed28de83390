// Package main is the entry point for the distribution-service application.
//
// @title           Distribution Service API
// @version         1.0.0
// @description     Warehouse, route stock and sales tracking for a beverage distributor.
//
//	Admins assign warehouse stock to delivery routes, drivers claim it, bill shops
//	against it and return what is left at the end of the day.
//
// @contact.name   API Support
// @contact.email  support@example.com
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Session token as "Bearer <token>". Required when authentication is enabled.
//
// @tag.name        Catalogue
// @tag.description Products and their box sizes
//
// @tag.name        Routes
// @tag.description Delivery routes
//
// @tag.name        Stock
// @tag.description Route assignments, claims and returns
//
// @tag.name        Warehouse
// @tag.description Warehouse levels and the movement ledger
//
// @tag.name        Sales
// @tag.description Shop billing against claimed stock
//
// @tag.name        Reports
// @tag.description Assigned, sold and returned totals
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"time"

	_ "github.com/guttosm/distribution-service/docs" // swagger docs

	"github.com/guttosm/distribution-service/config"
	"github.com/guttosm/distribution-service/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.InitializeApp(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(application.Router, cfg.Server.Port, cfg.Server.ShutdownTimeout)
	runErr := server.Run()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer closeCancel()
	if err := application.Close(closeCtx); err != nil {
		log.Error().Err(err).Msg("Failed to release resources")
	}

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("Server error")
	}
}
