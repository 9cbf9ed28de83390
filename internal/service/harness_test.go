//go:build !integration

package service_test

import (
	"testing"
	"time"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/service"
	"github.com/guttosm/distribution-service/internal/service/cache"
	"github.com/guttosm/distribution-service/internal/repository/memstore"
	"github.com/shopspring/decimal"
)

const (
	testRoute = "north-1"
	testDate  = "2026-10-14"
)

var (
	admin  = model.Session{UserID: "admin-1", Role: model.RoleAdmin}
	driver = model.Session{UserID: "driver-1", Role: model.RoleDriver}
	other  = model.Session{UserID: "driver-2", Role: model.RoleDriver}
)

type harness struct {
	store     *memstore.Store
	catalogue *service.CatalogueServiceImpl
	routes    *service.RouteServiceImpl
	assign    *service.AssignmentServiceImpl
	sales     *service.SaleServiceImpl
	warehouse *service.WarehouseServiceImpl
	reports   *service.ReportServiceImpl
}

func newProductCache(t *testing.T) *cache.TTL[string, model.Product] {
	t.Helper()
	c := cache.NewTTL[string, model.Product](100, time.Minute)
	t.Cleanup(c.Stop)
	return c
}

func newHarness(t *testing.T, store *memstore.Store) *harness {
	t.Helper()
	catalogue := service.NewCatalogueService(store.Products(), store.Warehouse(), store, newProductCache(t))
	return &harness{
		store:     store,
		catalogue: catalogue,
		routes:    service.NewRouteService(store.Routes()),
		assign: service.NewAssignmentService(service.AssignmentDeps{
			Routes:    store.Routes(),
			Daily:     store.DailyStock(),
			Warehouse: store.Warehouse(),
			Movements: store.Movements(),
			Catalogue: catalogue,
			UoW:       store,
		}),
		sales:     service.NewSaleService(store.Sales(), store.DailyStock(), catalogue, store, nil),
		warehouse: service.NewWarehouseService(store.Warehouse(), store.Movements(), catalogue, store, nil),
		reports:   service.NewReportService(store.DailyStock(), store.Sales(), catalogue),
	}
}

// seeded returns a harness with route north-1, cola (24/box) and chips (12/box).
func seeded(t *testing.T, store *memstore.Store, cola, chips model.Quantity) *harness {
	t.Helper()
	store.SeedRoute(model.Route{ID: testRoute, Name: "North loop", Active: true})
	store.SeedProduct(model.Product{
		ID:        "cola",
		Name:      "Cola 330ml",
		PcsPerBox: 24,
		BoxPrice:  decimal.RequireFromString("12"),
		PcsPrice:  decimal.NewNullDecimal(decimal.RequireFromString("0.50")),
	}, cola)
	store.SeedProduct(model.Product{
		ID:       "chips",
		Name:     "Chips",
		BoxPrice: decimal.RequireFromString("12"),
		PcsPrice: decimal.NewNullDecimal(decimal.RequireFromString("1")),
	}, chips)
	return newHarness(t, store)
}

func stockLine(id string, boxes, pcs int) model.StockLine {
	return model.StockLine{ProductID: id, BoxQty: boxes, PcsQty: pcs}
}

func assignReq(lines ...model.StockLine) service.AssignRequest {
	return service.AssignRequest{RouteID: testRoute, Date: testDate, Lines: lines}
}

func routeDay() service.RouteDayRequest {
	return service.RouteDayRequest{RouteID: testRoute, Date: testDate}
}

func saleReq(lines ...service.SaleLine) service.SaleRequest {
	return service.SaleRequest{RouteID: testRoute, Date: testDate, ShopName: "Corner Store", Items: lines}
}

func sold(id string, boxes, pcs int) service.SaleLine {
	return service.SaleLine{ProductID: id, BoxQty: boxes, PcsQty: pcs}
}

func levelOf(s *memstore.Store, id string) model.Quantity {
	return s.Level(id).Quantity()
}
