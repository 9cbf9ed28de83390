package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/middleware"
)

// ReportXLSXPath is excluded from compression and the request deadline.
const ReportXLSXPath = "/api/reports/stock.xlsx"

// RouteGroup defines a group of routes that can be registered.
type RouteGroup interface {
	// RegisterRoutes registers routes on a group that already carries a session.
	RegisterRoutes(rg *gin.RouterGroup)
}

var (
	adminOnly  = middleware.RequireRole(model.RoleAdmin)
	driverOnly = middleware.RequireRole(model.RoleDriver)
	staff      = middleware.RequireRole(model.RoleAdmin, model.RoleDriver)
)

// CatalogueRoutes registers products and routes.
type CatalogueRoutes struct{ h *Handler }

// RegisterRoutes implements RouteGroup.
func (r CatalogueRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.POST("", adminOnly, r.h.CreateProduct)
	products.GET("", staff, r.h.ListProducts)
	products.GET("/:id", staff, r.h.GetProduct)
	products.PUT("/:id", adminOnly, r.h.UpdateProduct)

	routes := rg.Group("/routes")
	routes.POST("", adminOnly, r.h.CreateRoute)
	routes.GET("", staff, r.h.ListRoutes)
	routes.GET("/:id", staff, r.h.GetRoute)
}

// StockRoutes registers assignment, claim, return and sale endpoints.
type StockRoutes struct{ h *Handler }

// RegisterRoutes implements RouteGroup.
func (r StockRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	stock.POST("/assignments", adminOnly, r.h.AssignStock)
	stock.GET("/daily", staff, r.h.GetDailyStock)
	stock.POST("/claim", driverOnly, r.h.ClaimRoute)
	stock.POST("/return", staff, r.h.ReturnStock)

	rg.POST("/sales", staff, r.h.RecordSale)
	rg.GET("/sales", staff, r.h.ListSales)
}

// WarehouseRoutes registers warehouse levels, movements and corrections.
type WarehouseRoutes struct{ h *Handler }

// RegisterRoutes implements RouteGroup.
func (r WarehouseRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	warehouse := rg.Group("/warehouse")
	warehouse.GET("", staff, r.h.ListWarehouse)
	warehouse.GET("/:product_id/movements", staff, r.h.ListMovements)
	warehouse.POST("/receive", adminOnly, r.h.ReceiveStock)
	warehouse.POST("/adjust", adminOnly, r.h.AdjustStock)
}

// ReportRoutes registers the stock report and its workbook export.
type ReportRoutes struct{ h *Handler }

// RegisterRoutes implements RouteGroup.
func (r ReportRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports/stock", staff, r.h.StockReport)
	rg.GET("/reports/stock.xlsx", staff, r.h.StockReportXLSX)
}

// RouteGroups returns every API route group served by h.
func (h *Handler) RouteGroups() []RouteGroup {
	return []RouteGroup{
		CatalogueRoutes{h},
		StockRoutes{h},
		WarehouseRoutes{h},
		ReportRoutes{h},
	}
}
