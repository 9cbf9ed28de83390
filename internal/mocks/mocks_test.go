package mocks

import (
	"github.com/guttosm/distribution-service/internal/service"
)

var (
	_ service.LoggingService    = (*MockLoggingService)(nil)
	_ service.CatalogueService  = (*MockCatalogueService)(nil)
	_ service.RouteService      = (*MockRouteService)(nil)
	_ service.AssignmentService = (*MockAssignmentService)(nil)
	_ service.SaleService       = (*MockSaleService)(nil)
	_ service.WarehouseService  = (*MockWarehouseService)(nil)
	_ service.ReportService     = (*MockReportService)(nil)
)
