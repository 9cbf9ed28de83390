package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/middleware"
	"github.com/guttosm/distribution-service/internal/service"
)

// Services groups the business services the handlers call.
type Services struct {
	Catalogue  service.CatalogueService
	Routes     service.RouteService
	Assignment service.AssignmentService
	Sales      service.SaleService
	Warehouse  service.WarehouseService
	Reports    service.ReportService
	Logging    service.LoggingService
}

// Handler provides the HTTP handlers of the distribution API.
type Handler struct {
	svc Services
}

// NewHandler creates a new Handler instance.
func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc}
}

// session returns the caller's session. Routes are always mounted behind a session
// middleware; a missing one yields the zero session, which every service rejects.
func (h *Handler) session(c *gin.Context) model.Session {
	s, _ := middleware.GetSession(c)
	return s
}

// routeDefaults fills route, truck and date left empty by the client from the session.
func routeDefaults(session model.Session, routeID, truckID, date *string) {
	s := session.WithRoute(*routeID, *truckID, *date)
	*routeID, *truckID, *date = s.RouteID, s.TruckID, s.Date
}

func (h *Handler) audit(c *gin.Context, action, message string, fields map[string]interface{}) {
	middleware.AuditLog(h.svc.Logging, c, action, message, fields)
}

func (h *Handler) auditError(c *gin.Context, action, message string, err error, fields map[string]interface{}) {
	middleware.AuditLogError(h.svc.Logging, c, action, message, err, fields)
}
