package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/domain/dto"
	"github.com/guttosm/distribution-service/internal/middleware"
	"github.com/guttosm/distribution-service/internal/service"
)

// RecordSale handles POST /api/sales.
//
// @Summary      Record a sale
// @Description  Bills a shop and deducts the sold quantities from the route's remaining stock. A line may sell at most the boxes carried and at most the total pieces carried. Send an Idempotency-Key so a retried submit is not billed twice.
// @Tags         Sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.RecordSaleRequest true "Sale"
// @Success      201 {object} dto.SuccessResponse{data=model.Sale}
// @Failure      400 {object} dto.ErrorResponse "Invalid sale"
// @Failure      403 {object} dto.ErrorResponse "Not the driver of this route"
// @Failure      404 {object} dto.ErrorResponse "No stock found"
// @Failure      409 {object} dto.ErrorResponse "Oversell or concurrent update"
// @Failure      422 {object} dto.ErrorResponse "Idempotency key reused with another body"
// @Security     BearerAuth
// @Router       /api/sales [post]
func (h *Handler) RecordSale(c *gin.Context) {
	builder := NewResponseBuilder(c)
	session := h.session(c)

	req, err := BindJSON[dto.RecordSaleRequest](c)
	if err != nil {
		builder.Fail(err)
		return
	}
	routeDefaults(session, &req.RouteID, &req.TruckID, &req.Date)
	if err := req.Validate(); err != nil {
		builder.Fail(err)
		return
	}

	lines := make([]service.SaleLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.SaleLine{
			ProductID: item.ProductID,
			BoxQty:    item.BoxQty,
			PcsQty:    item.PcsQty,
			UnitPrice: item.UnitPrice,
		})
	}
	fields := map[string]interface{}{
		"route_id":  req.RouteID,
		"date":      req.Date,
		"shop_name": req.ShopName,
		"products":  len(lines),
	}

	sale, err := h.svc.Sales.Record(c.Request.Context(), session, service.SaleRequest{
		RouteID:  req.RouteID,
		TruckID:  req.TruckID,
		Date:     req.Date,
		DriverID: req.DriverID,
		ShopName: req.ShopName,
		Items:    lines,
	})
	if err != nil {
		h.auditError(c, middleware.ActionRecordSale, "Sale rejected", err, fields)
		builder.Fail(err)
		return
	}

	fields["sale_id"] = sale.ID
	fields["total_amount"] = sale.TotalAmount.StringFixed(2)
	h.audit(c, middleware.ActionRecordSale, "Sale recorded", fields)
	builder.SuccessCreated(sale)
}

// ListSales handles GET /api/sales.
//
// @Summary      List sales
// @Description  Sales of a route on a date in billing order. Drivers only see their own.
// @Tags         Sales
// @Produce      json
// @Param        route_id query string false "Route ID (defaults to the session route)"
// @Param        date query string false "Date YYYY-MM-DD (defaults to the session date)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.Sale}
// @Failure      400 {object} dto.ErrorResponse "Missing route or date"
// @Security     BearerAuth
// @Router       /api/sales [get]
func (h *Handler) ListSales(c *gin.Context) {
	builder := NewResponseBuilder(c)
	session := h.session(c)

	q, err := BindQuery[dto.RouteDayQuery](c)
	if err != nil {
		builder.Fail(err)
		return
	}
	routeDefaults(session, &q.RouteID, &q.TruckID, &q.Date)
	if err := q.Validate(); err != nil {
		builder.Fail(err)
		return
	}

	sales, err := h.svc.Sales.List(c.Request.Context(), session, q.RouteID, q.Date)
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(sales)
}
