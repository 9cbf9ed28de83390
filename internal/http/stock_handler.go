package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/domain/dto"
	"github.com/guttosm/distribution-service/internal/middleware"
	"github.com/guttosm/distribution-service/internal/service"
)

// AssignStock handles POST /api/stock/assignments.
//
// @Summary      Assign stock to a route
// @Description  Sets the quantities a route carries on a date. Lines are targets, not increments; the difference to the current assignment is taken from or returned to the warehouse. The whole request fails when any product is short.
// @Tags         Stock
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.AssignStockRequest true "Target assignment"
// @Success      200 {object} dto.SuccessResponse{data=service.AssignResult}
// @Failure      400 {object} dto.ErrorResponse "Invalid assignment"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure      403 {object} dto.ErrorResponse "Admin only"
// @Failure      404 {object} dto.ErrorResponse "Route or product not found"
// @Failure      409 {object} dto.ErrorResponse "Insufficient stock, route started or concurrent update"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/stock/assignments [post]
func (h *Handler) AssignStock(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.AssignStockRequest](c)
	if err != nil {
		builder.Fail(err)
		return
	}
	fields := map[string]interface{}{
		"route_id": req.RouteID,
		"date":     req.Date,
		"products": len(req.Lines),
	}

	result, err := h.svc.Assignment.Assign(c.Request.Context(), h.session(c), service.AssignRequest{
		RouteID: req.RouteID,
		TruckID: req.TruckID,
		Date:    req.Date,
		Lines:   req.StockLines(),
	})
	if err != nil {
		h.auditError(c, middleware.ActionAssignStock, "Stock assignment failed", err, fields)
		builder.Fail(err)
		return
	}

	fields["movements"] = len(result.Movements)
	h.audit(c, middleware.ActionAssignStock, "Stock assigned", fields)
	builder.SuccessOK(result)
}

// GetDailyStock handles GET /api/stock/daily.
//
// @Summary      Daily route stock
// @Description  Lists the route's records for a date: the unclaimed route stock and, for drivers, their own record.
// @Tags         Stock
// @Produce      json
// @Param        route_id query string false "Route ID (defaults to the session route)"
// @Param        date query string false "Date YYYY-MM-DD (defaults to the session date)"
// @Param        truck_id query string false "Truck ID"
// @Param        driver_id query string false "Driver ID (admin only)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.DailyStock}
// @Failure      400 {object} dto.ErrorResponse "Missing route or date"
// @Security     BearerAuth
// @Router       /api/stock/daily [get]
func (h *Handler) GetDailyStock(c *gin.Context) {
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

	records, err := h.svc.Assignment.GetDaily(c.Request.Context(), session, service.RouteDayRequest{
		RouteID:  q.RouteID,
		TruckID:  q.TruckID,
		Date:     q.Date,
		DriverID: q.DriverID,
	})
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(records)
}

// ClaimRoute handles POST /api/stock/claim.
//
// @Summary      Claim route stock
// @Description  Attaches the calling driver to the route's unclaimed stock for the date. Claiming again is a no-op; a route claimed by another driver is a conflict.
// @Tags         Stock
// @Accept       json
// @Produce      json
// @Param        request body dto.RouteDayRequest true "Route and date"
// @Success      200 {object} dto.SuccessResponse{data=model.DailyStock}
// @Failure      403 {object} dto.ErrorResponse "Drivers only"
// @Failure      404 {object} dto.ErrorResponse "No stock assigned"
// @Failure      409 {object} dto.ErrorResponse "Claimed by another driver"
// @Security     BearerAuth
// @Router       /api/stock/claim [post]
func (h *Handler) ClaimRoute(c *gin.Context) {
	builder := NewResponseBuilder(c)
	session := h.session(c)

	req, err := h.routeDayRequest(c)
	if err != nil {
		builder.Fail(err)
		return
	}
	fields := map[string]interface{}{"route_id": req.RouteID, "date": req.Date}

	record, err := h.svc.Assignment.ClaimRoute(c.Request.Context(), session, *req)
	if err != nil {
		h.auditError(c, middleware.ActionClaimRoute, "Route claim failed", err, fields)
		builder.Fail(err)
		return
	}

	h.audit(c, middleware.ActionClaimRoute, "Route claimed", fields)
	builder.SuccessOK(record)
}

// ReturnStock handles POST /api/stock/return.
//
// @Summary      Return remaining stock
// @Description  End of day: every remaining line goes back to the warehouse with a RETURN movement. The assigned baseline is kept for reporting.
// @Tags         Stock
// @Accept       json
// @Produce      json
// @Param        request body dto.RouteDayRequest true "Route and date"
// @Success      200 {object} dto.SuccessResponse{data=service.ReturnResult}
// @Failure      403 {object} dto.ErrorResponse "Not the driver of this route"
// @Failure      404 {object} dto.ErrorResponse "No stock found"
// @Security     BearerAuth
// @Router       /api/stock/return [post]
func (h *Handler) ReturnStock(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := h.routeDayRequest(c)
	if err != nil {
		builder.Fail(err)
		return
	}
	fields := map[string]interface{}{"route_id": req.RouteID, "date": req.Date}

	result, err := h.svc.Assignment.ReturnRemaining(c.Request.Context(), h.session(c), *req)
	if err != nil {
		h.auditError(c, middleware.ActionReturnStock, "Stock return failed", err, fields)
		builder.Fail(err)
		return
	}

	fields["movements"] = len(result.Movements)
	h.audit(c, middleware.ActionReturnStock, "Remaining stock returned", fields)
	builder.SuccessOK(result)
}

// routeDayRequest binds a RouteDayRequest body, filling gaps from the session.
func (h *Handler) routeDayRequest(c *gin.Context) (*service.RouteDayRequest, error) {
	req, err := BindJSON[dto.RouteDayRequest](c)
	if err != nil {
		return nil, err
	}
	routeDefaults(h.session(c), &req.RouteID, &req.TruckID, &req.Date)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &service.RouteDayRequest{
		RouteID:  req.RouteID,
		TruckID:  req.TruckID,
		Date:     req.Date,
		DriverID: req.DriverID,
		Note:     req.Note,
	}, nil
}
