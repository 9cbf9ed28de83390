package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/domain/dto"
	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/middleware"
)

// defaultMovementsLimit applies when the client sends no limit.
const defaultMovementsLimit = 100

// ListWarehouse handles GET /api/warehouse.
//
// @Summary      Warehouse levels
// @Description  Current level of every product in canonical box/piece form.
// @Tags         Warehouse
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=[]service.WarehouseLevel}
// @Security     BearerAuth
// @Router       /api/warehouse [get]
func (h *Handler) ListWarehouse(c *gin.Context) {
	builder := NewResponseBuilder(c)

	levels, err := h.svc.Warehouse.Levels(c.Request.Context())
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(levels)
}

// ListMovements handles GET /api/warehouse/:product_id/movements.
//
// @Summary      Warehouse movements
// @Description  The product's append-only movement log, newest first.
// @Tags         Warehouse
// @Produce      json
// @Param        product_id path string true "Product ID"
// @Param        limit query int false "Maximum entries (default 100, max 1000)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.Movement}
// @Failure      400 {object} dto.ErrorResponse "Invalid limit"
// @Security     BearerAuth
// @Router       /api/warehouse/{product_id}/movements [get]
func (h *Handler) ListMovements(c *gin.Context) {
	builder := NewResponseBuilder(c)

	q, err := BindQuery[dto.MovementsQuery](c)
	if err != nil {
		builder.Fail(err)
		return
	}
	if err := q.Validate(); err != nil {
		builder.Fail(err)
		return
	}
	limit := q.Limit
	if limit == 0 {
		limit = defaultMovementsLimit
	}

	movements, err := h.svc.Warehouse.Movements(c.Request.Context(), c.Param("product_id"), limit)
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(movements)
}

// ReceiveStock handles POST /api/warehouse/receive.
//
// @Summary      Receive stock
// @Description  Books an incoming delivery as an IN movement.
// @Tags         Warehouse
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.ReceiveStockRequest true "Receipt"
// @Success      200 {object} dto.SuccessResponse{data=service.WarehouseChange}
// @Failure      400 {object} dto.ErrorResponse "Invalid receipt"
// @Failure      403 {object} dto.ErrorResponse "Admin only"
// @Failure      404 {object} dto.ErrorResponse "Product not found"
// @Security     BearerAuth
// @Router       /api/warehouse/receive [post]
func (h *Handler) ReceiveStock(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.ReceiveStockRequest](c)
	if err != nil {
		builder.Fail(err)
		return
	}
	qty := model.Quantity{BoxQty: req.BoxQty, PcsQty: req.PcsQty}
	fields := map[string]interface{}{
		"product_id": req.ProductID,
		"box_qty":    req.BoxQty,
		"pcs_qty":    req.PcsQty,
	}

	change, err := h.svc.Warehouse.Receive(c.Request.Context(), h.session(c), req.ProductID, qty, req.Note)
	if err != nil {
		h.auditError(c, middleware.ActionReceiveStock, "Stock receipt failed", err, fields)
		builder.Fail(err)
		return
	}

	h.audit(c, middleware.ActionReceiveStock, "Stock received", fields)
	builder.SuccessOK(change)
}

// AdjustStock handles POST /api/warehouse/adjust.
//
// @Summary      Adjust stock
// @Description  Manual signed correction booked as an ADJUST movement. The level never goes below zero.
// @Tags         Warehouse
// @Accept       json
// @Produce      json
// @Param        request body dto.AdjustStockRequest true "Correction"
// @Success      200 {object} dto.SuccessResponse{data=service.WarehouseChange}
// @Failure      400 {object} dto.ErrorResponse "Invalid correction"
// @Failure      403 {object} dto.ErrorResponse "Admin only"
// @Failure      409 {object} dto.ErrorResponse "Correction exceeds stock"
// @Security     BearerAuth
// @Router       /api/warehouse/adjust [post]
func (h *Handler) AdjustStock(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.AdjustStockRequest](c)
	if err != nil {
		builder.Fail(err)
		return
	}
	delta := model.Quantity{BoxQty: req.BoxQty, PcsQty: req.PcsQty}
	fields := map[string]interface{}{
		"product_id": req.ProductID,
		"box_qty":    req.BoxQty,
		"pcs_qty":    req.PcsQty,
		"note":       req.Note,
	}

	change, err := h.svc.Warehouse.Adjust(c.Request.Context(), h.session(c), req.ProductID, delta, req.Note)
	if err != nil {
		h.auditError(c, middleware.ActionAdjustStock, "Stock adjustment failed", err, fields)
		builder.Fail(err)
		return
	}

	h.audit(c, middleware.ActionAdjustStock, "Stock adjusted", fields)
	builder.SuccessOK(change)
}
