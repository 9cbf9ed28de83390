package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/domain/dto"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StockReport handles GET /api/reports/stock.
//
// @Summary      Stock report
// @Description  Assigned, sold and returned pieces per date, route, driver and product, with revenue. Drivers only see their own rows.
// @Tags         Reports
// @Produce      json
// @Param        from query string true "First date YYYY-MM-DD"
// @Param        to query string true "Last date YYYY-MM-DD"
// @Param        route_id query string false "Route ID"
// @Param        driver_id query string false "Driver ID"
// @Success      200 {object} dto.SuccessResponse{data=model.Report}
// @Failure      400 {object} dto.ErrorResponse "Invalid range"
// @Security     BearerAuth
// @Router       /api/reports/stock [get]
func (h *Handler) StockReport(c *gin.Context) {
	builder := NewResponseBuilder(c)

	q, err := h.reportQuery(c)
	if err != nil {
		builder.Fail(err)
		return
	}

	report, err := h.svc.Reports.Stock(c.Request.Context(), h.session(c), q.Query())
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(report)
}

// StockReportXLSX handles GET /api/reports/stock.xlsx.
//
// @Summary      Stock report workbook
// @Description  The stock report as an XLSX download, one row per date/route/driver/product.
// @Tags         Reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from query string true "First date YYYY-MM-DD"
// @Param        to query string true "Last date YYYY-MM-DD"
// @Param        route_id query string false "Route ID"
// @Param        driver_id query string false "Driver ID"
// @Success      200 {file} file
// @Failure      400 {object} dto.ErrorResponse "Invalid range"
// @Security     BearerAuth
// @Router       /api/reports/stock.xlsx [get]
func (h *Handler) StockReportXLSX(c *gin.Context) {
	builder := NewResponseBuilder(c)

	q, err := h.reportQuery(c)
	if err != nil {
		builder.Fail(err)
		return
	}

	// The workbook is built before anything is written so a failure still gets a JSON error.
	var buf bytes.Buffer
	if err := h.svc.Reports.ExportXLSX(c.Request.Context(), h.session(c), q.Query(), &buf); err != nil {
		builder.Fail(err)
		return
	}

	filename := fmt.Sprintf("stock-%s-%s.xlsx", q.From, q.To)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) reportQuery(c *gin.Context) (*dto.ReportRequest, error) {
	q, err := BindQuery[dto.ReportRequest](c)
	if err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}
