package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/metrics"
	"github.com/guttosm/distribution-service/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

// ReportSheet is the worksheet name of the XLSX export.
const ReportSheet = "Stock"

var reportHeader = []interface{}{
	"Date", "Route", "Driver", "Product ID", "Product", "Assigned (pcs)", "Sold (pcs)", "Returned (pcs)", "Revenue",
}

// ReportService produces assigned/sold/returned rollups.
type ReportService interface {
	Stock(ctx context.Context, session model.Session, q model.ReportQuery) (*model.Report, error)
	ExportXLSX(ctx context.Context, session model.Session, q model.ReportQuery, w io.Writer) error
}

// ReportServiceImpl implements ReportService.
type ReportServiceImpl struct {
	daily     repository.DailyStockRepositoryInterface
	sales     repository.SaleRepositoryInterface
	catalogue CatalogueService
}

// NewReportService creates a report service.
func NewReportService(
	daily repository.DailyStockRepositoryInterface,
	sales repository.SaleRepositoryInterface,
	catalogue CatalogueService,
) *ReportServiceImpl {
	return &ReportServiceImpl{daily: daily, sales: sales, catalogue: catalogue}
}

// Stock loads the three inputs in parallel and aggregates them. Drivers are limited to
// their own rows.
func (s *ReportServiceImpl) Stock(ctx context.Context, session model.Session, q model.ReportQuery) (*model.Report, error) {
	start := time.Now()
	switch {
	case session.IsDriver():
		q.DriverID = session.UserID
	case !session.IsAdmin():
		return nil, model.ErrForbidden
	}
	if q.From == "" || q.To == "" {
		return nil, model.NewValidationError("from", "from and to are required")
	}
	if q.From > q.To {
		return nil, model.NewValidationError("from", "must not be after to")
	}

	var in ReportInput
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.daily.Query(gctx, q)
		if err != nil {
			return fmt.Errorf("query daily stock: %w", err)
		}
		in.Records = records
		return nil
	})
	g.Go(func() error {
		sales, err := s.sales.Query(gctx, q)
		if err != nil {
			return fmt.Errorf("query sales: %w", err)
		}
		in.Sales = sales
		return nil
	})
	g.Go(func() error {
		catalogue, err := s.catalogue.All(gctx)
		if err != nil {
			return err
		}
		in.Catalogue = catalogue
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("from", q.From).Str("to", q.To).Msg("Stock report failed")
		return nil, err
	}

	report := BuildReport(q, in)
	metrics.ObserveOperation("report", time.Since(start))
	log.Debug().
		Str("from", q.From).
		Str("to", q.To).
		Int("records", len(in.Records)).
		Int("sales", len(in.Sales)).
		Int("rows", len(report.Rows)).
		Msg("Stock report built")
	return &report, nil
}

// ExportXLSX writes the report rows to w as a workbook with a single sheet.
func (s *ReportServiceImpl) ExportXLSX(ctx context.Context, session model.Session, q model.ReportQuery, w io.Writer) error {
	report, err := s.Stock(ctx, session, q)
	if err != nil {
		return err
	}
	f, err := ReportWorkbook(report)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ReportWorkbook renders report rows into a workbook, one row per
// date/route/driver/product after the header.
func ReportWorkbook(report *model.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(ReportSheet, "A1", &reportHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range report.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		revenue, _ := r.Revenue.Float64()
		row := []interface{}{
			r.Date, r.RouteID, r.DriverID, r.ProductID, r.ProductName,
			r.AssignedPcs, r.SoldPcs, r.ReturnedPcs, revenue,
		}
		if err := f.SetSheetRow(ReportSheet, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}
