//go:build !integration

package service

import (
	"testing"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricedItem(id string, boxes, pcs int, price string) model.SaleItem {
	return model.SaleItem{ProductID: id, BoxQty: boxes, PcsQty: pcs, UnitPrice: decimal.RequireFromString(price)}
}

func TestBuildReport_FallbackForRecordsWithoutBaseline(t *testing.T) {
	in := ReportInput{
		Records: []model.DailyStock{{
			RouteID:  "north-1",
			DriverID: "driver-1",
			Date:     "2026-10-14",
			Stock:    []model.StockLine{line("cola", 2, 0)},
		}},
		Sales: []model.Sale{{
			RouteID:  "north-1",
			DriverID: "driver-1",
			Date:     "2026-10-14",
			Items:    []model.SaleItem{pricedItem("cola", 0, 24, "0.50")},
		}},
		Catalogue: testCatalogue(),
	}

	report := BuildReport(model.ReportQuery{From: "2026-10-01", To: "2026-10-31"}, in)
	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.Equal(t, 72, row.AssignedPcs)
	assert.Equal(t, 24, row.SoldPcs)
	assert.Equal(t, 48, row.ReturnedPcs)
	assert.True(t, decimal.RequireFromString("12").Equal(row.Revenue))
	assert.Equal(t, "Cola 330ml", row.ProductName)

	require.Len(t, report.Totals, 1)
	assert.Equal(t, "2026-10-14|north-1|driver-1", report.Totals[0].Key)
}

func TestBuildReport_BaselineAndClamp(t *testing.T) {
	in := ReportInput{
		Records: []model.DailyStock{{
			RouteID:      "north-1",
			DriverID:     "driver-1",
			Date:         "2026-10-14",
			Stock:        []model.StockLine{line("cola", 0, 0)},
			InitialStock: []model.StockLine{line("cola", 1, 0)},
		}},
		Sales: []model.Sale{{
			RouteID:  "north-1",
			DriverID: "driver-1",
			Date:     "2026-10-14",
			Items:    []model.SaleItem{pricedItem("cola", 0, 30, "1")},
		}},
		Catalogue: testCatalogue(),
	}

	report := BuildReport(model.ReportQuery{}, in)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, 24, report.Rows[0].AssignedPcs)
	assert.Equal(t, 30, report.Rows[0].SoldPcs)
	assert.Equal(t, 0, report.Rows[0].ReturnedPcs, "returned never goes negative")
}

func TestBuildReport_MergesRowsWithSameKey(t *testing.T) {
	rec := model.DailyStock{
		RouteID:      "north-1",
		DriverID:     "driver-1",
		Date:         "2026-10-14",
		InitialStock: []model.StockLine{line("cola", 1, 0), line("chips", 1, 0)},
	}
	sales := []model.Sale{
		{RouteID: "north-1", DriverID: "driver-1", Date: "2026-10-14", Items: []model.SaleItem{pricedItem("cola", 0, 4, "0.5")}},
		{RouteID: "north-1", DriverID: "driver-1", Date: "2026-10-14", Items: []model.SaleItem{pricedItem("cola", 0, 6, "0.5"), pricedItem("chips", 0, 2, "1")}},
	}

	report := BuildReport(model.ReportQuery{}, ReportInput{Records: []model.DailyStock{rec}, Sales: sales, Catalogue: testCatalogue()})
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "chips", report.Rows[0].ProductID)
	assert.Equal(t, "cola", report.Rows[1].ProductID)
	assert.Equal(t, 10, report.Rows[1].SoldPcs)

	require.Len(t, report.Totals, 1)
	tot := report.Totals[0]
	assert.Equal(t, 36, tot.AssignedPcs)
	assert.Equal(t, 12, tot.SoldPcs)
	assert.Equal(t, 24, tot.ReturnedPcs)
	assert.True(t, decimal.RequireFromString("7").Equal(tot.Revenue))
}

func TestBuildReport_FiltersAndIsRepeatable(t *testing.T) {
	in := ReportInput{
		Records: []model.DailyStock{
			{RouteID: "north-1", DriverID: "driver-1", Date: "2026-10-14", InitialStock: []model.StockLine{line("cola", 1, 0)}},
			{RouteID: "south-2", DriverID: "driver-2", Date: "2026-10-14", InitialStock: []model.StockLine{line("cola", 2, 0)}},
			{RouteID: "north-1", DriverID: "driver-1", Date: "2026-09-30", InitialStock: []model.StockLine{line("cola", 3, 0)}},
		},
		Catalogue: testCatalogue(),
	}
	q := model.ReportQuery{From: "2026-10-01", To: "2026-10-31", RouteID: "north-1"}

	first := BuildReport(q, in)
	second := BuildReport(q, in)
	require.Len(t, first.Rows, 1)
	assert.Equal(t, 24, first.Rows[0].AssignedPcs)
	assert.Equal(t, first, second)
	assert.Equal(t, []model.StockLine{line("cola", 1, 0)}, in.Records[0].InitialStock)
}

func TestBuildReport_SalesWithoutRecord(t *testing.T) {
	in := ReportInput{
		Sales:     []model.Sale{{RouteID: "north-1", Date: "2026-10-14", Items: []model.SaleItem{pricedItem("cola", 0, 2, "1"), {PcsQty: 1}}}},
		Catalogue: testCatalogue(),
	}

	report := BuildReport(model.ReportQuery{}, in)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, 0, report.Rows[0].AssignedPcs)
	assert.Equal(t, 2, report.Rows[0].SoldPcs)
	assert.Equal(t, 0, report.Rows[0].ReturnedPcs)
}
