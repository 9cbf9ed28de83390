package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ReportKey groups report rows by day, route and driver.
type ReportKey struct {
	Date     string
	RouteID  string
	DriverID string
}

// String renders the composite key as date|route_id|driver_id.
func (k ReportKey) String() string {
	return strings.Join([]string{k.Date, k.RouteID, k.DriverID}, "|")
}

// ReportRow is the per-product rollup for one report key.
//
// @Description Assigned, sold and returned pieces for a product on a route/day
type ReportRow struct {
	Date        string          `json:"date" example:"2026-10-14"`
	RouteID     string          `json:"route_id" example:"north-1"`
	DriverID    string          `json:"driver_id,omitempty" example:"driver-42"`
	ProductID   string          `json:"product_id" example:"cola-330"`
	ProductName string          `json:"product_name" example:"Cola 330ml"`
	AssignedPcs int             `json:"assigned_pcs" example:"120"`
	SoldPcs     int             `json:"sold_pcs" example:"30"`
	ReturnedPcs int             `json:"returned_pcs" example:"90"`
	Revenue     decimal.Decimal `json:"revenue" swaggertype:"string" example:"15.00"`
}

// Key returns the row's composite grouping key.
func (r ReportRow) Key() ReportKey {
	return ReportKey{Date: r.Date, RouteID: r.RouteID, DriverID: r.DriverID}
}

// ReportTotals sums every row that shares a key.
type ReportTotals struct {
	Key         string          `json:"key" example:"2026-10-14|north-1|driver-42"`
	Date        string          `json:"date"`
	RouteID     string          `json:"route_id"`
	DriverID    string          `json:"driver_id,omitempty"`
	AssignedPcs int             `json:"assigned_pcs"`
	SoldPcs     int             `json:"sold_pcs"`
	ReturnedPcs int             `json:"returned_pcs"`
	Revenue     decimal.Decimal `json:"revenue" swaggertype:"string"`
}

// Report is the result of a stock report query.
type Report struct {
	From   string         `json:"from"`
	To     string         `json:"to"`
	Rows   []ReportRow    `json:"rows"`
	Totals []ReportTotals `json:"totals"`
}

// ReportQuery filters a stock report. Dates are inclusive.
type ReportQuery struct {
	From     string
	To       string
	RouteID  string
	DriverID string
}
