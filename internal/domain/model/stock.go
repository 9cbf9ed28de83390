package model

import "time"

// DateLayout is the calendar day format used for route dates.
const DateLayout = "2006-01-02"

// StockLine is the quantity of one product inside a daily stock record.
type StockLine struct {
	ProductID string `json:"productId" example:"cola-330"`
	BoxQty    int    `json:"boxQty" example:"5"`
	PcsQty    int    `json:"pcsQty" example:"0"`
}

// Quantity returns the line's box/piece pair.
func (l StockLine) Quantity() Quantity {
	return Quantity{BoxQty: l.BoxQty, PcsQty: l.PcsQty}
}

// NewStockLine builds a line from a quantity.
func NewStockLine(productID string, q Quantity) StockLine {
	return StockLine{ProductID: productID, BoxQty: q.BoxQty, PcsQty: q.PcsQty}
}

// StockKey identifies a daily stock record. An empty DriverID is unclaimed route stock.
type StockKey struct {
	RouteID  string
	Date     string
	TruckID  string
	DriverID string
}

// DailyStock is what a route carries on one day. Stock is the remaining quantity and
// shrinks with every sale; InitialStock is the baseline from the last admin assignment
// and is never touched by sales.
//
// @Description Stock handed to a route for a day
type DailyStock struct {
	ID           string      `json:"id"`
	RouteID      string      `json:"route_id" example:"north-1"`
	TruckID      string      `json:"truck_id,omitempty" example:"truck-7"`
	DriverID     string      `json:"auth_user_id,omitempty" example:"driver-42"`
	Date         string      `json:"date" example:"2026-10-14"`
	Stock        []StockLine `json:"stock"`
	InitialStock []StockLine `json:"initial_stock"`
	Version      int64       `json:"version"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Key returns the record's identifying tuple.
func (d *DailyStock) Key() StockKey {
	return StockKey{RouteID: d.RouteID, Date: d.Date, TruckID: d.TruckID, DriverID: d.DriverID}
}

// Claimed reports whether a driver has taken this record.
func (d *DailyStock) Claimed() bool {
	return d.DriverID != ""
}

// Started reports whether a driver holds this record and it still carries stock.
func (d *DailyStock) Started() bool {
	return d.Claimed() && !AllZero(d.Stock)
}

// StockLine returns the remaining line for productID and whether it exists.
func (d *DailyStock) StockLine(productID string) (StockLine, bool) {
	return findLine(d.Stock, productID)
}

// InitialLine returns the baseline line for productID and whether it exists.
func (d *DailyStock) InitialLine(productID string) (StockLine, bool) {
	return findLine(d.InitialStock, productID)
}

// AllZero reports whether every line is empty. An empty slice is all zero.
func AllZero(lines []StockLine) bool {
	for _, l := range lines {
		if !l.Quantity().IsZero() {
			return false
		}
	}
	return true
}

// SetLine replaces the line for line.ProductID, appending it when missing.
func SetLine(lines []StockLine, line StockLine) []StockLine {
	for i := range lines {
		if lines[i].ProductID == line.ProductID {
			lines[i] = line
			return lines
		}
	}
	return append(lines, line)
}

// CloneLines copies a line slice so callers can mutate it freely.
func CloneLines(lines []StockLine) []StockLine {
	if lines == nil {
		return nil
	}
	out := make([]StockLine, len(lines))
	copy(out, lines)
	return out
}

func findLine(lines []StockLine, productID string) (StockLine, bool) {
	for _, l := range lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return StockLine{ProductID: productID}, false
}
