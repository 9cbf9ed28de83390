package model

import "time"

// MovementType classifies a warehouse ledger entry.
type MovementType string

const (
	// MovementIn records stock received into the warehouse.
	MovementIn MovementType = "IN"
	// MovementAssign records stock handed out to a route.
	MovementAssign MovementType = "ASSIGN"
	// MovementReturn records stock coming back from a route.
	MovementReturn MovementType = "RETURN"
	// MovementAdjust records a manual correction.
	MovementAdjust MovementType = "ADJUST"
)

// Sign returns +1 for movements that add to the warehouse and -1 for those that remove.
// Adjustments carry their own sign in AdjustSign.
func (t MovementType) Sign() int {
	switch t {
	case MovementAssign:
		return -1
	default:
		return 1
	}
}

// WarehouseStock is the shared pool available for assignment. It never goes negative.
//
// @Description Current warehouse level for a product
type WarehouseStock struct {
	ProductID string    `json:"product_id" example:"cola-330"`
	Boxes     int       `json:"boxes" example:"5"`
	Pcs       int       `json:"pcs" example:"0"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Total returns the level in pieces.
func (w WarehouseStock) Total(pcsPerBox int) int {
	return ToTotalPcs(w.Boxes, w.Pcs, pcsPerBox)
}

// Quantity returns the level as a box/piece pair.
func (w WarehouseStock) Quantity() Quantity {
	return Quantity{BoxQty: w.Boxes, PcsQty: w.Pcs}
}

// Movement is an append-only warehouse ledger entry. Boxes/Pcs hold the absolute
// change; the direction comes from Type (and AdjustSign for ADJUST).
//
// @Description Warehouse ledger entry
type Movement struct {
	ID         string       `json:"id"`
	ProductID  string       `json:"product_id" example:"cola-330"`
	Type       MovementType `json:"movement_type" example:"ASSIGN"`
	Boxes      int          `json:"boxes" example:"2"`
	Pcs        int          `json:"pcs" example:"0"`
	AdjustSign int          `json:"adjust_sign,omitempty"`
	Note       string       `json:"note,omitempty"`
	RouteID    string       `json:"route_id,omitempty"`
	Date       string       `json:"date,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// SignedPcs returns the change this movement applied to the warehouse, in pieces.
func (m Movement) SignedPcs(pcsPerBox int) int {
	amount := ToTotalPcs(m.Boxes, m.Pcs, pcsPerBox)
	if m.Type == MovementAdjust {
		if m.AdjustSign < 0 {
			return -amount
		}
		return amount
	}
	return m.Type.Sign() * amount
}
