// Package model defines the core domain entities for the distribution service.
package model

import "math"

// DefaultPcsPerBox is the box size used when a product carries no usable ratio.
const DefaultPcsPerBox = 24

// MaxLineQty bounds the boxes, and separately the pieces, one request line may carry.
const MaxLineQty = 1_000_000

// Unit identifies how a flat quantity is expressed.
type Unit string

const (
	// UnitBox counts whole boxes.
	UnitBox Unit = "box"
	// UnitPcs counts loose pieces.
	UnitPcs Unit = "pcs"
)

// Quantity is a box/piece pair. The canonical form keeps PcsQty below the box size.
//
// @Description Quantity split into boxes and loose pieces
// @Example {"boxQty": 3, "pcsQty": 18}
type Quantity struct {
	BoxQty int `json:"boxQty" bson:"boxQty" example:"3"`
	PcsQty int `json:"pcsQty" bson:"pcsQty" example:"18"`
}

// NormalizePcsPerBox maps zero, negative and absurd ratios to DefaultPcsPerBox.
func NormalizePcsPerBox(pcsPerBox int) int {
	if pcsPerBox <= 0 || pcsPerBox > math.MaxInt32 {
		return DefaultPcsPerBox
	}
	return pcsPerBox
}

// ToTotalPcs returns boxQty * pcsPerBox + pcsQty.
func ToTotalPcs(boxQty, pcsQty, pcsPerBox int) int {
	return boxQty*NormalizePcsPerBox(pcsPerBox) + pcsQty
}

// CheckedTotalPcs is ToTotalPcs that reports false instead of wrapping around when the
// total does not fit in an int.
func CheckedTotalPcs(boxQty, pcsQty, pcsPerBox int) (int, bool) {
	per := NormalizePcsPerBox(pcsPerBox)
	if boxQty > math.MaxInt/per || boxQty < math.MinInt/per {
		return 0, false
	}
	boxes := boxQty * per
	if (pcsQty > 0 && boxes > math.MaxInt-pcsQty) || (pcsQty < 0 && boxes < math.MinInt-pcsQty) {
		return 0, false
	}
	return boxes + pcsQty, true
}

// ToCanonical splits a piece count into whole boxes and the remainder.
// Negative totals are treated as zero.
func ToCanonical(totalPcs, pcsPerBox int) Quantity {
	per := NormalizePcsPerBox(pcsPerBox)
	if totalPcs <= 0 {
		return Quantity{}
	}
	return Quantity{BoxQty: totalPcs / per, PcsQty: totalPcs % per}
}

// FromUnit converts a flat quantity tagged with a unit into a Quantity.
// Unknown units are read as pieces.
func FromUnit(qty int, unit Unit) Quantity {
	if unit == UnitBox {
		return Quantity{BoxQty: qty}
	}
	return Quantity{PcsQty: qty}
}

// Total returns the quantity in pieces.
func (q Quantity) Total(pcsPerBox int) int {
	return ToTotalPcs(q.BoxQty, q.PcsQty, pcsPerBox)
}

// Canonical returns q with piece overflow folded into boxes.
func (q Quantity) Canonical(pcsPerBox int) Quantity {
	return ToCanonical(q.Total(pcsPerBox), pcsPerBox)
}

// IsZero reports whether both buckets are empty.
func (q Quantity) IsZero() bool {
	return q.BoxQty == 0 && q.PcsQty == 0
}

// ExceedsLineLimit reports whether either bucket is larger in magnitude than MaxLineQty.
func (q Quantity) ExceedsLineLimit() bool {
	return q.BoxQty > MaxLineQty || q.BoxQty < -MaxLineQty ||
		q.PcsQty > MaxLineQty || q.PcsQty < -MaxLineQty
}

// IsNegative reports whether either bucket is below zero.
func (q Quantity) IsNegative() bool {
	return q.BoxQty < 0 || q.PcsQty < 0
}

// Abs returns the canonical form of |totalPcs|, used for movement entries.
func Abs(totalPcs, pcsPerBox int) Quantity {
	if totalPcs < 0 {
		totalPcs = -totalPcs
	}
	return ToCanonical(totalPcs, pcsPerBox)
}
