package service

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/distribution-service/internal/domain/model"
)

// Reconcile applies the inverse of an assignment delta to a warehouse level. A positive
// delta leaves the warehouse; a negative delta comes back. The level never goes below
// zero: an overdraw fails with *model.InsufficientStockError instead of clamping.
func Reconcile(current model.WarehouseStock, delta, pcsPerBox int) (model.WarehouseStock, error) {
	available := current.Total(pcsPerBox)
	if delta < 0 && available > math.MaxInt+delta {
		return current, model.NewValidationError(current.ProductID, "warehouse level is out of range")
	}
	next := available - delta
	if next < 0 {
		return current, &model.InsufficientStockError{
			ProductID:   current.ProductID,
			ProductName: current.ProductID,
			Requested:   model.Abs(delta, pcsPerBox),
			Available:   model.ToCanonical(available, pcsPerBox),
			Shortfall:   model.ToCanonical(-next, pcsPerBox),
		}
	}
	q := model.ToCanonical(next, pcsPerBox)
	current.Boxes, current.Pcs = q.BoxQty, q.PcsQty
	return current, nil
}

// AssignmentMovement builds the ledger entry for a delta: ASSIGN when stock leaves the
// warehouse, RETURN when it comes back. A zero delta yields nil.
func AssignmentMovement(productID string, delta, pcsPerBox int, routeID, date, note string, at time.Time) *model.Movement {
	if delta == 0 {
		return nil
	}
	kind := model.MovementAssign
	if delta < 0 {
		kind = model.MovementReturn
	}
	return newMovement(productID, kind, delta, pcsPerBox, routeID, date, note, at)
}

// AdjustmentMovement builds an ADJUST entry carrying the correction's sign.
func AdjustmentMovement(productID string, deltaPcs, pcsPerBox int, note string, at time.Time) *model.Movement {
	if deltaPcs == 0 {
		return nil
	}
	m := newMovement(productID, model.MovementAdjust, deltaPcs, pcsPerBox, "", "", note, at)
	m.AdjustSign = 1
	if deltaPcs < 0 {
		m.AdjustSign = -1
	}
	return m
}

// ReceiptMovement builds an IN entry.
func ReceiptMovement(productID string, q model.Quantity, pcsPerBox int, note string, at time.Time) *model.Movement {
	return newMovement(productID, model.MovementIn, q.Total(pcsPerBox), pcsPerBox, "", "", note, at)
}

func newMovement(productID string, kind model.MovementType, deltaPcs, pcsPerBox int, routeID, date, note string, at time.Time) *model.Movement {
	q := model.Abs(deltaPcs, pcsPerBox)
	return &model.Movement{
		ID:        uuid.NewString(),
		ProductID: productID,
		Type:      kind,
		Boxes:     q.BoxQty,
		Pcs:       q.PcsQty,
		Note:      note,
		RouteID:   routeID,
		Date:      date,
		CreatedAt: at,
	}
}
