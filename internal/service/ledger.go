package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/guttosm/distribution-service/internal/domain/model"
)

// LinePlan is the reconciled outcome for one product of an assignment request.
//
// @Description Per-product result of an assignment
type LinePlan struct {
	ProductID   string         `json:"product_id" example:"cola-330"`
	ProductName string         `json:"product_name" example:"Cola 330ml"`
	PcsPerBox   int            `json:"pcs_per_box" example:"24"`
	Previous    model.Quantity `json:"previous"`
	Requested   model.Quantity `json:"requested"`
	DeltaPcs    int            `json:"delta_pcs" example:"-48"`
	Initial     model.Quantity `json:"initial"`
	// Warehouse is the level after reconciliation. It is only set when DeltaPcs != 0.
	Warehouse        *model.Quantity `json:"warehouse,omitempty"`
	warehouseVersion int64
}

// ComputeDelta returns newTotal - oldTotal in pieces for one product. Negative requested
// quantities are rejected before anything is computed.
func ComputeDelta(existing, requested model.StockLine, pcsPerBox int) (int, error) {
	if requested.Quantity().IsNegative() {
		return 0, model.NewValidationError(requested.ProductID, "quantities must not be negative")
	}
	oldTotal, ok := model.CheckedTotalPcs(existing.BoxQty, existing.PcsQty, pcsPerBox)
	if !ok {
		return 0, model.NewValidationError(existing.ProductID, "stored quantity is out of range")
	}
	newTotal, ok := model.CheckedTotalPcs(requested.BoxQty, requested.PcsQty, pcsPerBox)
	if !ok || newTotal > math.MaxInt/2 {
		return 0, model.NewValidationError(requested.ProductID, "quantity is out of range")
	}
	return newTotal - oldTotal, nil
}

// RebaseInitial applies delta to the assigned baseline, clamping at zero.
func RebaseInitial(oldInitial model.StockLine, delta, pcsPerBox int) model.Quantity {
	total := oldInitial.Quantity().Total(pcsPerBox) + delta
	if total < 0 {
		total = 0
	}
	return model.ToCanonical(total, pcsPerBox)
}

// PlanAssignment reconciles every requested line against the existing record and the
// freshly read warehouse levels. Nothing is returned unless every line fits, so callers
// can write all lines or none. existing may be nil for a first assignment. The warehouse
// map only needs entries for products whose delta is non-zero.
func PlanAssignment(
	existing *model.DailyStock,
	lines []model.StockLine,
	catalogue model.Catalogue,
	warehouse map[string]model.WarehouseStock,
) ([]LinePlan, error) {
	if len(lines) == 0 {
		return nil, model.NewValidationError("stock", "at least one line is required")
	}

	plans := make([]LinePlan, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if line.ProductID == "" {
			return nil, model.NewValidationError("productId", "is required")
		}
		if _, dup := seen[line.ProductID]; dup {
			return nil, model.NewValidationError(line.ProductID, "duplicate product")
		}
		seen[line.ProductID] = struct{}{}

		product, ok := catalogue[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("%s: %w", line.ProductID, model.ErrProductNotFound)
		}
		per := product.ResolvePcsPerBox()

		previous := model.StockLine{ProductID: line.ProductID}
		baseline := model.StockLine{ProductID: line.ProductID}
		if existing != nil {
			previous, _ = existing.StockLine(line.ProductID)
			var hasInitial bool
			baseline, hasInitial = existing.InitialLine(line.ProductID)
			if !hasInitial {
				// records written before the baseline existed start from what they carry
				baseline = previous
			}
		}

		delta, err := ComputeDelta(previous, line, per)
		if err != nil {
			return nil, err
		}
		plans = append(plans, LinePlan{
			ProductID:   line.ProductID,
			ProductName: catalogue.Name(line.ProductID),
			PcsPerBox:   per,
			Previous:    previous.Quantity(),
			Requested:   line.Quantity().Canonical(per),
			DeltaPcs:    delta,
			Initial:     RebaseInitial(baseline, delta, per),
		})
	}

	var shortfalls []error
	for i := range plans {
		p := &plans[i]
		if p.DeltaPcs == 0 {
			continue
		}
		level, ok := warehouse[p.ProductID]
		if !ok {
			return nil, fmt.Errorf("%s: %w", p.ProductID, model.ErrWarehouseStockMissing)
		}
		next, err := Reconcile(level, p.DeltaPcs, p.PcsPerBox)
		if err != nil {
			var insufficient *model.InsufficientStockError
			if errors.As(err, &insufficient) {
				insufficient.ProductName = p.ProductName
				shortfalls = append(shortfalls, insufficient)
				continue
			}
			return nil, err
		}
		q := next.Quantity()
		p.Warehouse = &q
		p.warehouseVersion = level.Version
	}
	if len(shortfalls) > 0 {
		return nil, errors.Join(shortfalls...)
	}
	return plans, nil
}

// ApplyPlans returns the record's new stock and initial_stock lines. Lines the request did
// not mention are kept as they are.
func ApplyPlans(existing *model.DailyStock, plans []LinePlan) (stock, initial []model.StockLine) {
	if existing != nil {
		stock = model.CloneLines(existing.Stock)
		initial = model.CloneLines(existing.InitialStock)
	}
	for _, p := range plans {
		stock = model.SetLine(stock, model.NewStockLine(p.ProductID, p.Requested))
		initial = model.SetLine(initial, model.NewStockLine(p.ProductID, p.Initial))
	}
	if stock == nil {
		stock = []model.StockLine{}
	}
	if initial == nil {
		initial = []model.StockLine{}
	}
	return stock, initial
}
