package service

import (
	"fmt"

	"github.com/guttosm/distribution-service/internal/domain/model"
)

// SaleLimits is what a driver can still sell of one product. Boxes are capped at whole
// boxes on the truck; pieces may cut open boxes, so the piece cap is the full total.
type SaleLimits struct {
	MaxBoxes int
	MaxPcs   int
}

// LimitsFor returns the sale limits for a remaining quantity.
func LimitsFor(remaining model.Quantity, pcsPerBox int) SaleLimits {
	return SaleLimits{MaxBoxes: remaining.BoxQty, MaxPcs: remaining.Total(pcsPerBox)}
}

// Allows reports whether sold fits the limits.
func (l SaleLimits) Allows(sold model.Quantity, pcsPerBox int) bool {
	return sold.BoxQty <= l.MaxBoxes && sold.Total(pcsPerBox) <= l.MaxPcs
}

// DeductLine returns max(0, remaining - sold) in canonical form.
func DeductLine(remaining, sold model.Quantity, pcsPerBox int) model.Quantity {
	return model.ToCanonical(remaining.Total(pcsPerBox)-sold.Total(pcsPerBox), pcsPerBox)
}

// SoldByProduct sums sale items per product, keeping first-seen order.
func SoldByProduct(items []model.SaleItem) ([]string, map[string]model.Quantity) {
	order := make([]string, 0, len(items))
	sold := make(map[string]model.Quantity, len(items))
	for _, item := range items {
		q, ok := sold[item.ProductID]
		if !ok {
			order = append(order, item.ProductID)
		}
		q.BoxQty += item.BoxQty
		q.PcsQty += item.PcsQty
		sold[item.ProductID] = q
	}
	return order, sold
}

// CheckSale rejects a sale that exceeds the record's remaining stock for any product.
func CheckSale(record *model.DailyStock, items []model.SaleItem, catalogue model.Catalogue) error {
	if record == nil {
		return model.ErrStockNotFound
	}
	order, sold := SoldByProduct(items)
	for _, id := range order {
		q := sold[id]
		if q.IsNegative() {
			return model.NewValidationError(id, "quantities must not be negative")
		}
		per := catalogue.PcsPerBox(id)
		line, _ := record.StockLine(id)
		remaining := line.Quantity()
		if !LimitsFor(remaining, per).Allows(q, per) {
			return &model.OversellError{
				ProductID:   id,
				ProductName: catalogue.Name(id),
				Requested:   q,
				Available:   remaining.Canonical(per),
			}
		}
	}
	return nil
}

// Deduct returns the record's stock lines after removing the sold quantities. Each line
// clamps at zero; initial_stock is not touched. Products the record does not carry are
// skipped. A nil record is ErrStockNotFound: deduction never creates stock.
func Deduct(record *model.DailyStock, items []model.SaleItem, catalogue model.Catalogue) ([]model.StockLine, error) {
	if record == nil {
		return nil, fmt.Errorf("deduct sale: %w", model.ErrStockNotFound)
	}
	stock := model.CloneLines(record.Stock)
	order, sold := SoldByProduct(items)
	for _, id := range order {
		line, ok := record.StockLine(id)
		if !ok {
			continue
		}
		per := catalogue.PcsPerBox(id)
		stock = model.SetLine(stock, model.NewStockLine(id, DeductLine(line.Quantity(), sold[id], per)))
	}
	return stock, nil
}
