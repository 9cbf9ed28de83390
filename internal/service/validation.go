package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/distribution-service/internal/domain/model"
)

// validateRouteDay checks the identifiers every stock operation is keyed on.
func validateRouteDay(routeID, date string) error {
	if strings.TrimSpace(routeID) == "" {
		return model.NewValidationError("route_id", "is required")
	}
	if date == "" {
		return model.NewValidationError("date", "is required")
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return model.NewValidationError("date", "must be YYYY-MM-DD")
	}
	return nil
}

// validateLines rejects empty, duplicate and negative lines before anything is read.
func validateLines(field string, lines []model.StockLine) error {
	if len(lines) == 0 {
		return model.NewValidationError(field, "at least one line is required")
	}
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l.ProductID) == "" {
			return model.NewValidationError(field+".productId", "is required")
		}
		if _, dup := seen[l.ProductID]; dup {
			return model.NewValidationError(l.ProductID, "duplicate product")
		}
		seen[l.ProductID] = struct{}{}
		if l.Quantity().IsNegative() {
			return model.NewValidationError(l.ProductID, "quantities must not be negative")
		}
		if l.Quantity().ExceedsLineLimit() {
			return lineLimitError(l.ProductID)
		}
	}
	return nil
}

func lineLimitError(field string) error {
	return model.NewValidationError(field, fmt.Sprintf("boxes and pieces must each be at most %d", model.MaxLineQty))
}

func lineIDs(lines []model.StockLine) []string {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	return ids
}

// statusOf labels an outcome for metrics.
func statusOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case model.IsValidation(err):
		return "invalid"
	case model.IsConflict(err):
		return "conflict"
	case model.IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
