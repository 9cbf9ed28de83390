package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/lock"
	"github.com/guttosm/distribution-service/internal/metrics"
	"github.com/guttosm/distribution-service/internal/repository"
	"github.com/rs/zerolog/log"
)

// WarehouseLevel is a stored level in canonical form with its product details.
type WarehouseLevel struct {
	ProductID   string         `json:"product_id" example:"cola-330"`
	ProductName string         `json:"product_name" example:"Cola 330ml"`
	PcsPerBox   int            `json:"pcs_per_box" example:"24"`
	Stock       model.Quantity `json:"stock"`
	TotalPcs    int            `json:"total_pcs" example:"240"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// WarehouseChange is the outcome of a receipt or adjustment.
type WarehouseChange struct {
	Level    WarehouseLevel  `json:"level"`
	Movement *model.Movement `json:"movement"`
}

// WarehouseService manages stock held in the warehouse.
type WarehouseService interface {
	Receive(ctx context.Context, session model.Session, productID string, qty model.Quantity, note string) (*WarehouseChange, error)
	Adjust(ctx context.Context, session model.Session, productID string, delta model.Quantity, note string) (*WarehouseChange, error)
	Levels(ctx context.Context) ([]WarehouseLevel, error)
	Movements(ctx context.Context, productID string, limit int) ([]model.Movement, error)
}

// WarehouseServiceImpl implements WarehouseService.
type WarehouseServiceImpl struct {
	warehouse repository.WarehouseRepositoryInterface
	movements repository.MovementRepositoryInterface
	catalogue CatalogueService
	uow       repository.UnitOfWork
	locker    lock.Locker
	clock     func() time.Time
}

// NewWarehouseService creates a warehouse service. A nil locker means no-op locking.
func NewWarehouseService(
	warehouse repository.WarehouseRepositoryInterface,
	movements repository.MovementRepositoryInterface,
	catalogue CatalogueService,
	uow repository.UnitOfWork,
	locker lock.Locker,
) *WarehouseServiceImpl {
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	return &WarehouseServiceImpl{
		warehouse: warehouse,
		movements: movements,
		catalogue: catalogue,
		uow:       uow,
		locker:    locker,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// Receive books an incoming delivery.
func (s *WarehouseServiceImpl) Receive(ctx context.Context, session model.Session, productID string, qty model.Quantity, note string) (*WarehouseChange, error) {
	if !session.IsAdmin() {
		return nil, model.ErrForbidden
	}
	if qty.IsNegative() {
		return nil, model.NewValidationError("quantity", "must not be negative")
	}
	if qty.IsZero() {
		return nil, model.NewValidationError("quantity", "must be greater than zero")
	}
	if qty.ExceedsLineLimit() {
		return nil, lineLimitError("quantity")
	}
	return s.apply(ctx, productID, qty, func(per, _ int, at time.Time) *model.Movement {
		return ReceiptMovement(productID, qty, per, strings.TrimSpace(note), at)
	})
}

// Adjust applies a signed correction. Negative box or piece counts remove stock; the
// level never drops below zero.
func (s *WarehouseServiceImpl) Adjust(ctx context.Context, session model.Session, productID string, delta model.Quantity, note string) (*WarehouseChange, error) {
	if !session.IsAdmin() {
		return nil, model.ErrForbidden
	}
	if strings.TrimSpace(note) == "" {
		return nil, model.NewValidationError("note", "is required")
	}
	if delta.IsZero() {
		return nil, model.NewValidationError("quantity", "adjustment must not be zero")
	}
	if delta.ExceedsLineLimit() {
		return nil, lineLimitError("quantity")
	}
	return s.apply(ctx, productID, delta, func(per, pcs int, at time.Time) *model.Movement {
		return AdjustmentMovement(productID, pcs, per, strings.TrimSpace(note), at)
	})
}

// apply adds change to the product's level and appends the movement built by entry,
// under the product lock and in one unit of work.
func (s *WarehouseServiceImpl) apply(
	ctx context.Context,
	productID string,
	change model.Quantity,
	entry func(pcsPerBox, deltaPcs int, at time.Time) *model.Movement,
) (*WarehouseChange, error) {
	if productID == "" {
		return nil, model.NewValidationError("product_id", "is required")
	}
	catalogue, err := s.catalogue.Lookup(ctx, []string{productID})
	if err != nil {
		return nil, err
	}
	per := catalogue.PcsPerBox(productID)
	pcs := change.Total(per)
	if pcs == 0 {
		return nil, model.NewValidationError("quantity", "adjustment must not be zero")
	}

	var result *WarehouseChange
	err = lock.With(ctx, s.locker, lock.ProductKey(productID), func() error {
		return s.uow.Do(ctx, func(ctx context.Context) error {
			level, err := s.warehouse.Get(ctx, productID)
			if err != nil {
				return fmt.Errorf("read warehouse stock: %w", err)
			}
			if level == nil {
				return fmt.Errorf("%s: %w", productID, model.ErrWarehouseStockMissing)
			}
			// Reconcile takes stock leaving the warehouse as positive.
			next, err := Reconcile(*level, -pcs, per)
			if err != nil {
				var insufficient *model.InsufficientStockError
				if errors.As(err, &insufficient) {
					insufficient.ProductName = catalogue.Name(productID)
				}
				return err
			}
			if err := s.warehouse.Update(ctx, &next); err != nil {
				return fmt.Errorf("update warehouse stock %s: %w", productID, err)
			}
			m := entry(per, pcs, s.clock())
			if err := s.movements.Append(ctx, m); err != nil {
				return fmt.Errorf("append movements: %w", err)
			}
			result = &WarehouseChange{Level: levelView(next, catalogue), Movement: m}
			return nil
		})
	})
	if err != nil {
		log.Warn().Err(err).Str("product_id", productID).Int("delta_pcs", pcs).Msg("Warehouse change failed")
		return nil, err
	}
	metrics.RecordMovement(string(result.Movement.Type))
	log.Info().
		Str("product_id", productID).
		Str("movement_type", string(result.Movement.Type)).
		Int("delta_pcs", pcs).
		Int("total_pcs", result.Level.TotalPcs).
		Msg("Warehouse stock changed")
	return result, nil
}

// Levels lists every warehouse level in canonical form.
func (s *WarehouseServiceImpl) Levels(ctx context.Context) ([]WarehouseLevel, error) {
	levels, err := s.warehouse.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list warehouse stock: %w", err)
	}
	catalogue, err := s.catalogue.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WarehouseLevel, 0, len(levels))
	for _, l := range levels {
		out = append(out, levelView(l, catalogue))
	}
	return out, nil
}

// Movements lists the ledger newest first. An empty productID lists every product.
func (s *WarehouseServiceImpl) Movements(ctx context.Context, productID string, limit int) ([]model.Movement, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	movements, err := s.movements.ListByProduct(ctx, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movements, nil
}

func levelView(l model.WarehouseStock, catalogue model.Catalogue) WarehouseLevel {
	per := catalogue.PcsPerBox(l.ProductID)
	total := l.Total(per)
	return WarehouseLevel{
		ProductID:   l.ProductID,
		ProductName: catalogue.Name(l.ProductID),
		PcsPerBox:   per,
		Stock:       model.ToCanonical(total, per),
		TotalPcs:    total,
		UpdatedAt:   l.UpdatedAt,
	}
}
