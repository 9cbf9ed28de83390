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
	"github.com/shopspring/decimal"
)

// SaleLine is one billed product. A missing UnitPrice falls back to the product's piece
// price.
type SaleLine struct {
	ProductID string
	BoxQty    int
	PcsQty    int
	UnitPrice decimal.NullDecimal
}

// SaleRequest bills a shop against a route's remaining stock. DriverID is only honoured
// for admin sessions.
type SaleRequest struct {
	RouteID  string
	TruckID  string
	Date     string
	DriverID string
	ShopName string
	Items    []SaleLine
}

// SaleService records sales and lists them.
type SaleService interface {
	Record(ctx context.Context, session model.Session, req SaleRequest) (*model.Sale, error)
	List(ctx context.Context, session model.Session, routeID, date string) ([]model.Sale, error)
}

// SaleServiceImpl implements SaleService.
type SaleServiceImpl struct {
	sales     repository.SaleRepositoryInterface
	daily     repository.DailyStockRepositoryInterface
	catalogue CatalogueService
	uow       repository.UnitOfWork
	locker    lock.Locker
}

// NewSaleService creates a sale service. A nil locker means no-op locking.
func NewSaleService(
	sales repository.SaleRepositoryInterface,
	daily repository.DailyStockRepositoryInterface,
	catalogue CatalogueService,
	uow repository.UnitOfWork,
	locker lock.Locker,
) *SaleServiceImpl {
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	return &SaleServiceImpl{sales: sales, daily: daily, catalogue: catalogue, uow: uow, locker: locker}
}

func validateSale(req SaleRequest) error {
	if err := validateRouteDay(req.RouteID, req.Date); err != nil {
		return err
	}
	if strings.TrimSpace(req.ShopName) == "" {
		return model.NewValidationError("shop_name", "is required")
	}
	if len(req.Items) == 0 {
		return model.NewValidationError("products_sold", "at least one item is required")
	}
	for i, item := range req.Items {
		field := fmt.Sprintf("products_sold[%d]", i)
		switch {
		case item.ProductID == "":
			return model.NewValidationError(field+".productId", "is required")
		case item.BoxQty < 0 || item.PcsQty < 0:
			return model.NewValidationError(field, "quantities must not be negative")
		case model.Quantity{BoxQty: item.BoxQty, PcsQty: item.PcsQty}.ExceedsLineLimit():
			return lineLimitError(field)
		case item.BoxQty == 0 && item.PcsQty == 0:
			return model.NewValidationError(field, "quantity must be greater than zero")
		case item.UnitPrice.Valid && item.UnitPrice.Decimal.IsNegative():
			return model.NewValidationError(field+".unitPrice", "must not be negative")
		}
	}
	return nil
}

// Record checks the sale against the route's remaining stock, stores it, and deducts the
// sold quantities. initial_stock is never touched.
func (s *SaleServiceImpl) Record(ctx context.Context, session model.Session, req SaleRequest) (*model.Sale, error) {
	start := time.Now()
	driverID, err := actingDriver(session, req.DriverID)
	if err != nil {
		return nil, err
	}
	if err := validateSale(req); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	catalogue, err := s.catalogue.Lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	sale := &model.Sale{
		RouteID:  req.RouteID,
		TruckID:  req.TruckID,
		Date:     req.Date,
		ShopName: strings.TrimSpace(req.ShopName),
		Items:    priceItems(req.Items, catalogue),
	}
	sale.TotalAmount = saleTotal(sale.Items, catalogue)

	key := model.StockKey{RouteID: req.RouteID, Date: req.Date, TruckID: req.TruckID, DriverID: driverID}
	err = lock.With(ctx, s.locker, lock.RouteDayKey(req.RouteID, req.Date), func() error {
		return s.uow.Do(ctx, func(ctx context.Context) error {
			return s.record(ctx, key, sale, catalogue)
		})
	})

	status := statusOf(err)
	var oversell *model.OversellError
	if errors.As(err, &oversell) {
		status = "oversell"
	}
	metrics.RecordSale(time.Since(start), status)

	if err != nil {
		log.Warn().Err(err).
			Str("route_id", req.RouteID).
			Str("date", req.Date).
			Str("driver_id", driverID).
			Str("shop_name", sale.ShopName).
			Msg("Sale rejected")
		return nil, err
	}
	log.Info().
		Str("sale_id", sale.ID).
		Str("route_id", req.RouteID).
		Str("date", req.Date).
		Str("driver_id", sale.DriverID).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Msg("Sale recorded")
	return sale, nil
}

func (s *SaleServiceImpl) record(ctx context.Context, key model.StockKey, sale *model.Sale, catalogue model.Catalogue) error {
	rec, err := s.daily.Find(ctx, key)
	if err != nil {
		return fmt.Errorf("find daily stock: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("%s on %s: %w", key.RouteID, key.Date, model.ErrStockNotFound)
	}
	if err := CheckSale(rec, sale.Items, catalogue); err != nil {
		return err
	}
	stock, err := Deduct(rec, sale.Items, catalogue)
	if err != nil {
		return err
	}

	sale.DriverID = rec.DriverID
	if sale.TruckID == "" {
		sale.TruckID = rec.TruckID
	}
	// Deduct first: a stored sale always has its deduction.
	rec.Stock = stock
	if err := s.daily.Save(ctx, rec); err != nil {
		return fmt.Errorf("deduct daily stock: %w", err)
	}
	if err := s.sales.Create(ctx, sale); err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// List returns a route's sales for a day. Drivers only see their own.
func (s *SaleServiceImpl) List(ctx context.Context, session model.Session, routeID, date string) ([]model.Sale, error) {
	if err := validateRouteDay(routeID, date); err != nil {
		return nil, err
	}
	sales, err := s.sales.List(ctx, routeID, date)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if session.IsAdmin() {
		return sales, nil
	}
	own := make([]model.Sale, 0, len(sales))
	for _, sale := range sales {
		if sale.DriverID == session.UserID {
			own = append(own, sale)
		}
	}
	return own, nil
}

func priceItems(lines []SaleLine, catalogue model.Catalogue) []model.SaleItem {
	items := make([]model.SaleItem, 0, len(lines))
	for _, l := range lines {
		price := catalogue[l.ProductID].PiecePrice()
		if l.UnitPrice.Valid {
			price = l.UnitPrice.Decimal
		}
		items = append(items, model.SaleItem{ProductID: l.ProductID, BoxQty: l.BoxQty, PcsQty: l.PcsQty, UnitPrice: price})
	}
	return items
}

// saleTotal is the sum of pieces times the per-piece price.
func saleTotal(items []model.SaleItem, catalogue model.Catalogue) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		pcs := item.Quantity().Total(catalogue.PcsPerBox(item.ProductID))
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(pcs))))
	}
	return total.Round(2)
}
