package service

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/lock"
	"github.com/guttosm/distribution-service/internal/metrics"
	"github.com/guttosm/distribution-service/internal/repository"
	"github.com/rs/zerolog/log"
)

// AssignRequest sets what a route carries on a day. Lines are target quantities, not
// increments: sending the same request twice changes nothing the second time.
type AssignRequest struct {
	RouteID string
	TruckID string
	Date    string
	Lines   []model.StockLine
	Note    string
}

// AssignResult is the saved record plus the per-line reconciliation.
type AssignResult struct {
	Record    *model.DailyStock `json:"record"`
	Lines     []LinePlan        `json:"lines"`
	Movements []model.Movement  `json:"movements"`
}

// RouteDayRequest addresses one route's stock on a day. DriverID is only honoured for
// admin sessions; drivers always act on their own record.
type RouteDayRequest struct {
	RouteID  string
	TruckID  string
	Date     string
	DriverID string
	Note     string
}

// ReturnResult is the emptied record and the RETURN movements written for it.
type ReturnResult struct {
	Record    *model.DailyStock `json:"record"`
	Movements []model.Movement  `json:"movements"`
}

// AssignmentService hands warehouse stock to routes and takes it back.
type AssignmentService interface {
	Assign(ctx context.Context, session model.Session, req AssignRequest) (*AssignResult, error)
	ClaimRoute(ctx context.Context, session model.Session, req RouteDayRequest) (*model.DailyStock, error)
	ReturnRemaining(ctx context.Context, session model.Session, req RouteDayRequest) (*ReturnResult, error)
	GetDaily(ctx context.Context, session model.Session, req RouteDayRequest) ([]model.DailyStock, error)
}

// AssignmentServiceImpl implements AssignmentService.
type AssignmentServiceImpl struct {
	routes    repository.RouteRepositoryInterface
	daily     repository.DailyStockRepositoryInterface
	warehouse repository.WarehouseRepositoryInterface
	movements repository.MovementRepositoryInterface
	catalogue CatalogueService
	uow       repository.UnitOfWork
	locker    lock.Locker
	clock     func() time.Time
}

// AssignmentDeps groups the collaborators of the assignment service.
type AssignmentDeps struct {
	Routes    repository.RouteRepositoryInterface
	Daily     repository.DailyStockRepositoryInterface
	Warehouse repository.WarehouseRepositoryInterface
	Movements repository.MovementRepositoryInterface
	Catalogue CatalogueService
	UoW       repository.UnitOfWork
	Locker    lock.Locker
}

// NewAssignmentService creates an assignment service. A nil Locker means no-op locking.
func NewAssignmentService(deps AssignmentDeps) *AssignmentServiceImpl {
	locker := deps.Locker
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	return &AssignmentServiceImpl{
		routes:    deps.Routes,
		daily:     deps.Daily,
		warehouse: deps.Warehouse,
		movements: deps.Movements,
		catalogue: deps.Catalogue,
		uow:       deps.UoW,
		locker:    locker,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// Assign sets the unclaimed route stock for (route, truck, date) to the requested lines
// and moves the difference out of or back into the warehouse. Either every line is
// applied or none is.
func (s *AssignmentServiceImpl) Assign(ctx context.Context, session model.Session, req AssignRequest) (*AssignResult, error) {
	start := time.Now()
	if !session.IsAdmin() {
		return nil, model.ErrForbidden
	}
	if err := validateRouteDay(req.RouteID, req.Date); err != nil {
		return nil, err
	}
	if err := validateLines("stock", req.Lines); err != nil {
		return nil, err
	}

	var result *AssignResult
	err := lock.With(ctx, s.locker, lock.RouteDayKey(req.RouteID, req.Date), func() error {
		return s.uow.Do(ctx, func(ctx context.Context) error {
			r, err := s.assign(ctx, req)
			result = r
			return err
		})
	})

	var deltas []int
	if result != nil {
		for _, l := range result.Lines {
			deltas = append(deltas, l.DeltaPcs)
		}
	}
	metrics.RecordAssignment(time.Since(start), statusOf(err), deltas...)

	logEvt := log.Info()
	if err != nil {
		logEvt = log.Warn()
		if !model.IsConflict(err) && !model.IsNotFound(err) && !model.IsValidation(err) {
			logEvt = log.Error()
		}
		logEvt.Err(err).
			Str("route_id", req.RouteID).
			Str("date", req.Date).
			Str("user_id", session.UserID).
			Msg("Stock assignment failed")
		return nil, err
	}
	logEvt.
		Str("route_id", req.RouteID).
		Str("date", req.Date).
		Str("user_id", session.UserID).
		Int("products", len(result.Lines)).
		Ints("deltas", deltas).
		Msg("Stock assigned")
	return result, nil
}

func (s *AssignmentServiceImpl) assign(ctx context.Context, req AssignRequest) (*AssignResult, error) {
	route, err := s.routes.FindByID(ctx, req.RouteID)
	if err != nil {
		return nil, fmt.Errorf("find route: %w", err)
	}
	if route == nil {
		return nil, fmt.Errorf("%s: %w", req.RouteID, model.ErrRouteNotFound)
	}

	records, err := s.daily.ListByRouteDate(ctx, req.RouteID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("list daily stock: %w", err)
	}
	var existing *model.DailyStock
	for i := range records {
		rec := &records[i]
		if rec.Started() {
			return nil, fmt.Errorf("%s on %s held by %s: %w", req.RouteID, req.Date, rec.DriverID, model.ErrRouteStarted)
		}
		if !rec.Claimed() && rec.TruckID == req.TruckID {
			existing = rec
		}
	}

	ids := lineIDs(req.Lines)
	catalogue, err := s.catalogue.Lookup(ctx, ids)
	if err != nil {
		return nil, err
	}
	levels, err := s.warehouse.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("read warehouse stock: %w", err)
	}

	plans, err := PlanAssignment(existing, req.Lines, catalogue, levels)
	if err != nil {
		return nil, err
	}
	warnBelowSold(existing, plans)

	record := existing
	if record == nil {
		record = &model.DailyStock{RouteID: req.RouteID, TruckID: req.TruckID, Date: req.Date}
	}
	record.Stock, record.InitialStock = ApplyPlans(existing, plans)
	if err := s.daily.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save daily stock: %w", err)
	}

	at := s.clock()
	movements := make([]*model.Movement, 0, len(plans))
	for _, p := range plans {
		if p.Warehouse == nil {
			continue
		}
		level := &model.WarehouseStock{
			ProductID: p.ProductID,
			Boxes:     p.Warehouse.BoxQty,
			Pcs:       p.Warehouse.PcsQty,
			Version:   p.warehouseVersion,
		}
		if err := s.warehouse.Update(ctx, level); err != nil {
			return nil, fmt.Errorf("update warehouse stock %s: %w", p.ProductID, err)
		}
		if m := AssignmentMovement(p.ProductID, p.DeltaPcs, p.PcsPerBox, req.RouteID, req.Date, req.Note, at); m != nil {
			movements = append(movements, m)
		}
	}
	if err := s.movements.Append(ctx, movements...); err != nil {
		return nil, fmt.Errorf("append movements: %w", err)
	}
	for _, m := range movements {
		metrics.RecordMovement(string(m.Type))
	}

	return &AssignResult{Record: record, Lines: plans, Movements: derefMovements(movements)}, nil
}

// warnBelowSold flags corrections that push the baseline under what was already sold.
// The correction is still applied and reports clamp returned at zero.
func warnBelowSold(existing *model.DailyStock, plans []LinePlan) {
	if existing == nil {
		return
	}
	for _, p := range plans {
		initial, ok := existing.InitialLine(p.ProductID)
		if !ok {
			continue
		}
		sold := initial.Quantity().Total(p.PcsPerBox) - p.Previous.Total(p.PcsPerBox)
		if sold > 0 && p.Initial.Total(p.PcsPerBox) < sold {
			log.Warn().
				Str("route_id", existing.RouteID).
				Str("date", existing.Date).
				Str("product_id", p.ProductID).
				Int("sold_pcs", sold).
				Int("baseline_pcs", p.Initial.Total(p.PcsPerBox)).
				Msg("Assignment correction drops baseline below sold quantity")
		}
	}
}

// ClaimRoute attaches the driver to the unclaimed route stock. If the driver already
// holds a record for the same key, the unclaimed stock is merged into it.
func (s *AssignmentServiceImpl) ClaimRoute(ctx context.Context, session model.Session, req RouteDayRequest) (*model.DailyStock, error) {
	if !session.IsDriver() || session.UserID == "" {
		return nil, model.ErrForbidden
	}
	if err := validateRouteDay(req.RouteID, req.Date); err != nil {
		return nil, err
	}

	var claimed *model.DailyStock
	err := lock.With(ctx, s.locker, lock.RouteDayKey(req.RouteID, req.Date), func() error {
		return s.uow.Do(ctx, func(ctx context.Context) error {
			rec, err := s.claim(ctx, session.UserID, req)
			claimed = rec
			return err
		})
	})
	if err != nil {
		log.Warn().Err(err).
			Str("route_id", req.RouteID).
			Str("date", req.Date).
			Str("driver_id", session.UserID).
			Msg("Route claim failed")
		return nil, err
	}
	log.Info().
		Str("route_id", req.RouteID).
		Str("date", req.Date).
		Str("driver_id", session.UserID).
		Msg("Route claimed")
	return claimed, nil
}

func (s *AssignmentServiceImpl) claim(ctx context.Context, driverID string, req RouteDayRequest) (*model.DailyStock, error) {
	records, err := s.daily.ListByRouteDate(ctx, req.RouteID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("list daily stock: %w", err)
	}
	var unclaimed, own *model.DailyStock
	for i := range records {
		rec := &records[i]
		if rec.TruckID != req.TruckID {
			continue
		}
		switch {
		case !rec.Claimed():
			unclaimed = rec
		case rec.DriverID == driverID:
			own = rec
		case rec.Started():
			return nil, fmt.Errorf("%s on %s held by %s: %w", req.RouteID, req.Date, rec.DriverID, model.ErrRouteClaimed)
		}
	}

	switch {
	case unclaimed == nil && own != nil:
		return own, nil
	case unclaimed == nil:
		return nil, fmt.Errorf("%s on %s: %w", req.RouteID, req.Date, model.ErrStockNotFound)
	case own == nil:
		unclaimed.DriverID = driverID
		if err := s.daily.Save(ctx, unclaimed); err != nil {
			return nil, fmt.Errorf("claim daily stock: %w", err)
		}
		return unclaimed, nil
	}

	catalogue, err := s.catalogue.All(ctx)
	if err != nil {
		return nil, err
	}
	own.Stock = mergeLines(own.Stock, unclaimed.Stock, catalogue)
	own.InitialStock = mergeLines(baselineLines(own), baselineLines(unclaimed), catalogue)
	// Merged record first: assigned stock is on at least one record at every step.
	if err := s.daily.Save(ctx, own); err != nil {
		return nil, fmt.Errorf("merge daily stock: %w", err)
	}
	if err := s.daily.Delete(ctx, unclaimed); err != nil {
		return nil, fmt.Errorf("remove merged daily stock: %w", err)
	}
	return own, nil
}

// baselineLines returns initial_stock with the remaining line standing in for products
// a legacy record has no baseline for.
func baselineLines(rec *model.DailyStock) []model.StockLine {
	lines := model.CloneLines(rec.InitialStock)
	for _, l := range rec.Stock {
		if _, ok := rec.InitialLine(l.ProductID); !ok {
			lines = append(lines, l)
		}
	}
	return lines
}

// mergeLines adds add into base per product, in canonical form.
func mergeLines(base, add []model.StockLine, catalogue model.Catalogue) []model.StockLine {
	out := model.CloneLines(base)
	if out == nil {
		out = []model.StockLine{}
	}
	for _, l := range add {
		per := catalogue.PcsPerBox(l.ProductID)
		total := l.Quantity().Total(per)
		for _, b := range out {
			if b.ProductID == l.ProductID {
				total += b.Quantity().Total(per)
				break
			}
		}
		out = model.SetLine(out, model.NewStockLine(l.ProductID, model.ToCanonical(total, per)))
	}
	return out
}

// ReturnRemaining sends everything a record still carries back to the warehouse, one
// RETURN movement per product. initial_stock is kept so reports see the handout.
func (s *AssignmentServiceImpl) ReturnRemaining(ctx context.Context, session model.Session, req RouteDayRequest) (*ReturnResult, error) {
	driverID, err := actingDriver(session, req.DriverID)
	if err != nil {
		return nil, err
	}
	if err := validateRouteDay(req.RouteID, req.Date); err != nil {
		return nil, err
	}
	key := model.StockKey{RouteID: req.RouteID, Date: req.Date, TruckID: req.TruckID, DriverID: driverID}

	var result *ReturnResult
	err = lock.With(ctx, s.locker, lock.RouteDayKey(req.RouteID, req.Date), func() error {
		return s.uow.Do(ctx, func(ctx context.Context) error {
			r, err := s.returnRemaining(ctx, key, req.Note)
			result = r
			return err
		})
	})
	if err != nil {
		log.Warn().Err(err).
			Str("route_id", req.RouteID).
			Str("date", req.Date).
			Str("driver_id", driverID).
			Msg("Stock return failed")
		return nil, err
	}
	log.Info().
		Str("route_id", req.RouteID).
		Str("date", req.Date).
		Str("driver_id", driverID).
		Int("movements", len(result.Movements)).
		Msg("Remaining stock returned")
	return result, nil
}

func (s *AssignmentServiceImpl) returnRemaining(ctx context.Context, key model.StockKey, note string) (*ReturnResult, error) {
	rec, err := s.daily.Find(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("find daily stock: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%s on %s: %w", key.RouteID, key.Date, model.ErrStockNotFound)
	}

	ids := lineIDs(rec.Stock)
	catalogue, err := s.catalogue.All(ctx)
	if err != nil {
		return nil, err
	}
	levels, err := s.warehouse.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("read warehouse stock: %w", err)
	}

	at := s.clock()
	movements := make([]*model.Movement, 0, len(rec.Stock))
	zeroed := make([]model.StockLine, 0, len(rec.Stock))
	for _, line := range rec.Stock {
		zeroed = append(zeroed, model.StockLine{ProductID: line.ProductID})
		per := catalogue.PcsPerBox(line.ProductID)
		back := line.Quantity().Total(per)
		if back <= 0 {
			continue
		}
		level, ok := levels[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("%s: %w", line.ProductID, model.ErrWarehouseStockMissing)
		}
		next, err := Reconcile(level, -back, per)
		if err != nil {
			return nil, err
		}
		if err := s.warehouse.Update(ctx, &next); err != nil {
			return nil, fmt.Errorf("update warehouse stock %s: %w", line.ProductID, err)
		}
		movements = append(movements, AssignmentMovement(line.ProductID, -back, per, key.RouteID, key.Date, note, at))
	}

	rec.Stock = zeroed
	if err := s.daily.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save daily stock: %w", err)
	}
	if err := s.movements.Append(ctx, movements...); err != nil {
		return nil, fmt.Errorf("append movements: %w", err)
	}
	for _, m := range movements {
		metrics.RecordMovement(string(m.Type))
	}
	return &ReturnResult{Record: rec, Movements: derefMovements(movements)}, nil
}

// GetDaily lists the route's records for a day. Drivers only see unclaimed stock and
// their own record.
func (s *AssignmentServiceImpl) GetDaily(ctx context.Context, session model.Session, req RouteDayRequest) ([]model.DailyStock, error) {
	if err := validateRouteDay(req.RouteID, req.Date); err != nil {
		return nil, err
	}
	records, err := s.daily.ListByRouteDate(ctx, req.RouteID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("list daily stock: %w", err)
	}
	out := make([]model.DailyStock, 0, len(records))
	for _, rec := range records {
		if req.TruckID != "" && rec.TruckID != req.TruckID {
			continue
		}
		if session.IsDriver() && rec.Claimed() && rec.DriverID != session.UserID {
			continue
		}
		if session.IsAdmin() && req.DriverID != "" && rec.DriverID != req.DriverID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// actingDriver resolves whose record an operation targets.
func actingDriver(session model.Session, requested string) (string, error) {
	switch {
	case session.IsDriver():
		if session.UserID == "" {
			return "", model.ErrForbidden
		}
		if requested != "" && requested != session.UserID {
			return "", model.ErrForbidden
		}
		return session.UserID, nil
	case session.IsAdmin():
		return requested, nil
	default:
		return "", model.ErrForbidden
	}
}

func derefMovements(ms []*model.Movement) []model.Movement {
	out := make([]model.Movement, 0, len(ms))
	for _, m := range ms {
		out = append(out, *m)
	}
	return out
}
