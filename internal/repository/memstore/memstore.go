// Package memstore is an in-memory implementation of every repository interface. It
// backs service tests and local runs with MongoDB disabled. Its unit of work keeps an undo
// log of the writes made through its context and replays it backwards when the function
// fails, which mirrors a rolled back MongoDB transaction. Writes made outside the unit of
// work are left alone.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/distribution-service/internal/domain/model"
)

// Operation names accepted by FailOn.
const (
	OpProductCreate   = "products.create"
	OpDailyStockSave  = "daily_stock.save"
	OpDailyStockDel   = "daily_stock.delete"
	OpWarehouseUpdate = "warehouse.update"
	OpMovementsAppend = "movements.append"
	OpSaleCreate      = "sales.create"
	OpLogsCreate      = "logs.create"
)

type state struct {
	products  map[string]model.Product
	routes    map[string]model.Route
	daily     map[string]model.DailyStock
	warehouse map[string]model.WarehouseStock
	movements []model.Movement
	sales     []model.Sale
	logs      []*model.LogEntry
}

func newState() state {
	return state{
		products:  make(map[string]model.Product),
		routes:    make(map[string]model.Route),
		daily:     make(map[string]model.DailyStock),
		warehouse: make(map[string]model.WarehouseStock),
	}
}

// undoLog collects the inverse of every write made inside one unit of work.
type undoLog struct {
	steps []func(*state)
}

type undoKey struct{}

// track registers undo for a write made with ctx. It must be called with s.mu held and
// is a no-op outside a transactional unit of work.
func (s *Store) track(ctx context.Context, undo func(*state)) {
	if u, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		u.steps = append(u.steps, undo)
	}
}

// Store holds every collection in memory.
type Store struct {
	mu            sync.Mutex
	txMu          sync.Mutex
	data          state
	failures      map[string]error
	transactional bool
	commits       int
	rollbacks     int
}

// New creates an empty transactional store.
func New() *Store {
	return &Store{data: newState(), failures: make(map[string]error), transactional: true}
}

// NonTransactional makes Do run without rollback, like a deployment without replica set.
func (s *Store) NonTransactional() *Store {
	s.transactional = false
	return s
}

// FailOn makes the named operation return err until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) failure(op string) error {
	if err, ok := s.failures[op]; ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Do runs fn; in transactional mode any error undoes the writes fn made, newest first.
// Units of work are serialized.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if !s.transactional {
		err := fn(ctx)
		if err == nil {
			s.mu.Lock()
			s.commits++
			s.mu.Unlock()
		}
		return err
	}

	undo := &undoLog{}
	if err := fn(context.WithValue(ctx, undoKey{}, undo)); err != nil {
		s.mu.Lock()
		for i := len(undo.steps) - 1; i >= 0; i-- {
			undo.steps[i](&s.data)
		}
		s.rollbacks++
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.commits++
	s.mu.Unlock()
	return nil
}

// Commits returns how many units of work succeeded.
func (s *Store) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// Rollbacks returns how many units of work were rolled back.
func (s *Store) Rollbacks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rollbacks
}

// Seed helpers write directly, bypassing failure injection.

// SeedProduct stores p and a warehouse row holding level.
func (s *Store) SeedProduct(p model.Product, level model.Quantity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.products[p.ID] = p
	s.data.warehouse[p.ID] = model.WarehouseStock{ProductID: p.ID, Boxes: level.BoxQty, Pcs: level.PcsQty, Version: 1}
}

// SeedRoute stores a route.
func (s *Store) SeedRoute(r model.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.routes[r.ID] = r
}

// SeedDailyStock stores a record as-is, giving it an id when missing.
func (s *Store) SeedDailyStock(rec model.DailyStock) model.DailyStock {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	s.data.daily[rec.ID] = rec
	return rec
}

// SeedSale stores a sale as-is.
func (s *Store) SeedSale(sale model.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.sales = append(s.data.sales, sale)
}

// Level returns the warehouse row for productID.
func (s *Store) Level(productID string) model.WarehouseStock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.warehouse[productID]
}

// AllMovements returns the ledger in insertion order.
func (s *Store) AllMovements() []model.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Movement(nil), s.data.movements...)
}

// AllSales returns every stored sale.
func (s *Store) AllSales() []model.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Sale(nil), s.data.sales...)
}

// AllDailyStock returns every record sorted by route, date and driver.
func (s *Store) AllDailyStock() []model.DailyStock {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.DailyStock, 0, len(s.data.daily))
	for _, rec := range s.data.daily {
		out = append(out, cloneRecord(rec))
	}
	sortRecords(out)
	return out
}

// Logs returns every stored log entry.
func (s *Store) Logs() []*model.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.LogEntry(nil), s.data.logs...)
}

func cloneRecord(rec model.DailyStock) model.DailyStock {
	rec.Stock = model.CloneLines(rec.Stock)
	rec.InitialStock = model.CloneLines(rec.InitialStock)
	return rec
}

func sortRecords(records []model.DailyStock) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.RouteID != b.RouteID {
			return a.RouteID < b.RouteID
		}
		return a.DriverID < b.DriverID
	})
}

func matches(q model.ReportQuery, date, routeID, driverID string) bool {
	if q.From != "" && date < q.From {
		return false
	}
	if q.To != "" && date > q.To {
		return false
	}
	if q.RouteID != "" && routeID != q.RouteID {
		return false
	}
	if q.DriverID != "" && driverID != q.DriverID {
		return false
	}
	return true
}

func now() time.Time {
	return time.Now().UTC()
}
