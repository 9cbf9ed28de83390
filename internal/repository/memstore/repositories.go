package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/guttosm/distribution-service/internal/domain/model"
)

// Products returns the product repository view of the store.
func (s *Store) Products() *Products { return &Products{s: s} }

// Routes returns the route repository view of the store.
func (s *Store) Routes() *Routes { return &Routes{s: s} }

// DailyStock returns the daily stock repository view of the store.
func (s *Store) DailyStock() *DailyStock { return &DailyStock{s: s} }

// Warehouse returns the warehouse repository view of the store.
func (s *Store) Warehouse() *Warehouse { return &Warehouse{s: s} }

// Movements returns the movement repository view of the store.
func (s *Store) Movements() *Movements { return &Movements{s: s} }

// Sales returns the sale repository view of the store.
func (s *Store) Sales() *Sales { return &Sales{s: s} }

// LogsRepo returns the logs repository view of the store.
func (s *Store) LogsRepo() *Logs { return &Logs{s: s} }

// Products implements the product repository.
type Products struct{ s *Store }

func (r *Products) Create(ctx context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpProductCreate); err != nil {
		return err
	}
	if _, ok := r.s.data.products[p.ID]; ok {
		return fmt.Errorf("%s: %w", p.ID, model.ErrProductExists)
	}
	p.CreatedAt, p.UpdatedAt = now(), now()
	r.s.data.products[p.ID] = *p
	id := p.ID
	r.s.track(ctx, func(st *state) { delete(st.products, id) })
	return nil
}

func (r *Products) Update(ctx context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.data.products[p.ID]
	if !ok {
		return fmt.Errorf("%s: %w", p.ID, model.ErrProductNotFound)
	}
	p.CreatedAt, p.UpdatedAt = old.CreatedAt, now()
	r.s.data.products[p.ID] = *p
	r.s.track(ctx, func(st *state) { st.products[old.ID] = old })
	return nil
}

func (r *Products) FindByID(_ context.Context, id string) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *Products) FindByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.data.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Products) List(_ context.Context) ([]model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Product, 0, len(r.s.data.products))
	for _, p := range r.s.data.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Routes implements the route repository.
type Routes struct{ s *Store }

func (r *Routes) Create(ctx context.Context, route *model.Route) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.routes[route.ID]; ok {
		return fmt.Errorf("%s: %w", route.ID, model.ErrRouteExists)
	}
	route.CreatedAt = now()
	r.s.data.routes[route.ID] = *route
	id := route.ID
	r.s.track(ctx, func(st *state) { delete(st.routes, id) })
	return nil
}

func (r *Routes) FindByID(_ context.Context, id string) (*model.Route, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	route, ok := r.s.data.routes[id]
	if !ok {
		return nil, nil
	}
	return &route, nil
}

func (r *Routes) List(_ context.Context) ([]model.Route, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Route, 0, len(r.s.data.routes))
	for _, route := range r.s.data.routes {
		out = append(out, route)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DailyStock implements the daily stock repository with the same version rules as the
// MongoDB one.
type DailyStock struct{ s *Store }

func (r *DailyStock) Find(_ context.Context, key model.StockKey) (*model.DailyStock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.data.daily {
		if rec.Key() == key {
			c := cloneRecord(rec)
			return &c, nil
		}
	}
	return nil, nil
}

func (r *DailyStock) ListByRouteDate(_ context.Context, routeID, date string) ([]model.DailyStock, error) {
	return r.filter(func(rec model.DailyStock) bool {
		return rec.RouteID == routeID && rec.Date == date
	}), nil
}

func (r *DailyStock) Query(_ context.Context, q model.ReportQuery) ([]model.DailyStock, error) {
	return r.filter(func(rec model.DailyStock) bool {
		return matches(q, rec.Date, rec.RouteID, rec.DriverID)
	}), nil
}

func (r *DailyStock) filter(keep func(model.DailyStock) bool) []model.DailyStock {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.DailyStock, 0)
	for _, rec := range r.s.data.daily {
		if keep(rec) {
			out = append(out, cloneRecord(rec))
		}
	}
	sortRecords(out)
	return out
}

func (r *DailyStock) Save(ctx context.Context, record *model.DailyStock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpDailyStockSave); err != nil {
		return err
	}
	for id, rec := range r.s.data.daily {
		if id != record.ID && rec.Key() == record.Key() {
			return model.ErrConcurrentUpdate
		}
	}
	ts := now()
	if record.ID == "" {
		record.ID = uuid.NewString()
		record.Version = 1
		record.CreatedAt, record.UpdatedAt = ts, ts
		r.s.data.daily[record.ID] = cloneRecord(*record)
		id := record.ID
		r.s.track(ctx, func(st *state) { delete(st.daily, id) })
		return nil
	}
	stored, ok := r.s.data.daily[record.ID]
	if !ok || stored.Version != record.Version {
		return model.ErrConcurrentUpdate
	}
	record.Version++
	record.CreatedAt, record.UpdatedAt = stored.CreatedAt, ts
	r.s.data.daily[record.ID] = cloneRecord(*record)
	r.s.track(ctx, func(st *state) { st.daily[stored.ID] = stored })
	return nil
}

func (r *DailyStock) Delete(ctx context.Context, record *model.DailyStock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpDailyStockDel); err != nil {
		return err
	}
	stored, ok := r.s.data.daily[record.ID]
	if !ok || stored.Version != record.Version {
		return model.ErrConcurrentUpdate
	}
	delete(r.s.data.daily, record.ID)
	r.s.track(ctx, func(st *state) { st.daily[stored.ID] = stored })
	return nil
}

// Warehouse implements the warehouse repository.
type Warehouse struct{ s *Store }

func (r *Warehouse) Get(_ context.Context, productID string) (*model.WarehouseStock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	level, ok := r.s.data.warehouse[productID]
	if !ok {
		return nil, nil
	}
	return &level, nil
}

func (r *Warehouse) GetMany(_ context.Context, productIDs []string) (map[string]model.WarehouseStock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]model.WarehouseStock, len(productIDs))
	for _, id := range productIDs {
		if level, ok := r.s.data.warehouse[id]; ok {
			out[id] = level
		}
	}
	return out, nil
}

func (r *Warehouse) List(_ context.Context) ([]model.WarehouseStock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.WarehouseStock, 0, len(r.s.data.warehouse))
	for _, level := range r.s.data.warehouse {
		out = append(out, level)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (r *Warehouse) Create(ctx context.Context, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.warehouse[productID]; ok {
		return nil
	}
	r.s.data.warehouse[productID] = model.WarehouseStock{ProductID: productID, Version: 1, UpdatedAt: now()}
	r.s.track(ctx, func(st *state) { delete(st.warehouse, productID) })
	return nil
}

func (r *Warehouse) Update(ctx context.Context, level *model.WarehouseStock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpWarehouseUpdate); err != nil {
		return err
	}
	if level.Boxes < 0 || level.Pcs < 0 {
		return fmt.Errorf("warehouse stock for %s would go negative", level.ProductID)
	}
	stored, ok := r.s.data.warehouse[level.ProductID]
	if !ok || stored.Version != level.Version {
		return model.ErrConcurrentUpdate
	}
	level.Version++
	level.UpdatedAt = now()
	r.s.data.warehouse[level.ProductID] = *level
	r.s.track(ctx, func(st *state) { st.warehouse[stored.ProductID] = stored })
	return nil
}

// Movements implements the append-only ledger.
type Movements struct{ s *Store }

func (r *Movements) Append(ctx context.Context, movements ...*model.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if len(movements) == 0 {
		return nil
	}
	if err := r.s.failure(OpMovementsAppend); err != nil {
		return err
	}
	ids := make(map[string]struct{}, len(movements))
	for _, m := range movements {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now()
		}
		r.s.data.movements = append(r.s.data.movements, *m)
		ids[m.ID] = struct{}{}
	}
	r.s.track(ctx, func(st *state) {
		kept := st.movements[:0]
		for _, m := range st.movements {
			if _, ok := ids[m.ID]; !ok {
				kept = append(kept, m)
			}
		}
		st.movements = kept
	})
	return nil
}

func (r *Movements) ListByProduct(_ context.Context, productID string, limit int) ([]model.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Movement, 0)
	for i := len(r.s.data.movements) - 1; i >= 0; i-- {
		m := r.s.data.movements[i]
		if productID != "" && m.ProductID != productID {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Sales implements the sale repository.
type Sales struct{ s *Store }

func (r *Sales) Create(ctx context.Context, sale *model.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpSaleCreate); err != nil {
		return err
	}
	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = now()
	}
	stored := *sale
	stored.Items = append([]model.SaleItem(nil), sale.Items...)
	r.s.data.sales = append(r.s.data.sales, stored)
	r.s.track(ctx, func(st *state) {
		kept := st.sales[:0]
		for _, existing := range st.sales {
			if existing.ID != stored.ID {
				kept = append(kept, existing)
			}
		}
		st.sales = kept
	})
	return nil
}

func (r *Sales) List(_ context.Context, routeID, date string) ([]model.Sale, error) {
	return r.filter(func(s model.Sale) bool { return s.RouteID == routeID && s.Date == date }), nil
}

func (r *Sales) Query(_ context.Context, q model.ReportQuery) ([]model.Sale, error) {
	return r.filter(func(s model.Sale) bool { return matches(q, s.Date, s.RouteID, s.DriverID) }), nil
}

func (r *Sales) filter(keep func(model.Sale) bool) []model.Sale {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Sale, 0)
	for _, sale := range r.s.data.sales {
		if keep(sale) {
			out = append(out, sale)
		}
	}
	return out
}

// Logs implements the logs repository.
type Logs struct{ s *Store }

func (r *Logs) Create(ctx context.Context, entry *model.LogEntry) error {
	return r.CreateMany(ctx, []*model.LogEntry{entry})
}

func (r *Logs) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure(OpLogsCreate); err != nil {
		return err
	}
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		r.s.data.logs = append(r.s.data.logs, e)
	}
	added := append([]*model.LogEntry(nil), entries...)
	r.s.track(ctx, func(st *state) {
		kept := st.logs[:0]
		for _, e := range st.logs {
			if !containsEntry(added, e) {
				kept = append(kept, e)
			}
		}
		st.logs = kept
	})
	return nil
}

func (r *Logs) Query(_ context.Context, opts model.LogQueryOptions) ([]*model.LogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.LogEntry, 0)
	for i := len(r.s.data.logs) - 1; i >= 0; i-- {
		e := r.s.data.logs[i]
		if keepLog(opts, e) {
			out = append(out, e)
		}
	}
	if opts.Skip > 0 {
		if opts.Skip >= len(out) {
			return []*model.LogEntry{}, nil
		}
		out = out[opts.Skip:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (r *Logs) Count(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	opts.Limit, opts.Skip = 0, 0
	out, err := r.Query(ctx, opts)
	return int64(len(out)), err
}

func containsEntry(entries []*model.LogEntry, e *model.LogEntry) bool {
	for _, candidate := range entries {
		if candidate == e {
			return true
		}
	}
	return false
}

func keepLog(opts model.LogQueryOptions, e *model.LogEntry) bool {
	if opts.RequestID != "" && e.RequestID != opts.RequestID {
		return false
	}
	if opts.Level != "" && e.Level != opts.Level {
		return false
	}
	if opts.ActionType != "" && e.ActionType != opts.ActionType {
		return false
	}
	if opts.UserID != "" && e.UserID != opts.UserID {
		return false
	}
	if opts.StartTime != nil && e.Timestamp.Before(*opts.StartTime) {
		return false
	}
	if opts.EndTime != nil && e.Timestamp.After(*opts.EndTime) {
		return false
	}
	return true
}
