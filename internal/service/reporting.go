package service

import (
	"sort"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

// ReportInput is everything the stock report is computed from.
type ReportInput struct {
	Records   []model.DailyStock
	Sales     []model.Sale
	Catalogue model.Catalogue
}

type rowKey struct {
	key       model.ReportKey
	productID string
}

type routeDay struct {
	date    string
	routeID string
}

type soldTally struct {
	pcs     int
	revenue decimal.Decimal
}

// BuildReport aggregates assigned, sold and returned pieces per date/route/driver/product.
// It reads its inputs without modifying them, so the same input always yields the same
// report.
//
// assigned comes from initial_stock; records without a baseline line fall back to
// remaining + sold for the same route and date. returned is max(0, assigned - sold).
func BuildReport(q model.ReportQuery, in ReportInput) model.Report {
	sold := make(map[rowKey]soldTally)
	soldPerRouteDay := make(map[routeDay]map[string]int)

	for _, sale := range in.Sales {
		if !matchesQuery(q, sale.Date, sale.RouteID, sale.DriverID) {
			continue
		}
		key := model.ReportKey{Date: sale.Date, RouteID: sale.RouteID, DriverID: sale.DriverID}
		rd := routeDay{date: sale.Date, routeID: sale.RouteID}
		for _, item := range sale.Items {
			if item.ProductID == "" {
				continue
			}
			pcs := item.Quantity().Total(in.Catalogue.PcsPerBox(item.ProductID))
			rk := rowKey{key: key, productID: item.ProductID}
			t := sold[rk]
			t.pcs += pcs
			t.revenue = t.revenue.Add(decimal.NewFromInt(int64(pcs)).Mul(item.UnitPrice))
			sold[rk] = t

			if soldPerRouteDay[rd] == nil {
				soldPerRouteDay[rd] = make(map[string]int)
			}
			soldPerRouteDay[rd][item.ProductID] += pcs
		}
	}

	assigned := make(map[rowKey]int)
	var order []rowKey
	seen := make(map[rowKey]struct{})
	track := func(rk rowKey) {
		if _, ok := seen[rk]; !ok {
			seen[rk] = struct{}{}
			order = append(order, rk)
		}
	}

	for i := range in.Records {
		rec := &in.Records[i]
		if !matchesQuery(q, rec.Date, rec.RouteID, rec.DriverID) {
			continue
		}
		key := model.ReportKey{Date: rec.Date, RouteID: rec.RouteID, DriverID: rec.DriverID}
		for _, id := range recordProducts(rec) {
			per := in.Catalogue.PcsPerBox(id)
			rk := rowKey{key: key, productID: id}
			track(rk)
			if initial, ok := rec.InitialLine(id); ok {
				assigned[rk] += initial.Quantity().Total(per)
				continue
			}
			remaining, _ := rec.StockLine(id)
			assigned[rk] += remaining.Quantity().Total(per) +
				soldPerRouteDay[routeDay{date: rec.Date, routeID: rec.RouteID}][id]
		}
	}
	// sales with no matching stock record still carry revenue
	for rk := range sold {
		track(rk)
	}

	sort.Slice(order, func(i, j int) bool { return lessRowKey(order[i], order[j]) })

	rows := make([]model.ReportRow, 0, len(order))
	totals := make([]model.ReportTotals, 0)
	totalIdx := make(map[model.ReportKey]int)
	for _, rk := range order {
		t := sold[rk]
		a := assigned[rk]
		returned := a - t.pcs
		if returned < 0 {
			returned = 0
		}
		row := model.ReportRow{
			Date:        rk.key.Date,
			RouteID:     rk.key.RouteID,
			DriverID:    rk.key.DriverID,
			ProductID:   rk.productID,
			ProductName: in.Catalogue.Name(rk.productID),
			AssignedPcs: a,
			SoldPcs:     t.pcs,
			ReturnedPcs: returned,
			Revenue:     t.revenue,
		}
		rows = append(rows, row)

		idx, ok := totalIdx[rk.key]
		if !ok {
			idx = len(totals)
			totalIdx[rk.key] = idx
			totals = append(totals, model.ReportTotals{
				Key:      rk.key.String(),
				Date:     rk.key.Date,
				RouteID:  rk.key.RouteID,
				DriverID: rk.key.DriverID,
				Revenue:  decimal.Zero,
			})
		}
		tot := &totals[idx]
		tot.AssignedPcs += row.AssignedPcs
		tot.SoldPcs += row.SoldPcs
		tot.ReturnedPcs += row.ReturnedPcs
		tot.Revenue = tot.Revenue.Add(row.Revenue)
	}

	return model.Report{From: q.From, To: q.To, Rows: rows, Totals: totals}
}

// recordProducts lists every product on a record, baseline lines first.
func recordProducts(rec *model.DailyStock) []string {
	ids := make([]string, 0, len(rec.InitialStock)+len(rec.Stock))
	seen := make(map[string]struct{})
	for _, lines := range [][]model.StockLine{rec.InitialStock, rec.Stock} {
		for _, l := range lines {
			if l.ProductID == "" {
				continue
			}
			if _, ok := seen[l.ProductID]; ok {
				continue
			}
			seen[l.ProductID] = struct{}{}
			ids = append(ids, l.ProductID)
		}
	}
	return ids
}

func matchesQuery(q model.ReportQuery, date, routeID, driverID string) bool {
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

func lessRowKey(a, b rowKey) bool {
	if a.key.Date != b.key.Date {
		return a.key.Date < b.key.Date
	}
	if a.key.RouteID != b.key.RouteID {
		return a.key.RouteID < b.key.RouteID
	}
	if a.key.DriverID != b.key.DriverID {
		return a.key.DriverID < b.key.DriverID
	}
	return a.productID < b.productID
}
