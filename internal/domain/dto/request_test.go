package dto

import (
	"testing"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignStockRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   AssignStockRequest
		wantField string
	}{
		{
			name: "valid request",
			request: AssignStockRequest{RouteID: "north-1", Date: "2026-10-14", Lines: []StockLineRequest{
				{ProductID: "cola-330", BoxQty: 5},
			}},
		},
		{
			name:      "missing route",
			request:   AssignStockRequest{Date: "2026-10-14", Lines: []StockLineRequest{{ProductID: "cola-330"}}},
			wantField: "route_id",
		},
		{
			name:      "malformed date",
			request:   AssignStockRequest{RouteID: "north-1", Date: "14/10/2026", Lines: []StockLineRequest{{ProductID: "cola-330"}}},
			wantField: "date",
		},
		{
			name:      "no lines",
			request:   AssignStockRequest{RouteID: "north-1", Date: "2026-10-14"},
			wantField: "stock",
		},
		{
			name: "negative boxes",
			request: AssignStockRequest{RouteID: "north-1", Date: "2026-10-14", Lines: []StockLineRequest{
				{ProductID: "cola-330", BoxQty: -1},
			}},
			wantField: "stock[0].boxQty",
		},
		{
			name: "negative pieces",
			request: AssignStockRequest{RouteID: "north-1", Date: "2026-10-14", Lines: []StockLineRequest{
				{ProductID: "cola-330", BoxQty: 1},
				{ProductID: "water-500", PcsQty: -3},
			}},
			wantField: "stock[1].pcsQty",
		},
		{
			name: "boxes beyond the line limit",
			request: AssignStockRequest{RouteID: "north-1", Date: "2026-10-14", Lines: []StockLineRequest{
				{ProductID: "cola-330", BoxQty: 1 << 59},
			}},
			wantField: "stock[0].boxQty",
		},
		{
			name: "duplicate product",
			request: AssignStockRequest{RouteID: "north-1", Date: "2026-10-14", Lines: []StockLineRequest{
				{ProductID: "cola-330", BoxQty: 1},
				{ProductID: "cola-330", BoxQty: 2},
			}},
			wantField: "stock[1].productId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestAssignStockRequest_StockLines(t *testing.T) {
	req := AssignStockRequest{Lines: []StockLineRequest{
		{ProductID: "cola-330", BoxQty: 5, PcsQty: 2},
		{ProductID: "water-500", PcsQty: 7},
	}}

	lines := req.StockLines()

	assert.Equal(t, []model.StockLine{
		{ProductID: "cola-330", BoxQty: 5, PcsQty: 2},
		{ProductID: "water-500", PcsQty: 7},
	}, lines)
}

func TestRecordSaleRequest_Validate(t *testing.T) {
	valid := func() RecordSaleRequest {
		return RecordSaleRequest{
			RouteID:  "north-1",
			Date:     "2026-10-14",
			ShopName: "Corner Store",
			Items:    []SaleItemRequest{{ProductID: "cola-330", PcsQty: 30}},
		}
	}

	t.Run("valid", func(t *testing.T) {
		req := valid()
		assert.NoError(t, req.Validate())
	})

	t.Run("missing shop", func(t *testing.T) {
		req := valid()
		req.ShopName = ""
		err := req.Validate()
		require.True(t, model.IsValidation(err))
		assert.Contains(t, err.Error(), "shop_name")
	})

	t.Run("empty line", func(t *testing.T) {
		req := valid()
		req.Items[0].PcsQty = 0
		err := req.Validate()
		require.True(t, model.IsValidation(err))
		assert.Contains(t, err.Error(), "products_sold[0]")
	})

	t.Run("negative price", func(t *testing.T) {
		req := valid()
		req.Items[0].UnitPrice = decimal.NewNullDecimal(decimal.NewFromInt(-1))
		err := req.Validate()
		require.True(t, model.IsValidation(err))
		assert.Contains(t, err.Error(), "unitPrice")
	})
}

func TestWarehouseRequests_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request interface{ Validate() error }
		wantErr bool
	}{
		{"receive valid", &ReceiveStockRequest{ProductID: "cola-330", BoxQty: 10}, false},
		{"receive empty", &ReceiveStockRequest{ProductID: "cola-330"}, true},
		{"receive negative", &ReceiveStockRequest{ProductID: "cola-330", PcsQty: -1}, true},
		{"receive beyond the line limit", &ReceiveStockRequest{ProductID: "cola-330", BoxQty: 1 << 59}, true},
		{"adjust beyond the line limit", &AdjustStockRequest{ProductID: "cola-330", BoxQty: -(1 << 59), Note: "typo"}, true},
		{"adjust negative allowed", &AdjustStockRequest{ProductID: "cola-330", BoxQty: -1, Note: "damaged"}, false},
		{"adjust needs note", &AdjustStockRequest{ProductID: "cola-330", BoxQty: -1}, true},
		{"adjust zero", &AdjustStockRequest{ProductID: "cola-330", Note: "noop"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.True(t, model.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProductRequest_Validate(t *testing.T) {
	t.Run("valid without piece price", func(t *testing.T) {
		req := ProductRequest{Name: "Cola 330ml", BoxPrice: decimal.RequireFromString("12.00")}
		assert.NoError(t, req.Validate())
	})

	t.Run("negative box price", func(t *testing.T) {
		req := ProductRequest{Name: "Cola 330ml", BoxPrice: decimal.NewFromInt(-1)}
		assert.True(t, model.IsValidation(req.Validate()))
	})

	t.Run("missing name", func(t *testing.T) {
		req := ProductRequest{BoxPrice: decimal.NewFromInt(1)}
		assert.True(t, model.IsValidation(req.Validate()))
	})

	t.Run("converts to product", func(t *testing.T) {
		req := ProductRequest{ID: "cola-330", Name: "Cola", PcsPerBox: 12, BoxPrice: decimal.NewFromInt(6)}
		p := req.Product()
		assert.Equal(t, "cola-330", p.ID)
		assert.Equal(t, 12, p.ResolvePcsPerBox())
	})
}

func TestReportRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request ReportRequest
		wantErr bool
	}{
		{"single day", ReportRequest{From: "2026-10-14", To: "2026-10-14"}, false},
		{"range", ReportRequest{From: "2026-10-01", To: "2026-10-31", RouteID: "north-1"}, false},
		{"reversed", ReportRequest{From: "2026-10-31", To: "2026-10-01"}, true},
		{"missing to", ReportRequest{From: "2026-10-01"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestRouteDayQuery_Validate(t *testing.T) {
	tests := []struct {
		name      string
		query     RouteDayQuery
		wantField string
	}{
		{"complete", RouteDayQuery{RouteID: "north-1", Date: "2026-10-14"}, ""},
		{"missing route", RouteDayQuery{Date: "2026-10-14"}, "route_id"},
		{"missing date", RouteDayQuery{RouteID: "north-1"}, "date"},
		{"bad date", RouteDayQuery{RouteID: "north-1", Date: "14/10/2026"}, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *model.ValidationError
			if assert.ErrorAs(t, err, &verr) {
				assert.Equal(t, tt.wantField, verr.Field)
			}
		})
	}
}

func TestMovementsQuery_Validate(t *testing.T) {
	assert.NoError(t, (&MovementsQuery{Limit: 50}).Validate())
	assert.Error(t, (&MovementsQuery{Limit: 5000}).Validate())
	assert.Error(t, (&MovementsQuery{Limit: -1}).Validate())
}

func TestRouteRequest_Route(t *testing.T) {
	req := RouteRequest{ID: "north-1", Name: "North loop"}
	require.NoError(t, req.Validate())
	route := req.Route()
	assert.Equal(t, "north-1", route.ID)
	assert.True(t, route.Active)
}
