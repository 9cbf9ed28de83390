//go:build !integration

package service

import (
	"errors"
	"math"
	"testing"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalogue() model.Catalogue {
	return model.NewCatalogue([]model.Product{
		{ID: "cola", Name: "Cola 330ml", PcsPerBox: 24},
		{ID: "chips", Name: "Chips", PcsPerBox: 12},
	})
}

func line(id string, boxes, pcs int) model.StockLine {
	return model.StockLine{ProductID: id, BoxQty: boxes, PcsQty: pcs}
}

func TestComputeDelta(t *testing.T) {
	tests := []struct {
		name      string
		existing  model.StockLine
		requested model.StockLine
		want      int
		wantErr   bool
	}{
		{name: "first assignment", existing: line("cola", 0, 0), requested: line("cola", 5, 0), want: 120},
		{name: "correction down", existing: line("cola", 5, 0), requested: line("cola", 3, 0), want: -48},
		{name: "same target", existing: line("cola", 2, 6), requested: line("cola", 2, 6), want: 0},
		{name: "pieces overflow a box", existing: line("cola", 1, 0), requested: line("cola", 0, 30), want: 6},
		{name: "negative boxes rejected", existing: line("cola", 1, 0), requested: line("cola", -1, 0), wantErr: true},
		{name: "negative pieces rejected", existing: line("cola", 1, 0), requested: line("cola", 0, -3), wantErr: true},
		{name: "overflowing boxes rejected", existing: line("cola", 0, 0), requested: line("cola", 1<<59, 0), wantErr: true},
		{name: "overflowing pieces rejected", existing: line("cola", 1, 0), requested: line("cola", math.MaxInt/24, 24), wantErr: true},
		{name: "overflowing stored line rejected", existing: line("cola", 1<<59, 0), requested: line("cola", 1, 0), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDelta(tt.existing, tt.requested, 24)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, model.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRebaseInitial(t *testing.T) {
	assert.Equal(t, model.Quantity{BoxQty: 3}, RebaseInitial(line("cola", 5, 0), -48, 24))
	assert.Equal(t, model.Quantity{BoxQty: 1, PcsQty: 6}, RebaseInitial(line("cola", 1, 0), 6, 24))
	assert.Equal(t, model.Quantity{}, RebaseInitial(line("cola", 1, 0), -100, 24), "baseline clamps at zero")
}

func TestPlanAssignment_FirstAssignment(t *testing.T) {
	levels := map[string]model.WarehouseStock{
		"cola": {ProductID: "cola", Boxes: 10, Version: 3},
	}

	plans, err := PlanAssignment(nil, []model.StockLine{line("cola", 5, 0)}, testCatalogue(), levels)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	p := plans[0]
	assert.Equal(t, "Cola 330ml", p.ProductName)
	assert.Equal(t, 120, p.DeltaPcs)
	assert.Equal(t, model.Quantity{BoxQty: 5}, p.Initial)
	require.NotNil(t, p.Warehouse)
	assert.Equal(t, model.Quantity{BoxQty: 5}, *p.Warehouse)
	assert.Equal(t, int64(3), p.warehouseVersion)
}

func TestPlanAssignment_ZeroDeltaSkipsWarehouse(t *testing.T) {
	existing := &model.DailyStock{
		Stock:        []model.StockLine{line("cola", 2, 0)},
		InitialStock: []model.StockLine{line("cola", 2, 0)},
	}

	plans, err := PlanAssignment(existing, []model.StockLine{line("cola", 2, 0)}, testCatalogue(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, plans[0].DeltaPcs)
	assert.Nil(t, plans[0].Warehouse)
}

func TestPlanAssignment_LegacyRecordUsesStockAsBaseline(t *testing.T) {
	existing := &model.DailyStock{Stock: []model.StockLine{line("cola", 4, 0)}}
	levels := map[string]model.WarehouseStock{"cola": {ProductID: "cola", Boxes: 1}}

	plans, err := PlanAssignment(existing, []model.StockLine{line("cola", 5, 0)}, testCatalogue(), levels)
	require.NoError(t, err)
	assert.Equal(t, 24, plans[0].DeltaPcs)
	assert.Equal(t, model.Quantity{BoxQty: 5}, plans[0].Initial)
}

func TestPlanAssignment_ReportsEveryShortfall(t *testing.T) {
	levels := map[string]model.WarehouseStock{
		"cola":  {ProductID: "cola", Boxes: 1},
		"chips": {ProductID: "chips", Pcs: 5},
	}
	lines := []model.StockLine{line("cola", 2, 0), line("chips", 1, 0)}

	plans, err := PlanAssignment(nil, lines, testCatalogue(), levels)
	require.Error(t, err)
	assert.Nil(t, plans)
	assert.True(t, model.IsConflict(err))

	var shortfalls []*model.InsufficientStockError
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var ise *model.InsufficientStockError
		require.True(t, errors.As(e, &ise))
		shortfalls = append(shortfalls, ise)
	}
	require.Len(t, shortfalls, 2)
	assert.Equal(t, "Cola 330ml", shortfalls[0].ProductName)
	assert.Equal(t, model.Quantity{BoxQty: 1}, shortfalls[0].Shortfall)
	assert.Equal(t, "Chips", shortfalls[1].ProductName)
	assert.Equal(t, model.Quantity{PcsQty: 7}, shortfalls[1].Shortfall)
}

func TestPlanAssignment_Errors(t *testing.T) {
	tests := []struct {
		name  string
		lines []model.StockLine
		check func(*testing.T, error)
	}{
		{
			name:  "no lines",
			lines: nil,
			check: func(t *testing.T, err error) { assert.True(t, model.IsValidation(err)) },
		},
		{
			name:  "duplicate product",
			lines: []model.StockLine{line("cola", 1, 0), line("cola", 2, 0)},
			check: func(t *testing.T, err error) { assert.True(t, model.IsValidation(err)) },
		},
		{
			name:  "unknown product",
			lines: []model.StockLine{line("water", 1, 0)},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, model.ErrProductNotFound) },
		},
		{
			name:  "missing warehouse row",
			lines: []model.StockLine{line("chips", 1, 0)},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, model.ErrWarehouseStockMissing) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels := map[string]model.WarehouseStock{"cola": {ProductID: "cola", Boxes: 10}}
			_, err := PlanAssignment(nil, tt.lines, testCatalogue(), levels)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestApplyPlans_KeepsUnmentionedLines(t *testing.T) {
	existing := &model.DailyStock{
		Stock:        []model.StockLine{line("cola", 5, 0), line("chips", 1, 0)},
		InitialStock: []model.StockLine{line("cola", 5, 0), line("chips", 2, 0)},
	}
	plans := []LinePlan{{ProductID: "cola", Requested: model.Quantity{BoxQty: 3}, Initial: model.Quantity{BoxQty: 3}}}

	stock, initial := ApplyPlans(existing, plans)
	assert.ElementsMatch(t, []model.StockLine{line("cola", 3, 0), line("chips", 1, 0)}, stock)
	assert.ElementsMatch(t, []model.StockLine{line("cola", 3, 0), line("chips", 2, 0)}, initial)
	assert.Equal(t, line("cola", 5, 0), existing.Stock[0], "existing record is not mutated")
}

func TestApplyPlans_NilExisting(t *testing.T) {
	stock, initial := ApplyPlans(nil, nil)
	assert.NotNil(t, stock)
	assert.NotNil(t, initial)
	assert.Empty(t, stock)
}
