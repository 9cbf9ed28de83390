//go:build !integration

package service

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name    string
		current model.WarehouseStock
		delta   int
		want    model.WarehouseStock
		wantErr bool
	}{
		{
			name:    "assign out",
			current: model.WarehouseStock{ProductID: "cola", Boxes: 10},
			delta:   120,
			want:    model.WarehouseStock{ProductID: "cola", Boxes: 5},
		},
		{
			name:    "return folds pieces into boxes",
			current: model.WarehouseStock{ProductID: "cola", Boxes: 5, Pcs: 20},
			delta:   -4,
			want:    model.WarehouseStock{ProductID: "cola", Boxes: 6},
		},
		{
			name:    "exact drain",
			current: model.WarehouseStock{ProductID: "cola", Boxes: 1},
			delta:   24,
			want:    model.WarehouseStock{ProductID: "cola"},
		},
		{
			name:    "overdraw fails",
			current: model.WarehouseStock{ProductID: "cola", Boxes: 1},
			delta:   48,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reconcile(tt.current, tt.delta, 24)
			if tt.wantErr {
				var ise *model.InsufficientStockError
				require.True(t, errors.As(err, &ise))
				assert.Equal(t, model.Quantity{BoxQty: 1}, ise.Shortfall)
				assert.Equal(t, model.Quantity{BoxQty: 2}, ise.Requested)
				assert.Equal(t, tt.current, got, "level is unchanged on failure")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReconcile_ReturnBeyondRangeFails(t *testing.T) {
	current := model.WarehouseStock{ProductID: "cola", Pcs: math.MaxInt - 10}

	got, err := Reconcile(current, -24, 24)

	assert.True(t, model.IsValidation(err))
	assert.Equal(t, current, got)
}

func TestAssignmentMovement(t *testing.T) {
	at := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

	assert.Nil(t, AssignmentMovement("cola", 0, 24, "north-1", "2026-10-14", "", at))

	out := AssignmentMovement("cola", 30, 24, "north-1", "2026-10-14", "morning", at)
	require.NotNil(t, out)
	assert.Equal(t, model.MovementAssign, out.Type)
	assert.Equal(t, 1, out.Boxes)
	assert.Equal(t, 6, out.Pcs)
	assert.Equal(t, "north-1", out.RouteID)
	assert.Equal(t, at, out.CreatedAt)
	assert.NotEmpty(t, out.ID)

	back := AssignmentMovement("cola", -48, 24, "north-1", "2026-10-14", "", at)
	assert.Equal(t, model.MovementReturn, back.Type)
	assert.Equal(t, 2, back.Boxes)
	assert.Equal(t, 0, back.Pcs)
}

func TestAdjustmentMovement(t *testing.T) {
	at := time.Now()
	assert.Nil(t, AdjustmentMovement("cola", 0, 24, "x", at))

	down := AdjustmentMovement("cola", -25, 24, "damaged", at)
	assert.Equal(t, model.MovementAdjust, down.Type)
	assert.Equal(t, -1, down.AdjustSign)
	assert.Equal(t, 1, down.Boxes)
	assert.Equal(t, 1, down.Pcs)
	assert.Equal(t, -25, down.SignedPcs(24))

	up := AdjustmentMovement("cola", 3, 24, "found", at)
	assert.Equal(t, 1, up.AdjustSign)
	assert.Equal(t, 3, up.SignedPcs(24))
}

func TestReceiptMovement(t *testing.T) {
	m := ReceiptMovement("cola", model.Quantity{BoxQty: 2, PcsQty: 30}, 24, "delivery", time.Now())
	assert.Equal(t, model.MovementIn, m.Type)
	assert.Equal(t, 3, m.Boxes)
	assert.Equal(t, 6, m.Pcs)
	assert.Equal(t, 78, m.SignedPcs(24))
}
