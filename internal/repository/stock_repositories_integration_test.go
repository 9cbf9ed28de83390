//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestProductAndRouteRepositories_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	products := NewProductRepository(db)
	routes := NewRouteRepository(db)

	t.Run("product lifecycle", func(t *testing.T) {
		cola := &model.Product{
			ID:        "cola",
			Name:      "Cola 330ml",
			PcsPerBox: 24,
			BoxPrice:  decimal.RequireFromString("12.00"),
			PcsPrice:  decimal.NewNullDecimal(decimal.RequireFromString("0.50")),
		}
		require.NoError(t, products.Create(ctx, cola))
		assert.ErrorIs(t, products.Create(ctx, &model.Product{ID: "cola", Name: "Dup"}), model.ErrProductExists)

		cola.Name = "Cola 330ml can"
		require.NoError(t, products.Update(ctx, cola))
		assert.ErrorIs(t, products.Update(ctx, &model.Product{ID: "ghost"}), model.ErrProductNotFound)

		got, err := products.FindByID(ctx, "cola")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Cola 330ml can", got.Name)
		assert.Equal(t, 24, got.PcsPerBox)
		assert.True(t, got.BoxPrice.Equal(decimal.NewFromInt(12)))
		require.True(t, got.PcsPrice.Valid)
		assert.True(t, got.PcsPrice.Decimal.Equal(decimal.RequireFromString("0.5")))

		missing, err := products.FindByID(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("legacy product fields are read", func(t *testing.T) {
		_, err := db.Products.InsertOne(ctx, bson.M{
			"_id": "legacy", "name": "Apple juice", "pcs_per_box": "12", "box_price": 9.6,
		})
		require.NoError(t, err)

		got, err := products.FindByID(ctx, "legacy")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 12, got.PcsPerBox)
		assert.True(t, got.BoxPrice.Equal(decimal.RequireFromString("9.6")))
		assert.False(t, got.PcsPrice.Valid)

		some, err := products.FindByIDs(ctx, []string{"legacy", "cola", "ghost"})
		require.NoError(t, err)
		assert.Len(t, some, 2)
		none, err := products.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, none)

		all, err := products.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Apple juice", all[0].Name)
	})

	t.Run("routes", func(t *testing.T) {
		require.NoError(t, routes.Create(ctx, &model.Route{ID: "north-1", Name: "North loop", Active: true}))
		require.NoError(t, routes.Create(ctx, &model.Route{ID: "east-2", Name: "East loop", Active: true}))
		assert.ErrorIs(t, routes.Create(ctx, &model.Route{ID: "north-1", Name: "Dup"}), model.ErrRouteExists)

		got, err := routes.FindByID(ctx, "north-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Active)

		list, err := routes.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "east-2", list[0].ID)
	})
}

func TestDailyStockRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewDailyStockRepository(db)
	unclaimed := model.StockKey{RouteID: "north-1", Date: "2026-10-14", TruckID: "truck-7"}
	claimed := model.StockKey{RouteID: "north-1", Date: "2026-10-14", TruckID: "truck-7", DriverID: "driver-1"}

	record := &model.DailyStock{
		RouteID:      unclaimed.RouteID,
		TruckID:      unclaimed.TruckID,
		Date:         unclaimed.Date,
		Stock:        []model.StockLine{{ProductID: "cola", BoxQty: 5}},
		InitialStock: []model.StockLine{{ProductID: "cola", BoxQty: 5}},
	}
	require.NoError(t, repo.Save(ctx, record))
	require.NotEmpty(t, record.ID)
	assert.EqualValues(t, 1, record.Version)

	t.Run("a second unclaimed record for the same key is a conflict", func(t *testing.T) {
		dup := &model.DailyStock{RouteID: unclaimed.RouteID, TruckID: unclaimed.TruckID, Date: unclaimed.Date}
		assert.ErrorIs(t, repo.Save(ctx, dup), model.ErrConcurrentUpdate)
	})

	t.Run("unclaimed and claimed keys are distinct", func(t *testing.T) {
		got, err := repo.Find(ctx, unclaimed)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got.DriverID)

		none, err := repo.Find(ctx, claimed)
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("stale versions lose", func(t *testing.T) {
		stale := *record
		record.DriverID = "driver-1"
		require.NoError(t, repo.Save(ctx, record))
		assert.EqualValues(t, 2, record.Version)

		stale.Stock = []model.StockLine{{ProductID: "cola", BoxQty: 1}}
		assert.ErrorIs(t, repo.Save(ctx, &stale), model.ErrConcurrentUpdate)
		assert.ErrorIs(t, repo.Delete(ctx, &stale), model.ErrConcurrentUpdate)

		got, err := repo.Find(ctx, claimed)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 5, got.Stock[0].BoxQty)
	})

	t.Run("queries by route, date range and driver", func(t *testing.T) {
		other := &model.DailyStock{RouteID: "east-2", TruckID: "truck-1", Date: "2026-10-15"}
		require.NoError(t, repo.Save(ctx, other))

		byDay, err := repo.ListByRouteDate(ctx, "north-1", "2026-10-14")
		require.NoError(t, err)
		assert.Len(t, byDay, 1)

		ranged, err := repo.Query(ctx, model.ReportQuery{From: "2026-10-14", To: "2026-10-15"})
		require.NoError(t, err)
		require.Len(t, ranged, 2)
		assert.Equal(t, "2026-10-14", ranged[0].Date)

		byDriver, err := repo.Query(ctx, model.ReportQuery{DriverID: "driver-1"})
		require.NoError(t, err)
		assert.Len(t, byDriver, 1)

		upToDate, err := repo.Query(ctx, model.ReportQuery{To: "2026-10-14"})
		require.NoError(t, err)
		assert.Len(t, upToDate, 1)
	})

	t.Run("delete with the current version", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, record))

		got, err := repo.Find(ctx, claimed)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("rows written before versioning can be updated", func(t *testing.T) {
		_, err := db.DailyStock.InsertOne(ctx, bson.M{
			"_id": "legacy-row", "route_id": "west-3", "truck_id": "truck-2", "date": "2026-10-13",
			"auth_user_id": nil, "stock": bson.A{}, "initial_stock": bson.A{},
		})
		require.NoError(t, err)

		got, err := repo.Find(ctx, model.StockKey{RouteID: "west-3", Date: "2026-10-13", TruckID: "truck-2"})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.EqualValues(t, 0, got.Version)

		got.Stock = []model.StockLine{{ProductID: "cola", PcsQty: 3}}
		require.NoError(t, repo.Save(ctx, got))
		assert.EqualValues(t, 1, got.Version)
	})

	t.Run("rows without a truck_id match an empty truck", func(t *testing.T) {
		_, err := db.DailyStock.InsertOne(ctx, bson.M{
			"_id": "legacy-no-truck", "route_id": "east-4", "date": "2026-10-13",
			"auth_user_id": "driver-9", "stock": bson.A{bson.M{"productId": "cola", "boxQty": 2, "pcsQty": 0}},
		})
		require.NoError(t, err)

		got, err := repo.Find(ctx, model.StockKey{RouteID: "east-4", Date: "2026-10-13", DriverID: "driver-9"})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "legacy-no-truck", got.ID)

		other, err := repo.Find(ctx, model.StockKey{RouteID: "east-4", Date: "2026-10-13", TruckID: "truck-1", DriverID: "driver-9"})
		require.NoError(t, err)
		assert.Nil(t, other)
	})
}

func TestWarehouseAndMovementRepositories_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	warehouse := NewWarehouseRepository(db)
	movements := NewMovementRepository(db)

	require.NoError(t, warehouse.Create(ctx, "cola"))
	require.NoError(t, warehouse.Create(ctx, "water"))

	t.Run("create keeps an existing level", func(t *testing.T) {
		level, err := warehouse.Get(ctx, "cola")
		require.NoError(t, err)
		require.NotNil(t, level)
		level.Boxes = 4
		require.NoError(t, warehouse.Update(ctx, level))

		require.NoError(t, warehouse.Create(ctx, "cola"))

		got, err := warehouse.Get(ctx, "cola")
		require.NoError(t, err)
		assert.Equal(t, 4, got.Boxes)
		assert.EqualValues(t, 2, got.Version)
	})

	t.Run("versioned updates", func(t *testing.T) {
		level, err := warehouse.Get(ctx, "water")
		require.NoError(t, err)
		stale := *level

		level.Pcs = 10
		require.NoError(t, warehouse.Update(ctx, level))
		stale.Pcs = 3
		assert.ErrorIs(t, warehouse.Update(ctx, &stale), model.ErrConcurrentUpdate)

		level.Pcs = -1
		err = warehouse.Update(ctx, level)
		require.Error(t, err)
		assert.False(t, errors.Is(err, model.ErrConcurrentUpdate))
	})

	t.Run("reads", func(t *testing.T) {
		many, err := warehouse.GetMany(ctx, []string{"cola", "ghost"})
		require.NoError(t, err)
		assert.Len(t, many, 1)
		assert.Equal(t, 4, many["cola"].Boxes)

		all, err := warehouse.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "cola", all[0].ProductID)

		missing, err := warehouse.Get(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("movement ledger", func(t *testing.T) {
		base := time.Now().UTC().Truncate(time.Millisecond)
		in := &model.Movement{ProductID: "cola", Type: model.MovementIn, Boxes: 4, Note: "supplier", CreatedAt: base.Add(-time.Minute)}
		assign := &model.Movement{ProductID: "cola", Type: model.MovementAssign, Boxes: 2, RouteID: "north-1", Date: "2026-10-14", CreatedAt: base}
		adjust := &model.Movement{ProductID: "water", Type: model.MovementAdjust, Pcs: 2, AdjustSign: -1, Note: "broken"}
		require.NoError(t, movements.Append(ctx, in, assign, adjust))
		require.NoError(t, movements.Append(ctx))
		assert.NotEmpty(t, in.ID)
		assert.False(t, adjust.CreatedAt.IsZero())

		cola, err := movements.ListByProduct(ctx, "cola", 0)
		require.NoError(t, err)
		require.Len(t, cola, 2)
		assert.Equal(t, model.MovementAssign, cola[0].Type)
		assert.Equal(t, "north-1", cola[0].RouteID)

		latest, err := movements.ListByProduct(ctx, "", 1)
		require.NoError(t, err)
		require.Len(t, latest, 1)
		assert.Equal(t, adjust.ID, latest[0].ID)
		assert.Equal(t, -1, latest[0].AdjustSign)
	})
}

func TestSaleRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewSaleRepository(db)
	base := time.Now().UTC().Truncate(time.Millisecond)

	sale := &model.Sale{
		RouteID:  "north-1",
		TruckID:  "truck-7",
		DriverID: "driver-1",
		Date:     "2026-10-14",
		ShopName: "Corner Store",
		Items: []model.SaleItem{
			{ProductID: "cola", PcsQty: 30, UnitPrice: decimal.RequireFromString("0.50")},
		},
		TotalAmount: decimal.RequireFromString("15.00"),
		CreatedAt:   base,
	}
	require.NoError(t, repo.Create(ctx, sale))
	require.NotEmpty(t, sale.ID)

	// Older rows with the wrapped and the encoded item layouts.
	_, err := db.Sales.InsertMany(ctx, []interface{}{
		bson.M{
			"_id": "legacy-wrapped", "route_id": "north-1", "date": "2026-10-14", "shop_name": "Kiosk",
			"products_sold": bson.M{"items": bson.A{bson.M{"productId": "cola", "quantity": int32(2), "unit": "box", "price": 12.0}}},
			"total_amount":  "24", "created_at": base.Add(time.Second),
		},
		bson.M{
			"_id": "legacy-encoded", "route_id": "north-1", "date": "2026-10-14", "shop_name": "Market",
			"products_sold": `[{"productId":"cola","pcsQty":6,"unitPrice":"0.5"}]`,
			"total_amount":  int32(3), "created_at": base.Add(2 * time.Second),
		},
	})
	require.NoError(t, err)

	t.Run("list returns every layout upgraded in billing order", func(t *testing.T) {
		sales, err := repo.List(ctx, "north-1", "2026-10-14")
		require.NoError(t, err)
		require.Len(t, sales, 3)

		assert.Equal(t, sale.ID, sales[0].ID)
		assert.Equal(t, "driver-1", sales[0].DriverID)
		require.Len(t, sales[0].Items, 1)
		assert.Equal(t, 30, sales[0].Items[0].PcsQty)
		assert.True(t, sales[0].TotalAmount.Equal(decimal.NewFromInt(15)))

		require.Len(t, sales[1].Items, 1)
		assert.True(t, sales[1].Items[0].UnitPrice.Equal(decimal.NewFromInt(12)))
		assert.True(t, sales[1].TotalAmount.Equal(decimal.NewFromInt(24)))
		assert.Empty(t, sales[1].DriverID)

		require.Len(t, sales[2].Items, 1)
		assert.Equal(t, 6, sales[2].Items[0].PcsQty)
		assert.True(t, sales[2].TotalAmount.Equal(decimal.NewFromInt(3)))
	})

	t.Run("query by driver", func(t *testing.T) {
		sales, err := repo.Query(ctx, model.ReportQuery{From: "2026-10-14", To: "2026-10-14", DriverID: "driver-1"})
		require.NoError(t, err)
		assert.Len(t, sales, 1)
	})
}

func TestMongoUnitOfWork_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	products := NewProductRepository(db)
	warehouse := NewWarehouseRepository(db)
	// Collections must exist before a transaction writes to them.
	require.NoError(t, warehouse.Create(ctx, "seed"))
	require.NoError(t, products.Create(ctx, &model.Product{ID: "seed", Name: "Seed"}))

	tests := []struct {
		name          string
		transactional bool
		wantProduct   bool
	}{
		{name: "transaction rolls back", transactional: true, wantProduct: false},
		{name: "without transactions writes stay", transactional: false, wantProduct: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow := NewUnitOfWork(db, tt.transactional)
			assert.Equal(t, tt.transactional, uow.Transactional())
			id := "p-" + sanitizeDBName(t.Name())

			err := uow.Do(ctx, func(ctx context.Context) error {
				if err := products.Create(ctx, &model.Product{ID: id, Name: "Temp"}); err != nil {
					return err
				}
				if err := warehouse.Create(ctx, id); err != nil {
					return err
				}
				return model.ErrForbidden
			})
			require.ErrorIs(t, err, model.ErrForbidden)

			got, err := products.FindByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantProduct, got != nil)
		})
	}

	t.Run("commit", func(t *testing.T) {
		uow := NewUnitOfWork(db, true)
		require.NoError(t, uow.Do(ctx, func(ctx context.Context) error {
			return products.Create(ctx, &model.Product{ID: "committed", Name: "Committed"})
		}))

		got, err := products.FindByID(ctx, "committed")
		require.NoError(t, err)
		assert.NotNil(t, got)
	})
}
