package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/distribution-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type stockLineDocument struct {
	ProductID string `bson:"productId"`
	BoxQty    int    `bson:"boxQty"`
	PcsQty    int    `bson:"pcsQty"`
}

// dailyStockDocument stores the driver as null for unclaimed route stock.
type dailyStockDocument struct {
	ID           string              `bson:"_id"`
	RouteID      string              `bson:"route_id"`
	TruckID      string              `bson:"truck_id"`
	DriverID     *string             `bson:"auth_user_id"`
	Date         string              `bson:"date"`
	Stock        []stockLineDocument `bson:"stock"`
	InitialStock []stockLineDocument `bson:"initial_stock"`
	Version      int64               `bson:"version"`
	CreatedAt    time.Time           `bson:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at"`
}

func toLineDocuments(lines []model.StockLine) []stockLineDocument {
	docs := make([]stockLineDocument, 0, len(lines))
	for _, l := range lines {
		docs = append(docs, stockLineDocument{ProductID: l.ProductID, BoxQty: l.BoxQty, PcsQty: l.PcsQty})
	}
	return docs
}

func fromLineDocuments(docs []stockLineDocument) []model.StockLine {
	lines := make([]model.StockLine, 0, len(docs))
	for _, d := range docs {
		lines = append(lines, model.StockLine{ProductID: d.ProductID, BoxQty: d.BoxQty, PcsQty: d.PcsQty})
	}
	return lines
}

func driverValue(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func (d *dailyStockDocument) toModel() *model.DailyStock {
	rec := &model.DailyStock{
		ID:           d.ID,
		RouteID:      d.RouteID,
		TruckID:      d.TruckID,
		Date:         d.Date,
		Stock:        fromLineDocuments(d.Stock),
		InitialStock: fromLineDocuments(d.InitialStock),
		Version:      d.Version,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.DriverID != nil {
		rec.DriverID = *d.DriverID
	}
	return rec
}

// DailyStockRepository stores what each route carries per day.
type DailyStockRepository struct {
	collection *mongo.Collection
}

// NewDailyStockRepository creates a new daily stock repository.
func NewDailyStockRepository(db *MongoDB) *DailyStockRepository {
	return &DailyStockRepository{collection: db.DailyStock}
}

func keyFilter(key model.StockKey) bson.M {
	return bson.M{
		"route_id":     key.RouteID,
		"date":         key.Date,
		"truck_id":     truckFilter(key.TruckID),
		"auth_user_id": driverValue(key.DriverID),
	}
}

// truckFilter matches rows without a truck_id field when no truck is given.
func truckFilter(truckID string) interface{} {
	if truckID == "" {
		return bson.M{"$in": bson.A{"", nil}}
	}
	return truckID
}

// Find returns the record for key or nil.
func (r *DailyStockRepository) Find(ctx context.Context, key model.StockKey) (*model.DailyStock, error) {
	var doc dailyStockDocument
	err := r.collection.FindOne(ctx, keyFilter(key)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find daily stock: %w", err)
	}
	return doc.toModel(), nil
}

// ListByRouteDate returns every record, claimed or not, for a route and day.
func (r *DailyStockRepository) ListByRouteDate(ctx context.Context, routeID, date string) ([]model.DailyStock, error) {
	return r.find(ctx, bson.M{"route_id": routeID, "date": date})
}

// Query returns records in the report range.
func (r *DailyStockRepository) Query(ctx context.Context, q model.ReportQuery) ([]model.DailyStock, error) {
	return r.find(ctx, reportFilter(q))
}

// reportFilter selects rows by inclusive date range, route and driver.
func reportFilter(q model.ReportQuery) bson.M {
	filter := bson.M{}
	dates := bson.M{}
	if q.From != "" {
		dates["$gte"] = q.From
	}
	if q.To != "" {
		dates["$lte"] = q.To
	}
	if len(dates) > 0 {
		filter["date"] = dates
	}
	if q.RouteID != "" {
		filter["route_id"] = q.RouteID
	}
	if q.DriverID != "" {
		filter["auth_user_id"] = q.DriverID
	}
	return filter
}

func (r *DailyStockRepository) find(ctx context.Context, filter bson.M) ([]model.DailyStock, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "route_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query daily stock: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []dailyStockDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode daily stock: %w", err)
	}
	records := make([]model.DailyStock, 0, len(docs))
	for i := range docs {
		records = append(records, *docs[i].toModel())
	}
	return records, nil
}

// versionFilter matches the expected version. Rows written before versioning carry no
// field and read back as zero.
func versionFilter(v int64) interface{} {
	if v == 0 {
		return bson.M{"$in": bson.A{int64(0), nil}}
	}
	return v
}

// Save inserts or version-checks and updates the record.
func (r *DailyStockRepository) Save(ctx context.Context, record *model.DailyStock) error {
	now := time.Now().UTC()
	if record.ID == "" {
		doc := dailyStockDocument{
			ID:           uuid.NewString(),
			RouteID:      record.RouteID,
			TruckID:      record.TruckID,
			DriverID:     driverValue(record.DriverID),
			Date:         record.Date,
			Stock:        toLineDocuments(record.Stock),
			InitialStock: toLineDocuments(record.InitialStock),
			Version:      1,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := r.collection.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return model.ErrConcurrentUpdate
			}
			return fmt.Errorf("insert daily stock: %w", err)
		}
		record.ID, record.Version = doc.ID, doc.Version
		record.CreatedAt, record.UpdatedAt = now, now
		return nil
	}

	next := record.Version + 1
	update := bson.M{"$set": bson.M{
		"auth_user_id":  driverValue(record.DriverID),
		"stock":         toLineDocuments(record.Stock),
		"initial_stock": toLineDocuments(record.InitialStock),
		"version":       next,
		"updated_at":    now,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": record.ID, "version": versionFilter(record.Version)}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrConcurrentUpdate
		}
		return fmt.Errorf("update daily stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrConcurrentUpdate
	}
	record.Version, record.UpdatedAt = next, now
	return nil
}

// Delete removes the record if its version still matches.
func (r *DailyStockRepository) Delete(ctx context.Context, record *model.DailyStock) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": record.ID, "version": versionFilter(record.Version)})
	if err != nil {
		return fmt.Errorf("delete daily stock: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrConcurrentUpdate
	}
	return nil
}
