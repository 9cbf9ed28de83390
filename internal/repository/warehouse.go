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

type warehouseDocument struct {
	ProductID string    `bson:"product_id"`
	Boxes     int       `bson:"boxes"`
	Pcs       int       `bson:"pcs"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d warehouseDocument) toModel() model.WarehouseStock {
	return model.WarehouseStock{
		ProductID: d.ProductID,
		Boxes:     d.Boxes,
		Pcs:       d.Pcs,
		Version:   d.Version,
		UpdatedAt: d.UpdatedAt,
	}
}

// WarehouseRepository stores the current warehouse level per product.
type WarehouseRepository struct {
	collection *mongo.Collection
}

// NewWarehouseRepository creates a new warehouse repository.
func NewWarehouseRepository(db *MongoDB) *WarehouseRepository {
	return &WarehouseRepository{collection: db.Warehouse}
}

// Get returns the level for productID or nil. It always reads the collection.
func (r *WarehouseRepository) Get(ctx context.Context, productID string) (*model.WarehouseStock, error) {
	var doc warehouseDocument
	err := r.collection.FindOne(ctx, bson.M{"product_id": productID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find warehouse stock: %w", err)
	}
	level := doc.toModel()
	return &level, nil
}

// GetMany returns the levels of the given products keyed by product id. Missing products
// are absent from the map.
func (r *WarehouseRepository) GetMany(ctx context.Context, productIDs []string) (map[string]model.WarehouseStock, error) {
	levels := make(map[string]model.WarehouseStock, len(productIDs))
	if len(productIDs) == 0 {
		return levels, nil
	}
	docs, err := r.find(ctx, bson.M{"product_id": bson.M{"$in": productIDs}})
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		levels[d.ProductID] = d.toModel()
	}
	return levels, nil
}

// List returns every level ordered by product id.
func (r *WarehouseRepository) List(ctx context.Context) ([]model.WarehouseStock, error) {
	docs, err := r.find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	levels := make([]model.WarehouseStock, 0, len(docs))
	for _, d := range docs {
		levels = append(levels, d.toModel())
	}
	return levels, nil
}

func (r *WarehouseRepository) find(ctx context.Context, filter bson.M) ([]warehouseDocument, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "product_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query warehouse stock: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()
	var docs []warehouseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode warehouse stock: %w", err)
	}
	return docs, nil
}

// Create inserts a zero level for productID unless one exists.
func (r *WarehouseRepository) Create(ctx context.Context, productID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"product_id": productID},
		bson.M{"$setOnInsert": bson.M{"boxes": 0, "pcs": 0, "version": int64(1), "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("create warehouse stock: %w", err)
	}
	return nil
}

// Update writes the level if the stored version still matches.
func (r *WarehouseRepository) Update(ctx context.Context, level *model.WarehouseStock) error {
	if level.Boxes < 0 || level.Pcs < 0 {
		return fmt.Errorf("warehouse stock for %s would go negative", level.ProductID)
	}
	now := time.Now().UTC()
	next := level.Version + 1
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"product_id": level.ProductID, "version": versionFilter(level.Version)},
		bson.M{"$set": bson.M{"boxes": level.Boxes, "pcs": level.Pcs, "version": next, "updated_at": now}},
	)
	if err != nil {
		return fmt.Errorf("update warehouse stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrConcurrentUpdate
	}
	level.Version, level.UpdatedAt = next, now
	return nil
}

type movementDocument struct {
	ID         string             `bson:"_id"`
	ProductID  string             `bson:"product_id"`
	Type       model.MovementType `bson:"movement_type"`
	Boxes      int                `bson:"boxes"`
	Pcs        int                `bson:"pcs"`
	AdjustSign int                `bson:"adjust_sign,omitempty"`
	Note       string             `bson:"note"`
	RouteID    string             `bson:"route_id,omitempty"`
	Date       string             `bson:"date,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
}

// MovementRepository is the append-only warehouse ledger.
type MovementRepository struct {
	collection *mongo.Collection
}

// NewMovementRepository creates a new movement repository.
func NewMovementRepository(db *MongoDB) *MovementRepository {
	return &MovementRepository{collection: db.Movements}
}

// Append inserts movements. IDs and timestamps are filled in when empty.
func (r *MovementRepository) Append(ctx context.Context, movements ...*model.Movement) error {
	if len(movements) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(movements))
	for _, m := range movements {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now().UTC()
		}
		docs = append(docs, movementDocument{
			ID:         m.ID,
			ProductID:  m.ProductID,
			Type:       m.Type,
			Boxes:      m.Boxes,
			Pcs:        m.Pcs,
			AdjustSign: m.AdjustSign,
			Note:       m.Note,
			RouteID:    m.RouteID,
			Date:       m.Date,
			CreatedAt:  m.CreatedAt,
		})
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("append movements: %w", err)
	}
	return nil
}

// ListByProduct returns the product's movements newest first. An empty productID lists
// every product.
func (r *MovementRepository) ListByProduct(ctx context.Context, productID string, limit int) ([]model.Movement, error) {
	filter := bson.M{}
	if productID != "" {
		filter["product_id"] = productID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []movementDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode movements: %w", err)
	}
	out := make([]model.Movement, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.Movement{
			ID:         d.ID,
			ProductID:  d.ProductID,
			Type:       d.Type,
			Boxes:      d.Boxes,
			Pcs:        d.Pcs,
			AdjustSign: d.AdjustSign,
			Note:       d.Note,
			RouteID:    d.RouteID,
			Date:       d.Date,
			CreatedAt:  d.CreatedAt,
		})
	}
	return out, nil
}
