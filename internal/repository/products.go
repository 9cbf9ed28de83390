package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productDocument struct {
	ID        string        `bson:"_id"`
	Name      string        `bson:"name"`
	PcsPerBox bson.RawValue `bson:"pcs_per_box"`
	BoxPrice  bson.RawValue `bson:"box_price"`
	PcsPrice  bson.RawValue `bson:"pcs_price"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

func (d *productDocument) toModel() model.Product {
	per, _ := intFromRaw(d.PcsPerBox)
	return model.Product{
		ID:        d.ID,
		Name:      d.Name,
		PcsPerBox: per,
		BoxPrice:  decimalOrZero(d.BoxPrice),
		PcsPrice:  decimalFromRaw(d.PcsPrice),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func productFields(p *model.Product) bson.M {
	return bson.M{
		"name":        p.Name,
		"pcs_per_box": p.PcsPerBox,
		"box_price":   toDecimal128(p.BoxPrice),
		"pcs_price":   toNullDecimal128(p.PcsPrice),
		"updated_at":  p.UpdatedAt,
	}
}

// ProductRepository stores the product catalogue.
type ProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *MongoDB) *ProductRepository {
	return &ProductRepository{collection: db.Products}
}

// Create inserts a product. A taken id is model.ErrProductExists.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	now := time.Now().UTC()
	product.CreatedAt, product.UpdatedAt = now, now

	doc := productFields(product)
	doc["_id"] = product.ID
	doc["created_at"] = product.CreatedAt

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", product.ID, model.ErrProductExists)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update replaces a product's name, prices and box size.
func (r *ProductRepository) Update(ctx context.Context, product *model.Product) error {
	product.UpdatedAt = time.Now().UTC()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": product.ID}, bson.M{"$set": productFields(product)})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", product.ID, model.ErrProductNotFound)
	}
	return nil
}

// FindByID returns the product or nil when it does not exist.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var doc productDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	p := doc.toModel()
	return &p, nil
}

// FindByIDs returns the products among ids that exist.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// List returns every product ordered by name.
func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	return r.find(ctx, bson.M{})
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M) ([]model.Product, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(docs))
	for i := range docs {
		products = append(products, docs[i].toModel())
	}
	return products, nil
}

type routeDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Active    bool      `bson:"active"`
	CreatedAt time.Time `bson:"created_at"`
}

// RouteRepository stores delivery routes.
type RouteRepository struct {
	collection *mongo.Collection
}

// NewRouteRepository creates a new route repository.
func NewRouteRepository(db *MongoDB) *RouteRepository {
	return &RouteRepository{collection: db.Routes}
}

// Create inserts a route.
func (r *RouteRepository) Create(ctx context.Context, route *model.Route) error {
	route.CreatedAt = time.Now().UTC()
	doc := routeDocument{ID: route.ID, Name: route.Name, Active: route.Active, CreatedAt: route.CreatedAt}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", route.ID, model.ErrRouteExists)
		}
		return fmt.Errorf("insert route: %w", err)
	}
	return nil
}

// FindByID returns the route or nil when it does not exist.
func (r *RouteRepository) FindByID(ctx context.Context, id string) (*model.Route, error) {
	var doc routeDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &model.Route{ID: doc.ID, Name: doc.Name, Active: doc.Active, CreatedAt: doc.CreatedAt}, nil
}

// List returns every route ordered by name.
func (r *RouteRepository) List(ctx context.Context) ([]model.Route, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []routeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	routes := make([]model.Route, 0, len(docs))
	for _, d := range docs {
		routes = append(routes, model.Route{ID: d.ID, Name: d.Name, Active: d.Active, CreatedAt: d.CreatedAt})
	}
	return routes, nil
}
