package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/distribution-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// saleDocument keeps products_sold raw so every historical layout can be read.
type saleDocument struct {
	ID           string        `bson:"_id"`
	RouteID      string        `bson:"route_id"`
	TruckID      string        `bson:"truck_id,omitempty"`
	DriverID     *string       `bson:"auth_user_id"`
	Date         string        `bson:"date"`
	ShopName     string        `bson:"shop_name"`
	ProductsSold bson.RawValue `bson:"products_sold"`
	TotalAmount  bson.RawValue `bson:"total_amount"`
	CreatedAt    time.Time     `bson:"created_at"`
}

type saleItemDocument struct {
	ProductID string               `bson:"productId"`
	BoxQty    int                  `bson:"boxQty"`
	PcsQty    int                  `bson:"pcsQty"`
	UnitPrice primitive.Decimal128 `bson:"unitPrice"`
}

// legacyItemDocument mirrors model.LegacySaleItem with raw numbers, since old rows mix
// integers, doubles and strings.
type legacyItemDocument struct {
	ProductID bson.RawValue `bson:"productId"`
	BoxQty    bson.RawValue `bson:"boxQty"`
	PcsQty    bson.RawValue `bson:"pcsQty"`
	Quantity  bson.RawValue `bson:"quantity"`
	Unit      string        `bson:"unit"`
	UnitPrice bson.RawValue `bson:"unitPrice"`
	Price     bson.RawValue `bson:"price"`
}

func (d legacyItemDocument) toLegacy() model.LegacySaleItem {
	item := model.LegacySaleItem{
		Unit:      d.Unit,
		UnitPrice: decimalFromRaw(d.UnitPrice),
		Price:     decimalFromRaw(d.Price),
	}
	switch d.ProductID.Type {
	case bson.TypeString:
		item.ProductID = d.ProductID.StringValue()
	case bson.TypeObjectID:
		item.ProductID = d.ProductID.ObjectID().Hex()
	}
	if v, ok := intFromRaw(d.BoxQty); ok {
		item.BoxQty = &v
	}
	if v, ok := intFromRaw(d.PcsQty); ok {
		item.PcsQty = &v
	}
	if v, ok := intFromRaw(d.Quantity); ok {
		item.Quantity = &v
	}
	return item
}

// SaleItemsPayloadFromRaw tags a stored products_sold value with its layout for a single
// upgrade step: array, {items: [...]}, or a JSON string of either.
func SaleItemsPayloadFromRaw(raw bson.RawValue) model.SaleItemsPayload {
	switch raw.Type {
	case bson.TypeArray:
		return model.SaleItemsPayload{Shape: model.ShapeList, Items: decodeLegacyItems(raw)}
	case bson.TypeEmbeddedDocument:
		var wrapper struct {
			Items bson.RawValue `bson:"items"`
		}
		if err := raw.Unmarshal(&wrapper); err != nil || wrapper.Items.Type != bson.TypeArray {
			return model.SaleItemsPayload{Shape: model.ShapeUnknown}
		}
		return model.SaleItemsPayload{Shape: model.ShapeWrapped, Items: decodeLegacyItems(wrapper.Items)}
	case bson.TypeString:
		return model.SaleItemsPayload{Shape: model.ShapeEncoded, Encoded: raw.StringValue()}
	default:
		return model.SaleItemsPayload{Shape: model.ShapeUnknown}
	}
}

func decodeLegacyItems(raw bson.RawValue) []model.LegacySaleItem {
	var values []bson.RawValue
	if err := raw.Unmarshal(&values); err != nil {
		return nil
	}
	items := make([]model.LegacySaleItem, 0, len(values))
	for _, v := range values {
		if v.Type != bson.TypeEmbeddedDocument {
			continue
		}
		var doc legacyItemDocument
		if err := v.Unmarshal(&doc); err != nil {
			continue
		}
		items = append(items, doc.toLegacy())
	}
	return items
}

func (d *saleDocument) toModel() model.Sale {
	sale := model.Sale{
		ID:          d.ID,
		RouteID:     d.RouteID,
		TruckID:     d.TruckID,
		Date:        d.Date,
		ShopName:    d.ShopName,
		Items:       SaleItemsPayloadFromRaw(d.ProductsSold).Upgrade(),
		TotalAmount: decimalOrZero(d.TotalAmount),
		CreatedAt:   d.CreatedAt,
	}
	if d.DriverID != nil {
		sale.DriverID = *d.DriverID
	}
	return sale
}

// SaleRepository stores billing transactions. Sales are never updated.
type SaleRepository struct {
	collection *mongo.Collection
}

// NewSaleRepository creates a new sale repository.
func NewSaleRepository(db *MongoDB) *SaleRepository {
	return &SaleRepository{collection: db.Sales}
}

// Create inserts a sale in the current item layout.
func (r *SaleRepository) Create(ctx context.Context, sale *model.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}
	items := make([]saleItemDocument, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, saleItemDocument{
			ProductID: it.ProductID,
			BoxQty:    it.BoxQty,
			PcsQty:    it.PcsQty,
			UnitPrice: toDecimal128(it.UnitPrice),
		})
	}
	doc := bson.M{
		"_id":           sale.ID,
		"route_id":      sale.RouteID,
		"truck_id":      sale.TruckID,
		"auth_user_id":  driverValue(sale.DriverID),
		"date":          sale.Date,
		"shop_name":     sale.ShopName,
		"products_sold": items,
		"total_amount":  toDecimal128(sale.TotalAmount),
		"created_at":    sale.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// List returns the sales of a route on a day in billing order.
func (r *SaleRepository) List(ctx context.Context, routeID, date string) ([]model.Sale, error) {
	return r.find(ctx, bson.M{"route_id": routeID, "date": date})
}

// Query returns sales in the report range.
func (r *SaleRepository) Query(ctx context.Context, q model.ReportQuery) ([]model.Sale, error) {
	return r.find(ctx, reportFilter(q))
}

func (r *SaleRepository) find(ctx context.Context, filter bson.M) ([]model.Sale, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []saleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}
	sales := make([]model.Sale, 0, len(docs))
	for i := range docs {
		sales = append(sales, docs[i].toModel())
	}
	return sales, nil
}
