package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem is one billed line. UnitPrice is the per-piece price.
type SaleItem struct {
	ProductID string          `json:"productId" example:"cola-330"`
	BoxQty    int             `json:"boxQty" example:"0"`
	PcsQty    int             `json:"pcsQty" example:"30"`
	UnitPrice decimal.Decimal `json:"unitPrice" swaggertype:"string" example:"0.50"`
}

// Quantity returns the sold box/piece pair.
func (i SaleItem) Quantity() Quantity {
	return Quantity{BoxQty: i.BoxQty, PcsQty: i.PcsQty}
}

// Sale is an immutable billing transaction against a route's stock.
//
// @Description Billing transaction for a shop
type Sale struct {
	ID          string          `json:"id"`
	RouteID     string          `json:"route_id" example:"north-1"`
	TruckID     string          `json:"truck_id,omitempty"`
	DriverID    string          `json:"auth_user_id,omitempty"`
	Date        string          `json:"date" example:"2026-10-14"`
	ShopName    string          `json:"shop_name" example:"Corner Store"`
	Items       []SaleItem      `json:"products_sold"`
	TotalAmount decimal.Decimal `json:"total_amount" swaggertype:"string" example:"15.00"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SaleItemsShape tags how products_sold was persisted.
type SaleItemsShape int

const (
	// ShapeUnknown is anything unrecognized; it upgrades to no items.
	ShapeUnknown SaleItemsShape = iota
	// ShapeList is a plain array of items.
	ShapeList
	// ShapeWrapped is an object holding the array under "items".
	ShapeWrapped
	// ShapeEncoded is a JSON string holding either of the other two shapes.
	ShapeEncoded
)

// LegacySaleItem accepts every historical item layout. Pointers distinguish a field
// that was absent from one stored as zero.
type LegacySaleItem struct {
	ProductID string              `json:"productId"`
	BoxQty    *int                `json:"boxQty"`
	PcsQty    *int                `json:"pcsQty"`
	Quantity  *int                `json:"quantity"`
	Unit      string              `json:"unit"`
	UnitPrice decimal.NullDecimal `json:"unitPrice"`
	Price     decimal.NullDecimal `json:"price"`
}

// Upgrade converts the item to the current layout. Box/piece fields win over the flat
// quantity; unitPrice wins over price; a missing price is zero.
func (l LegacySaleItem) Upgrade() SaleItem {
	item := SaleItem{ProductID: l.ProductID, UnitPrice: decimal.Zero}
	switch {
	case l.BoxQty != nil || l.PcsQty != nil:
		if l.BoxQty != nil {
			item.BoxQty = *l.BoxQty
		}
		if l.PcsQty != nil {
			item.PcsQty = *l.PcsQty
		}
	case l.Quantity != nil:
		q := FromUnit(*l.Quantity, Unit(strings.ToLower(l.Unit)))
		item.BoxQty, item.PcsQty = q.BoxQty, q.PcsQty
	}
	if item.BoxQty < 0 {
		item.BoxQty = 0
	}
	if item.PcsQty < 0 {
		item.PcsQty = 0
	}
	switch {
	case l.UnitPrice.Valid:
		item.UnitPrice = l.UnitPrice.Decimal
	case l.Price.Valid:
		item.UnitPrice = l.Price.Decimal
	}
	return item
}

// SaleItemsPayload is products_sold as read from storage, before upgrade.
type SaleItemsPayload struct {
	Shape   SaleItemsShape
	Items   []LegacySaleItem
	Encoded string
}

// Upgrade runs the single normalization step from any stored shape to []SaleItem.
// Unrecognized or undecodable payloads yield an empty list.
func (p SaleItemsPayload) Upgrade() []SaleItem {
	legacy := p.Items
	switch p.Shape {
	case ShapeList, ShapeWrapped:
	case ShapeEncoded:
		legacy = decodeEncodedItems(p.Encoded)
	default:
		legacy = nil
	}

	items := make([]SaleItem, 0, len(legacy))
	for _, l := range legacy {
		if l.ProductID == "" {
			continue
		}
		items = append(items, l.Upgrade())
	}
	return items
}

func decodeEncodedItems(raw string) []LegacySaleItem {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var list []LegacySaleItem
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return list
	}
	var wrapped struct {
		Items []LegacySaleItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapped); err == nil {
		return wrapped.Items
	}
	return nil
}
