package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalogue entry. PcsPerBox may be zero for legacy rows, in which case
// ResolvePcsPerBox derives it from the prices.
//
// @Description Catalogue product with box and piece pricing
type Product struct {
	ID        string              `json:"id" example:"cola-330"`
	Name      string              `json:"name" example:"Cola 330ml"`
	PcsPerBox int                 `json:"pcs_per_box" example:"24"`
	BoxPrice  decimal.Decimal     `json:"box_price" swaggertype:"string" example:"12.00"`
	PcsPrice  decimal.NullDecimal `json:"pcs_price" swaggertype:"string" example:"0.50"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ResolvePcsPerBox returns the box size used for every quantity of this product.
// Order: explicit field, then box_price / pcs_price rounded, then DefaultPcsPerBox.
// It is pure so independent call sites always agree.
func (p Product) ResolvePcsPerBox() int {
	if p.PcsPerBox > 0 {
		return NormalizePcsPerBox(p.PcsPerBox)
	}
	if p.PcsPrice.Valid && p.PcsPrice.Decimal.IsPositive() && p.BoxPrice.IsPositive() {
		ratio := p.BoxPrice.Div(p.PcsPrice.Decimal).Round(0).IntPart()
		if ratio > 0 {
			return NormalizePcsPerBox(int(ratio))
		}
	}
	return DefaultPcsPerBox
}

// PiecePrice returns pcs_price, or box_price / pcs_per_box when no piece price is stored.
func (p Product) PiecePrice() decimal.Decimal {
	if p.PcsPrice.Valid {
		return p.PcsPrice.Decimal
	}
	return p.BoxPrice.Div(decimal.NewFromInt(int64(p.ResolvePcsPerBox())))
}

// Catalogue indexes products by id.
type Catalogue map[string]Product

// NewCatalogue builds a Catalogue from a product list.
func NewCatalogue(products []Product) Catalogue {
	c := make(Catalogue, len(products))
	for _, p := range products {
		c[p.ID] = p
	}
	return c
}

// PcsPerBox returns the resolved box size for productID, DefaultPcsPerBox when unknown.
func (c Catalogue) PcsPerBox(productID string) int {
	if p, ok := c[productID]; ok {
		return p.ResolvePcsPerBox()
	}
	return DefaultPcsPerBox
}

// Name returns the product name, falling back to the id.
func (c Catalogue) Name(productID string) string {
	if p, ok := c[productID]; ok && p.Name != "" {
		return p.Name
	}
	return productID
}

// Route is a delivery route drivers are assigned to.
type Route struct {
	ID        string    `json:"id" example:"north-1"`
	Name      string    `json:"name" example:"North loop"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
