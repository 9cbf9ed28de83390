// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validateStruct runs the tag rules on v and reports the first failure as a
// *model.ValidationError keyed by the JSON path of the field.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return model.NewValidationError("body", err.Error())
	}
	fe := fieldErrs[0]
	return model.NewValidationError(fieldPath(fe.Namespace()), fieldMessage(fe))
}

// fieldPath drops the struct type prefix: "AssignStockRequest.stock[0].boxQty" -> "stock[0].boxQty".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	case "max":
		return "must be at most " + fe.Param()
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// StockLineRequest is one product line of an assignment.
//
// @Description Requested quantity for a product
type StockLineRequest struct {
	ProductID string `json:"productId" validate:"required" example:"cola-330"`
	BoxQty    int    `json:"boxQty" validate:"gte=0,lte=1000000" example:"5"`
	PcsQty    int    `json:"pcsQty" validate:"gte=0,lte=1000000" example:"0"`
} // @name StockLineRequest

// AssignStockRequest is the admin's target assignment for a route and day. Each line is
// the quantity the route should carry, not an increment.
//
// @Description Assign stock to a route for a date
// @Example {"route_id": "north-1", "date": "2026-10-14", "stock": [{"productId": "cola-330", "boxQty": 5, "pcsQty": 0}]}
type AssignStockRequest struct {
	RouteID string             `json:"route_id" validate:"required" example:"north-1"`
	TruckID string             `json:"truck_id,omitempty" example:"truck-7"`
	Date    string             `json:"date" validate:"required,datetime=2006-01-02" example:"2026-10-14"`
	Lines   []StockLineRequest `json:"stock" validate:"required,min=1,dive"`
} // @name AssignStockRequest

// Validate checks field rules and rejects repeated products.
func (r *AssignStockRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(r.Lines))
	for i, l := range r.Lines {
		if _, dup := seen[l.ProductID]; dup {
			return model.NewValidationError(fmt.Sprintf("stock[%d].productId", i), "duplicate product")
		}
		seen[l.ProductID] = struct{}{}
	}
	return nil
}

// StockLines converts the request lines to domain lines.
func (r *AssignStockRequest) StockLines() []model.StockLine {
	lines := make([]model.StockLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, model.StockLine{ProductID: l.ProductID, BoxQty: l.BoxQty, PcsQty: l.PcsQty})
	}
	return lines
}

// RouteDayRequest names a route record for claim and return operations. Route and date
// fall back to the session when omitted. DriverID is honoured for admins.
//
// @Description Route and day selector
type RouteDayRequest struct {
	RouteID  string `json:"route_id" validate:"required" example:"north-1"`
	TruckID  string `json:"truck_id,omitempty" example:"truck-7"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02" example:"2026-10-14"`
	DriverID string `json:"driver_id,omitempty" example:"driver-42"`
	Note     string `json:"note,omitempty" validate:"max=500" example:"end of day"`
} // @name RouteDayRequest

// Validate checks field rules.
func (r *RouteDayRequest) Validate() error {
	return validateStruct(r)
}

// SaleItemRequest is one sold line. UnitPrice is optional and per piece; the product's
// piece price is used when it is absent.
//
// @Description Sold quantity for a product
type SaleItemRequest struct {
	ProductID string              `json:"productId" validate:"required" example:"cola-330"`
	BoxQty    int                 `json:"boxQty" validate:"gte=0,lte=1000000" example:"0"`
	PcsQty    int                 `json:"pcsQty" validate:"gte=0,lte=1000000" example:"30"`
	UnitPrice decimal.NullDecimal `json:"unitPrice,omitempty" swaggertype:"string" example:"0.50"`
} // @name SaleItemRequest

// RecordSaleRequest bills a shop against the route's remaining stock. Route and date
// fall back to the session when omitted.
//
// @Description Record a sale for a shop
type RecordSaleRequest struct {
	RouteID  string            `json:"route_id" validate:"required" example:"north-1"`
	TruckID  string            `json:"truck_id,omitempty" example:"truck-7"`
	Date     string            `json:"date" validate:"required,datetime=2006-01-02" example:"2026-10-14"`
	DriverID string            `json:"driver_id,omitempty" example:"driver-42"`
	ShopName string            `json:"shop_name" validate:"required" example:"Corner Store"`
	Items    []SaleItemRequest `json:"products_sold" validate:"required,min=1,dive"`
} // @name RecordSaleRequest

// Validate checks field rules, rejects empty lines and negative prices.
func (r *RecordSaleRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	for i, item := range r.Items {
		if item.BoxQty == 0 && item.PcsQty == 0 {
			return model.NewValidationError(fmt.Sprintf("products_sold[%d]", i), "quantity must be greater than zero")
		}
		if item.UnitPrice.Valid && item.UnitPrice.Decimal.IsNegative() {
			return model.NewValidationError(fmt.Sprintf("products_sold[%d].unitPrice", i), "must not be negative")
		}
	}
	return nil
}

// ReceiveStockRequest adds stock to the warehouse.
//
// @Description Receive stock into the warehouse
type ReceiveStockRequest struct {
	ProductID string `json:"product_id" validate:"required" example:"cola-330"`
	BoxQty    int    `json:"boxQty" validate:"gte=0,lte=1000000" example:"10"`
	PcsQty    int    `json:"pcsQty" validate:"gte=0,lte=1000000" example:"0"`
	Note      string `json:"note,omitempty" validate:"max=500" example:"supplier delivery"`
} // @name ReceiveStockRequest

// Validate checks field rules and rejects an empty receipt.
func (r *ReceiveStockRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.BoxQty == 0 && r.PcsQty == 0 {
		return model.NewValidationError("boxQty", "quantity must be greater than zero")
	}
	return nil
}

// AdjustStockRequest applies a signed correction to the warehouse.
//
// @Description Manual warehouse correction; negative values remove stock
type AdjustStockRequest struct {
	ProductID string `json:"product_id" validate:"required" example:"cola-330"`
	BoxQty    int    `json:"boxQty" validate:"gte=-1000000,lte=1000000" example:"-1"`
	PcsQty    int    `json:"pcsQty" validate:"gte=-1000000,lte=1000000" example:"0"`
	Note      string `json:"note" validate:"required,max=500" example:"damaged box"`
} // @name AdjustStockRequest

// Validate checks field rules and rejects an empty correction.
func (r *AdjustStockRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.BoxQty == 0 && r.PcsQty == 0 {
		return model.NewValidationError("boxQty", "adjustment must not be zero")
	}
	return nil
}

// ProductRequest creates or replaces a catalogue product.
//
// @Description Catalogue product fields
type ProductRequest struct {
	ID        string              `json:"id,omitempty" example:"cola-330"`
	Name      string              `json:"name" validate:"required,max=200" example:"Cola 330ml"`
	PcsPerBox int                 `json:"pcs_per_box" validate:"gte=0" example:"24"`
	BoxPrice  decimal.Decimal     `json:"box_price" swaggertype:"string" example:"12.00"`
	PcsPrice  decimal.NullDecimal `json:"pcs_price,omitempty" swaggertype:"string" example:"0.50"`
} // @name ProductRequest

// Validate checks field rules and rejects negative prices.
func (r *ProductRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.BoxPrice.IsNegative() {
		return model.NewValidationError("box_price", "must not be negative")
	}
	if r.PcsPrice.Valid && r.PcsPrice.Decimal.IsNegative() {
		return model.NewValidationError("pcs_price", "must not be negative")
	}
	return nil
}

// Product converts the request to a domain product.
func (r *ProductRequest) Product() model.Product {
	return model.Product{
		ID:        r.ID,
		Name:      r.Name,
		PcsPerBox: r.PcsPerBox,
		BoxPrice:  r.BoxPrice,
		PcsPrice:  r.PcsPrice,
	}
}

// RouteRequest creates a route.
//
// @Description Delivery route
type RouteRequest struct {
	ID   string `json:"id,omitempty" example:"north-1"`
	Name string `json:"name" validate:"required,max=200" example:"North loop"`
} // @name RouteRequest

// Validate checks field rules.
func (r *RouteRequest) Validate() error {
	return validateStruct(r)
}

// Route converts the request to a domain route. New routes start active.
func (r *RouteRequest) Route() model.Route {
	return model.Route{ID: r.ID, Name: r.Name, Active: true}
}

// RouteDayQuery is the query string of the daily stock and sales listings. Empty
// fields fall back to the session's route context.
type RouteDayQuery struct {
	RouteID  string `form:"route_id"`
	TruckID  string `form:"truck_id"`
	Date     string `form:"date"`
	DriverID string `form:"driver_id"`
}

// Validate checks field rules once session defaults are applied.
func (r *RouteDayQuery) Validate() error {
	if r.RouteID == "" {
		return model.NewValidationError("route_id", "is required")
	}
	if r.Date == "" {
		return model.NewValidationError("date", "is required")
	}
	if err := validate.Var(r.Date, "datetime=2006-01-02"); err != nil {
		return model.NewValidationError("date", "must be a date in YYYY-MM-DD format")
	}
	return nil
}

// MovementsQuery pages the warehouse movement log.
type MovementsQuery struct {
	Limit int `form:"limit" validate:"gte=0,max=1000"`
}

// Validate checks field rules.
func (r *MovementsQuery) Validate() error {
	return validateStruct(r)
}

// ReportRequest is the query string of the stock report endpoints.
type ReportRequest struct {
	From     string `form:"from" validate:"required,datetime=2006-01-02"`
	To       string `form:"to" validate:"required,datetime=2006-01-02"`
	RouteID  string `form:"route_id"`
	DriverID string `form:"driver_id"`
}

// Validate checks field rules and the range order.
func (r *ReportRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	// Fixed-width dates compare correctly as strings.
	if r.From > r.To {
		return model.NewValidationError("from", "must not be after to")
	}
	return nil
}

// Query converts the request to a report query.
func (r *ReportRequest) Query() model.ReportQuery {
	return model.ReportQuery{From: r.From, To: r.To, RouteID: r.RouteID, DriverID: r.DriverID}
}
