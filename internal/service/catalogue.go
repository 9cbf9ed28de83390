// Package service contains the business logic for the distribution service.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/repository"
	"github.com/guttosm/distribution-service/internal/service/cache"
	"github.com/rs/zerolog/log"
)

// ErrRepositoryNotConfigured is returned when the repository is not configured.
var ErrRepositoryNotConfigured = errors.New("repository not configured")

// CatalogueService manages products and resolves them for stock operations.
type CatalogueService interface {
	CreateProduct(ctx context.Context, session model.Session, product model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, session model.Session, product model.Product) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	// Lookup returns the products for ids. Unknown ids fail with model.ErrProductNotFound.
	Lookup(ctx context.Context, ids []string) (model.Catalogue, error)
	// All returns every product; used where unknown ids must degrade instead of failing.
	All(ctx context.Context) (model.Catalogue, error)
}

// CatalogueServiceImpl implements CatalogueService. Products are cached by id; warehouse
// levels are never cached.
type CatalogueServiceImpl struct {
	products  repository.ProductRepositoryInterface
	warehouse repository.WarehouseRepositoryInterface
	uow       repository.UnitOfWork
	cache     cache.Cache[string, model.Product]
}

// NewCatalogueService creates a catalogue service. productCache may be nil.
func NewCatalogueService(
	products repository.ProductRepositoryInterface,
	warehouse repository.WarehouseRepositoryInterface,
	uow repository.UnitOfWork,
	productCache cache.Cache[string, model.Product],
) *CatalogueServiceImpl {
	return &CatalogueServiceImpl{
		products:  products,
		warehouse: warehouse,
		uow:       uow,
		cache:     productCache,
	}
}

func validateProduct(p model.Product) error {
	if strings.TrimSpace(p.ID) == "" {
		return model.NewValidationError("id", "is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return model.NewValidationError("name", "is required")
	}
	if p.PcsPerBox < 0 {
		return model.NewValidationError("pcs_per_box", "must not be negative")
	}
	if p.BoxPrice.IsNegative() {
		return model.NewValidationError("box_price", "must not be negative")
	}
	if p.PcsPrice.Valid && p.PcsPrice.Decimal.IsNegative() {
		return model.NewValidationError("pcs_price", "must not be negative")
	}
	return nil
}

// CreateProduct stores a product together with its zero warehouse row.
func (s *CatalogueServiceImpl) CreateProduct(ctx context.Context, session model.Session, product model.Product) (*model.Product, error) {
	if s.products == nil {
		return nil, ErrRepositoryNotConfigured
	}
	if !session.IsAdmin() {
		return nil, model.ErrForbidden
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	err := s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.products.Create(ctx, &product); err != nil {
			return err
		}
		if err := s.warehouse.Create(ctx, product.ID); err != nil {
			return fmt.Errorf("create warehouse row: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(product.ID)

	log.Info().
		Str("product_id", product.ID).
		Int("pcs_per_box", product.ResolvePcsPerBox()).
		Msg("Product created")
	return &product, nil
}

// UpdateProduct replaces a product's name, prices and box size.
func (s *CatalogueServiceImpl) UpdateProduct(ctx context.Context, session model.Session, product model.Product) (*model.Product, error) {
	if s.products == nil {
		return nil, ErrRepositoryNotConfigured
	}
	if !session.IsAdmin() {
		return nil, model.ErrForbidden
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, &product); err != nil {
		return nil, err
	}
	s.invalidate(product.ID)
	return &product, nil
}

// GetProduct returns one product, from the cache when possible.
func (s *CatalogueServiceImpl) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if s.products == nil {
		return nil, ErrRepositoryNotConfigured
	}
	if p, ok := s.cached(id); ok {
		return &p, nil
	}
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%s: %w", id, model.ErrProductNotFound)
	}
	s.store(*p)
	return p, nil
}

// ListProducts returns every product ordered by name.
func (s *CatalogueServiceImpl) ListProducts(ctx context.Context) ([]model.Product, error) {
	if s.products == nil {
		return nil, ErrRepositoryNotConfigured
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	for _, p := range products {
		s.store(p)
	}
	return products, nil
}

// Lookup resolves ids through the cache and loads the misses in one query.
func (s *CatalogueServiceImpl) Lookup(ctx context.Context, ids []string) (model.Catalogue, error) {
	if s.products == nil {
		return nil, ErrRepositoryNotConfigured
	}
	catalogue := make(model.Catalogue, len(ids))
	var misses []string
	for _, id := range uniqueIDs(ids) {
		if p, ok := s.cached(id); ok {
			catalogue[id] = p
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) > 0 {
		found, err := s.products.FindByIDs(ctx, misses)
		if err != nil {
			return nil, fmt.Errorf("load products: %w", err)
		}
		for _, p := range found {
			catalogue[p.ID] = p
			s.store(p)
		}
	}
	for _, id := range misses {
		if _, ok := catalogue[id]; !ok {
			return nil, fmt.Errorf("%s: %w", id, model.ErrProductNotFound)
		}
	}
	return catalogue, nil
}

// All returns the full catalogue.
func (s *CatalogueServiceImpl) All(ctx context.Context) (model.Catalogue, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return model.NewCatalogue(products), nil
}

func (s *CatalogueServiceImpl) cached(id string) (model.Product, bool) {
	if s.cache == nil {
		return model.Product{}, false
	}
	return s.cache.Get(id)
}

func (s *CatalogueServiceImpl) store(p model.Product) {
	if s.cache != nil {
		s.cache.Set(p.ID, p)
	}
}

func (s *CatalogueServiceImpl) invalidate(id string) {
	if s.cache != nil {
		s.cache.Invalidate(id)
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// RouteService manages delivery routes.
type RouteService interface {
	CreateRoute(ctx context.Context, session model.Session, route model.Route) (*model.Route, error)
	GetRoute(ctx context.Context, id string) (*model.Route, error)
	ListRoutes(ctx context.Context) ([]model.Route, error)
}

// RouteServiceImpl implements RouteService.
type RouteServiceImpl struct {
	routes repository.RouteRepositoryInterface
}

// NewRouteService creates a route service.
func NewRouteService(routes repository.RouteRepositoryInterface) *RouteServiceImpl {
	return &RouteServiceImpl{routes: routes}
}

// CreateRoute stores an active route.
func (s *RouteServiceImpl) CreateRoute(ctx context.Context, session model.Session, route model.Route) (*model.Route, error) {
	if s.routes == nil {
		return nil, ErrRepositoryNotConfigured
	}
	if !session.IsAdmin() {
		return nil, model.ErrForbidden
	}
	if strings.TrimSpace(route.ID) == "" {
		return nil, model.NewValidationError("id", "is required")
	}
	if strings.TrimSpace(route.Name) == "" {
		return nil, model.NewValidationError("name", "is required")
	}
	route.Active = true
	if err := s.routes.Create(ctx, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

// GetRoute returns a route or model.ErrRouteNotFound.
func (s *RouteServiceImpl) GetRoute(ctx context.Context, id string) (*model.Route, error) {
	if s.routes == nil {
		return nil, ErrRepositoryNotConfigured
	}
	route, err := s.routes.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find route: %w", err)
	}
	if route == nil {
		return nil, fmt.Errorf("%s: %w", id, model.ErrRouteNotFound)
	}
	return route, nil
}

// ListRoutes returns every route ordered by name.
func (s *RouteServiceImpl) ListRoutes(ctx context.Context) ([]model.Route, error) {
	if s.routes == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.routes.List(ctx)
}
