// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

// MockCatalogueService mocks service.CatalogueService.
type MockCatalogueService struct {
	mock.Mock
}

// NewMockCatalogueService creates a mock that asserts its expectations on cleanup.
func NewMockCatalogueService(t TestingT) *MockCatalogueService {
	m := &MockCatalogueService{}
	register(t, &m.Mock)
	return m
}

func (m *MockCatalogueService) CreateProduct(ctx context.Context, session model.Session, product model.Product) (*model.Product, error) {
	args := m.Called(ctx, session, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogueService) UpdateProduct(ctx context.Context, session model.Session, product model.Product) (*model.Product, error) {
	args := m.Called(ctx, session, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogueService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogueService) ListProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogueService) Lookup(ctx context.Context, ids []string) (model.Catalogue, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Catalogue), args.Error(1)
}

func (m *MockCatalogueService) All(ctx context.Context) (model.Catalogue, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Catalogue), args.Error(1)
}

// MockRouteService mocks service.RouteService.
type MockRouteService struct {
	mock.Mock
}

// NewMockRouteService creates a mock that asserts its expectations on cleanup.
func NewMockRouteService(t TestingT) *MockRouteService {
	m := &MockRouteService{}
	register(t, &m.Mock)
	return m
}

func (m *MockRouteService) CreateRoute(ctx context.Context, session model.Session, route model.Route) (*model.Route, error) {
	args := m.Called(ctx, session, route)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Route), args.Error(1)
}

func (m *MockRouteService) GetRoute(ctx context.Context, id string) (*model.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Route), args.Error(1)
}

func (m *MockRouteService) ListRoutes(ctx context.Context) ([]model.Route, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Route), args.Error(1)
}
