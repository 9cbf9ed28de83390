// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"
	"io"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/guttosm/distribution-service/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockAssignmentService mocks service.AssignmentService.
type MockAssignmentService struct {
	mock.Mock
}

// NewMockAssignmentService creates a mock that asserts its expectations on cleanup.
func NewMockAssignmentService(t TestingT) *MockAssignmentService {
	m := &MockAssignmentService{}
	register(t, &m.Mock)
	return m
}

func (m *MockAssignmentService) Assign(ctx context.Context, session model.Session, req service.AssignRequest) (*service.AssignResult, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AssignResult), args.Error(1)
}

func (m *MockAssignmentService) ClaimRoute(ctx context.Context, session model.Session, req service.RouteDayRequest) (*model.DailyStock, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyStock), args.Error(1)
}

func (m *MockAssignmentService) ReturnRemaining(ctx context.Context, session model.Session, req service.RouteDayRequest) (*service.ReturnResult, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReturnResult), args.Error(1)
}

func (m *MockAssignmentService) GetDaily(ctx context.Context, session model.Session, req service.RouteDayRequest) ([]model.DailyStock, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DailyStock), args.Error(1)
}

// MockSaleService mocks service.SaleService.
type MockSaleService struct {
	mock.Mock
}

// NewMockSaleService creates a mock that asserts its expectations on cleanup.
func NewMockSaleService(t TestingT) *MockSaleService {
	m := &MockSaleService{}
	register(t, &m.Mock)
	return m
}

func (m *MockSaleService) Record(ctx context.Context, session model.Session, req service.SaleRequest) (*model.Sale, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sale), args.Error(1)
}

func (m *MockSaleService) List(ctx context.Context, session model.Session, routeID, date string) ([]model.Sale, error) {
	args := m.Called(ctx, session, routeID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Sale), args.Error(1)
}

// MockWarehouseService mocks service.WarehouseService.
type MockWarehouseService struct {
	mock.Mock
}

// NewMockWarehouseService creates a mock that asserts its expectations on cleanup.
func NewMockWarehouseService(t TestingT) *MockWarehouseService {
	m := &MockWarehouseService{}
	register(t, &m.Mock)
	return m
}

func (m *MockWarehouseService) Receive(ctx context.Context, session model.Session, productID string, qty model.Quantity, note string) (*service.WarehouseChange, error) {
	args := m.Called(ctx, session, productID, qty, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WarehouseChange), args.Error(1)
}

func (m *MockWarehouseService) Adjust(ctx context.Context, session model.Session, productID string, delta model.Quantity, note string) (*service.WarehouseChange, error) {
	args := m.Called(ctx, session, productID, delta, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WarehouseChange), args.Error(1)
}

func (m *MockWarehouseService) Levels(ctx context.Context) ([]service.WarehouseLevel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.WarehouseLevel), args.Error(1)
}

func (m *MockWarehouseService) Movements(ctx context.Context, productID string, limit int) ([]model.Movement, error) {
	args := m.Called(ctx, productID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Movement), args.Error(1)
}

// MockReportService mocks service.ReportService.
type MockReportService struct {
	mock.Mock
}

// NewMockReportService creates a mock that asserts its expectations on cleanup.
func NewMockReportService(t TestingT) *MockReportService {
	m := &MockReportService{}
	register(t, &m.Mock)
	return m
}

func (m *MockReportService) Stock(ctx context.Context, session model.Session, q model.ReportQuery) (*model.Report, error) {
	args := m.Called(ctx, session, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

// ExportXLSX runs a func(io.Writer) error return value against w, or returns the error.
func (m *MockReportService) ExportXLSX(ctx context.Context, session model.Session, q model.ReportQuery, w io.Writer) error {
	args := m.Called(ctx, session, q, w)
	if write, ok := args.Get(0).(func(io.Writer) error); ok {
		return write(w)
	}
	return args.Error(0)
}
