package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"khata/internal/domain"
	"khata/internal/tax"
)

// MockJurisdictionService is a mock implementation of service.JurisdictionService.
type MockJurisdictionService struct {
	mock.Mock
}

func (m *MockJurisdictionService) List(ctx context.Context) ([]domain.Jurisdiction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Jurisdiction), args.Error(1)
}

func (m *MockJurisdictionService) Regions(ctx context.Context) (*tax.Regions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.Regions), args.Error(1)
}

func (m *MockJurisdictionService) Calculator(ctx context.Context) (*tax.Calculator, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.Calculator), args.Error(1)
}

func (m *MockJurisdictionService) Invalidate() {
	m.Called()
}
