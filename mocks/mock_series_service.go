package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"khata/internal/domain"
	"khata/internal/port"
	"khata/internal/service"
)

// MockSeriesService is a mock implementation of service.SeriesService.
type MockSeriesService struct {
	mock.Mock
}

func (m *MockSeriesService) Create(ctx context.Context, input *service.CreateSeriesInput) (*domain.NumberingSeries, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NumberingSeries), args.Error(1)
}

func (m *MockSeriesService) GetByID(ctx context.Context, tenantID, seriesID uuid.UUID) (*domain.NumberingSeries, error) {
	args := m.Called(ctx, tenantID, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NumberingSeries), args.Error(1)
}

func (m *MockSeriesService) List(ctx context.Context, filter port.SeriesFilter) ([]domain.NumberingSeries, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NumberingSeries), args.Error(1)
}

func (m *MockSeriesService) Update(ctx context.Context, input *service.UpdateSeriesInput) (*domain.NumberingSeries, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NumberingSeries), args.Error(1)
}

func (m *MockSeriesService) SetDefault(ctx context.Context, tenantID, seriesID uuid.UUID) (*domain.NumberingSeries, error) {
	args := m.Called(ctx, tenantID, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NumberingSeries), args.Error(1)
}

func (m *MockSeriesService) Delete(ctx context.Context, tenantID, seriesID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, seriesID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSeriesService) PreviewNext(ctx context.Context, tenantID, seriesID uuid.UUID) (*service.Preview, error) {
	args := m.Called(ctx, tenantID, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Preview), args.Error(1)
}

func (m *MockSeriesService) ListHistory(ctx context.Context, tenantID, seriesID uuid.UUID, offset, limit int) ([]domain.NumberingHistory, int, error) {
	args := m.Called(ctx, tenantID, seriesID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.NumberingHistory), args.Int(1), args.Error(2)
}

func (m *MockSeriesService) ExportHistory(ctx context.Context, tenantID, seriesID uuid.UUID) (*domain.NumberingSeries, []domain.NumberingHistory, error) {
	args := m.Called(ctx, tenantID, seriesID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	rows, _ := args.Get(1).([]domain.NumberingHistory)
	return args.Get(0).(*domain.NumberingSeries), rows, args.Error(2)
}
