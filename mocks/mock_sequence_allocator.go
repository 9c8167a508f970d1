package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"khata/internal/domain"
	"khata/internal/port"
	"khata/internal/service"
)

// MockSequenceAllocator is a mock implementation of service.SequenceAllocator.
type MockSequenceAllocator struct {
	mock.Mock
}

func (m *MockSequenceAllocator) Allocate(ctx context.Context, input *service.AllocateInput) (*domain.Allocation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Allocation), args.Error(1)
}

func (m *MockSequenceAllocator) AllocateTx(ctx context.Context, tx port.Tx, input *service.AllocateInput) (*domain.Allocation, error) {
	args := m.Called(ctx, tx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Allocation), args.Error(1)
}
