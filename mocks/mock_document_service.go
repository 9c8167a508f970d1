package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"khata/internal/domain"
	"khata/internal/port"
	"khata/internal/service"
	"khata/internal/tax"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) document(args mock.Arguments) (*domain.Document, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) ComputeTotals(ctx context.Context, input *service.TotalsInput) (*tax.Totals, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tax.Totals), args.Error(1)
}

func (m *MockDocumentService) Create(ctx context.Context, input *service.CreateDocumentInput) (*domain.Document, error) {
	return m.document(m.Called(ctx, input))
}

func (m *MockDocumentService) GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.Document, error) {
	return m.document(m.Called(ctx, tenantID, docID))
}

func (m *MockDocumentService) List(ctx context.Context, filter port.DocumentFilter, offset, limit int) ([]domain.Document, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Document), args.Int(1), args.Error(2)
}

func (m *MockDocumentService) ReplaceItems(ctx context.Context, tenantID, docID uuid.UUID, items []service.LineItemInput) (*domain.Document, error) {
	return m.document(m.Called(ctx, tenantID, docID, items))
}

func (m *MockDocumentService) ReplaceEntries(ctx context.Context, tenantID, docID uuid.UUID, entries []service.LedgerEntryInput) (*domain.Document, error) {
	return m.document(m.Called(ctx, tenantID, docID, entries))
}

func (m *MockDocumentService) AssignNumber(ctx context.Context, tenantID, docID uuid.UUID, seriesID *uuid.UUID) (*domain.Document, error) {
	return m.document(m.Called(ctx, tenantID, docID, seriesID))
}

func (m *MockDocumentService) Post(ctx context.Context, tenantID, docID, actorID uuid.UUID) (*domain.Document, error) {
	return m.document(m.Called(ctx, tenantID, docID, actorID))
}

func (m *MockDocumentService) Cancel(ctx context.Context, tenantID, docID, actorID uuid.UUID, reason string) (*domain.Document, error) {
	return m.document(m.Called(ctx, tenantID, docID, actorID, reason))
}
