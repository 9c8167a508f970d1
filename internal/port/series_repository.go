package port

import (
	"context"

	"github.com/google/uuid"

	"khata/internal/domain"
)

// SeriesFilter narrows a series listing.
type SeriesFilter struct {
	TenantID     uuid.UUID
	DocumentType domain.DocumentType
	ActiveOnly   bool
}

// SeriesRepository reads numbering series and their history outside a transaction.
// Results are a snapshot and must not be used to advance a sequence.
type SeriesRepository interface {
	GetByID(ctx context.Context, tenantID, seriesID uuid.UUID) (*domain.NumberingSeries, error)
	GetDefault(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType, branch string) (*domain.NumberingSeries, error)
	List(ctx context.Context, filter SeriesFilter) ([]domain.NumberingSeries, error)
	ListHistory(ctx context.Context, tenantID, seriesID uuid.UUID, offset, limit int) ([]domain.NumberingHistory, int, error)
}

// SeriesTxRepository mutates numbering series inside a transaction.
// Lock methods hold an exclusive lock on the series row until the transaction ends.
type SeriesTxRepository interface {
	LockByID(ctx context.Context, tenantID, seriesID uuid.UUID) (*domain.NumberingSeries, error)
	LockDefault(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType, branch string) (*domain.NumberingSeries, error)
	Insert(ctx context.Context, s *domain.NumberingSeries) error
	Update(ctx context.Context, s *domain.NumberingSeries) error
	// ClearDefault unsets is_default on every series of the tuple except keepID.
	ClearDefault(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType, branch string, keepID uuid.UUID) error
	Delete(ctx context.Context, tenantID, seriesID uuid.UUID) error
	CountHistory(ctx context.Context, tenantID, seriesID uuid.UUID) (int, error)
	AppendHistory(ctx context.Context, h *domain.NumberingHistory) error
}
