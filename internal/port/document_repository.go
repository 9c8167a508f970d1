package port

import (
	"context"

	"github.com/google/uuid"

	"khata/internal/domain"
)

// DocumentFilter narrows a document listing. Zero values match everything.
type DocumentFilter struct {
	TenantID     uuid.UUID
	DocumentType domain.DocumentType
	Status       domain.DocumentStatus
}

// DocumentRepository defines the contract for reading documents.
// All query methods include tenantID for tenant isolation.
type DocumentRepository interface {
	// GetByID returns the document with its line items and ledger entries.
	GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.Document, error)
	// List returns headers only, newest first, and the total match count.
	List(ctx context.Context, filter DocumentFilter, offset, limit int) ([]domain.Document, int, error)
}

// DocumentTxRepository mutates documents inside a transaction.
type DocumentTxRepository interface {
	// LockByID locks the document row and returns it with items and entries.
	LockByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.Document, error)
	// Insert stores the header together with doc.Items and doc.Entries.
	Insert(ctx context.Context, doc *domain.Document) error
	UpdateHeader(ctx context.Context, doc *domain.Document) error
	ReplaceItems(ctx context.Context, doc *domain.Document) error
	ReplaceEntries(ctx context.Context, doc *domain.Document) error
}
