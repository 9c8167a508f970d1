package memory

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"khata/internal/domain"
	"khata/internal/port"
)

type documentReader struct {
	s *Store
}

func (r *documentReader) GetByID(_ context.Context, tenantID, docID uuid.UUID) (*domain.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.docs[docID]
	if !ok || d.TenantID != tenantID {
		return nil, domain.ErrDocumentNotFound
	}
	return cloneDocument(d), nil
}

func (r *documentReader) List(_ context.Context, filter port.DocumentFilter, offset, limit int) ([]domain.Document, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := make([]domain.Document, 0)
	// Newest first.
	for i := len(r.s.docOrder) - 1; i >= 0; i-- {
		d := r.s.docs[r.s.docOrder[i]]
		if d.TenantID != filter.TenantID {
			continue
		}
		if filter.DocumentType != "" && d.DocumentType != filter.DocumentType {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		header := cloneDocument(d)
		header.Items, header.Entries = nil, nil
		rows = append(rows, *header)
	}
	return page(rows, offset, limit), len(rows), nil
}

type documentTx struct {
	t *tx
}

func (r *documentTx) LockByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.Document, error) {
	if d, ok := r.t.viewDocument(docID); !ok || d.TenantID != tenantID {
		return nil, domain.ErrDocumentNotFound
	}
	if err := r.t.lock(ctx, docID); err != nil {
		return nil, errors.Wrap(err, "memory.documents.LockByID")
	}
	d, _ := r.t.viewDocument(docID)
	return d, nil
}

func (r *documentTx) Insert(ctx context.Context, doc *domain.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = doc.CreatedAt
	doc.AdoptChildren()
	if err := r.t.lock(ctx, doc.ID); err != nil {
		return err
	}
	r.t.docs[doc.ID] = cloneDocument(doc)
	r.t.docsAdded = append(r.t.docsAdded, doc.ID)
	return nil
}

func (r *documentTx) UpdateHeader(_ context.Context, doc *domain.Document) error {
	current, ok := r.t.viewDocument(doc.ID)
	if !ok || current.TenantID != doc.TenantID {
		return domain.ErrDocumentNotFound
	}
	next := cloneDocument(doc)
	next.Items, next.Entries = current.Items, current.Entries
	if next.UpdatedAt.IsZero() {
		next.UpdatedAt = time.Now().UTC()
	}
	r.t.docs[doc.ID] = next
	return nil
}

func (r *documentTx) ReplaceItems(_ context.Context, doc *domain.Document) error {
	current, ok := r.t.viewDocument(doc.ID)
	if !ok || current.TenantID != doc.TenantID {
		return domain.ErrDocumentNotFound
	}
	doc.AdoptChildren()
	current.Items = append([]domain.LineItem(nil), doc.Items...)
	r.t.docs[doc.ID] = current
	return nil
}

func (r *documentTx) ReplaceEntries(_ context.Context, doc *domain.Document) error {
	current, ok := r.t.viewDocument(doc.ID)
	if !ok || current.TenantID != doc.TenantID {
		return domain.ErrDocumentNotFound
	}
	doc.AdoptChildren()
	current.Entries = append([]domain.LedgerEntry(nil), doc.Entries...)
	r.t.docs[doc.ID] = current
	return nil
}
