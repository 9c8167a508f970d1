package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"khata/internal/domain"
	"khata/internal/port"
)

type documentRepo struct {
	q sqlx.ExtContext
}

var (
	_ port.DocumentRepository   = (*documentRepo)(nil)
	_ port.DocumentTxRepository = (*documentRepo)(nil)
)

func (r *documentRepo) GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.Document, error) {
	return r.load(ctx, "documentRepo.GetByID",
		"SELECT * FROM documents WHERE id = $1 AND tenant_id = $2", tenantID, docID)
}

func (r *documentRepo) LockByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.Document, error) {
	return r.load(ctx, "documentRepo.LockByID",
		"SELECT * FROM documents WHERE id = $1 AND tenant_id = $2 FOR UPDATE", tenantID, docID)
}

func (r *documentRepo) List(ctx context.Context, filter port.DocumentFilter, offset, limit int) ([]domain.Document, int, error) {
	const where = `WHERE tenant_id = $1
		   AND ($2 = '' OR document_type = $2)
		   AND ($3 = '' OR status = $3)`

	var total int
	err := sqlx.GetContext(ctx, r.q, &total, "SELECT COUNT(*) FROM documents "+where,
		filter.TenantID, string(filter.DocumentType), string(filter.Status))
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List count: %w", err)
	}

	docs := []domain.Document{}
	err = sqlx.SelectContext(ctx, r.q, &docs,
		"SELECT * FROM documents "+where+" ORDER BY created_at DESC LIMIT NULLIF($4::bigint, 0) OFFSET $5",
		filter.TenantID, string(filter.DocumentType), string(filter.Status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, total, nil
}

func (r *documentRepo) Insert(ctx context.Context, doc *domain.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = doc.CreatedAt

	_, err := sqlx.NamedExecContext(ctx, r.q,
		`INSERT INTO documents (
			id, tenant_id, document_type, series_id, document_number, document_date,
			counterparty_id, counterparty_name, branch, origin_region, destination_region,
			reverse_liability, tax_treatment, subtotal, same_region_tax_1, same_region_tax_2,
			cross_region_tax, surcharge, rounding_delta, grand_total, status, notes,
			posted_by, posted_at, cancelled_by, cancelled_at, cancel_reason,
			created_by, created_at, updated_at
		) VALUES (
			:id, :tenant_id, :document_type, :series_id, :document_number, :document_date,
			:counterparty_id, :counterparty_name, :branch, :origin_region, :destination_region,
			:reverse_liability, :tax_treatment, :subtotal, :same_region_tax_1, :same_region_tax_2,
			:cross_region_tax, :surcharge, :rounding_delta, :grand_total, :status, :notes,
			:posted_by, :posted_at, :cancelled_by, :cancelled_at, :cancel_reason,
			:created_by, :created_at, :updated_at
		)`, doc)
	if err != nil {
		return fmt.Errorf("documentRepo.Insert: %w", err)
	}
	doc.AdoptChildren()
	if err := r.insertItems(ctx, doc.Items); err != nil {
		return err
	}
	return r.insertEntries(ctx, doc.Entries)
}

func (r *documentRepo) UpdateHeader(ctx context.Context, doc *domain.Document) error {
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	result, err := sqlx.NamedExecContext(ctx, r.q,
		`UPDATE documents SET
			series_id = :series_id, document_number = :document_number, document_date = :document_date,
			counterparty_id = :counterparty_id, counterparty_name = :counterparty_name,
			origin_region = :origin_region, destination_region = :destination_region,
			reverse_liability = :reverse_liability, tax_treatment = :tax_treatment,
			subtotal = :subtotal, same_region_tax_1 = :same_region_tax_1, same_region_tax_2 = :same_region_tax_2,
			cross_region_tax = :cross_region_tax, surcharge = :surcharge,
			rounding_delta = :rounding_delta, grand_total = :grand_total,
			status = :status, notes = :notes,
			posted_by = :posted_by, posted_at = :posted_at,
			cancelled_by = :cancelled_by, cancelled_at = :cancelled_at, cancel_reason = :cancel_reason,
			updated_at = :updated_at
		 WHERE id = :id AND tenant_id = :tenant_id`, doc)
	if err != nil {
		if isUniqueViolation(err, "uq_documents_number") {
			return fmt.Errorf("documentRepo.UpdateHeader: number %v already used: %w", doc.DocumentNumber, err)
		}
		return fmt.Errorf("documentRepo.UpdateHeader: %w", err)
	}
	return expectOne(result, domain.ErrDocumentNotFound)
}

func (r *documentRepo) ReplaceItems(ctx context.Context, doc *domain.Document) error {
	if _, err := r.q.ExecContext(ctx,
		"DELETE FROM document_line_items WHERE document_id = $1 AND tenant_id = $2", doc.ID, doc.TenantID); err != nil {
		return fmt.Errorf("documentRepo.ReplaceItems delete: %w", err)
	}
	doc.AdoptChildren()
	return r.insertItems(ctx, doc.Items)
}

func (r *documentRepo) ReplaceEntries(ctx context.Context, doc *domain.Document) error {
	if _, err := r.q.ExecContext(ctx,
		"DELETE FROM ledger_entries WHERE document_id = $1 AND tenant_id = $2", doc.ID, doc.TenantID); err != nil {
		return fmt.Errorf("documentRepo.ReplaceEntries delete: %w", err)
	}
	doc.AdoptChildren()
	return r.insertEntries(ctx, doc.Entries)
}

func (r *documentRepo) insertItems(ctx context.Context, items []domain.LineItem) error {
	for i := range items {
		_, err := sqlx.NamedExecContext(ctx, r.q,
			`INSERT INTO document_line_items (
				id, document_id, tenant_id, position, description, hsn_code,
				quantity, unit_rate, discount_pct, tax_rate, surcharge_rate, taxable_amount,
				same_region_tax_1, same_region_tax_2, cross_region_tax, surcharge, line_total
			) VALUES (
				:id, :document_id, :tenant_id, :position, :description, :hsn_code,
				:quantity, :unit_rate, :discount_pct, :tax_rate, :surcharge_rate, :taxable_amount,
				:same_region_tax_1, :same_region_tax_2, :cross_region_tax, :surcharge, :line_total
			)`, &items[i])
		if err != nil {
			return fmt.Errorf("documentRepo.insertItems: %w", err)
		}
	}
	return nil
}

func (r *documentRepo) insertEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	for i := range entries {
		_, err := sqlx.NamedExecContext(ctx, r.q,
			`INSERT INTO ledger_entries (
				id, document_id, tenant_id, position, ledger_ref, debit_amount, credit_amount, narration
			) VALUES (
				:id, :document_id, :tenant_id, :position, :ledger_ref, :debit_amount, :credit_amount, :narration
			)`, &entries[i])
		if err != nil {
			return fmt.Errorf("documentRepo.insertEntries: %w", err)
		}
	}
	return nil
}

// load reads the header with query and then its children. Query arguments are docID, tenantID.
func (r *documentRepo) load(ctx context.Context, op, query string, tenantID, docID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	if err := sqlx.GetContext(ctx, r.q, &doc, query, docID, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	doc.Items = []domain.LineItem{}
	if err := sqlx.SelectContext(ctx, r.q, &doc.Items,
		"SELECT * FROM document_line_items WHERE document_id = $1 ORDER BY position", doc.ID); err != nil {
		return nil, fmt.Errorf("%s items: %w", op, err)
	}
	doc.Entries = []domain.LedgerEntry{}
	if err := sqlx.SelectContext(ctx, r.q, &doc.Entries,
		"SELECT * FROM ledger_entries WHERE document_id = $1 ORDER BY position", doc.ID); err != nil {
		return nil, fmt.Errorf("%s entries: %w", op, err)
	}
	return &doc, nil
}
