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

// lockDefaultAttempts bounds retries when the default moves while LockDefault waits.
const lockDefaultAttempts = 3

// seriesRepo serves both the pool-backed reader and the transaction-bound writer.
type seriesRepo struct {
	q sqlx.ExtContext
}

var (
	_ port.SeriesRepository   = (*seriesRepo)(nil)
	_ port.SeriesTxRepository = (*seriesRepo)(nil)
)

func (r *seriesRepo) GetByID(ctx context.Context, tenantID, seriesID uuid.UUID) (*domain.NumberingSeries, error) {
	return r.getOne(ctx, "seriesRepo.GetByID",
		"SELECT * FROM numbering_series WHERE id = $1 AND tenant_id = $2", seriesID, tenantID)
}

func (r *seriesRepo) GetDefault(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType, branch string) (*domain.NumberingSeries, error) {
	return r.getOne(ctx, "seriesRepo.GetDefault",
		`SELECT * FROM numbering_series
		 WHERE tenant_id = $1 AND document_type = $2 AND branch = $3 AND is_default`,
		tenantID, docType, branch)
}

func (r *seriesRepo) List(ctx context.Context, filter port.SeriesFilter) ([]domain.NumberingSeries, error) {
	series := []domain.NumberingSeries{}
	err := sqlx.SelectContext(ctx, r.q, &series,
		`SELECT * FROM numbering_series
		 WHERE tenant_id = $1
		   AND ($2 = '' OR document_type = $2)
		   AND (NOT $3 OR is_active)
		 ORDER BY created_at`,
		filter.TenantID, string(filter.DocumentType), filter.ActiveOnly)
	if err != nil {
		return nil, fmt.Errorf("seriesRepo.List: %w", err)
	}
	return series, nil
}

func (r *seriesRepo) ListHistory(ctx context.Context, tenantID, seriesID uuid.UUID, offset, limit int) ([]domain.NumberingHistory, int, error) {
	var total int
	err := sqlx.GetContext(ctx, r.q, &total,
		"SELECT COUNT(*) FROM numbering_history WHERE tenant_id = $1 AND series_id = $2",
		tenantID, seriesID)
	if err != nil {
		return nil, 0, fmt.Errorf("seriesRepo.ListHistory count: %w", err)
	}

	rows := []domain.NumberingHistory{}
	err = sqlx.SelectContext(ctx, r.q, &rows,
		`SELECT * FROM numbering_history WHERE tenant_id = $1 AND series_id = $2
		 ORDER BY generated_at, sequence_used LIMIT NULLIF($3::bigint, 0) OFFSET $4`,
		tenantID, seriesID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("seriesRepo.ListHistory: %w", err)
	}
	return rows, total, nil
}

func (r *seriesRepo) LockByID(ctx context.Context, tenantID, seriesID uuid.UUID) (*domain.NumberingSeries, error) {
	return r.getOne(ctx, "seriesRepo.LockByID",
		"SELECT * FROM numbering_series WHERE id = $1 AND tenant_id = $2 FOR UPDATE", seriesID, tenantID)
}

func (r *seriesRepo) LockDefault(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType, branch string) (*domain.NumberingSeries, error) {
	for attempt := 0; attempt < lockDefaultAttempts; attempt++ {
		s, err := r.getOne(ctx, "seriesRepo.LockDefault",
			`SELECT * FROM numbering_series
			 WHERE tenant_id = $1 AND document_type = $2 AND branch = $3 AND is_default
			 FOR UPDATE`,
			tenantID, docType, branch)
		if !errors.Is(err, domain.ErrSeriesNotFound) {
			return s, err
		}
		// A concurrent setDefault may have moved the flag while we waited on the old row.
		if _, err := r.GetDefault(ctx, tenantID, docType, branch); err != nil {
			return nil, err
		}
	}
	return nil, domain.ErrSeriesNotFound
}

func (r *seriesRepo) Insert(ctx context.Context, s *domain.NumberingSeries) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = s.CreatedAt

	_, err := sqlx.NamedExecContext(ctx, r.q,
		`INSERT INTO numbering_series (
			id, tenant_id, document_type, branch, name, prefix, format, separator,
			sequence_length, current_sequence, start_number, end_number,
			reset_frequency, last_reset_at, is_default, is_active,
			created_by, created_at, updated_at
		) VALUES (
			:id, :tenant_id, :document_type, :branch, :name, :prefix, :format, :separator,
			:sequence_length, :current_sequence, :start_number, :end_number,
			:reset_frequency, :last_reset_at, :is_default, :is_active,
			:created_by, :created_at, :updated_at
		)`, s)
	if err != nil {
		if isUniqueViolation(err, "uq_numbering_series_default") {
			return domain.Validationf("another default series exists for %s", s.DocumentType)
		}
		return fmt.Errorf("seriesRepo.Insert: %w", err)
	}
	return nil
}

func (r *seriesRepo) Update(ctx context.Context, s *domain.NumberingSeries) error {
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now().UTC()
	}
	result, err := sqlx.NamedExecContext(ctx, r.q,
		`UPDATE numbering_series SET
			name = :name, prefix = :prefix, format = :format, separator = :separator,
			sequence_length = :sequence_length, current_sequence = :current_sequence,
			start_number = :start_number, end_number = :end_number,
			reset_frequency = :reset_frequency, last_reset_at = :last_reset_at,
			is_default = :is_default, is_active = :is_active, updated_at = :updated_at
		 WHERE id = :id AND tenant_id = :tenant_id`, s)
	if err != nil {
		if isUniqueViolation(err, "uq_numbering_series_default") {
			return domain.Validationf("another default series exists for %s", s.DocumentType)
		}
		return fmt.Errorf("seriesRepo.Update: %w", err)
	}
	return expectOne(result, domain.ErrSeriesNotFound)
}

func (r *seriesRepo) ClearDefault(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType, branch string, keepID uuid.UUID) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE numbering_series SET is_default = FALSE, updated_at = $5
		 WHERE tenant_id = $1 AND document_type = $2 AND branch = $3 AND is_default AND id <> $4`,
		tenantID, docType, branch, keepID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("seriesRepo.ClearDefault: %w", err)
	}
	return nil
}

func (r *seriesRepo) Delete(ctx context.Context, tenantID, seriesID uuid.UUID) error {
	result, err := r.q.ExecContext(ctx,
		"DELETE FROM numbering_series WHERE id = $1 AND tenant_id = $2", seriesID, tenantID)
	if err != nil {
		return fmt.Errorf("seriesRepo.Delete: %w", err)
	}
	return expectOne(result, domain.ErrSeriesNotFound)
}

func (r *seriesRepo) CountHistory(ctx context.Context, tenantID, seriesID uuid.UUID) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n,
		"SELECT COUNT(*) FROM numbering_history WHERE tenant_id = $1 AND series_id = $2",
		tenantID, seriesID)
	if err != nil {
		return 0, fmt.Errorf("seriesRepo.CountHistory: %w", err)
	}
	return n, nil
}

func (r *seriesRepo) AppendHistory(ctx context.Context, h *domain.NumberingHistory) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.GeneratedAt.IsZero() {
		h.GeneratedAt = time.Now().UTC()
	}
	_, err := sqlx.NamedExecContext(ctx, r.q,
		`INSERT INTO numbering_history (
			id, tenant_id, series_id, document_id, generated_number, sequence_used, generated_at
		) VALUES (
			:id, :tenant_id, :series_id, :document_id, :generated_number, :sequence_used, :generated_at
		)`, h)
	if err != nil {
		return fmt.Errorf("seriesRepo.AppendHistory: %w", err)
	}
	return nil
}

func (r *seriesRepo) getOne(ctx context.Context, op, query string, args ...interface{}) (*domain.NumberingSeries, error) {
	var s domain.NumberingSeries
	if err := sqlx.GetContext(ctx, r.q, &s, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSeriesNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

func expectOne(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
