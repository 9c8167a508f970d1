package memory

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"khata/internal/domain"
	"khata/internal/port"
)

type seriesReader struct {
	s *Store
}

func (r *seriesReader) GetByID(_ context.Context, tenantID, seriesID uuid.UUID) (*domain.NumberingSeries, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.series[seriesID]
	if !ok || s.TenantID != tenantID {
		return nil, domain.ErrSeriesNotFound
	}
	return cloneSeries(s), nil
}

func (r *seriesReader) GetDefault(_ context.Context, tenantID uuid.UUID, docType domain.DocumentType, branch string) (*domain.NumberingSeries, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range r.s.seriesOrder {
		s := r.s.series[id]
		if s.IsDefault && s.TenantID == tenantID && s.DocumentType == docType && s.Branch == branch {
			return cloneSeries(s), nil
		}
	}
	return nil, domain.ErrSeriesNotFound
}

func (r *seriesReader) List(_ context.Context, filter port.SeriesFilter) ([]domain.NumberingSeries, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.NumberingSeries, 0)
	for _, id := range r.s.seriesOrder {
		s := r.s.series[id]
		if s.TenantID != filter.TenantID {
			continue
		}
		if filter.DocumentType != "" && s.DocumentType != filter.DocumentType {
			continue
		}
		if filter.ActiveOnly && !s.IsActive {
			continue
		}
		out = append(out, *cloneSeries(s))
	}
	return out, nil
}

func (r *seriesReader) ListHistory(_ context.Context, tenantID, seriesID uuid.UUID, offset, limit int) ([]domain.NumberingHistory, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := lo.Filter(r.s.history, func(h domain.NumberingHistory, _ int) bool {
		return h.TenantID == tenantID && h.SeriesID == seriesID
	})
	return page(rows, offset, limit), len(rows), nil
}

func page[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return append([]T(nil), rows...)
}

type seriesTx struct {
	t *tx
}

func (r *seriesTx) LockByID(ctx context.Context, tenantID, seriesID uuid.UUID) (*domain.NumberingSeries, error) {
	if s, ok := r.t.viewSeries(seriesID); !ok || s.TenantID != tenantID {
		return nil, domain.ErrSeriesNotFound
	}
	if err := r.t.lock(ctx, seriesID); err != nil {
		return nil, errors.Wrap(err, "memory.series.LockByID")
	}
	s, ok := r.t.viewSeries(seriesID)
	if !ok || s.TenantID != tenantID {
		return nil, domain.ErrSeriesNotFound
	}
	return s, nil
}

func (r *seriesTx) LockDefault(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType, branch string) (*domain.NumberingSeries, error) {
	want := &domain.NumberingSeries{TenantID: tenantID, DocumentType: docType, Branch: branch}
	for {
		candidate, ok := lo.Find(r.t.allSeries(), func(s *domain.NumberingSeries) bool {
			return s.IsDefault && sameDefaultTuple(s, want)
		})
		if !ok {
			return nil, domain.ErrSeriesNotFound
		}
		if err := r.t.lock(ctx, candidate.ID); err != nil {
			return nil, errors.Wrap(err, "memory.series.LockDefault")
		}
		// The default may have moved while we waited for the lock.
		s, ok := r.t.viewSeries(candidate.ID)
		if ok && s.IsDefault && sameDefaultTuple(s, want) {
			return s, nil
		}
	}
}

func (r *seriesTx) Insert(ctx context.Context, s *domain.NumberingSeries) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = s.CreatedAt
	if err := r.t.lock(ctx, s.ID); err != nil {
		return err
	}
	r.t.series[s.ID] = cloneSeries(s)
	r.t.seriesAdded = append(r.t.seriesAdded, s.ID)
	return nil
}

func (r *seriesTx) Update(_ context.Context, s *domain.NumberingSeries) error {
	if _, ok := r.t.viewSeries(s.ID); !ok {
		return domain.ErrSeriesNotFound
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now().UTC()
	}
	r.t.series[s.ID] = cloneSeries(s)
	return nil
}

func (r *seriesTx) ClearDefault(ctx context.Context, tenantID uuid.UUID, docType domain.DocumentType, branch string, keepID uuid.UUID) error {
	want := &domain.NumberingSeries{TenantID: tenantID, DocumentType: docType, Branch: branch}
	for _, s := range r.t.allSeries() {
		if s.ID == keepID || !s.IsDefault || !sameDefaultTuple(s, want) {
			continue
		}
		if err := r.t.lock(ctx, s.ID); err != nil {
			return errors.Wrap(err, "memory.series.ClearDefault")
		}
		current, ok := r.t.viewSeries(s.ID)
		if !ok || !current.IsDefault {
			continue
		}
		current.IsDefault = false
		current.UpdatedAt = time.Now().UTC()
		r.t.series[s.ID] = current
	}
	return nil
}

func (r *seriesTx) Delete(ctx context.Context, tenantID, seriesID uuid.UUID) error {
	if _, err := r.LockByID(ctx, tenantID, seriesID); err != nil {
		return err
	}
	delete(r.t.series, seriesID)
	r.t.seriesDeleted[seriesID] = true
	return nil
}

func (r *seriesTx) CountHistory(_ context.Context, tenantID, seriesID uuid.UUID) (int, error) {
	match := func(h domain.NumberingHistory) bool {
		return h.TenantID == tenantID && h.SeriesID == seriesID
	}
	r.t.s.mu.RLock()
	n := lo.CountBy(r.t.s.history, match)
	r.t.s.mu.RUnlock()
	return n + lo.CountBy(r.t.history, match), nil
}

func (r *seriesTx) AppendHistory(_ context.Context, h *domain.NumberingHistory) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.GeneratedAt.IsZero() {
		h.GeneratedAt = time.Now().UTC()
	}
	r.t.history = append(r.t.history, *h)
	return nil
}
