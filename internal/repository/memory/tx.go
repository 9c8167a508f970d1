package memory

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"khata/internal/domain"
	"khata/internal/port"
)

type tx struct {
	s *Store

	held     map[uuid.UUID]chan struct{}
	released bool

	series        map[uuid.UUID]*domain.NumberingSeries
	seriesAdded   []uuid.UUID
	seriesDeleted map[uuid.UUID]bool
	history       []domain.NumberingHistory
	docs          map[uuid.UUID]*domain.Document
	docsAdded     []uuid.UUID
}

func newTx(s *Store) *tx {
	return &tx{
		s:             s,
		held:          make(map[uuid.UUID]chan struct{}),
		series:        make(map[uuid.UUID]*domain.NumberingSeries),
		seriesDeleted: make(map[uuid.UUID]bool),
		docs:          make(map[uuid.UUID]*domain.Document),
	}
}

func (t *tx) Series() port.SeriesTxRepository     { return &seriesTx{t: t} }
func (t *tx) Documents() port.DocumentTxRepository { return &documentTx{t: t} }

// lock blocks until the row lock for id is free or ctx is done. Locks already
// held by this transaction are re-entrant.
func (t *tx) lock(ctx context.Context, id uuid.UUID) error {
	if _, ok := t.held[id]; ok {
		return nil
	}
	ch := t.s.rowLock(id)
	select {
	case ch <- struct{}{}:
		t.held[id] = ch
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *tx) release() {
	if t.released {
		return
	}
	t.released = true
	for _, ch := range t.held {
		<-ch
	}
	t.held = nil
}

// viewSeries returns the series as this transaction sees it.
func (t *tx) viewSeries(id uuid.UUID) (*domain.NumberingSeries, bool) {
	if t.seriesDeleted[id] {
		return nil, false
	}
	if s, ok := t.series[id]; ok {
		return cloneSeries(s), true
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if s, ok := t.s.series[id]; ok {
		return cloneSeries(s), true
	}
	return nil, false
}

// allSeries lists committed and staged series as this transaction sees them.
func (t *tx) allSeries() []*domain.NumberingSeries {
	t.s.mu.RLock()
	out := make([]*domain.NumberingSeries, 0, len(t.s.series)+len(t.seriesAdded))
	for _, id := range t.s.seriesOrder {
		if t.seriesDeleted[id] {
			continue
		}
		if staged, ok := t.series[id]; ok {
			out = append(out, cloneSeries(staged))
			continue
		}
		out = append(out, cloneSeries(t.s.series[id]))
	}
	t.s.mu.RUnlock()
	for _, id := range t.seriesAdded {
		if !t.seriesDeleted[id] {
			out = append(out, cloneSeries(t.series[id]))
		}
	}
	return out
}

func (t *tx) viewDocument(id uuid.UUID) (*domain.Document, bool) {
	if d, ok := t.docs[id]; ok {
		return cloneDocument(d), true
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if d, ok := t.s.docs[id]; ok {
		return cloneDocument(d), true
	}
	return nil, false
}

func (t *tx) commit() error {
	st := t.s
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := t.checkConstraints(); err != nil {
		return err
	}

	for id := range t.seriesDeleted {
		if _, ok := st.series[id]; ok {
			delete(st.series, id)
			st.seriesOrder = removeID(st.seriesOrder, id)
		}
	}
	for id, s := range t.series {
		if t.seriesDeleted[id] {
			continue
		}
		st.series[id] = s
	}
	for _, id := range t.seriesAdded {
		if !t.seriesDeleted[id] {
			st.seriesOrder = append(st.seriesOrder, id)
		}
	}
	st.history = append(st.history, t.history...)
	for id, d := range t.docs {
		st.docs[id] = d
	}
	st.docOrder = append(st.docOrder, t.docsAdded...)
	return nil
}

// checkConstraints enforces the unique indexes of the relational schema. Callers hold st.mu.
func (t *tx) checkConstraints() error {
	st := t.s
	merged := func(id uuid.UUID) *domain.NumberingSeries {
		if t.seriesDeleted[id] {
			return nil
		}
		if s, ok := t.series[id]; ok {
			return s
		}
		return st.series[id]
	}

	for id, s := range t.series {
		if t.seriesDeleted[id] || !s.IsDefault {
			continue
		}
		for otherID := range st.series {
			other := merged(otherID)
			if otherID != id && other != nil && other.IsDefault && sameDefaultTuple(s, other) {
				return errors.Newf("memory: series %s conflicts with default series %s", id, otherID)
			}
		}
		for otherID, other := range t.series {
			if otherID != id && !t.seriesDeleted[otherID] && other.IsDefault && sameDefaultTuple(s, other) {
				return errors.Newf("memory: series %s conflicts with default series %s", id, otherID)
			}
		}
	}

	for i := range t.history {
		h := &t.history[i]
		for j := range st.history {
			if st.history[j].SeriesID == h.SeriesID && st.history[j].GeneratedNumber == h.GeneratedNumber {
				return errors.Newf("memory: number %s already recorded for series %s", h.GeneratedNumber, h.SeriesID)
			}
		}
	}

	for id, d := range t.docs {
		if d.DocumentNumber == nil || d.SeriesID == nil {
			continue
		}
		for otherID, other := range st.docs {
			if staged, ok := t.docs[otherID]; ok {
				other = staged
			}
			if otherID != id && other.TenantID == d.TenantID && other.SeriesID != nil && *other.SeriesID == *d.SeriesID &&
				other.DocumentNumber != nil && *other.DocumentNumber == *d.DocumentNumber {
				return errors.Newf("memory: document number %s already used", *d.DocumentNumber)
			}
		}
	}
	return nil
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i := range ids {
		if ids[i] == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
