package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"khata/internal/domain"
	"khata/internal/logger"
	"khata/internal/numbering"
	"khata/internal/port"
	"khata/internal/validator"
)

// AllocateInput is the DTO for allocating a document number.
type AllocateInput struct {
	TenantID     uuid.UUID           `json:"tenant_id" validate:"required"`
	DocumentType domain.DocumentType `json:"document_type" validate:"required,doc_type"`
	// Branch selects a branch default before falling back to the tenant-wide default.
	Branch   string     `json:"branch" validate:"max=10"`
	SeriesID *uuid.UUID `json:"series_id"`
	// DocumentID links the history row to a stored document of the tenant that has no number yet.
	DocumentID *uuid.UUID `json:"-"`
}

// SequenceAllocator hands out gapless document numbers.
type SequenceAllocator interface {
	// Allocate runs one allocation in its own transaction.
	Allocate(ctx context.Context, input *AllocateInput) (*domain.Allocation, error)
	// AllocateTx allocates inside a transaction owned by the caller. The series row
	// stays locked until that transaction ends.
	AllocateTx(ctx context.Context, tx port.Tx, input *AllocateInput) (*domain.Allocation, error)
}

type sequenceAllocator struct {
	store port.Store
	cal   numbering.Calendar
	log   *logger.Logger
	now   func() time.Time
}

// NewSequenceAllocator creates a new SequenceAllocator implementation.
func NewSequenceAllocator(store port.Store, cal numbering.Calendar, log *logger.Logger, opts ...Option) SequenceAllocator {
	o := applyOptions(opts)
	return &sequenceAllocator{store: store, cal: cal, log: log, now: o.now}
}

func (a *sequenceAllocator) Allocate(ctx context.Context, input *AllocateInput) (*domain.Allocation, error) {
	var alloc *domain.Allocation
	err := a.store.WithTx(ctx, func(ctx context.Context, tx port.Tx) error {
		var err error
		alloc, err = a.AllocateTx(ctx, tx, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	a.log.Infow("generated document number",
		"tenant_id", input.TenantID,
		"series_id", alloc.SeriesID,
		"sequence", alloc.Sequence,
		"document_number", alloc.DocumentNumber,
	)
	return alloc, nil
}

func (a *sequenceAllocator) AllocateTx(ctx context.Context, tx port.Tx, input *AllocateInput) (*domain.Allocation, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}
	if input.DocumentID != nil {
		doc, err := tx.Documents().LockByID(ctx, input.TenantID, *input.DocumentID)
		if err != nil {
			return nil, err
		}
		if doc.DocumentNumber != nil {
			return nil, domain.Validationf("document %s is already numbered %s", doc.ID, *doc.DocumentNumber)
		}
	}
	repo := tx.Series()

	s, err := a.resolve(ctx, repo, input)
	if err != nil {
		return nil, err
	}
	if !s.IsActive {
		return nil, errors.Wrapf(domain.ErrSeriesInactive, "series %s", s.ID)
	}

	now := a.now()
	plan, err := a.cal.Next(s, now)
	if err != nil {
		if errors.Is(err, domain.ErrSequenceExhausted) {
			a.log.Errorw("numbering series exhausted",
				"tenant_id", s.TenantID,
				"series_id", s.ID,
				"end_number", numbering.Capacity(s),
				"error", err,
			)
		}
		return nil, err
	}

	if plan.Reset {
		a.log.Infow("numbering series reset",
			"tenant_id", s.TenantID,
			"series_id", s.ID,
			"reset_frequency", s.ResetFrequency,
			"previous_sequence", s.CurrentSequence,
			"last_reset_at", s.LastResetAt,
		)
	}

	s.CurrentSequence = plan.Sequence
	if plan.StampReset {
		at := plan.At.UTC()
		s.LastResetAt = &at
	}
	s.UpdatedAt = now.UTC()
	if err := repo.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("allocator.Allocate: %w", err)
	}

	if err := repo.AppendHistory(ctx, &domain.NumberingHistory{
		TenantID:        s.TenantID,
		SeriesID:        s.ID,
		DocumentID:      input.DocumentID,
		GeneratedNumber: plan.Number,
		SequenceUsed:    plan.Sequence,
		GeneratedAt:     now.UTC(),
	}); err != nil {
		return nil, fmt.Errorf("allocator.Allocate history: %w", err)
	}

	return &domain.Allocation{
		DocumentNumber: plan.Number,
		SeriesID:       s.ID,
		Sequence:       plan.Sequence,
	}, nil
}

// resolve locks the target series: the explicit id, else the branch default,
// else the tenant-wide default for the document type.
func (a *sequenceAllocator) resolve(ctx context.Context, repo port.SeriesTxRepository, input *AllocateInput) (*domain.NumberingSeries, error) {
	if input.SeriesID != nil {
		s, err := repo.LockByID(ctx, input.TenantID, *input.SeriesID)
		if err != nil {
			return nil, err
		}
		if s.DocumentType != input.DocumentType {
			return nil, domain.Validationf("series %s numbers %s, not %s", s.ID, s.DocumentType, input.DocumentType)
		}
		return s, nil
	}

	s, err := repo.LockDefault(ctx, input.TenantID, input.DocumentType, input.Branch)
	if errors.Is(err, domain.ErrSeriesNotFound) && input.Branch != "" {
		s, err = repo.LockDefault(ctx, input.TenantID, input.DocumentType, "")
	}
	if errors.Is(err, domain.ErrSeriesNotFound) {
		return nil, errors.Wrapf(domain.ErrSeriesNotFound, "no default series for %s", input.DocumentType)
	}
	return s, err
}
