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

const (
	defaultSequenceLength = 4
	defaultStartNumber    = 1
)

// CreateSeriesInput is the DTO for creating a numbering series.
type CreateSeriesInput struct {
	TenantID       uuid.UUID             `json:"-" validate:"required"`
	CreatedBy      uuid.UUID             `json:"-"`
	DocumentType   domain.DocumentType   `json:"document_type" validate:"required,doc_type"`
	Branch         string                `json:"branch" validate:"omitempty,alphanum,max=10"`
	Name           string                `json:"name" validate:"max=100"`
	Prefix         string                `json:"prefix" validate:"required,series_prefix"`
	Format         string                `json:"format" validate:"required,max=64"`
	Separator      string                `json:"separator" validate:"omitempty,oneof=- /"`
	SequenceLength int                   `json:"sequence_length" validate:"omitempty,min=1,max=10"`
	StartNumber    int64                 `json:"start_number" validate:"omitempty,min=1"`
	EndNumber      *int64                `json:"end_number" validate:"omitempty,min=1"`
	ResetFrequency domain.ResetFrequency `json:"reset_frequency" validate:"omitempty,reset_frequency"`
	IsDefault      bool                  `json:"is_default"`
}

// UpdateSeriesInput is the DTO for updating a numbering series. Nil fields are left unchanged.
type UpdateSeriesInput struct {
	TenantID       uuid.UUID              `json:"-" validate:"required"`
	SeriesID       uuid.UUID              `json:"-" validate:"required"`
	Name           *string                `json:"name" validate:"omitempty,max=100"`
	Prefix         *string                `json:"prefix" validate:"omitempty,series_prefix"`
	Format         *string                `json:"format" validate:"omitempty,max=64"`
	Separator      *string                `json:"separator" validate:"omitempty,oneof=- /"`
	SequenceLength *int                   `json:"sequence_length" validate:"omitempty,min=1,max=10"`
	StartNumber    *int64                 `json:"start_number" validate:"omitempty,min=1"`
	EndNumber      *int64                 `json:"end_number" validate:"omitempty,min=1"`
	ClearEndNumber bool                   `json:"clear_end_number"`
	ResetFrequency *domain.ResetFrequency `json:"reset_frequency" validate:"omitempty,reset_frequency"`
	IsActive       *bool                  `json:"is_active"`
}

// Preview is the number the next allocation on a series would produce.
type Preview struct {
	SeriesID       uuid.UUID `json:"series_id"`
	DocumentNumber string    `json:"document_number"`
	Sequence       int64     `json:"sequence"`
	WillReset      bool      `json:"will_reset"`
}

// SeriesService defines the numbering series registry contract.
type SeriesService interface {
	Create(ctx context.Context, input *CreateSeriesInput) (*domain.NumberingSeries, error)
	GetByID(ctx context.Context, tenantID, seriesID uuid.UUID) (*domain.NumberingSeries, error)
	List(ctx context.Context, filter port.SeriesFilter) ([]domain.NumberingSeries, error)
	Update(ctx context.Context, input *UpdateSeriesInput) (*domain.NumberingSeries, error)
	SetDefault(ctx context.Context, tenantID, seriesID uuid.UUID) (*domain.NumberingSeries, error)
	// Delete removes a series that never produced a number and deactivates one that did.
	Delete(ctx context.Context, tenantID, seriesID uuid.UUID) (deactivated bool, err error)
	PreviewNext(ctx context.Context, tenantID, seriesID uuid.UUID) (*Preview, error)
	ListHistory(ctx context.Context, tenantID, seriesID uuid.UUID, offset, limit int) ([]domain.NumberingHistory, int, error)
	ExportHistory(ctx context.Context, tenantID, seriesID uuid.UUID) (*domain.NumberingSeries, []domain.NumberingHistory, error)
}

type seriesService struct {
	store port.Store
	cal   numbering.Calendar
	log   *logger.Logger
	now   func() time.Time
}

// NewSeriesService creates a new SeriesService implementation.
func NewSeriesService(store port.Store, cal numbering.Calendar, log *logger.Logger, opts ...Option) SeriesService {
	o := applyOptions(opts)
	return &seriesService{store: store, cal: cal, log: log, now: o.now}
}

func (s *seriesService) Create(ctx context.Context, input *CreateSeriesInput) (*domain.NumberingSeries, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	series := &domain.NumberingSeries{
		ID:             uuid.New(),
		TenantID:       input.TenantID,
		DocumentType:   input.DocumentType,
		Branch:         input.Branch,
		Name:           input.Name,
		Prefix:         input.Prefix,
		Format:         input.Format,
		Separator:      input.Separator,
		SequenceLength: input.SequenceLength,
		StartNumber:    input.StartNumber,
		EndNumber:      input.EndNumber,
		ResetFrequency: input.ResetFrequency,
		IsDefault:      input.IsDefault,
		IsActive:       true,
		CreatedBy:      input.CreatedBy,
	}
	if series.Name == "" {
		series.Name = series.Prefix
	}
	if series.SequenceLength == 0 {
		series.SequenceLength = defaultSequenceLength
	}
	if series.StartNumber == 0 {
		series.StartNumber = defaultStartNumber
	}
	if series.ResetFrequency == "" {
		series.ResetFrequency = domain.ResetNever
	}
	series.CurrentSequence = series.StartNumber - 1
	if err := numbering.ValidateSeries(series); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx port.Tx) error {
		repo := tx.Series()
		if series.IsDefault {
			if err := s.takeDefault(ctx, repo, series); err != nil {
				return err
			}
		}
		return repo.Insert(ctx, series)
	})
	if err != nil {
		return nil, fmt.Errorf("series.Create: %w", err)
	}

	s.log.Infow("numbering series created",
		"tenant_id", series.TenantID,
		"series_id", series.ID,
		"document_type", series.DocumentType,
		"format", series.Format,
		"is_default", series.IsDefault,
	)
	return series, nil
}

func (s *seriesService) GetByID(ctx context.Context, tenantID, seriesID uuid.UUID) (*domain.NumberingSeries, error) {
	return s.store.Series().GetByID(ctx, tenantID, seriesID)
}

func (s *seriesService) List(ctx context.Context, filter port.SeriesFilter) ([]domain.NumberingSeries, error) {
	if filter.DocumentType != "" && !domain.ValidDocumentTypes[filter.DocumentType] {
		return nil, domain.Validationf("unknown document type %q", filter.DocumentType)
	}
	return s.store.Series().List(ctx, filter)
}

func (s *seriesService) Update(ctx context.Context, input *UpdateSeriesInput) (*domain.NumberingSeries, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	var updated *domain.NumberingSeries
	err := s.store.WithTx(ctx, func(ctx context.Context, tx port.Tx) error {
		repo := tx.Series()
		series, err := repo.LockByID(ctx, input.TenantID, input.SeriesID)
		if err != nil {
			return err
		}

		if input.StartNumber != nil && *input.StartNumber != series.StartNumber {
			issued, err := repo.CountHistory(ctx, series.TenantID, series.ID)
			if err != nil {
				return err
			}
			if issued > 0 {
				return errors.Wrapf(domain.ErrSeriesInUse, "start number of series %s cannot change", series.ID)
			}
			series.StartNumber = *input.StartNumber
			series.CurrentSequence = series.StartNumber - 1
		}
		applySeriesUpdate(series, input)
		if series.EndNumber != nil && *series.EndNumber < series.CurrentSequence {
			return domain.Validationf("end number %d is below the last issued sequence %d",
				*series.EndNumber, series.CurrentSequence)
		}
		if err := numbering.ValidateSeries(series); err != nil {
			return err
		}
		if !series.IsActive {
			series.IsDefault = false
		}
		series.UpdatedAt = s.now().UTC()
		if err := repo.Update(ctx, series); err != nil {
			return err
		}
		updated = series
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("series.Update: %w", err)
	}
	s.log.Infow("numbering series updated", "tenant_id", updated.TenantID, "series_id", updated.ID)
	return updated, nil
}

func applySeriesUpdate(series *domain.NumberingSeries, input *UpdateSeriesInput) {
	if input.Name != nil {
		series.Name = *input.Name
	}
	if input.Prefix != nil {
		series.Prefix = *input.Prefix
	}
	if input.Format != nil {
		series.Format = *input.Format
	}
	if input.Separator != nil {
		series.Separator = *input.Separator
	}
	if input.SequenceLength != nil {
		series.SequenceLength = *input.SequenceLength
	}
	if input.ClearEndNumber {
		series.EndNumber = nil
	} else if input.EndNumber != nil {
		end := *input.EndNumber
		series.EndNumber = &end
	}
	if input.ResetFrequency != nil {
		series.ResetFrequency = *input.ResetFrequency
	}
	if input.IsActive != nil {
		series.IsActive = *input.IsActive
	}
}

func (s *seriesService) SetDefault(ctx context.Context, tenantID, seriesID uuid.UUID) (*domain.NumberingSeries, error) {
	// The default row is locked before the target so concurrent transfers on one tuple queue up in one order.
	snapshot, err := s.store.Series().GetByID(ctx, tenantID, seriesID)
	if err != nil {
		return nil, err
	}

	var updated *domain.NumberingSeries
	err = s.store.WithTx(ctx, func(ctx context.Context, tx port.Tx) error {
		repo := tx.Series()
		if err := s.takeDefault(ctx, repo, snapshot); err != nil {
			return err
		}
		series, err := repo.LockByID(ctx, tenantID, seriesID)
		if err != nil {
			return err
		}
		if !series.IsActive {
			return errors.Wrapf(domain.ErrSeriesInactive, "series %s", series.ID)
		}
		if series.IsDefault {
			updated = series
			return nil
		}
		series.IsDefault = true
		series.UpdatedAt = s.now().UTC()
		if err := repo.Update(ctx, series); err != nil {
			return err
		}
		updated = series
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("series.SetDefault: %w", err)
	}
	s.log.Infow("default numbering series changed",
		"tenant_id", tenantID,
		"series_id", seriesID,
		"document_type", updated.DocumentType,
		"branch", updated.Branch,
	)
	return updated, nil
}

// takeDefault locks the current default for the tuple of target, if any, and clears every default but target.
func (s *seriesService) takeDefault(ctx context.Context, repo port.SeriesTxRepository, target *domain.NumberingSeries) error {
	if _, err := repo.LockDefault(ctx, target.TenantID, target.DocumentType, target.Branch); err != nil &&
		!errors.Is(err, domain.ErrSeriesNotFound) {
		return err
	}
	return repo.ClearDefault(ctx, target.TenantID, target.DocumentType, target.Branch, target.ID)
}

func (s *seriesService) Delete(ctx context.Context, tenantID, seriesID uuid.UUID) (bool, error) {
	deactivated := false
	err := s.store.WithTx(ctx, func(ctx context.Context, tx port.Tx) error {
		repo := tx.Series()
		series, err := repo.LockByID(ctx, tenantID, seriesID)
		if err != nil {
			return err
		}
		issued, err := repo.CountHistory(ctx, tenantID, seriesID)
		if err != nil {
			return err
		}
		if issued == 0 {
			return repo.Delete(ctx, tenantID, seriesID)
		}
		series.IsActive = false
		series.IsDefault = false
		series.UpdatedAt = s.now().UTC()
		deactivated = true
		return repo.Update(ctx, series)
	})
	if err != nil {
		return false, fmt.Errorf("series.Delete: %w", err)
	}
	s.log.Infow("numbering series removed", "tenant_id", tenantID, "series_id", seriesID, "deactivated", deactivated)
	return deactivated, nil
}

func (s *seriesService) PreviewNext(ctx context.Context, tenantID, seriesID uuid.UUID) (*Preview, error) {
	series, err := s.store.Series().GetByID(ctx, tenantID, seriesID)
	if err != nil {
		return nil, err
	}
	if !series.IsActive {
		return nil, errors.Wrapf(domain.ErrSeriesInactive, "series %s", series.ID)
	}
	if err := numbering.ValidateSeries(series); err != nil {
		return nil, err
	}
	plan, err := s.cal.Next(series, s.now())
	if err != nil {
		return nil, err
	}
	return &Preview{
		SeriesID:       series.ID,
		DocumentNumber: plan.Number,
		Sequence:       plan.Sequence,
		WillReset:      plan.Reset,
	}, nil
}

func (s *seriesService) ListHistory(ctx context.Context, tenantID, seriesID uuid.UUID, offset, limit int) ([]domain.NumberingHistory, int, error) {
	if _, err := s.store.Series().GetByID(ctx, tenantID, seriesID); err != nil {
		return nil, 0, err
	}
	return s.store.Series().ListHistory(ctx, tenantID, seriesID, offset, limit)
}

func (s *seriesService) ExportHistory(ctx context.Context, tenantID, seriesID uuid.UUID) (*domain.NumberingSeries, []domain.NumberingHistory, error) {
	series, err := s.store.Series().GetByID(ctx, tenantID, seriesID)
	if err != nil {
		return nil, nil, err
	}
	rows, _, err := s.store.Series().ListHistory(ctx, tenantID, seriesID, 0, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("series.ExportHistory: %w", err)
	}
	return series, rows, nil
}
