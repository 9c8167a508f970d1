package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"khata/internal/domain"
	"khata/internal/ledger"
	"khata/internal/logger"
	"khata/internal/port"
	"khata/internal/tax"
	"khata/internal/validator"
)

// LineItemInput is one priced line supplied by the caller.
type LineItemInput struct {
	Description   string          `json:"description" validate:"max=500"`
	HSNCode       string          `json:"hsn_code" validate:"max=16"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitRate      decimal.Decimal `json:"unit_rate"`
	DiscountPct   decimal.Decimal `json:"discount_pct"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	SurchargeRate decimal.Decimal `json:"surcharge_rate"`
}

// LedgerEntryInput is one debit or credit leg supplied by the caller.
type LedgerEntryInput struct {
	LedgerRef    string          `json:"ledger_ref" validate:"required,max=64"`
	DebitAmount  decimal.Decimal `json:"debit_amount"`
	CreditAmount decimal.Decimal `json:"credit_amount"`
	Narration    string          `json:"narration" validate:"max=500"`
}

// TotalsInput is the DTO for computing document totals without persisting anything.
type TotalsInput struct {
	Items             []LineItemInput `json:"items" validate:"required,min=1,dive"`
	OriginRegion      string          `json:"origin_region"`
	DestinationRegion string          `json:"destination_region"`
	ReverseLiability  bool            `json:"reverse_liability"`
}

// CreateDocumentInput is the DTO for creating a draft document.
type CreateDocumentInput struct {
	TenantID          uuid.UUID           `json:"-" validate:"required"`
	CreatedBy         uuid.UUID           `json:"-"`
	DocumentType      domain.DocumentType `json:"document_type" validate:"required,doc_type"`
	SeriesID          *uuid.UUID          `json:"series_id"`
	Branch            string              `json:"branch" validate:"omitempty,alphanum,max=10"`
	DocumentDate      time.Time           `json:"document_date"`
	CounterpartyID    *uuid.UUID          `json:"counterparty_id"`
	CounterpartyName  string              `json:"counterparty_name" validate:"max=255"`
	OriginRegion      string              `json:"origin_region"`
	DestinationRegion string              `json:"destination_region"`
	ReverseLiability  bool                `json:"reverse_liability"`
	Notes             string              `json:"notes"`
	Items             []LineItemInput     `json:"items" validate:"required,min=1,dive"`
	Entries           []LedgerEntryInput  `json:"entries" validate:"dive"`
	// DeferNumbering leaves the document unnumbered; AssignNumber allocates later.
	DeferNumbering bool `json:"defer_numbering"`
}

// DocumentService defines the voucher lifecycle contract.
type DocumentService interface {
	ComputeTotals(ctx context.Context, input *TotalsInput) (*tax.Totals, error)
	Create(ctx context.Context, input *CreateDocumentInput) (*domain.Document, error)
	GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, filter port.DocumentFilter, offset, limit int) ([]domain.Document, int, error)
	ReplaceItems(ctx context.Context, tenantID, docID uuid.UUID, items []LineItemInput) (*domain.Document, error)
	ReplaceEntries(ctx context.Context, tenantID, docID uuid.UUID, entries []LedgerEntryInput) (*domain.Document, error)
	AssignNumber(ctx context.Context, tenantID, docID uuid.UUID, seriesID *uuid.UUID) (*domain.Document, error)
	Post(ctx context.Context, tenantID, docID, actorID uuid.UUID) (*domain.Document, error)
	Cancel(ctx context.Context, tenantID, docID, actorID uuid.UUID, reason string) (*domain.Document, error)
}

type documentService struct {
	store         port.Store
	allocator     SequenceAllocator
	jurisdictions JurisdictionService
	posting       ledger.Validator
	log           *logger.Logger
	now           func() time.Time
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	store port.Store,
	allocator SequenceAllocator,
	jurisdictions JurisdictionService,
	posting ledger.Validator,
	log *logger.Logger,
	opts ...Option,
) DocumentService {
	o := applyOptions(opts)
	return &documentService{
		store:         store,
		allocator:     allocator,
		jurisdictions: jurisdictions,
		posting:       posting,
		log:           log,
		now:           o.now,
	}
}

func (s *documentService) ComputeTotals(ctx context.Context, input *TotalsInput) (*tax.Totals, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	if err := validator.Struct(input); err != nil {
		return nil, err
	}
	calc, err := s.jurisdictions.Calculator(ctx)
	if err != nil {
		return nil, err
	}
	return calc.Aggregate(toTaxLines(input.Items), input.OriginRegion, input.DestinationRegion, input.ReverseLiability)
}

func (s *documentService) Create(ctx context.Context, input *CreateDocumentInput) (*domain.Document, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	if err := validator.Struct(input); err != nil {
		return nil, err
	}
	entries := toEntries(input.Entries)
	if err := ledger.CheckEntries(entries); err != nil {
		return nil, err
	}
	calc, err := s.jurisdictions.Calculator(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := calc.Aggregate(toTaxLines(input.Items), input.OriginRegion, input.DestinationRegion, input.ReverseLiability)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	doc := &domain.Document{
		ID:                uuid.New(),
		TenantID:          input.TenantID,
		DocumentType:      input.DocumentType,
		DocumentDate:      input.DocumentDate,
		CounterpartyID:    input.CounterpartyID,
		CounterpartyName:  input.CounterpartyName,
		Branch:            input.Branch,
		OriginRegion:      input.OriginRegion,
		DestinationRegion: input.DestinationRegion,
		ReverseLiability:  input.ReverseLiability,
		Status:            domain.DocumentStatusDraft,
		Notes:             input.Notes,
		CreatedBy:         input.CreatedBy,
		CreatedAt:         now,
		UpdatedAt:         now,
		Items:             toLineItems(input.Items),
		Entries:           entries,
	}
	if doc.DocumentDate.IsZero() {
		doc.DocumentDate = now.Truncate(24 * time.Hour)
	}
	applyTotals(doc, totals)

	err = s.store.WithTx(ctx, func(ctx context.Context, tx port.Tx) error {
		docs := tx.Documents()
		if err := docs.Insert(ctx, doc); err != nil {
			return err
		}
		if input.DeferNumbering {
			return nil
		}
		return s.number(ctx, tx, doc, input.SeriesID)
	})
	if err != nil {
		return nil, fmt.Errorf("document.Create: %w", err)
	}

	s.log.Infow("document created",
		"tenant_id", doc.TenantID,
		"document_id", doc.ID,
		"document_type", doc.DocumentType,
		"document_number", lo.FromPtr(doc.DocumentNumber),
		"grand_total", doc.GrandTotal.String(),
	)
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.Document, error) {
	return s.store.Documents().GetByID(ctx, tenantID, docID)
}

func (s *documentService) List(ctx context.Context, filter port.DocumentFilter, offset, limit int) ([]domain.Document, int, error) {
	return s.store.Documents().List(ctx, filter, offset, limit)
}

func (s *documentService) ReplaceItems(ctx context.Context, tenantID, docID uuid.UUID, items []LineItemInput) (*domain.Document, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	if err := validator.Struct(&TotalsInput{Items: items}); err != nil {
		return nil, err
	}
	calc, err := s.jurisdictions.Calculator(ctx)
	if err != nil {
		return nil, err
	}

	var updated *domain.Document
	err = s.store.WithTx(ctx, func(ctx context.Context, tx port.Tx) error {
		docs := tx.Documents()
		doc, err := docs.LockByID(ctx, tenantID, docID)
		if err != nil {
			return err
		}
		if err := ledger.CheckEditable(doc); err != nil {
			return err
		}
		totals, err := calc.Aggregate(toTaxLines(items), doc.OriginRegion, doc.DestinationRegion, doc.ReverseLiability)
		if err != nil {
			return err
		}
		doc.Items = toLineItems(items)
		applyTotals(doc, totals)
		doc.UpdatedAt = s.now().UTC()
		if err := docs.ReplaceItems(ctx, doc); err != nil {
			return err
		}
		if err := docs.UpdateHeader(ctx, doc); err != nil {
			return err
		}
		updated = doc
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("document.ReplaceItems: %w", err)
	}
	return updated, nil
}

func (s *documentService) ReplaceEntries(ctx context.Context, tenantID, docID uuid.UUID, entries []LedgerEntryInput) (*domain.Document, error) {
	if err := validator.Struct(&struct {
		Entries []LedgerEntryInput `json:"entries" validate:"dive"`
	}{entries}); err != nil {
		return nil, err
	}
	replacement := toEntries(entries)
	if err := ledger.CheckEntries(replacement); err != nil {
		return nil, err
	}

	var updated *domain.Document
	err := s.store.WithTx(ctx, func(ctx context.Context, tx port.Tx) error {
		docs := tx.Documents()
		doc, err := docs.LockByID(ctx, tenantID, docID)
		if err != nil {
			return err
		}
		if err := ledger.CheckEditable(doc); err != nil {
			return err
		}
		doc.Entries = replacement
		doc.UpdatedAt = s.now().UTC()
		if err := docs.ReplaceEntries(ctx, doc); err != nil {
			return err
		}
		if err := docs.UpdateHeader(ctx, doc); err != nil {
			return err
		}
		updated = doc
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("document.ReplaceEntries: %w", err)
	}
	return updated, nil
}

func (s *documentService) AssignNumber(ctx context.Context, tenantID, docID uuid.UUID, seriesID *uuid.UUID) (*domain.Document, error) {
	var updated *domain.Document
	err := s.store.WithTx(ctx, func(ctx context.Context, tx port.Tx) error {
		doc, err := tx.Documents().LockByID(ctx, tenantID, docID)
		if err != nil {
			return err
		}
		if err := ledger.CheckEditable(doc); err != nil {
			return err
		}
		if doc.DocumentNumber != nil {
			return domain.Validationf("document %s is already numbered %s", doc.ID, *doc.DocumentNumber)
		}
		if err := s.number(ctx, tx, doc, seriesID); err != nil {
			return err
		}
		updated = doc
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("document.AssignNumber: %w", err)
	}
	s.log.Infow("document numbered",
		"tenant_id", tenantID,
		"document_id", docID,
		"series_id", lo.FromPtr(updated.SeriesID),
		"document_number", lo.FromPtr(updated.DocumentNumber),
	)
	return updated, nil
}

// number allocates from the resolved series and stamps the result on doc inside tx.
func (s *documentService) number(ctx context.Context, tx port.Tx, doc *domain.Document, seriesID *uuid.UUID) error {
	alloc, err := s.allocator.AllocateTx(ctx, tx, &AllocateInput{
		TenantID:     doc.TenantID,
		DocumentType: doc.DocumentType,
		Branch:       doc.Branch,
		SeriesID:     seriesID,
		DocumentID:   lo.ToPtr(doc.ID),
	})
	if err != nil {
		return err
	}
	doc.SeriesID = lo.ToPtr(alloc.SeriesID)
	doc.DocumentNumber = lo.ToPtr(alloc.DocumentNumber)
	doc.UpdatedAt = s.now().UTC()
	return tx.Documents().UpdateHeader(ctx, doc)
}

func (s *documentService) Post(ctx context.Context, tenantID, docID, actorID uuid.UUID) (*domain.Document, error) {
	var posted *domain.Document
	err := s.store.WithTx(ctx, func(ctx context.Context, tx port.Tx) error {
		docs := tx.Documents()
		doc, err := docs.LockByID(ctx, tenantID, docID)
		if err != nil {
			return err
		}
		if err := s.posting.ValidatePosting(doc); err != nil {
			return err
		}
		now := s.now().UTC()
		doc.Status = domain.DocumentStatusPosted
		doc.PostedBy = lo.ToPtr(actorID)
		doc.PostedAt = lo.ToPtr(now)
		doc.UpdatedAt = now
		if err := docs.UpdateHeader(ctx, doc); err != nil {
			return err
		}
		posted = doc
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnbalancedEntry) {
			s.log.Warnw("posting rejected", "tenant_id", tenantID, "document_id", docID, "error", err)
		}
		return nil, fmt.Errorf("document.Post: %w", err)
	}
	s.log.Infow("document posted",
		"tenant_id", tenantID,
		"document_id", docID,
		"document_number", lo.FromPtr(posted.DocumentNumber),
	)
	return posted, nil
}

func (s *documentService) Cancel(ctx context.Context, tenantID, docID, actorID uuid.UUID, reason string) (*domain.Document, error) {
	var cancelled *domain.Document
	err := s.store.WithTx(ctx, func(ctx context.Context, tx port.Tx) error {
		docs := tx.Documents()
		doc, err := docs.LockByID(ctx, tenantID, docID)
		if err != nil {
			return err
		}
		if err := ledger.Transition(doc.Status, domain.DocumentStatusCancelled); err != nil {
			return err
		}
		now := s.now().UTC()
		doc.Status = domain.DocumentStatusCancelled
		doc.CancelledBy = lo.ToPtr(actorID)
		doc.CancelledAt = lo.ToPtr(now)
		doc.CancelReason = reason
		doc.UpdatedAt = now
		if err := docs.UpdateHeader(ctx, doc); err != nil {
			return err
		}
		cancelled = doc
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("document.Cancel: %w", err)
	}
	s.log.Infow("document cancelled", "tenant_id", tenantID, "document_id", docID, "reason", reason)
	return cancelled, nil
}

func toTaxLines(items []LineItemInput) []tax.Line {
	return lo.Map(items, func(it LineItemInput, _ int) tax.Line {
		return tax.Line{
			Quantity:      it.Quantity,
			UnitRate:      it.UnitRate,
			DiscountPct:   it.DiscountPct,
			TaxRate:       it.TaxRate,
			SurchargeRate: it.SurchargeRate,
		}
	})
}

func toLineItems(items []LineItemInput) []domain.LineItem {
	return lo.Map(items, func(it LineItemInput, _ int) domain.LineItem {
		return domain.LineItem{
			Description:   it.Description,
			HSNCode:       it.HSNCode,
			Quantity:      it.Quantity,
			UnitRate:      it.UnitRate,
			DiscountPct:   it.DiscountPct,
			TaxRate:       it.TaxRate,
			SurchargeRate: it.SurchargeRate,
		}
	})
}

func toEntries(entries []LedgerEntryInput) []domain.LedgerEntry {
	return lo.Map(entries, func(e LedgerEntryInput, _ int) domain.LedgerEntry {
		return domain.LedgerEntry{
			LedgerRef:    e.LedgerRef,
			DebitAmount:  e.DebitAmount,
			CreditAmount: e.CreditAmount,
			Narration:    e.Narration,
		}
	})
}

// applyTotals copies computed amounts onto doc and its items, which must be in line order.
func applyTotals(doc *domain.Document, t *tax.Totals) {
	for i := range doc.Items {
		lt := t.Lines[i]
		it := &doc.Items[i]
		it.TaxableAmount = lt.Taxable
		it.SameRegionTax1 = lt.SameRegionA
		it.SameRegionTax2 = lt.SameRegionB
		it.CrossRegionTax = lt.CrossRegion
		it.Surcharge = lt.Surcharge
		it.LineTotal = lt.LineTotal
	}
	doc.TaxTreatment = t.Treatment
	doc.Subtotal = t.Subtotal
	doc.SameRegionTax1 = t.SameRegionTax1
	doc.SameRegionTax2 = t.SameRegionTax2
	doc.CrossRegionTax = t.CrossRegionTax
	doc.Surcharge = t.Surcharge
	doc.RoundingDelta = t.RoundingDelta
	doc.GrandTotal = t.RoundedTotal
}
