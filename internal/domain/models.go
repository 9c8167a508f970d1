package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NumberingSeries is an independently sequenced numbering stream for one tenant and document type.
type NumberingSeries struct {
	ID              uuid.UUID      `db:"id" json:"id"`
	TenantID        uuid.UUID      `db:"tenant_id" json:"tenant_id"`
	DocumentType    DocumentType   `db:"document_type" json:"document_type"`
	Branch          string         `db:"branch" json:"branch"`
	Name            string         `db:"name" json:"name"`
	Prefix          string         `db:"prefix" json:"prefix"`
	Format          string         `db:"format" json:"format"`
	Separator       string         `db:"separator" json:"separator"`
	SequenceLength  int            `db:"sequence_length" json:"sequence_length"`
	CurrentSequence int64          `db:"current_sequence" json:"current_sequence"`
	StartNumber     int64          `db:"start_number" json:"start_number"`
	EndNumber       *int64         `db:"end_number" json:"end_number"`
	ResetFrequency  ResetFrequency `db:"reset_frequency" json:"reset_frequency"`
	LastResetAt     *time.Time     `db:"last_reset_at" json:"last_reset_at"`
	IsDefault       bool           `db:"is_default" json:"is_default"`
	IsActive        bool           `db:"is_active" json:"is_active"`
	CreatedBy       uuid.UUID      `db:"created_by" json:"created_by"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// NumberingHistory is the append-only audit record of one successful allocation.
type NumberingHistory struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	TenantID        uuid.UUID  `db:"tenant_id" json:"tenant_id"`
	SeriesID        uuid.UUID  `db:"series_id" json:"series_id"`
	DocumentID      *uuid.UUID `db:"document_id" json:"document_id"`
	GeneratedNumber string     `db:"generated_number" json:"generated_number"`
	SequenceUsed    int64      `db:"sequence_used" json:"sequence_used"`
	GeneratedAt     time.Time  `db:"generated_at" json:"generated_at"`
}

// Allocation is the result of allocating a document number.
type Allocation struct {
	DocumentNumber string    `json:"document_number"`
	SeriesID       uuid.UUID `json:"series_id"`
	Sequence       int64     `json:"sequence"`
}

// Document is a voucher: an invoice, note, receipt or journal with line items and ledger entries.
type Document struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	TenantID          uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	DocumentType      DocumentType    `db:"document_type" json:"document_type"`
	SeriesID          *uuid.UUID      `db:"series_id" json:"series_id"`
	DocumentNumber    *string         `db:"document_number" json:"document_number"`
	DocumentDate      time.Time       `db:"document_date" json:"document_date"`
	CounterpartyID    *uuid.UUID      `db:"counterparty_id" json:"counterparty_id"`
	CounterpartyName  string          `db:"counterparty_name" json:"counterparty_name"`
	Branch            string          `db:"branch" json:"branch"`
	OriginRegion      string          `db:"origin_region" json:"origin_region"`
	DestinationRegion string          `db:"destination_region" json:"destination_region"`
	ReverseLiability  bool            `db:"reverse_liability" json:"reverse_liability"`
	TaxTreatment      TaxTreatment    `db:"tax_treatment" json:"tax_treatment"`
	Subtotal          decimal.Decimal `db:"subtotal" json:"subtotal"`
	SameRegionTax1    decimal.Decimal `db:"same_region_tax_1" json:"same_region_tax_1"`
	SameRegionTax2    decimal.Decimal `db:"same_region_tax_2" json:"same_region_tax_2"`
	CrossRegionTax    decimal.Decimal `db:"cross_region_tax" json:"cross_region_tax"`
	Surcharge         decimal.Decimal `db:"surcharge" json:"surcharge"`
	RoundingDelta     decimal.Decimal `db:"rounding_delta" json:"rounding_delta"`
	GrandTotal        decimal.Decimal `db:"grand_total" json:"grand_total"`
	Status            DocumentStatus  `db:"status" json:"status"`
	Notes             string          `db:"notes" json:"notes"`
	PostedBy          *uuid.UUID      `db:"posted_by" json:"posted_by"`
	PostedAt          *time.Time      `db:"posted_at" json:"posted_at"`
	CancelledBy       *uuid.UUID      `db:"cancelled_by" json:"cancelled_by"`
	CancelledAt       *time.Time      `db:"cancelled_at" json:"cancelled_at"`
	CancelReason      string          `db:"cancel_reason" json:"cancel_reason"`
	CreatedBy         uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`

	Items   []LineItem    `db:"-" json:"items"`
	Entries []LedgerEntry `db:"-" json:"entries"`
}

// IsDraft reports whether the document may still be edited.
func (d *Document) IsDraft() bool {
	return d.Status == DocumentStatusDraft
}

// LineItem is one priced line of a document with its computed tax split.
type LineItem struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	DocumentID     uuid.UUID       `db:"document_id" json:"document_id"`
	TenantID       uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	Position       int             `db:"position" json:"position"`
	Description    string          `db:"description" json:"description"`
	HSNCode        string          `db:"hsn_code" json:"hsn_code"`
	Quantity       decimal.Decimal `db:"quantity" json:"quantity"`
	UnitRate       decimal.Decimal `db:"unit_rate" json:"unit_rate"`
	DiscountPct    decimal.Decimal `db:"discount_pct" json:"discount_pct"`
	TaxRate        decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	SurchargeRate  decimal.Decimal `db:"surcharge_rate" json:"surcharge_rate"`
	TaxableAmount  decimal.Decimal `db:"taxable_amount" json:"taxable_amount"`
	SameRegionTax1 decimal.Decimal `db:"same_region_tax_1" json:"same_region_tax_1"`
	SameRegionTax2 decimal.Decimal `db:"same_region_tax_2" json:"same_region_tax_2"`
	CrossRegionTax decimal.Decimal `db:"cross_region_tax" json:"cross_region_tax"`
	Surcharge      decimal.Decimal `db:"surcharge" json:"surcharge"`
	LineTotal      decimal.Decimal `db:"line_total" json:"line_total"`
}

// LedgerEntry is one debit or credit leg of a document. Exactly one side is non-zero.
type LedgerEntry struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	DocumentID   uuid.UUID       `db:"document_id" json:"document_id"`
	TenantID     uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	Position     int             `db:"position" json:"position"`
	LedgerRef    string          `db:"ledger_ref" json:"ledger_ref"`
	DebitAmount  decimal.Decimal `db:"debit_amount" json:"debit_amount"`
	CreditAmount decimal.Decimal `db:"credit_amount" json:"credit_amount"`
	Narration    string          `db:"narration" json:"narration"`
}

// Jurisdiction is a taxing region known by a canonical code, a name and an optional short code.
type Jurisdiction struct {
	Code      string `db:"code" json:"code"`
	Name      string `db:"name" json:"name"`
	ShortCode string `db:"short_code" json:"short_code"`
}

// AdoptChildren assigns ids, owner and 1-based position to line items and ledger entries.
func (d *Document) AdoptChildren() {
	for i := range d.Items {
		it := &d.Items[i]
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		it.DocumentID, it.TenantID, it.Position = d.ID, d.TenantID, i+1
	}
	for i := range d.Entries {
		e := &d.Entries[i]
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		e.DocumentID, e.TenantID, e.Position = d.ID, d.TenantID, i+1
	}
}
