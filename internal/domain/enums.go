package domain

// UserRole defines the role hierarchy within a tenant.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// DocumentType identifies the kind of voucher a series numbers.
type DocumentType string

const (
	DocumentTypeSalesInvoice    DocumentType = "sales_invoice"
	DocumentTypePurchaseInvoice DocumentType = "purchase_invoice"
	DocumentTypeCreditNote      DocumentType = "credit_note"
	DocumentTypeDebitNote       DocumentType = "debit_note"
	DocumentTypeReceipt         DocumentType = "receipt"
	DocumentTypePayment         DocumentType = "payment"
	DocumentTypeJournal         DocumentType = "journal"
)

// ValidDocumentTypes is the set of accepted document types.
var ValidDocumentTypes = map[DocumentType]bool{
	DocumentTypeSalesInvoice:    true,
	DocumentTypePurchaseInvoice: true,
	DocumentTypeCreditNote:      true,
	DocumentTypeDebitNote:       true,
	DocumentTypeReceipt:         true,
	DocumentTypePayment:         true,
	DocumentTypeJournal:         true,
}

// ResetFrequency controls when a series restarts from its start number.
type ResetFrequency string

const (
	ResetNever      ResetFrequency = "never"
	ResetMonthly    ResetFrequency = "monthly"
	ResetYearly     ResetFrequency = "yearly"
	ResetFiscalYear ResetFrequency = "fiscal_year"
)

// ValidResetFrequencies is the set of accepted reset cadences.
var ValidResetFrequencies = map[ResetFrequency]bool{
	ResetNever:      true,
	ResetMonthly:    true,
	ResetYearly:     true,
	ResetFiscalYear: true,
}

// DocumentStatus represents the lifecycle of a voucher.
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "draft"
	DocumentStatusPosted    DocumentStatus = "posted"
	DocumentStatusCancelled DocumentStatus = "cancelled"
)

// TaxTreatment records how tax was split for a document or line.
type TaxTreatment string

const (
	TaxTreatmentSameRegion  TaxTreatment = "same_region"
	TaxTreatmentCrossRegion TaxTreatment = "cross_region"
)
