package handler

import (
	"github.com/google/uuid"

	"khata/internal/domain"
	"khata/internal/service"
)

// Request and response shapes referenced by the swag annotations.

// --- Request Types ---

// CreateSeriesRequest represents the create series request body.
type CreateSeriesRequest struct {
	DocumentType   domain.DocumentType   `json:"document_type" example:"sales_invoice"`
	Branch         string                `json:"branch" example:"MUM"`
	Name           string                `json:"name" example:"Sales FY25"`
	Prefix         string                `json:"prefix" example:"INV"`
	Format         string                `json:"format" example:"PREFIX-YY-SEQUENCE"`
	Separator      string                `json:"separator" example:"-"`
	SequenceLength int                   `json:"sequence_length" example:"4"`
	StartNumber    int64                 `json:"start_number" example:"1"`
	EndNumber      *int64                `json:"end_number" example:"9999"`
	ResetFrequency domain.ResetFrequency `json:"reset_frequency" example:"fiscal_year"`
	IsDefault      bool                  `json:"is_default" example:"true"`
}

// UpdateSeriesRequest represents the update series request body. Omitted fields are unchanged.
type UpdateSeriesRequest struct {
	Name           *string                `json:"name" example:"Sales FY26"`
	Prefix         *string                `json:"prefix" example:"SI"`
	Format         *string                `json:"format" example:"PREFIX/FY/SEQUENCE"`
	Separator      *string                `json:"separator" example:"/"`
	SequenceLength *int                   `json:"sequence_length" example:"5"`
	StartNumber    *int64                 `json:"start_number" example:"1"`
	EndNumber      *int64                 `json:"end_number" example:"99999"`
	ClearEndNumber bool                   `json:"clear_end_number" example:"false"`
	ResetFrequency *domain.ResetFrequency `json:"reset_frequency" example:"yearly"`
	IsActive       *bool                  `json:"is_active" example:"true"`
}

// TotalsRequest represents the compute totals request body.
type TotalsRequest struct {
	Items             []service.LineItemInput `json:"items"`
	OriginRegion      string                  `json:"origin_region" example:"27"`
	DestinationRegion string                  `json:"destination_region" example:"KA"`
	ReverseLiability  bool                    `json:"reverse_liability" example:"false"`
}

// CreateDocumentRequest represents the create document request body.
type CreateDocumentRequest struct {
	DocumentType      domain.DocumentType        `json:"document_type" example:"sales_invoice"`
	SeriesID          *uuid.UUID                 `json:"series_id"`
	Branch            string                     `json:"branch" example:"MUM"`
	DocumentDate      string                     `json:"document_date" example:"2025-05-14T00:00:00Z"`
	CounterpartyName  string                     `json:"counterparty_name" example:"Acme Traders"`
	OriginRegion      string                     `json:"origin_region" example:"27"`
	DestinationRegion string                     `json:"destination_region" example:"27"`
	ReverseLiability  bool                       `json:"reverse_liability" example:"false"`
	Notes             string                     `json:"notes"`
	Items             []service.LineItemInput    `json:"items"`
	Entries           []service.LedgerEntryInput `json:"entries"`
	DeferNumbering    bool                       `json:"defer_numbering" example:"false"`
}

// ReplaceItemsRequest represents the replace line items request body.
type ReplaceItemsRequest struct {
	Items []service.LineItemInput `json:"items"`
}

// ReplaceEntriesRequest represents the replace ledger entries request body.
type ReplaceEntriesRequest struct {
	Entries []service.LedgerEntryInput `json:"entries"`
}

// AssignNumberRequest represents the optional assign number request body.
type AssignNumberRequest struct {
	SeriesID *uuid.UUID `json:"series_id"`
}

// CancelDocumentRequest represents the cancel document request body.
type CancelDocumentRequest struct {
	Reason string `json:"reason" binding:"required" example:"duplicate entry"`
}

// AllocateRequest represents the allocate number request body.
type AllocateRequest struct {
	DocumentType domain.DocumentType `json:"document_type" example:"receipt"`
	Branch       string              `json:"branch" example:"MUM"`
	SeriesID     *uuid.UUID          `json:"series_id"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message     string `json:"message" example:"series deactivated"`
	Deactivated bool   `json:"deactivated" example:"true"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}

// ReloadJurisdictionsResponse reports the size of the rebuilt alias table.
type ReloadJurisdictionsResponse struct {
	Aliases int `json:"aliases"`
}
