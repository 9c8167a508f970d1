package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")

	ErrSeriesNotFound      = errors.New("numbering series not found")
	ErrSeriesInactive      = errors.New("numbering series is inactive")
	ErrSeriesInUse         = errors.New("numbering series has already issued numbers")
	ErrSequenceExhausted   = errors.New("numbering series has reached its end number")
	ErrComplianceViolation = errors.New("document number violates numbering compliance rules")

	ErrDocumentNotFound        = errors.New("document not found")
	ErrDocumentNotNumbered     = errors.New("document has no document number")
	ErrImmutableDocument       = errors.New("document is no longer editable")
	ErrInvalidStatusTransition = errors.New("invalid document status transition")
	ErrUnbalancedEntry         = errors.New("ledger entries do not balance")

	ErrEmptyDocument       = errors.New("document has no line items")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidRate         = errors.New("invalid rate")
	ErrMissingJurisdiction = errors.New("jurisdiction is required")
)

// Validationf builds a caller-facing validation error marked with ErrValidation.
func Validationf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrValidation)
}

// UnbalancedEntryError reports the computed totals of a ledger that failed the balance check.
type UnbalancedEntryError struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("ledger entries do not balance: debit %s, credit %s, difference %s",
		e.Debit.StringFixed(2), e.Credit.StringFixed(2), e.Difference().StringFixed(2))
}

// Difference returns debit minus credit.
func (e *UnbalancedEntryError) Difference() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

func (e *UnbalancedEntryError) Is(target error) bool { return target == ErrUnbalancedEntry }

// ComplianceError reports a rendered number rejected by the compliance check.
type ComplianceError struct {
	Number string
	Reason string
}

func (e *ComplianceError) Error() string {
	return fmt.Sprintf("document number %q violates numbering compliance rules: %s", e.Number, e.Reason)
}

func (e *ComplianceError) Is(target error) bool { return target == ErrComplianceViolation }

// ExhaustedError reports a series whose next sequence would pass its end number.
type ExhaustedError struct {
	SeriesID  uuid.UUID
	EndNumber int64
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("numbering series %s has reached its end number %d", e.SeriesID, e.EndNumber)
}

func (e *ExhaustedError) Is(target error) bool { return target == ErrSequenceExhausted }

// ValidationError carries per-field messages for a rejected input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
