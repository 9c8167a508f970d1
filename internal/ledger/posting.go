// Package ledger enforces the double-entry balance and the document status
// machine that guard the transition to posted.
package ledger

import (
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"khata/internal/domain"
)

// Epsilon is the smallest debit/credit difference treated as unbalanced.
var Epsilon = decimal.RequireFromString("0.01")

// Sums returns the total debit and credit of entries.
func Sums(entries []domain.LedgerEntry) (debit, credit decimal.Decimal) {
	for i := range entries {
		debit = debit.Add(entries[i].DebitAmount)
		credit = credit.Add(entries[i].CreditAmount)
	}
	return debit, credit
}

// CheckEntries validates each entry on its own: a ledger reference, non-negative
// amounts, and exactly one non-zero side.
func CheckEntries(entries []domain.LedgerEntry) error {
	for i := range entries {
		e := &entries[i]
		if e.LedgerRef == "" {
			return domain.Validationf("entry %d: ledger reference is required", i+1)
		}
		if e.DebitAmount.IsNegative() || e.CreditAmount.IsNegative() {
			return errors.Wrapf(domain.ErrInvalidAmount, "entry %d: amounts must not be negative", i+1)
		}
		if e.DebitAmount.IsZero() == e.CreditAmount.IsZero() {
			return domain.Validationf("entry %d: exactly one of debit or credit must be non-zero", i+1)
		}
	}
	return nil
}

// CheckBalance fails with *domain.UnbalancedEntryError when total debit and credit
// differ by Epsilon or more.
func CheckBalance(entries []domain.LedgerEntry) error {
	debit, credit := Sums(entries)
	if debit.Sub(credit).Abs().GreaterThanOrEqual(Epsilon) {
		return &domain.UnbalancedEntryError{Debit: debit, Credit: credit}
	}
	return nil
}

// Transition checks a status change. Only draft documents move, and only to
// posted or cancelled.
func Transition(from, to domain.DocumentStatus) error {
	switch from {
	case domain.DocumentStatusDraft:
		if to == domain.DocumentStatusPosted || to == domain.DocumentStatusCancelled {
			return nil
		}
	case domain.DocumentStatusPosted:
		return errors.Wrapf(domain.ErrImmutableDocument, "cannot move a posted document to %s", to)
	}
	return errors.Wrapf(domain.ErrInvalidStatusTransition, "%s to %s", from, to)
}

// CheckEditable fails with ErrImmutableDocument unless doc is a draft.
func CheckEditable(doc *domain.Document) error {
	if doc.IsDraft() {
		return nil
	}
	return errors.Wrapf(domain.ErrImmutableDocument, "document %s is %s", doc.ID, doc.Status)
}

// Validator decides whether a document may be posted.
type Validator struct {
	// RequireTotalMatch additionally requires total debit to equal the document grand total.
	RequireTotalMatch bool
}

// ValidatePosting runs every precondition of the draft to posted transition
// without changing doc.
func (v Validator) ValidatePosting(doc *domain.Document) error {
	if err := Transition(doc.Status, domain.DocumentStatusPosted); err != nil {
		return err
	}
	if doc.DocumentNumber == nil || *doc.DocumentNumber == "" {
		return errors.Wrapf(domain.ErrDocumentNotNumbered, "document %s", doc.ID)
	}
	if len(doc.Entries) == 0 {
		return domain.Validationf("document %s has no ledger entries", doc.ID)
	}
	if err := CheckEntries(doc.Entries); err != nil {
		return err
	}
	if err := CheckBalance(doc.Entries); err != nil {
		return err
	}
	if v.RequireTotalMatch {
		debit, _ := Sums(doc.Entries)
		if debit.Sub(doc.GrandTotal).Abs().GreaterThanOrEqual(Epsilon) {
			return domain.Validationf("ledger debit %s does not match document total %s",
				debit.StringFixed(2), doc.GrandTotal.StringFixed(2))
		}
	}
	return nil
}
