package ledger_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khata/internal/domain"
	"khata/internal/ledger"
)

func entry(ref, debit, credit string) domain.LedgerEntry {
	return domain.LedgerEntry{
		LedgerRef:    ref,
		DebitAmount:  decimal.RequireFromString(debit),
		CreditAmount: decimal.RequireFromString(credit),
	}
}

func numberedDraft(entries ...domain.LedgerEntry) *domain.Document {
	n := "INV-2025-0001"
	return &domain.Document{
		ID:             uuid.New(),
		Status:         domain.DocumentStatusDraft,
		DocumentNumber: &n,
		GrandTotal:     decimal.NewFromInt(1180),
		Entries:        entries,
	}
}

// --- Balance ---

func TestCheckBalance_Balanced(t *testing.T) {
	entries := []domain.LedgerEntry{
		entry("debtors", "1180", "0"),
		entry("sales", "0", "1000"),
		entry("output-tax-a", "0", "90"),
		entry("output-tax-b", "0", "90"),
	}

	assert.NoError(t, ledger.CheckBalance(entries))
}

func TestCheckBalance_WithinEpsilon(t *testing.T) {
	entries := []domain.LedgerEntry{entry("a", "100.009", "0"), entry("b", "0", "100")}

	assert.NoError(t, ledger.CheckBalance(entries))
}

func TestCheckBalance_AtEpsilonFails(t *testing.T) {
	entries := []domain.LedgerEntry{entry("a", "100.01", "0"), entry("b", "0", "100")}

	err := ledger.CheckBalance(entries)

	assert.True(t, errors.Is(err, domain.ErrUnbalancedEntry))
}

func TestCheckBalance_ReportsTotals(t *testing.T) {
	entries := []domain.LedgerEntry{entry("a", "500", "0"), entry("b", "0", "450")}

	err := ledger.CheckBalance(entries)

	var ue *domain.UnbalancedEntryError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "500", ue.Debit.String())
	assert.Equal(t, "450", ue.Credit.String())
	assert.Equal(t, "50", ue.Difference().String())
}

// --- Entries ---

func TestCheckEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry domain.LedgerEntry
		want  error
	}{
		{"both sides", entry("a", "1", "1"), domain.ErrValidation},
		{"neither side", entry("a", "0", "0"), domain.ErrValidation},
		{"negative", entry("a", "-1", "0"), domain.ErrInvalidAmount},
		{"missing ref", entry("", "1", "0"), domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ledger.CheckEntries([]domain.LedgerEntry{tt.entry})
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

// --- Transitions ---

func TestTransition(t *testing.T) {
	tests := []struct {
		from, to domain.DocumentStatus
		want     error
	}{
		{domain.DocumentStatusDraft, domain.DocumentStatusPosted, nil},
		{domain.DocumentStatusDraft, domain.DocumentStatusCancelled, nil},
		{domain.DocumentStatusPosted, domain.DocumentStatusCancelled, domain.ErrImmutableDocument},
		{domain.DocumentStatusPosted, domain.DocumentStatusPosted, domain.ErrImmutableDocument},
		{domain.DocumentStatusCancelled, domain.DocumentStatusPosted, domain.ErrInvalidStatusTransition},
		{domain.DocumentStatusCancelled, domain.DocumentStatusDraft, domain.ErrInvalidStatusTransition},
		{domain.DocumentStatusDraft, domain.DocumentStatusDraft, domain.ErrInvalidStatusTransition},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			err := ledger.Transition(tt.from, tt.to)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCheckEditable(t *testing.T) {
	doc := &domain.Document{Status: domain.DocumentStatusDraft}
	assert.NoError(t, ledger.CheckEditable(doc))

	doc.Status = domain.DocumentStatusPosted
	assert.True(t, errors.Is(ledger.CheckEditable(doc), domain.ErrImmutableDocument))
}

// --- ValidatePosting ---

func TestValidator_ValidatePosting_Success(t *testing.T) {
	doc := numberedDraft(entry("debtors", "1180", "0"), entry("sales", "0", "1180"))

	err := ledger.Validator{RequireTotalMatch: true}.ValidatePosting(doc)

	assert.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusDraft, doc.Status)
}

func TestValidator_ValidatePosting_Unnumbered(t *testing.T) {
	doc := numberedDraft(entry("a", "1", "0"), entry("b", "0", "1"))
	doc.DocumentNumber = nil

	err := ledger.Validator{}.ValidatePosting(doc)

	assert.True(t, errors.Is(err, domain.ErrDocumentNotNumbered))
}

func TestValidator_ValidatePosting_Unbalanced(t *testing.T) {
	doc := numberedDraft(entry("a", "1180", "0"), entry("b", "0", "1000"))

	err := ledger.Validator{}.ValidatePosting(doc)

	assert.True(t, errors.Is(err, domain.ErrUnbalancedEntry))
}

func TestValidator_ValidatePosting_NoEntries(t *testing.T) {
	doc := numberedDraft()

	err := ledger.Validator{}.ValidatePosting(doc)

	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestValidator_ValidatePosting_TotalMismatch(t *testing.T) {
	doc := numberedDraft(entry("a", "1000", "0"), entry("b", "0", "1000"))

	assert.NoError(t, ledger.Validator{}.ValidatePosting(doc))
	err := ledger.Validator{RequireTotalMatch: true}.ValidatePosting(doc)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestValidator_ValidatePosting_AlreadyPosted(t *testing.T) {
	doc := numberedDraft(entry("a", "1", "0"), entry("b", "0", "1"))
	doc.Status = domain.DocumentStatusPosted

	err := ledger.Validator{}.ValidatePosting(doc)

	assert.True(t, errors.Is(err, domain.ErrImmutableDocument))
}
