package numbering_test

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khata/internal/domain"
	"khata/internal/numbering"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func ptrTime(t time.Time) *time.Time { return &t }

func ptrInt(n int64) *int64 { return &n }

func series(format string, freq domain.ResetFrequency) *domain.NumberingSeries {
	return &domain.NumberingSeries{
		ID:             uuid.New(),
		TenantID:       uuid.New(),
		DocumentType:   domain.DocumentTypeSalesInvoice,
		Prefix:         "INV",
		Format:         format,
		Separator:      "-",
		SequenceLength: 4,
		StartNumber:    1,
		ResetFrequency: freq,
		IsActive:       true,
	}
}

// --- Epochs ---

func TestCalendar_FiscalYear(t *testing.T) {
	cal := numbering.DefaultCalendar()

	assert.Equal(t, 2024, cal.FiscalYear(date(2025, time.March, 31)))
	assert.Equal(t, 2025, cal.FiscalYear(date(2025, time.April, 1)))
	assert.Equal(t, 2025, cal.FiscalYear(date(2026, time.January, 15)))
}

func TestCalendar_FiscalYearCustomStart(t *testing.T) {
	cal := numbering.Calendar{Location: time.UTC, FiscalStartMonth: time.July, FiscalStartDay: 15}

	assert.Equal(t, 2024, cal.FiscalYear(date(2025, time.July, 14)))
	assert.Equal(t, 2025, cal.FiscalYear(date(2025, time.July, 15)))
}

func TestCalendar_NeedsReset(t *testing.T) {
	cal := numbering.DefaultCalendar()
	tests := []struct {
		name  string
		freq  domain.ResetFrequency
		last  *time.Time
		now   time.Time
		reset bool
	}{
		{"never", domain.ResetNever, ptrTime(date(2020, 1, 1)), date(2025, 1, 1), false},
		{"unstamped", domain.ResetYearly, nil, date(2025, 1, 1), false},
		{"same year", domain.ResetYearly, ptrTime(date(2025, 1, 1)), date(2025, 12, 31), false},
		{"next year", domain.ResetYearly, ptrTime(date(2024, 12, 31)), date(2025, 1, 1), true},
		{"same month", domain.ResetMonthly, ptrTime(date(2025, 3, 1)), date(2025, 3, 31), false},
		{"next month", domain.ResetMonthly, ptrTime(date(2025, 3, 31)), date(2025, 4, 1), true},
		{"december to january", domain.ResetMonthly, ptrTime(date(2024, 12, 15)), date(2025, 1, 2), true},
		{"fiscal same", domain.ResetFiscalYear, ptrTime(date(2025, 4, 1)), date(2026, 3, 31), false},
		{"fiscal rollover", domain.ResetFiscalYear, ptrTime(date(2026, 3, 31)), date(2026, 4, 1), true},
		{"clock behind last reset", domain.ResetYearly, ptrTime(date(2026, 1, 1)), date(2025, 6, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reset, cal.NeedsReset(tt.freq, tt.last, tt.now))
		})
	}
}

func TestCalendar_NeedsResetUsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	cal := numbering.Calendar{Location: ist, FiscalStartMonth: time.April, FiscalStartDay: 1}

	// 2024-12-31 20:00 UTC is already 2025-01-01 in Kolkata.
	now := time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC)
	last := date(2024, 6, 1)

	assert.True(t, cal.NeedsReset(domain.ResetYearly, &last, now))
}

// --- Next ---

func TestCalendar_Next_FirstAllocation(t *testing.T) {
	cal := numbering.DefaultCalendar()
	s := series("PREFIX-YEAR-SEQUENCE", domain.ResetNever)

	plan, err := cal.Next(s, date(2025, time.May, 5))

	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0001", plan.Number)
	assert.Equal(t, int64(1), plan.Sequence)
	assert.False(t, plan.Reset)
	assert.False(t, plan.StampReset)
	assert.Equal(t, int64(0), s.CurrentSequence, "plan must not mutate the series")
}

func TestCalendar_Next_Increments(t *testing.T) {
	cal := numbering.DefaultCalendar()
	s := series("PREFIX-YEAR-SEQUENCE", domain.ResetYearly)
	s.CurrentSequence = 41
	s.LastResetAt = ptrTime(date(2025, 1, 1))

	plan, err := cal.Next(s, date(2025, 8, 1))

	require.NoError(t, err)
	assert.Equal(t, "INV-2025-0042", plan.Number)
	assert.False(t, plan.StampReset)
}

func TestCalendar_Next_StampsFirstResettingAllocation(t *testing.T) {
	cal := numbering.DefaultCalendar()
	s := series("PREFIX-YEAR-SEQUENCE", domain.ResetYearly)

	plan, err := cal.Next(s, date(2025, 8, 1))

	require.NoError(t, err)
	assert.False(t, plan.Reset)
	assert.True(t, plan.StampReset)
}

func TestCalendar_Next_YearlyReset(t *testing.T) {
	cal := numbering.DefaultCalendar()
	s := series("PREFIX-YEAR-SEQUENCE", domain.ResetYearly)
	s.StartNumber = 100
	s.CurrentSequence = 987
	s.LastResetAt = ptrTime(date(2024, 3, 1))

	plan, err := cal.Next(s, date(2025, 1, 1))

	require.NoError(t, err)
	assert.True(t, plan.Reset)
	assert.True(t, plan.StampReset)
	assert.Equal(t, int64(100), plan.Sequence)
	assert.Equal(t, "INV-2025-0100", plan.Number)
}

func TestCalendar_Next_FiscalYearRendersStartYear(t *testing.T) {
	cal := numbering.DefaultCalendar()
	s := series("PREFIX/YY/SEQUENCE", domain.ResetFiscalYear)
	s.LastResetAt = ptrTime(date(2025, 4, 1))
	s.CurrentSequence = 9

	plan, err := cal.Next(s, date(2026, 2, 10))

	require.NoError(t, err)
	assert.Equal(t, "INV/25/0010", plan.Number)
}

func TestCalendar_Next_Exhausted(t *testing.T) {
	cal := numbering.DefaultCalendar()
	s := series("PREFIX-SEQUENCE", domain.ResetNever)
	s.EndNumber = ptrInt(5)
	s.CurrentSequence = 5

	_, err := cal.Next(s, date(2025, 1, 1))

	assert.True(t, errors.Is(err, domain.ErrSequenceExhausted))
	var ee *domain.ExhaustedError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, int64(5), ee.EndNumber)
}

func TestCalendar_Next_ExhaustedAtSequenceWidth(t *testing.T) {
	cal := numbering.DefaultCalendar()
	s := series("PREFIX-SEQUENCE", domain.ResetNever)
	s.SequenceLength = 2
	s.CurrentSequence = 99

	_, err := cal.Next(s, date(2025, 1, 1))

	var ee *domain.ExhaustedError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, int64(99), ee.EndNumber)
}

func TestCalendar_Next_ResetRevivesExhaustedSeries(t *testing.T) {
	cal := numbering.DefaultCalendar()
	s := series("PREFIX-YY-MONTH-SEQUENCE", domain.ResetMonthly)
	s.EndNumber = ptrInt(5)
	s.CurrentSequence = 5
	s.LastResetAt = ptrTime(date(2025, 1, 1))

	plan, err := cal.Next(s, date(2025, 2, 1))

	require.NoError(t, err)
	assert.Equal(t, "INV-25-02-0001", plan.Number)
}

func TestCalendar_Next_ComplianceViolation(t *testing.T) {
	cal := numbering.DefaultCalendar()
	s := series("PREFIX-YEAR-MONTH-SEQUENCE", domain.ResetNever)
	s.Prefix = "INVOICES"

	_, err := cal.Next(s, date(2025, 1, 1))

	assert.True(t, errors.Is(err, domain.ErrComplianceViolation))
}
