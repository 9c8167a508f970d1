package numbering_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"khata/internal/domain"
	"khata/internal/numbering"
)

func TestValidateSeries_Valid(t *testing.T) {
	s := series("PREFIX-YEAR-SEQUENCE", domain.ResetYearly)

	assert.NoError(t, numbering.ValidateSeries(s))
}

func TestValidateSeries_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *domain.NumberingSeries)
	}{
		{"lower-case prefix", func(s *domain.NumberingSeries) { s.Prefix = "inv" }},
		{"prefix too long", func(s *domain.NumberingSeries) { s.Prefix = "ABCDEFGHIJK" }},
		{"empty prefix", func(s *domain.NumberingSeries) { s.Prefix = "" }},
		{"bad separator", func(s *domain.NumberingSeries) { s.Separator = "." }},
		{"zero sequence length", func(s *domain.NumberingSeries) { s.SequenceLength = 0 }},
		{"start below one", func(s *domain.NumberingSeries) { s.StartNumber = 0 }},
		{"end below start", func(s *domain.NumberingSeries) { s.StartNumber = 10; s.EndNumber = ptrInt(9) }},
		{"no prefix token", func(s *domain.NumberingSeries) { s.Format = "YEAR-SEQUENCE" }},
		{"no sequence token", func(s *domain.NumberingSeries) { s.Format = "PREFIX-YEAR" }},
		{"two sequence tokens", func(s *domain.NumberingSeries) { s.Format = "PREFIXSEQUENCESEQUENCE" }},
		{"branch token without branch", func(s *domain.NumberingSeries) { s.Format = "PREFIX-BRANCH-YY-SEQUENCE" }},
		{"yearly reset without year", func(s *domain.NumberingSeries) { s.Format = "PREFIX-SEQUENCE" }},
		{"monthly reset without month", func(s *domain.NumberingSeries) {
			s.ResetFrequency = domain.ResetMonthly
		}},
		{"unknown document type", func(s *domain.NumberingSeries) { s.DocumentType = "quote" }},
		{"unknown reset frequency", func(s *domain.NumberingSeries) { s.ResetFrequency = "weekly" }},
		{"worst case over sixteen", func(s *domain.NumberingSeries) {
			s.Prefix = "INVOICE"
			s.Format = "PREFIX-YEAR-SEQUENCE"
		}},
		{"start wider than sequence without end", func(s *domain.NumberingSeries) {
			s.Format = "PREFIX-YY-SEQUENCE"
			s.StartNumber = 10000
		}},
		{"implied capacity over sixteen", func(s *domain.NumberingSeries) {
			s.Prefix = "ABCDEFGHIJ"
			s.Format = "PREFIX-YY-SEQUENCE"
			s.SequenceLength = 3
		}},
		{"end number widens sequence", func(s *domain.NumberingSeries) {
			s.Format = "PREFIX-YEAR-SEQUENCE"
			s.EndNumber = ptrInt(1000000000)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := series("PREFIX-YEAR-SEQUENCE", domain.ResetYearly)
			tt.mutate(s)
			err := numbering.ValidateSeries(s)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}

func TestValidateSeries_BranchFormat(t *testing.T) {
	s := series("PREFIXBRANCHYYSEQUENCE", domain.ResetFiscalYear)
	s.Branch = "BLR"

	assert.NoError(t, numbering.ValidateSeries(s))
}

func TestValidPrefix(t *testing.T) {
	assert.True(t, numbering.ValidPrefix("INV"))
	assert.True(t, numbering.ValidPrefix("A1B2C3D4E5"))
	assert.False(t, numbering.ValidPrefix("IN-V"))
	assert.False(t, numbering.ValidPrefix(""))
}

func TestValidateSeries_FillsLimitAtFullWidth(t *testing.T) {
	s := series("PREFIX-YY-SEQUENCE", domain.ResetYearly)
	s.Prefix = "ABCDEFGHIJ"
	s.SequenceLength = 2
	s.StartNumber = 99

	assert.NoError(t, numbering.ValidateSeries(s))
}

func TestCapacity(t *testing.T) {
	s := series("PREFIX-SEQUENCE", domain.ResetNever)
	assert.Equal(t, int64(9999), numbering.Capacity(s))

	s.SequenceLength = 10
	assert.Equal(t, int64(9999999999), numbering.Capacity(s))

	s.EndNumber = ptrInt(250)
	assert.Equal(t, int64(250), numbering.Capacity(s))
}
