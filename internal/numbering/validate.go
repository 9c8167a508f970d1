package numbering

import (
	"regexp"
	"strconv"

	"khata/internal/domain"
)

const (
	MaxPrefixLength = 10
	MaxBranchLength = 10
	MaxSequenceLen  = 10
)

var (
	prefixPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)
	branchPattern = regexp.MustCompile(`^[A-Za-z0-9]{0,10}$`)
)

// ValidPrefix reports whether p is an acceptable series prefix.
func ValidPrefix(p string) bool {
	return prefixPattern.MatchString(p)
}

// Capacity is the highest sequence s can issue: its end number, or the largest
// value that fits in SequenceLength digits when no end number is set.
func Capacity(s *domain.NumberingSeries) int64 {
	if s.EndNumber != nil {
		return *s.EndNumber
	}
	c := int64(1)
	for i := 0; i < s.SequenceLength; i++ {
		c *= 10
	}
	return c - 1
}

// ValidateSeries checks a series definition before it is stored. Besides the
// field rules it proves that no sequence up to Capacity renders a number that
// breaks the compliance limits.
func ValidateSeries(s *domain.NumberingSeries) error {
	if !domain.ValidDocumentTypes[s.DocumentType] {
		return domain.Validationf("unknown document type %q", s.DocumentType)
	}
	if !domain.ValidResetFrequencies[s.ResetFrequency] {
		return domain.Validationf("unknown reset frequency %q", s.ResetFrequency)
	}
	if !ValidPrefix(s.Prefix) {
		return domain.Validationf("prefix %q must be 1-%d upper-case letters or digits", s.Prefix, MaxPrefixLength)
	}
	if s.Separator != "" && s.Separator != "-" && s.Separator != "/" {
		return domain.Validationf("separator %q must be empty, \"-\" or \"/\"", s.Separator)
	}
	if !branchPattern.MatchString(s.Branch) {
		return domain.Validationf("branch %q must be at most %d letters or digits", s.Branch, MaxBranchLength)
	}
	if s.SequenceLength < 1 || s.SequenceLength > MaxSequenceLen {
		return domain.Validationf("sequence length %d must be between 1 and %d", s.SequenceLength, MaxSequenceLen)
	}
	if s.StartNumber < 1 {
		return domain.Validationf("start number %d must be at least 1", s.StartNumber)
	}
	if s.EndNumber != nil && *s.EndNumber < s.StartNumber {
		return domain.Validationf("end number %d is below start number %d", *s.EndNumber, s.StartNumber)
	}
	if s.EndNumber == nil && s.StartNumber > Capacity(s) {
		return domain.Validationf("start number %d needs more than %d digits; set an end number", s.StartNumber, s.SequenceLength)
	}

	layout, err := Parse(s.Format)
	if err != nil {
		return err
	}
	if layout.Count(TokenPrefix) == 0 {
		return domain.Validationf("format %q must contain PREFIX", s.Format)
	}
	if layout.Count(TokenSequence) != 1 {
		return domain.Validationf("format %q must contain SEQUENCE exactly once", s.Format)
	}
	if layout.Has(TokenBranch) && s.Branch == "" {
		return domain.Validationf("format %q uses BRANCH but the series has no branch", s.Format)
	}
	if err := checkPeriodTokens(layout, s); err != nil {
		return err
	}

	digits := s.SequenceLength
	if n := len(strconv.FormatInt(Capacity(s), 10)); n > digits {
		digits = n
	}
	worst := layout.MaxLength(Limits{
		PrefixLen:      len(s.Prefix),
		SeparatorLen:   len(s.Separator),
		BranchLen:      len(s.Branch),
		SequenceDigits: digits,
	})
	if worst > MaxNumberLength {
		return domain.Validationf("format %q can render %d characters, above the limit of %d", s.Format, worst, MaxNumberLength)
	}
	return nil
}

// checkPeriodTokens requires a resetting series to carry its period in the number,
// otherwise numbers from different epochs would collide.
func checkPeriodTokens(layout Layout, s *domain.NumberingSeries) error {
	hasYear := layout.Has(TokenYear) || layout.Has(TokenYY)
	switch s.ResetFrequency {
	case domain.ResetYearly, domain.ResetFiscalYear:
		if !hasYear {
			return domain.Validationf("series resetting %s must include YEAR or YY in its format", s.ResetFrequency)
		}
	case domain.ResetMonthly:
		if !hasYear || !layout.Has(TokenMonth) {
			return domain.Validationf("series resetting monthly must include MONTH and YEAR or YY in its format")
		}
	}
	return nil
}
