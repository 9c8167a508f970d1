package numbering

import (
	"time"

	"khata/internal/domain"
)

// Calendar evaluates reset epochs in a fixed location with a fiscal year that
// starts on FiscalStartMonth/FiscalStartDay.
type Calendar struct {
	Location         *time.Location
	FiscalStartMonth time.Month
	FiscalStartDay   int
}

// DefaultCalendar uses UTC and a fiscal year starting on 1 April.
func DefaultCalendar() Calendar {
	return Calendar{Location: time.UTC, FiscalStartMonth: time.April, FiscalStartDay: 1}
}

func (c Calendar) local(t time.Time) time.Time {
	if c.Location == nil {
		return t.UTC()
	}
	return t.In(c.Location)
}

// FiscalYear returns the calendar year in which the fiscal year containing t began.
func (c Calendar) FiscalYear(t time.Time) int {
	lt := c.local(t)
	month, day := c.FiscalStartMonth, c.FiscalStartDay
	if month == 0 {
		month = time.April
	}
	if day == 0 {
		day = 1
	}
	if lt.Month() < month || (lt.Month() == month && lt.Day() < day) {
		return lt.Year() - 1
	}
	return lt.Year()
}

// Epoch returns a key that increases by one each time freq rolls over. ResetNever is always epoch 0.
func (c Calendar) Epoch(freq domain.ResetFrequency, t time.Time) int {
	lt := c.local(t)
	switch freq {
	case domain.ResetMonthly:
		return lt.Year()*12 + int(lt.Month()) - 1
	case domain.ResetYearly:
		return lt.Year()
	case domain.ResetFiscalYear:
		return c.FiscalYear(t)
	default:
		return 0
	}
}

// NeedsReset reports whether now lies in a later epoch than lastReset.
// A series that has never been stamped does not reset; the caller stamps it instead.
func (c Calendar) NeedsReset(freq domain.ResetFrequency, lastReset *time.Time, now time.Time) bool {
	if freq == domain.ResetNever || lastReset == nil {
		return false
	}
	return c.Epoch(freq, now) > c.Epoch(freq, *lastReset)
}

// RenderYear is the year substituted for YEAR and YY. Fiscal-year series render the
// year their fiscal year began so numbers stay unique across epochs.
func (c Calendar) RenderYear(freq domain.ResetFrequency, t time.Time) int {
	if freq == domain.ResetFiscalYear {
		return c.FiscalYear(t)
	}
	return c.local(t).Year()
}
