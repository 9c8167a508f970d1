package numbering

import (
	"time"

	"khata/internal/domain"
)

// Plan is the next allocation a series would make at a given instant.
type Plan struct {
	Number   string
	Sequence int64
	// Reset is true when the series rolls into a new epoch and restarts at its start number.
	Reset bool
	// StampReset is true when last_reset_at must be written, either on a reset or on the first allocation.
	StampReset bool
	At         time.Time
}

// Next computes what the next allocation on s would yield at now. It does not
// mutate s; the caller persists Sequence and, when StampReset is set, At as the
// new last_reset_at.
func (c Calendar) Next(s *domain.NumberingSeries, now time.Time) (*Plan, error) {
	layout, err := Parse(s.Format)
	if err != nil {
		return nil, err
	}

	p := &Plan{At: now}
	current := s.CurrentSequence
	if c.NeedsReset(s.ResetFrequency, s.LastResetAt, now) {
		current = s.StartNumber - 1
		p.Reset = true
		p.StampReset = true
	} else if s.LastResetAt == nil && s.ResetFrequency != domain.ResetNever {
		p.StampReset = true
	}

	next := current + 1
	if next < s.StartNumber {
		next = s.StartNumber
	}
	if limit := Capacity(s); next > limit {
		return nil, &domain.ExhaustedError{SeriesID: s.ID, EndNumber: limit}
	}

	local := c.local(now)
	p.Sequence = next
	p.Number = layout.Render(Values{
		Prefix:         s.Prefix,
		Separator:      s.Separator,
		Branch:         s.Branch,
		Year:           c.RenderYear(s.ResetFrequency, now),
		Month:          int(local.Month()),
		Sequence:       next,
		SequenceLength: s.SequenceLength,
	})
	if err := CheckCompliance(p.Number); err != nil {
		return nil, err
	}
	return p, nil
}
