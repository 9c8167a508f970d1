// Package tax splits tax between same-region and cross-region components and folds
// document lines into totals. Nothing in this package performs I/O or keeps state
// between calls.
package tax

import (
	"strings"

	"github.com/cockroachdb/errors"

	"khata/internal/domain"
)

// registrationNumberLength is the length of a GST-style registration number whose
// first two characters carry the state code.
const registrationNumberLength = 15

// MissingPolicy decides the treatment of a document whose origin or destination
// jurisdiction is absent.
type MissingPolicy string

const (
	MissingAsSameRegion  MissingPolicy = "same_region"
	MissingAsCrossRegion MissingPolicy = "cross_region"
	MissingReject        MissingPolicy = "reject"
)

// ParseMissingPolicy validates a configured policy name. Empty selects MissingAsSameRegion.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch p := MissingPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return MissingAsSameRegion, nil
	case MissingAsSameRegion, MissingAsCrossRegion, MissingReject:
		return p, nil
	default:
		return "", errors.Newf("unknown missing-jurisdiction policy %q", s)
	}
}

// Regions normalises jurisdiction identifiers. Lookups are case-insensitive and
// resolve codes, names and short codes to the same canonical key.
// It is immutable after construction and safe for concurrent access.
type Regions struct {
	aliases map[string]string
}

// NewRegions builds the alias table from the jurisdiction directory.
func NewRegions(entries []domain.Jurisdiction) *Regions {
	m := make(map[string]string, len(entries)*3)
	for idx := range entries {
		e := &entries[idx]
		canonical := normalizeKey(e.Code)
		if canonical == "" {
			continue
		}
		m[canonical] = canonical
		if name := normalizeKey(e.Name); name != "" {
			m[name] = canonical
		}
		if short := normalizeKey(e.ShortCode); short != "" {
			m[short] = canonical
		}
	}
	return &Regions{aliases: m}
}

// Normalize returns the canonical key for id, or "" when id is blank.
// Unknown identifiers normalise to their trimmed lower-case form.
func (r *Regions) Normalize(id string) string {
	key := normalizeKey(id)
	if key == "" {
		return ""
	}
	if len(key) == registrationNumberLength && isDigits(key[:2]) {
		key = key[:2]
	}
	if r != nil {
		if canonical, ok := r.aliases[key]; ok {
			return canonical
		}
	}
	return key
}

// Same reports whether two identifiers name the same jurisdiction. Blank identifiers never match.
func (r *Regions) Same(a, b string) bool {
	na, nb := r.Normalize(a), r.Normalize(b)
	return na != "" && na == nb
}

// Len returns the number of aliases known to the table.
func (r *Regions) Len() int {
	if r == nil {
		return 0
	}
	return len(r.aliases)
}

func normalizeKey(s string) string {
	key := strings.ToLower(strings.Join(strings.Fields(s), " "))
	// Single-digit numeric state codes are stored zero-padded.
	if len(key) == 1 && isDigits(key) {
		key = "0" + key
	}
	return key
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
