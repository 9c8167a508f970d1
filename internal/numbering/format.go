// Package numbering parses series format strings, renders document numbers and
// decides when a series rolls into a new reset epoch. It holds no state; the
// sequence counter lives on the persisted series row.
package numbering

import (
	"fmt"
	"strings"

	"khata/internal/domain"
)

// Token is one substitutable element of a series format.
type Token int

const (
	TokenLiteral Token = iota
	TokenPrefix
	TokenYear
	TokenYY
	TokenMonth
	TokenSequence
	TokenBranch
	TokenSeparator
)

// tokenNames is ordered longest first so SEPARATOR wins over SEQUENCE prefixes and YEAR over YY.
var tokenNames = []struct {
	name  string
	token Token
}{
	{"SEPARATOR", TokenSeparator},
	{"SEQUENCE", TokenSequence},
	{"PREFIX", TokenPrefix},
	{"BRANCH", TokenBranch},
	{"MONTH", TokenMonth},
	{"YEAR", TokenYear},
	{"YY", TokenYY},
}

func (t Token) String() string {
	for _, tn := range tokenNames {
		if tn.token == t {
			return tn.name
		}
	}
	return "LITERAL"
}

// Segment is a token or a run of literal text.
type Segment struct {
	Token Token
	Text  string
}

// Layout is a parsed format string.
type Layout []Segment

// Parse splits a format such as "PREFIX-YEAR-SEQUENCE" or "{PREFIX}/{YY}{MONTH}/{SEQUENCE}" into segments.
// Literal text is limited to the characters a compliant number may contain.
func Parse(format string) (Layout, error) {
	if strings.TrimSpace(format) == "" {
		return nil, domain.Validationf("format is required")
	}
	var layout Layout
	var literal strings.Builder
	flush := func() {
		if literal.Len() > 0 {
			layout = append(layout, Segment{Token: TokenLiteral, Text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(format); {
		if format[i] == '{' {
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return nil, domain.Validationf("format %q has an unterminated token", format)
			}
			name := format[i+1 : i+end]
			tok, ok := lookupToken(name)
			if !ok {
				return nil, domain.Validationf("format %q has unknown token %q", format, name)
			}
			flush()
			layout = append(layout, Segment{Token: tok})
			i += end + 1
			continue
		}
		if tok, n := matchToken(format[i:]); n > 0 {
			flush()
			layout = append(layout, Segment{Token: tok})
			i += n
			continue
		}
		if !allowedChar(format[i]) {
			return nil, domain.Validationf("format %q contains character %q outside [A-Za-z0-9-/]", format, format[i])
		}
		literal.WriteByte(format[i])
		i++
	}
	flush()
	return layout, nil
}

func lookupToken(name string) (Token, bool) {
	for _, tn := range tokenNames {
		if tn.name == name {
			return tn.token, true
		}
	}
	return TokenLiteral, false
}

func matchToken(s string) (Token, int) {
	for _, tn := range tokenNames {
		if strings.HasPrefix(s, tn.name) {
			return tn.token, len(tn.name)
		}
	}
	return TokenLiteral, 0
}

// Count returns how many times tok occurs in the layout.
func (l Layout) Count(tok Token) int {
	n := 0
	for _, seg := range l {
		if seg.Token == tok {
			n++
		}
	}
	return n
}

// Has reports whether tok occurs in the layout.
func (l Layout) Has(tok Token) bool {
	return l.Count(tok) > 0
}

// Values are the inputs substituted into a layout.
type Values struct {
	Prefix         string
	Separator      string
	Branch         string
	Year           int
	Month          int
	Sequence       int64
	SequenceLength int
}

// Render substitutes v into the layout.
func (l Layout) Render(v Values) string {
	var b strings.Builder
	for _, seg := range l {
		switch seg.Token {
		case TokenLiteral:
			b.WriteString(seg.Text)
		case TokenPrefix:
			b.WriteString(v.Prefix)
		case TokenYear:
			fmt.Fprintf(&b, "%04d", v.Year)
		case TokenYY:
			fmt.Fprintf(&b, "%02d", v.Year%100)
		case TokenMonth:
			fmt.Fprintf(&b, "%02d", v.Month)
		case TokenSequence:
			fmt.Fprintf(&b, "%0*d", v.SequenceLength, v.Sequence)
		case TokenBranch:
			b.WriteString(v.Branch)
		case TokenSeparator:
			b.WriteString(v.Separator)
		}
	}
	return b.String()
}

// Limits bound the rendered width of the variable tokens.
type Limits struct {
	PrefixLen      int
	SeparatorLen   int
	BranchLen      int
	SequenceDigits int
}

// MaxLength returns the longest number the layout can render within limits.
func (l Layout) MaxLength(lim Limits) int {
	n := 0
	for _, seg := range l {
		switch seg.Token {
		case TokenLiteral:
			n += len(seg.Text)
		case TokenPrefix:
			n += lim.PrefixLen
		case TokenYear:
			n += 4
		case TokenYY, TokenMonth:
			n += 2
		case TokenSequence:
			n += lim.SequenceDigits
		case TokenBranch:
			n += lim.BranchLen
		case TokenSeparator:
			n += lim.SeparatorLen
		}
	}
	return n
}
