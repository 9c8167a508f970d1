package numbering

import (
	"fmt"

	"khata/internal/domain"
)

// MaxNumberLength is the longest document number tax-authority reporting accepts.
const MaxNumberLength = 16

func allowedChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '/'
}

// CheckCompliance rejects numbers longer than MaxNumberLength or containing
// characters outside [A-Za-z0-9-/].
func CheckCompliance(number string) error {
	if number == "" {
		return &domain.ComplianceError{Number: number, Reason: "number is empty"}
	}
	if len(number) > MaxNumberLength {
		return &domain.ComplianceError{
			Number: number,
			Reason: fmt.Sprintf("length %d exceeds %d", len(number), MaxNumberLength),
		}
	}
	for i := 0; i < len(number); i++ {
		if !allowedChar(number[i]) {
			return &domain.ComplianceError{
				Number: number,
				Reason: fmt.Sprintf("character %q is not allowed", number[i]),
			}
		}
	}
	return nil
}
