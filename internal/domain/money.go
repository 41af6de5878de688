// internal/domain/money.go
package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Money is a fixed-point monetary amount stored as cents. All arithmetic on
// amounts happens on int64 cents; float64 never touches a monetary value.
type Money struct {
	Cents int64
}

// Amounts carry at most 12 integer digits and exactly 2 fraction digits.
const maxIntegerDigits = 12

// ParseMoney converts a decimal string like "1234.56" to Money. Both dot and
// comma decimal separators are accepted. Unlike display-oriented parsers it
// rejects rather than rounds: a third fraction digit, a 13th integer digit,
// a sign, or any non-digit character is a ValidationError.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, NewValidationError("amount", "must not be empty")
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, NewValidationError("amount", "must not be signed")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, NewValidationError("amount", "malformed decimal")
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	// ASCII digits only. Unicode digit classes would pass the per-part
	// length checks on byte length and corrupt the cents math below.
	for i := 0; i < len(intPart); i++ {
		if intPart[i] < '0' || intPart[i] > '9' {
			return Money{}, NewValidationError("amount", "malformed decimal")
		}
	}
	for i := 0; i < len(fracPart); i++ {
		if fracPart[i] < '0' || fracPart[i] > '9' {
			return Money{}, NewValidationError("amount", "malformed decimal")
		}
	}
	if len(intPart) > maxIntegerDigits {
		return Money{}, NewValidationError("amount", "more than 12 integer digits")
	}
	if len(fracPart) > 2 {
		return Money{}, NewValidationError("amount", "more than 2 fraction digits")
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, NewValidationError("amount", "malformed decimal")
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
		}
	}
	return Money{Cents: iv*100 + fracCents}, nil
}

// Add returns m + n.
func (m Money) Add(n Money) Money {
	return Money{Cents: m.Cents + n.Cents}
}

// Sub returns m - n.
func (m Money) Sub(n Money) Money {
	return Money{Cents: m.Cents - n.Cents}
}

func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// String renders the amount with exactly two fraction digits, e.g. "150.00".
func (m Money) String() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// MarshalJSON emits the exact decimal as a JSON number, never a float.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "null" {
		return nil
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
