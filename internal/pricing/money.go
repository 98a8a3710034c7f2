package pricing

import (
	"fmt"
	"strconv"
	"strings"
)

// Cents represents a monetary value in centavos. The catalog file and the
// public API exchange prices as plain decimals ("189.90"), so the type
// carries its own JSON encoding.
type Cents int64

// ParseCents converts a decimal string such as "19.90" into centavos.
// At most two fraction digits are accepted.
func ParseCents(value string) (Cents, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("pricing: empty amount")
	}
	negative := strings.HasPrefix(trimmed, "-")
	if negative {
		trimmed = trimmed[1:]
	}
	whole, frac, _ := strings.Cut(trimmed, ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("pricing: parse amount %q: %w", value, err)
	}
	var cents int64
	switch len(frac) {
	case 0:
	case 1:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("pricing: parse amount %q: %w", value, err)
		}
		cents = d * 10
	case 2:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("pricing: parse amount %q: %w", value, err)
		}
		cents = d
	default:
		return 0, fmt.Errorf("pricing: amount %q has more than two fraction digits", value)
	}
	total := units*100 + cents
	if negative {
		total = -total
	}
	return Cents(total), nil
}

// FromFloat converts a decimal amount to centavos rounding half away from zero.
func FromFloat(value float64) Cents {
	if value >= 0 {
		return Cents(value*100 + 0.5)
	}
	return Cents(value*100 - 0.5)
}

// Float returns the decimal representation of the amount.
func (c Cents) Float() float64 {
	return float64(c) / 100
}

// String renders the amount with two fraction digits.
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a JSON number with two fraction digits.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts either a decimal number or a quoted decimal string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "null" {
		*c = 0
		return nil
	}
	parsed, err := ParseCents(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
