package pricing

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var reNotNumeric = regexp.MustCompile(`[^0-9.]`)

// ToNum keeps only digits and '.' and parses the rest. Empty or unparseable input
// is null, never zero.
func ToNum(raw string) decimal.NullDecimal {
	s := reNotNumeric.ReplaceAllString(raw, "")
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Float returns a rounded JSON-friendly pointer, nil for null.
func Float(n decimal.NullDecimal) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Decimal.InexactFloat64()
	return &f
}
