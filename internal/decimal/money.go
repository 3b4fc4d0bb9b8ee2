package decimal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// Cent is the smallest monetary step (0.01)
var Cent = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// xsdDecimal is the xsd:decimal lexical space after normalizeNumeric: no exponent
var xsdDecimal = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]*)?$`)

// FromString parses an xsd:decimal.
// Surrounding whitespace is ignored and a bare leading dot gets a zero (".5" -> "0.5").
// Exponents such as "1e3" are rejected.
func FromString(s string) (decimal.Decimal, error) {
	n := normalizeNumeric(s)
	if !xsdDecimal.MatchString(n) {
		return decimal.Zero, fmt.Errorf("can't convert %q to decimal", s)
	}
	return decimal.NewFromString(strings.TrimPrefix(n, "+"))
}

func normalizeNumeric(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "."):
		return "0" + s
	case strings.HasPrefix(s, "-."), strings.HasPrefix(s, "+."):
		return s[:1] + "0" + s[1:]
	}
	return s
}

// RoundCents rounds to 2 places, ties away from zero
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent computes amount * (rate/100) without rounding
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred)
}

// Ratio computes |part| / |whole| * 100 rounded to 2 places.
// Returns zero when whole is zero.
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return Zero
	}
	return part.Abs().Div(whole.Abs()).Mul(hundred).Round(2)
}

// Sign returns -1, 0 or 1 as a decimal
func Sign(d decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(d.Sign()))
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// WithinTolerance reports whether |a - b| <= tolerance
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}
