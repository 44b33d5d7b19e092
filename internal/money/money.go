// Package money converts between user-entered decimal amounts and the integer
// minor units (cents) used for every calculation.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidMoney is returned for amounts that cannot be represented exactly
// in cents.
var ErrInvalidMoney = errors.New("invalid money amount")

// MinorUnits is the number of fractional digits kept for every amount.
const MinorUnits = 2

var maxCents = decimal.NewFromInt(math.MaxInt64)

// Parse converts a non-negative decimal string such as "12.5" into cents.
// More than two fractional digits are rejected rather than rounded.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidMoney)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %q is negative", ErrInvalidMoney, s)
	}

	cents := d.Shift(MinorUnits)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidMoney, s, MinorUnits)
	}
	if cents.GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: %q too large", ErrInvalidMoney, s)
	}
	return cents.IntPart(), nil
}

// Format renders cents as a fixed two-decimal string, e.g. 1250 -> "12.50".
func Format(cents int64) string {
	return decimal.NewFromInt(cents).Shift(-MinorUnits).StringFixed(MinorUnits)
}
