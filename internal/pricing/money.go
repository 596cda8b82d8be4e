package pricing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value stored in minor units (cents).
type Money int64

const centsExponent = -2

var maxMoney = decimal.NewFromInt(math.MaxInt64)

// Comparing or rescaling a decimal materialises 10^|exponent| as a big.Int,
// so untrusted numeric text is bounded before any arithmetic.
const (
	maxNumericLen      = 32
	maxNumericExponent = 24
)

var (
	errNumericRange     = errors.New("numeric value out of range")
	errNumericPrecision = errors.New("numeric value too precise")
)

// parseBoundedDecimal parses raw as a decimal whose length and exponent are
// small enough for constant-cost comparisons.
func parseBoundedDecimal(raw string) (decimal.Decimal, error) {
	if len(raw) > maxNumericLen {
		return decimal.Decimal{}, errNumericRange
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.Exponent() > maxNumericExponent {
		return decimal.Decimal{}, errNumericRange
	}
	if d.Exponent() < -maxNumericExponent {
		return decimal.Decimal{}, errNumericPrecision
	}
	return d, nil
}

// ParseMoney converts a decimal string such as "3650.00" into Money without
// passing through binary floating point. Amounts with more than two
// fractional digits are rejected rather than rounded.
func ParseMoney(value string) (Money, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}
	d, err := parseBoundedDecimal(trimmed)
	if errors.Is(err, errNumericRange) {
		return 0, fmt.Errorf("%w: %q", ErrAmountOverflow, value)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	cents := d.Shift(-centsExponent)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: %q has more than two fractional digits", ErrInvalidAmount, value)
	}
	if cents.Abs().GreaterThan(maxMoney) {
		return 0, fmt.Errorf("%w: %q", ErrAmountOverflow, value)
	}
	return Money(cents.IntPart()), nil
}

// Decimal returns the amount as a decimal in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), centsExponent)
}

// String formats the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a JSON number with two fractional digits.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	parsed, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Add returns m+o, failing instead of wrapping around on overflow.
func (m Money) Add(o Money) (Money, error) {
	if (o > 0 && m > math.MaxInt64-o) || (o < 0 && m < math.MinInt64-o) {
		return 0, ErrAmountOverflow
	}
	return m + o, nil
}

// Mul returns m*n, failing instead of wrapping around on overflow.
func (m Money) Mul(n int64) (Money, error) {
	if m == 0 || n == 0 {
		return 0, nil
	}
	product := int64(m) * n
	if product/n != int64(m) || (n == -1 && m == math.MinInt64) {
		return 0, ErrAmountOverflow
	}
	return Money(product), nil
}
