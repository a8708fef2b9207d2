// Package amount provides an exact fixed-point representation for token
// quantities and prices. Values are immutable; every operation returns a
// new Amount.
package amount

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmpty is returned by Parse for empty input.
	ErrEmpty = fmt.Errorf("empty amount string")
	// ErrMalformed is returned by Parse for anything that is not an
	// optionally signed decimal number.
	ErrMalformed = fmt.Errorf("malformed amount string")
)

// Amount is an integer mantissa with a decimal scale. Arithmetic is exact:
// operands of differing scale are rescaled losslessly before combining.
type Amount struct {
	d decimal.Decimal
}

var Zero = Amount{}

// Parse builds an Amount from a decimal string. Accepted grammar: optional
// sign, digits, optional decimal point with fractional digits. Exponent
// notation is rejected so that wire values round-trip exactly.
func Parse(s string) (Amount, error) {
	if s == "" {
		return Amount{}, ErrEmpty
	}
	if !wellFormed(s) {
		return Amount{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return Amount{d: d}, nil
}

// MustParse is Parse for compile-time constants; panics on error.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func wellFormed(s string) bool {
	i := 0
	if s[0] == '+' || s[0] == '-' {
		i++
	}
	digits, point := 0, false
	for ; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.' && !point:
			point = true
		default:
			return false
		}
	}
	return digits > 0
}

// FromUnits builds an Amount equal to mantissa × 10^(-scale).
func FromUnits(mantissa int64, scale int32) Amount {
	return Amount{d: decimal.New(mantissa, -scale)}
}

// FromBigUnits is FromUnits for mantissas that do not fit in int64.
func FromBigUnits(mantissa *big.Int, scale int32) Amount {
	return Amount{d: decimal.NewFromBigInt(mantissa, -scale)}
}

// FromDecimal wraps an existing decimal value.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// Decimal exposes the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.d
}

// Scale returns the number of fractional digits carried by the
// representation.
func (a Amount) Scale() int32 {
	if e := a.d.Exponent(); e < 0 {
		return -e
	}
	return 0
}

// Add returns a+b exactly; the result carries the larger of the two scales.
func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

// Sub returns a-b exactly.
func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d)}
}

// Mul returns a×b exactly; the result scale is the sum of the input scales.
func (a Amount) Mul(b Amount) Amount {
	return Amount{d: a.d.Mul(b.d)}
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return Amount{d: a.d.Neg()}
}

// ShiftScale moves the decimal point left by delta digits (delta may be
// negative to move right). Used to convert between atomic units and
// display units given a token's decimals.
func (a Amount) ShiftScale(delta int32) Amount {
	return Amount{d: a.d.Shift(-delta)}
}

// Cmp compares numeric values after implicit rescale: -1 if a < b,
// 0 if equal, +1 if a > b.
func (a Amount) Cmp(b Amount) int {
	return a.d.Cmp(b.d)
}

// Equal reports numeric equality regardless of representation.
func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

// String renders the value with trailing fractional zeros trimmed.
// The sign appears only for negative values.
func (a Amount) String() string {
	s := a.d.String()
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// StringFixed renders with exactly scale fractional digits.
func (a Amount) StringFixed(scale int32) string {
	return a.d.StringFixed(scale)
}

// DisplayPrice renders a short UI price: six fractional digits, cut to
// seven characters.
func (a Amount) DisplayPrice() string {
	s := a.d.StringFixed(6)
	if len(s) > 7 {
		s = s[:7]
	}
	return s
}
