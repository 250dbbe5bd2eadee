package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ============================================================================
// Amount
// ============================================================================
//
// Balances are stored as an integer count of minor units (cents). Floating
// point never reaches the store, so repeated add/remove cycles cannot drift.
//
// ============================================================================

// Scale is the number of fractional digits of the currency.
const Scale = 2

var ErrInvalidAmount = errors.New("invalid amount")

var minorPerMajor = decimal.New(1, Scale)

// Inputs outside these bounds cannot be an int64 count of minor units.
// They are rejected before any arithmetic, since decimal expands the
// exponent of "1e10000000" digit by digit.
const (
	maxInputLen = 32
	maxExponent = 18
	minExponent = -maxInputLen
)

// Amount is a monetary value in minor units.
type Amount int64

// FromMajor converts whole currency units to an Amount.
func FromMajor(units int64) Amount {
	return Amount(units * 100)
}

// Parse reads a decimal string such as "12.5" or "-3". The sign is kept;
// rejecting negative amounts is the ledger's job.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxInputLen {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if exp := d.Exponent(); exp > maxExponent || exp < minExponent {
		return 0, ErrInvalidAmount
	}
	minor := d.Mul(minorPerMajor)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, ErrInvalidAmount
	}
	if !minor.BigInt().IsInt64() {
		return 0, ErrInvalidAmount
	}
	return Amount(minor.IntPart()), nil
}

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// String renders the amount as "1234.56".
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool {
	return a < 0
}

// Format renders the amount with dot thousands separators and a comma
// decimal mark, e.g. 123456 -> "1.234,56".
func Format(a Amount) string {
	plain := a.String()
	neg := strings.HasPrefix(plain, "-")
	plain = strings.TrimPrefix(plain, "-")

	intPart, frac, _ := strings.Cut(plain, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
