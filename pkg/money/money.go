// Package money provides a fixed-point monetary value object.
//
// Amounts are stored as int64 in the smallest currency unit (minor units,
// e.g. cents for USD). Floating point never touches the ledger core; the
// decimal bridge at the API boundary goes through shopspring/decimal.
package money

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidCurrencyCode is returned when a currency code is not a valid
	// ISO 4217 code (3 uppercase letters).
	ErrInvalidCurrencyCode = errors.New("invalid currency code")

	// ErrAmountOverflow is returned when an arithmetic operation would
	// overflow the int64 minor-unit representation.
	ErrAmountOverflow = errors.New("amount exceeds maximum representable value")

	// ErrTooManyDecimals is returned when a decimal amount carries more
	// fractional digits than the currency supports.
	ErrTooManyDecimals = errors.New("amount has more decimal places than the currency allows")
)

// DefaultCurrency is used when no explicit currency code is supplied.
const DefaultCurrency = Code("USD")

// minorUnitDecimals is the exponent of the minor unit (cents).
const minorUnitDecimals = 2

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Code is an ISO 4217 currency code.
type Code string

func (c Code) String() string { return string(c) }

// Valid reports whether the code has the ISO 4217 shape.
func (c Code) Valid() bool { return currencyCodeRe.MatchString(string(c)) }

// Money is a monetary value in a specific currency.
//
// Invariants:
//   - amount is stored in minor units (cents).
//   - currency is a valid ISO 4217 code.
//   - arithmetic requires matching currencies.
type Money struct {
	amount   int64
	currency Code
}

// New creates Money from a minor-unit amount.
func New(amount int64, currency Code) (Money, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	if !currency.Valid() {
		return Money{}, ErrInvalidCurrencyCode
	}
	return Money{amount: amount, currency: currency}, nil
}

// FromDecimal converts a decimal main-unit amount (e.g. "10.50") to Money.
// Fails if the value carries sub-cent precision.
func FromDecimal(d decimal.Decimal, currency Code) (Money, error) {
	scaled := d.Shift(minorUnitDecimals)
	if !scaled.IsInteger() {
		return Money{}, ErrTooManyDecimals
	}
	if !scaled.BigInt().IsInt64() {
		return Money{}, ErrAmountOverflow
	}
	return New(scaled.IntPart(), currency)
}

// MustNew is New for constant inputs; panics on invalid currency.
// Intended for tests and fixtures.
func MustNew(amount int64, currency Code) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Amount returns the value in minor units.
func (m Money) Amount() int64 { return m.amount }

// Currency returns the currency code.
func (m Money) Currency() Code { return m.currency }

// Decimal returns the value in main units as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.amount, -minorUnitDecimals)
}

// Add returns m + other. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, ErrInvalidCurrencyCode
	}
	sum := m.amount + other.amount
	if (other.amount > 0 && sum < m.amount) || (other.amount < 0 && sum > m.amount) {
		return Money{}, ErrAmountOverflow
	}
	return Money{amount: sum, currency: m.currency}, nil
}

// Subtract returns m - other. Currencies must match.
func (m Money) Subtract(other Money) (Money, error) {
	return m.Add(Money{amount: -other.amount, currency: other.currency})
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.amount > 0 }

// IsNegative reports whether the amount is strictly less than zero.
func (m Money) IsNegative() bool { return m.amount < 0 }

// IsSameCurrency reports whether both values share a currency.
func (m Money) IsSameCurrency(other Money) bool { return m.currency == other.currency }

// Equals reports whether both values share currency and amount.
func (m Money) Equals(other Money) bool {
	return m.IsSameCurrency(other) && m.amount == other.amount
}

// LessThan reports whether m < other. Currencies must match.
func (m Money) LessThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, ErrInvalidCurrencyCode
	}
	return m.amount < other.amount, nil
}

// String renders the amount in main units, e.g. "15.00 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(minorUnitDecimals), m.currency)
}
