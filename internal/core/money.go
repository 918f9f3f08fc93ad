package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Validation messages surfaced to callers. The wording is part of the
// contract with the presentation layer, so these stay user-facing.
var (
	ErrNegativeValue = errors.New("Value cannot be negative")
	ErrInvalidNumber = errors.New("Value must be a finite number")
)

// Money is an immutable monetary amount held as an integer number of cents.
// All arithmetic happens on cents; the floating-point view exists only for
// display.
type Money struct {
	cents int64
}

var brl = message.NewPrinter(language.BrazilianPortuguese)

// MoneyFromCents builds a Money from an integer cent count. Negative counts
// fail.
func MoneyFromCents(cents int64) Result[Money] {
	if cents < 0 {
		return Fail[Money](ErrNegativeValue)
	}
	return Ok(Money{cents: cents})
}

// MoneyFromMonetary converts a monetary float (e.g. 12.34) to cents,
// rounding half away from zero at the cent. NaN, infinities and negative
// values fail.
func MoneyFromMonetary(value float64) Result[Money] {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Fail[Money](ErrInvalidNumber)
	}
	if value < 0 {
		return Fail[Money](ErrNegativeValue)
	}
	cents := decimal.NewFromFloat(value).Mul(decimal.NewFromInt(100)).Round(0)
	if !cents.IsInteger() || cents.IsNegative() {
		return Fail[Money](ErrInvalidNumber)
	}
	return Ok(Money{cents: cents.IntPart()})
}

// ZeroMoney returns the zero amount.
func ZeroMoney() Money {
	return Money{}
}

// Cents returns the amount as integer cents. This is the only durable
// representation.
func (m Money) Cents() int64 {
	return m.cents
}

// Monetary returns the amount in monetary units for display. Calculations
// must use Cents to avoid floating-point drift.
func (m Money) Monetary() float64 {
	return float64(m.cents) / 100.0
}

// Add returns the sum of two amounts. Both operands are non-negative by
// construction, so addition never fails.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Subtract returns m minus other. A negative outcome is a failure, not a
// clamp; callers that want flooring substitute ZeroMoney themselves.
func (m Money) Subtract(other Money) Result[Money] {
	return MoneyFromCents(m.cents - other.cents)
}

// GreaterThan reports m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.cents > other.cents
}

// LessThan reports m < other.
func (m Money) LessThan(other Money) bool {
	return m.cents < other.cents
}

// Equal reports m == other.
func (m Money) Equal(other Money) bool {
	return m.cents == other.cents
}

// IsZero reports whether the amount is zero cents.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// Format renders the amount as Brazilian Real: "R$" plus a non-breaking
// space and a pt-BR grouped number with two decimals, e.g. "R$ 1.234,56".
// The fractional part is formatted from integer cents to keep floats out of
// the money path entirely.
func (m Money) Format() string {
	whole := brl.Sprint(number.Decimal(m.cents / 100))
	return fmt.Sprintf("R$ %s,%02d", whole, m.cents%100)
}

type moneyJSON struct {
	ValueInCents int64 `json:"valueInCents"`
}

// MarshalJSON serializes the amount as {"valueInCents": n}.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{ValueInCents: m.cents})
}

// MoneyFromJSON restores a Money from its JSON form, re-running the
// non-negativity check so a tampered document cannot produce an invalid
// amount.
func MoneyFromJSON(data []byte) Result[Money] {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Fail[Money](fmt.Errorf("decode money: %w", err))
	}
	return MoneyFromCents(raw.ValueInCents)
}
