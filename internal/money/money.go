package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when requests do not specify one.
const DefaultCurrency = "USD"

// minorUnits is the number of decimal places carried per currency unit.
const minorUnits = 2

// Money is an exact amount stored as an integer count of minor units
// (cents). All arithmetic is integer arithmetic; decimal is used only at
// the parse/format boundary.
type Money struct {
	Units    int64  `json:"units" db:"units"`
	Currency string `json:"currency" db:"currency"`
}

func New(units int64, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Units: units, Currency: currency}
}

func Zero(currency string) Money {
	return New(0, currency)
}

// Parse converts a decimal string like "100.00" into Money. Amounts with
// more precision than the currency carries are rejected rather than
// rounded.
func Parse(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %v", s, err)
	}
	shifted := d.Shift(minorUnits)
	if !shifted.IsInteger() {
		return Money{}, fmt.Errorf("amount %q has more than %d decimal places", s, minorUnits)
	}
	return New(shifted.IntPart(), currency), nil
}

func (m Money) sameCurrency(o Money) {
	if m.Currency != o.Currency {
		panic(fmt.Sprintf("money: currency mismatch %s vs %s", m.Currency, o.Currency))
	}
}

func (m Money) Add(o Money) Money {
	m.sameCurrency(o)
	return Money{Units: m.Units + o.Units, Currency: m.Currency}
}

func (m Money) Sub(o Money) Money {
	m.sameCurrency(o)
	return Money{Units: m.Units - o.Units, Currency: m.Currency}
}

func (m Money) MulInt(n int64) Money {
	return Money{Units: m.Units * n, Currency: m.Currency}
}

// Cmp returns -1, 0 or 1 as m is less than, equal to or greater than o.
func (m Money) Cmp(o Money) int {
	m.sameCurrency(o)
	switch {
	case m.Units < o.Units:
		return -1
	case m.Units > o.Units:
		return 1
	default:
		return 0
	}
}

func (m Money) Equal(o Money) bool    { return m.Cmp(o) == 0 }
func (m Money) LessThan(o Money) bool { return m.Cmp(o) < 0 }
func (m Money) GreaterThan(o Money) bool { return m.Cmp(o) > 0 }

func (m Money) IsZero() bool     { return m.Units == 0 }
func (m Money) IsPositive() bool { return m.Units > 0 }
func (m Money) IsNegative() bool { return m.Units < 0 }

// Decimal returns the amount in major units for display and export.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Units, -minorUnits)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(minorUnits) + " " + m.Currency
}
