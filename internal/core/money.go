// Package core provides money parsing and handling utilities.
//
// Amounts are rupiah held as exact decimals. They serialize as bare JSON
// numbers so that stored records stay readable by every client of the cache.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Money is an amount in rupiah.
type Money struct {
	decimal.Decimal
}

// NewMoney creates an amount from whole rupiah.
func NewMoney(rupiah int64) Money {
	return Money{Decimal: decimal.NewFromInt(rupiah)}
}

// MoneyFromFloat converts a float document value into Money.
func MoneyFromFloat(f float64) Money {
	return Money{Decimal: decimal.NewFromFloat(f)}
}

// ParseMoney parses a plain decimal string such as "50000" or "-10000.5".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{Decimal: d}, nil
}

// ParseRupiahInput reads a form amount the way cashiers type it: every
// non-digit is dropped, so "Rp 1.500.000" is 1500000. Input without any
// digit yields zero.
//
// Examples:
//
//	ParseRupiahInput("150000")       -> 150000
//	ParseRupiahInput("Rp 1.500.000") -> 1500000
//	ParseRupiahInput("abc")          -> 0
func ParseRupiahInput(s string) Money {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return Money{}
	}
	d, err := decimal.NewFromString(digits)
	if err != nil {
		return Money{}
	}
	return Money{Decimal: d}
}

func (m Money) Add(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

func (m Money) Sub(o Money) Money {
	return Money{Decimal: m.Decimal.Sub(o.Decimal)}
}

func (m Money) Equal(o Money) bool {
	return m.Decimal.Equal(o.Decimal)
}

// MarshalJSON writes the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted number.
func (m *Money) UnmarshalJSON(b []byte) error {
	return m.Decimal.UnmarshalJSON(b)
}
