package models

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a rupee value held as a whole number of paise.
// All arithmetic on money happens on this integer form.
type Amount int64

const paisePerRupee = 100

var (
	ErrAmountPrecision = errors.New("amount cannot have more than two decimal places")
	ErrAmountRange     = errors.New("amount is out of range")
)

var (
	maxPaise = decimal.NewFromInt(math.MaxInt64)
	minPaise = decimal.NewFromInt(-math.MaxInt64)
)

// Rupees builds an Amount from a whole rupee value.
func Rupees(r int64) Amount {
	return Amount(r * paisePerRupee)
}

// Paise builds an Amount from a raw paise value.
func Paise(p int64) Amount {
	return Amount(p)
}

// ParseAmount reads a decimal string such as "15000" or "10000.01".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}

	return FromDecimal(d)
}

func FromDecimal(d decimal.Decimal) (Amount, error) {
	scaled := d.Shift(2)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, ErrAmountPrecision
	}
	if scaled.GreaterThan(maxPaise) || scaled.LessThan(minPaise) {
		return 0, ErrAmountRange
	}

	return Amount(scaled.IntPart()), nil
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

func (a Amount) Float64() float64 {
	f, _ := a.Decimal().Float64()
	return f
}

func (a Amount) IsPositive() bool {
	return a > 0
}

// Min returns the smallest of the given amounts.
func Min(first Amount, rest ...Amount) Amount {
	m := first
	for _, v := range rest {
		if v < m {
			m = v
		}
	}
	return m
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted and bare JSON numbers.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}

	parsed, err := FromDecimal(d)
	if err != nil {
		return err
	}

	*a = parsed
	return nil
}
