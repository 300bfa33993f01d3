package pricing

import "errors"

var ErrNegativeAmount = errors.New("amount cannot be negative")

// Money is an amount in integer cents of the active storefront currency.
// All discount math rounds half-up to a whole cent.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents}, nil
}

func MustMoney(cents int64) Money {
	m, err := NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// SubFloor subtracts other, clamping at zero.
func (m Money) SubFloor(other Money) Money {
	remaining := m.cents - other.cents
	if remaining < 0 {
		remaining = 0
	}
	return Money{cents: remaining}
}

func (m Money) MulQty(qty int) Money {
	return Money{cents: m.cents * int64(qty)}
}

func (m Money) LessThan(other Money) bool {
	return m.cents < other.cents
}

func Min(a, b Money) Money {
	if a.cents <= b.cents {
		return a
	}
	return b
}

// PercentOf returns pct% of m, rounded half-up to a whole cent.
func PercentOf(m Money, pct int64) Money {
	return Money{cents: roundHalfUpDiv(m.cents*pct, 100)}
}

// DiscountedBy returns m reduced by pct%, rounded half-up. This is the
// offer-price formula: price - price*pct/100.
func (m Money) DiscountedBy(pct int64) Money {
	return Money{cents: roundHalfUpDiv(m.cents*(100-pct), 100)}
}

func roundHalfUpDiv(numerator, denominator int64) int64 {
	return (numerator + denominator/2) / denominator
}
