package coupon

import (
	"errors"
	"regexp"
	"strings"

	"artisan-store/internal/domain/pricing"
)

var (
	ErrInvalidCouponCode = errors.New("invalid coupon code format")
	ErrInvalidDiscount   = errors.New("invalid discount definition")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// Code is the redemption code, stored upper-cased so lookups are
// case-insensitive.
type Code string

func NewCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// Discount is either a percentage of the order amount (with an optional
// absolute cap) or a fixed amount.
type Discount struct {
	kind        DiscountType
	percent     int64
	fixed       pricing.Money
	maxDiscount *pricing.Money
}

func NewPercentageDiscount(percent int64, maxDiscountCents *int64) (Discount, error) {
	if percent < 1 || percent > 100 {
		return Discount{}, ErrInvalidPercentValue
	}
	var cap *pricing.Money
	if maxDiscountCents != nil {
		m, err := pricing.NewMoney(*maxDiscountCents)
		if err != nil {
			return Discount{}, ErrInvalidDiscount
		}
		cap = &m
	}
	return Discount{kind: DiscountPercentage, percent: percent, maxDiscount: cap}, nil
}

func NewFixedDiscount(cents int64) (Discount, error) {
	if cents < 0 {
		return Discount{}, ErrNegativeFixedValue
	}
	return Discount{kind: DiscountFixed, fixed: pricing.MustMoney(cents)}, nil
}

func newDiscount(kind DiscountType, percent, fixedCents int64, maxDiscountCents *int64) (Discount, error) {
	switch kind {
	case DiscountPercentage:
		return NewPercentageDiscount(percent, maxDiscountCents)
	case DiscountFixed:
		return NewFixedDiscount(fixedCents)
	default:
		return Discount{}, ErrInvalidDiscount
	}
}

func (d Discount) Type() DiscountType {
	return d.kind
}

func (d Discount) Percent() int64 {
	return d.percent
}

func (d Discount) FixedCents() int64 {
	return d.fixed.Cents()
}

func (d Discount) MaxDiscount() *pricing.Money {
	return d.maxDiscount
}

// Amount computes the discount against the full order amount: percentage is
// rounded half-up and capped by maxDiscount; both kinds are capped by the
// order amount itself.
func (d Discount) Amount(orderAmount pricing.Money) pricing.Money {
	var raw pricing.Money
	switch d.kind {
	case DiscountPercentage:
		raw = pricing.PercentOf(orderAmount, d.percent)
		if d.maxDiscount != nil {
			raw = pricing.Min(raw, *d.maxDiscount)
		}
	case DiscountFixed:
		raw = d.fixed
	}
	return pricing.Min(raw, orderAmount)
}
