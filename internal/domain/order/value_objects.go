package order

import (
	"errors"
	"strings"

	"artisan-store/internal/domain/coupon"
	"artisan-store/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrEmptyShippingAddress = errors.New("shipping address cannot be empty")
	ErrEmptyPhone          = errors.New("phone cannot be empty")
)

// LineItem is an immutable snapshot of what was bought: the product name and
// unit price are frozen at order time, independent of later catalog edits.
type LineItem struct {
	productID uuid.UUID
	name      string
	unitPrice pricing.Money
	quantity  int
}

func NewLineItem(productID uuid.UUID, name string, unitPrice pricing.Money, quantity int) (LineItem, error) {
	if quantity <= 0 {
		return LineItem{}, ErrInvalidQuantity
	}
	return LineItem{
		productID: productID,
		name:      name,
		unitPrice: unitPrice,
		quantity:  quantity,
	}, nil
}

func (li LineItem) ProductID() uuid.UUID      { return li.productID }
func (li LineItem) Name() string              { return li.name }
func (li LineItem) UnitPrice() pricing.Money  { return li.unitPrice }
func (li LineItem) Quantity() int             { return li.quantity }

func (li LineItem) Total() pricing.Money {
	return li.unitPrice.MulQty(li.quantity)
}

// AppliedCoupon freezes what the customer redeemed: later edits to the
// coupon record never change this snapshot.
type AppliedCoupon struct {
	couponID uuid.UUID
	code     coupon.Code
	kind     coupon.DiscountType
	discount pricing.Money
}

func NewAppliedCoupon(couponID uuid.UUID, code coupon.Code, kind coupon.DiscountType, discount pricing.Money) AppliedCoupon {
	return AppliedCoupon{
		couponID: couponID,
		code:     code,
		kind:     kind,
		discount: discount,
	}
}

func (ac AppliedCoupon) CouponID() uuid.UUID        { return ac.couponID }
func (ac AppliedCoupon) Code() coupon.Code          { return ac.code }
func (ac AppliedCoupon) Type() coupon.DiscountType  { return ac.kind }
func (ac AppliedCoupon) Discount() pricing.Money    { return ac.discount }

type ShippingAddress struct {
	value string
}

func NewShippingAddress(s string) (ShippingAddress, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ShippingAddress{}, ErrEmptyShippingAddress
	}
	return ShippingAddress{value: s}, nil
}

func (a ShippingAddress) String() string {
	return a.value
}

type Phone struct {
	value string
}

func NewPhone(s string) (Phone, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Phone{}, ErrEmptyPhone
	}
	return Phone{value: s}, nil
}

func (p Phone) String() string {
	return p.value
}
