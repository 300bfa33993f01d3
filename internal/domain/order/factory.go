package order

import (
	"artisan-store/internal/domain/pricing"

	"github.com/google/uuid"
)

// Factory composes order totals. The currency is injected once at wiring
// time rather than read from a global, so an in-flight checkout always keeps
// the currency it started with.
type Factory struct {
	currency string
}

func NewFactory(currency string) *Factory {
	return &Factory{currency: currency}
}

// CreateOrder builds the immutable order record:
//
//	subtotal = Σ unitPrice×quantity
//	couponDiscount = applied coupon's discount (or zero)
//	total = max(0, subtotal − couponDiscount)
//
// The line items must already carry the current catalog unit price
// (offer price when set, base price otherwise).
func (f *Factory) CreateOrder(
	userID uuid.UUID,
	items []LineItem,
	appliedCoupon *AppliedCoupon,
	shipping ShippingAddress,
	phone Phone,
) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoLineItems
	}

	var subtotal pricing.Money
	for _, item := range items {
		subtotal = subtotal.Add(item.Total())
	}

	var discount pricing.Money
	if appliedCoupon != nil {
		discount = appliedCoupon.Discount()
	}

	return &Order{
		id:             uuid.New(),
		userID:         userID,
		items:          items,
		subtotal:       subtotal,
		appliedCoupon:  appliedCoupon,
		couponDiscount: discount,
		total:          subtotal.SubFloor(discount),
		currency:       f.currency,
		status:         StatusPending,
		shipping:       shipping,
		phone:          phone,
	}, nil
}
