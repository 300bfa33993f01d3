package order

import (
	"errors"
	"time"

	"artisan-store/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrNoLineItems       = errors.New("order must contain at least one line item")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrNotCancellable    = errors.New("order can no longer be cancelled by the customer")
)

// Order is the immutable record of a completed checkout. All pricing fields
// are frozen at creation; only status changes afterwards. Orders are never
// deleted, cancellation is a status.
type Order struct {
	id             uuid.UUID
	userID         uuid.UUID
	items          []LineItem
	subtotal       pricing.Money
	appliedCoupon  *AppliedCoupon
	couponDiscount pricing.Money
	total          pricing.Money
	currency       string
	status         Status
	shipping       ShippingAddress
	phone          Phone
	createdAt      time.Time
	updatedAt      time.Time
}

func (o *Order) ID() uuid.UUID                  { return o.id }
func (o *Order) UserID() uuid.UUID              { return o.userID }
func (o *Order) Items() []LineItem              { return o.items }
func (o *Order) Subtotal() pricing.Money        { return o.subtotal }
func (o *Order) AppliedCoupon() *AppliedCoupon  { return o.appliedCoupon }
func (o *Order) CouponDiscount() pricing.Money  { return o.couponDiscount }
func (o *Order) Total() pricing.Money           { return o.total }
func (o *Order) Currency() string               { return o.currency }
func (o *Order) Status() Status                 { return o.status }
func (o *Order) ShippingAddress() ShippingAddress { return o.shipping }
func (o *Order) Phone() Phone                   { return o.phone }
func (o *Order) CreatedAt() time.Time           { return o.createdAt }
func (o *Order) UpdatedAt() time.Time           { return o.updatedAt }

// TransitionTo moves the status forward along the state machine.
func (o *Order) TransitionTo(next Status) error {
	if !o.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	o.status = next
	return nil
}

// CancelByCustomer enforces the self-cancel rule: only pending or confirmed
// orders may be cancelled by their owner.
func (o *Order) CancelByCustomer() error {
	if !o.status.CustomerCancellable() {
		return ErrNotCancellable
	}
	o.status = StatusCancelled
	return nil
}

func ReconstructOrder(
	id, userID uuid.UUID,
	items []LineItem,
	subtotal pricing.Money,
	appliedCoupon *AppliedCoupon,
	couponDiscount pricing.Money,
	total pricing.Money,
	currency string,
	status Status,
	shipping ShippingAddress,
	phone Phone,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:             id,
		userID:         userID,
		items:          items,
		subtotal:       subtotal,
		appliedCoupon:  appliedCoupon,
		couponDiscount: couponDiscount,
		total:          total,
		currency:       currency,
		status:         status,
		shipping:       shipping,
		phone:          phone,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}
