package request

import (
	"artisan-store/internal/usecase/commands"

	"github.com/google/uuid"
)

type CheckoutItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

type AppliedCouponRequest struct {
	CouponID      uuid.UUID `json:"coupon_id" binding:"required"`
	Code          string    `json:"code" binding:"required"`
	DiscountCents int64     `json:"discount_cents" binding:"gte=0"`
	Type          string    `json:"type" binding:"required,oneof=percentage fixed"`
}

type CheckoutRequest struct {
	Items           []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	AppliedCoupon   *AppliedCouponRequest `json:"applied_coupon,omitempty"`
	ShippingAddress string                `json:"shipping_address" binding:"required"`
	Phone           string                `json:"phone" binding:"required"`
}

func (r CheckoutRequest) ToInput() commands.CheckoutInput {
	items := make([]commands.CheckoutItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = commands.CheckoutItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	var applied *commands.AppliedCouponInput
	if r.AppliedCoupon != nil {
		applied = &commands.AppliedCouponInput{
			CouponID:      r.AppliedCoupon.CouponID,
			Code:          r.AppliedCoupon.Code,
			DiscountCents: r.AppliedCoupon.DiscountCents,
			Type:          r.AppliedCoupon.Type,
		}
	}

	return commands.CheckoutInput{
		Items:           items,
		AppliedCoupon:   applied,
		ShippingAddress: r.ShippingAddress,
		Phone:           r.Phone,
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed shipped delivered completed cancelled"`
}
