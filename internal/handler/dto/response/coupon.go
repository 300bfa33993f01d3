package response

import (
	"time"

	"artisan-store/internal/usecase/commands"
	"artisan-store/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CouponResponse struct {
	ID               uuid.UUID   `json:"id"`
	Code             string      `json:"code"`
	Name             string      `json:"name"`
	DiscountType     string      `json:"discount_type"`
	PercentOff       *int64      `json:"percent_off,omitempty"`
	AmountOffCents   *int64      `json:"amount_off_cents,omitempty"`
	MaxDiscountCents *int64      `json:"max_discount_cents,omitempty"`
	MinOrderCents    int64       `json:"min_order_cents"`
	UsageLimit       *int64      `json:"usage_limit,omitempty"`
	UsedCount        int64       `json:"used_count"`
	Scope            string      `json:"scope"`
	CategoryID       *uuid.UUID  `json:"category_id,omitempty"`
	ProductIDs       []uuid.UUID `json:"product_ids,omitempty"`
	IsActive         bool        `json:"is_active"`
	StartsAt         time.Time   `json:"starts_at"`
	EndsAt           *time.Time  `json:"ends_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// ValidatedCouponResponse echoes back everything checkout needs to re-submit
// the coupon as an applied discount.
type ValidatedCouponResponse struct {
	CouponID             uuid.UUID   `json:"coupon_id"`
	Code                 string      `json:"code"`
	Type                 string      `json:"type"`
	DiscountCents        int64       `json:"discount_cents"`
	ApplicableProductIDs []uuid.UUID `json:"applicable_product_ids"`
}

func FromCouponView(view *queries.CouponView) *CouponResponse {
	var resp CouponResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromCouponList(views []*queries.CouponView) []*CouponResponse {
	resp := make([]*CouponResponse, len(views))
	for i, view := range views {
		resp[i] = FromCouponView(view)
	}
	return resp
}

func FromCouponValidation(result *commands.CouponValidationResult) *ValidatedCouponResponse {
	return &ValidatedCouponResponse{
		CouponID:             result.Coupon.ID,
		Code:                 result.Coupon.Code,
		Type:                 result.Coupon.DiscountType,
		DiscountCents:        result.DiscountCents,
		ApplicableProductIDs: result.ApplicableProductIDs,
	}
}
