package request

import (
	"time"

	"artisan-store/internal/usecase/commands"

	"github.com/google/uuid"
)

type CouponRequest struct {
	Code             string      `json:"code" binding:"required"`
	Name             string      `json:"name" binding:"required"`
	Type             string      `json:"type" binding:"required,oneof=percentage fixed"`
	PercentValue     int64       `json:"percent_value"`
	FixedValueCents  int64       `json:"fixed_value_cents"`
	MinOrderCents    int64       `json:"min_order_cents"`
	MaxDiscountCents *int64      `json:"max_discount_cents,omitempty"`
	UsageLimit       *int64      `json:"usage_limit,omitempty"`
	Scope            string      `json:"scope" binding:"required,oneof=all category products"`
	CategoryID       *uuid.UUID  `json:"category_id,omitempty"`
	ProductIDs       []uuid.UUID `json:"product_ids,omitempty"`
	IsActive         bool        `json:"is_active"`
	StartsAt         time.Time   `json:"starts_at" binding:"required"`
	EndsAt           *time.Time  `json:"ends_at,omitempty"`
}

func (r CouponRequest) ToInput() commands.CouponInput {
	return commands.CouponInput{
		Code:             r.Code,
		Name:             r.Name,
		Type:             r.Type,
		PercentValue:     r.PercentValue,
		FixedValueCents:  r.FixedValueCents,
		MinOrderCents:    r.MinOrderCents,
		MaxDiscountCents: r.MaxDiscountCents,
		UsageLimit:       r.UsageLimit,
		Scope:            r.Scope,
		CategoryID:       r.CategoryID,
		ProductIDs:       r.ProductIDs,
		IsActive:         r.IsActive,
		StartsAt:         r.StartsAt,
		EndsAt:           r.EndsAt,
	}
}

// ValidateCouponRequest carries the shopper's current cart so eligibility and
// the discount figure can be computed against what they are about to buy.
type ValidateCouponRequest struct {
	Code             string      `json:"code" binding:"required"`
	OrderAmountCents int64       `json:"order_amount_cents" binding:"required,gt=0"`
	ProductIDs       []uuid.UUID `json:"product_ids" binding:"required,min=1"`
}
