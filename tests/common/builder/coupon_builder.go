//go:build unit || e2e

package builder

import (
	"time"

	"artisan-store/internal/domain/coupon"
	reqdto "artisan-store/internal/handler/dto/request"
	"artisan-store/internal/usecase/queries"
	"artisan-store/internal/usecase/shared"

	"github.com/google/uuid"
)

type CouponBuilder struct {
	ID               uuid.UUID
	Code             string
	Name             string
	Type             string
	PercentValue     int64
	FixedValueCents  int64
	MinOrderCents    int64
	MaxDiscountCents *int64
	UsageLimit       *int64
	UsedCount        int64
	Scope            string
	CategoryID       *uuid.UUID
	ProductIDs       []uuid.UUID
	IsActive         bool
	StartsAt         time.Time
	EndsAt           *time.Time
}

func NewCouponBuilder() *CouponBuilder {
	return &CouponBuilder{
		ID:           uuid.New(),
		Code:         "WELCOME10",
		Name:         "Welcome discount",
		Type:         "percentage",
		PercentValue: 10,
		Scope:        "all",
		IsActive:     true,
		StartsAt:     time.Now().Add(-time.Hour),
	}
}

func (c *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(c)
	return c
}

// Build methods
func (c *CouponBuilder) BuildDomain() (*coupon.Coupon, error) {
	return coupon.NewCoupon(coupon.NewCouponParams{
		Code:             c.Code,
		Name:             c.Name,
		Type:             coupon.DiscountType(c.Type),
		PercentValue:     c.PercentValue,
		FixedValueCents:  c.FixedValueCents,
		MinOrderCents:    c.MinOrderCents,
		MaxDiscountCents: c.MaxDiscountCents,
		UsageLimit:       c.UsageLimit,
		Scope:            coupon.Scope(c.Scope),
		CategoryID:       c.CategoryID,
		ProductIDs:       c.ProductIDs,
		IsActive:         c.IsActive,
		StartsAt:         c.StartsAt,
		EndsAt:           c.EndsAt,
	})
}

func (c *CouponBuilder) BuildSnapshot() *shared.CouponSnapshot {
	startsAt := c.StartsAt
	snap := &shared.CouponSnapshot{
		ID:               c.ID,
		Code:             c.Code,
		Name:             c.Name,
		DiscountType:     c.Type,
		MaxDiscountCents: c.MaxDiscountCents,
		MinOrderCents:    c.MinOrderCents,
		UsageLimit:       c.UsageLimit,
		UsedCount:        c.UsedCount,
		Scope:            c.Scope,
		CategoryID:       c.CategoryID,
		ProductIDs:       c.ProductIDs,
		IsActive:         c.IsActive,
		StartsAt:         &startsAt,
		EndsAt:           c.EndsAt,
	}
	switch c.Type {
	case "percentage":
		percent := c.PercentValue
		snap.PercentOff = &percent
	case "fixed":
		amount := c.FixedValueCents
		snap.AmountOffCents = &amount
	}
	return snap
}

func (c *CouponBuilder) BuildView() *queries.CouponView {
	snap := c.BuildSnapshot()
	return &queries.CouponView{
		ID:               snap.ID,
		Code:             snap.Code,
		Name:             snap.Name,
		DiscountType:     snap.DiscountType,
		PercentOff:       snap.PercentOff,
		AmountOffCents:   snap.AmountOffCents,
		MaxDiscountCents: snap.MaxDiscountCents,
		MinOrderCents:    snap.MinOrderCents,
		UsageLimit:       snap.UsageLimit,
		UsedCount:        snap.UsedCount,
		Scope:            snap.Scope,
		CategoryID:       snap.CategoryID,
		ProductIDs:       snap.ProductIDs,
		IsActive:         snap.IsActive,
		StartsAt:         c.StartsAt,
		EndsAt:           snap.EndsAt,
	}
}

func (c *CouponBuilder) BuildRequestDTO() reqdto.CouponRequest {
	return reqdto.CouponRequest{
		Code:             c.Code,
		Name:             c.Name,
		Type:             c.Type,
		PercentValue:     c.PercentValue,
		FixedValueCents:  c.FixedValueCents,
		MinOrderCents:    c.MinOrderCents,
		MaxDiscountCents: c.MaxDiscountCents,
		UsageLimit:       c.UsageLimit,
		Scope:            c.Scope,
		CategoryID:       c.CategoryID,
		ProductIDs:       c.ProductIDs,
		IsActive:         c.IsActive,
		StartsAt:         c.StartsAt,
		EndsAt:           c.EndsAt,
	}
}

// Fluent builder methods
func (c *CouponBuilder) WithCode(code string) *CouponBuilder {
	c.Code = code
	return c
}

func (c *CouponBuilder) WithPercent(percent int64) *CouponBuilder {
	c.Type = "percentage"
	c.PercentValue = percent
	return c
}

func (c *CouponBuilder) WithFixed(cents int64) *CouponBuilder {
	c.Type = "fixed"
	c.FixedValueCents = cents
	return c
}

func (c *CouponBuilder) WithMaxDiscount(cents int64) *CouponBuilder {
	c.MaxDiscountCents = &cents
	return c
}

func (c *CouponBuilder) WithMinOrder(cents int64) *CouponBuilder {
	c.MinOrderCents = cents
	return c
}

func (c *CouponBuilder) WithUsageLimit(limit int64) *CouponBuilder {
	c.UsageLimit = &limit
	return c
}

func (c *CouponBuilder) WithUsedCount(count int64) *CouponBuilder {
	c.UsedCount = count
	return c
}

func (c *CouponBuilder) WithCategoryScope(categoryID uuid.UUID) *CouponBuilder {
	c.Scope = "category"
	c.CategoryID = &categoryID
	return c
}

func (c *CouponBuilder) WithProductsScope(productIDs ...uuid.UUID) *CouponBuilder {
	c.Scope = "products"
	c.ProductIDs = productIDs
	return c
}

func (c *CouponBuilder) AsInactive() *CouponBuilder {
	c.IsActive = false
	return c
}

func (c *CouponBuilder) AsExpired() *CouponBuilder {
	endsAt := time.Now().Add(-time.Minute)
	c.StartsAt = endsAt.Add(-time.Hour)
	c.EndsAt = &endsAt
	return c
}

func (c *CouponBuilder) AsExhausted() *CouponBuilder {
	limit := int64(5)
	c.UsageLimit = &limit
	c.UsedCount = 5
	return c
}
