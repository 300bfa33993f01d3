package coupon

import (
	"errors"
	"time"

	"artisan-store/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrInvalidPercentValue = errors.New("percentage value must be between 1 and 100")
	ErrNegativeFixedValue  = errors.New("fixed value cannot be negative")
	ErrNegativeMinOrder    = errors.New("minimum order amount cannot be negative")
	ErrCategoryRequired    = errors.New("category is required for category scope")
	ErrProductsRequired    = errors.New("product list is required for products scope")
	ErrInvalidScope        = errors.New("invalid coupon scope")
	ErrEndBeforeStart      = errors.New("coupon end date must be after start date")
)

// Coupon is a code-redeemable discount with an optional usage budget.
// usedCount is mutated only through the atomic redemption path; the entity
// never increments it in memory.
type Coupon struct {
	id          uuid.UUID
	code        Code
	name        string
	discount    Discount
	minOrder    pricing.Money
	usageLimit  *int64
	usedCount   int64
	scope       Scope
	categoryID  *uuid.UUID
	productIDs  []uuid.UUID
	isActive    bool
	startsAt    time.Time
	endsAt      *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

type NewCouponParams struct {
	Code            string
	Name            string
	Type            DiscountType
	PercentValue    int64
	FixedValueCents int64
	MinOrderCents   int64
	MaxDiscountCents *int64
	UsageLimit      *int64
	Scope           Scope
	CategoryID      *uuid.UUID
	ProductIDs      []uuid.UUID
	IsActive        bool
	StartsAt        time.Time
	EndsAt          *time.Time
}

func NewCoupon(p NewCouponParams) (*Coupon, error) {
	code, err := NewCode(p.Code)
	if err != nil {
		return nil, err
	}

	discount, err := newDiscount(p.Type, p.PercentValue, p.FixedValueCents, p.MaxDiscountCents)
	if err != nil {
		return nil, err
	}

	if p.MinOrderCents < 0 {
		return nil, ErrNegativeMinOrder
	}
	if err := validateScope(p.Scope, p.CategoryID, p.ProductIDs); err != nil {
		return nil, err
	}
	if p.EndsAt != nil && !p.EndsAt.After(p.StartsAt) {
		return nil, ErrEndBeforeStart
	}

	return &Coupon{
		id:         uuid.New(),
		code:       code,
		name:       p.Name,
		discount:   discount,
		minOrder:   pricing.MustMoney(p.MinOrderCents),
		usageLimit: p.UsageLimit,
		usedCount:  0,
		scope:      p.Scope,
		categoryID: p.CategoryID,
		productIDs: p.ProductIDs,
		isActive:   p.IsActive,
		startsAt:   p.StartsAt,
		endsAt:     p.EndsAt,
	}, nil
}

func validateScope(scope Scope, categoryID *uuid.UUID, productIDs []uuid.UUID) error {
	switch scope {
	case ScopeAll:
		return nil
	case ScopeCategory:
		if categoryID == nil {
			return ErrCategoryRequired
		}
		return nil
	case ScopeProducts:
		if len(productIDs) == 0 {
			return ErrProductsRequired
		}
		return nil
	default:
		return ErrInvalidScope
	}
}

// IsCurrentlyActive reports whether the coupon may be presented at t.
// Usage budget is checked separately so that an exhausted coupon is
// indistinguishable from an unknown code to callers.
func (c *Coupon) IsCurrentlyActive(t time.Time) bool {
	if !c.isActive {
		return false
	}
	if t.Before(c.startsAt) {
		return false
	}
	if c.endsAt != nil && !c.endsAt.After(t) {
		return false
	}
	return true
}

// HasBudget reports whether at least one redemption remains.
func (c *Coupon) HasBudget() bool {
	if c.usageLimit == nil {
		return true
	}
	return c.usedCount < *c.usageLimit
}

// MeetsMinimum reports whether orderAmount satisfies the coupon's floor.
func (c *Coupon) MeetsMinimum(orderAmount pricing.Money) bool {
	return !orderAmount.LessThan(c.minOrder)
}

// ComputeDiscount returns the discount for the full order amount. The result
// never exceeds orderAmount, and for percentage coupons never exceeds the
// optional cap.
func (c *Coupon) ComputeDiscount(orderAmount pricing.Money) pricing.Money {
	return c.discount.Amount(orderAmount)
}

// AppliesToProducts checks scope eligibility against the (already narrowed)
// product set. Category scope is resolved by the caller, which holds the
// products' category references.
func (c *Coupon) AppliesToProducts(productIDs []uuid.UUID) bool {
	switch c.scope {
	case ScopeProducts:
		targets := make(map[uuid.UUID]struct{}, len(c.productIDs))
		for _, id := range c.productIDs {
			targets[id] = struct{}{}
		}
		for _, id := range productIDs {
			if _, ok := targets[id]; ok {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// AppliesToCategories is the category-scope counterpart of
// AppliesToProducts.
func (c *Coupon) AppliesToCategories(categoryIDs []uuid.UUID) bool {
	if c.scope != ScopeCategory || c.categoryID == nil {
		return true
	}
	for _, id := range categoryIDs {
		if id == *c.categoryID {
			return true
		}
	}
	return false
}

func (c *Coupon) ID() uuid.UUID            { return c.id }
func (c *Coupon) Code() Code               { return c.code }
func (c *Coupon) Name() string             { return c.name }
func (c *Coupon) Discount() Discount       { return c.discount }
func (c *Coupon) MinOrder() pricing.Money  { return c.minOrder }
func (c *Coupon) UsageLimit() *int64       { return c.usageLimit }
func (c *Coupon) UsedCount() int64         { return c.usedCount }
func (c *Coupon) Scope() Scope             { return c.scope }
func (c *Coupon) CategoryID() *uuid.UUID   { return c.categoryID }
func (c *Coupon) ProductIDs() []uuid.UUID  { return c.productIDs }
func (c *Coupon) IsActive() bool           { return c.isActive }
func (c *Coupon) StartsAt() time.Time      { return c.startsAt }
func (c *Coupon) EndsAt() *time.Time       { return c.endsAt }
func (c *Coupon) CreatedAt() time.Time     { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time     { return c.updatedAt }

func ReconstructCoupon(
	id uuid.UUID,
	code Code,
	name string,
	discount Discount,
	minOrder pricing.Money,
	usageLimit *int64,
	usedCount int64,
	scope Scope,
	categoryID *uuid.UUID,
	productIDs []uuid.UUID,
	isActive bool,
	startsAt time.Time,
	endsAt *time.Time,
	createdAt, updatedAt time.Time,
) *Coupon {
	return &Coupon{
		id:         id,
		code:       code,
		name:       name,
		discount:   discount,
		minOrder:   minOrder,
		usageLimit: usageLimit,
		usedCount:  usedCount,
		scope:      scope,
		categoryID: categoryID,
		productIDs: productIDs,
		isActive:   isActive,
		startsAt:   startsAt,
		endsAt:     endsAt,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}
