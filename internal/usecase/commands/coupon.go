package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"artisan-store/internal/domain/coupon"
	"artisan-store/internal/domain/pricing"
	"artisan-store/internal/infra"
	"artisan-store/internal/pkg/clock"
	"artisan-store/internal/pkg/errs"
	"artisan-store/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	// ErrCouponNotFound covers unknown, inactive, out-of-window and
	// budget-exhausted codes alike so callers cannot probe exhaustion state.
	ErrCouponNotFound   = errs.New("coupon not found")
	ErrCouponCodeTaken  = errs.New("coupon code already in use")
	ErrCouponValidation = errs.New("coupon validation error")
	ErrUsageLimitExceeded = errs.New("coupon usage limit exceeded")
)

// MinimumNotMetError carries the floor the order failed to reach.
type MinimumNotMetError struct {
	MinOrderCents int64
}

func (e *MinimumNotMetError) Error() string {
	return fmt.Sprintf("order amount below coupon minimum of %d cents", e.MinOrderCents)
}

// AllProductsExcludedError is returned when every requested product already
// carries an offer price, leaving the coupon nothing to discount.
type AllProductsExcludedError struct {
	ExcludedProductNames []string
}

func (e *AllProductsExcludedError) Error() string {
	return "coupon cannot apply: all products already discounted by an offer: " + strings.Join(e.ExcludedProductNames, ", ")
}

type ScopeMismatchError struct{}

func (e *ScopeMismatchError) Error() string {
	return "coupon does not apply to any product in the order"
}

type CouponInput struct {
	Code             string
	Name             string
	Type             string
	PercentValue     int64
	FixedValueCents  int64
	MinOrderCents    int64
	MaxDiscountCents *int64
	UsageLimit       *int64
	Scope            string
	CategoryID       *uuid.UUID
	ProductIDs       []uuid.UUID
	IsActive         bool
	StartsAt         time.Time
	EndsAt           *time.Time
}

type CouponValidationResult struct {
	Coupon               *shared.CouponSnapshot
	DiscountCents        int64
	ApplicableProductIDs []uuid.UUID
}

type CouponCommands interface {
	Create(ctx context.Context, input CouponInput) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, input CouponInput) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Validate runs the full eligibility pipeline for a code against an order
	// amount and product set, without consuming budget.
	Validate(ctx context.Context, code string, orderAmountCents int64, productIDs []uuid.UUID) (*CouponValidationResult, error)
	// Redeem consumes one unit of budget. Lost races surface as
	// ErrUsageLimitExceeded after a single retry.
	Redeem(ctx context.Context, couponID uuid.UUID) (int64, error)
}

type couponCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewCouponCommands(uow shared.UnitOfWork, clk clock.Clock) CouponCommands {
	return &couponCommandsImpl{uow: uow, clock: clk}
}

func (c *couponCommandsImpl) Create(ctx context.Context, input CouponInput) (uuid.UUID, error) {
	entity, err := buildCoupon(input)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, createErr := tx.Coupons().Create(ctx, tx.DB(), entity)
		if createErr != nil {
			return createErr
		}
		id = created
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, ErrCouponCodeTaken
		}
		return uuid.Nil, err
	}
	return id, nil
}

func (c *couponCommandsImpl) Update(ctx context.Context, id uuid.UUID, input CouponInput) error {
	validated, err := buildCoupon(input)
	if err != nil {
		return err
	}

	// usedCount is owned by redemption's guarded increment and is never
	// written on update; the zero here is not persisted.
	entity := coupon.ReconstructCoupon(
		id, validated.Code(), validated.Name(), validated.Discount(), validated.MinOrder(),
		validated.UsageLimit(), 0,
		validated.Scope(), validated.CategoryID(), validated.ProductIDs(),
		validated.IsActive(), validated.StartsAt(), validated.EndsAt(),
		time.Time{}, time.Time{},
	)

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Update(ctx, tx.DB(), entity)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrCouponNotFound
		}
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return ErrCouponCodeTaken
		}
		return err
	}
	return nil
}

func (c *couponCommandsImpl) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Delete(ctx, tx.DB(), id)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrCouponNotFound
		}
		return err
	}
	return nil
}

func (c *couponCommandsImpl) Validate(ctx context.Context, code string, orderAmountCents int64, productIDs []uuid.UUID) (*CouponValidationResult, error) {
	snap, err := c.uow.CommandReads().CouponByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	entity, err := couponFromSnapshot(snap)
	if err != nil {
		return nil, errs.Mark(err, ErrCouponValidation)
	}

	if !entity.IsCurrentlyActive(c.clock.Now()) {
		return nil, ErrCouponNotFound
	}
	// Exhausted budget is indistinguishable from an unknown code
	if !entity.HasBudget() {
		return nil, ErrCouponNotFound
	}

	orderAmount, err := pricing.NewMoney(orderAmountCents)
	if err != nil {
		return nil, errs.Mark(err, ErrCouponValidation)
	}
	if !entity.MeetsMinimum(orderAmount) {
		return nil, &MinimumNotMetError{MinOrderCents: entity.MinOrder().Cents()}
	}

	applicable, err := c.narrowByOfferExclusion(ctx, entity, productIDs)
	if err != nil {
		return nil, err
	}

	discount := entity.ComputeDiscount(orderAmount)

	return &CouponValidationResult{
		Coupon:               snap,
		DiscountCents:        discount.Cents(),
		ApplicableProductIDs: applicable,
	}, nil
}

// narrowByOfferExclusion drops products already carrying an offer price, then
// checks the coupon's scope against what is left. The discount base is NOT
// narrowed; only eligibility is.
func (c *couponCommandsImpl) narrowByOfferExclusion(ctx context.Context, entity *coupon.Coupon, productIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(productIDs) == 0 {
		return nil, &ScopeMismatchError{}
	}

	products, err := c.uow.CommandReads().ProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	var (
		applicable    []uuid.UUID
		categories    []uuid.UUID
		excludedNames []string
	)
	for _, p := range products {
		if p.OfferPriceCents != nil {
			excludedNames = append(excludedNames, p.Name)
			continue
		}
		applicable = append(applicable, p.ID)
		categories = append(categories, p.CategoryID)
	}

	if len(applicable) == 0 {
		return nil, &AllProductsExcludedError{ExcludedProductNames: excludedNames}
	}

	if !entity.AppliesToProducts(applicable) || !entity.AppliesToCategories(categories) {
		return nil, &ScopeMismatchError{}
	}

	return applicable, nil
}

func (c *couponCommandsImpl) Redeem(ctx context.Context, couponID uuid.UUID) (int64, error) {
	var usedCount int64
	attempt := func() error {
		return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			count, err := tx.Coupons().IncrementUsage(ctx, tx.DB(), couponID)
			if err != nil {
				return err
			}
			usedCount = count
			return nil
		})
	}

	err := attempt()
	if err != nil && !infra.IsKind(err, infra.KindConflict) {
		// Transient failure: one retry before surfacing
		err = attempt()
	}
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return 0, ErrUsageLimitExceeded
		}
		return 0, err
	}
	return usedCount, nil
}

func buildCoupon(input CouponInput) (*coupon.Coupon, error) {
	discountType := coupon.DiscountType(input.Type)
	if !discountType.IsValid() {
		return nil, errs.Mark(errs.New("unknown discount type"), ErrCouponValidation)
	}
	scope, err := coupon.NewScope(input.Scope)
	if err != nil {
		return nil, errs.Mark(err, ErrCouponValidation)
	}

	entity, err := coupon.NewCoupon(coupon.NewCouponParams{
		Code:             input.Code,
		Name:             input.Name,
		Type:             discountType,
		PercentValue:     input.PercentValue,
		FixedValueCents:  input.FixedValueCents,
		MinOrderCents:    input.MinOrderCents,
		MaxDiscountCents: input.MaxDiscountCents,
		UsageLimit:       input.UsageLimit,
		Scope:            scope,
		CategoryID:       input.CategoryID,
		ProductIDs:       input.ProductIDs,
		IsActive:         input.IsActive,
		StartsAt:         input.StartsAt,
		EndsAt:           input.EndsAt,
	})
	if err != nil {
		return nil, errs.Mark(err, ErrCouponValidation)
	}
	return entity, nil
}

func couponFromSnapshot(snap *shared.CouponSnapshot) (*coupon.Coupon, error) {
	code, err := coupon.NewCode(snap.Code)
	if err != nil {
		return nil, err
	}

	var discount coupon.Discount
	switch coupon.DiscountType(snap.DiscountType) {
	case coupon.DiscountPercentage:
		if snap.PercentOff == nil {
			return nil, errs.New("percentage coupon missing percent value")
		}
		discount, err = coupon.NewPercentageDiscount(*snap.PercentOff, snap.MaxDiscountCents)
	case coupon.DiscountFixed:
		if snap.AmountOffCents == nil {
			return nil, errs.New("fixed coupon missing amount value")
		}
		discount, err = coupon.NewFixedDiscount(*snap.AmountOffCents)
	default:
		return nil, errs.New("unknown discount type")
	}
	if err != nil {
		return nil, err
	}

	minOrder, err := pricing.NewMoney(snap.MinOrderCents)
	if err != nil {
		return nil, err
	}

	var startsAt time.Time
	if snap.StartsAt != nil {
		startsAt = *snap.StartsAt
	}

	return coupon.ReconstructCoupon(
		snap.ID, code, snap.Name, discount, minOrder,
		snap.UsageLimit, snap.UsedCount,
		coupon.Scope(snap.Scope), snap.CategoryID, snap.ProductIDs,
		snap.IsActive, startsAt, snap.EndsAt,
		time.Time{}, time.Time{},
	), nil
}
