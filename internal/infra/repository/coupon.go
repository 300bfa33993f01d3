package repository

import (
	"context"

	"artisan-store/internal/domain/coupon"
	"artisan-store/internal/infra"
	"artisan-store/internal/infra/db"
	"artisan-store/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type CouponRepository struct{}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{}
}

const insertCouponSQL = `
INSERT INTO coupons (
	id, code, name, discount_type, percent_off, amount_off_cents, max_discount_cents,
	min_order_cents, usage_limit, used_count, scope, category_id, product_ids,
	is_active, starts_at, ends_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING id`

func (r *CouponRepository) Create(ctx context.Context, tx db.DBTX, c *coupon.Coupon) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, insertCouponSQL, couponArgs(c)...).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("coupon code already exists", err, infra.KindDuplicateKey)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create coupon", err)
	}
	return id, nil
}

// used_count is deliberately absent: redemption's guarded increment is the
// only writer, so an edit can never hand back budget a concurrent checkout
// already claimed.
const updateCouponSQL = `
UPDATE coupons
SET code = $2, name = $3, discount_type = $4, percent_off = $5, amount_off_cents = $6,
    max_discount_cents = $7, min_order_cents = $8, usage_limit = $9,
    scope = $10, category_id = $11, product_ids = $12, is_active = $13,
    starts_at = $14, ends_at = $15, updated_at = now()
WHERE id = $1`

func (r *CouponRepository) Update(ctx context.Context, tx db.DBTX, c *coupon.Coupon) error {
	tag, err := tx.Exec(ctx, updateCouponSQL, updateCouponArgs(c)...)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("coupon code already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to update coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CouponRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound)
	}
	return nil
}

// The WHERE clause is the budget guard: the row only matches while usage
// remains, so two concurrent redemptions of the last slot cannot both win.
const incrementUsageSQL = `
UPDATE coupons
SET used_count = used_count + 1, updated_at = now()
WHERE id = $1 AND (usage_limit IS NULL OR used_count < usage_limit)
RETURNING used_count`

func (r *CouponRepository) IncrementUsage(ctx context.Context, tx db.DBTX, id uuid.UUID) (int64, error) {
	var usedCount int64
	err := tx.QueryRow(ctx, incrementUsageSQL, id).Scan(&usedCount)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, infra.WrapRepoErr("coupon usage limit reached", err, infra.KindConflict)
		}
		return 0, infra.WrapRepoErr("failed to increment coupon usage", err)
	}
	return usedCount, nil
}

func couponArgs(c *coupon.Coupon) []any {
	d := c.Discount()

	var percentOff *int64
	var amountOff *int64
	switch d.Type() {
	case coupon.DiscountPercentage:
		p := d.Percent()
		percentOff = &p
	case coupon.DiscountFixed:
		a := d.FixedCents()
		amountOff = &a
	}

	var maxDiscount *int64
	if m := d.MaxDiscount(); m != nil {
		cents := m.Cents()
		maxDiscount = &cents
	}

	return []any{
		c.ID(), c.Code().String(), c.Name(), string(d.Type()), percentOff, amountOff, maxDiscount,
		c.MinOrder().Cents(), c.UsageLimit(), c.UsedCount(), string(c.Scope()), c.CategoryID(), c.ProductIDs(),
		c.IsActive(), c.StartsAt(), c.EndsAt(),
	}
}

func updateCouponArgs(c *coupon.Coupon) []any {
	args := couponArgs(c)
	// Same column order as the insert, minus used_count at index 9.
	return append(args[:9], args[10:]...)
}
