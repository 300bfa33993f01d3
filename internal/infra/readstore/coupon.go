package readstore

import (
	"context"
	"strings"

	"artisan-store/internal/infra"
	"artisan-store/internal/infra/db"
	"artisan-store/internal/pkg/pgconv"
	"artisan-store/internal/usecase/queries"
	"artisan-store/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(dbtx db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: dbtx}
}

const couponColumnsSQL = `
SELECT id, code, name, discount_type, percent_off, amount_off_cents, max_discount_cents,
       min_order_cents, usage_limit, used_count, scope, category_id, product_ids,
       is_active, starts_at, ends_at, created_at, updated_at
FROM coupons`

func (r *CouponReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CouponView, error) {
	view, err := scanCouponView(r.db.QueryRow(ctx, couponColumnsSQL+` WHERE id = $1`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by ID", err)
	}
	return view, nil
}

func (r *CouponReadStore) FindAll(ctx context.Context) ([]*queries.CouponView, error) {
	rows, err := r.db.Query(ctx, couponColumnsSQL+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	defer rows.Close()

	var views []*queries.CouponView
	for rows.Next() {
		view, scanErr := scanCouponView(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon row", scanErr)
		}
		views = append(views, view)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to iterate coupon rows", rows.Err())
	}
	return views, nil
}

func (r *CouponReadStore) FindSnapshotByCode(ctx context.Context, code string) (*shared.CouponSnapshot, error) {
	normalized := strings.ToUpper(code)
	view, err := scanCouponView(r.db.QueryRow(ctx, couponColumnsSQL+` WHERE code = $1`, normalized))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	return couponSnapshotFromView(view), nil
}

func (r *CouponReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.CouponSnapshot, error) {
	view, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return couponSnapshotFromView(view), nil
}

func scanCouponView(row rowScanner) (*queries.CouponView, error) {
	var (
		view        queries.CouponView
		percentOff  pgtype.Int8
		amountOff   pgtype.Int8
		maxDiscount pgtype.Int8
		usageLimit  pgtype.Int8
		categoryID  pgtype.UUID
		endsAt      pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.Code, &view.Name, &view.DiscountType,
		&percentOff, &amountOff, &maxDiscount,
		&view.MinOrderCents, &usageLimit, &view.UsedCount,
		&view.Scope, &categoryID, &view.ProductIDs,
		&view.IsActive, &view.StartsAt, &endsAt, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	view.PercentOff = pgconv.Int64PtrFromPgtype(percentOff)
	view.AmountOffCents = pgconv.Int64PtrFromPgtype(amountOff)
	view.MaxDiscountCents = pgconv.Int64PtrFromPgtype(maxDiscount)
	view.UsageLimit = pgconv.Int64PtrFromPgtype(usageLimit)
	view.CategoryID = pgconv.UUIDPtrFromPgtype(categoryID)
	view.EndsAt = pgconv.TimePtrFromPgtype(endsAt)
	return &view, nil
}

func couponSnapshotFromView(view *queries.CouponView) *shared.CouponSnapshot {
	startsAt := view.StartsAt
	return &shared.CouponSnapshot{
		ID:               view.ID,
		Code:             view.Code,
		Name:             view.Name,
		DiscountType:     view.DiscountType,
		PercentOff:       view.PercentOff,
		AmountOffCents:   view.AmountOffCents,
		MaxDiscountCents: view.MaxDiscountCents,
		MinOrderCents:    view.MinOrderCents,
		UsageLimit:       view.UsageLimit,
		UsedCount:        view.UsedCount,
		Scope:            view.Scope,
		CategoryID:       view.CategoryID,
		ProductIDs:       view.ProductIDs,
		IsActive:         view.IsActive,
		StartsAt:         &startsAt,
		EndsAt:           view.EndsAt,
	}
}
