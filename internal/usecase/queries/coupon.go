package queries

import (
	"context"
	"time"

	"artisan-store/internal/infra"
	"artisan-store/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrCouponNotFound = errs.New("coupon not found")

type CouponView struct {
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

type CouponQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
	List(ctx context.Context) ([]*CouponView, error)
}

type CouponReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CouponView, error)
	FindAll(ctx context.Context) ([]*CouponView, error)
}

type couponQueriesImpl struct {
	readStore CouponReadStore
}

func NewCouponQueries(readStore CouponReadStore) CouponQueries {
	return &couponQueriesImpl{readStore: readStore}
}

func (q *couponQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CouponView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *couponQueriesImpl) List(ctx context.Context) ([]*CouponView, error) {
	return q.readStore.FindAll(ctx)
}
