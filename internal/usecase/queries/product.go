package queries

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"artisan-store/internal/infra"
	"artisan-store/internal/infra/cache"
	"artisan-store/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrProductNotFound = errs.New("product not found")

// ProductView carries the materialized offer price so storefront reads
// never compute discounts at request time.
type ProductView struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	CategoryID      uuid.UUID  `json:"category_id"`
	CategoryName    string     `json:"category_name"`
	PriceCents      int64      `json:"price_cents"`
	OfferPriceCents *int64     `json:"offer_price_cents,omitempty"`
	InStock         bool       `json:"in_stock"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ProductFilter struct {
	CategoryID  *uuid.UUID
	InStockOnly bool
	OnOfferOnly bool
}

type ProductQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
	List(ctx context.Context, filter ProductFilter, after *Cursor, limit int) ([]*ProductView, *Cursor, error)
}

type ProductReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
	FindPage(ctx context.Context, filter ProductFilter, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*ProductView, error)
}

type productQueriesImpl struct {
	readStore ProductReadStore
	cache     cache.Cache
	cacheTTL  time.Duration
}

func NewProductQueries(readStore ProductReadStore, c cache.Cache, cacheTTL time.Duration) ProductQueries {
	return &productQueriesImpl{
		readStore: readStore,
		cache:     c,
		cacheTTL:  cacheTTL,
	}
}

func productCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id)
}

func (q *productQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	var cached ProductView
	if err := cache.GetJSON(ctx, q.cache, productCacheKey(id), &cached); err == nil {
		return &cached, nil
	}

	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if err := cache.SetJSON(ctx, q.cache, productCacheKey(id), view, q.cacheTTL); err != nil {
		slog.Warn("failed to cache product", "product_id", id, "error", err.Error())
	}

	return view, nil
}

func (q *productQueriesImpl) List(ctx context.Context, filter ProductFilter, after *Cursor, limit int) ([]*ProductView, *Cursor, error) {
	limit = ValidateLimit(limit)

	var (
		afterCreatedAt *time.Time
		afterID        *uuid.UUID
	)
	if after != nil && after.After != "" {
		t, id, err := DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, errs.Wrap(err, "invalid pagination cursor")
		}
		afterCreatedAt, afterID = &t, &id
	}

	// Fetch one extra row to detect whether another page exists.
	rows, err := q.readStore.FindPage(ctx, filter, afterCreatedAt, afterID, int32(limit+1))
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}

	return rows, next, nil
}
