package readstore

import (
	"context"
	"time"

	"artisan-store/internal/infra"
	"artisan-store/internal/infra/db"
	"artisan-store/internal/pkg/pgconv"
	"artisan-store/internal/usecase/queries"
	"artisan-store/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(dbtx db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: dbtx}
}

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	var (
		view       queries.OrderView
		couponCode pgtype.Text
	)
	err := r.db.QueryRow(ctx, `
SELECT id, user_id, subtotal_cents, discount_cents, total_cents, currency, status,
       coupon_code, shipping_address, phone, created_at, updated_at
FROM orders WHERE id = $1`, id).Scan(
		&view.ID, &view.UserID, &view.SubtotalCents, &view.DiscountCents, &view.TotalCents,
		&view.Currency, &view.Status, &couponCode, &view.ShippingAddress, &view.Phone,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order by ID", err)
	}
	view.CouponCode = pgconv.StringPtrFromPgtype(couponCode)

	items, err := r.findItems(ctx, id)
	if err != nil {
		return nil, err
	}
	view.Items = items
	return &view, nil
}

func (r *OrderReadStore) findItems(ctx context.Context, orderID uuid.UUID) ([]queries.OrderItemView, error) {
	rows, err := r.db.Query(ctx, `
SELECT product_id, product_name, unit_price_cents, quantity
FROM order_items WHERE order_id = $1 ORDER BY product_name`, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order items", err)
	}
	defer rows.Close()

	var items []queries.OrderItemView
	for rows.Next() {
		var item queries.OrderItemView
		if scanErr := rows.Scan(&item.ProductID, &item.ProductName, &item.UnitPriceCents, &item.Quantity); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan order item", scanErr)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to iterate order items", rows.Err())
	}
	return items, nil
}

const orderListSQL = `
SELECT o.id, o.total_cents, o.currency, o.status, count(i.order_id), o.created_at
FROM orders o
LEFT JOIN order_items i ON i.order_id = o.id`

func (r *OrderReadStore) FindByUserPage(ctx context.Context, userID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	sql := orderListSQL + `
WHERE o.user_id = $1
  AND ($2::timestamptz IS NULL OR (o.created_at, o.id) < ($2, $3))
GROUP BY o.id
ORDER BY o.created_at DESC, o.id DESC
LIMIT $4`
	return r.queryList(ctx, sql, userID, afterCreatedAt, afterID, limit)
}

func (r *OrderReadStore) FindAllPage(ctx context.Context, status *string, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	sql := orderListSQL + `
WHERE ($1::text IS NULL OR o.status = $1)
  AND ($2::timestamptz IS NULL OR (o.created_at, o.id) < ($2, $3))
GROUP BY o.id
ORDER BY o.created_at DESC, o.id DESC
LIMIT $4`
	return r.queryList(ctx, sql, status, afterCreatedAt, afterID, limit)
}

func (r *OrderReadStore) queryList(ctx context.Context, sql string, args ...any) ([]*queries.OrderListItem, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	var items []*queries.OrderListItem
	for rows.Next() {
		var item queries.OrderListItem
		if scanErr := rows.Scan(&item.ID, &item.TotalCents, &item.Currency, &item.Status, &item.ItemCount, &item.CreatedAt); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan order row", scanErr)
		}
		items = append(items, &item)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to iterate order rows", rows.Err())
	}
	return items, nil
}

func (r *OrderReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.OrderSnapshot, error) {
	var snap shared.OrderSnapshot
	err := r.db.QueryRow(ctx, `
SELECT id, user_id, status, subtotal_cents, discount_cents, total_cents
FROM orders WHERE id = $1`, id).Scan(
		&snap.ID, &snap.UserID, &snap.Status, &snap.SubtotalCents, &snap.DiscountCents, &snap.TotalCents,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load order snapshot", err)
	}
	return &snap, nil
}
