package readstore

import (
	"context"

	"artisan-store/internal/infra"
	"artisan-store/internal/infra/db"
	"artisan-store/internal/pkg/pgconv"
	"artisan-store/internal/usecase/queries"
	"artisan-store/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CartReadStore struct {
	db db.DBTX
}

func NewCartReadStore(dbtx db.DBTX) *CartReadStore {
	return &CartReadStore{db: dbtx}
}

const cartItemsSQL = `
SELECT ci.id, ci.product_id, p.name, ci.unit_price_cents,
       COALESCE(p.offer_price_cents, p.price_cents), ci.quantity, p.in_stock, ci.added_at
FROM carts c
JOIN cart_items ci ON ci.cart_id = c.id
JOIN products p ON p.id = ci.product_id
WHERE c.user_id = $1
ORDER BY ci.added_at ASC, ci.id ASC`

func (r *CartReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) (*queries.CartView, error) {
	var (
		cartID pgtype.UUID
		view   queries.CartView
	)
	err := r.db.QueryRow(ctx, `SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&cartID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			// An empty cart and a missing cart row look the same to clients.
			view.UserID = userID
			view.Items = []queries.CartItemView{}
			return &view, nil
		}
		return nil, infra.WrapRepoErr("failed to find cart", err)
	}
	view.ID = uuid.UUID(cartID.Bytes)
	view.UserID = userID
	view.Items = []queries.CartItemView{}

	rows, err := r.db.Query(ctx, cartItemsSQL, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load cart items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item queries.CartItemView
		if scanErr := rows.Scan(
			&item.ID, &item.ProductID, &item.ProductName, &item.UnitPriceCents,
			&item.EffectivePriceCents, &item.Quantity, &item.InStock, &item.AddedAt,
		); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan cart item", scanErr)
		}
		view.SubtotalCents += item.UnitPriceCents * int64(item.Quantity)
		view.Items = append(view.Items, item)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to iterate cart items", rows.Err())
	}
	return &view, nil
}

func (r *CartReadStore) FindSnapshotByUserID(ctx context.Context, userID uuid.UUID) (*shared.CartSnapshot, error) {
	var snap shared.CartSnapshot
	err := r.db.QueryRow(ctx, `SELECT id, user_id FROM carts WHERE user_id = $1`, userID).
		Scan(&snap.ID, &snap.UserID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("cart not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load cart snapshot", err)
	}

	rows, err := r.db.Query(ctx, `
SELECT id, product_id, unit_price_cents, quantity, added_at
FROM cart_items WHERE cart_id = $1 ORDER BY added_at ASC, id ASC`, snap.ID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load cart item snapshots", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item shared.CartItemSnapshot
		if scanErr := rows.Scan(&item.ID, &item.ProductID, &item.UnitPriceCents, &item.Quantity, &item.AddedAt); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan cart item snapshot", scanErr)
		}
		snap.Items = append(snap.Items, item)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to iterate cart item snapshots", rows.Err())
	}
	return &snap, nil
}
