package repository

import (
	"context"

	"artisan-store/internal/domain/cart"
	"artisan-store/internal/infra"
	"artisan-store/internal/infra/db"

	"github.com/google/uuid"
)

type CartRepository struct{}

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

const getOrCreateCartSQL = `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING id`

func (r *CartRepository) GetOrCreate(ctx context.Context, tx db.DBTX, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, getOrCreateCartSQL, userID).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to get or create cart", err)
	}
	return id, nil
}

// Re-adding a product bumps quantity and keeps the original price snapshot.
const upsertCartItemSQL = `
INSERT INTO cart_items (id, cart_id, product_id, unit_price_cents, quantity)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (cart_id, product_id)
DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`

func (r *CartRepository) UpsertItem(ctx context.Context, tx db.DBTX, cartID uuid.UUID, item cart.Item) error {
	_, err := tx.Exec(ctx, upsertCartItemSQL,
		item.ID(), cartID, item.ProductID(), item.UnitPrice().Cents(), item.Quantity(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("product does not exist", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to upsert cart item", err)
	}
	return nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, tx db.DBTX, cartID, itemID uuid.UUID, quantity int) error {
	tag, err := tx.Exec(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND id = $2`,
		cartID, itemID, quantity,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update cart item quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("cart item not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, tx db.DBTX, cartID, itemID uuid.UUID) error {
	tag, err := tx.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND id = $2`,
		cartID, itemID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to remove cart item", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("cart item not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, tx db.DBTX, cartID uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return infra.WrapRepoErr("failed to clear cart", err)
	}
	return nil
}
