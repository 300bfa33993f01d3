package repository

import (
	"context"

	"artisan-store/internal/domain/order"
	"artisan-store/internal/infra"
	"artisan-store/internal/infra/db"

	"github.com/google/uuid"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

const insertOrderSQL = `
INSERT INTO orders (
	id, user_id, subtotal_cents, discount_cents, total_cents, currency, status,
	coupon_id, coupon_code, coupon_discount_type, shipping_address, phone
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id`

const insertOrderItemSQL = `
INSERT INTO order_items (order_id, product_id, product_name, unit_price_cents, quantity)
VALUES ($1, $2, $3, $4, $5)`

func (r *OrderRepository) Create(ctx context.Context, tx db.DBTX, o *order.Order) (uuid.UUID, error) {
	var (
		couponID           *uuid.UUID
		couponCode         *string
		couponDiscountType *string
	)
	if ac := o.AppliedCoupon(); ac != nil {
		id := ac.CouponID()
		code := ac.Code().String()
		kind := string(ac.Type())
		couponID, couponCode, couponDiscountType = &id, &code, &kind
	}

	var id uuid.UUID
	err := tx.QueryRow(ctx, insertOrderSQL,
		o.ID(), o.UserID(), o.Subtotal().Cents(), o.CouponDiscount().Cents(), o.Total().Cents(),
		o.Currency(), o.Status().String(),
		couponID, couponCode, couponDiscountType,
		o.ShippingAddress().String(), o.Phone().String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create order", err)
	}

	for _, item := range o.Items() {
		_, err := tx.Exec(ctx, insertOrderItemSQL,
			id, item.ProductID(), item.Name(), item.UnitPrice().Cents(), item.Quantity(),
		)
		if err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to create order item", err)
		}
	}

	return id, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status string) error {
	tag, err := tx.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}
