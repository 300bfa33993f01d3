package repository

import (
	"context"

	"artisan-store/internal/domain/product"
	"artisan-store/internal/infra"
	"artisan-store/internal/infra/db"
	"artisan-store/internal/usecase/shared"

	"github.com/google/uuid"
)

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

const insertProductSQL = `
INSERT INTO products (id, name, description, category_id, price_cents, in_stock)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

func (r *ProductRepository) Create(ctx context.Context, tx db.DBTX, p *product.Product) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, insertProductSQL,
		p.ID(), p.Name(), p.Description(), p.CategoryID(), p.Price().Cents(), p.InStock(),
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("category does not exist", err, infra.KindForeignKeyViolated)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create product", err)
	}
	return id, nil
}

const updateProductSQL = `
UPDATE products
SET name = $2, description = $3, category_id = $4, price_cents = $5, in_stock = $6, updated_at = now()
WHERE id = $1`

func (r *ProductRepository) Update(ctx context.Context, tx db.DBTX, p *product.Product) error {
	tag, err := tx.Exec(ctx, updateProductSQL,
		p.ID(), p.Name(), p.Description(), p.CategoryID(), p.Price().Cents(), p.InStock(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("category does not exist", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to update product", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ProductRepository) ClearOfferPrices(ctx context.Context, tx db.DBTX) error {
	_, err := tx.Exec(ctx, `UPDATE products SET offer_price_cents = NULL, updated_at = now() WHERE offer_price_cents IS NOT NULL`)
	if err != nil {
		return infra.WrapRepoErr("failed to clear offer prices", err)
	}
	return nil
}

// Offer prices are materialized per product so reads never join offers.
// The IS NULL guard keeps earlier (higher-percentage) writes in place when
// offers are applied in descending percentage order.
const applyOfferAllSQL = `
UPDATE products
SET offer_price_cents = (price_cents * (100 - $1::bigint) + 50) / 100, updated_at = now()
WHERE offer_price_cents IS NULL`

const applyOfferCategorySQL = applyOfferAllSQL + ` AND category_id = $2`

const applyOfferProductsSQL = applyOfferAllSQL + ` AND id = ANY($2)`

func (r *ProductRepository) ApplyOfferPricing(ctx context.Context, tx db.DBTX, off shared.OfferSnapshot) (int64, error) {
	var (
		sql  string
		args []any
	)
	switch off.Scope {
	case "category":
		sql = applyOfferCategorySQL
		args = []any{off.Percentage, off.CategoryID}
	case "products":
		sql = applyOfferProductsSQL
		args = []any{off.Percentage, off.ProductIDs}
	default:
		sql = applyOfferAllSQL
		args = []any{off.Percentage}
	}

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to apply offer pricing", err)
	}
	return tag.RowsAffected(), nil
}
