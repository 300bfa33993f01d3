package repository

import (
	"context"

	"artisan-store/internal/domain/offer"
	"artisan-store/internal/infra"
	"artisan-store/internal/infra/db"

	"github.com/google/uuid"
)

type OfferRepository struct{}

func NewOfferRepository() *OfferRepository {
	return &OfferRepository{}
}

const insertOfferSQL = `
INSERT INTO offers (id, name, percentage, scope, category_id, product_ids, is_active, starts_at, ends_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`

func (r *OfferRepository) Create(ctx context.Context, tx db.DBTX, o *offer.Offer) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, insertOfferSQL,
		o.ID(), o.Name(), o.Percentage(), string(o.Scope()),
		o.CategoryID(), o.ProductIDs(), o.IsActive(), o.StartsAt(), o.EndsAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create offer", err)
	}
	return id, nil
}

const updateOfferSQL = `
UPDATE offers
SET name = $2, percentage = $3, scope = $4, category_id = $5, product_ids = $6,
    is_active = $7, starts_at = $8, ends_at = $9, updated_at = now()
WHERE id = $1`

func (r *OfferRepository) Update(ctx context.Context, tx db.DBTX, o *offer.Offer) error {
	tag, err := tx.Exec(ctx, updateOfferSQL,
		o.ID(), o.Name(), o.Percentage(), string(o.Scope()),
		o.CategoryID(), o.ProductIDs(), o.IsActive(), o.StartsAt(), o.EndsAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update offer", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("offer not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete offer", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("offer not found", nil, infra.KindNotFound)
	}
	return nil
}
