package repository

import (
	"context"

	"artisan-store/internal/domain/category"
	"artisan-store/internal/infra"
	"artisan-store/internal/infra/db"

	"github.com/google/uuid"
)

type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

func (r *CategoryRepository) Create(ctx context.Context, tx db.DBTX, name, description string) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx,
		`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`,
		name, description,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("category name already exists", err, infra.KindDuplicateKey)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create category", err)
	}
	return id, nil
}

func (r *CategoryRepository) Update(ctx context.Context, tx db.DBTX, c *category.Category) error {
	tag, err := tx.Exec(ctx,
		`UPDATE categories SET name = $2, description = $3, updated_at = now() WHERE id = $1`,
		c.ID(), c.Name(), c.Description(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("category name already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to update category", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("category not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("category still referenced by products", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("category not found", nil, infra.KindNotFound)
	}
	return nil
}
