package readstore

import (
	"context"

	"artisan-store/internal/infra"
	"artisan-store/internal/infra/db"
	"artisan-store/internal/pkg/pgconv"
	"artisan-store/internal/usecase/queries"

	"github.com/google/uuid"
)

type CategoryReadStore struct {
	db db.DBTX
}

func NewCategoryReadStore(dbtx db.DBTX) *CategoryReadStore {
	return &CategoryReadStore{db: dbtx}
}

const categoryViewSQL = `
SELECT c.id, c.name, c.description, count(p.id), c.created_at, c.updated_at
FROM categories c
LEFT JOIN products p ON p.category_id = c.id`

func (r *CategoryReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CategoryView, error) {
	var view queries.CategoryView
	err := r.db.QueryRow(ctx, categoryViewSQL+` WHERE c.id = $1 GROUP BY c.id`, id).Scan(
		&view.ID, &view.Name, &view.Description, &view.ProductCount, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("category not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find category by ID", err)
	}
	return &view, nil
}

func (r *CategoryReadStore) FindAll(ctx context.Context) ([]*queries.CategoryView, error) {
	rows, err := r.db.Query(ctx, categoryViewSQL+` GROUP BY c.id ORDER BY c.name`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list categories", err)
	}
	defer rows.Close()

	var views []*queries.CategoryView
	for rows.Next() {
		var view queries.CategoryView
		if scanErr := rows.Scan(&view.ID, &view.Name, &view.Description, &view.ProductCount, &view.CreatedAt, &view.UpdatedAt); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan category row", scanErr)
		}
		views = append(views, &view)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to iterate category rows", rows.Err())
	}
	return views, nil
}
