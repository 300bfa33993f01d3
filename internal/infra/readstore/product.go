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

type ProductReadStore struct {
	db db.DBTX
}

func NewProductReadStore(dbtx db.DBTX) *ProductReadStore {
	return &ProductReadStore{db: dbtx}
}

const productViewSQL = `
SELECT p.id, p.name, p.description, p.category_id, c.name, p.price_cents,
       p.offer_price_cents, p.in_stock, p.created_at, p.updated_at
FROM products p
JOIN categories c ON c.id = p.category_id`

func (r *ProductReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ProductView, error) {
	row := r.db.QueryRow(ctx, productViewSQL+` WHERE p.id = $1`, id)
	view, err := scanProductView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product by ID", err)
	}
	return view, nil
}

func (r *ProductReadStore) FindPage(ctx context.Context, filter queries.ProductFilter, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*queries.ProductView, error) {
	sql := productViewSQL + ` WHERE ($1::uuid IS NULL OR p.category_id = $1)
  AND (NOT $2::boolean OR p.in_stock)
  AND (NOT $3::boolean OR p.offer_price_cents IS NOT NULL)
  AND ($4::timestamptz IS NULL OR (p.created_at, p.id) < ($4, $5))
ORDER BY p.created_at DESC, p.id DESC
LIMIT $6`

	rows, err := r.db.Query(ctx, sql,
		filter.CategoryID, filter.InStockOnly, filter.OnOfferOnly,
		afterCreatedAt, afterID, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list products", err)
	}
	defer rows.Close()

	var views []*queries.ProductView
	for rows.Next() {
		view, scanErr := scanProductView(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan product row", scanErr)
		}
		views = append(views, view)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to iterate product rows", rows.Err())
	}
	return views, nil
}

// FindSnapshotsByIDs feeds the write side; missing IDs are simply absent from
// the result, the caller decides whether that is an error.
func (r *ProductReadStore) FindSnapshotsByIDs(ctx context.Context, ids []uuid.UUID) ([]shared.ProductSnapshot, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, category_id, price_cents, offer_price_cents, in_stock FROM products WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load product snapshots", err)
	}
	defer rows.Close()

	var snaps []shared.ProductSnapshot
	for rows.Next() {
		var (
			snap       shared.ProductSnapshot
			offerPrice pgtype.Int8
		)
		if scanErr := rows.Scan(&snap.ID, &snap.Name, &snap.CategoryID, &snap.PriceCents, &offerPrice, &snap.InStock); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan product snapshot", scanErr)
		}
		snap.OfferPriceCents = pgconv.Int64PtrFromPgtype(offerPrice)
		snaps = append(snaps, snap)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to iterate product snapshots", rows.Err())
	}
	return snaps, nil
}

func (r *ProductReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.ProductSnapshot, error) {
	snaps, err := r.FindSnapshotsByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return &snaps[0], nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProductView(row rowScanner) (*queries.ProductView, error) {
	var (
		view       queries.ProductView
		offerPrice pgtype.Int8
	)
	err := row.Scan(
		&view.ID, &view.Name, &view.Description, &view.CategoryID, &view.CategoryName,
		&view.PriceCents, &offerPrice, &view.InStock, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	view.OfferPriceCents = pgconv.Int64PtrFromPgtype(offerPrice)
	return &view, nil
}
