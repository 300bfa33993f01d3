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

type OfferReadStore struct {
	db db.DBTX
}

func NewOfferReadStore(dbtx db.DBTX) *OfferReadStore {
	return &OfferReadStore{db: dbtx}
}

const offerViewSQL = `
SELECT id, name, percentage, scope, category_id, product_ids, is_active, starts_at, ends_at, created_at, updated_at
FROM offers`

func (r *OfferReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OfferView, error) {
	view, err := scanOfferView(r.db.QueryRow(ctx, offerViewSQL+` WHERE id = $1`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("offer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find offer by ID", err)
	}
	return view, nil
}

func (r *OfferReadStore) FindAll(ctx context.Context, activeOnly bool) ([]*queries.OfferView, error) {
	rows, err := r.db.Query(ctx, offerViewSQL+` WHERE NOT $1::boolean OR is_active ORDER BY created_at DESC`, activeOnly)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list offers", err)
	}
	defer rows.Close()

	var views []*queries.OfferView
	for rows.Next() {
		view, scanErr := scanOfferView(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan offer row", scanErr)
		}
		views = append(views, view)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to iterate offer rows", rows.Err())
	}
	return views, nil
}

// FindActiveSnapshots returns the offers in force at now, highest percentage
// first, which is the order propagation applies them in.
func (r *OfferReadStore) FindActiveSnapshots(ctx context.Context, now time.Time) ([]shared.OfferSnapshot, error) {
	rows, err := r.db.Query(ctx, `
SELECT id, name, percentage, scope, category_id, product_ids, is_active, starts_at, ends_at
FROM offers
WHERE is_active AND starts_at <= $1 AND (ends_at IS NULL OR ends_at > $1)
ORDER BY percentage DESC, created_at ASC`, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load active offers", err)
	}
	defer rows.Close()

	var snaps []shared.OfferSnapshot
	for rows.Next() {
		var (
			snap       shared.OfferSnapshot
			categoryID pgtype.UUID
			startsAt   time.Time
			endsAt     pgtype.Timestamptz
		)
		if scanErr := rows.Scan(&snap.ID, &snap.Name, &snap.Percentage, &snap.Scope, &categoryID, &snap.ProductIDs, &snap.IsActive, &startsAt, &endsAt); scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan offer snapshot", scanErr)
		}
		snap.CategoryID = pgconv.UUIDPtrFromPgtype(categoryID)
		snap.StartsAt = &startsAt
		snap.EndsAt = pgconv.TimePtrFromPgtype(endsAt)
		snaps = append(snaps, snap)
	}
	if rows.Err() != nil {
		return nil, infra.WrapRepoErr("failed to iterate offer snapshots", rows.Err())
	}
	return snaps, nil
}

func (r *OfferReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.OfferSnapshot, error) {
	view, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	startsAt := view.StartsAt
	return &shared.OfferSnapshot{
		ID:         view.ID,
		Name:       view.Name,
		Percentage: view.Percentage,
		Scope:      view.Scope,
		CategoryID: view.CategoryID,
		ProductIDs: view.ProductIDs,
		IsActive:   view.IsActive,
		StartsAt:   &startsAt,
		EndsAt:     view.EndsAt,
	}, nil
}

func scanOfferView(row rowScanner) (*queries.OfferView, error) {
	var (
		view       queries.OfferView
		categoryID pgtype.UUID
		endsAt     pgtype.Timestamptz
	)
	err := row.Scan(
		&view.ID, &view.Name, &view.Percentage, &view.Scope, &categoryID, &view.ProductIDs,
		&view.IsActive, &view.StartsAt, &endsAt, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	view.CategoryID = pgconv.UUIDPtrFromPgtype(categoryID)
	view.EndsAt = pgconv.TimePtrFromPgtype(endsAt)
	return &view, nil
}
