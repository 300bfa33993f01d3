package readstore

import (
	"context"

	"artisan-store/internal/infra"
	"artisan-store/internal/infra/db"
	"artisan-store/internal/pkg/pgconv"
	"artisan-store/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyReadStore struct {
	db db.DBTX
}

func NewIdempotencyReadStore(dbtx db.DBTX) *IdempotencyReadStore {
	return &IdempotencyReadStore{db: dbtx}
}

func (r *IdempotencyReadStore) FindByKey(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	var (
		rec     shared.IdempotencyRecord
		orderID pgtype.UUID
	)
	err := r.db.QueryRow(ctx, `
SELECT key, user_id, status, request_hash, result_order_id, expires_at
FROM idempotency_keys WHERE key = $1 AND user_id = $2`, key, userID).
		Scan(&rec.Key, &rec.UserID, &rec.Status, &rec.RequestHash, &orderID, &rec.ExpiresAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find idempotency key", err)
	}
	rec.ResultOrderID = pgconv.UUIDPtrFromPgtype(orderID)
	return &rec, nil
}
