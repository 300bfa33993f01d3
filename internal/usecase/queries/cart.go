package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CartView prices come from the add-time snapshot; EffectivePriceCents
// reflects the catalog right now so clients can show price drift.
type CartView struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	Items         []CartItemView `json:"items"`
	SubtotalCents int64          `json:"subtotal_cents"`
}

type CartItemView struct {
	ID                  uuid.UUID `json:"id"`
	ProductID           uuid.UUID `json:"product_id"`
	ProductName         string    `json:"product_name"`
	UnitPriceCents      int64     `json:"unit_price_cents"`
	EffectivePriceCents int64     `json:"effective_price_cents"`
	Quantity            int32     `json:"quantity"`
	InStock             bool      `json:"in_stock"`
	AddedAt             time.Time `json:"added_at"`
}

type CartQueries interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type CartReadStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type cartQueriesImpl struct {
	readStore CartReadStore
}

func NewCartQueries(readStore CartReadStore) CartQueries {
	return &cartQueriesImpl{readStore: readStore}
}

func (q *cartQueriesImpl) GetByUser(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	return q.readStore.FindByUserID(ctx, userID)
}
