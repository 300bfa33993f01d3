package queries

import (
	"context"
	"time"

	"artisan-store/internal/infra"
	"artisan-store/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrOfferNotFound = errs.New("offer not found")

type OfferView struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Percentage int64       `json:"percentage"`
	Scope      string      `json:"scope"`
	CategoryID *uuid.UUID  `json:"category_id,omitempty"`
	ProductIDs []uuid.UUID `json:"product_ids,omitempty"`
	IsActive   bool        `json:"is_active"`
	StartsAt   time.Time   `json:"starts_at"`
	EndsAt     *time.Time  `json:"ends_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type OfferQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*OfferView, error)
	List(ctx context.Context, activeOnly bool) ([]*OfferView, error)
}

type OfferReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OfferView, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*OfferView, error)
}

type offerQueriesImpl struct {
	readStore OfferReadStore
}

func NewOfferQueries(readStore OfferReadStore) OfferQueries {
	return &offerQueriesImpl{readStore: readStore}
}

func (q *offerQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*OfferView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *offerQueriesImpl) List(ctx context.Context, activeOnly bool) ([]*OfferView, error) {
	return q.readStore.FindAll(ctx, activeOnly)
}
