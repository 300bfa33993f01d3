package queries

import (
	"context"
	"time"

	"artisan-store/internal/infra"
	"artisan-store/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errs.New("order not found")
	ErrOrderAccess   = errs.New("order access denied")
)

type OrderView struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Items           []OrderItemView `json:"items"`
	SubtotalCents   int64           `json:"subtotal_cents"`
	DiscountCents   int64           `json:"discount_cents"`
	TotalCents      int64           `json:"total_cents"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	CouponCode      *string         `json:"coupon_code,omitempty"`
	ShippingAddress string          `json:"shipping_address"`
	Phone           string          `json:"phone"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderItemView struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int32     `json:"quantity"`
}

type OrderListItem struct {
	ID         uuid.UUID `json:"id"`
	TotalCents int64     `json:"total_cents"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	ItemCount  int64     `json:"item_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type OrderQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) (*OrderView, error)
	// GetByIDSystem bypasses ownership checks for internal reads such as
	// idempotent replay responses.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*OrderListItem, *Cursor, error)
	ListAll(ctx context.Context, status *string, after *Cursor, limit int) ([]*OrderListItem, *Cursor, error)
}

type OrderReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	FindByUserPage(ctx context.Context, userID uuid.UUID, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*OrderListItem, error)
	FindAllPage(ctx context.Context, status *string, afterCreatedAt *time.Time, afterID *uuid.UUID, limit int32) ([]*OrderListItem, error)
}

type orderQueriesImpl struct {
	readStore OrderReadStore
}

func NewOrderQueries(readStore OrderReadStore) OrderQueries {
	return &orderQueriesImpl{readStore: readStore}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) (*OrderView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && view.UserID != actorID {
		// Hide existence of other users' orders
		return nil, ErrOrderNotFound
	}
	return view, nil
}

func (q *orderQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *orderQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*OrderListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	afterCreatedAt, afterID, err := decodeOptionalCursor(after)
	if err != nil {
		return nil, nil, err
	}

	rows, err := q.readStore.FindByUserPage(ctx, userID, afterCreatedAt, afterID, int32(limit+1))
	if err != nil {
		return nil, nil, err
	}

	rows, next := pageOrders(rows, limit)
	return rows, next, nil
}

func (q *orderQueriesImpl) ListAll(ctx context.Context, status *string, after *Cursor, limit int) ([]*OrderListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	afterCreatedAt, afterID, err := decodeOptionalCursor(after)
	if err != nil {
		return nil, nil, err
	}

	rows, err := q.readStore.FindAllPage(ctx, status, afterCreatedAt, afterID, int32(limit+1))
	if err != nil {
		return nil, nil, err
	}

	rows, next := pageOrders(rows, limit)
	return rows, next, nil
}

func decodeOptionalCursor(after *Cursor) (*time.Time, *uuid.UUID, error) {
	if after == nil || after.After == "" {
		return nil, nil, nil
	}
	t, id, err := DecodeAfterCursor(after.After)
	if err != nil {
		return nil, nil, errs.Wrap(err, "invalid pagination cursor")
	}
	return &t, &id, nil
}

func pageOrders(rows []*OrderListItem, limit int) ([]*OrderListItem, *Cursor) {
	if len(rows) <= limit {
		return rows, nil
	}
	rows = rows[:limit]
	last := rows[len(rows)-1]
	return rows, &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
}
