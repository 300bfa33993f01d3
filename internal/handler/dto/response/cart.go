package response

import (
	"time"

	"artisan-store/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CartResponse struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	Items         []CartItemResponse `json:"items"`
	SubtotalCents int64              `json:"subtotal_cents"`
}

type CartItemResponse struct {
	ID                  uuid.UUID `json:"id"`
	ProductID           uuid.UUID `json:"product_id"`
	ProductName         string    `json:"product_name"`
	UnitPriceCents      int64     `json:"unit_price_cents"`
	EffectivePriceCents int64     `json:"effective_price_cents"`
	Quantity            int32     `json:"quantity"`
	InStock             bool      `json:"in_stock"`
	AddedAt             time.Time `json:"added_at"`
}

func FromCartView(view *queries.CartView) *CartResponse {
	var resp CartResponse
	_ = copier.Copy(&resp, view)
	if resp.Items == nil {
		resp.Items = []CartItemResponse{}
	}
	return &resp
}
