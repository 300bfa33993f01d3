package response

import (
	"time"

	"artisan-store/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"user_id"`
	Items           []OrderItemResponse `json:"items"`
	SubtotalCents   int64               `json:"subtotal_cents"`
	DiscountCents   int64               `json:"discount_cents"`
	TotalCents      int64               `json:"total_cents"`
	Currency        string              `json:"currency"`
	Status          string              `json:"status"`
	CouponCode      *string             `json:"coupon_code,omitempty"`
	ShippingAddress string              `json:"shipping_address"`
	Phone           string              `json:"phone"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type OrderItemResponse struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int32     `json:"quantity"`
}

type OrderListItemResponse struct {
	ID         uuid.UUID `json:"id"`
	TotalCents int64     `json:"total_cents"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	ItemCount  int64     `json:"item_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromOrderView(view *queries.OrderView) *OrderResponse {
	var resp OrderResponse
	_ = copier.Copy(&resp, view)
	if resp.Items == nil {
		resp.Items = []OrderItemResponse{}
	}
	return &resp
}

func FromOrderList(items []*queries.OrderListItem) []*OrderListItemResponse {
	resp := make([]*OrderListItemResponse, len(items))
	for i, item := range items {
		var r OrderListItemResponse
		_ = copier.Copy(&r, item)
		resp[i] = &r
	}
	return resp
}
