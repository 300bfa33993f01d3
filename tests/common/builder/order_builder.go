//go:build unit || e2e

package builder

import (
	"time"

	reqdto "artisan-store/internal/handler/dto/request"
	"artisan-store/internal/usecase/commands"
	"artisan-store/internal/usecase/queries"

	"github.com/google/uuid"
)

type OrderBuilder struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Items           []queries.OrderItemView
	AppliedCoupon   *reqdto.AppliedCouponRequest
	ShippingAddress string
	Phone           string
	Status          string
	Currency        string
}

func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Items: []queries.OrderItemView{
			{ProductID: uuid.New(), ProductName: "Ceramic Vase", UnitPriceCents: 20000, Quantity: 1},
		},
		ShippingAddress: "12 Pottery Lane, Kiln City",
		Phone:           "+1-555-0100",
		Status:          "pending",
		Currency:        "USD",
	}
}

func (o *OrderBuilder) With(mutate func(*OrderBuilder)) *OrderBuilder {
	mutate(o)
	return o
}

// Build methods
func (o *OrderBuilder) BuildCheckoutRequestDTO() reqdto.CheckoutRequest {
	items := make([]reqdto.CheckoutItemRequest, len(o.Items))
	for i, item := range o.Items {
		items[i] = reqdto.CheckoutItemRequest{
			ProductID: item.ProductID,
			Quantity:  int(item.Quantity),
		}
	}
	return reqdto.CheckoutRequest{
		Items:           items,
		AppliedCoupon:   o.AppliedCoupon,
		ShippingAddress: o.ShippingAddress,
		Phone:           o.Phone,
	}
}

func (o *OrderBuilder) BuildCheckoutInput() commands.CheckoutInput {
	return o.BuildCheckoutRequestDTO().ToInput()
}

func (o *OrderBuilder) BuildView() *queries.OrderView {
	now := time.Now()
	var subtotal int64
	for _, item := range o.Items {
		subtotal += item.UnitPriceCents * int64(item.Quantity)
	}
	var discount int64
	var couponCode *string
	if o.AppliedCoupon != nil {
		discount = o.AppliedCoupon.DiscountCents
		code := o.AppliedCoupon.Code
		couponCode = &code
	}
	total := subtotal - discount
	if total < 0 {
		total = 0
	}
	return &queries.OrderView{
		ID:              o.ID,
		UserID:          o.UserID,
		Items:           o.Items,
		SubtotalCents:   subtotal,
		DiscountCents:   discount,
		TotalCents:      total,
		Currency:        o.Currency,
		Status:          o.Status,
		CouponCode:      couponCode,
		ShippingAddress: o.ShippingAddress,
		Phone:           o.Phone,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (o *OrderBuilder) BuildListItem() *queries.OrderListItem {
	view := o.BuildView()
	return &queries.OrderListItem{
		ID:         view.ID,
		TotalCents: view.TotalCents,
		Currency:   view.Currency,
		Status:     view.Status,
		ItemCount:  int64(len(view.Items)),
		CreatedAt:  view.CreatedAt,
	}
}

// Fluent builder methods
func (o *OrderBuilder) WithUserID(userID uuid.UUID) *OrderBuilder {
	o.UserID = userID
	return o
}

func (o *OrderBuilder) WithItem(productID uuid.UUID, name string, unitPriceCents int64, quantity int) *OrderBuilder {
	o.Items = append(o.Items, queries.OrderItemView{
		ProductID:      productID,
		ProductName:    name,
		UnitPriceCents: unitPriceCents,
		Quantity:       int32(quantity),
	})
	return o
}

func (o *OrderBuilder) WithOnlyItem(productID uuid.UUID, name string, unitPriceCents int64, quantity int) *OrderBuilder {
	o.Items = []queries.OrderItemView{{
		ProductID:      productID,
		ProductName:    name,
		UnitPriceCents: unitPriceCents,
		Quantity:       int32(quantity),
	}}
	return o
}

func (o *OrderBuilder) WithAppliedCoupon(couponID uuid.UUID, code string, discountCents int64, couponType string) *OrderBuilder {
	o.AppliedCoupon = &reqdto.AppliedCouponRequest{
		CouponID:      couponID,
		Code:          code,
		DiscountCents: discountCents,
		Type:          couponType,
	}
	return o
}

func (o *OrderBuilder) WithStatus(status string) *OrderBuilder {
	o.Status = status
	return o
}
