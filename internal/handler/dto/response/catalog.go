package response

import (
	"time"

	"artisan-store/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ProductResponse struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	CategoryID          uuid.UUID `json:"category_id"`
	CategoryName        string    `json:"category_name"`
	PriceCents          int64     `json:"price_cents"`
	OfferPriceCents     *int64    `json:"offer_price_cents,omitempty"`
	EffectivePriceCents int64     `json:"effective_price_cents"`
	InStock             bool      `json:"in_stock"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ProductCount int64     `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func FromProductView(view *queries.ProductView) *ProductResponse {
	var resp ProductResponse
	_ = copier.Copy(&resp, view)
	resp.EffectivePriceCents = view.PriceCents
	if view.OfferPriceCents != nil {
		resp.EffectivePriceCents = *view.OfferPriceCents
	}
	return &resp
}

func FromProductList(views []*queries.ProductView) []*ProductResponse {
	resp := make([]*ProductResponse, len(views))
	for i, view := range views {
		resp[i] = FromProductView(view)
	}
	return resp
}

func FromCategoryView(view *queries.CategoryView) *CategoryResponse {
	var resp CategoryResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromCategoryList(views []*queries.CategoryView) []*CategoryResponse {
	resp := make([]*CategoryResponse, len(views))
	for i, view := range views {
		resp[i] = FromCategoryView(view)
	}
	return resp
}
