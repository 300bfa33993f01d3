//go:build unit || e2e

package builder

import (
	"time"

	"artisan-store/internal/domain/offer"
	reqdto "artisan-store/internal/handler/dto/request"
	"artisan-store/internal/usecase/queries"
	"artisan-store/internal/usecase/shared"

	"github.com/google/uuid"
)

type OfferBuilder struct {
	ID         uuid.UUID
	Name       string
	Percentage int64
	Scope      string
	CategoryID *uuid.UUID
	ProductIDs []uuid.UUID
	IsActive   bool
	StartsAt   time.Time
	EndsAt     *time.Time
}

func NewOfferBuilder() *OfferBuilder {
	return &OfferBuilder{
		ID:         uuid.New(),
		Name:       "Autumn sale",
		Percentage: 20,
		Scope:      "all",
		IsActive:   true,
		StartsAt:   time.Now().Add(-time.Hour),
	}
}

func (o *OfferBuilder) With(mutate func(*OfferBuilder)) *OfferBuilder {
	mutate(o)
	return o
}

// Build methods
func (o *OfferBuilder) BuildDomain() (*offer.Offer, error) {
	return offer.NewOffer(o.Name, o.Percentage, offer.Scope(o.Scope), o.CategoryID, o.ProductIDs, o.IsActive, o.StartsAt, o.EndsAt)
}

func (o *OfferBuilder) BuildSnapshot() shared.OfferSnapshot {
	startsAt := o.StartsAt
	return shared.OfferSnapshot{
		ID:         o.ID,
		Name:       o.Name,
		Percentage: o.Percentage,
		Scope:      o.Scope,
		CategoryID: o.CategoryID,
		ProductIDs: o.ProductIDs,
		IsActive:   o.IsActive,
		StartsAt:   &startsAt,
		EndsAt:     o.EndsAt,
	}
}

func (o *OfferBuilder) BuildView() *queries.OfferView {
	return &queries.OfferView{
		ID:         o.ID,
		Name:       o.Name,
		Percentage: o.Percentage,
		Scope:      o.Scope,
		CategoryID: o.CategoryID,
		ProductIDs: o.ProductIDs,
		IsActive:   o.IsActive,
		StartsAt:   o.StartsAt,
		EndsAt:     o.EndsAt,
	}
}

func (o *OfferBuilder) BuildRequestDTO() reqdto.OfferRequest {
	return reqdto.OfferRequest{
		Name:       o.Name,
		Percentage: o.Percentage,
		Scope:      o.Scope,
		CategoryID: o.CategoryID,
		ProductIDs: o.ProductIDs,
		IsActive:   o.IsActive,
		StartsAt:   o.StartsAt,
		EndsAt:     o.EndsAt,
	}
}

// Fluent builder methods
func (o *OfferBuilder) WithPercentage(percentage int64) *OfferBuilder {
	o.Percentage = percentage
	return o
}

func (o *OfferBuilder) WithCategoryScope(categoryID uuid.UUID) *OfferBuilder {
	o.Scope = "category"
	o.CategoryID = &categoryID
	return o
}

func (o *OfferBuilder) WithProductsScope(productIDs ...uuid.UUID) *OfferBuilder {
	o.Scope = "products"
	o.ProductIDs = productIDs
	return o
}

func (o *OfferBuilder) WithWindow(startsAt time.Time, endsAt *time.Time) *OfferBuilder {
	o.StartsAt = startsAt
	o.EndsAt = endsAt
	return o
}

func (o *OfferBuilder) AsInactive() *OfferBuilder {
	o.IsActive = false
	return o
}
