package request

import (
	"time"

	"artisan-store/internal/usecase/commands"

	"github.com/google/uuid"
)

type OfferRequest struct {
	Name       string      `json:"name" binding:"required"`
	Percentage int64       `json:"percentage" binding:"required,gt=0,lte=100"`
	Scope      string      `json:"scope" binding:"required,oneof=all category products"`
	CategoryID *uuid.UUID  `json:"category_id,omitempty"`
	ProductIDs []uuid.UUID `json:"product_ids,omitempty"`
	IsActive   bool        `json:"is_active"`
	StartsAt   time.Time   `json:"starts_at" binding:"required"`
	EndsAt     *time.Time  `json:"ends_at,omitempty"`
}

func (r OfferRequest) ToInput() commands.CreateOfferInput {
	return commands.CreateOfferInput{
		Name:       r.Name,
		Percentage: r.Percentage,
		Scope:      r.Scope,
		CategoryID: r.CategoryID,
		ProductIDs: r.ProductIDs,
		IsActive:   r.IsActive,
		StartsAt:   r.StartsAt,
		EndsAt:     r.EndsAt,
	}
}
