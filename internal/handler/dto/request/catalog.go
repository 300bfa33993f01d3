package request

import (
	"artisan-store/internal/usecase/commands"

	"github.com/google/uuid"
)

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ProductRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	PriceCents  int64     `json:"price_cents" binding:"required,gt=0"`
	InStock     bool      `json:"in_stock"`
}

func (r ProductRequest) ToInput() commands.ProductInput {
	return commands.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		PriceCents:  r.PriceCents,
		InStock:     r.InStock,
	}
}
