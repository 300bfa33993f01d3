//go:build unit || e2e

package builder

import (
	"time"

	"artisan-store/internal/domain/product"
	reqdto "artisan-store/internal/handler/dto/request"
	"artisan-store/internal/usecase/queries"
	"artisan-store/internal/usecase/shared"

	"github.com/google/uuid"
)

type ProductBuilder struct {
	ID              uuid.UUID
	Name            string
	Description     string
	CategoryID      uuid.UUID
	CategoryName    string
	PriceCents      int64
	OfferPriceCents *int64
	InStock         bool
}

func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{
		ID:           uuid.New(),
		Name:         "Ceramic Vase",
		Description:  "Hand-thrown stoneware vase",
		CategoryID:   uuid.New(),
		CategoryName: "Ceramics",
		PriceCents:   20000,
		InStock:      true,
	}
}

func (p *ProductBuilder) With(mutate func(*ProductBuilder)) *ProductBuilder {
	mutate(p)
	return p
}

// Build methods
func (p *ProductBuilder) BuildDomain() (*product.Product, error) {
	return product.NewProduct(p.Name, p.Description, p.CategoryID, p.PriceCents, p.InStock)
}

func (p *ProductBuilder) BuildSnapshot() shared.ProductSnapshot {
	return shared.ProductSnapshot{
		ID:              p.ID,
		Name:            p.Name,
		CategoryID:      p.CategoryID,
		PriceCents:      p.PriceCents,
		OfferPriceCents: p.OfferPriceCents,
		InStock:         p.InStock,
	}
}

func (p *ProductBuilder) BuildView() *queries.ProductView {
	now := time.Now()
	return &queries.ProductView{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		CategoryID:      p.CategoryID,
		CategoryName:    p.CategoryName,
		PriceCents:      p.PriceCents,
		OfferPriceCents: p.OfferPriceCents,
		InStock:         p.InStock,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (p *ProductBuilder) BuildRequestDTO() reqdto.ProductRequest {
	return reqdto.ProductRequest{
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		PriceCents:  p.PriceCents,
		InStock:     p.InStock,
	}
}

// Fluent builder methods
func (p *ProductBuilder) WithName(name string) *ProductBuilder {
	p.Name = name
	return p
}

func (p *ProductBuilder) WithPrice(cents int64) *ProductBuilder {
	p.PriceCents = cents
	return p
}

func (p *ProductBuilder) WithOfferPrice(cents int64) *ProductBuilder {
	p.OfferPriceCents = &cents
	return p
}

func (p *ProductBuilder) WithCategory(categoryID uuid.UUID) *ProductBuilder {
	p.CategoryID = categoryID
	return p
}

func (p *ProductBuilder) OutOfStock() *ProductBuilder {
	p.InStock = false
	return p
}
