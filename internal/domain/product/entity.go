package product

import (
	"errors"
	"strings"
	"time"

	"artisan-store/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrEmptyName         = errors.New("product name cannot be empty")
	ErrNonPositivePrice  = errors.New("product price must be positive")
	ErrOfferAbovePrice   = errors.New("offer price cannot exceed base price")
	ErrMissingCategory   = errors.New("product category is required")
)

// Product is a catalog item. offerPrice is a derived value owned by offer
// propagation; catalog edits never set it directly.
type Product struct {
	id         uuid.UUID
	name       string
	description string
	categoryID uuid.UUID
	price      pricing.Money
	offerPrice *pricing.Money
	inStock    bool
	createdAt  time.Time
	updatedAt  time.Time
}

func NewProduct(name, description string, categoryID uuid.UUID, priceCents int64, inStock bool) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if categoryID == uuid.Nil {
		return nil, ErrMissingCategory
	}
	if priceCents <= 0 {
		return nil, ErrNonPositivePrice
	}

	return &Product{
		id:          uuid.New(),
		name:        name,
		description: strings.TrimSpace(description),
		categoryID:  categoryID,
		price:       pricing.MustMoney(priceCents),
		inStock:     inStock,
	}, nil
}

func ReconstructProduct(
	id uuid.UUID,
	name, description string,
	categoryID uuid.UUID,
	price pricing.Money,
	offerPrice *pricing.Money,
	inStock bool,
	createdAt, updatedAt time.Time,
) (*Product, error) {
	if offerPrice != nil && price.LessThan(*offerPrice) {
		return nil, ErrOfferAbovePrice
	}
	return &Product{
		id:          id,
		name:        name,
		description: description,
		categoryID:  categoryID,
		price:       price,
		offerPrice:  offerPrice,
		inStock:     inStock,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

// UnitPrice is the price a checkout pays right now: the propagated offer
// price when one is set, the base price otherwise.
func (p *Product) UnitPrice() pricing.Money {
	if p.offerPrice != nil {
		return *p.offerPrice
	}
	return p.price
}

func (p *Product) HasOfferPrice() bool {
	return p.offerPrice != nil
}

func (p *Product) ID() uuid.UUID              { return p.id }
func (p *Product) Name() string               { return p.name }
func (p *Product) Description() string        { return p.description }
func (p *Product) CategoryID() uuid.UUID      { return p.categoryID }
func (p *Product) Price() pricing.Money       { return p.price }
func (p *Product) OfferPrice() *pricing.Money { return p.offerPrice }
func (p *Product) InStock() bool              { return p.inStock }
func (p *Product) CreatedAt() time.Time       { return p.createdAt }
func (p *Product) UpdatedAt() time.Time       { return p.updatedAt }
