package offer

import (
	"errors"
	"strings"
	"time"

	"artisan-store/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrEmptyName          = errors.New("offer name cannot be empty")
	ErrInvalidPercentage  = errors.New("offer percentage must be between 1 and 100")
	ErrCategoryRequired   = errors.New("category is required for category scope")
	ErrProductsRequired   = errors.New("product list is required for products scope")
	ErrInvalidScope       = errors.New("invalid offer scope")
	ErrEndBeforeStart     = errors.New("offer end date must be after start date")
)

// Offer is a time-bounded percentage markdown over a catalog scope. Its
// effect on products is the denormalized offerPrice, written exclusively by
// propagation.
type Offer struct {
	id         uuid.UUID
	name       string
	percentage int64
	scope      Scope
	categoryID *uuid.UUID
	productIDs []uuid.UUID
	isActive   bool
	startsAt   time.Time
	endsAt     *time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

func NewOffer(
	name string,
	percentage int64,
	scope Scope,
	categoryID *uuid.UUID,
	productIDs []uuid.UUID,
	isActive bool,
	startsAt time.Time,
	endsAt *time.Time,
) (*Offer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if percentage < 1 || percentage > 100 {
		return nil, ErrInvalidPercentage
	}
	if err := validateScope(scope, categoryID, productIDs); err != nil {
		return nil, err
	}
	if endsAt != nil && !endsAt.After(startsAt) {
		return nil, ErrEndBeforeStart
	}

	return &Offer{
		id:         uuid.New(),
		name:       name,
		percentage: percentage,
		scope:      scope,
		categoryID: categoryID,
		productIDs: productIDs,
		isActive:   isActive,
		startsAt:   startsAt,
		endsAt:     endsAt,
	}, nil
}

func ReconstructOffer(
	id uuid.UUID,
	name string,
	percentage int64,
	scope Scope,
	categoryID *uuid.UUID,
	productIDs []uuid.UUID,
	isActive bool,
	startsAt time.Time,
	endsAt *time.Time,
	createdAt, updatedAt time.Time,
) *Offer {
	return &Offer{
		id:         id,
		name:       name,
		percentage: percentage,
		scope:      scope,
		categoryID: categoryID,
		productIDs: productIDs,
		isActive:   isActive,
		startsAt:   startsAt,
		endsAt:     endsAt,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func validateScope(scope Scope, categoryID *uuid.UUID, productIDs []uuid.UUID) error {
	switch scope {
	case ScopeAll:
		return nil
	case ScopeCategory:
		if categoryID == nil {
			return ErrCategoryRequired
		}
		return nil
	case ScopeProducts:
		if len(productIDs) == 0 {
			return ErrProductsRequired
		}
		return nil
	default:
		return ErrInvalidScope
	}
}

// IsCurrentlyActive reports whether the offer applies at t: the active flag
// is set, the window has started, and it has not ended.
func (o *Offer) IsCurrentlyActive(t time.Time) bool {
	if !o.isActive {
		return false
	}
	if t.Before(o.startsAt) {
		return false
	}
	if o.endsAt != nil && !o.endsAt.After(t) {
		return false
	}
	return true
}

// OfferPrice computes the marked-down price for a base price.
func (o *Offer) OfferPrice(price pricing.Money) pricing.Money {
	return price.DiscountedBy(o.percentage)
}

func (o *Offer) ID() uuid.UUID           { return o.id }
func (o *Offer) Name() string            { return o.name }
func (o *Offer) Percentage() int64       { return o.percentage }
func (o *Offer) Scope() Scope            { return o.scope }
func (o *Offer) CategoryID() *uuid.UUID  { return o.categoryID }
func (o *Offer) ProductIDs() []uuid.UUID { return o.productIDs }
func (o *Offer) IsActive() bool          { return o.isActive }
func (o *Offer) StartsAt() time.Time     { return o.startsAt }
func (o *Offer) EndsAt() *time.Time      { return o.endsAt }
func (o *Offer) CreatedAt() time.Time    { return o.createdAt }
func (o *Offer) UpdatedAt() time.Time    { return o.updatedAt }
