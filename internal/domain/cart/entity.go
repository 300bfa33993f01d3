package cart

import (
	"errors"
	"time"

	"artisan-store/internal/domain/pricing"

	"github.com/google/uuid"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Item is a cart line with the unit price snapshotted at add time. The
// snapshot keeps cart review stable; checkout re-reads current catalog
// pricing before charging.
type Item struct {
	id        uuid.UUID
	productID uuid.UUID
	unitPrice pricing.Money
	quantity  int
	addedAt   time.Time
}

func NewItem(productID uuid.UUID, unitPrice pricing.Money, quantity int) (Item, error) {
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	return Item{
		id:        uuid.New(),
		productID: productID,
		unitPrice: unitPrice,
		quantity:  quantity,
	}, nil
}

func ReconstructItem(id, productID uuid.UUID, unitPrice pricing.Money, quantity int, addedAt time.Time) Item {
	return Item{
		id:        id,
		productID: productID,
		unitPrice: unitPrice,
		quantity:  quantity,
		addedAt:   addedAt,
	}
}

func (i Item) ID() uuid.UUID             { return i.id }
func (i Item) ProductID() uuid.UUID      { return i.productID }
func (i Item) UnitPrice() pricing.Money  { return i.unitPrice }
func (i Item) Quantity() int             { return i.quantity }
func (i Item) AddedAt() time.Time        { return i.addedAt }

func (i Item) Total() pricing.Money {
	return i.unitPrice.MulQty(i.quantity)
}

// Cart is the per-user ephemeral basket.
type Cart struct {
	id     uuid.UUID
	userID uuid.UUID
	items  []Item
}

func ReconstructCart(id, userID uuid.UUID, items []Item) *Cart {
	return &Cart{id: id, userID: userID, items: items}
}

func (c *Cart) ID() uuid.UUID     { return c.id }
func (c *Cart) UserID() uuid.UUID { return c.userID }
func (c *Cart) Items() []Item     { return c.items }

func (c *Cart) Subtotal() pricing.Money {
	var sum pricing.Money
	for _, item := range c.items {
		sum = sum.Add(item.Total())
	}
	return sum
}

func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.items))
	for i, item := range c.items {
		ids[i] = item.ProductID()
	}
	return ids
}
