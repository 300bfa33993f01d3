package shared

import (
	"context"
	"time"

	"artisan-store/internal/domain/cart"
	"artisan-store/internal/domain/category"
	"artisan-store/internal/domain/coupon"
	"artisan-store/internal/domain/offer"
	"artisan-store/internal/domain/order"
	"artisan-store/internal/domain/product"
	"artisan-store/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Products() ProductRepository
	Categories() CategoryRepository
	Offers() OfferRepository
	Coupons() CouponRepository
	Carts() CartRepository
	Orders() OrderRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ProductByID(ctx context.Context, id uuid.UUID) (*ProductSnapshot, error)
	ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductSnapshot, error)
	CouponByCode(ctx context.Context, code string) (*CouponSnapshot, error)
	CouponByID(ctx context.Context, id uuid.UUID) (*CouponSnapshot, error)
	OfferByID(ctx context.Context, id uuid.UUID) (*OfferSnapshot, error)
	ActiveOffers(ctx context.Context, now time.Time) ([]OfferSnapshot, error)
	OrderByID(ctx context.Context, id uuid.UUID) (*OrderSnapshot, error)
	CartByUserID(ctx context.Context, userID uuid.UUID) (*CartSnapshot, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
}

// Write-side snapshots prevent dependency on Read-side query types (CQRS separation)
type ProductSnapshot struct {
	ID              uuid.UUID
	Name            string
	CategoryID      uuid.UUID
	PriceCents      int64
	OfferPriceCents *int64
	InStock         bool
}

// EffectivePriceCents is the offer price when present, the base price otherwise.
func (p ProductSnapshot) EffectivePriceCents() int64 {
	if p.OfferPriceCents != nil {
		return *p.OfferPriceCents
	}
	return p.PriceCents
}

type OfferSnapshot struct {
	ID         uuid.UUID
	Name       string
	Percentage int64
	Scope      string
	CategoryID *uuid.UUID
	ProductIDs []uuid.UUID
	IsActive   bool
	StartsAt   *time.Time
	EndsAt     *time.Time
}

type CouponSnapshot struct {
	ID               uuid.UUID
	Code             string
	Name             string
	DiscountType     string
	PercentOff       *int64
	AmountOffCents   *int64
	MaxDiscountCents *int64
	MinOrderCents    int64
	UsageLimit       *int64
	UsedCount        int64
	Scope            string
	CategoryID       *uuid.UUID
	ProductIDs       []uuid.UUID
	IsActive         bool
	StartsAt         *time.Time
	EndsAt           *time.Time
}

type OrderSnapshot struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Status        string
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
}

type CartSnapshot struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Items  []CartItemSnapshot
}

type CartItemSnapshot struct {
	ID             uuid.UUID
	ProductID      uuid.UUID
	UnitPriceCents int64
	Quantity       int
	AddedAt        time.Time
}

type IdempotencyRecord struct {
	Key           uuid.UUID
	UserID        uuid.UUID
	Status        string
	RequestHash   string
	ResultOrderID *uuid.UUID
	ExpiresAt     time.Time
}

type ProductRepository interface {
	Create(ctx context.Context, tx db.DBTX, p *product.Product) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, p *product.Product) error
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	// ClearOfferPrices resets every derived offer price before a recompute pass.
	ClearOfferPrices(ctx context.Context, tx db.DBTX) error
	// ApplyOfferPricing bulk-writes discounted prices for products matched by the
	// offer scope that have not been claimed by a higher-percentage offer yet.
	ApplyOfferPricing(ctx context.Context, tx db.DBTX, off OfferSnapshot) (int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, tx db.DBTX, name, description string) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, c *category.Category) error
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
}

type OfferRepository interface {
	Create(ctx context.Context, tx db.DBTX, o *offer.Offer) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, o *offer.Offer) error
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
}

type CouponRepository interface {
	Create(ctx context.Context, tx db.DBTX, c *coupon.Coupon) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, c *coupon.Coupon) error
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	// IncrementUsage atomically claims one redemption. Returns the new used
	// count, or KindConflict when the usage limit is already reached.
	IncrementUsage(ctx context.Context, tx db.DBTX, id uuid.UUID) (int64, error)
}

type CartRepository interface {
	GetOrCreate(ctx context.Context, tx db.DBTX, userID uuid.UUID) (uuid.UUID, error)
	UpsertItem(ctx context.Context, tx db.DBTX, cartID uuid.UUID, item cart.Item) error
	UpdateItemQuantity(ctx context.Context, tx db.DBTX, cartID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, tx db.DBTX, cartID, itemID uuid.UUID) error
	Clear(ctx context.Context, tx db.DBTX, cartID uuid.UUID) error
}

type OrderRepository interface {
	Create(ctx context.Context, tx db.DBTX, o *order.Order) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status string) error
}

type IdempotencyRepository interface {
	// TryInsert claims the key for this request. Returns false when another
	// request already holds it.
	TryInsert(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, resultHash string, orderID uuid.UUID) error
	ClaimExpiredIdempotencyKey(ctx context.Context, tx db.DBTX, key, userID uuid.UUID, requestHash string, expiresAt time.Time) (int64, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, email, passwordHash, role string) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID) error
}
