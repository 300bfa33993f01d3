package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"artisan-store/internal/domain/order"
	"artisan-store/internal/domain/pricing"
	"artisan-store/internal/infra"
	"artisan-store/internal/pkg/clock"
	"artisan-store/internal/pkg/errs"
	"artisan-store/internal/usecase/queries"
	"artisan-store/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound           = errs.New("order not found")
	ErrOrderAccess             = errs.New("order access denied")
	ErrEmptyOrder              = errs.New("order has no items")
	ErrInvalidOrderTransition  = errs.New("invalid order status transition")
	ErrDuplicateCheckout       = errs.New("duplicate checkout request")
	ErrIdempotencyInProgress   = errs.New("idempotency in progress")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrOrderValidation         = errs.New("order validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type CheckoutItemInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// AppliedCouponInput is the cart-time validation result echoed back by the
// client. The discount figure is honored after a lightweight re-check so the
// charge matches what the customer was shown.
type AppliedCouponInput struct {
	CouponID      uuid.UUID `json:"coupon_id"`
	Code          string    `json:"code"`
	DiscountCents int64     `json:"discount_cents"`
	Type          string    `json:"type"`
}

type CheckoutInput struct {
	Items           []CheckoutItemInput `json:"items"`
	AppliedCoupon   *AppliedCouponInput `json:"applied_coupon,omitempty"`
	ShippingAddress string              `json:"shipping_address"`
	Phone           string              `json:"phone"`
}

type CheckoutResult struct {
	Order      *queries.OrderView
	IsReplayed bool
}

type OrderCommands interface {
	Checkout(ctx context.Context, input CheckoutInput, userID uuid.UUID, idempotencyKey uuid.UUID) (*CheckoutResult, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next string) error
	CancelByCustomer(ctx context.Context, orderID, userID uuid.UUID) error
}

type orderCommandsImpl struct {
	uow          shared.UnitOfWork
	coupons      CouponCommands
	orderFactory *order.Factory
	orderQueries queries.OrderQueries
	clock        clock.Clock
}

func NewOrderCommands(
	uow shared.UnitOfWork,
	coupons CouponCommands,
	orderFactory *order.Factory,
	orderQueries queries.OrderQueries,
	clk clock.Clock,
) OrderCommands {
	return &orderCommandsImpl{
		uow:          uow,
		coupons:      coupons,
		orderFactory: orderFactory,
		orderQueries: orderQueries,
		clock:        clk,
	}
}

func (o *orderCommandsImpl) Checkout(ctx context.Context, input CheckoutInput, userID uuid.UUID, idempotencyKey uuid.UUID) (*CheckoutResult, error) {
	requestHash := calculateRequestHash(input)
	expiresAt := o.clock.Now().Add(24 * time.Hour)

	replayed, err := o.handleIdempotency(ctx, idempotencyKey, userID, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if replayed != nil {
		return &CheckoutResult{Order: replayed, IsReplayed: true}, nil
	}

	orderView, err := o.createNewOrder(ctx, input, userID, idempotencyKey)
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{Order: orderView, IsReplayed: false}, nil
}

func (o *orderCommandsImpl) handleIdempotency(
	ctx context.Context,
	idempotencyKey, userID uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*queries.OrderView, error) {
	var inserted bool
	err := o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, insertErr := tx.Idempotency().TryInsert(ctx, tx.DB(), idempotencyKey, userID, "POST /orders", requestHash, expiresAt)
		if insertErr != nil {
			return insertErr
		}
		inserted = ok
		return nil
	})
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if inserted {
		// This request owns the key
		return nil, nil
	}

	existing, err := o.uow.CommandReads().IdempotencyByKey(ctx, idempotencyKey, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	switch existing.Status {
	case "completed":
		if existing.ResultOrderID != nil {
			// System-level read for idempotency replay
			return o.orderQueries.GetByIDSystem(ctx, *existing.ResultOrderID)
		}
		return nil, errs.New("completed request missing result order ID")

	case "processing":
		if existing.RequestHash != requestHash {
			return nil, ErrDuplicateCheckout
		}
		if !existing.ExpiresAt.After(o.clock.Now()) {
			// Stale claim from a crashed request; take it over
			claimed, claimErr := o.claimExpired(ctx, idempotencyKey, userID, requestHash, o.clock.Now().Add(24*time.Hour))
			if claimErr != nil {
				return nil, errs.Mark(claimErr, ErrIdempotencyCheckFailed)
			}
			if claimed {
				return nil, nil
			}
		}
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (o *orderCommandsImpl) claimExpired(ctx context.Context, key, userID uuid.UUID, requestHash string, expiresAt time.Time) (bool, error) {
	var claimed bool
	err := o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, claimErr := tx.Idempotency().ClaimExpiredIdempotencyKey(ctx, tx.DB(), key, userID, requestHash, expiresAt)
		if claimErr != nil {
			return claimErr
		}
		claimed = n > 0
		return nil
	})
	return claimed, err
}

func (o *orderCommandsImpl) createNewOrder(
	ctx context.Context,
	input CheckoutInput,
	userID, idempotencyKey uuid.UUID,
) (*queries.OrderView, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	items, err := o.resolveLineItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	var subtotal pricing.Money
	for _, item := range items {
		subtotal = subtotal.Add(item.Total())
	}

	appliedCoupon, err := o.recheckCoupon(ctx, input.AppliedCoupon, subtotal)
	if err != nil {
		return nil, err
	}

	shipping, err := order.NewShippingAddress(input.ShippingAddress)
	if err != nil {
		return nil, errs.Mark(err, ErrOrderValidation)
	}
	phone, err := order.NewPhone(input.Phone)
	if err != nil {
		return nil, errs.Mark(err, ErrOrderValidation)
	}

	orderEntity, err := o.orderFactory.CreateOrder(userID, items, appliedCoupon, shipping, phone)
	if err != nil {
		return nil, errs.Mark(err, ErrOrderValidation)
	}

	orderID, err := o.persistOrder(ctx, orderEntity, idempotencyKey, userID)
	if err != nil {
		return nil, err
	}

	// Redemption happens after commit: the order is the source of truth for
	// what the customer was charged, and a lost race here must not unwind it.
	if appliedCoupon != nil {
		if _, redeemErr := o.coupons.Redeem(ctx, appliedCoupon.CouponID()); redeemErr != nil {
			slog.Error("coupon redemption failed after order commit; discount honored",
				"order_id", orderID,
				"coupon_id", appliedCoupon.CouponID(),
				"error", redeemErr.Error())
		}
	}

	return o.orderQueries.GetByIDSystem(ctx, orderID)
}

// Checkout always charges the catalog's current effective price, not the
// cart's add-time snapshot.
func (o *orderCommandsImpl) resolveLineItems(ctx context.Context, inputs []CheckoutItemInput) ([]order.LineItem, error) {
	// Order items are keyed by (order, product): repeated lines for the same
	// product collapse into one with the quantities summed.
	merged := make([]CheckoutItemInput, 0, len(inputs))
	seen := make(map[uuid.UUID]int, len(inputs))
	for _, in := range inputs {
		if i, ok := seen[in.ProductID]; ok {
			merged[i].Quantity += in.Quantity
			continue
		}
		seen[in.ProductID] = len(merged)
		merged = append(merged, in)
	}

	ids := make([]uuid.UUID, len(merged))
	for i, in := range merged {
		ids[i] = in.ProductID
	}

	snapshots, err := o.uow.CommandReads().ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	byID := make(map[uuid.UUID]shared.ProductSnapshot, len(snapshots))
	for _, snap := range snapshots {
		byID[snap.ID] = snap
	}

	items := make([]order.LineItem, 0, len(merged))
	for _, in := range merged {
		snap, ok := byID[in.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		if !snap.InStock {
			return nil, ErrProductOutOfStock
		}

		unitPrice, priceErr := pricing.NewMoney(snap.EffectivePriceCents())
		if priceErr != nil {
			return nil, errs.Mark(priceErr, ErrOrderValidation)
		}
		item, itemErr := order.NewLineItem(snap.ID, snap.Name, unitPrice, in.Quantity)
		if itemErr != nil {
			return nil, errs.Mark(itemErr, ErrOrderValidation)
		}
		items = append(items, item)
	}
	return items, nil
}

// recheckCoupon trusts the cart-time discount figure but verifies the coupon
// is still live and within budget just before the money moves.
func (o *orderCommandsImpl) recheckCoupon(ctx context.Context, input *AppliedCouponInput, subtotal pricing.Money) (*order.AppliedCoupon, error) {
	if input == nil {
		return nil, nil
	}

	snap, err := o.uow.CommandReads().CouponByID(ctx, input.CouponID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	entity, err := couponFromSnapshot(snap)
	if err != nil {
		return nil, errs.Mark(err, ErrCouponValidation)
	}

	now := o.clock.Now()
	if !entity.IsCurrentlyActive(now) || !entity.HasBudget() {
		return nil, ErrCouponNotFound
	}
	if !entity.MeetsMinimum(subtotal) {
		return nil, &MinimumNotMetError{MinOrderCents: entity.MinOrder().Cents()}
	}

	// The stored discount can never exceed the order it discounts.
	discount, err := pricing.NewMoney(input.DiscountCents)
	if err != nil {
		return nil, errs.Mark(err, ErrOrderValidation)
	}
	discount = pricing.Min(discount, subtotal)

	applied := order.NewAppliedCoupon(entity.ID(), entity.Code(), entity.Discount().Type(), discount)
	return &applied, nil
}

func (o *orderCommandsImpl) persistOrder(
	ctx context.Context,
	orderEntity *order.Order,
	idempotencyKey, userID uuid.UUID,
) (uuid.UUID, error) {
	var orderID uuid.UUID
	err := o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, createErr := tx.Orders().Create(ctx, tx.DB(), orderEntity)
		if createErr != nil {
			return createErr
		}
		orderID = id

		payload, payloadErr := json.Marshal(map[string]any{
			"order_id": orderID,
			"type":     "order_created",
		})
		if payloadErr != nil {
			return payloadErr
		}
		if notifErr := tx.Notifications().CreateJob(ctx, tx.DB(), "email", "order_created", payload, o.clock.Now()); notifErr != nil {
			return notifErr
		}

		cartID, cartErr := tx.Carts().GetOrCreate(ctx, tx.DB(), userID)
		if cartErr != nil {
			return cartErr
		}
		if clearErr := tx.Carts().Clear(ctx, tx.DB(), cartID); clearErr != nil {
			return clearErr
		}

		return tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, userID, calculateIDHash(orderID), orderID)
	})
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return orderID, nil
}

func (o *orderCommandsImpl) UpdateStatus(ctx context.Context, orderID uuid.UUID, next string) error {
	nextStatus := order.Status(next)
	if !nextStatus.IsValid() {
		return ErrInvalidOrderTransition
	}

	return o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().OrderByID(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		current := order.Status(snap.Status)
		if !current.CanTransitionTo(nextStatus) {
			return ErrInvalidOrderTransition
		}

		return tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, nextStatus.String())
	})
}

// Cancelling never refunds coupon budget; usedCount stays monotonic.
func (o *orderCommandsImpl) CancelByCustomer(ctx context.Context, orderID, userID uuid.UUID) error {
	return o.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().OrderByID(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if snap.UserID != userID {
			// Hide existence of other users' orders
			return ErrOrderNotFound
		}

		current := order.Status(snap.Status)
		if !current.CustomerCancellable() {
			return ErrInvalidOrderTransition
		}

		return tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, order.StatusCancelled.String())
	})
}

func calculateRequestHash(input CheckoutInput) string {
	data, _ := json.Marshal(input)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}
