//go:build unit

package commands_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"artisan-store/internal/domain/order"
	"artisan-store/internal/infra"
	"artisan-store/internal/pkg/clock"
	"artisan-store/internal/usecase/commands"
	"artisan-store/internal/usecase/shared"
	"artisan-store/tests/common/builder"
	cmdmock "artisan-store/tests/mock/commands"
	qrymock "artisan-store/tests/mock/queries"
	sharedmock "artisan-store/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type orderCmdFixture struct {
	cmd     commands.OrderCommands
	uow     *sharedmock.MockUnitOfWork
	reads   *sharedmock.MockCommandReads
	coupons *cmdmock.MockCouponCommands
	orderQ  *qrymock.MockOrderQueries
	tx      *sharedmock.MockTx
	idem    *sharedmock.MockIdempotencyRepository
	orders  *sharedmock.MockOrderRepository
	carts   *sharedmock.MockCartRepository
	notifs  *sharedmock.MockNotificationRepository
	clk     *clock.MockClock
}

// Every transaction hands out the same mock tx; per-repo expectations
// distinguish the work done inside.
func newOrderCmdFixture(t *testing.T) *orderCmdFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &orderCmdFixture{
		uow:     sharedmock.NewMockUnitOfWork(ctrl),
		reads:   sharedmock.NewMockCommandReads(ctrl),
		coupons: cmdmock.NewMockCouponCommands(ctrl),
		orderQ:  qrymock.NewMockOrderQueries(ctrl),
		tx:      sharedmock.NewMockTx(ctrl),
		idem:    sharedmock.NewMockIdempotencyRepository(ctrl),
		orders:  sharedmock.NewMockOrderRepository(ctrl),
		carts:   sharedmock.NewMockCartRepository(ctrl),
		notifs:  sharedmock.NewMockNotificationRepository(ctrl),
		clk:     clock.NewMockClock(time.Now()),
	}

	f.uow.EXPECT().CommandReads().Return(f.reads).AnyTimes()
	f.uow.EXPECT().Within(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, f.tx)
		}).AnyTimes()
	f.tx.EXPECT().DB().Return(nil).AnyTimes()
	f.tx.EXPECT().Idempotency().Return(f.idem).AnyTimes()
	f.tx.EXPECT().Orders().Return(f.orders).AnyTimes()
	f.tx.EXPECT().Carts().Return(f.carts).AnyTimes()
	f.tx.EXPECT().Notifications().Return(f.notifs).AnyTimes()
	f.tx.EXPECT().Reads().Return(f.reads).AnyTimes()

	f.cmd = commands.NewOrderCommands(f.uow, f.coupons, order.NewFactory("USD"), f.orderQ, f.clk)
	return f
}

func requestHash(input commands.CheckoutInput) string {
	data, _ := json.Marshal(input)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func TestOrderCommands_Checkout(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	key := uuid.New()

	t.Run("new order with coupon", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		vase := builder.NewProductBuilder().WithPrice(20000).BuildSnapshot()
		couponSnap := builder.NewCouponBuilder().WithPercent(10).BuildSnapshot()
		orderID := uuid.New()

		input := commands.CheckoutInput{
			Items: []commands.CheckoutItemInput{{ProductID: vase.ID, Quantity: 1}},
			AppliedCoupon: &commands.AppliedCouponInput{
				CouponID:      couponSnap.ID,
				Code:          couponSnap.Code,
				DiscountCents: 2000,
				Type:          "percentage",
			},
			ShippingAddress: "12 Pottery Lane, Kiln City",
			Phone:           "+1-555-0100",
		}

		f.idem.EXPECT().TryInsert(ctx, gomock.Any(), key, userID, "POST /orders", requestHash(input), gomock.Any()).
			Return(true, nil)
		f.reads.EXPECT().ProductsByIDs(ctx, []uuid.UUID{vase.ID}).
			Return([]shared.ProductSnapshot{vase}, nil)
		f.reads.EXPECT().CouponByID(ctx, couponSnap.ID).Return(couponSnap, nil)

		f.orders.EXPECT().Create(ctx, gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ any, o *order.Order) (uuid.UUID, error) {
				assert.Equal(t, int64(20000), o.Subtotal().Cents())
				assert.Equal(t, int64(2000), o.CouponDiscount().Cents())
				assert.Equal(t, int64(18000), o.Total().Cents())
				return orderID, nil
			})
		f.notifs.EXPECT().CreateJob(ctx, gomock.Any(), "email", "order_created", gomock.Any(), f.clk.Now()).
			Return(nil)
		cartID := uuid.New()
		f.carts.EXPECT().GetOrCreate(ctx, gomock.Any(), userID).Return(cartID, nil)
		f.carts.EXPECT().Clear(ctx, gomock.Any(), cartID).Return(nil)
		f.idem.EXPECT().UpdateStatusCompleted(ctx, gomock.Any(), key, userID, gomock.Any(), orderID).Return(nil)

		// Budget consumed only after the order is committed
		f.coupons.EXPECT().Redeem(ctx, couponSnap.ID).Return(int64(1), nil)

		view := builder.NewOrderBuilder().WithUserID(userID).BuildView()
		f.orderQ.EXPECT().GetByIDSystem(ctx, orderID).Return(view, nil)

		result, err := f.cmd.Checkout(ctx, input, userID, key)

		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
		assert.Equal(t, view, result.Order)
	})

	t.Run("repeated lines for the same product merge into one item", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		vase := builder.NewProductBuilder().WithPrice(20000).BuildSnapshot()
		orderID := uuid.New()

		input := commands.CheckoutInput{
			Items: []commands.CheckoutItemInput{
				{ProductID: vase.ID, Quantity: 1},
				{ProductID: vase.ID, Quantity: 2},
			},
			ShippingAddress: "12 Pottery Lane, Kiln City",
			Phone:           "+1-555-0100",
		}

		f.idem.EXPECT().TryInsert(ctx, gomock.Any(), key, userID, "POST /orders", gomock.Any(), gomock.Any()).
			Return(true, nil)
		// The duplicate collapses before the catalog read
		f.reads.EXPECT().ProductsByIDs(ctx, []uuid.UUID{vase.ID}).
			Return([]shared.ProductSnapshot{vase}, nil)

		f.orders.EXPECT().Create(ctx, gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ any, o *order.Order) (uuid.UUID, error) {
				require.Len(t, o.Items(), 1)
				assert.Equal(t, 3, o.Items()[0].Quantity())
				assert.Equal(t, int64(60000), o.Subtotal().Cents())
				return orderID, nil
			})
		f.notifs.EXPECT().CreateJob(ctx, gomock.Any(), "email", "order_created", gomock.Any(), f.clk.Now()).
			Return(nil)
		cartID := uuid.New()
		f.carts.EXPECT().GetOrCreate(ctx, gomock.Any(), userID).Return(cartID, nil)
		f.carts.EXPECT().Clear(ctx, gomock.Any(), cartID).Return(nil)
		f.idem.EXPECT().UpdateStatusCompleted(ctx, gomock.Any(), key, userID, gomock.Any(), orderID).Return(nil)

		view := builder.NewOrderBuilder().WithUserID(userID).BuildView()
		f.orderQ.EXPECT().GetByIDSystem(ctx, orderID).Return(view, nil)

		result, err := f.cmd.Checkout(ctx, input, userID, key)

		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
	})

	t.Run("redemption failure after commit does not fail the checkout", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		vase := builder.NewProductBuilder().BuildSnapshot()
		couponSnap := builder.NewCouponBuilder().BuildSnapshot()
		orderID := uuid.New()

		input := commands.CheckoutInput{
			Items: []commands.CheckoutItemInput{{ProductID: vase.ID, Quantity: 1}},
			AppliedCoupon: &commands.AppliedCouponInput{
				CouponID:      couponSnap.ID,
				Code:          couponSnap.Code,
				DiscountCents: 2000,
				Type:          "percentage",
			},
			ShippingAddress: "12 Pottery Lane, Kiln City",
			Phone:           "+1-555-0100",
		}

		f.idem.EXPECT().TryInsert(ctx, gomock.Any(), key, userID, "POST /orders", gomock.Any(), gomock.Any()).
			Return(true, nil)
		f.reads.EXPECT().ProductsByIDs(ctx, gomock.Any()).Return([]shared.ProductSnapshot{vase}, nil)
		f.reads.EXPECT().CouponByID(ctx, couponSnap.ID).Return(couponSnap, nil)
		f.orders.EXPECT().Create(ctx, gomock.Any(), gomock.Any()).Return(orderID, nil)
		f.notifs.EXPECT().CreateJob(ctx, gomock.Any(), "email", "order_created", gomock.Any(), gomock.Any()).Return(nil)
		cartID := uuid.New()
		f.carts.EXPECT().GetOrCreate(ctx, gomock.Any(), userID).Return(cartID, nil)
		f.carts.EXPECT().Clear(ctx, gomock.Any(), cartID).Return(nil)
		f.idem.EXPECT().UpdateStatusCompleted(ctx, gomock.Any(), key, userID, gomock.Any(), orderID).Return(nil)

		f.coupons.EXPECT().Redeem(ctx, couponSnap.ID).Return(int64(0), commands.ErrUsageLimitExceeded)

		view := builder.NewOrderBuilder().WithUserID(userID).BuildView()
		f.orderQ.EXPECT().GetByIDSystem(ctx, orderID).Return(view, nil)

		result, err := f.cmd.Checkout(ctx, input, userID, key)

		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
	})

	t.Run("completed key replays the stored order", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		orderID := uuid.New()
		input := commands.CheckoutInput{
			Items:           []commands.CheckoutItemInput{{ProductID: uuid.New(), Quantity: 1}},
			ShippingAddress: "12 Pottery Lane, Kiln City",
			Phone:           "+1-555-0100",
		}

		f.idem.EXPECT().TryInsert(ctx, gomock.Any(), key, userID, "POST /orders", gomock.Any(), gomock.Any()).
			Return(false, nil)
		f.reads.EXPECT().IdempotencyByKey(ctx, key, userID).Return(&shared.IdempotencyRecord{
			Key:           key,
			UserID:        userID,
			Status:        "completed",
			RequestHash:   requestHash(input),
			ResultOrderID: &orderID,
		}, nil)

		view := builder.NewOrderBuilder().WithUserID(userID).BuildView()
		f.orderQ.EXPECT().GetByIDSystem(ctx, orderID).Return(view, nil)

		result, err := f.cmd.Checkout(ctx, input, userID, key)

		require.NoError(t, err)
		assert.True(t, result.IsReplayed)
		assert.Equal(t, view, result.Order)
	})

	t.Run("processing key with different payload is a duplicate", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		input := commands.CheckoutInput{
			Items:           []commands.CheckoutItemInput{{ProductID: uuid.New(), Quantity: 1}},
			ShippingAddress: "12 Pottery Lane, Kiln City",
			Phone:           "+1-555-0100",
		}

		f.idem.EXPECT().TryInsert(ctx, gomock.Any(), key, userID, "POST /orders", gomock.Any(), gomock.Any()).
			Return(false, nil)
		f.reads.EXPECT().IdempotencyByKey(ctx, key, userID).Return(&shared.IdempotencyRecord{
			Key:         key,
			UserID:      userID,
			Status:      "processing",
			RequestHash: "some-other-request",
			ExpiresAt:   f.clk.Now().Add(time.Hour),
		}, nil)

		_, err := f.cmd.Checkout(ctx, input, userID, key)

		assert.ErrorIs(t, err, commands.ErrDuplicateCheckout)
	})

	t.Run("processing key with same payload is still in progress", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		input := commands.CheckoutInput{
			Items:           []commands.CheckoutItemInput{{ProductID: uuid.New(), Quantity: 1}},
			ShippingAddress: "12 Pottery Lane, Kiln City",
			Phone:           "+1-555-0100",
		}

		f.idem.EXPECT().TryInsert(ctx, gomock.Any(), key, userID, "POST /orders", gomock.Any(), gomock.Any()).
			Return(false, nil)
		f.reads.EXPECT().IdempotencyByKey(ctx, key, userID).Return(&shared.IdempotencyRecord{
			Key:         key,
			UserID:      userID,
			Status:      "processing",
			RequestHash: requestHash(input),
			ExpiresAt:   f.clk.Now().Add(time.Hour),
		}, nil)

		_, err := f.cmd.Checkout(ctx, input, userID, key)

		assert.ErrorIs(t, err, commands.ErrIdempotencyInProgress)
	})

	t.Run("expired processing key is claimed and retried", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		vase := builder.NewProductBuilder().BuildSnapshot()
		orderID := uuid.New()
		input := commands.CheckoutInput{
			Items:           []commands.CheckoutItemInput{{ProductID: vase.ID, Quantity: 2}},
			ShippingAddress: "12 Pottery Lane, Kiln City",
			Phone:           "+1-555-0100",
		}
		hash := requestHash(input)

		f.idem.EXPECT().TryInsert(ctx, gomock.Any(), key, userID, "POST /orders", hash, gomock.Any()).
			Return(false, nil)
		f.reads.EXPECT().IdempotencyByKey(ctx, key, userID).Return(&shared.IdempotencyRecord{
			Key:         key,
			UserID:      userID,
			Status:      "processing",
			RequestHash: hash,
			ExpiresAt:   f.clk.Now().Add(-time.Minute),
		}, nil)
		f.idem.EXPECT().ClaimExpiredIdempotencyKey(ctx, gomock.Any(), key, userID, hash, gomock.Any()).
			Return(int64(1), nil)

		f.reads.EXPECT().ProductsByIDs(ctx, gomock.Any()).Return([]shared.ProductSnapshot{vase}, nil)
		f.orders.EXPECT().Create(ctx, gomock.Any(), gomock.Any()).Return(orderID, nil)
		f.notifs.EXPECT().CreateJob(ctx, gomock.Any(), "email", "order_created", gomock.Any(), gomock.Any()).Return(nil)
		cartID := uuid.New()
		f.carts.EXPECT().GetOrCreate(ctx, gomock.Any(), userID).Return(cartID, nil)
		f.carts.EXPECT().Clear(ctx, gomock.Any(), cartID).Return(nil)
		f.idem.EXPECT().UpdateStatusCompleted(ctx, gomock.Any(), key, userID, gomock.Any(), orderID).Return(nil)

		view := builder.NewOrderBuilder().WithUserID(userID).BuildView()
		f.orderQ.EXPECT().GetByIDSystem(ctx, orderID).Return(view, nil)

		result, err := f.cmd.Checkout(ctx, input, userID, key)

		require.NoError(t, err)
		assert.False(t, result.IsReplayed)
	})

	t.Run("lost claim race reports in progress", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		input := commands.CheckoutInput{
			Items:           []commands.CheckoutItemInput{{ProductID: uuid.New(), Quantity: 1}},
			ShippingAddress: "12 Pottery Lane, Kiln City",
			Phone:           "+1-555-0100",
		}
		hash := requestHash(input)

		f.idem.EXPECT().TryInsert(ctx, gomock.Any(), key, userID, "POST /orders", hash, gomock.Any()).
			Return(false, nil)
		f.reads.EXPECT().IdempotencyByKey(ctx, key, userID).Return(&shared.IdempotencyRecord{
			Key:         key,
			UserID:      userID,
			Status:      "processing",
			RequestHash: hash,
			ExpiresAt:   f.clk.Now().Add(-time.Minute),
		}, nil)
		f.idem.EXPECT().ClaimExpiredIdempotencyKey(ctx, gomock.Any(), key, userID, hash, gomock.Any()).
			Return(int64(0), nil)

		_, err := f.cmd.Checkout(ctx, input, userID, key)

		assert.ErrorIs(t, err, commands.ErrIdempotencyInProgress)
	})

	t.Run("empty item list rejected after claiming the key", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		input := commands.CheckoutInput{
			ShippingAddress: "12 Pottery Lane, Kiln City",
			Phone:           "+1-555-0100",
		}

		f.idem.EXPECT().TryInsert(ctx, gomock.Any(), key, userID, "POST /orders", gomock.Any(), gomock.Any()).
			Return(true, nil)

		_, err := f.cmd.Checkout(ctx, input, userID, key)

		assert.ErrorIs(t, err, commands.ErrEmptyOrder)
	})

	t.Run("out of stock product blocks checkout", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		gone := builder.NewProductBuilder().OutOfStock().BuildSnapshot()
		input := commands.CheckoutInput{
			Items:           []commands.CheckoutItemInput{{ProductID: gone.ID, Quantity: 1}},
			ShippingAddress: "12 Pottery Lane, Kiln City",
			Phone:           "+1-555-0100",
		}

		f.idem.EXPECT().TryInsert(ctx, gomock.Any(), key, userID, "POST /orders", gomock.Any(), gomock.Any()).
			Return(true, nil)
		f.reads.EXPECT().ProductsByIDs(ctx, gomock.Any()).Return([]shared.ProductSnapshot{gone}, nil)

		_, err := f.cmd.Checkout(ctx, input, userID, key)

		assert.ErrorIs(t, err, commands.ErrProductOutOfStock)
	})

	t.Run("coupon gone inactive since cart time blocks checkout", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		vase := builder.NewProductBuilder().BuildSnapshot()
		couponSnap := builder.NewCouponBuilder().AsInactive().BuildSnapshot()
		input := commands.CheckoutInput{
			Items: []commands.CheckoutItemInput{{ProductID: vase.ID, Quantity: 1}},
			AppliedCoupon: &commands.AppliedCouponInput{
				CouponID:      couponSnap.ID,
				Code:          couponSnap.Code,
				DiscountCents: 2000,
				Type:          "percentage",
			},
			ShippingAddress: "12 Pottery Lane, Kiln City",
			Phone:           "+1-555-0100",
		}

		f.idem.EXPECT().TryInsert(ctx, gomock.Any(), key, userID, "POST /orders", gomock.Any(), gomock.Any()).
			Return(true, nil)
		f.reads.EXPECT().ProductsByIDs(ctx, gomock.Any()).Return([]shared.ProductSnapshot{vase}, nil)
		f.reads.EXPECT().CouponByID(ctx, couponSnap.ID).Return(couponSnap, nil)

		_, err := f.cmd.Checkout(ctx, input, userID, key)

		assert.ErrorIs(t, err, commands.ErrCouponNotFound)
	})
}

func TestOrderCommands_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	t.Run("legal transition persists", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		f.reads.EXPECT().OrderByID(ctx, orderID).
			Return(&shared.OrderSnapshot{ID: orderID, Status: "pending"}, nil)
		f.orders.EXPECT().UpdateStatus(ctx, gomock.Any(), orderID, "confirmed").Return(nil)

		err := f.cmd.UpdateStatus(ctx, orderID, "confirmed")

		assert.NoError(t, err)
	})

	t.Run("illegal transition rejected", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		f.reads.EXPECT().OrderByID(ctx, orderID).
			Return(&shared.OrderSnapshot{ID: orderID, Status: "pending"}, nil)

		err := f.cmd.UpdateStatus(ctx, orderID, "delivered")

		assert.ErrorIs(t, err, commands.ErrInvalidOrderTransition)
	})

	t.Run("unknown status rejected without touching storage", func(t *testing.T) {
		f := newOrderCmdFixture(t)

		err := f.cmd.UpdateStatus(ctx, orderID, "teleported")

		assert.ErrorIs(t, err, commands.ErrInvalidOrderTransition)
	})

	t.Run("missing order", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		f.reads.EXPECT().OrderByID(ctx, orderID).
			Return(nil, infra.WrapRepoErr("order not found", nil, infra.KindNotFound))

		err := f.cmd.UpdateStatus(ctx, orderID, "confirmed")

		assert.ErrorIs(t, err, commands.ErrOrderNotFound)
	})
}

func TestOrderCommands_CancelByCustomer(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	userID := uuid.New()

	t.Run("pending order cancels", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		f.reads.EXPECT().OrderByID(ctx, orderID).
			Return(&shared.OrderSnapshot{ID: orderID, UserID: userID, Status: "pending"}, nil)
		f.orders.EXPECT().UpdateStatus(ctx, gomock.Any(), orderID, "cancelled").Return(nil)

		err := f.cmd.CancelByCustomer(ctx, orderID, userID)

		assert.NoError(t, err)
	})

	t.Run("shipped order is past the point of no return", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		f.reads.EXPECT().OrderByID(ctx, orderID).
			Return(&shared.OrderSnapshot{ID: orderID, UserID: userID, Status: "shipped"}, nil)

		err := f.cmd.CancelByCustomer(ctx, orderID, userID)

		assert.ErrorIs(t, err, commands.ErrInvalidOrderTransition)
	})

	t.Run("other customers' orders look nonexistent", func(t *testing.T) {
		f := newOrderCmdFixture(t)
		f.reads.EXPECT().OrderByID(ctx, orderID).
			Return(&shared.OrderSnapshot{ID: orderID, UserID: uuid.New(), Status: "pending"}, nil)

		err := f.cmd.CancelByCustomer(ctx, orderID, userID)

		assert.ErrorIs(t, err, commands.ErrOrderNotFound)
	})
}
