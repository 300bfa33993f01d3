//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"artisan-store/internal/infra"
	"artisan-store/internal/pkg/clock"
	"artisan-store/internal/usecase/commands"
	"artisan-store/internal/usecase/shared"
	"artisan-store/tests/common/builder"
	sharedmock "artisan-store/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type couponCmdFixture struct {
	cmd   commands.CouponCommands
	uow   *sharedmock.MockUnitOfWork
	reads *sharedmock.MockCommandReads
	clk   *clock.MockClock
	ctrl  *gomock.Controller
}

func newCouponCmdFixture(t *testing.T) *couponCmdFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	uow := sharedmock.NewMockUnitOfWork(ctrl)
	reads := sharedmock.NewMockCommandReads(ctrl)
	uow.EXPECT().CommandReads().Return(reads).AnyTimes()
	clk := clock.NewMockClock(time.Now())
	return &couponCmdFixture{
		cmd:   commands.NewCouponCommands(uow, clk),
		uow:   uow,
		reads: reads,
		clk:   clk,
		ctrl:  ctrl,
	}
}

func notFoundErr(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

func TestCouponCommands_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown code returns not found", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		f.reads.EXPECT().CouponByCode(ctx, "NOSUCH").Return(nil, notFoundErr("coupon not found"))

		result, err := f.cmd.Validate(ctx, "nosuch", 10000, []uuid.UUID{uuid.New()})

		assert.ErrorIs(t, err, commands.ErrCouponNotFound)
		assert.Nil(t, result)
	})

	t.Run("code is trimmed and upper-cased before lookup", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		f.reads.EXPECT().CouponByCode(ctx, "WELCOME10").Return(nil, notFoundErr("coupon not found"))

		_, err := f.cmd.Validate(ctx, "  welcome10 ", 10000, []uuid.UUID{uuid.New()})

		assert.ErrorIs(t, err, commands.ErrCouponNotFound)
	})

	t.Run("ineligible coupons are indistinguishable from unknown codes", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(b *builder.CouponBuilder)
		}{
			{"inactive", func(b *builder.CouponBuilder) { b.AsInactive() }},
			{"expired", func(b *builder.CouponBuilder) { b.AsExpired() }},
			{"budget exhausted", func(b *builder.CouponBuilder) { b.AsExhausted() }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				f := newCouponCmdFixture(t)
				snap := builder.NewCouponBuilder().With(tc.mutate).BuildSnapshot()
				f.reads.EXPECT().CouponByCode(ctx, snap.Code).Return(snap, nil)

				result, err := f.cmd.Validate(ctx, snap.Code, 10000, []uuid.UUID{uuid.New()})

				assert.ErrorIs(t, err, commands.ErrCouponNotFound)
				assert.Nil(t, result)
			})
		}
	})

	t.Run("order below minimum reports the floor", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		snap := builder.NewCouponBuilder().WithMinOrder(5000).BuildSnapshot()
		f.reads.EXPECT().CouponByCode(ctx, snap.Code).Return(snap, nil)

		_, err := f.cmd.Validate(ctx, snap.Code, 4999, []uuid.UUID{uuid.New()})

		var minErr *commands.MinimumNotMetError
		require.ErrorAs(t, err, &minErr)
		assert.Equal(t, int64(5000), minErr.MinOrderCents)
	})

	t.Run("all products on offer leaves nothing to discount", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		snap := builder.NewCouponBuilder().BuildSnapshot()
		vase := builder.NewProductBuilder().WithName("Ceramic Vase").WithOfferPrice(14000).BuildSnapshot()
		bowl := builder.NewProductBuilder().WithName("Walnut Bowl").WithOfferPrice(9000).BuildSnapshot()

		f.reads.EXPECT().CouponByCode(ctx, snap.Code).Return(snap, nil)
		f.reads.EXPECT().ProductsByIDs(ctx, []uuid.UUID{vase.ID, bowl.ID}).
			Return([]shared.ProductSnapshot{vase, bowl}, nil)

		_, err := f.cmd.Validate(ctx, snap.Code, 23000, []uuid.UUID{vase.ID, bowl.ID})

		var exclErr *commands.AllProductsExcludedError
		require.ErrorAs(t, err, &exclErr)
		assert.Equal(t, []string{"Ceramic Vase", "Walnut Bowl"}, exclErr.ExcludedProductNames)
	})

	t.Run("scope checked against offer-free remainder only", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		onOffer := builder.NewProductBuilder().WithOfferPrice(14000).BuildSnapshot()
		plain := builder.NewProductBuilder().WithName("Linen Scarf").BuildSnapshot()
		// Coupon scoped to the discounted product only; the remainder misses it
		snap := builder.NewCouponBuilder().WithProductsScope(onOffer.ID).BuildSnapshot()

		f.reads.EXPECT().CouponByCode(ctx, snap.Code).Return(snap, nil)
		f.reads.EXPECT().ProductsByIDs(ctx, []uuid.UUID{onOffer.ID, plain.ID}).
			Return([]shared.ProductSnapshot{onOffer, plain}, nil)

		_, err := f.cmd.Validate(ctx, snap.Code, 34000, []uuid.UUID{onOffer.ID, plain.ID})

		var scopeErr *commands.ScopeMismatchError
		assert.ErrorAs(t, err, &scopeErr)
	})

	t.Run("empty product set is a scope mismatch", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		snap := builder.NewCouponBuilder().BuildSnapshot()
		f.reads.EXPECT().CouponByCode(ctx, snap.Code).Return(snap, nil)

		_, err := f.cmd.Validate(ctx, snap.Code, 10000, nil)

		var scopeErr *commands.ScopeMismatchError
		assert.ErrorAs(t, err, &scopeErr)
	})

	t.Run("discount computed over full order amount", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		snap := builder.NewCouponBuilder().WithPercent(10).BuildSnapshot()
		onOffer := builder.NewProductBuilder().WithOfferPrice(14000).BuildSnapshot()
		plain := builder.NewProductBuilder().WithName("Linen Scarf").WithPrice(6000).BuildSnapshot()

		f.reads.EXPECT().CouponByCode(ctx, snap.Code).Return(snap, nil)
		f.reads.EXPECT().ProductsByIDs(ctx, []uuid.UUID{onOffer.ID, plain.ID}).
			Return([]shared.ProductSnapshot{onOffer, plain}, nil)

		result, err := f.cmd.Validate(ctx, snap.Code, 20000, []uuid.UUID{onOffer.ID, plain.ID})

		require.NoError(t, err)
		// Eligibility narrowed to the offer-free product, discount base not
		assert.Equal(t, int64(2000), result.DiscountCents)
		assert.Equal(t, []uuid.UUID{plain.ID}, result.ApplicableProductIDs)
		assert.Equal(t, snap.ID, result.Coupon.ID)
	})

	t.Run("fixed discount capped at order amount", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		snap := builder.NewCouponBuilder().WithFixed(5000).BuildSnapshot()
		plain := builder.NewProductBuilder().WithPrice(3000).BuildSnapshot()

		f.reads.EXPECT().CouponByCode(ctx, snap.Code).Return(snap, nil)
		f.reads.EXPECT().ProductsByIDs(ctx, []uuid.UUID{plain.ID}).
			Return([]shared.ProductSnapshot{plain}, nil)

		result, err := f.cmd.Validate(ctx, snap.Code, 3000, []uuid.UUID{plain.ID})

		require.NoError(t, err)
		assert.Equal(t, int64(3000), result.DiscountCents)
	})
}

func TestCouponCommands_Redeem(t *testing.T) {
	ctx := context.Background()
	couponID := uuid.New()

	withinCoupons := func(f *couponCmdFixture, repo shared.CouponRepository) *gomock.Call {
		tx := sharedmock.NewMockTx(f.ctrl)
		tx.EXPECT().Coupons().Return(repo).AnyTimes()
		tx.EXPECT().DB().Return(nil).AnyTimes()
		return f.uow.EXPECT().Within(ctx, gomock.Any()).DoAndReturn(
			func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
				return fn(ctx, tx)
			})
	}

	t.Run("success returns new used count", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		repo := sharedmock.NewMockCouponRepository(f.ctrl)
		repo.EXPECT().IncrementUsage(ctx, gomock.Any(), couponID).Return(int64(3), nil)
		withinCoupons(f, repo)

		count, err := f.cmd.Redeem(ctx, couponID)

		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("exhausted budget surfaces usage limit error without retry", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		repo := sharedmock.NewMockCouponRepository(f.ctrl)
		repo.EXPECT().IncrementUsage(ctx, gomock.Any(), couponID).
			Return(int64(0), infra.WrapRepoErr("coupon usage limit reached", nil, infra.KindConflict)).
			Times(1)
		withinCoupons(f, repo)

		_, err := f.cmd.Redeem(ctx, couponID)

		assert.ErrorIs(t, err, commands.ErrUsageLimitExceeded)
	})

	t.Run("transient failure retried once", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		repo := sharedmock.NewMockCouponRepository(f.ctrl)
		gomock.InOrder(
			repo.EXPECT().IncrementUsage(ctx, gomock.Any(), couponID).
				Return(int64(0), infra.WrapRepoErr("deadlock detected", nil)),
			repo.EXPECT().IncrementUsage(ctx, gomock.Any(), couponID).
				Return(int64(7), nil),
		)
		withinCoupons(f, repo).Times(2)

		count, err := f.cmd.Redeem(ctx, couponID)

		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
	})

	t.Run("conflict on retry still maps to usage limit", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		repo := sharedmock.NewMockCouponRepository(f.ctrl)
		gomock.InOrder(
			repo.EXPECT().IncrementUsage(ctx, gomock.Any(), couponID).
				Return(int64(0), infra.WrapRepoErr("deadlock detected", nil)),
			repo.EXPECT().IncrementUsage(ctx, gomock.Any(), couponID).
				Return(int64(0), infra.WrapRepoErr("coupon usage limit reached", nil, infra.KindConflict)),
		)
		withinCoupons(f, repo).Times(2)

		_, err := f.cmd.Redeem(ctx, couponID)

		assert.ErrorIs(t, err, commands.ErrUsageLimitExceeded)
	})
}

func TestCouponCommands_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unknown discount type before touching storage", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		input := commands.CouponInput{
			Code:     "SPRING",
			Name:     "Spring sale",
			Type:     "bogus",
			Scope:    "all",
			IsActive: true,
			StartsAt: f.clk.Now(),
		}

		_, err := f.cmd.Create(ctx, input)

		assert.ErrorIs(t, err, commands.ErrCouponValidation)
	})

	t.Run("duplicate code maps to taken error", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		tx := sharedmock.NewMockTx(f.ctrl)
		repo := sharedmock.NewMockCouponRepository(f.ctrl)
		tx.EXPECT().Coupons().Return(repo)
		tx.EXPECT().DB().Return(nil)
		repo.EXPECT().Create(ctx, gomock.Any(), gomock.Any()).
			Return(uuid.Nil, infra.WrapRepoErr("coupon code already exists", nil, infra.KindDuplicateKey))
		f.uow.EXPECT().Within(ctx, gomock.Any()).DoAndReturn(
			func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
				return fn(ctx, tx)
			})

		input := commands.CouponInput{
			Code:         "WELCOME10",
			Name:         "Welcome discount",
			Type:         "percentage",
			PercentValue: 10,
			Scope:        "all",
			IsActive:     true,
			StartsAt:     f.clk.Now(),
		}

		_, err := f.cmd.Create(ctx, input)

		assert.ErrorIs(t, err, commands.ErrCouponCodeTaken)
	})
}

func TestCouponCommands_Update(t *testing.T) {
	ctx := context.Background()

	updateInput := func(f *couponCmdFixture) commands.CouponInput {
		return commands.CouponInput{
			Code:         "WELCOME15",
			Name:         "Welcome discount",
			Type:         "percentage",
			PercentValue: 15,
			Scope:        "all",
			IsActive:     true,
			StartsAt:     f.clk.Now(),
		}
	}

	// No CouponByID expectation on purpose: an edit must not read the usage
	// counter, it is owned by redemption and never written back.
	t.Run("writes the edit without touching the usage counter", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		tx := sharedmock.NewMockTx(f.ctrl)
		repo := sharedmock.NewMockCouponRepository(f.ctrl)
		tx.EXPECT().Coupons().Return(repo)
		tx.EXPECT().DB().Return(nil)
		repo.EXPECT().Update(ctx, gomock.Any(), gomock.Any()).Return(nil)
		f.uow.EXPECT().Within(ctx, gomock.Any()).DoAndReturn(
			func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
				return fn(ctx, tx)
			})

		err := f.cmd.Update(ctx, uuid.New(), updateInput(f))

		assert.NoError(t, err)
	})

	t.Run("unknown coupon maps to not found", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		tx := sharedmock.NewMockTx(f.ctrl)
		repo := sharedmock.NewMockCouponRepository(f.ctrl)
		tx.EXPECT().Coupons().Return(repo)
		tx.EXPECT().DB().Return(nil)
		repo.EXPECT().Update(ctx, gomock.Any(), gomock.Any()).
			Return(infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound))
		f.uow.EXPECT().Within(ctx, gomock.Any()).DoAndReturn(
			func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
				return fn(ctx, tx)
			})

		err := f.cmd.Update(ctx, uuid.New(), updateInput(f))

		assert.ErrorIs(t, err, commands.ErrCouponNotFound)
	})

	t.Run("invalid input is rejected before touching storage", func(t *testing.T) {
		f := newCouponCmdFixture(t)
		input := updateInput(f)
		input.Type = "bogus"

		err := f.cmd.Update(ctx, uuid.New(), input)

		assert.ErrorIs(t, err, commands.ErrCouponValidation)
	})
}
