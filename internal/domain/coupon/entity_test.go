//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"artisan-store/internal/domain/coupon"
	"artisan-store/internal/domain/pricing"
	"artisan-store/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.CouponBuilder)
	errIs  error
}

func TestNewCoupon(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewCouponBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, "WELCOME10", actual.Code().String())
		assert.Equal(t, coupon.DiscountPercentage, actual.Discount().Type())
		assert.Equal(t, int64(0), actual.UsedCount())
	})

	t.Run("code normalization", func(t *testing.T) {
		actual, err := builder.NewCouponBuilder().WithCode("  welcome10  ").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "WELCOME10", actual.Code().String())
	})

	t.Run("code validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "too short",
				mutate: func(b *builder.CouponBuilder) { b.Code = "AB" },
				errIs:  coupon.ErrInvalidCouponCode,
			},
			{
				name:   "too long",
				mutate: func(b *builder.CouponBuilder) { b.Code = "ABCDEFGHIJKLMNOPQRSTU" },
				errIs:  coupon.ErrInvalidCouponCode,
			},
			{
				name:   "invalid characters",
				mutate: func(b *builder.CouponBuilder) { b.Code = "SAVE-10%" },
				errIs:  coupon.ErrInvalidCouponCode,
			},
			{
				name:   "minimum length",
				mutate: func(b *builder.CouponBuilder) { b.Code = "ABC" },
			},
		})
	})

	t.Run("discount validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "zero percent",
				mutate: func(b *builder.CouponBuilder) { b.WithPercent(0) },
				errIs:  coupon.ErrInvalidPercentValue,
			},
			{
				name:   "percent above 100",
				mutate: func(b *builder.CouponBuilder) { b.WithPercent(101) },
				errIs:  coupon.ErrInvalidPercentValue,
			},
			{
				name:   "negative fixed amount",
				mutate: func(b *builder.CouponBuilder) { b.WithFixed(-100) },
				errIs:  coupon.ErrNegativeFixedValue,
			},
			{
				name:   "zero fixed amount",
				mutate: func(b *builder.CouponBuilder) { b.WithFixed(0) },
			},
		})
	})

	t.Run("minimum order validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "negative minimum",
				mutate: func(b *builder.CouponBuilder) { b.MinOrderCents = -1 },
				errIs:  coupon.ErrNegativeMinOrder,
			},
		})
	})

	t.Run("scope validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name: "category scope without category",
				mutate: func(b *builder.CouponBuilder) {
					b.Scope = "category"
					b.CategoryID = nil
				},
				errIs: coupon.ErrCategoryRequired,
			},
			{
				name: "products scope without products",
				mutate: func(b *builder.CouponBuilder) {
					b.Scope = "products"
					b.ProductIDs = nil
				},
				errIs: coupon.ErrProductsRequired,
			},
			{
				name:   "unknown scope",
				mutate: func(b *builder.CouponBuilder) { b.Scope = "loyalty" },
				errIs:  coupon.ErrInvalidScope,
			},
		})
	})

	t.Run("window validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name: "end before start",
				mutate: func(b *builder.CouponBuilder) {
					endsAt := b.StartsAt.Add(-time.Minute)
					b.EndsAt = &endsAt
				},
				errIs: coupon.ErrEndBeforeStart,
			},
		})
	})
}

func TestComputeDiscount(t *testing.T) {
	cases := []struct {
		name       string
		mutate     func(*builder.CouponBuilder)
		orderCents int64
		expected   int64
	}{
		{
			name:       "percentage of order amount",
			mutate:     func(b *builder.CouponBuilder) { b.WithPercent(10) },
			orderCents: 10000,
			expected:   1000,
		},
		{
			name:       "percentage rounds half up",
			mutate:     func(b *builder.CouponBuilder) { b.WithPercent(15) },
			orderCents: 999,
			expected:   150,
		},
		{
			name:       "cap limits percentage discount",
			mutate:     func(b *builder.CouponBuilder) { b.WithPercent(10).WithMaxDiscount(500) },
			orderCents: 10000,
			expected:   500,
		},
		{
			name:       "cap above raw discount has no effect",
			mutate:     func(b *builder.CouponBuilder) { b.WithPercent(10).WithMaxDiscount(5000) },
			orderCents: 10000,
			expected:   1000,
		},
		{
			name:       "fixed amount",
			mutate:     func(b *builder.CouponBuilder) { b.WithFixed(700) },
			orderCents: 10000,
			expected:   700,
		},
		{
			name:       "fixed amount never exceeds order amount",
			mutate:     func(b *builder.CouponBuilder) { b.WithFixed(2000) },
			orderCents: 1500,
			expected:   1500,
		},
		{
			name:       "zero fixed amount is a valid no-op discount",
			mutate:     func(b *builder.CouponBuilder) { b.WithFixed(0) },
			orderCents: 1500,
			expected:   0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := builder.NewCouponBuilder().With(tc.mutate).BuildDomain()
			require.NoError(t, err)

			discount := actual.ComputeDiscount(pricing.MustMoney(tc.orderCents))
			assert.Equal(t, tc.expected, discount.Cents())
		})
	}
}

func TestHasBudget(t *testing.T) {
	t.Run("unlimited when no usage limit", func(t *testing.T) {
		budget, err := builder.NewCouponBuilder().WithUsedCount(1_000_000).BuildDomain()
		require.NoError(t, err)
		assert.True(t, budget.HasBudget())
	})

	t.Run("budget remains below the limit", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithUsageLimit(5).WithUsedCount(4)
		entity := reconstructFromBuilder(t, b)
		assert.True(t, entity.HasBudget())
	})

	t.Run("exhausted at the limit", func(t *testing.T) {
		b := builder.NewCouponBuilder().WithUsageLimit(5).WithUsedCount(5)
		entity := reconstructFromBuilder(t, b)
		assert.False(t, entity.HasBudget())
	})
}

func TestMeetsMinimum(t *testing.T) {
	entity, err := builder.NewCouponBuilder().WithMinOrder(5000).BuildDomain()
	require.NoError(t, err)

	assert.False(t, entity.MeetsMinimum(pricing.MustMoney(4999)))
	assert.True(t, entity.MeetsMinimum(pricing.MustMoney(5000)))
	assert.True(t, entity.MeetsMinimum(pricing.MustMoney(5001)))
}

func TestScopeEligibility(t *testing.T) {
	t.Run("all scope applies to anything", func(t *testing.T) {
		entity, err := builder.NewCouponBuilder().BuildDomain()
		require.NoError(t, err)

		assert.True(t, entity.AppliesToProducts([]uuid.UUID{uuid.New()}))
		assert.True(t, entity.AppliesToCategories([]uuid.UUID{uuid.New()}))
	})

	t.Run("products scope needs an intersection", func(t *testing.T) {
		target := uuid.New()
		entity, err := builder.NewCouponBuilder().WithProductsScope(target, uuid.New()).BuildDomain()
		require.NoError(t, err)

		assert.True(t, entity.AppliesToProducts([]uuid.UUID{uuid.New(), target}))
		assert.False(t, entity.AppliesToProducts([]uuid.UUID{uuid.New(), uuid.New()}))
	})

	t.Run("category scope needs a matching category", func(t *testing.T) {
		categoryID := uuid.New()
		entity, err := builder.NewCouponBuilder().WithCategoryScope(categoryID).BuildDomain()
		require.NoError(t, err)

		assert.True(t, entity.AppliesToCategories([]uuid.UUID{uuid.New(), categoryID}))
		assert.False(t, entity.AppliesToCategories([]uuid.UUID{uuid.New()}))
	})
}

func TestCouponIsCurrentlyActive(t *testing.T) {
	now := time.Now()

	t.Run("inactive flag", func(t *testing.T) {
		entity, err := builder.NewCouponBuilder().AsInactive().BuildDomain()
		require.NoError(t, err)
		assert.False(t, entity.IsCurrentlyActive(now))
	})

	t.Run("expired window", func(t *testing.T) {
		entity, err := builder.NewCouponBuilder().AsExpired().BuildDomain()
		require.NoError(t, err)
		assert.False(t, entity.IsCurrentlyActive(now))
	})

	t.Run("inside window", func(t *testing.T) {
		entity, err := builder.NewCouponBuilder().BuildDomain()
		require.NoError(t, err)
		assert.True(t, entity.IsCurrentlyActive(now))
	})
}

// reconstructFromBuilder rebuilds the entity with a non-zero used count;
// NewCoupon always starts at zero.
func reconstructFromBuilder(t *testing.T, b *builder.CouponBuilder) *coupon.Coupon {
	t.Helper()
	fresh, err := b.BuildDomain()
	require.NoError(t, err)

	return coupon.ReconstructCoupon(
		fresh.ID(), fresh.Code(), fresh.Name(), fresh.Discount(), fresh.MinOrder(),
		fresh.UsageLimit(), b.UsedCount,
		fresh.Scope(), fresh.CategoryID(), fresh.ProductIDs(),
		fresh.IsActive(), fresh.StartsAt(), fresh.EndsAt(),
		time.Now(), time.Now(),
	)
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewCouponBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
