//go:build unit

package offer_test

import (
	"testing"
	"time"

	"artisan-store/internal/domain/offer"
	"artisan-store/internal/domain/pricing"
	"artisan-store/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.OfferBuilder)
	errIs  error
}

func TestNewOffer(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewOfferBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, "Autumn sale", actual.Name())
		assert.Equal(t, int64(20), actual.Percentage())
		assert.Equal(t, offer.ScopeAll, actual.Scope())
		assert.True(t, actual.IsActive())
	})

	t.Run("name validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "empty name",
				mutate: func(b *builder.OfferBuilder) { b.Name = "" },
				errIs:  offer.ErrEmptyName,
			},
			{
				name:   "whitespace only name",
				mutate: func(b *builder.OfferBuilder) { b.Name = "   " },
				errIs:  offer.ErrEmptyName,
			},
		})
	})

	t.Run("percentage validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "minimum valid percentage",
				mutate: func(b *builder.OfferBuilder) { b.Percentage = 1 },
			},
			{
				name:   "maximum valid percentage",
				mutate: func(b *builder.OfferBuilder) { b.Percentage = 100 },
			},
			{
				name:   "zero percentage",
				mutate: func(b *builder.OfferBuilder) { b.Percentage = 0 },
				errIs:  offer.ErrInvalidPercentage,
			},
			{
				name:   "percentage above 100",
				mutate: func(b *builder.OfferBuilder) { b.Percentage = 101 },
				errIs:  offer.ErrInvalidPercentage,
			},
		})
	})

	t.Run("scope validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "category scope with category",
				mutate: func(b *builder.OfferBuilder) { b.WithCategoryScope(uuid.New()) },
			},
			{
				name: "category scope without category",
				mutate: func(b *builder.OfferBuilder) {
					b.Scope = "category"
					b.CategoryID = nil
				},
				errIs: offer.ErrCategoryRequired,
			},
			{
				name:   "products scope with products",
				mutate: func(b *builder.OfferBuilder) { b.WithProductsScope(uuid.New(), uuid.New()) },
			},
			{
				name: "products scope without products",
				mutate: func(b *builder.OfferBuilder) {
					b.Scope = "products"
					b.ProductIDs = nil
				},
				errIs: offer.ErrProductsRequired,
			},
			{
				name:   "unknown scope",
				mutate: func(b *builder.OfferBuilder) { b.Scope = "warehouse" },
				errIs:  offer.ErrInvalidScope,
			},
		})
	})

	t.Run("window validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name: "end before start",
				mutate: func(b *builder.OfferBuilder) {
					endsAt := b.StartsAt.Add(-time.Minute)
					b.EndsAt = &endsAt
				},
				errIs: offer.ErrEndBeforeStart,
			},
			{
				name: "end equal to start",
				mutate: func(b *builder.OfferBuilder) {
					endsAt := b.StartsAt
					b.EndsAt = &endsAt
				},
				errIs: offer.ErrEndBeforeStart,
			},
			{
				name: "open ended window",
				mutate: func(b *builder.OfferBuilder) {
					b.EndsAt = nil
				},
			},
		})
	})
}

func TestIsCurrentlyActive(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name     string
		mutate   func(*builder.OfferBuilder)
		expected bool
	}{
		{
			name:     "inside window",
			mutate:   func(b *builder.OfferBuilder) { b.StartsAt = now.Add(-time.Hour) },
			expected: true,
		},
		{
			name:     "inactive flag wins",
			mutate:   func(b *builder.OfferBuilder) { b.AsInactive() },
			expected: false,
		},
		{
			name:     "not yet started",
			mutate:   func(b *builder.OfferBuilder) { b.StartsAt = now.Add(time.Hour) },
			expected: false,
		},
		{
			name: "already ended",
			mutate: func(b *builder.OfferBuilder) {
				b.StartsAt = now.Add(-2 * time.Hour)
				endsAt := now.Add(-time.Minute)
				b.EndsAt = &endsAt
			},
			expected: false,
		},
		{
			name: "end boundary is exclusive",
			mutate: func(b *builder.OfferBuilder) {
				b.StartsAt = now.Add(-time.Hour)
				endsAt := now
				b.EndsAt = &endsAt
			},
			expected: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := builder.NewOfferBuilder().With(tc.mutate).BuildDomain()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual.IsCurrentlyActive(now))
		})
	}
}

func TestOfferPrice(t *testing.T) {
	actual, err := builder.NewOfferBuilder().WithPercentage(30).BuildDomain()
	require.NoError(t, err)

	assert.Equal(t, int64(14000), actual.OfferPrice(pricing.MustMoney(20000)).Cents())
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewOfferBuilder().With(c.mutate).BuildDomain()

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
