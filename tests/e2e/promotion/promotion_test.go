//go:build e2e

package promotion_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"artisan-store/internal/domain/user"
	"artisan-store/internal/handler/dto/request"
	"artisan-store/internal/handler/dto/response"
	"artisan-store/tests/common/authtest"
	"artisan-store/tests/common/dbtest"
	commonhttp "artisan-store/tests/common/httptest"
	"artisan-store/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	offersURL       = "/api/admin/offers"
	adminCouponsURL = "/api/admin/coupons"
	checkoutURL     = "/api/orders/checkout"
	validateURL     = "/api/coupons/validate"
)

type PromotionSuite struct {
	e2e.SharedSuite
}

func (s *PromotionSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestPromotionSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(PromotionSuite))
}

func (s *PromotionSuite) adminToken(t *testing.T) string {
	t.Helper()
	return authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))
}

func (s *PromotionSuite) createOffer(t *testing.T, token string, body request.OfferRequest) uuid.UUID {
	t.Helper()
	w := commonhttp.PerformRequest(t, s.Router, http.MethodPost, offersURL, body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created response.OfferResponse
	require.NoError(t, commonhttp.DecodeResponseBody(t, w.Body, &created))
	return created.ID
}

// offerPrice reads the materialized discount straight from the catalog row;
// nil means the product carries no offer.
func (s *PromotionSuite) offerPrice(t *testing.T, productID uuid.UUID) *int64 {
	t.Helper()
	var price *int64
	err := s.DB.QueryRow(t.Context(),
		"SELECT offer_price_cents FROM products WHERE id = $1", productID).Scan(&price)
	require.NoError(t, err)
	return price
}

func activeOffer(name string, percentage int64) request.OfferRequest {
	return request.OfferRequest{
		Name:       name,
		Percentage: percentage,
		Scope:      "all",
		IsActive:   true,
		StartsAt:   time.Now().Add(-time.Hour),
	}
}

// =============================================================================
// TestOfferPropagation - Catalog repricing through the admin offer API
// =============================================================================

func (s *PromotionSuite) TestOfferPropagation() {
	s.Run("Normal case: a category offer discounts only products in that category", func() {
		t := s.T()

		ceramics := dbtest.CreateTestCategory(t, s.DB, "Ceramics")
		woodwork := dbtest.CreateTestCategory(t, s.DB, "Woodwork")
		vaseID := dbtest.CreateTestProduct(t, s.DB, ceramics, "Ceramic Vase", 20000)
		stoolID := dbtest.CreateTestProduct(t, s.DB, woodwork, "Oak Stool", 10000)

		token := s.adminToken(t)
		body := activeOffer("Ceramics week", 30)
		body.Scope = "category"
		body.CategoryID = &ceramics
		s.createOffer(t, token, body)

		vasePrice := s.offerPrice(t, vaseID)
		require.NotNil(t, vasePrice)
		require.Equal(t, int64(14000), *vasePrice)
		require.Nil(t, s.offerPrice(t, stoolID), "products outside the offer scope must stay at full price")
	})

	s.Run("Normal case: the highest percentage wins when offers overlap", func() {
		t := s.T()

		ceramics := dbtest.CreateTestCategory(t, s.DB, "Ceramics")
		woodwork := dbtest.CreateTestCategory(t, s.DB, "Woodwork")
		vaseID := dbtest.CreateTestProduct(t, s.DB, ceramics, "Ceramic Vase", 20000)
		stoolID := dbtest.CreateTestProduct(t, s.DB, woodwork, "Oak Stool", 10000)

		token := s.adminToken(t)
		s.createOffer(t, token, activeOffer("Storewide sale", 10))
		categoryBody := activeOffer("Ceramics week", 30)
		categoryBody.Scope = "category"
		categoryBody.CategoryID = &ceramics
		s.createOffer(t, token, categoryBody)

		vasePrice := s.offerPrice(t, vaseID)
		require.NotNil(t, vasePrice)
		require.Equal(t, int64(14000), *vasePrice, "the stronger category offer must win the overlap")

		stoolPrice := s.offerPrice(t, stoolID)
		require.NotNil(t, stoolPrice)
		require.Equal(t, int64(9000), *stoolPrice, "the storewide offer still applies outside the category")
	})

	s.Run("Normal case: a products-scope offer touches only the listed products", func() {
		t := s.T()

		ceramics := dbtest.CreateTestCategory(t, s.DB, "Ceramics")
		vaseID := dbtest.CreateTestProduct(t, s.DB, ceramics, "Ceramic Vase", 20000)
		bowlID := dbtest.CreateTestProduct(t, s.DB, ceramics, "Glazed Bowl", 9000)

		token := s.adminToken(t)
		body := activeOffer("Vase special", 25)
		body.Scope = "products"
		body.ProductIDs = []uuid.UUID{vaseID}
		s.createOffer(t, token, body)

		vasePrice := s.offerPrice(t, vaseID)
		require.NotNil(t, vasePrice)
		require.Equal(t, int64(15000), *vasePrice)
		require.Nil(t, s.offerPrice(t, bowlID))
	})

	s.Run("Normal case: deactivating an offer clears the derived prices", func() {
		t := s.T()

		ceramics := dbtest.CreateTestCategory(t, s.DB, "Ceramics")
		vaseID := dbtest.CreateTestProduct(t, s.DB, ceramics, "Ceramic Vase", 20000)

		token := s.adminToken(t)
		body := activeOffer("Storewide sale", 30)
		offerID := s.createOffer(t, token, body)
		require.NotNil(t, s.offerPrice(t, vaseID))

		body.IsActive = false
		w := commonhttp.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s", offersURL, offerID), body, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		require.Nil(t, s.offerPrice(t, vaseID), "an inactive offer must leave no derived price behind")
	})

	s.Run("Normal case: deleting an offer restores full price", func() {
		t := s.T()

		ceramics := dbtest.CreateTestCategory(t, s.DB, "Ceramics")
		vaseID := dbtest.CreateTestProduct(t, s.DB, ceramics, "Ceramic Vase", 20000)

		token := s.adminToken(t)
		offerID := s.createOffer(t, token, activeOffer("Storewide sale", 20))
		price := s.offerPrice(t, vaseID)
		require.NotNil(t, price)
		require.Equal(t, int64(16000), *price)

		w := commonhttp.PerformRequest(t, s.Router, http.MethodDelete,
			fmt.Sprintf("%s/%s", offersURL, offerID), nil, token)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		require.Nil(t, s.offerPrice(t, vaseID))
	})
}

// =============================================================================
// TestCouponEdit - Admin coupon edits against a live usage counter
// =============================================================================

func (s *PromotionSuite) TestCouponEdit() {
	s.Run("Normal case: editing a coupon preserves consumed budget", func() {
		t := s.T()

		ceramics := dbtest.CreateTestCategory(t, s.DB, "Ceramics")
		vaseID := dbtest.CreateTestProduct(t, s.DB, ceramics, "Ceramic Vase", 20000)
		limit := int64(3)
		couponID := dbtest.CreateTestCoupon(t, s.DB, "WELCOME10", 10, &limit)

		buyer := authtest.CreateAndLogin(t, s.DB, s.Router, "buyer@example.com", string(user.RoleCustomer))

		validateBody := map[string]any{
			"code":               "WELCOME10",
			"order_amount_cents": 20000,
			"product_ids":        []string{vaseID.String()},
		}
		vw := commonhttp.PerformRequest(t, s.Router, http.MethodPost, validateURL, validateBody, buyer)
		require.Equal(t, http.StatusOK, vw.Code, vw.Body.String())

		var validated response.ValidatedCouponResponse
		require.NoError(t, commonhttp.DecodeResponseBody(t, vw.Body, &validated))

		checkoutBody := request.CheckoutRequest{
			Items: []request.CheckoutItemRequest{{ProductID: vaseID, Quantity: 1}},
			AppliedCoupon: &request.AppliedCouponRequest{
				CouponID:      validated.CouponID,
				Code:          validated.Code,
				DiscountCents: validated.DiscountCents,
				Type:          validated.Type,
			},
			ShippingAddress: "12 Pottery Lane, Kiln City",
			Phone:           "+1-555-0100",
		}
		cw := commonhttp.PerformRequestWithHeaders(t, s.Router, http.MethodPost, checkoutURL,
			checkoutBody, buyer, map[string]string{"Idempotency-Key": uuid.New().String()})
		require.Equal(t, http.StatusCreated, cw.Code, cw.Body.String())

		var usedCount int64
		err := s.DB.QueryRow(t.Context(), "SELECT used_count FROM coupons WHERE id = $1", couponID).Scan(&usedCount)
		require.NoError(t, err)
		require.Equal(t, int64(1), usedCount)

		// A rename-and-retune edit must not hand back claimed budget
		admin := s.adminToken(t)
		editBody := request.CouponRequest{
			Code:         "WELCOME10",
			Name:         "Welcome discount, round two",
			Type:         "percentage",
			PercentValue: 15,
			Scope:        "all",
			UsageLimit:   &limit,
			IsActive:     true,
			StartsAt:     time.Now().Add(-time.Hour),
		}
		ew := commonhttp.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s", adminCouponsURL, couponID), editBody, admin)
		require.Equal(t, http.StatusOK, ew.Code, ew.Body.String())

		err = s.DB.QueryRow(t.Context(), "SELECT used_count FROM coupons WHERE id = $1", couponID).Scan(&usedCount)
		require.NoError(t, err)
		require.Equal(t, int64(1), usedCount, "editing a coupon must never rewrite used_count")

		var percentOff int64
		err = s.DB.QueryRow(t.Context(), "SELECT percent_off FROM coupons WHERE id = $1", couponID).Scan(&percentOff)
		require.NoError(t, err)
		require.Equal(t, int64(15), percentOff)
	})
}
