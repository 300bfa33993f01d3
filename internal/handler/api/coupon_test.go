//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"artisan-store/internal/domain/user"
	"artisan-store/internal/handler/api"
	resdto "artisan-store/internal/handler/dto/response"
	"artisan-store/internal/usecase/commands"
	"artisan-store/internal/usecase/queries"
	"artisan-store/tests/common/builder"
	"artisan-store/tests/common/httptest"
	"artisan-store/tests/common/testutil"
	cmdmock "artisan-store/tests/mock/commands"
	qrymock "artisan-store/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CouponHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *cmdmock.MockCouponCommands
	mockQueries  *qrymock.MockCouponQueries
	handler      *api.CouponHandler
}

func (s *CouponHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = cmdmock.NewMockCouponCommands(s.mockCtrl)
	s.mockQueries = qrymock.NewMockCouponQueries(s.mockCtrl)
	s.handler = api.NewCouponHandler(s.mockCommands, s.mockQueries)

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", uuid.New())
		c.Set("user_role", user.RoleCustomer)
		c.Next()
	}

	s.router.POST("/coupons/validate", authMiddleware, s.handler.Validate)
	s.router.GET("/admin/coupons", authMiddleware, s.handler.List)
	s.router.GET("/admin/coupons/:id", authMiddleware, s.handler.Get)
	s.router.POST("/admin/coupons", authMiddleware, s.handler.Create)
	s.router.PUT("/admin/coupons/:id", authMiddleware, s.handler.Update)
	s.router.DELETE("/admin/coupons/:id", authMiddleware, s.handler.Delete)
}

func (s *CouponHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCouponHandlerSuite(t *testing.T) {
	suite.Run(t, new(CouponHandlerTestSuite))
}

// ================================================================================
// TestValidate
// ================================================================================

func (s *CouponHandlerTestSuite) TestValidate() {
	url := "/coupons/validate"
	productID := uuid.New()
	snap := builder.NewCouponBuilder().BuildSnapshot()

	reqBody := map[string]any{
		"code":               snap.Code,
		"order_amount_cents": 20000,
		"product_ids":        []string{productID.String()},
	}

	s.Run("success: returns 200 OK with the discount", func() {
		s.mockCommands.EXPECT().Validate(gomock.Any(), snap.Code, int64(20000), []uuid.UUID{productID}).
			Return(&commands.CouponValidationResult{
				Coupon:               snap,
				DiscountCents:        2000,
				ApplicableProductIDs: []uuid.UUID{productID},
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.ValidatedCouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(snap.ID, response.CouponID)
		s.Equal(snap.Code, response.Code)
		s.Equal(int64(2000), response.DiscountCents)
		s.Equal([]uuid.UUID{productID}, response.ApplicableProductIDs)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing code", mutate: testutil.Field("code", nil)},
			{name: "missing order amount", mutate: testutil.Field("order_amount_cents", nil)},
			{name: "zero order amount", mutate: testutil.Field("order_amount_cents", 0)},
			{name: "missing product ids", mutate: testutil.Field("product_ids", nil)},
			{name: "empty product ids", mutate: testutil.Field("product_ids", []string{})},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "coupon not found",
				commandsError:  commands.ErrCouponNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Coupon not found",
			},
			{
				name:           "order below minimum",
				commandsError:  &commands.MinimumNotMetError{MinOrderCents: 5000},
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Order amount below coupon minimum",
			},
			{
				name:           "all products on offer",
				commandsError:  &commands.AllProductsExcludedError{ExcludedProductNames: []string{"Ceramic Vase"}},
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "All products already discounted by an offer",
			},
			{
				name:           "scope mismatch",
				commandsError:  &commands.ScopeMismatchError{},
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Coupon does not apply to these products",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Validate(gomock.Any(), snap.Code, int64(20000), []uuid.UUID{productID}).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *CouponHandlerTestSuite) TestCreate() {
	url := "/admin/coupons"

	reqBody := builder.NewCouponBuilder().BuildRequestDTO()
	returnView := builder.NewCouponBuilder().BuildView()

	s.Run("success: returns 201 Created for valid request", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(returnView.ID, nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), returnView.ID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.CouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(returnView.ID, response.ID)
		s.Equal(returnView.Code, response.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing code", mutate: testutil.Field("code", nil)},
			{name: "missing name", mutate: testutil.Field("name", nil)},
			{name: "missing type", mutate: testutil.Field("type", nil)},
			{name: "unknown type", mutate: testutil.Field("type", "lottery")},
			{name: "unknown scope", mutate: testutil.Field("scope", "everything")},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 409 Conflict when the code is taken", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(uuid.Nil, commands.ErrCouponCodeTaken).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Coupon code already in use")
	})

	s.Run("error: 422 Unprocessable Entity on domain validation failure", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(uuid.Nil, commands.ErrCouponValidation).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Coupon validation failed")
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *CouponHandlerTestSuite) TestGet() {
	couponID := uuid.New()
	url := "/admin/coupons/" + couponID.String()

	returnView := builder.NewCouponBuilder().BuildView()
	returnView.ID = couponID

	s.Run("success: returns 200 OK with CouponResponse", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), couponID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.CouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(couponID, response.ID)
		s.Equal(returnView.Code, response.Code)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/admin/coupons/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid coupon id")
	})

	s.Run("error: 404 Not Found for missing coupon", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), couponID).
			Return(nil, queries.ErrCouponNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Coupon not found")
	})
}

// ================================================================================
// TestUpdate
// ================================================================================

func (s *CouponHandlerTestSuite) TestUpdate() {
	couponID := uuid.New()
	url := "/admin/coupons/" + couponID.String()

	reqBody := builder.NewCouponBuilder().BuildRequestDTO()
	returnView := builder.NewCouponBuilder().BuildView()
	returnView.ID = couponID

	s.Run("success: returns 200 OK with the updated coupon", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), couponID, gomock.Any()).
			Return(nil).Times(1)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), couponID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")

		var response resdto.CouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(couponID, response.ID)
	})

	s.Run("error: 404 Not Found for missing coupon", func() {
		s.mockCommands.EXPECT().Update(gomock.Any(), couponID, gomock.Any()).
			Return(commands.ErrCouponNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Coupon not found")
	})
}

// ================================================================================
// TestDelete
// ================================================================================

func (s *CouponHandlerTestSuite) TestDelete() {
	couponID := uuid.New()
	url := "/admin/coupons/" + couponID.String()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), couponID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 Not Found for missing coupon", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), couponID).
			Return(commands.ErrCouponNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Coupon not found")
	})
}
