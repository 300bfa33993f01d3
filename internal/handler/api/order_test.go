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

type OrderHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	adminRouter  *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *cmdmock.MockOrderCommands
	mockQueries  *qrymock.MockOrderQueries
	handler      *api.OrderHandler
	userID       uuid.UUID
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.adminRouter = gin.New()
	s.userID = uuid.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = cmdmock.NewMockOrderCommands(s.mockCtrl)
	s.mockQueries = qrymock.NewMockOrderQueries(s.mockCtrl)
	s.handler = api.NewOrderHandler(s.mockCommands, s.mockQueries)

	// Mock authentication middleware for testing
	authAs := func(role user.Role) gin.HandlerFunc {
		return func(c *gin.Context) {
			if c.GetHeader("Authorization") == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
				return
			}
			c.Set("user_id", s.userID)
			c.Set("user_role", role)
			c.Next()
		}
	}

	s.router.POST("/orders/checkout", authAs(user.RoleCustomer), s.handler.Checkout)
	s.router.GET("/orders", authAs(user.RoleCustomer), s.handler.ListOwn)
	s.router.GET("/orders/:id", authAs(user.RoleCustomer), s.handler.Get)
	s.router.POST("/orders/:id/cancel", authAs(user.RoleCustomer), s.handler.Cancel)

	s.adminRouter.GET("/admin/orders", authAs(user.RoleAdmin), s.handler.ListAll)
	s.adminRouter.PATCH("/admin/orders/:id/status", authAs(user.RoleAdmin), s.handler.UpdateStatus)
}

func (s *OrderHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

// ================================================================================
// TestCheckout
// ================================================================================

func (s *OrderHandlerTestSuite) TestCheckout() {
	url := "/orders/checkout"
	idemKey := uuid.New()
	idemHeaders := map[string]string{"Idempotency-Key": idemKey.String()}

	s.Run("success: returns 201 Created for a new order", func() {
		ob := builder.NewOrderBuilder()
		ob.UserID = s.userID
		reqBody := ob.BuildCheckoutRequestDTO()
		view := ob.BuildView()

		s.mockCommands.EXPECT().Checkout(gomock.Any(), gomock.Any(), s.userID, idemKey).
			Return(&commands.CheckoutResult{Order: view, IsReplayed: false}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", idemHeaders)

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(view.ID, response.ID)
		s.Equal(view.TotalCents, response.TotalCents)
		s.Equal("pending", response.Status)
	})

	s.Run("success: returns 200 OK when the key replays an existing order", func() {
		ob := builder.NewOrderBuilder()
		ob.UserID = s.userID
		reqBody := ob.BuildCheckoutRequestDTO()
		view := ob.BuildView()

		s.mockCommands.EXPECT().Checkout(gomock.Any(), gomock.Any(), s.userID, idemKey).
			Return(&commands.CheckoutResult{Order: view, IsReplayed: true}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", idemHeaders)

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.ID, response.ID)
	})

	s.Run("error: 400 Bad Request without an Idempotency-Key header", func() {
		reqBody := builder.NewOrderBuilder().BuildCheckoutRequestDTO()

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Idempotency-Key header required")
	})

	s.Run("error: 400 Bad Request for a malformed Idempotency-Key", func() {
		reqBody := builder.NewOrderBuilder().BuildCheckoutRequestDTO()
		headers := map[string]string{"Idempotency-Key": "not-a-uuid"}

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", headers)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid idempotency key format")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		reqBody := builder.NewOrderBuilder().BuildCheckoutRequestDTO()

		testCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing items", mutate: testutil.Field("items", nil)},
			{name: "empty items", mutate: testutil.Field("items", []any{})},
			{name: "missing shipping address", mutate: testutil.Field("shipping_address", nil)},
			{name: "missing phone", mutate: testutil.Field("phone", nil)},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token", idemHeaders)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		reqBody := builder.NewOrderBuilder().BuildCheckoutRequestDTO()

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		reqBody := builder.NewOrderBuilder().BuildCheckoutRequestDTO()

		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "product not found",
				commandsError:  commands.ErrProductNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Product not found",
			},
			{
				name:           "coupon not found",
				commandsError:  commands.ErrCouponNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Coupon not found",
			},
			{
				name:           "product out of stock",
				commandsError:  commands.ErrProductOutOfStock,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Product is out of stock",
			},
			{
				name:           "order below coupon minimum",
				commandsError:  &commands.MinimumNotMetError{MinOrderCents: 5000},
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Order amount below coupon minimum",
			},
			{
				name:           "empty order",
				commandsError:  commands.ErrEmptyOrder,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Order has no items",
			},
			{
				name:           "coupon budget exhausted",
				commandsError:  commands.ErrUsageLimitExceeded,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Coupon usage limit reached",
			},
			{
				name:           "duplicate checkout",
				commandsError:  commands.ErrDuplicateCheckout,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Duplicate checkout request with different parameters",
			},
			{
				name:           "checkout in progress",
				commandsError:  commands.ErrIdempotencyInProgress,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Checkout request is currently being processed",
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
				s.mockCommands.EXPECT().Checkout(gomock.Any(), gomock.Any(), s.userID, idemKey).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token", idemHeaders)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestListOwn
// ================================================================================

func (s *OrderHandlerTestSuite) TestListOwn() {
	url := "/orders"

	s.Run("success: returns 200 OK with the user's orders", func() {
		items := []*queries.OrderListItem{
			builder.NewOrderBuilder().BuildListItem(),
			builder.NewOrderBuilder().WithStatus("delivered").BuildListItem(),
		}

		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.userID, (*queries.Cursor)(nil), 20).
			Return(items, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response struct {
			Orders []resdto.OrderListItemResponse `json:"orders"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Orders, 2)
		s.Equal(items[0].ID, response.Orders[0].ID)
	})

	s.Run("success: passes limit and cursor through", func() {
		next := &queries.Cursor{After: "opaque-cursor"}
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), s.userID, &queries.Cursor{After: "abc"}, 5).
			Return([]*queries.OrderListItem{builder.NewOrderBuilder().BuildListItem()}, next, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?limit=5&after=abc", nil, "bearer-token")

		var response struct {
			Orders     []resdto.OrderListItemResponse `json:"orders"`
			NextCursor string                         `json:"next_cursor"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("opaque-cursor", response.NextCursor)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *OrderHandlerTestSuite) TestGet() {
	orderID := uuid.New()
	url := "/orders/" + orderID.String()

	s.Run("success: returns 200 OK with OrderResponse", func() {
		ob := builder.NewOrderBuilder()
		ob.ID = orderID
		ob.UserID = s.userID
		view := ob.BuildView()

		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, false, orderID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(orderID, response.ID)
		s.Equal(view.SubtotalCents, response.SubtotalCents)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid order id")
	})

	s.Run("error: 404 Not Found for a foreign or missing order", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, false, orderID).
			Return(nil, queries.ErrOrderNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Order not found")
	})
}

// ================================================================================
// TestCancel
// ================================================================================

func (s *OrderHandlerTestSuite) TestCancel() {
	orderID := uuid.New()
	url := "/orders/" + orderID.String() + "/cancel"

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().CancelByCustomer(gomock.Any(), orderID, s.userID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "order not found",
				commandsError:  commands.ErrOrderNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Order not found",
			},
			{
				name:           "already shipped",
				commandsError:  commands.ErrInvalidOrderTransition,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Order can no longer be cancelled",
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
				s.mockCommands.EXPECT().CancelByCustomer(gomock.Any(), orderID, s.userID).
					Return(tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestListAll
// ================================================================================

func (s *OrderHandlerTestSuite) TestListAll() {
	url := "/admin/orders"

	s.Run("success: returns 200 OK with every order", func() {
		items := []*queries.OrderListItem{builder.NewOrderBuilder().BuildListItem()}

		s.mockQueries.EXPECT().ListAll(gomock.Any(), (*string)(nil), (*queries.Cursor)(nil), 20).
			Return(items, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.adminRouter, http.MethodGet, url, nil, "bearer-token")

		var response struct {
			Orders []resdto.OrderListItemResponse `json:"orders"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Orders, 1)
	})

	s.Run("success: filters by status", func() {
		s.mockQueries.EXPECT().ListAll(gomock.Any(), gomock.Any(), (*queries.Cursor)(nil), 20).
			DoAndReturn(func(_ any, status *string, _ *queries.Cursor, _ int) ([]*queries.OrderListItem, *queries.Cursor, error) {
				s.Require().NotNil(status)
				s.Equal("shipped", *status)
				return nil, nil, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.adminRouter, http.MethodGet, url+"?status=shipped", nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
	})
}

// ================================================================================
// TestUpdateStatus
// ================================================================================

func (s *OrderHandlerTestSuite) TestUpdateStatus() {
	orderID := uuid.New()
	url := "/admin/orders/" + orderID.String() + "/status"
	reqBody := map[string]any{"status": "confirmed"}

	s.Run("success: returns 200 OK with the updated order", func() {
		ob := builder.NewOrderBuilder().WithStatus("confirmed")
		ob.ID = orderID
		view := ob.BuildView()

		s.mockCommands.EXPECT().UpdateStatus(gomock.Any(), orderID, "confirmed").
			Return(nil).Times(1)
		s.mockQueries.EXPECT().GetByIDSystem(gomock.Any(), orderID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.adminRouter, http.MethodPatch, url, reqBody, "bearer-token")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("confirmed", response.Status)
	})

	s.Run("error: 400 Bad Request for a status outside the lifecycle", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("status", "teleported"))

		rec := httptest.PerformRequest(s.T(), s.adminRouter, http.MethodPatch, url, requestMap, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "order not found",
				commandsError:  commands.ErrOrderNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Order not found",
			},
			{
				name:           "invalid transition",
				commandsError:  commands.ErrInvalidOrderTransition,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Invalid status transition",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().UpdateStatus(gomock.Any(), orderID, "confirmed").
					Return(tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.adminRouter, http.MethodPatch, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
