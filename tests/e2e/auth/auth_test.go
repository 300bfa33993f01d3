//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"artisan-store/internal/domain/user"
	"artisan-store/internal/handler/dto/request"
	"artisan-store/tests/common/helper"
	"artisan-store/tests/e2e"
	jwtHelper "artisan-store/tests/e2e/common/helper"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	loginURL    = "/api/auth/login"
	logoutURL   = "/api/auth/logout"
	meURL       = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
	jwtHelper *jwtHelper.JWTTestHelper
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwtHelper = jwtHelper.NewJWTTestHelper(s.DB, s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	s.jwtHelper.CreateTestUserWithDB(s.T(), s.DB, "customer@example.com", string(user.RoleCustomer))
	s.jwtHelper.CreateTestUserWithDB(s.T(), s.DB, "admin@example.com", string(user.RoleAdmin))
	s.jwtHelper.CreateTestUserWithDB(s.T(), s.DB, "inactive@example.com", string(user.RoleCustomer))

	ctx := s.T().Context()
	_, err := s.DB.Exec(ctx, "UPDATE users SET is_active = false WHERE email = 'inactive@example.com'")
	require.NoError(s.T(), err)
}

func (s *authSuite) TestRegister() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
		description    string
	}{
		{
			name:           "new account",
			email:          "fresh@example.com",
			password:       "password123",
			expectedStatus: http.StatusCreated,
			description:    "a new email registers and signs in",
		},
		{
			name:           "duplicate email",
			email:          "customer@example.com",
			password:       "password123",
			expectedStatus: http.StatusConflict,
			description:    "an email already in use is rejected",
		},
		{
			name:           "short password",
			email:          "short@example.com",
			password:       "short",
			expectedStatus: http.StatusBadRequest,
			description:    "passwords under the minimum length are rejected",
		},
		{
			name:           "malformed email",
			email:          "not-an-email",
			password:       "password123",
			expectedStatus: http.StatusBadRequest,
			description:    "malformed emails are rejected",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			reqBody := request.RegisterRequest{
				Email:    tt.email,
				Password: tt.password,
			}

			w := helper.PerformRequest(t, s.Router, http.MethodPost, registerURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code, tt.description)

			if tt.expectedStatus == http.StatusCreated {
				body := w.Body.String()
				require.Contains(t, body, "access_token", "response lacks an access token")
				require.NotContains(t, body, "password", "response leaks password data")
			}
		})
	}
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
		description    string
	}{
		{
			name:           "valid credentials",
			email:          "customer@example.com",
			password:       "password123",
			expectedStatus: http.StatusOK,
			description:    "a valid customer can sign in",
		},
		{
			name:           "unknown user",
			email:          "nonexistent@example.com",
			password:       "password123",
			expectedStatus: http.StatusUnauthorized,
			description:    "an unknown email is rejected",
		},
		{
			name:           "wrong password",
			email:          "customer@example.com",
			password:       "wrongpassword",
			expectedStatus: http.StatusUnauthorized,
			description:    "a wrong password is rejected",
		},
		{
			name:           "inactive account",
			email:          "inactive@example.com",
			password:       "password123",
			expectedStatus: http.StatusForbidden,
			description:    "a deactivated account cannot sign in",
		},
		{
			name:           "empty email",
			email:          "",
			password:       "password123",
			expectedStatus: http.StatusBadRequest,
			description:    "an empty email is rejected",
		},
		{
			name:           "empty password",
			email:          "customer@example.com",
			password:       "",
			expectedStatus: http.StatusBadRequest,
			description:    "an empty password is rejected",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			reqBody := request.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			}

			w := helper.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code, tt.description)

			if tt.expectedStatus == http.StatusOK {
				body := w.Body.String()
				require.Contains(t, body, "access_token", "response lacks an access token")

				// last login is recorded on success
				var lastLogin any
				err := s.DB.QueryRow(s.T().Context(), "SELECT last_login_at FROM users WHERE email = $1", tt.email).Scan(&lastLogin)
				require.NoError(t, err)
				require.NotNil(t, lastLogin, "last_login_at was not updated")
			}
		})
	}
}

func (s *authSuite) TestLogout() {
	tests := []struct {
		name           string
		setupToken     func() string
		expectedStatus int
		description    string
	}{
		{
			name: "signed-in user",
			setupToken: func() string {
				return s.jwtHelper.LoginUser(s.T(), s.Router, "customer@example.com", "password123")
			},
			expectedStatus: http.StatusNoContent,
			description:    "a valid token can log out",
		},
		{
			name: "invalid token",
			setupToken: func() string {
				return "invalid-token"
			},
			expectedStatus: http.StatusUnauthorized,
			description:    "an invalid token cannot log out",
		},
		{
			name: "no token",
			setupToken: func() string {
				return ""
			},
			expectedStatus: http.StatusUnauthorized,
			description:    "a missing token cannot log out",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			token := tt.setupToken()
			w := helper.PerformRequest(t, s.Router, http.MethodPost, logoutURL, nil, token)
			require.Equal(t, tt.expectedStatus, w.Code, tt.description)
		})
	}
}

func (s *authSuite) TestMe() {
	tests := []struct {
		name           string
		setupUser      func() (string, string, string) // email, role, token
		expectedStatus int
		description    string
	}{
		{
			name: "customer profile",
			setupUser: func() (string, string, string) {
				email := "shopper@example.com"
				role := string(user.RoleCustomer)
				token := s.jwtHelper.CreateAndLoginWithDB(s.T(), s.DB, s.Router, email, role)
				return email, role, token
			},
			expectedStatus: http.StatusOK,
			description:    "a customer sees their own profile",
		},
		{
			name: "admin profile",
			setupUser: func() (string, string, string) {
				email := "staff@example.com"
				role := string(user.RoleAdmin)
				token := s.jwtHelper.CreateAndLoginWithDB(s.T(), s.DB, s.Router, email, role)
				return email, role, token
			},
			expectedStatus: http.StatusOK,
			description:    "an admin sees their own profile",
		},
		{
			name: "invalid token",
			setupUser: func() (string, string, string) {
				return "", "", "invalid-token"
			},
			expectedStatus: http.StatusUnauthorized,
			description:    "an invalid token is rejected",
		},
		{
			name: "no token",
			setupUser: func() (string, string, string) {
				return "", "", ""
			},
			expectedStatus: http.StatusUnauthorized,
			description:    "a missing token is rejected",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			email, role, token := tt.setupUser()
			w := helper.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
			require.Equal(t, tt.expectedStatus, w.Code, tt.description)

			if tt.expectedStatus == http.StatusOK {
				responseBody := w.Body.String()
				require.Contains(t, responseBody, email, "response lacks the email")
				require.Contains(t, responseBody, role, "response lacks the role")
				require.NotContains(t, responseBody, "password", "response leaks password data")
			}
		})
	}
}

func (s *authSuite) TestTokenExpiry() {
	s.Run("expired token is rejected", func() {
		t := s.T()

		userID := s.jwtHelper.CreateTestUser(t, "expiry@example.com", string(user.RoleCustomer))
		expiredToken := s.jwtHelper.CreateExpiredToken(t, userID, user.RoleCustomer)

		w := helper.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, expiredToken)
		require.Equal(t, http.StatusUnauthorized, w.Code, "expired token should be rejected")
	})
}

func (s *authSuite) TestAuthenticationRequired() {
	s.Run("protected endpoints reject anonymous requests", func() {
		t := s.T()

		endpoints := []struct {
			method string
			path   string
		}{
			{http.MethodPost, logoutURL},
			{http.MethodGet, meURL},
			{http.MethodGet, "/api/cart"},
			{http.MethodGet, "/api/orders"},
			{http.MethodPost, "/api/coupons/validate"},
		}

		for _, endpoint := range endpoints {
			w := helper.PerformRequest(t, s.Router, endpoint.method, endpoint.path, nil, "")
			require.Equal(t, http.StatusUnauthorized, w.Code, "anonymous request should be rejected")
		}
	})
}

func (s *authSuite) TestAdminOnly() {
	s.Run("customer cannot reach admin endpoints", func() {
		t := s.T()

		token := s.jwtHelper.CreateAndLoginWithDB(s.T(), s.DB, s.Router, "plain@example.com", string(user.RoleCustomer))

		w := helper.PerformRequest(t, s.Router, http.MethodGet, "/api/admin/coupons", nil, token)
		require.Equal(t, http.StatusForbidden, w.Code, "customer should not reach admin routes")
	})
}
