//go:build unit

package user_test

import (
	"testing"

	"artisan-store/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	cases := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "simple address", input: "maker@example.com", valid: true},
		{name: "subdomain and plus tag", input: "maker+shop@mail.example.co", valid: true},
		{name: "surrounding whitespace trimmed", input: "  maker@example.com  ", valid: true},
		{name: "missing at sign", input: "makerexample.com", valid: false},
		{name: "missing domain", input: "maker@", valid: false},
		{name: "empty", input: "", valid: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			email, err := user.NewEmail(tc.input)
			if tc.valid {
				require.NoError(t, err)
				assert.NotEmpty(t, email.Value())
			} else {
				require.ErrorIs(t, err, user.ErrInvalidEmail)
			}
		})
	}
}

func TestNewPassword(t *testing.T) {
	t.Run("accepts 8 characters", func(t *testing.T) {
		_, err := user.NewPassword("12345678")
		require.NoError(t, err)
	})

	t.Run("rejects 7 characters", func(t *testing.T) {
		_, err := user.NewPassword("1234567")
		require.ErrorIs(t, err, user.ErrPasswordTooWeak)
	})
}

func TestNewRole(t *testing.T) {
	t.Run("known roles", func(t *testing.T) {
		for _, raw := range []string{"customer", "admin"} {
			role, err := user.NewRole(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, role.String())
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := user.NewRole("superuser")
		require.ErrorIs(t, err, user.ErrInvalidRole)
	})
}

func TestNewUser(t *testing.T) {
	email, err := user.NewEmail("maker@example.com")
	require.NoError(t, err)

	actual := user.NewUser(email, "hashed", user.RoleCustomer)

	assert.NotEqual(t, uuid.Nil, actual.ID())
	assert.Equal(t, "maker@example.com", actual.Email().Value())
	assert.Equal(t, user.RoleCustomer, actual.Role())
	assert.True(t, actual.IsActive())
	assert.Nil(t, actual.LastLogin())
}
