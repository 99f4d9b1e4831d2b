package identity

import (
	"testing"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserType_IsValid(t *testing.T) {
	tests := []struct {
		userType UserType
		isValid  bool
	}{
		{UserTypeBuyer, true},
		{UserTypeShop, true},
		{UserTypeAdmin, true},
		{UserType("vendor"), false},
		{UserType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.userType), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.userType.IsValid())
		})
	}
}

func TestNewUser(t *testing.T) {
	t.Run("creates inactive user with hashed password", func(t *testing.T) {
		user, err := NewUser("  Buyer@Example.COM ", "secret123", UserTypeBuyer)
		require.NoError(t, err)

		assert.Equal(t, "buyer@example.com", user.Email)
		assert.Equal(t, UserTypeBuyer, user.Type)
		assert.False(t, user.IsActive)
		assert.NotEqual(t, "secret123", user.PasswordHash)
		assert.True(t, user.VerifyPassword("secret123"))
		assert.False(t, user.VerifyPassword("wrong-password"))
		assert.True(t, user.IsNew())
	})

	t.Run("defaults to buyer type", func(t *testing.T) {
		user, err := NewUser("a@example.com", "secret123", "")
		require.NoError(t, err)
		assert.Equal(t, UserTypeBuyer, user.Type)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "secret123", UserTypeBuyer)
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_EMAIL", de.Code)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("a@example.com", "short", UserTypeBuyer)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewUser("a@example.com", "secret123", UserType("vendor"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "User type must be one of")
	})
}

func TestUser_ActivateAndRoles(t *testing.T) {
	user, err := NewUser("shop@example.com", "secret123", UserTypeShop)
	require.NoError(t, err)

	assert.True(t, user.IsShop())
	assert.False(t, user.IsAdmin())

	user.Activate()
	assert.True(t, user.IsActive)

	user.Deactivate()
	assert.False(t, user.IsActive)
}

func TestUser_SetProfile(t *testing.T) {
	user, err := NewUser("a@example.com", "secret123", UserTypeBuyer)
	require.NoError(t, err)

	assert.Equal(t, "a@example.com", user.FullName())

	require.NoError(t, user.SetProfile(" Ivan ", "Petrov", "Acme", "Buyer"))
	assert.Equal(t, "Ivan Petrov", user.FullName())
	assert.Equal(t, "Acme", user.Company)
}

func TestUser_SetAvatarVariants(t *testing.T) {
	user, err := NewUser("a@example.com", "secret123", UserTypeBuyer)
	require.NoError(t, err)

	variants := map[string]string{AvatarSmall: "s.png", AvatarLarge: "l.png"}
	user.SetAvatarVariants(variants)
	variants[AvatarSmall] = "changed.png"

	assert.Equal(t, "s.png", user.AvatarVariants[AvatarSmall])
	assert.Len(t, user.AvatarVariants, 2)
}

func TestEmailConfirmToken(t *testing.T) {
	t.Run("issues unique url-safe tokens", func(t *testing.T) {
		a, err := NewEmailConfirmToken(1, time.Hour)
		require.NoError(t, err)
		b, err := NewEmailConfirmToken(1, time.Hour)
		require.NoError(t, err)

		assert.NotEqual(t, a.Token, b.Token)
		assert.Len(t, a.Token, 43)
		assert.NotContains(t, a.Token, "+")
		assert.NotContains(t, a.Token, "/")
		assert.False(t, a.IsExpired())
	})

	t.Run("expires after ttl", func(t *testing.T) {
		tok, err := NewEmailConfirmToken(1, time.Hour)
		require.NoError(t, err)
		tok.ExpiresAt = time.Now().Add(-time.Second)
		assert.True(t, tok.IsExpired())
	})

	t.Run("requires user", func(t *testing.T) {
		_, err := NewEmailConfirmToken(0, time.Hour)
		require.Error(t, err)
	})
}

func TestContact(t *testing.T) {
	valid := ContactInput{City: "Moscow", Street: "Tverskaya", House: "1", Phone: "+79990000000"}

	t.Run("creates contact", func(t *testing.T) {
		c, err := NewContact(7, valid)
		require.NoError(t, err)
		assert.True(t, c.BelongsTo(7))
		assert.False(t, c.BelongsTo(8))
		assert.Equal(t, "Moscow", c.City)
	})

	t.Run("requires city, street and phone", func(t *testing.T) {
		_, err := NewContact(7, ContactInput{City: "Moscow", Phone: "1"})
		require.Error(t, err)

		_, err = NewContact(7, ContactInput{City: "Moscow", Street: "Tverskaya"})
		require.Error(t, err)
	})

	t.Run("rejects long apartment", func(t *testing.T) {
		in := valid
		in.Apartment = "1234567890123456"
		_, err := NewContact(7, in)
		require.Error(t, err)
	})
}
