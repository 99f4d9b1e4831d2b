package identity

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
)

// EmailConfirmTokenTTL is how long a confirmation link stays valid
const EmailConfirmTokenTTL = 24 * time.Hour

// tokenBytes is the amount of randomness behind a confirmation token
const tokenBytes = 32

// EmailConfirmToken is a single-use token that activates a freshly registered user
type EmailConfirmToken struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewEmailConfirmToken issues a url-safe random token for the user
func NewEmailConfirmToken(userID int64, ttl time.Duration) (*EmailConfirmToken, error) {
	if userID == 0 {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if ttl <= 0 {
		ttl = EmailConfirmTokenTTL
	}

	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate confirmation token")
	}

	now := time.Now()
	return &EmailConfirmToken{
		UserID:    userID,
		Token:     base64.RawURLEncoding.EncodeToString(buf),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// IsExpired reports whether the token can no longer be used
func (t *EmailConfirmToken) IsExpired() bool {
	return !time.Now().Before(t.ExpiresAt)
}
