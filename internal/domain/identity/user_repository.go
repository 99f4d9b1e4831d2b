package identity

import (
	"context"
	"time"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user and assigns its ID
	Create(ctx context.Context, user *User) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// EmailConfirmTokenRepository stores pending email confirmations
type EmailConfirmTokenRepository interface {
	Create(ctx context.Context, token *EmailConfirmToken) error
	FindByToken(ctx context.Context, token string) (*EmailConfirmToken, error)
	Delete(ctx context.Context, id int64) error

	// DeleteExpired removes tokens that expired before the given time and returns how many were removed
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// ContactRepository defines the interface for contact persistence
type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error
	Update(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Contact, error)

	// FindByIDForUser returns shared.ErrNotFound when the contact does not belong to the user
	FindByIDForUser(ctx context.Context, userID, id int64) (*Contact, error)
	FindByUser(ctx context.Context, userID int64) ([]Contact, error)
}
