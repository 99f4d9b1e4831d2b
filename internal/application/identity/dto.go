package identity

import (
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/auth"
)

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email,max=254"`
	Password        string `json:"password" binding:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	FirstName       string `json:"first_name" binding:"max=150"`
	LastName        string `json:"last_name" binding:"max=150"`
	Company         string `json:"company" binding:"max=100"`
	Position        string `json:"position" binding:"max=100"`
	Type            string `json:"type" binding:"omitempty,oneof=buyer shop"`
}

// RegisterResult is returned after a successful registration.
// ConfirmToken is only filled in when the deployment exposes it.
type RegisterResult struct {
	User         UserResponse `json:"user"`
	ConfirmToken string       `json:"confirm_token,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken           string        `json:"access_token"`
	RefreshToken          string        `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time     `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time     `json:"refresh_token_expires_at"`
	TokenType             string        `json:"token_type"`
	User                  *UserResponse `json:"user,omitempty"`
}

func toTokenResponse(pair *auth.TokenPair, user *identity.User) *TokenResponse {
	resp := &TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
	if user != nil {
		u := ToUserResponse(user)
		resp.User = &u
	}
	return resp
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        int64             `json:"id"`
	Email     string            `json:"email"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Company   string            `json:"company"`
	Position  string            `json:"position"`
	Type      string            `json:"type"`
	IsActive  bool              `json:"is_active"`
	Avatar    map[string]string `json:"avatar,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Company:   u.Company,
		Position:  u.Position,
		Type:      u.Type.String(),
		IsActive:  u.IsActive,
		Avatar:    u.AvatarVariants,
		CreatedAt: u.CreatedAt,
	}
}

// ContactRequest represents a create or update request for a contact
type ContactRequest struct {
	City      string `json:"city" binding:"required,max=100"`
	Street    string `json:"street" binding:"required,max=255"`
	House     string `json:"house" binding:"max=15"`
	Building  string `json:"building" binding:"max=15"`
	Structure string `json:"structure" binding:"max=15"`
	Apartment string `json:"apartment" binding:"max=15"`
	Phone     string `json:"phone" binding:"required,max=20"`
}

func (r ContactRequest) toInput() identity.ContactInput {
	return identity.ContactInput{
		City:      r.City,
		Street:    r.Street,
		House:     r.House,
		Building:  r.Building,
		Structure: r.Structure,
		Apartment: r.Apartment,
		Phone:     r.Phone,
	}
}

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID        int64  `json:"id"`
	City      string `json:"city"`
	Street    string `json:"street"`
	House     string `json:"house"`
	Building  string `json:"building"`
	Structure string `json:"structure"`
	Apartment string `json:"apartment"`
	Phone     string `json:"phone"`
}

// ToContactResponse converts a domain Contact to ContactResponse
func ToContactResponse(c *identity.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		City:      c.City,
		Street:    c.Street,
		House:     c.House,
		Building:  c.Building,
		Structure: c.Structure,
		Apartment: c.Apartment,
		Phone:     c.Phone,
	}
}

// AvatarTaskResponse is the pollable state of an avatar upload
type AvatarTaskResponse struct {
	TaskID   string            `json:"task_id"`
	Status   string            `json:"status"`
	Message  string            `json:"message"`
	Progress int               `json:"progress"`
	Variants map[string]string `json:"variants,omitempty"`
}
