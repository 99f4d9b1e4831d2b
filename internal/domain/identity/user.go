package identity

import (
	"regexp"
	"strings"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UserType distinguishes buyers, partner shops and administrators
type UserType string

const (
	UserTypeBuyer UserType = "buyer"
	UserTypeShop  UserType = "shop"
	UserTypeAdmin UserType = "admin"
)

// IsValid checks if the type is a known user type
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeBuyer, UserTypeShop, UserTypeAdmin:
		return true
	}
	return false
}

// String returns the string representation of UserType
func (t UserType) String() string {
	return string(t)
}

// Avatar variant names produced by the avatar worker
const (
	AvatarSmall  = "small"
	AvatarMedium = "medium"
	AvatarLarge  = "large"
)

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var emailFolder = cases.Lower(language.Und)

// User is a marketplace account. New users stay inactive until their email is confirmed.
type User struct {
	shared.BaseEntity
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	Company        string
	Position       string
	Type           UserType
	IsActive       bool
	AvatarVariants map[string]string
}

// NewUser creates an inactive user with a hashed password
func NewUser(email, password string, userType UserType) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if userType == "" {
		userType = UserTypeBuyer
	}
	if !userType.IsValid() {
		return nil, shared.NewDomainError("INVALID_USER_TYPE", "User type must be one of: buyer, shop, admin")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:     shared.NewBaseEntity(),
		Email:          email,
		PasswordHash:   hash,
		Type:           userType,
		IsActive:       false,
		AvatarVariants: make(map[string]string),
	}, nil
}

// SetProfile updates the descriptive profile fields
func (u *User) SetProfile(firstName, lastName, company, position string) error {
	if len(firstName) > 150 || len(lastName) > 150 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 150 characters")
	}
	if len(company) > 100 || len(position) > 100 {
		return shared.NewDomainError("INVALID_COMPANY", "Company and position cannot exceed 100 characters")
	}
	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.Company = strings.TrimSpace(company)
	u.Position = strings.TrimSpace(position)
	u.Touch()
	return nil
}

// VerifyPassword checks the password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// Activate marks the user's email as confirmed
func (u *User) Activate() {
	u.IsActive = true
	u.Touch()
}

// Deactivate blocks the user from logging in
func (u *User) Deactivate() {
	u.IsActive = false
	u.Touch()
}

// IsShop reports whether the user is a partner shop account
func (u *User) IsShop() bool {
	return u.Type == UserTypeShop
}

// IsAdmin reports whether the user can use the admin console
func (u *User) IsAdmin() bool {
	return u.Type == UserTypeAdmin
}

// SetAvatarVariants records the URLs of the resized avatar images
func (u *User) SetAvatarVariants(variants map[string]string) {
	u.AvatarVariants = make(map[string]string, len(variants))
	for k, v := range variants {
		u.AvatarVariants[k] = v
	}
	u.Touch()
}

// FullName returns "First Last", falling back to the email
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return emailFolder.String(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 254 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt only looks at the first 72 bytes
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
