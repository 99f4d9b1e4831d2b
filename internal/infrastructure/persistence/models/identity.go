package models

import (
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"gorm.io/datatypes"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Email          string            `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash   string            `gorm:"type:varchar(255);not null"`
	FirstName      string            `gorm:"type:varchar(150)"`
	LastName       string            `gorm:"type:varchar(150)"`
	Company        string            `gorm:"type:varchar(100)"`
	Position       string            `gorm:"type:varchar(100)"`
	Type           identity.UserType `gorm:"type:varchar(10);not null;default:'buyer';index"`
	IsActive       bool              `gorm:"not null;default:false"`
	AvatarVariants datatypes.JSONMap
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	var variants map[string]string
	if len(m.AvatarVariants) > 0 {
		variants = make(map[string]string, len(m.AvatarVariants))
		for k, v := range m.AvatarVariants {
			if s, ok := v.(string); ok {
				variants[k] = s
			}
		}
	}
	return &identity.User{
		BaseEntity:     m.BaseModel.ToDomain(),
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Company:        m.Company,
		Position:       m.Position,
		Type:           m.Type,
		IsActive:       m.IsActive,
		AvatarVariants: variants,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.Company = u.Company
	m.Position = u.Position
	m.Type = u.Type
	m.IsActive = u.IsActive
	m.AvatarVariants = nil
	if len(u.AvatarVariants) > 0 {
		m.AvatarVariants = make(datatypes.JSONMap, len(u.AvatarVariants))
		for k, v := range u.AvatarVariants {
			m.AvatarVariants[k] = v
		}
	}
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// EmailConfirmTokenModel is the persistence model for pending email confirmations.
type EmailConfirmTokenModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"not null;index"`
	Token     string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (EmailConfirmTokenModel) TableName() string {
	return "email_confirm_tokens"
}

// ToDomain converts the persistence model to a domain token
func (m *EmailConfirmTokenModel) ToDomain() *identity.EmailConfirmToken {
	return &identity.EmailConfirmToken{
		ID:        m.ID,
		UserID:    m.UserID,
		Token:     m.Token,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
}

// EmailConfirmTokenModelFromDomain creates a persistence model from a domain token
func EmailConfirmTokenModelFromDomain(t *identity.EmailConfirmToken) *EmailConfirmTokenModel {
	return &EmailConfirmTokenModel{
		ID:        t.ID,
		UserID:    t.UserID,
		Token:     t.Token,
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.ExpiresAt,
	}
}

// ContactModel is the persistence model for the Contact domain entity.
type ContactModel struct {
	BaseModel
	UserID    int64  `gorm:"not null;index"`
	City      string `gorm:"type:varchar(100);not null"`
	Street    string `gorm:"type:varchar(255);not null"`
	House     string `gorm:"type:varchar(15)"`
	Building  string `gorm:"type:varchar(15)"`
	Structure string `gorm:"type:varchar(15)"`
	Apartment string `gorm:"type:varchar(15)"`
	Phone     string `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact entity.
func (m *ContactModel) ToDomain() *identity.Contact {
	return &identity.Contact{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		City:       m.City,
		Street:     m.Street,
		House:      m.House,
		Building:   m.Building,
		Structure:  m.Structure,
		Apartment:  m.Apartment,
		Phone:      m.Phone,
	}
}

// ContactModelFromDomain creates a new persistence model from a domain Contact entity.
func ContactModelFromDomain(c *identity.Contact) *ContactModel {
	m := &ContactModel{
		UserID:    c.UserID,
		City:      c.City,
		Street:    c.Street,
		House:     c.House,
		Building:  c.Building,
		Structure: c.Structure,
		Apartment: c.Apartment,
		Phone:     c.Phone,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}
