package identity

import (
	"strings"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
)

// Contact is a delivery address and phone that a buyer attaches to orders
type Contact struct {
	shared.BaseEntity
	UserID    int64
	City      string
	Street    string
	House     string
	Building  string
	Structure string
	Apartment string
	Phone     string
}

// ContactInput carries the editable contact fields
type ContactInput struct {
	City      string
	Street    string
	House     string
	Building  string
	Structure string
	Apartment string
	Phone     string
}

// NewContact creates a contact owned by the user
func NewContact(userID int64, in ContactInput) (*Contact, error) {
	if userID == 0 {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	c := &Contact{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
	}
	if err := c.Update(in); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the address fields
func (c *Contact) Update(in ContactInput) error {
	in = trimContactInput(in)
	if in.City == "" || in.Street == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "City and street are required")
	}
	if in.Phone == "" {
		return shared.NewDomainError("INVALID_PHONE", "Phone is required")
	}
	if len(in.City) > 100 || len(in.Street) > 255 || len(in.Phone) > 20 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address field is too long")
	}
	for _, v := range []string{in.House, in.Building, in.Structure, in.Apartment} {
		if len(v) > 15 {
			return shared.NewDomainError("INVALID_ADDRESS", "House, building, structure and apartment cannot exceed 15 characters")
		}
	}

	c.City = in.City
	c.Street = in.Street
	c.House = in.House
	c.Building = in.Building
	c.Structure = in.Structure
	c.Apartment = in.Apartment
	c.Phone = in.Phone
	c.UpdatedAt = time.Now()
	return nil
}

// BelongsTo reports whether the contact is owned by the user
func (c *Contact) BelongsTo(userID int64) bool {
	return c.UserID == userID
}

func trimContactInput(in ContactInput) ContactInput {
	return ContactInput{
		City:      strings.TrimSpace(in.City),
		Street:    strings.TrimSpace(in.Street),
		House:     strings.TrimSpace(in.House),
		Building:  strings.TrimSpace(in.Building),
		Structure: strings.TrimSpace(in.Structure),
		Apartment: strings.TrimSpace(in.Apartment),
		Phone:     strings.TrimSpace(in.Phone),
	}
}
