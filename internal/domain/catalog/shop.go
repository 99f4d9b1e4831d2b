package catalog

import (
	"strings"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
)

// Shop is a partner storefront owned by a shop-type user.
// A user may own several shops; shop names are unique across the marketplace.
type Shop struct {
	shared.BaseEntity
	Name   string
	URL    string
	UserID int64
}

// NewShop creates a shop for the owning user
func NewShop(name string, userID int64) (*Shop, error) {
	name = strings.TrimSpace(name)
	if err := validateShopName(name); err != nil {
		return nil, err
	}
	if userID == 0 {
		return nil, shared.NewDomainError("INVALID_OWNER", "Shop owner cannot be empty")
	}
	return &Shop{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		UserID:     userID,
	}, nil
}

// SetURL records where the shop's last catalog feed came from
func (s *Shop) SetURL(url string) {
	s.URL = url
	s.Touch()
}

// OwnedBy reports whether the shop belongs to the user
func (s *Shop) OwnedBy(userID int64) bool {
	return s.UserID == userID
}

func validateShopName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_SHOP_NAME", "Shop name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_SHOP_NAME", "Shop name cannot exceed 100 characters")
	}
	return nil
}
