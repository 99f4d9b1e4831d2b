package trade

import (
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Cart holds a user's pending purchases; there is one cart per user
type Cart struct {
	shared.BaseEntity
	UserID int64
	Items  []CartItem
}

// CartItem is a quantity of one listing in a cart
type CartItem struct {
	ID            int64
	CartID        int64
	ProductInfoID int64
	Quantity      int
}

// CartLine is a cart item joined with the listing data needed for display and checkout
type CartLine struct {
	ItemID        int64
	ProductInfoID int64
	ShopID        int64
	ProductName   string
	ShopName      string
	Quantity      int
	Price         decimal.Decimal
}

// Subtotal returns Quantity * Price
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// NewCart creates an empty cart for the user
func NewCart(userID int64) (*Cart, error) {
	if userID == 0 {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return &Cart{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Items:      make([]CartItem, 0),
	}, nil
}

// Add puts qty units of a listing into the cart.
// Adding a listing that is already present increases its quantity instead of adding a row.
func (c *Cart) Add(productInfoID int64, qty int) (*CartItem, error) {
	if productInfoID == 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product cannot be empty")
	}
	if qty <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for i := range c.Items {
		if c.Items[i].ProductInfoID == productInfoID {
			c.Items[i].Quantity += qty
			c.Touch()
			return &c.Items[i], nil
		}
	}

	c.Items = append(c.Items, CartItem{
		CartID:        c.ID,
		ProductInfoID: productInfoID,
		Quantity:      qty,
	})
	c.Touch()
	return &c.Items[len(c.Items)-1], nil
}

// Remove drops an item by its ID
func (c *Cart) Remove(itemID int64) error {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.Touch()
			return nil
		}
	}
	return shared.NewNotFoundError("CART_ITEM_NOT_FOUND", "Cart item")
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = c.Items[:0]
	c.Touch()
}
