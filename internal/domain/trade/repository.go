package trade

import "context"

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByUser returns the user's cart with its items, or shared.ErrNotFound
	FindByUser(ctx context.Context, userID int64) (*Cart, error)
	Create(ctx context.Context, cart *Cart) error

	// AddItem inserts the item, or adds item.Quantity to the stored quantity when
	// the listing is already in the cart. The increment happens in the database.
	AddItem(ctx context.Context, item *CartItem) error
	DeleteItem(ctx context.Context, cartID, itemID int64) error
	Clear(ctx context.Context, cartID int64) error

	// Lines returns the cart items joined with listing, product and shop data
	Lines(ctx context.Context, cartID int64) ([]CartLine, error)
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create inserts the order and its items
	Create(ctx context.Context, order *Order) error

	// UpdateStatus persists status and contact only while the stored status is still from.
	// It returns shared.ErrConflict when another writer changed the status first.
	// Items are never rewritten.
	UpdateStatus(ctx context.Context, order *Order, from OrderStatus) error
	FindByID(ctx context.Context, id int64) (*Order, error)
	FindByIDForUser(ctx context.Context, userID, id int64) (*Order, error)
	FindByUser(ctx context.Context, userID int64) ([]Order, error)
}
