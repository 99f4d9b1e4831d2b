package trade

import (
	"fmt"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// OrderItem is an immutable snapshot of a cart line taken at checkout
type OrderItem struct {
	ID            int64
	OrderID       int64
	ProductInfoID int64
	ShopID        int64
	ProductName   string
	ShopName      string
	Quantity      int
	Price         decimal.Decimal
	CreatedAt     time.Time
}

// Subtotal returns Quantity * Price
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a buyer's order aggregate
type Order struct {
	shared.BaseEntity
	UserID    int64
	ContactID *int64
	Status    OrderStatus
	Items     []OrderItem
}

// NewOrder creates a pending order for the user, delivered to the given contact
func NewOrder(userID, contactID int64) (*Order, error) {
	if userID == 0 {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if contactID == 0 {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Contact ID cannot be empty")
	}
	return &Order{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ContactID:  &contactID,
		Status:     OrderStatusPending,
		Items:      make([]OrderItem, 0),
	}, nil
}

// SnapshotItem copies a cart line into the order.
// Only allowed while pending; each listing appears at most once per order.
func (o *Order) SnapshotItem(line CartLine) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending order")
	}
	if line.ProductInfoID == 0 {
		return shared.NewDomainError("INVALID_PRODUCT", "Product cannot be empty")
	}
	if line.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	for _, item := range o.Items {
		if item.ProductInfoID == line.ProductInfoID {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order")
		}
	}

	o.Items = append(o.Items, OrderItem{
		OrderID:       o.ID,
		ProductInfoID: line.ProductInfoID,
		ShopID:        line.ShopID,
		ProductName:   line.ProductName,
		ShopName:      line.ShopName,
		Quantity:      line.Quantity,
		Price:         line.Price,
		CreatedAt:     time.Now(),
	})
	o.Touch()
	return nil
}

// Total returns the sum of all item subtotals
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// BelongsTo reports whether the order was placed by the user
func (o *Order) BelongsTo(userID int64) bool {
	return o.UserID == userID
}

// Confirm moves a pending order to confirmed and reassigns its contact.
// Confirming an already confirmed order is a conflict and leaves the order untouched.
func (o *Order) Confirm(contactID int64) error {
	if o.Status == OrderStatusConfirmed {
		return shared.NewDomainError("ALREADY_CONFIRMED", "Order is already confirmed")
	}
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if contactID == 0 {
		return shared.NewDomainError("INVALID_CONTACT", "Contact ID cannot be empty")
	}

	o.Status = OrderStatusConfirmed
	o.ContactID = &contactID
	o.Touch()
	return nil
}

// Ship marks a confirmed order as shipped
func (o *Order) Ship() error {
	return o.transition(OrderStatusShipped, "ship")
}

// Deliver marks a shipped order as delivered
func (o *Order) Deliver() error {
	return o.transition(OrderStatusDelivered, "deliver")
}

// Cancel cancels a pending or confirmed order
func (o *Order) Cancel() error {
	return o.transition(OrderStatusCancelled, "cancel")
}

// TransitionTo applies an administrative status change through the state machine
func (o *Order) TransitionTo(target OrderStatus) error {
	switch target {
	case OrderStatusShipped:
		return o.Ship()
	case OrderStatusDelivered:
		return o.Deliver()
	case OrderStatusCancelled:
		return o.Cancel()
	case OrderStatusConfirmed:
		if o.ContactID == nil {
			return shared.NewDomainError("INVALID_CONTACT", "Order has no contact to confirm with")
		}
		return o.Confirm(*o.ContactID)
	}
	return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", target))
}

func (o *Order) transition(target OrderStatus, action string) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot %s order in %s status", action, o.Status))
	}
	o.Status = target
	o.Touch()
	return nil
}
