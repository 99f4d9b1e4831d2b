package models

import (
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// CartModel is the persistence model for the Cart aggregate root.
type CartModel struct {
	BaseModel
	UserID int64           `gorm:"not null;uniqueIndex"`
	Items  []CartItemModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// ToDomain converts the persistence model to a domain Cart
func (m *CartModel) ToDomain() *trade.Cart {
	cart := &trade.Cart{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Items:      make([]trade.CartItem, 0, len(m.Items)),
	}
	for _, item := range m.Items {
		cart.Items = append(cart.Items, item.ToDomain())
	}
	return cart
}

// CartModelFromDomain creates a persistence model from a domain Cart without its items
func CartModelFromDomain(c *trade.Cart) *CartModel {
	m := &CartModel{UserID: c.UserID}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// CartItemModel is the persistence model for a cart line.
type CartItemModel struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	CartID        int64     `gorm:"not null;uniqueIndex:idx_cart_items_cart_listing"`
	ProductInfoID int64     `gorm:"not null;uniqueIndex:idx_cart_items_cart_listing;index"`
	Quantity      int       `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain CartItem
func (m *CartItemModel) ToDomain() trade.CartItem {
	return trade.CartItem{
		ID:            m.ID,
		CartID:        m.CartID,
		ProductInfoID: m.ProductInfoID,
		Quantity:      m.Quantity,
	}
}

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	BaseModel
	UserID    int64             `gorm:"not null;index"`
	ContactID *int64            `gorm:"index"`
	Status    trade.OrderStatus `gorm:"type:varchar(15);not null;default:'pending';index"`
	Items     []OrderItemModel  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		ContactID:  m.ContactID,
		Status:     m.Status,
		Items:      make([]trade.OrderItem, 0, len(m.Items)),
	}
	for _, item := range m.Items {
		order.Items = append(order.Items, item.ToDomain())
	}
	return order
}

// OrderModelFromDomain creates a persistence model from a domain Order including its items
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{
		UserID:    o.UserID,
		ContactID: o.ContactID,
		Status:    o.Status,
		Items:     make([]OrderItemModel, 0, len(o.Items)),
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	for _, item := range o.Items {
		m.Items = append(m.Items, OrderItemModel{
			ID:            item.ID,
			OrderID:       item.OrderID,
			ProductInfoID: item.ProductInfoID,
			ShopID:        item.ShopID,
			ProductName:   item.ProductName,
			ShopName:      item.ShopName,
			Quantity:      item.Quantity,
			Price:         item.Price,
			CreatedAt:     item.CreatedAt,
		})
	}
	return m
}

// OrderItemModel is the persistence model for an order line snapshot.
// ProductInfoID is kept without a foreign key so the snapshot survives catalog re-imports.
type OrderItemModel struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	OrderID       int64           `gorm:"not null;uniqueIndex:idx_order_items_order_listing"`
	ProductInfoID int64           `gorm:"not null;uniqueIndex:idx_order_items_order_listing"`
	ShopID        int64           `gorm:"not null;index"`
	ProductName   string          `gorm:"type:varchar(200);not null"`
	ShopName      string          `gorm:"type:varchar(100);not null"`
	Quantity      int             `gorm:"not null"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:            m.ID,
		OrderID:       m.OrderID,
		ProductInfoID: m.ProductInfoID,
		ShopID:        m.ShopID,
		ProductName:   m.ProductName,
		ShopName:      m.ShopName,
		Quantity:      m.Quantity,
		Price:         m.Price,
		CreatedAt:     m.CreatedAt,
	}
}
