package trade

import (
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// AddCartItemRequest represents a request to put a listing into the cart
type AddCartItemRequest struct {
	ProductInfoID int64 `json:"product_info_id" binding:"required,min=1"`
	Quantity      int   `json:"quantity" binding:"required,min=1,max=10000"`
}

// ContactRequest carries the contact an order is delivered to
type ContactRequest struct {
	ContactID int64 `json:"contact_id" binding:"required,min=1"`
}

// ChangeOrderStatusRequest represents an administrative status change
type ChangeOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed shipped delivered cancelled"`
}

// CartItemResponse represents a cart line in API responses
type CartItemResponse struct {
	ID            int64           `json:"id"`
	ProductInfoID int64           `json:"product_info_id"`
	ProductName   string          `json:"product_name"`
	ShopID        int64           `json:"shop_id"`
	Shop          string          `json:"shop"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// CartResponse represents the cart in API responses
type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

// ToCartResponse builds the cart view from its joined lines
func ToCartResponse(lines []trade.CartLine) *CartResponse {
	resp := &CartResponse{Items: make([]CartItemResponse, 0, len(lines)), Total: decimal.Zero}
	for _, l := range lines {
		subtotal := l.Subtotal()
		resp.Items = append(resp.Items, CartItemResponse{
			ID:            l.ItemID,
			ProductInfoID: l.ProductInfoID,
			ProductName:   l.ProductName,
			ShopID:        l.ShopID,
			Shop:          l.ShopName,
			Quantity:      l.Quantity,
			Price:         l.Price,
			Subtotal:      subtotal,
		})
		resp.Total = resp.Total.Add(subtotal)
	}
	return resp
}

// OrderItemResponse represents an order item snapshot in API responses
type OrderItemResponse struct {
	ID            int64           `json:"id"`
	ProductInfoID int64           `json:"product_info_id"`
	ProductName   string          `json:"product_name"`
	ShopID        int64           `json:"shop_id"`
	Shop          string          `json:"shop"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"user_id"`
	ContactID *int64              `json:"contact_id"`
	Status    string              `json:"status"`
	Items     []OrderItemResponse `json:"items"`
	Total     decimal.Decimal     `json:"total"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, i := range o.Items {
		items = append(items, OrderItemResponse{
			ID:            i.ID,
			ProductInfoID: i.ProductInfoID,
			ProductName:   i.ProductName,
			ShopID:        i.ShopID,
			Shop:          i.ShopName,
			Quantity:      i.Quantity,
			Price:         i.Price,
			Subtotal:      i.Subtotal(),
		})
	}
	return &OrderResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		ContactID: o.ContactID,
		Status:    o.Status.String(),
		Items:     items,
		Total:     o.Total(),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, *ToOrderResponse(&orders[i]))
	}
	return out
}
