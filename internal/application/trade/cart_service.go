package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/d8nd8/python-final-diplom/internal/domain/catalog"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/d8nd8/python-final-diplom/internal/domain/trade"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/telemetry"
)

// CartService manages a buyer's cart
type CartService struct {
	carts    trade.CartRepository
	listings catalog.ProductInfoRepository
}

// NewCartService creates a new CartService
func NewCartService(carts trade.CartRepository, listings catalog.ProductInfoRepository) *CartService {
	return &CartService{carts: carts, listings: listings}
}

// List returns the user's cart lines and total; a user without a cart gets an empty one
func (s *CartService) List(ctx context.Context, userID int64) (*CartResponse, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return ToCartResponse(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	lines, err := s.carts.Lines(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}
	return ToCartResponse(lines), nil
}

// AddItem puts a listing into the cart. A listing already in the cart has its quantity increased.
func (s *CartService) AddItem(ctx context.Context, userID int64, req AddCartItemRequest) (*CartResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "add_item",
		telemetry.AttrUserID.Int64(userID),
	)
	defer span.End()

	if _, err := s.listings.FindByID(ctx, req.ProductInfoID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			err = shared.NewNotFoundError("PRODUCT_NOT_FOUND", "Product")
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	cart, err := s.cartFor(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if _, err := cart.Add(req.ProductInfoID, req.Quantity); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	// persist the delta; the repository adds it to the stored quantity
	item := &trade.CartItem{CartID: cart.ID, ProductInfoID: req.ProductInfoID, Quantity: req.Quantity}
	if err := s.carts.AddItem(ctx, item); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save cart item: %w", err)
	}

	return s.List(ctx, userID)
}

// RemoveItem deletes one item from the user's cart
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) (*CartResponse, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewNotFoundError("CART_ITEM_NOT_FOUND", "Cart item")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if err := cart.Remove(itemID); err != nil {
		return nil, err
	}
	if err := s.carts.DeleteItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}
	return s.List(ctx, userID)
}

// cartFor loads the user's cart, creating it on first use
func (s *CartService) cartFor(ctx context.Context, userID int64) (*trade.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart, err = trade.NewCart(userID)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Create(ctx, cart); err != nil {
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		// another request created it first
		return s.carts.FindByUser(ctx, userID)
	}
	return cart, nil
}
