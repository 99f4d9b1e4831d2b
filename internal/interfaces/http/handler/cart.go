package handler

import (
	"github.com/d8nd8/python-final-diplom/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// CartHandler handles the basket of the current user
type CartHandler struct {
	BaseHandler
	cartService  *trade.CartService
	orderService *trade.OrderService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *trade.CartService, orderService *trade.OrderService) *CartHandler {
	return &CartHandler{
		cartService:  cartService,
		orderService: orderService,
	}
}

// Get godoc
// @ID           getCart
// @Summary      Get cart
// @Description  List cart items with prices and the cart total
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[trade.CartResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, _ := currentUser(c)
	cart, err := h.cartService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddItem godoc
// @ID           addCartItem
// @Summary      Add to cart
// @Description  Put a listing into the cart; adding it again increases the quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body trade.AddCartItemRequest true "Listing and quantity"
// @Success      200 {object} APIResponse[trade.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req trade.AddCartItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	userID, _ := currentUser(c)
	cart, err := h.cartService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveItem godoc
// @ID           removeCartItem
// @Summary      Remove from cart
// @Tags         cart
// @Produce      json
// @Param        id path int true "Cart item ID"
// @Success      200 {object} APIResponse[trade.CartResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	userID, _ := currentUser(c)
	cart, err := h.cartService.RemoveItem(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Confirm godoc
// @ID           confirmCart
// @Summary      Checkout
// @Description  Turn the cart into a pending order for the given contact and empty the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body trade.ContactRequest true "Delivery contact"
// @Success      201 {object} APIResponse[trade.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/confirm [post]
func (h *CartHandler) Confirm(c *gin.Context) {
	var req trade.ContactRequest
	if !h.BindJSON(c, &req) {
		return
	}

	userID, _ := currentUser(c)
	order, err := h.orderService.Checkout(c.Request.Context(), userID, req.ContactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}
