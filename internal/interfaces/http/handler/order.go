package handler

import (
	"github.com/d8nd8/python-final-diplom/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// OrderHandler serves the orders of the current user
type OrderHandler struct {
	BaseHandler
	orderService *trade.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *trade.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Description  List the orders of the authenticated user, newest first
// @Tags         orders
// @Produce      json
// @Success      200 {object} APIResponse[[]trade.OrderResponse]
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	userID, _ := currentUser(c)
	orders, err := h.orderService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Get godoc
// @ID           getOrder
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        id path int true "Order ID"
// @Success      200 {object} APIResponse[trade.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	userID, _ := currentUser(c)
	order, err := h.orderService.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Confirm godoc
// @ID           confirmOrder
// @Summary      Confirm order
// @Description  Attach a delivery contact and confirm the order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path int                  true "Order ID"
// @Param        request body trade.ContactRequest true "Delivery contact"
// @Success      200 {object} APIResponse[trade.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req trade.ContactRequest
	if !h.BindJSON(c, &req) {
		return
	}

	userID, _ := currentUser(c)
	order, err := h.orderService.Confirm(c.Request.Context(), userID, id, req.ContactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
