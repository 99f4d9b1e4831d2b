package handler

import (
	"strconv"

	"github.com/d8nd8/python-final-diplom/internal/application/admin"
	"github.com/d8nd8/python-final-diplom/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// reserved admin list query keys; every other key is a column filter
var adminListParams = map[string]bool{
	"search":    true,
	"ordering":  true,
	"page":      true,
	"page_size": true,
}

// AdminHandler serves the read-only admin console and administrative order changes
type AdminHandler struct {
	BaseHandler
	adminService *admin.Service
	orderService *trade.OrderService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *admin.Service, orderService *trade.OrderService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		orderService: orderService,
	}
}

// Models godoc
// @ID           listAdminModels
// @Summary      List admin models
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[[]admin.ModelAdmin]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/models [get]
func (h *AdminHandler) Models(c *gin.Context) {
	h.Success(c, h.adminService.Models())
}

// ListRows godoc
// @ID           listAdminRows
// @Summary      List model rows
// @Description  List rows of a registered model; any query key besides the listed ones filters a column
// @Tags         admin
// @Produce      json
// @Param        model     path  string true  "Model name"
// @Param        search    query string false "Search over the model's search fields"
// @Param        ordering  query string false "Displayed column, '-' prefix for descending"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]map[string]interface{}]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/models/{model} [get]
func (h *AdminHandler) ListRows(c *gin.Context) {
	params := admin.ListParams{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Filters:  make(map[string]string),
	}
	var ok bool
	if params.Page, ok = h.queryInt(c, "page"); !ok {
		return
	}
	if params.PageSize, ok = h.queryInt(c, "page_size"); !ok {
		return
	}
	for key, values := range c.Request.URL.Query() {
		if adminListParams[key] || len(values) == 0 {
			continue
		}
		params.Filters[key] = values[0]
	}

	rows, err := h.adminService.List(c.Request.Context(), c.Param("model"), params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, rows.Items, rows.Total, rows.Page, rows.PageSize)
}

// ChangeOrderStatus godoc
// @ID           changeOrderStatusAdmin
// @Summary      Change order status
// @Description  Move an order along its lifecycle
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id      path int                            true "Order ID"
// @Param        request body trade.ChangeOrderStatusRequest true "Target status"
// @Success      200 {object} APIResponse[trade.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [post]
func (h *AdminHandler) ChangeOrderStatus(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req trade.ChangeOrderStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

func (h *AdminHandler) queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		h.BadRequest(c, key+" must be a positive integer")
		return 0, false
	}
	return v, true
}
