package handler

import (
	"github.com/d8nd8/python-final-diplom/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ProductHandler serves the public listing catalog
type ProductHandler struct {
	BaseHandler
	listingService *catalog.ListingService
}

// NewProductHandler creates a new product handler
func NewProductHandler(listingService *catalog.ListingService) *ProductHandler {
	return &ProductHandler{listingService: listingService}
}

// List godoc
// @ID           listProducts
// @Summary      Search listings
// @Description  Search shop listings by name, category, supplier, price and stock
// @Tags         products
// @Produce      json
// @Param        name         query string false "Listing name contains"
// @Param        category     query string false "Category name"
// @Param        supplier     query string false "Shop name"
// @Param        search       query string false "Free text over name, model and product"
// @Param        price_min    query number false "Minimum price"
// @Param        price_max    query number false "Maximum price"
// @Param        quantity_min query int    false "Minimum stock"
// @Param        quantity_max query int    false "Maximum stock"
// @Param        ordering     query string false "price, quantity or name, '-' prefix for descending"
// @Param        page         query int    false "Page number" default(1)
// @Param        page_size    query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalog.ListingResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var query catalog.ListingListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.listingService.Search(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @ID           getProduct
// @Summary      Get listing
// @Description  Get one listing with its characteristics
// @Tags         products
// @Produce      json
// @Param        id path int true "Listing ID"
// @Success      200 {object} APIResponse[catalog.ListingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}

	listing, err := h.listingService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, listing)
}
